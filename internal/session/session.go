// Package session signs users in and out and restores the persisted session
// and theme on start-up.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/prefs"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("not signed in")

// Authenticator is the auth surface of the backend.
type Authenticator interface {
	SignIn(ctx context.Context, c api.Credentials) (string, error)
	SignUp(ctx context.Context, r api.Registration) (string, error)
	CurrentUser(ctx context.Context) (model.User, error)
}

// TokenSource reads the bearer token from the preferences store on every
// request, so a sign-in or sign-out takes effect immediately.
type TokenSource struct {
	Prefs prefs.Store
}

func (s TokenSource) Token(ctx context.Context) (string, error) {
	token, _, err := s.Prefs.Get(ctx, prefs.KeyToken)
	return token, err
}

// Manager owns the session and UI slices' persisted parts.
type Manager struct {
	prefs    prefs.Store
	auth     Authenticator
	session  *store.Session
	ui       *store.UI
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewManager(p prefs.Store, auth Authenticator, st *store.Store, n notify.Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		prefs:    p,
		auth:     auth,
		session:  st.Session,
		ui:       st.UI,
		notifier: n,
		logger:   logger,
	}
}

// SignIn validates the form, stores the issued token and loads the user.
func (m *Manager) SignIn(ctx context.Context, f forms.SignInForm) (model.User, error) {
	if err := f.Validate(); err != nil {
		return model.User{}, err
	}
	token, err := m.auth.SignIn(ctx, f.Credentials())
	if err != nil {
		notify.Report(m.notifier, err)
		return model.User{}, err
	}
	return m.establish(ctx, token, "Signed in successfully!")
}

// SignUp validates the form, registers the user and signs them in.
func (m *Manager) SignUp(ctx context.Context, f forms.SignUpForm) (model.User, error) {
	if err := f.Validate(); err != nil {
		return model.User{}, err
	}
	token, err := m.auth.SignUp(ctx, f.Registration())
	if err != nil {
		notify.Report(m.notifier, err)
		return model.User{}, err
	}
	return m.establish(ctx, token, "Account created successfully!")
}

func (m *Manager) establish(ctx context.Context, token, msg string) (model.User, error) {
	if err := m.prefs.Set(ctx, prefs.KeyToken, token); err != nil {
		err = fmt.Errorf("saving session: %w", err)
		notify.Report(m.notifier, err)
		return model.User{}, err
	}
	user, err := m.loadUser(ctx)
	if err != nil {
		notify.Report(m.notifier, err)
		return model.User{}, err
	}
	m.notifier.Success(msg)
	return user, nil
}

// SignOut forgets the token and the user. The theme is kept.
func (m *Manager) SignOut(ctx context.Context) error {
	m.session.SetUser(nil)
	if err := m.prefs.Delete(ctx, prefs.KeyToken); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	m.logger.Info("signed out")
	return nil
}

// Restore applies the persisted theme and, when a token is stored, loads the
// user it belongs to. Having no token is not an error.
func (m *Manager) Restore(ctx context.Context) error {
	theme, ok, err := m.prefs.Get(ctx, prefs.KeyTheme)
	if err != nil {
		return fmt.Errorf("reading theme: %w", err)
	}
	if !ok || !validTheme(theme) {
		theme = store.ThemeLight
	}
	m.ui.SetTheme(theme)

	token, ok, err := m.prefs.Get(ctx, prefs.KeyToken)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	if !ok || token == "" {
		return nil
	}
	if _, err := m.loadUser(ctx); err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	return nil
}

// User returns the signed-in user or ErrNoSession.
func (m *Manager) User() (model.User, error) {
	u, ok := m.session.User()
	if !ok {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

// Theme returns the active theme.
func (m *Manager) Theme() string {
	return m.ui.Theme()
}

// SetTheme persists and applies theme ("light" or "dark").
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	if !validTheme(theme) {
		return fmt.Errorf("unknown theme %q (want light or dark)", theme)
	}
	if err := m.prefs.Set(ctx, prefs.KeyTheme, theme); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	m.ui.SetTheme(theme)
	return nil
}

// ToggleTheme switches between light and dark.
func (m *Manager) ToggleTheme(ctx context.Context) (string, error) {
	next := store.ThemeDark
	if m.ui.Theme() == store.ThemeDark {
		next = store.ThemeLight
	}
	return next, m.SetTheme(ctx, next)
}

func (m *Manager) loadUser(ctx context.Context) (model.User, error) {
	user, err := m.auth.CurrentUser(ctx)
	if err != nil {
		return model.User{}, err
	}
	m.session.SetUser(&user)
	m.logger.Info("session established", "email", user.Email, "role", user.Role)
	return user, nil
}

func validTheme(theme string) bool {
	return theme == store.ThemeLight || theme == store.ThemeDark
}
