// Package app holds the wired client: configuration, state, gateway and
// session, and builds views on demand.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/export"
	"github.com/p-n-ai/pai-tracker/internal/nav"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/platform/config"
	"github.com/p-n-ai/pai-tracker/internal/prefs"
	"github.com/p-n-ai/pai-tracker/internal/session"
	"github.com/p-n-ai/pai-tracker/internal/store"
	"github.com/p-n-ai/pai-tracker/internal/view"
)

// App is the composition root's product.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Out      io.Writer
	Notifier notify.Notifier
	Events   activity.EventLogger
	Prefs    prefs.Store
	Store    *store.Store
	Client   *api.Client
	Session  *session.Manager
}

// New constructs an App instance.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	out io.Writer,
	n notify.Notifier,
	events activity.EventLogger,
	p prefs.Store,
	st *store.Store,
	client *api.Client,
	sess *session.Manager,
) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		Out:      out,
		Notifier: n,
		Events:   events,
		Prefs:    p,
		Store:    st,
		Client:   client,
		Session:  sess,
	}
}

// Start restores the persisted theme and session. A stored token the
// backend no longer accepts is logged and otherwise ignored.
func (a *App) Start(ctx context.Context) {
	if err := a.Session.Restore(ctx); err != nil {
		a.Logger.Warn("session not restored", "error", err)
	}
}

// Navigate resolves path against the current session.
func (a *App) Navigate(path string) nav.Decision {
	_, err := a.Session.User()
	return nav.Resolve(path, err == nil)
}

func (a *App) deps() view.Deps {
	return view.Deps{
		Session:  a.Store.Session,
		UI:       a.Store.UI,
		Notifier: a.Notifier,
		Events:   a.Events,
		Logger:   a.Logger,
		Settings: a.Config.UI,
	}
}

// TopicsView builds the home screen over the shared topics slice.
func (a *App) TopicsView() *view.TopicsView {
	return view.NewTopicsView(a.Client.Topics(), a.Store.Topics, a.deps())
}

// QuestionsView builds the question list of one topic over the shared
// questions slice.
func (a *App) QuestionsView(topicSlug string) *view.QuestionsView {
	return view.NewQuestionsView(a.Client.Questions(), topicSlug, a.Store.Questions, a.deps())
}

// TopicPicker builds a topic dropdown for the question form.
func (a *App) TopicPicker() *view.TopicPicker {
	return view.NewTopicPicker(a.Client.Topics(), a.deps())
}

// Exporter builds the workbook exporter.
func (a *App) Exporter() *export.Exporter {
	return export.NewExporter(a.Client.Topics(), a.Client.Questions(), a.Notifier, a.Logger)
}
