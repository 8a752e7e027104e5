package di

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/platform/cache"
	"github.com/p-n-ai/pai-tracker/internal/platform/config"
	"github.com/p-n-ai/pai-tracker/internal/platform/database"
	"github.com/p-n-ai/pai-tracker/internal/platform/logging"
	"github.com/p-n-ai/pai-tracker/internal/prefs"
	"github.com/p-n-ai/pai-tracker/internal/session"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func provideOutput() io.Writer {
	return os.Stdout
}

func provideLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	return logger
}

func provideNotifier(out io.Writer, logger *slog.Logger) notify.Notifier {
	return notify.NewConsole(out, logger)
}

func providePrefs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (prefs.Store, func(), error) {
	switch cfg.Prefs.Backend {
	case "memory":
		return prefs.NewMemoryStore(), func() {}, nil
	case "redis":
		c, err := cache.New(ctx, cfg.Cache.URL, cfg.Prefs.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting prefs cache: %w", err)
		}
		logger.Debug("prefs backend", "backend", "redis", "prefix", c.Prefix())
		return prefs.NewRedisStore(c), func() { c.Close() }, nil
	default:
		s, err := prefs.NewFileStore(cfg.Prefs.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("prefs backend", "backend", "file", "path", s.Path())
		return s, func() {}, nil
	}
}

func provideEvents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (activity.EventLogger, func(), error) {
	if !cfg.JournalEnabled() {
		return activity.NopEventLogger{}, func() {}, nil
	}
	db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting activity journal: %w", err)
	}
	logger.Debug("activity journal enabled")
	return activity.NewPostgresEventLogger(db.Pool), db.Close, nil
}

func provideClient(cfg *config.Config, p prefs.Store) *api.Client {
	return api.NewClient(cfg.API.BaseURL, api.WithTokenSource(session.TokenSource{Prefs: p}))
}

func provideAuthenticator(c *api.Client) session.Authenticator {
	return c.Auth()
}

func provideSession(p prefs.Store, auth session.Authenticator, st *store.Store, n notify.Notifier, logger *slog.Logger) *session.Manager {
	return session.NewManager(p, auth, st, n, logger)
}
