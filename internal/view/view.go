// Package view assembles the topic and question screens: a list controller,
// the admin forms and the renderers, all gated by the signed-in user's role.
package view

import (
	"errors"
	"log/slog"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/platform/config"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// ErrAdminOnly is returned when a non-admin attempts an admin operation.
var ErrAdminOnly = errors.New("only admins can do that")

// Deps are the collaborators shared by every view.
type Deps struct {
	Session  *store.Session
	UI       *store.UI
	Notifier notify.Notifier
	Events   activity.EventLogger
	Logger   *slog.Logger
	Settings config.UIConfig
}

func (d Deps) withDefaults() Deps {
	if d.Session == nil {
		d.Session = &store.Session{}
	}
	if d.UI == nil {
		d.UI = store.NewUI()
	}
	if d.Notifier == nil {
		d.Notifier = notify.NewMemory()
	}
	if d.Events == nil {
		d.Events = activity.NopEventLogger{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// Admin reports whether admin controls are enabled for the current user.
func (d Deps) Admin() bool {
	return d.Session.IsAdmin()
}

func (d Deps) requireAdmin() error {
	if !d.Admin() {
		return ErrAdminOnly
	}
	return nil
}

func (d Deps) record(eventType, resource, slug string) {
	err := d.Events.LogEvent(activity.Event{EventType: eventType, Resource: resource, Slug: slug})
	if err != nil {
		d.Logger.Warn("failed to record event", "event", eventType, "error", err)
	}
}
