package view

import (
	"context"
	"fmt"
	"io"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// TopicService is the topic surface of the backend.
type TopicService interface {
	List(ctx context.Context, q api.TopicQuery) (model.Page[model.Topic], error)
	Create(ctx context.Context, in api.TopicInput) (model.Topic, error)
	Update(ctx context.Context, slug string, patch api.TopicPatch) (model.Topic, error)
	SetCompleted(ctx context.Context, slug string, done bool) (model.Topic, error)
	Delete(ctx context.Context, slug string) error
}

// TopicsView is the home screen: the topic list with its completion tabs
// and search, plus admin create, rename and delete.
type TopicsView struct {
	*controller.List[model.Topic]

	svc  TopicService
	deps Deps
}

// NewTopicsView builds the view over items. The initial tab is the UI
// slice's sidebar option.
func NewTopicsView(svc TopicService, items *store.List[model.Topic], d Deps) *TopicsView {
	d = d.withDefaults()
	tab, err := controller.ParseTab(d.UI.SidebarOption())
	if err != nil {
		tab = controller.TabPending
	}

	v := &TopicsView{svc: svc, deps: d}
	v.List = controller.NewList(controller.Config[model.Topic]{
		Resource: "topic",
		Items:    items,
		Fetch: func(ctx context.Context, q controller.Query) (model.Page[model.Topic], error) {
			return svc.List(ctx, api.TopicQuery{Page: q.Page, Completed: q.Completed, Search: q.Search})
		},
		Mutate:         svc,
		Notifier:       d.Notifier,
		Events:         d.Events,
		Logger:         d.Logger,
		SearchDebounce: d.Settings.SearchDebounce,
		StaleGuard:     d.Settings.StaleGuard,
		OnFailure:      controller.KeepLoading,
		Tab:            tab,
	})
	return v
}

// Admin reports whether admin controls are shown.
func (v *TopicsView) Admin() bool {
	return v.deps.Admin()
}

// SetTab remembers the tab as the sidebar option and reloads.
func (v *TopicsView) SetTab(ctx context.Context, tab controller.Tab) error {
	if _, err := controller.ParseTab(string(tab)); err != nil {
		return err
	}
	v.deps.UI.SetSidebarOption(string(tab))
	return v.List.SetTab(ctx, tab)
}

// Apply sets search and tab together, remembering the tab, and reloads.
func (v *TopicsView) Apply(ctx context.Context, cr controller.Criteria) error {
	err := v.List.Apply(ctx, cr)
	v.deps.UI.SetSidebarOption(string(v.Criteria().Tab))
	return err
}

// Find returns the displayed topic with slug.
func (v *TopicsView) Find(slug string) (model.Topic, bool) {
	items, _ := v.Items().Snapshot()
	for _, t := range items {
		if t.Slug == slug {
			return t, true
		}
	}
	return model.Topic{}, false
}

// Create submits the form and adds the new topic to the list when it
// belongs on the current tab.
func (v *TopicsView) Create(ctx context.Context, f forms.TopicForm) (model.Topic, error) {
	if err := v.deps.requireAdmin(); err != nil {
		return model.Topic{}, err
	}
	if err := f.Validate(); err != nil {
		return model.Topic{}, err
	}

	t, err := v.svc.Create(ctx, f.Input())
	if err != nil {
		notify.Report(v.deps.Notifier, err)
		return model.Topic{}, err
	}
	if v.Criteria().Tab.Matches(t.Done()) {
		v.Insert(t)
	}
	v.deps.Notifier.Success("Topic created successfully!")
	v.deps.record(activity.ItemCreated, "topic", t.Slug)
	return t, nil
}

// Rename changes a topic's title. When the topic is displayed, a title
// identical to the current one is rejected with forms.ErrUnchanged.
func (v *TopicsView) Rename(ctx context.Context, slug string, f forms.TopicForm) (model.Topic, error) {
	if err := v.deps.requireAdmin(); err != nil {
		return model.Topic{}, err
	}
	if orig, ok := v.Find(slug); ok {
		if err := f.ValidateUpdate(orig.Title); err != nil {
			return model.Topic{}, err
		}
	} else if err := f.Validate(); err != nil {
		return model.Topic{}, err
	}

	t, err := v.svc.Update(ctx, slug, f.Patch())
	if err != nil {
		notify.Report(v.deps.Notifier, err)
		return model.Topic{}, err
	}
	if t.Slug == "" {
		t.Slug = slug
	}
	v.Replace(t)
	v.deps.Notifier.Success("Topic updated successfully!")
	v.deps.record(activity.ItemUpdated, "topic", slug)
	return t, nil
}

// Delete removes a topic. Admin only.
func (v *TopicsView) Delete(ctx context.Context, slug string) error {
	if err := v.deps.requireAdmin(); err != nil {
		return err
	}
	return v.List.Delete(ctx, slug)
}

// Render writes the current list.
func (v *TopicsView) Render(w io.Writer) error {
	items, loaded := v.Items().Snapshot()
	cur, total := v.Page()
	if err := RenderTopics(w, items, loaded); err != nil {
		return err
	}
	return renderFooter(w, loaded, len(items), cur, total, v.Criteria())
}

func renderFooter(w io.Writer, loaded bool, n, cur, total int, c controller.Criteria) error {
	if !loaded || n == 0 {
		return nil
	}
	line := fmt.Sprintf("tab %s · page %d/%d", c.Tab, cur, total)
	if c.Search != "" {
		line += fmt.Sprintf(" · search %q", c.Search)
	}
	if len(c.Levels) > 0 {
		line += fmt.Sprintf(" · levels %v", []model.Level(c.Levels))
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
