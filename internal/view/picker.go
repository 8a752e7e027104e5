package view

import (
	"context"
	"fmt"

	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// TopicLister lists topics.
type TopicLister interface {
	List(ctx context.Context, q api.TopicQuery) (model.Page[model.Topic], error)
}

// TopicPicker is the topic dropdown of the question form: all topics,
// paged on demand and filtered by a debounced search.
type TopicPicker struct {
	list *controller.List[model.Topic]
}

// NewTopicPicker creates a picker with its own list, separate from the
// topics screen.
func NewTopicPicker(svc TopicLister, d Deps) *TopicPicker {
	d = d.withDefaults()
	return &TopicPicker{
		list: controller.NewList(controller.Config[model.Topic]{
			Resource: "topic",
			Items:    store.NewList[model.Topic](),
			Fetch: func(ctx context.Context, q controller.Query) (model.Page[model.Topic], error) {
				return svc.List(ctx, api.TopicQuery{Page: q.Page, Search: q.Search})
			},
			Notifier:       d.Notifier,
			Events:         d.Events,
			Logger:         d.Logger,
			SearchDebounce: d.Settings.SearchDebounce,
			StaleGuard:     d.Settings.StaleGuard,
			OnFailure:      controller.ResetEmpty,
			Tab:            controller.TabAll,
		}),
	}
}

// Open loads the first page.
func (p *TopicPicker) Open(ctx context.Context) error {
	return p.list.Load(ctx)
}

// Search filters the options after the debounce delay.
func (p *TopicPicker) Search(ctx context.Context, text string) {
	p.list.Search(ctx, text)
}

// Flush applies a pending search immediately.
func (p *TopicPicker) Flush() bool {
	return p.list.FlushSearch()
}

// More loads the next page of options.
func (p *TopicPicker) More(ctx context.Context) (bool, error) {
	return p.list.LoadMore(ctx)
}

// Options returns the loaded choices.
func (p *TopicPicker) Options() []model.TopicRef {
	items, _ := p.list.Items().Snapshot()
	out := make([]model.TopicRef, len(items))
	for i, t := range items {
		out[i] = model.TopicRef{Title: t.Title, Slug: t.Slug}
	}
	return out
}

// Pick selects a loaded option by slug, paging further if needed.
func (p *TopicPicker) Pick(ctx context.Context, slug string) (model.TopicRef, error) {
	for {
		for _, o := range p.Options() {
			if o.Slug == slug {
				return o, nil
			}
		}
		more, err := p.More(ctx)
		if err != nil {
			return model.TopicRef{}, err
		}
		if !more {
			return model.TopicRef{}, fmt.Errorf("topic %q: %w", slug, controller.ErrNotFound)
		}
	}
}

// Close stops a pending search.
func (p *TopicPicker) Close() {
	p.list.Close()
}
