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

// QuestionService is the question surface of the backend.
type QuestionService interface {
	List(ctx context.Context, q api.QuestionQuery) (model.Page[model.Question], error)
	Create(ctx context.Context, in api.QuestionInput) (model.Question, error)
	Update(ctx context.Context, slug string, patch api.QuestionPatch) (model.Question, error)
	SetCompleted(ctx context.Context, slug string, done bool) (model.Question, error)
	Delete(ctx context.Context, slug string) error
}

// QuestionsView lists the questions of one topic with tabs, search and the
// difficulty filter, plus admin create, update and delete.
type QuestionsView struct {
	*controller.List[model.Question]

	svc       QuestionService
	topicSlug string
	deps      Deps
}

// NewQuestionsView builds the view for the topic with topicSlug. It opens
// on the pending tab.
func NewQuestionsView(svc QuestionService, topicSlug string, items *store.List[model.Question], d Deps) *QuestionsView {
	d = d.withDefaults()
	v := &QuestionsView{svc: svc, topicSlug: topicSlug, deps: d}
	v.List = controller.NewList(controller.Config[model.Question]{
		Resource: "question",
		Items:    items,
		Fetch: func(ctx context.Context, q controller.Query) (model.Page[model.Question], error) {
			return svc.List(ctx, api.QuestionQuery{
				TopicSlug: topicSlug,
				Page:      q.Page,
				Search:    q.Search,
				Completed: q.Completed,
				Levels:    q.Levels,
			})
		},
		Mutate:         svc,
		Notifier:       d.Notifier,
		Events:         d.Events,
		Logger:         d.Logger,
		SearchDebounce: d.Settings.SearchDebounce,
		StaleGuard:     d.Settings.StaleGuard,
		OnFailure:      controller.ResetEmpty,
		Tab:            controller.TabPending,
	})
	return v
}

// TopicSlug is the topic whose questions are listed.
func (v *QuestionsView) TopicSlug() string {
	return v.topicSlug
}

// Admin reports whether admin controls are shown.
func (v *QuestionsView) Admin() bool {
	return v.deps.Admin()
}

// Find returns the displayed question with slug.
func (v *QuestionsView) Find(slug string) (model.Question, bool) {
	items, _ := v.Items().Snapshot()
	for _, q := range items {
		if q.Slug == slug {
			return q, true
		}
	}
	return model.Question{}, false
}

// NewForm returns an empty question form preset to this view's topic.
func (v *QuestionsView) NewForm(topic model.TopicRef) forms.QuestionForm {
	if topic.Slug == "" {
		topic.Slug = v.topicSlug
	}
	return forms.QuestionForm{Level: model.LevelEasy, Topic: &topic}
}

// Create submits the form. The new question is listed only if it belongs to
// this topic and the current tab.
func (v *QuestionsView) Create(ctx context.Context, f forms.QuestionForm) (model.Question, error) {
	if err := v.deps.requireAdmin(); err != nil {
		return model.Question{}, err
	}
	if err := f.Validate(); err != nil {
		return model.Question{}, err
	}

	q, err := v.svc.Create(ctx, f.Input())
	if err != nil {
		notify.Report(v.deps.Notifier, err)
		return model.Question{}, err
	}
	if v.belongs(q) && v.Criteria().Tab.Matches(q.Done()) {
		v.Insert(q)
	}
	v.deps.Notifier.Success("Question created successfully!")
	v.deps.record(activity.ItemCreated, "question", q.Slug)
	return q, nil
}

// Update sends the fields of f that differ from the displayed question. A
// question moved to another topic leaves the list.
func (v *QuestionsView) Update(ctx context.Context, slug string, f forms.QuestionForm) (model.Question, error) {
	if err := v.deps.requireAdmin(); err != nil {
		return model.Question{}, err
	}
	orig, ok := v.Find(slug)
	if !ok {
		return model.Question{}, fmt.Errorf("question %q: %w", slug, controller.ErrNotFound)
	}
	original := forms.QuestionFormFrom(orig)
	if err := f.ValidateUpdate(original); err != nil {
		return model.Question{}, err
	}

	q, err := v.svc.Update(ctx, slug, f.Patch(original))
	if err != nil {
		notify.Report(v.deps.Notifier, err)
		return model.Question{}, err
	}
	if q.Slug == "" {
		q.Slug = slug
	}
	if v.belongs(q) {
		v.Replace(q)
	} else {
		v.Remove(slug)
	}
	v.deps.Notifier.Success("Question updated successfully!")
	v.deps.record(activity.ItemUpdated, "question", slug)
	return q, nil
}

// Delete removes a question. Admin only.
func (v *QuestionsView) Delete(ctx context.Context, slug string) error {
	if err := v.deps.requireAdmin(); err != nil {
		return err
	}
	return v.List.Delete(ctx, slug)
}

// Render writes the current list.
func (v *QuestionsView) Render(w io.Writer) error {
	items, loaded := v.Items().Snapshot()
	cur, total := v.Page()
	if err := RenderQuestions(w, items, loaded); err != nil {
		return err
	}
	return renderFooter(w, loaded, len(items), cur, total, v.Criteria())
}

func (v *QuestionsView) belongs(q model.Question) bool {
	return q.Topic.Slug == "" || q.Topic.Slug == v.topicSlug
}
