package view

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/controller"
	"github.com/p-n-ai/pai-tracker/internal/forms"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// mockTopics is an in-memory topic backend.
type mockTopics struct {
	mu      sync.Mutex
	topics  []model.Topic
	queries []api.TopicQuery
	patches []api.TopicPatch
	pageLen int
	err     error
}

func (m *mockTopics) List(_ context.Context, q api.TopicQuery) (model.Page[model.Topic], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.err != nil {
		return model.Page[model.Topic]{}, m.err
	}

	var match []model.Topic
	for _, t := range m.topics {
		if q.Completed != nil && t.IsCompleted != *q.Completed {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Search)) {
			continue
		}
		match = append(match, t)
	}

	size := m.pageLen
	if size == 0 {
		size = 10
	}
	total := max(1, (len(match)+size-1)/size)
	page := max(q.Page, 1)
	start := min((page-1)*size, len(match))
	end := min(start+size, len(match))
	return model.Page[model.Topic]{Data: append([]model.Topic{}, match[start:end]...), Page: page, TotalPages: total}, nil
}

func (m *mockTopics) Create(_ context.Context, in api.TopicInput) (model.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Topic{}, m.err
	}
	t := model.Topic{Title: in.Title, Slug: strings.ToLower(strings.ReplaceAll(in.Title, " ", "-"))}
	m.topics = append(m.topics, t)
	return t, nil
}

func (m *mockTopics) Update(_ context.Context, slug string, p api.TopicPatch) (model.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, p)
	if m.err != nil {
		return model.Topic{}, m.err
	}
	for i, t := range m.topics {
		if t.Slug != slug {
			continue
		}
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Completed != nil {
			t.IsCompleted = *p.Completed
		}
		m.topics[i] = t
		return t, nil
	}
	return model.Topic{}, &api.Error{Status: 404, Message: "Topic not found"}
}

func (m *mockTopics) SetCompleted(ctx context.Context, slug string, done bool) (model.Topic, error) {
	return m.Update(ctx, slug, api.TopicPatch{Completed: &done})
}

func (m *mockTopics) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, t := range m.topics {
		if t.Slug == slug {
			m.topics = append(m.topics[:i], m.topics[i+1:]...)
			return nil
		}
	}
	return &api.Error{Status: 404, Message: "Topic not found"}
}

func sampleTopics() []model.Topic {
	return []model.Topic{
		{Title: "Arrays", Slug: "arrays"},
		{Title: "Graphs", Slug: "graphs", IsCompleted: true},
		{Title: "Trees", Slug: "trees"},
	}
}

func testDeps(admin bool) (Deps, *notify.Memory, *activity.MemoryEventLogger) {
	st := store.New()
	role := "USER"
	if admin {
		role = model.RoleAdmin
	}
	st.Session.SetUser(&model.User{FirstName: "Ada", Role: role})
	n := notify.NewMemory()
	events := activity.NewMemoryEventLogger()
	return Deps{Session: st.Session, UI: st.UI, Notifier: n, Events: events}, n, events
}

func TestTopicsView_OpensOnSidebarTab(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics()}
	d, _, _ := testDeps(false)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)
	defer v.Close()

	if err := v.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	items, _ := v.Items().Snapshot()
	if len(items) != 2 {
		t.Errorf("pending topics = %d, want 2", len(items))
	}

	if err := v.SetTab(context.Background(), controller.TabCompleted); err != nil {
		t.Fatal(err)
	}
	if d.UI.SidebarOption() != store.OptionCompleted {
		t.Errorf("sidebar option = %q, want completed", d.UI.SidebarOption())
	}
	items, _ = v.Items().Snapshot()
	if len(items) != 1 || items[0].Slug != "graphs" {
		t.Errorf("completed topics = %v", items)
	}
}

func TestTopicsView_AdminOnly(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics()}
	d, _, _ := testDeps(false)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)
	ctx := context.Background()

	if v.Admin() {
		t.Fatal("Admin() = true for a regular user")
	}
	if _, err := v.Create(ctx, forms.TopicForm{Title: "Heaps"}); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("Create() error = %v, want ErrAdminOnly", err)
	}
	if _, err := v.Rename(ctx, "arrays", forms.TopicForm{Title: "Lists"}); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("Rename() error = %v, want ErrAdminOnly", err)
	}
	if err := v.Delete(ctx, "arrays"); !errors.Is(err, ErrAdminOnly) {
		t.Errorf("Delete() error = %v, want ErrAdminOnly", err)
	}
	if len(svc.topics) != 3 {
		t.Error("backend should be untouched")
	}

	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if res := v.Toggle(ctx, "arrays", true); res.Outcome != controller.Confirmed {
		t.Errorf("Toggle() = %v, regular users may track progress", res.Outcome)
	}
}

func TestTopicsView_CreateRenameDelete(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics()}
	d, n, events := testDeps(true)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	created, err := v.Create(ctx, forms.TopicForm{Title: " Heaps "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Title != "Heaps" {
		t.Errorf("title = %q, want trimmed", created.Title)
	}
	if _, ok := v.Find("heaps"); !ok {
		t.Error("created pending topic should be listed on the pending tab")
	}

	if _, err := v.Rename(ctx, "heaps", forms.TopicForm{Title: "Heaps"}); !errors.Is(err, forms.ErrUnchanged) {
		t.Errorf("Rename(same) error = %v, want ErrUnchanged", err)
	}
	if len(svc.patches) != 0 {
		t.Error("unchanged rename should not be submitted")
	}
	if _, err := v.Rename(ctx, "heaps", forms.TopicForm{Title: "Heaps & Priority Queues"}); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if got, _ := v.Find("heaps"); got.Title != "Heaps & Priority Queues" {
		t.Errorf("renamed title = %q", got.Title)
	}

	if err := v.Delete(ctx, "heaps"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := v.Find("heaps"); ok {
		t.Error("deleted topic still listed")
	}

	if n.Count(notify.KindSuccess) != 3 {
		t.Errorf("notifications = %v", n.All())
	}
	for _, typ := range []string{activity.ItemCreated, activity.ItemUpdated, activity.ItemDeleted} {
		if len(events.OfType(typ)) != 1 {
			t.Errorf("missing %s event", typ)
		}
	}
}

func TestTopicsView_CreateOnCompletedTabNotListed(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics()}
	d, _, _ := testDeps(true)
	d.UI.SetSidebarOption(store.OptionCompleted)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)
	ctx := context.Background()
	if err := v.Load(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := v.Create(ctx, forms.TopicForm{Title: "Tries"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := v.Find("tries"); ok {
		t.Error("a new pending topic should not appear on the completed tab")
	}
}

func TestTopicsView_InvalidFormNotSubmitted(t *testing.T) {
	svc := &mockTopics{}
	d, _, _ := testDeps(true)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)

	if _, err := v.Create(context.Background(), forms.TopicForm{Title: "  "}); err == nil {
		t.Fatal("Create() should reject a blank title")
	}
	if len(svc.topics) != 0 {
		t.Error("invalid form reached the backend")
	}
}

func TestTopicsView_BackendErrorNotified(t *testing.T) {
	svc := &mockTopics{err: &api.Error{Status: 500, Message: "Something went wrong"}}
	d, n, _ := testDeps(true)
	items := store.NewList[model.Topic]()
	v := NewTopicsView(svc, items, d)

	if err := v.Load(context.Background()); err == nil {
		t.Fatal("Load() should fail")
	}
	if items.Loaded() {
		t.Error("topics keep the loading sentinel on failure")
	}
	if _, err := v.Create(context.Background(), forms.TopicForm{Title: "Heaps"}); err == nil {
		t.Fatal("Create() should fail")
	}
	if n.Count(notify.KindError) != 2 {
		t.Errorf("notifications = %v, want two errors", n.All())
	}
}

func TestTopicsView_Render(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics()}
	d, _, _ := testDeps(false)
	v := NewTopicsView(svc, store.NewList[model.Topic](), d)

	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != loadingLine {
		t.Errorf("before load = %q, want loading line", got)
	}

	if err := v.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	v.Render(&buf)
	out := buf.String()
	for _, want := range []string{"Arrays", "trees", "pending", "page 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Graphs") {
		t.Errorf("completed topic rendered on the pending tab:\n%s", out)
	}
}

func TestTopicPicker(t *testing.T) {
	svc := &mockTopics{topics: sampleTopics(), pageLen: 1}
	d, _, _ := testDeps(false)
	p := NewTopicPicker(svc, d)
	defer p.Close()
	ctx := context.Background()

	if err := p.Open(ctx); err != nil {
		t.Fatal(err)
	}
	if opts := p.Options(); len(opts) != 1 {
		t.Fatalf("options = %v, want first page only", opts)
	}
	if svc.queries[0].Completed != nil {
		t.Error("picker should list topics regardless of completion")
	}

	ref, err := p.Pick(ctx, "trees")
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if ref.Title != "Trees" {
		t.Errorf("ref = %+v", ref)
	}
	if _, err := p.Pick(ctx, "missing"); !errors.Is(err, controller.ErrNotFound) {
		t.Errorf("Pick(missing) error = %v, want ErrNotFound", err)
	}

	p.Search(ctx, "gra")
	p.Flush()
	if opts := p.Options(); len(opts) != 1 || opts[0].Slug != "graphs" {
		t.Errorf("options after search = %v", opts)
	}
}

func TestLevelLabel(t *testing.T) {
	tests := map[model.Level]string{
		model.LevelEasy:   "Easy",
		model.LevelMedium: "Medium",
		model.LevelHard:   "Hard",
	}
	for in, want := range tests {
		if got := LevelLabel(in); got != want {
			t.Errorf("LevelLabel(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderTopics_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderTopics(&buf, []model.Topic{}, true)
	if strings.TrimSpace(buf.String()) != emptyLine {
		t.Errorf("output = %q, want %q", buf.String(), emptyLine)
	}
}
