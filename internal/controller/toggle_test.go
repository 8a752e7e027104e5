package controller

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

func seeded(items ...model.Topic) *store.List[model.Topic] {
	l := store.NewList[model.Topic]()
	l.Set(items)
	return l
}

func TestToggle_TabRules(t *testing.T) {
	tests := []struct {
		name        string
		tab         Tab
		start       bool
		desired     bool
		wantRemoved bool
	}{
		{"all keeps a completed item", TabAll, false, true, false},
		{"all keeps a reopened item", TabAll, true, false, false},
		{"pending removes a completed item", TabPending, false, true, true},
		{"completed removes a reopened item", TabCompleted, true, false, true},
		{"pending keeps a matching item", TabPending, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := seeded(
				model.Topic{Title: "Arrays", Slug: "arrays", IsCompleted: tt.start},
				model.Topic{Title: "Graphs", Slug: "graphs", IsCompleted: tt.start},
			)

			var optimistic []model.Topic
			var h *harness
			h = newHarness(t, Config[model.Topic]{
				Items: items,
				Tab:   tt.tab,
				OnToggle: func(r ToggleResult[model.Topic]) {
					if r.Outcome == Pending {
						optimistic, _ = h.list.Items().Snapshot()
					}
				},
			})

			res := h.list.Toggle(context.Background(), "arrays", tt.desired)
			if res.Outcome != Confirmed {
				t.Fatalf("Outcome = %v, err = %v, want confirmed", res.Outcome, res.Err)
			}
			if res.Removed != tt.wantRemoved {
				t.Errorf("Removed = %v, want %v", res.Removed, tt.wantRemoved)
			}

			final, _ := items.Snapshot()
			for _, snapshot := range [][]model.Topic{optimistic, final} {
				i := slices.IndexFunc(snapshot, func(tp model.Topic) bool { return tp.Slug == "arrays" })
				if tt.wantRemoved {
					if i >= 0 {
						t.Errorf("arrays still listed: %v", slugs(snapshot))
					}
					continue
				}
				if i < 0 {
					t.Fatalf("arrays removed under %s", tt.tab)
				}
				if snapshot[i].IsCompleted != tt.desired {
					t.Errorf("IsCompleted = %v, want %v", snapshot[i].IsCompleted, tt.desired)
				}
			}
		})
	}
}

func TestToggle_RevertsOnFailure(t *testing.T) {
	tests := []struct {
		name string
		tab  Tab
	}{
		{"in place under all", TabAll},
		{"reinserted under pending", TabPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := seeded(
				model.Topic{Title: "Arrays", Slug: "arrays"},
				model.Topic{Title: "Graphs", Slug: "graphs"},
				model.Topic{Title: "Trees", Slug: "trees"},
			)
			h := newHarness(t, Config[model.Topic]{Items: items, Tab: tt.tab})
			h.mutator.setErr = errors.New("Unauthorized")

			res := h.list.Toggle(context.Background(), "graphs", true)
			if res.Outcome != Reverted || res.Err == nil {
				t.Fatalf("result = %+v, want reverted with error", res)
			}

			got, _ := items.Snapshot()
			if !slices.Equal(slugs(got), []string{"arrays", "graphs", "trees"}) {
				t.Errorf("items = %v, want original order", slugs(got))
			}
			if got[1].IsCompleted {
				t.Error("graphs should be back to pending")
			}

			all := h.notifier.All()
			if len(all) != 1 || all[0].Kind != notify.KindError || all[0].Message != "Unauthorized" {
				t.Errorf("notifications = %v", all)
			}
			if len(h.events.OfType(activity.ToggleReverted)) != 1 {
				t.Error("expected toggle.reverted event")
			}
		})
	}
}

func TestToggle_RevertsOnMismatch(t *testing.T) {
	items := seeded(model.Topic{Title: "Arrays", Slug: "arrays"})
	var outcomes []Outcome
	h := newHarness(t, Config[model.Topic]{
		Items:    items,
		OnToggle: func(r ToggleResult[model.Topic]) { outcomes = append(outcomes, r.Outcome) },
	})
	h.mutator.contradict = true

	res := h.list.Toggle(context.Background(), "arrays", true)
	if res.Outcome != Reverted {
		t.Fatalf("Outcome = %v, want reverted", res.Outcome)
	}
	if !slices.Equal(outcomes, []Outcome{Pending, Reverted}) {
		t.Errorf("observed outcomes = %v, want [pending reverted]", outcomes)
	}

	got, _ := items.Snapshot()
	if got[0].IsCompleted {
		t.Error("flag should be reverted to false")
	}
	if h.notifier.Count(notify.KindError) != 1 {
		t.Errorf("notifications = %v, want one error", h.notifier.All())
	}
}

func TestToggle_Confirmed(t *testing.T) {
	items := seeded(model.Topic{Title: "Arrays", Slug: "arrays"})
	var outcomes []Outcome
	h := newHarness(t, Config[model.Topic]{
		Items:    items,
		OnToggle: func(r ToggleResult[model.Topic]) { outcomes = append(outcomes, r.Outcome) },
	})

	res := h.list.Toggle(context.Background(), "arrays", true)
	if res.Outcome != Confirmed || !res.Item.IsCompleted {
		t.Fatalf("result = %+v, want confirmed completed item", res)
	}
	if !slices.Equal(outcomes, []Outcome{Pending, Confirmed}) {
		t.Errorf("observed outcomes = %v", outcomes)
	}
	if h.notifier.Count(notify.KindSuccess) != 1 {
		t.Errorf("notifications = %v, want one success", h.notifier.All())
	}
	if len(h.events.OfType(activity.ToggleConfirmed)) != 1 {
		t.Error("expected toggle.confirmed event")
	}
}

func TestToggle_UnknownSlug(t *testing.T) {
	h := newHarness(t, Config[model.Topic]{Items: seeded(model.Topic{Slug: "arrays"})})

	res := h.list.Toggle(context.Background(), "missing", true)
	if res.Outcome != Reverted || !errors.Is(res.Err, ErrNotFound) {
		t.Errorf("result = %+v, want reverted with ErrNotFound", res)
	}
}

func TestToggle_NoRevertAfterReload(t *testing.T) {
	tests := []struct {
		name string
		tab  Tab
	}{
		{"removed under pending", TabPending},
		{"in place under all", TabAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := seeded(model.Topic{Title: "Arrays", Slug: "arrays"})
			h := newHarness(t, Config[model.Topic]{Items: items, Tab: tt.tab})
			fresh := model.Topic{Title: "Arrays", Slug: "arrays", IsCompleted: true}
			if tt.tab == TabPending {
				fresh = model.Topic{Slug: "fresh"}
			}
			h.fetcher.respond = func(Query) (model.Page[model.Topic], error) {
				return model.Page[model.Topic]{Data: []model.Topic{fresh}, Page: 1, TotalPages: 1}, nil
			}
			h.mutator.setErr = errors.New("boom")

			var reloaded bool
			h.list.cfg.OnToggle = func(r ToggleResult[model.Topic]) {
				if r.Outcome == Pending && !reloaded {
					reloaded = true
					if err := h.list.Load(context.Background()); err != nil {
						t.Errorf("Load() error = %v", err)
					}
				}
			}

			if res := h.list.Toggle(context.Background(), "arrays", true); res.Outcome != Reverted {
				t.Fatalf("Outcome = %v, want reverted", res.Outcome)
			}
			got, _ := items.Snapshot()
			if len(got) != 1 || got[0] != fresh {
				t.Errorf("items = %+v, want only the reloaded %+v", got, fresh)
			}
		})
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{Pending: "pending", Confirmed: "confirmed", Reverted: "reverted"} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}
