package controller

import (
	"context"
	"fmt"
	"slices"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/notify"
)

// Outcome is the state of an optimistic toggle.
type Outcome int

const (
	// Pending: the flag is written locally, the server has not answered.
	Pending Outcome = iota
	// Confirmed: the server accepted the desired value.
	Confirmed
	// Reverted: the server rejected or contradicted it; the list was rolled back.
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ToggleResult describes one toggle. Item is the server's record when
// confirmed, otherwise the record as it was before the toggle.
type ToggleResult[T any] struct {
	Slug    string
	Desired bool
	Outcome Outcome
	Removed bool
	Item    T
	Err     error
}

// Toggle writes desired into the record's completion flag, then asks the
// server to do the same. Under a filtered tab a record whose flag no longer
// matches is removed from the list. If the server fails or answers with a
// different value the change is rolled back.
func (c *List[T]) Toggle(ctx context.Context, slug string, desired bool) ToggleResult[T] {
	res := ToggleResult[T]{Slug: slug, Desired: desired}

	c.mu.Lock()
	tab := c.criteria.Tab
	gen := c.generation
	idx := -1
	var prev T
	c.cfg.Items.Mutate(func(items []T) []T {
		idx = indexOf(items, slug)
		if idx < 0 {
			return items
		}
		prev = items[idx]
		if tab.Matches(desired) {
			items[idx] = prev.WithDone(desired)
			return items
		}
		res.Removed = true
		return slices.Delete(items, idx, idx+1)
	})
	c.mu.Unlock()

	if idx < 0 {
		res.Outcome = Reverted
		res.Err = fmt.Errorf("%s %q: %w", c.cfg.Resource, slug, ErrNotFound)
		return res
	}
	res.Item = prev
	c.observe(res)

	confirmed, err := c.cfg.Mutate.SetCompleted(ctx, slug, desired)
	if err == nil && confirmed.Done() == desired {
		res.Outcome = Confirmed
		res.Item = confirmed
		c.cfg.Notifier.Success(c.noun() + " status updated successfully!")
		c.record(activity.ToggleConfirmed, slug, map[string]any{"completed": desired})
		c.observe(res)
		return res
	}

	if err == nil {
		err = fmt.Errorf("%s %q: server kept completed=%t", c.cfg.Resource, slug, confirmed.Done())
	}
	c.revert(slug, prev, idx, gen, res.Removed)
	res.Outcome = Reverted
	res.Err = err

	notify.Report(c.cfg.Notifier, err)
	c.cfg.Logger.Warn("toggle reverted", "resource", c.cfg.Resource, "slug", slug, "error", err)
	c.record(activity.ToggleReverted, slug, map[string]any{"completed": desired, "error": err.Error()})
	c.observe(res)
	return res
}

// revert restores prev: the old flag, or a removed record at its old index.
// A list reloaded since the toggle already shows the server's state and is
// left alone.
func (c *List[T]) revert(slug string, prev T, idx int, gen uint64, removed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}
	if removed {
		c.cfg.Items.Mutate(func(items []T) []T {
			if indexOf(items, slug) >= 0 {
				return items
			}
			return slices.Insert(items, min(idx, len(items)), prev)
		})
		return
	}

	c.cfg.Items.Mutate(func(items []T) []T {
		if i := indexOf(items, slug); i >= 0 {
			items[i] = items[i].WithDone(prev.Done())
		}
		return items
	})
}

func (c *List[T]) observe(res ToggleResult[T]) {
	if c.cfg.OnToggle != nil {
		c.cfg.OnToggle(res)
	}
}
