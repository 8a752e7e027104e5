// Package controller keeps a paginated resource list in step with its
// filter criteria, page cursor and optimistic edits.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/p-n-ai/pai-tracker/internal/activity"
	"github.com/p-n-ai/pai-tracker/internal/model"
	"github.com/p-n-ai/pai-tracker/internal/notify"
	"github.com/p-n-ai/pai-tracker/internal/store"
)

// ErrNotFound is returned when a slug is not in the displayed list.
var ErrNotFound = errors.New("not found in list")

// Record is a list entry identified by slug with a completion flag.
type Record[T any] interface {
	Key() string
	Done() bool
	WithDone(done bool) T
}

// Fetcher loads one page of records.
type Fetcher[T any] func(ctx context.Context, q Query) (model.Page[T], error)

// Mutator performs the remote writes a list reconciles against.
type Mutator[T any] interface {
	SetCompleted(ctx context.Context, slug string, done bool) (T, error)
	Delete(ctx context.Context, slug string) error
}

// FailurePolicy decides what a failed reload leaves in the list.
type FailurePolicy int

const (
	// KeepLoading leaves the loading sentinel in place.
	KeepLoading FailurePolicy = iota
	// ResetEmpty replaces the list with an empty sequence.
	ResetEmpty
)

// Config wires a List.
type Config[T any] struct {
	// Resource names the records in events and notifications, e.g. "topic".
	Resource string
	Items    *store.List[T]
	Fetch    Fetcher[T]
	Mutate   Mutator[T]

	Notifier notify.Notifier
	Events   activity.EventLogger
	Logger   *slog.Logger

	SearchDebounce time.Duration
	// StaleGuard discards responses to requests superseded by a newer reload.
	StaleGuard bool
	OnFailure  FailurePolicy
	Tab        Tab
	Levels     LevelSet

	// OnToggle, if set, observes every state a toggle passes through.
	OnToggle func(ToggleResult[T])
}

// List is the controller for one displayed resource list.
type List[T Record[T]] struct {
	cfg      Config[T]
	debounce *Debouncer

	mu          sync.Mutex
	criteria    Criteria
	currentPage int
	totalPages  int
	appending   bool
	generation  uint64
}

// NewList creates a controller. The list is not loaded until Load is called.
func NewList[T Record[T]](cfg Config[T]) *List[T] {
	if cfg.Items == nil {
		cfg.Items = store.NewList[T]()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewMemory()
	}
	if cfg.Events == nil {
		cfg.Events = activity.NopEventLogger{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tab == "" {
		cfg.Tab = TabAll
	}
	return &List[T]{
		cfg:      cfg,
		debounce: NewDebouncer(cfg.SearchDebounce),
		criteria: Criteria{Tab: cfg.Tab, Levels: slices.Clone(cfg.Levels)},
	}
}

// Items exposes the store slice the controller writes to.
func (c *List[T]) Items() *store.List[T] {
	return c.cfg.Items
}

// Criteria returns the current search and filter state.
func (c *List[T]) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	cr := c.criteria
	cr.Levels = slices.Clone(cr.Levels)
	return cr
}

// Page returns the page cursor of the last successful response.
func (c *List[T]) Page() (current, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage, c.totalPages
}

// HasMore reports whether LoadMore would issue a request.
func (c *List[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.appending && c.cfg.Items.Loaded() && c.currentPage < c.totalPages
}

// Load puts the loading sentinel in place and fetches page 1 with the
// current criteria.
func (c *List[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	q := c.queryLocked(1)
	c.cfg.Items.SetLoading()
	c.mu.Unlock()

	page, err := c.cfg.Fetch(ctx, q)

	c.mu.Lock()
	if c.staleLocked(gen) {
		c.mu.Unlock()
		c.cfg.Logger.Debug("discarding superseded response", "resource", c.cfg.Resource, "generation", gen)
		c.record(activity.ListStale, "", map[string]any{"page": q.Page})
		return nil
	}
	if err != nil {
		if c.cfg.OnFailure == ResetEmpty {
			c.cfg.Items.Set([]T{})
		}
		c.currentPage, c.totalPages = 0, 0
		c.mu.Unlock()
		c.fail(q.Page, err)
		return err
	}
	c.cfg.Items.Set(page.Data)
	c.currentPage = pageOr(page.Page, q.Page)
	c.totalPages = page.TotalPages
	current, total := c.currentPage, c.totalPages
	c.mu.Unlock()

	c.record(activity.ListLoaded, "", map[string]any{
		"page":        current,
		"total_pages": total,
		"count":       len(page.Data),
	})
	return nil
}

// LoadMore appends the next page. It reports false without a request when
// the list is on its last page, still loading, or already appending.
func (c *List[T]) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.appending || !c.cfg.Items.Loaded() || c.currentPage >= c.totalPages {
		c.mu.Unlock()
		return false, nil
	}
	c.appending = true
	gen := c.generation
	q := c.queryLocked(c.currentPage + 1)
	c.mu.Unlock()

	page, err := c.cfg.Fetch(ctx, q)

	c.mu.Lock()
	c.appending = false
	if c.staleLocked(gen) {
		c.mu.Unlock()
		c.cfg.Logger.Debug("discarding superseded page", "resource", c.cfg.Resource, "page", q.Page)
		c.record(activity.ListStale, "", map[string]any{"page": q.Page})
		return false, nil
	}
	if err != nil {
		c.mu.Unlock()
		c.fail(q.Page, err)
		return false, err
	}
	appended := c.cfg.Items.Mutate(func(items []T) []T {
		return append(items, page.Data...)
	})
	if !appended {
		c.mu.Unlock()
		return false, nil
	}
	c.currentPage = pageOr(page.Page, q.Page)
	c.totalPages = page.TotalPages
	current, total := c.currentPage, c.totalPages
	c.mu.Unlock()

	c.record(activity.ListAppended, "", map[string]any{
		"page":        current,
		"total_pages": total,
		"count":       len(page.Data),
	})
	return true, nil
}

// Search records text and schedules a debounced page-1 reload. Only the
// last text entered within the debounce window is requested.
func (c *List[T]) Search(ctx context.Context, text string) {
	c.mu.Lock()
	c.criteria.Search = text
	c.mu.Unlock()

	c.debounce.Trigger(func() {
		if err := c.Load(ctx); err != nil {
			c.cfg.Logger.Debug("debounced search failed", "resource", c.cfg.Resource, "error", err)
		}
	})
}

// ClearSearch is a search for the empty string.
func (c *List[T]) ClearSearch(ctx context.Context) {
	c.Search(ctx, "")
}

// FlushSearch runs a waiting debounced search now. It reports whether one
// was waiting.
func (c *List[T]) FlushSearch() bool {
	return c.debounce.Flush()
}

// ToggleLevel adds or removes a difficulty and reloads immediately.
func (c *List[T]) ToggleLevel(ctx context.Context, level model.Level) error {
	if !level.Valid() {
		return fmt.Errorf("unknown level %q", level)
	}
	c.mu.Lock()
	c.criteria.Levels = c.criteria.Levels.Toggle(level)
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetTab switches the completion tab, clearing accumulated results, and
// reloads page 1.
func (c *List[T]) SetTab(ctx context.Context, tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	c.mu.Lock()
	c.criteria.Tab = tab
	c.mu.Unlock()
	return c.Load(ctx)
}

// Apply replaces all criteria at once and reloads page 1. A pending
// debounced search is dropped.
func (c *List[T]) Apply(ctx context.Context, cr Criteria) error {
	if cr.Tab == "" {
		cr.Tab = c.Criteria().Tab
	}
	if _, err := ParseTab(string(cr.Tab)); err != nil {
		return err
	}
	for _, l := range cr.Levels {
		if !l.Valid() {
			return fmt.Errorf("unknown level %q", l)
		}
	}

	c.debounce.Stop()
	c.mu.Lock()
	c.criteria = Criteria{Search: cr.Search, Levels: slices.Clone(cr.Levels), Tab: cr.Tab}
	c.mu.Unlock()
	return c.Load(ctx)
}

// Insert adds a newly created record at the end of the list. A list that
// is still loading becomes a one-element list.
func (c *List[T]) Insert(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.cfg.Items.Mutate(func(items []T) []T { return append(items, item) }) {
		c.cfg.Items.Set([]T{item})
	}
}

// Replace swaps the record with the same slug for item.
func (c *List[T]) Replace(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	c.cfg.Items.Mutate(func(items []T) []T {
		if i := indexOf(items, item.Key()); i >= 0 {
			items[i] = item
			found = true
		}
		return items
	})
	return found
}

// Remove drops the record with slug from the list.
func (c *List[T]) Remove(slug string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	c.cfg.Items.Mutate(func(items []T) []T {
		i := indexOf(items, slug)
		if i < 0 {
			return items
		}
		found = true
		return slices.Delete(items, i, i+1)
	})
	return found
}

// Delete removes the record remotely and then from the list. On failure
// the list is left unchanged.
func (c *List[T]) Delete(ctx context.Context, slug string) error {
	if err := c.cfg.Mutate.Delete(ctx, slug); err != nil {
		notify.Report(c.cfg.Notifier, err)
		c.cfg.Logger.Warn("delete failed", "resource", c.cfg.Resource, "slug", slug, "error", err)
		c.record(activity.ItemDeleteFailed, slug, map[string]any{"error": err.Error()})
		return err
	}
	c.Remove(slug)
	c.cfg.Notifier.Success(c.noun() + " deleted successfully!")
	c.record(activity.ItemDeleted, slug, nil)
	return nil
}

// Close drops any waiting debounced search.
func (c *List[T]) Close() {
	c.debounce.Stop()
}

func (c *List[T]) queryLocked(page int) Query {
	return Query{
		Page:      page,
		Search:    strings.TrimSpace(c.criteria.Search),
		Completed: c.criteria.Tab.Completed(),
		Levels:    slices.Clone(c.criteria.Levels),
	}
}

func (c *List[T]) staleLocked(gen uint64) bool {
	return c.cfg.StaleGuard && gen != c.generation
}

func (c *List[T]) fail(page int, err error) {
	notify.Report(c.cfg.Notifier, err)
	c.cfg.Logger.Warn("list request failed", "resource", c.cfg.Resource, "page", page, "error", err)
	c.record(activity.ListFailed, "", map[string]any{"page": page, "error": err.Error()})
}

func (c *List[T]) record(eventType, slug string, data map[string]any) {
	err := c.cfg.Events.LogEvent(activity.Event{
		EventType: eventType,
		Resource:  c.cfg.Resource,
		Slug:      slug,
		Data:      data,
	})
	if err != nil {
		c.cfg.Logger.Warn("failed to record event", "event", eventType, "error", err)
	}
}

func (c *List[T]) noun() string {
	if c.cfg.Resource == "" {
		return "Item"
	}
	return strings.ToUpper(c.cfg.Resource[:1]) + c.cfg.Resource[1:]
}

func indexOf[T Record[T]](items []T, slug string) int {
	return slices.IndexFunc(items, func(it T) bool { return it.Key() == slug })
}

func pageOr(page, fallback int) int {
	if page < 1 {
		return fallback
	}
	return page
}
