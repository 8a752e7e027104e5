// Package store holds the client state slices shared between controllers and views.
//
// Each slice is an independent container. A controller receives only the
// slices it owns; nothing reaches for a global.
package store

import (
	"sync"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// Sidebar options select the completion tab of the topics view.
const (
	OptionAll       = "all"
	OptionPending   = "pending"
	OptionCompleted = "completed"
)

// Themes accepted by the UI slice.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store groups the four state slices.
type Store struct {
	Session   *Session
	UI        *UI
	Topics    *List[model.Topic]
	Questions *List[model.Question]
}

// New creates a store with every slice in its initial state.
func New() *Store {
	return &Store{
		Session:   &Session{},
		UI:        NewUI(),
		Topics:    NewList[model.Topic](),
		Questions: NewList[model.Question](),
	}
}

// List is an ordered sequence of records, or the loading sentinel.
type List[T any] struct {
	mu     sync.RWMutex
	items  []T
	loaded bool
}

// NewList returns a list holding the loading sentinel.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Set replaces the sequence. A nil slice still counts as loaded and empty.
func (l *List[T]) Set(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{}, items...)
	l.loaded = true
}

// SetLoading puts the loading sentinel back.
func (l *List[T]) SetLoading() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.loaded = false
}

// Snapshot returns a copy of the sequence and whether it is loaded.
func (l *List[T]) Snapshot() ([]T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.loaded {
		return nil, false
	}
	return append([]T{}, l.items...), true
}

// Loaded reports whether the list holds a sequence rather than the sentinel.
func (l *List[T]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Len returns the number of items, zero while loading.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Mutate applies fn to the loaded sequence atomically and stores its result.
// It returns false without calling fn while the list is loading.
func (l *List[T]) Mutate(fn func(items []T) []T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		return false
	}
	l.items = fn(l.items)
	if l.items == nil {
		l.items = []T{}
	}
	return true
}

// Session holds the signed-in user, if any.
type Session struct {
	mu   sync.RWMutex
	user *model.User
}

// SetUser records the signed-in user. Nil clears it.
func (s *Session) SetUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// User returns the signed-in user.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// IsAdmin reports whether a signed-in admin is present.
func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.IsAdmin()
}

// UI holds theme and navigation selection.
type UI struct {
	mu            sync.RWMutex
	theme         string
	sidebarOption string
}

// NewUI returns the UI slice with its defaults: light theme, pending topics.
func NewUI() *UI {
	return &UI{theme: ThemeLight, sidebarOption: OptionPending}
}

func (u *UI) Theme() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.theme
}

func (u *UI) SetTheme(theme string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.theme = theme
}

func (u *UI) SidebarOption() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.sidebarOption
}

func (u *UI) SetSidebarOption(option string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sidebarOption = option
}
