package controller

import (
	"fmt"
	"slices"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// Tab selects which completion state a list shows.
type Tab string

const (
	TabAll       Tab = "all"
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
)

// ParseTab accepts "all", "pending" or "completed".
func ParseTab(s string) (Tab, error) {
	switch t := Tab(s); t {
	case TabAll, TabPending, TabCompleted:
		return t, nil
	}
	return "", fmt.Errorf("unknown tab %q (want all, pending or completed)", s)
}

// Completed maps the tab to the isCompleted filter. Nil means no filter.
func (t Tab) Completed() *bool {
	switch t {
	case TabPending:
		v := false
		return &v
	case TabCompleted:
		v := true
		return &v
	default:
		return nil
	}
}

// Matches reports whether a record with the given flag belongs on the tab.
func (t Tab) Matches(done bool) bool {
	c := t.Completed()
	return c == nil || *c == done
}

// LevelSet is an insertion-ordered set of difficulties.
type LevelSet []model.Level

// Toggle removes l if present, otherwise adds it.
func (s LevelSet) Toggle(l model.Level) LevelSet {
	if i := slices.Index(s, l); i >= 0 {
		return slices.Delete(slices.Clone(s), i, i+1)
	}
	return append(slices.Clone(s), l)
}

// Has reports whether l is selected.
func (s LevelSet) Has(l model.Level) bool {
	return slices.Contains(s, l)
}

// Criteria is the filter and search state of one list.
type Criteria struct {
	Search string
	Levels LevelSet
	Tab    Tab
}

// Query is what a list asks its fetcher for.
type Query struct {
	Page      int
	Search    string
	Completed *bool
	Levels    []model.Level
}
