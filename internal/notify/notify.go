// Package notify delivers transient user-facing notifications.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single toast.
type Notification struct {
	Kind    Kind
	Message string
}

// Notifier is the channel every controller reports outcomes through.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Report sends err as an error notification. Nil errors are ignored.
func Report(n Notifier, err error) {
	if err == nil {
		return
	}
	n.Error(err.Error())
}

// Console prints notifications to a writer and mirrors them to the logger.
type Console struct {
	w       io.Writer
	logger  *slog.Logger
	mu      sync.Mutex
	lastErr string
}

// NewConsole creates a notifier writing to w.
func NewConsole(w io.Writer, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{w: w, logger: logger}
}

func (c *Console) Success(msg string) {
	c.write("✔", msg)
	c.logger.Debug("notification", "kind", KindSuccess, "message", msg)
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
	c.write("✖", msg)
	c.logger.Debug("notification", "kind", KindError, "message", msg)
}

// LastError returns the most recent error message shown.
func (c *Console) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Console) write(mark, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", mark, msg)
}

// Memory records notifications for tests.
type Memory struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Success(msg string) { m.add(KindSuccess, msg) }
func (m *Memory) Error(msg string) { m.add(KindError, msg) }

func (m *Memory) add(kind Kind, msg string) {
	m.mu.Lock()
	m.items = append(m.items, Notification{Kind: kind, Message: msg})
	m.mu.Unlock()
}

// All returns every recorded notification.
func (m *Memory) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification{}, m.items...)
}

// Count returns how many notifications of kind were recorded.
func (m *Memory) Count(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}
