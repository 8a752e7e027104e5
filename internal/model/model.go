// Package model defines the records exchanged with the tracker API.
package model

import (
	"fmt"
	"strings"
)

// Level is a question difficulty.
type Level string

const (
	LevelEasy   Level = "EASY"
	LevelMedium Level = "MEDIUM"
	LevelHard   Level = "HARD"
)

// Levels lists every difficulty in display order.
var Levels = []Level{LevelEasy, LevelMedium, LevelHard}

// ParseLevel accepts a difficulty in any letter case.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Valid reports whether l is one of the known difficulties.
func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

// RoleAdmin is the user role that may create, edit and delete records.
const RoleAdmin = "ADMIN"

// Topic is a practice topic.
type Topic struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsCompleted bool   `json:"isCompleted"`
}

func (t Topic) Key() string { return t.Slug }
func (t Topic) Done() bool { return t.IsCompleted }
func (t Topic) Label() string { return t.Title }

// WithDone returns a copy of t with the completion flag set.
func (t Topic) WithDone(done bool) Topic {
	t.IsCompleted = done
	return t
}

// TopicRef is the reference a question keeps to its topic.
type TopicRef struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Question is a practice question belonging to one topic.
type Question struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	Level        Level    `json:"level"`
	Completed    bool     `json:"completed"`
	YoutubeLink  *string  `json:"youtubeLink"`
	LeetcodeLink *string  `json:"leetcodeLink"`
	ArticleLink  *string  `json:"articleLink"`
	Topic        TopicRef `json:"topic"`
}

func (q Question) Key() string { return q.Slug }
func (q Question) Done() bool { return q.Completed }
func (q Question) Label() string { return q.Title }

// WithDone returns a copy of q with the completion flag set.
func (q Question) WithDone(done bool) Question {
	q.Completed = done
	return q
}

// User is the signed-in account.
type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Page is one page of a paginated list response.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}
