// Package forms validates user input before it reaches the API.
//
// A form that fails validation must not be submitted; the validation errors
// are keyed by field.
package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-slug"

	"github.com/p-n-ai/pai-tracker/internal/api"
	"github.com/p-n-ai/pai-tracker/internal/model"
)

// ErrUnchanged blocks an update that would not modify anything.
var ErrUnchanged = errors.New("nothing changed")

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var notBlank = validation.By(func(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("forms.blank", "cannot be blank")
	}
	return nil
})

// ValidateSlug checks a slug given on the command line.
func ValidateSlug(s string) error {
	if !slug.IsValid(s) {
		return fmt.Errorf("invalid slug %q", s)
	}
	return nil
}

// TopicForm is the create/rename topic form.
type TopicForm struct {
	Title string `json:"title"`
}

// Validate checks the form for creation.
func (f TopicForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, notBlank, validation.RuneLength(0, 120)),
	)
}

// ValidateUpdate checks a rename of a topic currently titled original.
func (f TopicForm) ValidateUpdate(original string) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(f.Title) == strings.TrimSpace(original) {
		return ErrUnchanged
	}
	return nil
}

// Input converts the form into a creation body.
func (f TopicForm) Input() api.TopicInput {
	return api.TopicInput{Title: strings.TrimSpace(f.Title)}
}

// Patch converts the form into a rename.
func (f TopicForm) Patch() api.TopicPatch {
	title := strings.TrimSpace(f.Title)
	return api.TopicPatch{Title: &title}
}

// QuestionForm is the create/update question form. Empty links mean none.
type QuestionForm struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Level        model.Level     `json:"level"`
	YoutubeLink  string          `json:"youtubeLink"`
	LeetcodeLink string          `json:"leetcodeLink"`
	ArticleLink  string          `json:"articleLink"`
	Topic        *model.TopicRef `json:"topic"`
}

// QuestionFormFrom fills a form with an existing question for editing.
func QuestionFormFrom(q model.Question) QuestionForm {
	topic := q.Topic
	return QuestionForm{
		Title:        q.Title,
		Description:  q.Description,
		Level:        q.Level,
		YoutubeLink:  deref(q.YoutubeLink),
		LeetcodeLink: deref(q.LeetcodeLink),
		ArticleLink:  deref(q.ArticleLink),
		Topic:        &topic,
	}
}

// Validate checks the form for creation.
func (f QuestionForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, notBlank),
		validation.Field(&f.Description, notBlank),
		validation.Field(&f.Level, validation.Required, validation.In(model.LevelEasy, model.LevelMedium, model.LevelHard)),
		validation.Field(&f.YoutubeLink, is.URL),
		validation.Field(&f.LeetcodeLink, is.URL),
		validation.Field(&f.ArticleLink, is.URL),
		validation.Field(&f.Topic, validation.NotNil),
	)
}

// ValidateUpdate checks an edit of original.
func (f QuestionForm) ValidateUpdate(original QuestionForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.Changed(original) {
		return ErrUnchanged
	}
	return nil
}

// Changed reports whether any field differs from original.
func (f QuestionForm) Changed(original QuestionForm) bool {
	return f.Title != original.Title ||
		f.Description != original.Description ||
		f.Level != original.Level ||
		f.YoutubeLink != original.YoutubeLink ||
		f.LeetcodeLink != original.LeetcodeLink ||
		f.ArticleLink != original.ArticleLink ||
		topicSlug(f.Topic) != topicSlug(original.Topic)
}

// Input converts the form into a creation body.
func (f QuestionForm) Input() api.QuestionInput {
	return api.QuestionInput{
		Title:        strings.TrimSpace(f.Title),
		Description:  strings.TrimSpace(f.Description),
		Level:        f.Level,
		YoutubeLink:  optional(f.YoutubeLink),
		LeetcodeLink: optional(f.LeetcodeLink),
		ArticleLink:  optional(f.ArticleLink),
		TopicSlug:    topicSlug(f.Topic),
	}
}

// Patch returns only the fields that differ from original. A cleared link
// is sent as an empty string.
func (f QuestionForm) Patch(original QuestionForm) api.QuestionPatch {
	var p api.QuestionPatch
	if f.Title != original.Title {
		p.Title = ptr(strings.TrimSpace(f.Title))
	}
	if f.Description != original.Description {
		p.Description = ptr(strings.TrimSpace(f.Description))
	}
	if f.Level != original.Level {
		p.Level = ptr(f.Level)
	}
	if f.YoutubeLink != original.YoutubeLink {
		p.YoutubeLink = ptr(f.YoutubeLink)
	}
	if f.LeetcodeLink != original.LeetcodeLink {
		p.LeetcodeLink = ptr(f.LeetcodeLink)
	}
	if f.ArticleLink != original.ArticleLink {
		p.ArticleLink = ptr(f.ArticleLink)
	}
	if topicSlug(f.Topic) != topicSlug(original.Topic) {
		p.TopicSlug = ptr(topicSlug(f.Topic))
	}
	return p
}

// SignInForm is the sign-in form.
type SignInForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f SignInForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, validation.Match(emailPattern).Error("Invalid email format")),
		validation.Field(&f.Password, validation.Required, validation.RuneLength(6, 0).Error("Password must be at least 6 characters long")),
	)
}

// Credentials converts the form into a sign-in body.
func (f SignInForm) Credentials() api.Credentials {
	return api.Credentials{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// SignUpForm is the registration form.
type SignUpForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

func (f SignUpForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.FirstName, validation.Required, validation.RuneLength(3, 0).Error("First name must be at least 3 characters long")),
		validation.Field(&f.LastName, validation.Required, validation.RuneLength(3, 0).Error("Last name must be at least 3 characters long")),
		validation.Field(&f.Email, validation.Required, validation.Match(emailPattern).Error("Invalid email format")),
		validation.Field(&f.Phone, validation.Required, validation.RuneLength(10, 10).Error("Invalid Contact Number")),
		validation.Field(&f.Password, validation.Required, validation.RuneLength(6, 0).Error("Password must be at least 6 characters long")),
	)
}

// Registration converts the form into a sign-up body.
func (f SignUpForm) Registration() api.Registration {
	return api.Registration{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Phone:     strings.TrimSpace(f.Phone),
		Password:  f.Password,
	}
}

func topicSlug(t *model.TopicRef) string {
	if t == nil {
		return ""
	}
	return t.Slug
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr[T any](v T) *T {
	return &v
}
