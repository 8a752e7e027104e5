package forms

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("error = %v (%T), want validation.Errors", err, err)
	}
	return errs
}

func TestTopicForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"valid", "Dynamic Programming", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TopicForm{Title: tt.title}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if _, ok := fieldErrors(t, err)["title"]; !ok {
					t.Errorf("errors = %v, want title key", err)
				}
			}
		})
	}
}

func TestTopicForm_ValidateUpdate_Unchanged(t *testing.T) {
	err := TopicForm{Title: " Arrays "}.ValidateUpdate("Arrays")
	if !errors.Is(err, ErrUnchanged) {
		t.Errorf("ValidateUpdate() = %v, want ErrUnchanged", err)
	}

	if err := (TopicForm{Title: "Arrays & Hashing"}).ValidateUpdate("Arrays"); err != nil {
		t.Errorf("ValidateUpdate() = %v, want nil", err)
	}
}

func TestTopicForm_Patch_Trims(t *testing.T) {
	p := TopicForm{Title: "  Graphs "}.Patch()
	if p.Title == nil || *p.Title != "Graphs" {
		t.Errorf("Patch().Title = %v, want Graphs", p.Title)
	}
	if p.Completed != nil {
		t.Error("rename should not touch completion")
	}
}

func validQuestion() QuestionForm {
	return QuestionForm{
		Title:        "Two Sum",
		Description:  "Find two numbers adding to target.",
		Level:        model.LevelEasy,
		LeetcodeLink: "https://leetcode.com/problems/two-sum/",
		Topic:        &model.TopicRef{Title: "Arrays", Slug: "arrays"},
	}
}

func TestQuestionForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*QuestionForm)
		wantField string
	}{
		{"valid", func(f *QuestionForm) {}, ""},
		{"missing title", func(f *QuestionForm) { f.Title = "" }, "title"},
		{"blank description", func(f *QuestionForm) { f.Description = "  " }, "description"},
		{"missing level", func(f *QuestionForm) { f.Level = "" }, "level"},
		{"unknown level", func(f *QuestionForm) { f.Level = "EXPERT" }, "level"},
		{"bad link", func(f *QuestionForm) { f.YoutubeLink = "not a url" }, "youtubeLink"},
		{"missing topic", func(f *QuestionForm) { f.Topic = nil }, "topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validQuestion()
			tt.modify(&f)

			err := f.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if _, ok := fieldErrors(t, err)[tt.wantField]; !ok {
				t.Errorf("errors = %v, want key %q", err, tt.wantField)
			}
		})
	}
}

func TestQuestionForm_ChangedAndPatch(t *testing.T) {
	original := validQuestion()

	same := validQuestion()
	if err := same.ValidateUpdate(original); !errors.Is(err, ErrUnchanged) {
		t.Errorf("ValidateUpdate() = %v, want ErrUnchanged", err)
	}

	edited := validQuestion()
	edited.Level = model.LevelMedium
	edited.LeetcodeLink = ""
	edited.Topic = &model.TopicRef{Title: "Hashing", Slug: "hashing"}

	if !edited.Changed(original) {
		t.Fatal("Changed() = false, want true")
	}

	p := edited.Patch(original)
	if p.Title != nil || p.Description != nil {
		t.Error("unchanged fields should be omitted")
	}
	if p.Level == nil || *p.Level != model.LevelMedium {
		t.Errorf("Level = %v, want MEDIUM", p.Level)
	}
	if p.LeetcodeLink == nil || *p.LeetcodeLink != "" {
		t.Error("cleared link should be sent as empty string")
	}
	if p.TopicSlug == nil || *p.TopicSlug != "hashing" {
		t.Errorf("TopicSlug = %v, want hashing", p.TopicSlug)
	}
}

func TestQuestionForm_Input(t *testing.T) {
	in := validQuestion().Input()
	if in.TopicSlug != "arrays" {
		t.Errorf("TopicSlug = %q, want arrays", in.TopicSlug)
	}
	if in.YoutubeLink != nil {
		t.Error("empty link should be nil")
	}
	if in.LeetcodeLink == nil {
		t.Error("filled link should be kept")
	}
}

func TestQuestionFormFrom(t *testing.T) {
	link := "https://example.com/article"
	q := model.Question{
		Title:       "Two Sum",
		Level:       model.LevelEasy,
		ArticleLink: &link,
		Topic:       model.TopicRef{Title: "Arrays", Slug: "arrays"},
	}
	f := QuestionFormFrom(q)
	if f.ArticleLink != link || f.YoutubeLink != "" {
		t.Errorf("links = %q/%q", f.ArticleLink, f.YoutubeLink)
	}
	if f.Topic == nil || f.Topic.Slug != "arrays" {
		t.Errorf("topic = %v, want arrays", f.Topic)
	}
}

func TestSignUpForm_Validate(t *testing.T) {
	valid := SignUpForm{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0123456789",
		Password:  "secret1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := SignUpForm{FirstName: "Al", LastName: "Lo", Email: "ada.example.com", Phone: "12345", Password: "short"}
	errs := fieldErrors(t, bad.Validate())
	for _, field := range []string{"firstName", "lastName", "email", "phone", "password"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for %s", field)
		}
	}
	if errs["email"].Error() != "Invalid email format" {
		t.Errorf("email error = %q", errs["email"].Error())
	}
}

func TestSignInForm_Validate(t *testing.T) {
	if err := (SignInForm{Email: "a@b.co", Password: "123456"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (SignInForm{Email: "a@b", Password: "123456"}).Validate(); err == nil {
		t.Error("Validate() should reject email without a dot")
	}
}

func TestValidateSlug(t *testing.T) {
	if err := ValidateSlug("two-sum"); err != nil {
		t.Errorf("ValidateSlug(two-sum) = %v", err)
	}
	if err := ValidateSlug("Two Sum!"); err == nil {
		t.Error("ValidateSlug should reject spaces and punctuation")
	}
}
