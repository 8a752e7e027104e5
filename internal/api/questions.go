package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// QuestionService wraps the /question endpoints.
type QuestionService struct {
	c *Client
}

// QuestionQuery filters a question listing within one topic.
type QuestionQuery struct {
	TopicSlug string
	Page      int
	Search    string
	Completed *bool
	Levels    []model.Level
}

// QuestionInput is the body of a question creation. The topic travels as
// its slug.
type QuestionInput struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Level        model.Level `json:"level"`
	YoutubeLink  *string     `json:"youtubeLink"`
	LeetcodeLink *string     `json:"leetcodeLink"`
	ArticleLink  *string     `json:"articleLink"`
	TopicSlug    string      `json:"topicSlug"`
}

// QuestionPatch is a partial question update.
type QuestionPatch struct {
	Title        *string      `json:"title,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Level        *model.Level `json:"level,omitempty"`
	Completed    *bool        `json:"completed,omitempty"`
	YoutubeLink  *string      `json:"youtubeLink,omitempty"`
	LeetcodeLink *string      `json:"leetcodeLink,omitempty"`
	ArticleLink  *string      `json:"articleLink,omitempty"`
	TopicSlug    *string      `json:"topicSlug,omitempty"`
}

// List fetches one page of questions.
func (s *QuestionService) List(ctx context.Context, q QuestionQuery) (model.Page[model.Question], error) {
	params := url.Values{}
	params.Set("topicSlug", q.TopicSlug)
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if strings.TrimSpace(q.Search) != "" {
		params.Set("searchValue", q.Search)
	}
	if q.Completed != nil {
		params.Set("isCompleted", strconv.FormatBool(*q.Completed))
	}
	for _, l := range q.Levels {
		params.Add("levels[]", string(l))
	}

	body, err := s.c.do(ctx, http.MethodGet, "/question/all", params, nil)
	if err != nil {
		return model.Page[model.Question]{}, err
	}
	return decodePage[model.Question](body)
}

// Create adds a question and returns it as stored by the backend.
func (s *QuestionService) Create(ctx context.Context, in QuestionInput) (model.Question, error) {
	var out model.Question
	err := s.c.doJSON(ctx, http.MethodPost, "/question/create", nil, in, &out)
	return out, err
}

// Update applies a partial update to the question with the given slug.
func (s *QuestionService) Update(ctx context.Context, slug string, patch QuestionPatch) (model.Question, error) {
	var out model.Question
	err := s.c.doJSON(ctx, http.MethodPatch, "/question/update/"+url.PathEscape(slug), nil, patch, &out)
	return out, err
}

// SetCompleted updates only the completion flag.
func (s *QuestionService) SetCompleted(ctx context.Context, slug string, done bool) (model.Question, error) {
	return s.Update(ctx, slug, QuestionPatch{Completed: &done})
}

// Delete removes the question with the given slug.
func (s *QuestionService) Delete(ctx context.Context, slug string) error {
	_, err := s.c.do(ctx, http.MethodDelete, "/question/delete/"+url.PathEscape(slug), nil, nil)
	return err
}
