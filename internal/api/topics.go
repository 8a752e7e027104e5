package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// TopicService wraps the /topic endpoints.
type TopicService struct {
	c *Client
}

// TopicQuery filters a topic listing. A nil Completed means no filter.
type TopicQuery struct {
	Page      int
	Completed *bool
	Search    string
}

// TopicInput is the body of a topic creation.
type TopicInput struct {
	Title string `json:"title"`
}

// TopicPatch is a partial topic update.
type TopicPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// List fetches one page of topics.
func (s *TopicService) List(ctx context.Context, q TopicQuery) (model.Page[model.Topic], error) {
	params := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if q.Completed != nil {
		params.Set("isCompleted", strconv.FormatBool(*q.Completed))
	}
	if strings.TrimSpace(q.Search) != "" {
		params.Set("searchValue", q.Search)
	}

	body, err := s.c.do(ctx, http.MethodGet, "/topic/all", params, nil)
	if err != nil {
		return model.Page[model.Topic]{}, err
	}
	return decodePage[model.Topic](body)
}

// Create adds a topic and returns it as stored by the backend.
func (s *TopicService) Create(ctx context.Context, in TopicInput) (model.Topic, error) {
	var out model.Topic
	err := s.c.doJSON(ctx, http.MethodPost, "/topic/create", nil, in, &out)
	return out, err
}

// Update applies a partial update to the topic with the given slug.
func (s *TopicService) Update(ctx context.Context, slug string, patch TopicPatch) (model.Topic, error) {
	var out model.Topic
	err := s.c.doJSON(ctx, http.MethodPatch, "/topic/update/"+url.PathEscape(slug), nil, patch, &out)
	return out, err
}

// SetCompleted updates only the completion flag.
func (s *TopicService) SetCompleted(ctx context.Context, slug string, done bool) (model.Topic, error) {
	return s.Update(ctx, slug, TopicPatch{Completed: &done})
}

// Delete removes the topic with the given slug.
func (s *TopicService) Delete(ctx context.Context, slug string) error {
	_, err := s.c.do(ctx, http.MethodDelete, "/topic/delete/"+url.PathEscape(slug), nil, nil)
	return err
}
