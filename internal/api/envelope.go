package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/p-n-ai/pai-tracker/internal/model"
)

// ErrInvalidEnvelope is returned when a list response does not match the
// {data, page, totalPages} envelope.
var ErrInvalidEnvelope = errors.New("invalid list envelope")

// Error is a failure reported by the backend.
type Error struct {
	Status  int
	Message string
	Payload json.RawMessage
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

const listEnvelopeSchema = `{
	"type": "object",
	"required": ["data", "page", "totalPages"],
	"properties": {
		"data": {"type": "array", "items": {"type": "object"}},
		"page": {"type": "integer", "minimum": 0},
		"totalPages": {"type": "integer", "minimum": 0}
	}
}`

var listSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(listEnvelopeSchema))
})

// errorFromBody returns the embedded error of a response, if any.
// Falsy values (null, false, "", 0) do not count as errors.
func errorFromBody(status int, body []byte) *Error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil
	}
	if !truthy(env.Error) {
		return nil
	}

	return &Error{
		Status:  status,
		Message: errorMessage(env.Error),
		Payload: env.Error,
	}
}

func truthy(raw json.RawMessage) bool {
	switch s := strings.TrimSpace(string(raw)); s {
	case "", "null", "false", `""`, "0":
		return false
	default:
		return true
	}
}

func errorMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		if obj.Error != "" {
			return obj.Error
		}
	}

	return string(raw)
}

// decodePage validates a list envelope and decodes its records.
func decodePage[T any](body []byte) (model.Page[T], error) {
	schema, err := listSchema()
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("compile list schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return model.Page[T]{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return model.Page[T]{}, fmt.Errorf("%w: %s", ErrInvalidEnvelope, strings.Join(msgs, "; "))
	}

	var page model.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return model.Page[T]{}, fmt.Errorf("unmarshal page: %w", err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return page, nil
}
