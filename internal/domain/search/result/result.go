package result

import (
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
)

// Reference points back at the source entity.
type Reference struct {
	ID   string  `json:"id"`
	Type *string `json:"type,omitempty"`
}

// Result is a single search hit in the external result schema.
// Content is nil when the source entity has no content, and is then omitted from JSON.
type Result struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	DateUpdated string    `json:"date_updated"`
	ExternalRef Reference `json:"external_ref"`
	Content     *string   `json:"content,omitempty"`
}

// HasContent reports whether the content key is present.
func (r *Result) HasContent() bool { return r.Content != nil }

// From projects one entity.
func From(e *entity.Entity) Result {
	r := Result{
		ID:          e.ID(),
		Title:       e.Title(),
		Description: e.Description(),
		Link:        e.Link(),
		DateUpdated: e.DateUpdated(),
		ExternalRef: Reference{ID: e.ID()},
	}
	if c, ok := e.Content(); ok {
		r.Content = &c
	}
	return r
}

// Project maps entities to results, one per input, preserving order.
func Project(entities []entity.Entity) []Result {
	out := make([]Result, len(entities))
	for i := range entities {
		out[i] = From(&entities[i])
	}
	return out
}
