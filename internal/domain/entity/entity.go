package entity

import (
	"fmt"

	"github.com/kailas-cloud/songsearch/internal/domain"
)

// Attribute names usable by filter dimensions.
const (
	// AttrBand is the categorical grouping attribute (string).
	AttrBand = "band"
	// AttrIsSingle is the single-release classification flag (bool).
	AttrIsSingle = "is_single"
)

// AttrType is the value type of a named attribute.
type AttrType string

// Attribute types.
const (
	AttrString AttrType = "string"
	AttrBool   AttrType = "bool"
)

var attributes = map[string]AttrType{
	AttrBand:     AttrString,
	AttrIsSingle: AttrBool,
}

// LookupAttr returns the type of a named attribute.
func LookupAttr(name string) (AttrType, bool) {
	t, ok := attributes[name]
	return t, ok
}

// Fields holds the raw values an Entity is built from.
// Content is nil when the entity carries no long-form text.
type Fields struct {
	ID          string
	Title       string
	Description string
	Link        string
	Band        string
	IsSingle    bool
	DateUpdated string
	Content     *string
}

// Entity is a searchable catalog item (immutable value object).
type Entity struct {
	id          string
	title       string
	description string
	link        string
	band        string
	isSingle    bool
	dateUpdated string
	content     string
	hasContent  bool
}

// New validates and creates an Entity.
// id, title and band are required; content, when present, must be non-empty.
func New(f Fields) (Entity, error) {
	if f.ID == "" {
		return Entity{}, fmt.Errorf("%w: id is required", domain.ErrInvalidEntity)
	}
	if f.Title == "" {
		return Entity{}, fmt.Errorf("%w: title is required for %q", domain.ErrInvalidEntity, f.ID)
	}
	if f.Band == "" {
		return Entity{}, fmt.Errorf("%w: band is required for %q", domain.ErrInvalidEntity, f.ID)
	}
	if f.Content != nil && *f.Content == "" {
		return Entity{}, fmt.Errorf("%w: content must be absent or non-empty for %q", domain.ErrInvalidEntity, f.ID)
	}
	return Reconstruct(f), nil
}

// Reconstruct creates an Entity without validation (storage hydration, fixtures).
func Reconstruct(f Fields) Entity {
	e := Entity{
		id:          f.ID,
		title:       f.Title,
		description: f.Description,
		link:        f.Link,
		band:        f.Band,
		isSingle:    f.IsSingle,
		dateUpdated: f.DateUpdated,
	}
	if f.Content != nil {
		e.content = *f.Content
		e.hasContent = true
	}
	return e
}

// ID returns the stable entity identifier.
func (e *Entity) ID() string { return e.id }

// Title returns the display title.
func (e *Entity) Title() string { return e.title }

// Description returns the display description.
func (e *Entity) Description() string { return e.description }

// Link returns the entity URL.
func (e *Entity) Link() string { return e.link }

// Band returns the grouping attribute.
func (e *Entity) Band() string { return e.band }

// IsSingle reports whether the entity was released as a single.
func (e *Entity) IsSingle() bool { return e.isSingle }

// DateUpdated returns the display date (ISO-like, never parsed).
func (e *Entity) DateUpdated() string { return e.dateUpdated }

// Content returns the long-form text and whether the entity carries it.
func (e *Entity) Content() (string, bool) { return e.content, e.hasContent }

// StringAttr returns a string attribute by name.
func (e *Entity) StringAttr(name string) (string, bool) {
	switch name {
	case AttrBand:
		return e.band, true
	default:
		return "", false
	}
}

// BoolAttr returns a boolean attribute by name.
func (e *Entity) BoolAttr(name string) (value, ok bool) {
	switch name {
	case AttrIsSingle:
		return e.isSingle, true
	default:
		return false, false
	}
}

// Fields returns the raw values of the entity.
func (e *Entity) Fields() Fields {
	f := Fields{
		ID:          e.id,
		Title:       e.title,
		Description: e.description,
		Link:        e.link,
		Band:        e.band,
		IsSingle:    e.isSingle,
		DateUpdated: e.dateUpdated,
	}
	if e.hasContent {
		c := e.content
		f.Content = &c
	}
	return f
}
