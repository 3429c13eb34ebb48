package filter

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/entity"
)

// Kind is the shape of a filter dimension.
type Kind string

// Filter kinds.
const (
	// MultiSelect chooses zero or more values from an enumerated option set.
	MultiSelect Kind = "multi_select"
	// Toggle is a boolean on/off switch with no option set.
	Toggle Kind = "toggle"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == MultiSelect || k == Toggle
}

// Option is one selectable value of a multi-select filter.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Definition describes one queryable dimension as presented to clients.
type Definition struct {
	Name        string
	DisplayName string
	Kind        Kind
	Options     []Option
}

// MarshalJSON emits "options" iff the kind is multi-select, as [] when there are no values.
func (d Definition) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name        string    `json:"name"`
		DisplayName string    `json:"display_name"`
		Type        Kind      `json:"type"`
		Options     *[]Option `json:"options,omitempty"`
	}
	w := wire{Name: d.Name, DisplayName: d.DisplayName, Type: d.Kind}
	if d.Kind == MultiSelect {
		opts := d.Options
		if opts == nil {
			opts = []Option{}
		}
		w.Options = &opts
	}
	return json.Marshal(w)
}

// Dimension is a filterable attribute of catalog entities.
type Dimension struct {
	name        string
	displayName string
	kind        Kind
	attribute   string
}

// NewDimension validates and creates a Dimension.
// Multi-select dimensions need a string attribute, toggles a boolean one.
func NewDimension(name, displayName string, kind Kind, attribute string) (Dimension, error) {
	if name == "" {
		return Dimension{}, fmt.Errorf("%w: name is required", domain.ErrInvalidFilter)
	}
	if !kind.IsValid() {
		return Dimension{}, fmt.Errorf("%w: %q has invalid type %q", domain.ErrInvalidFilter, name, kind)
	}
	typ, ok := entity.LookupAttr(attribute)
	if !ok {
		return Dimension{}, fmt.Errorf("%w: %q references unknown attribute %q", domain.ErrInvalidFilter, name, attribute)
	}
	if kind == MultiSelect && typ != entity.AttrString {
		return Dimension{}, fmt.Errorf("%w: multi_select %q needs a string attribute", domain.ErrInvalidFilter, name)
	}
	if kind == Toggle && typ != entity.AttrBool {
		return Dimension{}, fmt.Errorf("%w: toggle %q needs a bool attribute", domain.ErrInvalidFilter, name)
	}
	if displayName == "" {
		displayName = name
	}
	return Dimension{name: name, displayName: displayName, kind: kind, attribute: attribute}, nil
}

// DefaultDimensions returns the song catalog dimensions: bands, then is_single.
func DefaultDimensions() []Dimension {
	return []Dimension{
		{name: "bands", displayName: "Bands", kind: MultiSelect, attribute: entity.AttrBand},
		{name: "is_single", displayName: "Singles Only", kind: Toggle, attribute: entity.AttrIsSingle},
	}
}

// ValidateSet checks that dimension names are unique.
func ValidateSet(dims []Dimension) error {
	seen := make(map[string]struct{}, len(dims))
	for _, d := range dims {
		if _, dup := seen[d.name]; dup {
			return fmt.Errorf("%w: duplicate dimension %q", domain.ErrInvalidFilter, d.name)
		}
		seen[d.name] = struct{}{}
	}
	return nil
}

// Name returns the machine key of the dimension.
func (d Dimension) Name() string { return d.name }

// DisplayName returns the human label.
func (d Dimension) DisplayName() string { return d.displayName }

// Kind returns the dimension kind.
func (d Dimension) Kind() Kind { return d.kind }

// Attribute returns the entity attribute the dimension reads.
func (d Dimension) Attribute() string { return d.attribute }

// Define derives the client-facing definition from the given entities.
// Multi-select options are the distinct attribute values in first-seen order.
func (d Dimension) Define(entities []entity.Entity) Definition {
	def := Definition{Name: d.name, DisplayName: d.displayName, Kind: d.kind}
	if d.kind != MultiSelect {
		return def
	}
	seen := make(map[string]struct{})
	def.Options = []Option{}
	for i := range entities {
		v, ok := entities[i].StringAttr(d.attribute)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		def.Options = append(def.Options, Option{Name: v, Value: v})
	}
	return def
}

// Match reports whether the entity satisfies an active selection value.
// Inactive values match everything.
func (d Dimension) Match(e *entity.Entity, v Value) bool {
	if !v.IsActive() {
		return true
	}
	switch d.kind {
	case Toggle:
		on, ok := e.BoolAttr(d.attribute)
		return ok && on
	case MultiSelect:
		s, ok := e.StringAttr(d.attribute)
		if !ok {
			return false
		}
		_, member := v.set[s]
		return member
	default:
		return false
	}
}
