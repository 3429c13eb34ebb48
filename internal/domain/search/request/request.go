package request

import (
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
)

// Selection is the set of per-dimension filter values of a search request.
// Dimensions without a value are inactive.
type Selection struct {
	values map[string]filter.Value
}

// New creates a Selection from explicit values keyed by dimension name.
func New(values map[string]filter.Value) Selection {
	s := Selection{values: make(map[string]filter.Value, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Parse reads the raw "filters" input object against the known dimensions.
// Unknown keys are ignored and malformed values fall back to inactive; a nil map means no selection.
func Parse(raw map[string]any, dims []filter.Dimension) Selection {
	s := Selection{values: make(map[string]filter.Value, len(dims))}
	for _, d := range dims {
		v, ok := raw[d.Name()]
		if !ok {
			continue
		}
		s.values[d.Name()] = d.Parse(v)
	}
	return s
}

// ParseInputs reads the "filters" key of a function's inputs object.
func ParseInputs(inputs map[string]any, dims []filter.Dimension) Selection {
	raw, _ := inputs["filters"].(map[string]any)
	return Parse(raw, dims)
}

// Value returns the selection for a dimension (inactive if absent).
func (s Selection) Value(name string) filter.Value { return s.values[name] }

// IsEmpty reports whether no dimension is active.
func (s Selection) IsEmpty() bool {
	for _, v := range s.values {
		if v.IsActive() {
			return false
		}
	}
	return true
}

// Active returns the names of the active dimensions.
func (s Selection) Active() []string {
	var names []string
	for k, v := range s.values {
		if v.IsActive() {
			names = append(names, k)
		}
	}
	return names
}
