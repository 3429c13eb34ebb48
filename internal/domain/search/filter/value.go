package filter

import "strconv"

// Value is the selection for one dimension in a search request.
// The zero Value is inactive.
type Value struct {
	on  bool
	set map[string]struct{}
}

// ToggleValue creates a toggle selection.
func ToggleValue(on bool) Value { return Value{on: on} }

// SetValue creates a multi-select selection. Duplicates collapse.
func SetValue(values ...string) Value {
	if len(values) == 0 {
		return Value{}
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Value{set: set}
}

// IsActive reports whether the value constrains results (true, or a non-empty set).
func (v Value) IsActive() bool { return v.on || len(v.set) > 0 }

// On returns the toggle state.
func (v Value) On() bool { return v.on }

// Values returns the selected set members (unordered).
func (v Value) Values() []string {
	out := make([]string, 0, len(v.set))
	for s := range v.set {
		out = append(out, s)
	}
	return out
}

// Parse reads a raw decoded JSON value for this dimension.
// Malformed input yields the inactive value.
func (d Dimension) Parse(raw any) Value {
	switch d.kind {
	case Toggle:
		return ToggleValue(truthy(raw))
	case MultiSelect:
		switch t := raw.(type) {
		case []any:
			values := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok {
					values = append(values, s)
				}
			}
			return SetValue(values...)
		case []string:
			return SetValue(t...)
		case string:
			if t == "" {
				return Value{}
			}
			return SetValue(t)
		}
	}
	return Value{}
}

// truthy reads a toggle value: true, a non-zero number, or a non-empty string
// other than a boolean false spelling ("false", "0", "f").
func truthy(raw any) bool {
	switch t := raw.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		if t == "" {
			return false
		}
		if b, err := strconv.ParseBool(t); err == nil {
			return b
		}
		return true
	}
	return false
}
