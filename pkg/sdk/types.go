package songsearch

// FilterKind is the shape of a filter dimension.
type FilterKind string

// Filter kinds.
const (
	FilterMultiSelect FilterKind = "multi_select"
	FilterToggle      FilterKind = "toggle"
)

// FilterOption is one selectable value of a multi-select filter.
type FilterOption struct {
	Name  string
	Value string
}

// Filter describes a queryable dimension. Options is nil for toggles.
type Filter struct {
	Name        string
	DisplayName string
	Kind        FilterKind
	Options     []FilterOption
}

// Dimension configures a filter dimension over a song attribute ("band" or "is_single").
type Dimension struct {
	Name        string
	DisplayName string
	Kind        FilterKind
	Attribute   string
}

// Song is a catalog entry supplied via WithCatalog.
type Song struct {
	ID          string
	Title       string
	Description string
	Link        string
	Band        string
	IsSingle    bool
	DateUpdated string
	Content     *string
}

// Result is a single search hit.
// Content is nil when the song has no content.
type Result struct {
	ID            string
	Title         string
	Description   string
	Link          string
	DateUpdated   string
	ExternalRefID string
	Content       *string
}

// Selection holds filter values keyed by dimension name, in decoded JSON form:
// []string (or []any of strings) for multi-select dimensions, bool for toggles.
// Unknown keys and malformed values are ignored.
type Selection map[string]any
