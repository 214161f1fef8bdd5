package types

// Query type values for saved query objects. Only filter queries are
// executable today; search, tag, and variable kinds are reserved.
const (
	QueryTypeFilter = "filter"
)

// Query object property keys. A saved query stores its queryType as a text
// property and its QuerySpec as a long-text JSON property under these keys.
const (
	QueryPropType = "queryType"
	QueryPropSpec = "spec"
)

// Sort fields and directions for query results and type listings.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByTitle     = "title"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortClause names a sort field and direction. The zero value means the
// default ordering: creation time descending.
type SortClause struct {
	Field     string `json:"field,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// DateRange bounds the derived creation day, inclusive on both ends.
// Bounds are YYYY-MM-DD strings; an empty bound is open.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// QueryFilters is the declarative filter clause of a query. All present
// filters are conjunctive.
type QueryFilters struct {
	// ObjectType restricts results to one object type.
	ObjectType string `json:"objectType,omitempty"`

	// Properties requires each key to exist with its unwrapped value
	// deep-equal to the given value. Missing key excludes the object.
	Properties map[string]any `json:"properties,omitempty"`

	// Tags requires the object to carry a tagged_with edge to every named
	// tag (intersection semantics).
	Tags []string `json:"tags,omitempty"`

	// DateRange bounds the derived creation day.
	DateRange *DateRange `json:"dateRange,omitempty"`

	// Archived selects the archival state. Nil means non-archived only.
	Archived *bool `json:"archived,omitempty"`
}

// QuerySpec is a complete filter/sort/limit specification. A spec is never
// materialized: executing it always reflects current store state.
type QuerySpec struct {
	Filters QueryFilters `json:"filters"`
	Sort    *SortClause  `json:"sort,omitempty"`

	// Limit caps the result count. Zero or negative means unbounded.
	Limit int `json:"limit,omitempty"`
}
