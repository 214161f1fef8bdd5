package types

import "time"

// ObjectPatch carries the mutable fields of an update. Nil fields are left
// unchanged. UpdatedAt is always recomputed by the store.
type ObjectPatch struct {
	Title      *string
	Content    *string
	Properties map[string]PropertyValue
	Favorited  *bool
	Tags       []string
}

// ObjectPredicate is the storage-stage half of a query: the conjunctive
// conditions the store's indexes can answer directly, plus the sort/limit
// to apply when no residual filtering follows. The query engine and the
// store share this representation so a residual condition can later move
// into the storage stage without changing the engine's contract.
type ObjectPredicate struct {
	// Type restricts to one object type; empty means any type.
	Type string

	// Archived selects the archival state. Nil means non-archived only.
	Archived *bool

	// CreatedRange bounds the derived creation day, inclusive.
	CreatedRange *DateRange

	// Sort orders the result; zero value means created_at descending.
	Sort SortClause

	// Limit caps the result count when positive.
	Limit int
}

// ListOptions narrows and orders a type listing.
type ListOptions struct {
	// Archived selects the archival state. Nil means non-archived only.
	Archived *bool

	// CreatedRange bounds the derived creation day, inclusive.
	CreatedRange *DateRange

	// Sort orders the result; zero value means created_at descending.
	Sort SortClause

	// Limit caps the result count when positive.
	Limit int
}

// ObjectStore persists typed objects with polymorphic properties. It owns
// identity, timestamps, the archival flag, and derived per-day indexing.
type ObjectStore interface {
	// Create validates and inserts a new object. CreatedAt/UpdatedAt are
	// set to now (UTC). Returns ErrValidation on malformed input.
	Create(obj *Object, now time.Time) (*Object, error)

	// Get returns the object with the given ID or ErrNotFound.
	Get(id string) (*Object, error)

	// Update applies patch to the object, revalidates, and refreshes
	// UpdatedAt unconditionally. Returns ErrNotFound for unknown IDs.
	Update(id string, patch ObjectPatch, now time.Time) (*Object, error)

	// Archive soft-deletes the object; Unarchive reverses it. Both refresh
	// UpdatedAt.
	Archive(id string, now time.Time) error
	Unarchive(id string, now time.Time) error

	// Delete hard-deletes the object and cascades deletion of every
	// relation naming it as an endpoint.
	Delete(id string) error

	// ListByType returns objects of one type, filtered and ordered per opts.
	ListByType(objectType string, opts ListOptions) ([]*Object, error)

	// Search returns objects matching the index-assisted predicate.
	Search(pred ObjectPredicate) ([]*Object, error)

	// ListCreatedOn returns non-archived objects whose derived creation day
	// equals day (YYYY-MM-DD), via the indexed derived-date column.
	ListCreatedOn(day string) ([]*Object, error)

	// ListUpdatedOn is ListCreatedOn over the derived update day.
	ListUpdatedOn(day string) ([]*Object, error)

	// FindDailyNote returns the non-archived daily-note object for day, or
	// ErrNotFound when none exists.
	FindDailyNote(day string) (*Object, error)
}

// RelationStore persists directed typed edges between objects. It owns
// referential integrity: both endpoints must exist at insert time and
// object deletion cascades to edges.
type RelationStore interface {
	// Create inserts an edge. Returns ErrNotFound when either endpoint is
	// missing and ErrConflict when an identical (type, from, to) edge
	// already exists.
	Create(fromID, toID, relationType string, metadata map[string]any, now time.Time) (*Relation, error)

	// Find returns edges anchored at filter.ObjectID. Direction both unions
	// the from-anchored and to-anchored sets.
	Find(filter RelationFilter) ([]*Relation, error)

	// Exists reports whether an edge with the exact triple exists.
	Exists(fromID, toID, relationType string) (bool, error)

	// Delete removes edges matching the criteria. Returns ErrInvalidArgument
	// when no criteria are given.
	Delete(criteria RelationDelete) error
}

// Store is the attachable storage backend: object rows with derived-day
// columns, edge rows with cascade-on-delete, and the indexes both need.
type Store interface {
	// Attach connects the store to the backend described by config,
	// creating the data directory if needed. Returns ErrAlreadyOpen when
	// called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// operations return ErrStoreClosed.
	Detach() error

	Objects() ObjectStore
	Relations() RelationStore
}
