package types

import (
	"fmt"
	"regexp"
	"time"
)

// Well-known object types. The type set is open: any lowercase token
// matching customTypePattern is accepted, so callers can introduce their
// own content types without a schema change.
const (
	TypeNote       = "note"
	TypeTask       = "task"
	TypeProject    = "project"
	TypePerson     = "person"
	TypeEvent      = "event"
	TypeBookmark   = "bookmark"
	TypeTag        = "tag"
	TypeCollection = "collection"
	TypeQuery      = "query"
	TypeDailyNote  = "daily-note"
)

// MaxTitleLength bounds object titles.
const MaxTitleLength = 500

var customTypePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// IsValidObjectType reports whether t is a usable object type: one of the
// well-known types or a custom lowercase token.
func IsValidObjectType(t string) bool {
	return customTypePattern.MatchString(t)
}

// ObjectMetadata carries bookkeeping fields owned by the store.
// CreatedAt and UpdatedAt are set at insert time; UpdatedAt is refreshed by
// the store on every mutation, never by the caller.
type ObjectMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tags is the legacy inline tag list, superseded by tagged_with edges.
	// Preserved for round-trip compatibility.
	Tags []string `json:"tags,omitempty"`

	Favorited bool `json:"favorited,omitempty"`
}

// Object is a typed knowledge-graph node with polymorphic properties.
type Object struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Title      string                   `json:"title"`
	Content    string                   `json:"content,omitempty"`
	Properties map[string]PropertyValue `json:"properties"`
	Archived   bool                     `json:"archived"`
	Metadata   ObjectMetadata           `json:"metadata"`
}

// Validate checks the object's caller-supplied fields: type, title bounds,
// and the shape of every property value.
func (o *Object) Validate() error {
	if !IsValidObjectType(o.Type) {
		return fmt.Errorf("%w: object type %q", ErrValidation, o.Type)
	}
	if o.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if len(o.Title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, MaxTitleLength)
	}
	for key, pv := range o.Properties {
		if err := pv.Validate(); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
	}
	return nil
}

// CreatedDay returns the UTC calendar day of creation as YYYY-MM-DD.
// This mirrors the store's derived created_day column; the two must agree.
func (o *Object) CreatedDay() string {
	return o.Metadata.CreatedAt.UTC().Format(DayFormat)
}

// UpdatedDay returns the UTC calendar day of the last mutation as YYYY-MM-DD.
func (o *Object) UpdatedDay() string {
	return o.Metadata.UpdatedAt.UTC().Format(DayFormat)
}

// DayFormat is the canonical YYYY-MM-DD layout for derived day values and
// daily-note date properties.
const DayFormat = "2006-01-02"
