package types

import "time"

// Relation types. Edges are directed; inverse pairs (parent_of/child_of,
// blocks/blocked_by) are distinct types, not computed views.
const (
	RelationParentOf   = "parent_of"
	RelationChildOf    = "child_of"
	RelationBlocks     = "blocks"
	RelationBlockedBy  = "blocked_by"
	RelationRelatesTo  = "relates_to"
	RelationAssignedTo = "assigned_to"
	RelationMemberOf   = "member_of"
	RelationReferences = "references"
	RelationContains   = "contains"
	RelationAttends    = "attends"
	RelationKnows      = "knows"
	RelationCreatedOn  = "created_on"
	RelationTaggedWith = "tagged_with"
)

var validRelationTypes = map[string]bool{
	RelationParentOf:   true,
	RelationChildOf:    true,
	RelationBlocks:     true,
	RelationBlockedBy:  true,
	RelationRelatesTo:  true,
	RelationAssignedTo: true,
	RelationMemberOf:   true,
	RelationReferences: true,
	RelationContains:   true,
	RelationAttends:    true,
	RelationKnows:      true,
	RelationCreatedOn:  true,
	RelationTaggedWith: true,
}

// IsValidRelationType reports whether t is a recognized relation type.
func IsValidRelationType(t string) bool {
	return validRelationTypes[t]
}

// Relation is a typed directed edge between two objects.
type Relation struct {
	ID        string         `json:"id"`
	FromID    string         `json:"from_id"`
	ToID      string         `json:"to_id"`
	Type      string         `json:"relation_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// OtherEnd returns the endpoint of r that is not objectID. For a self-loop
// both ends are objectID, so objectID itself is returned.
func (r *Relation) OtherEnd(objectID string) string {
	if r.FromID == objectID {
		return r.ToID
	}
	return r.FromID
}

// Direction selects which endpoint anchors a relation lookup.
type Direction string

const (
	DirectionFrom Direction = "from"
	DirectionTo   Direction = "to"
	DirectionBoth Direction = "both"
)

// RelationFilter describes a relation lookup. ObjectID is required;
// Type narrows to one relation type when non-empty.
type RelationFilter struct {
	ObjectID  string
	Type      string
	Direction Direction
}

// RelationDelete describes which relations to delete. At least one field
// must be set; an empty criteria set is rejected with ErrInvalidArgument
// to prevent accidental full-table deletion.
type RelationDelete struct {
	ID     string
	FromID string
	ToID   string
	Type   string
}

// Empty reports whether no criteria were provided.
func (d RelationDelete) Empty() bool {
	return d.ID == "" && d.FromID == "" && d.ToID == "" && d.Type == ""
}
