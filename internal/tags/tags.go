// Package tags layers tagging and collection membership over the relation
// store. Tags and collections are ordinary objects; all semantics live in
// tagged_with and member_of edges.
package tags

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexradu95/tangle/pkg/types"
)

// Collection objects declare the single object type they accept under this
// property key.
const CollectionObjectTypeProp = "objectType"

// Service provides the tag and collection capability layers.
type Service struct {
	store types.Store
}

// NewService creates a tag/collection service over store.
func NewService(store types.Store) *Service {
	return &Service{store: store}
}

// TagObject creates a tagged_with edge from objectID to tagID. Re-tagging
// an already-tagged object is a Conflict, not a silent no-op.
func (s *Service) TagObject(objectID, tagID string, now time.Time) (*types.Relation, error) {
	tag, err := s.store.Objects().Get(tagID)
	if err != nil {
		return nil, fmt.Errorf("loading tag: %w", err)
	}
	if tag.Type != types.TypeTag {
		return nil, fmt.Errorf("%w: object %s is a %s, not a tag", types.ErrValidation, tagID, tag.Type)
	}
	return s.store.Relations().Create(objectID, tagID, types.RelationTaggedWith, nil, now)
}

// UntagObject deletes the tagged_with edge. Untagging an object that never
// carried the tag is a documented no-op, not an error.
func (s *Service) UntagObject(objectID, tagID string) error {
	return s.store.Relations().Delete(types.RelationDelete{
		FromID: objectID,
		ToID:   tagID,
		Type:   types.RelationTaggedWith,
	})
}

// ObjectsByTag returns the non-archived objects tagged with tagID, newest
// first.
func (s *Service) ObjectsByTag(tagID string) ([]*types.Object, error) {
	return s.objectsLinkedTo(tagID, types.RelationTaggedWith)
}

// FindTagByName resolves a tag name to the first matching non-archived tag
// object, or ErrNotFound.
func (s *Service) FindTagByName(name string) (*types.Object, error) {
	candidates, err := s.store.Objects().ListByType(types.TypeTag, types.ListOptions{
		Sort: types.SortClause{Field: types.SortByCreatedAt, Direction: types.SortAsc},
	})
	if err != nil {
		return nil, err
	}
	for _, tag := range candidates {
		if tag.Title == name {
			return tag, nil
		}
	}
	return nil, fmt.Errorf("%w: tag %q", types.ErrNotFound, name)
}

// AddToCollection creates a member_of edge from objectID to collectionID.
// The member's type must equal the collection's declared objectType;
// mismatches are rejected with ErrTypeMismatch and create no edge.
// Duplicate membership is a Conflict.
func (s *Service) AddToCollection(objectID, collectionID string, now time.Time) (*types.Relation, error) {
	collection, err := s.store.Objects().Get(collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}
	if collection.Type != types.TypeCollection {
		return nil, fmt.Errorf("%w: object %s is a %s, not a collection", types.ErrValidation, collectionID, collection.Type)
	}

	member, err := s.store.Objects().Get(objectID)
	if err != nil {
		return nil, fmt.Errorf("loading member: %w", err)
	}

	wantType, _ := collection.Properties[CollectionObjectTypeProp].Value.(string)
	if wantType == "" {
		return nil, fmt.Errorf("%w: collection %s declares no objectType", types.ErrValidation, collectionID)
	}
	if member.Type != wantType {
		return nil, fmt.Errorf("%w: collection %s holds %q objects, got %q",
			types.ErrTypeMismatch, collectionID, wantType, member.Type)
	}

	return s.store.Relations().Create(objectID, collectionID, types.RelationMemberOf, nil, now)
}

// RemoveFromCollection deletes the member_of edge; absent membership is a
// no-op, mirroring UntagObject.
func (s *Service) RemoveFromCollection(objectID, collectionID string) error {
	return s.store.Relations().Delete(types.RelationDelete{
		FromID: objectID,
		ToID:   collectionID,
		Type:   types.RelationMemberOf,
	})
}

// ObjectsInCollection returns the non-archived members of a collection,
// newest first.
func (s *Service) ObjectsInCollection(collectionID string) ([]*types.Object, error) {
	return s.objectsLinkedTo(collectionID, types.RelationMemberOf)
}

// objectsLinkedTo joins to-anchored edges of one type against the object
// store, dropping archived objects, ordered by creation time descending.
func (s *Service) objectsLinkedTo(targetID, relationType string) ([]*types.Object, error) {
	rels, err := s.store.Relations().Find(types.RelationFilter{
		ObjectID:  targetID,
		Type:      relationType,
		Direction: types.DirectionTo,
	})
	if err != nil {
		return nil, err
	}

	objects := make([]*types.Object, 0, len(rels))
	for _, rel := range rels {
		obj, err := s.store.Objects().Get(rel.FromID)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if obj.Archived {
			continue
		}
		objects = append(objects, obj)
	}

	sort.Slice(objects, func(i, j int) bool {
		a, b := objects[i], objects[j]
		if a.Metadata.CreatedAt.Equal(b.Metadata.CreatedAt) {
			return a.ID < b.ID
		}
		return a.Metadata.CreatedAt.After(b.Metadata.CreatedAt)
	})
	return objects, nil
}
