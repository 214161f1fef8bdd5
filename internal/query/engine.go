// Package query executes filter/sort/limit specifications against the live
// object set. Execution is two-stage: an index-assisted storage predicate,
// then residual in-memory filters the storage layer cannot express.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexradu95/tangle/internal/tags"
	"github.com/alexradu95/tangle/pkg/types"
)

// Engine executes query specifications. Saved Query objects and ad-hoc
// specs go through the same path, so previewed and saved results can never
// drift apart.
type Engine struct {
	store types.Store
	tags  *tags.Service
}

// NewEngine creates a query engine over store.
func NewEngine(store types.Store, tagService *tags.Service) *Engine {
	return &Engine{store: store, tags: tagService}
}

// Execute runs a saved Query object. The object's queryType property must
// be "filter"; other kinds are reserved and fail with
// ErrUnsupportedQueryType. Execution is idempotent and always reflects
// current store state.
func (e *Engine) Execute(queryObj *types.Object) ([]*types.Object, error) {
	if queryObj.Type != types.TypeQuery {
		return nil, fmt.Errorf("%w: object %s is a %s, not a query", types.ErrValidation, queryObj.ID, queryObj.Type)
	}

	queryType, _ := queryObj.Properties[types.QueryPropType].Value.(string)
	if queryType != types.QueryTypeFilter {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedQueryType, queryType)
	}

	spec, err := specFromObject(queryObj)
	if err != nil {
		return nil, err
	}
	return e.ExecuteSpec(spec)
}

// ExecuteSpec runs an ad-hoc specification. This is the single execution
// path; Execute merely parses a saved Query down to a spec first.
func (e *Engine) ExecuteSpec(spec types.QuerySpec) ([]*types.Object, error) {
	pred := types.ObjectPredicate{
		Type:         spec.Filters.ObjectType,
		Archived:     spec.Filters.Archived,
		CreatedRange: spec.Filters.DateRange,
	}

	sortClause := types.SortClause{}
	if spec.Sort != nil {
		sortClause = *spec.Sort
	}

	residual := len(spec.Filters.Properties) > 0 || len(spec.Filters.Tags) > 0
	if !residual {
		// No residual pass: sort and limit push down to the storage stage.
		pred.Sort = sortClause
		pred.Limit = spec.Limit
		return e.store.Objects().Search(pred)
	}

	// A residual pass follows, so the storage stage must not limit: a LIMIT
	// ahead of a selective residual filter silently under-returns. Sort and
	// limit both move to the final pass.
	objects, err := e.store.Objects().Search(pred)
	if err != nil {
		return nil, err
	}

	objects = filterProperties(objects, spec.Filters.Properties)

	objects, err = e.filterTags(objects, spec.Filters.Tags)
	if err != nil {
		return nil, err
	}

	if err := sortObjects(objects, sortClause); err != nil {
		return nil, err
	}
	if spec.Limit > 0 && len(objects) > spec.Limit {
		objects = objects[:spec.Limit]
	}
	return objects, nil
}

// specFromObject decodes the QuerySpec stored as a long-text JSON property
// on a saved Query object. A missing spec property is an empty spec.
func specFromObject(queryObj *types.Object) (types.QuerySpec, error) {
	var spec types.QuerySpec

	raw, _ := queryObj.Properties[types.QueryPropSpec].Value.(string)
	if raw == "" {
		return spec, nil
	}
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return spec, fmt.Errorf("%w: query spec is not valid JSON: %v", types.ErrValidation, err)
	}
	return spec, nil
}

// filterProperties keeps objects whose property under each requested key
// exists with its unwrapped value deep-equal to the expected value. A
// missing key excludes the object; there is no partial match.
func filterProperties(objects []*types.Object, want map[string]any) []*types.Object {
	if len(want) == 0 {
		return objects
	}

	kept := objects[:0]
	for _, obj := range objects {
		if matchesProperties(obj, want) {
			kept = append(kept, obj)
		}
	}
	return kept
}

func matchesProperties(obj *types.Object, want map[string]any) bool {
	for key, expected := range want {
		pv, ok := obj.Properties[key]
		if !ok {
			return false
		}
		if !valueEquals(pv.Value, expected) {
			return false
		}
	}
	return true
}

// valueEquals deep-compares two property values through their canonical
// JSON encoding, which unifies the numeric and list representations that
// differ between freshly built and store-hydrated values.
func valueEquals(a, b any) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}

// filterTags intersects the input with the objects carrying every named
// tag. Intersection, not union: an object missing any one of the requested
// tags is excluded. A tag name that resolves to no tag object empties the
// result.
func (e *Engine) filterTags(objects []*types.Object, tagNames []string) ([]*types.Object, error) {
	if len(tagNames) == 0 {
		return objects, nil
	}

	var allowed map[string]bool
	for _, name := range tagNames {
		tagged, err := e.taggedObjectIDs(name)
		if err != nil {
			return nil, err
		}
		if allowed == nil {
			allowed = tagged
			continue
		}
		for id := range allowed {
			if !tagged[id] {
				delete(allowed, id)
			}
		}
	}

	kept := objects[:0]
	for _, obj := range objects {
		if allowed[obj.ID] {
			kept = append(kept, obj)
		}
	}
	return kept, nil
}

// taggedObjectIDs resolves a tag name and returns the set of object IDs
// linked to it via tagged_with. An unresolvable name yields the empty set.
func (e *Engine) taggedObjectIDs(name string) (map[string]bool, error) {
	tag, err := e.tags.FindTagByName(name)
	if errors.Is(err, types.ErrNotFound) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}

	rels, err := e.store.Relations().Find(types.RelationFilter{
		ObjectID:  tag.ID,
		Type:      types.RelationTaggedWith,
		Direction: types.DirectionTo,
	})
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(rels))
	for _, rel := range rels {
		ids[rel.FromID] = true
	}
	return ids, nil
}

// sortObjects orders the residual-filtered result with the same field and
// direction semantics as the storage stage: default created_at descending,
// title case-insensitive, ties broken by ID.
func sortObjects(objects []*types.Object, clause types.SortClause) error {
	field := clause.Field
	if field == "" {
		field = types.SortByCreatedAt
	}
	direction := clause.Direction
	if direction == "" {
		if clause.Field == "" {
			direction = types.SortDesc
		} else {
			direction = types.SortAsc
		}
	}

	var less func(a, b *types.Object) bool
	switch field {
	case types.SortByCreatedAt:
		less = func(a, b *types.Object) bool { return a.Metadata.CreatedAt.Before(b.Metadata.CreatedAt) }
	case types.SortByUpdatedAt:
		less = func(a, b *types.Object) bool { return a.Metadata.UpdatedAt.Before(b.Metadata.UpdatedAt) }
	case types.SortByTitle:
		less = func(a, b *types.Object) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		return fmt.Errorf("%w: sort field %q", types.ErrInvalidArgument, field)
	}

	descending := false
	switch direction {
	case types.SortAsc:
	case types.SortDesc:
		descending = true
	default:
		return fmt.Errorf("%w: sort direction %q", types.ErrInvalidArgument, direction)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		a, b := objects[i], objects[j]
		if less(a, b) != less(b, a) {
			if descending {
				return less(b, a)
			}
			return less(a, b)
		}
		return a.ID < b.ID
	})
	return nil
}
