// Package graph composes the object and relation stores with the timeline,
// tag, and query services into the single entry point callers use.
package graph

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/alexradu95/tangle/internal/query"
	"github.com/alexradu95/tangle/internal/tags"
	"github.com/alexradu95/tangle/internal/timeline"
	"github.com/alexradu95/tangle/pkg/types"
)

// Service is the knowledge-graph facade. Object creation goes through
// CreateObject so every new object gets its timeline edge.
type Service struct {
	store    types.Store
	timeline *timeline.Service
	tags     *tags.Service
	engine   *query.Engine
	log      *zap.Logger
	clock    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is a no-op logger, which keeps
// library use silent.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock injects the time source, so tests can pin "today".
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService builds the facade over an attached store.
func NewService(store types.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		timeline: timeline.NewService(store),
		tags:     tags.NewService(store),
		log:      zap.NewNop(),
		clock:    time.Now,
	}
	s.engine = query.NewEngine(store, s.tags)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying object/relation stores.
func (s *Service) Store() types.Store { return s.store }

// Timeline exposes the timeline service.
func (s *Service) Timeline() *timeline.Service { return s.timeline }

// Tags exposes the tag/collection service.
func (s *Service) Tags() *tags.Service { return s.tags }

// Queries exposes the query engine.
func (s *Service) Queries() *query.Engine { return s.engine }

// CreateObject creates an object and links it to today's daily note. The
// object row commits first; the auto-link is best-effort afterwards, so a
// timeline failure can never fail or roll back the creation. Failures are
// logged and swallowed here, deliberately.
func (s *Service) CreateObject(obj *types.Object) (*types.Object, error) {
	now := s.clock()

	created, err := s.store.Objects().Create(obj, now)
	if err != nil {
		return nil, err
	}

	if err := s.timeline.OnObjectCreated(created, now); err != nil {
		s.log.Warn("auto-link to daily note failed",
			zap.String("object_id", created.ID),
			zap.String("object_type", created.Type),
			zap.String("day", created.CreatedDay()),
			zap.Error(err))
	}
	return created, nil
}

// GetOrCreateDailyNote resolves the daily note for day, creating it on
// first reference.
func (s *Service) GetOrCreateDailyNote(day string) (*types.Object, error) {
	return s.timeline.GetOrCreateDailyNote(day, s.clock())
}

// Link creates a typed directed relation between two existing objects.
func (s *Service) Link(fromID, toID, relationType string, metadata map[string]any) (*types.Relation, error) {
	return s.store.Relations().Create(fromID, toID, relationType, metadata, s.clock())
}

// TagObject tags an object, creating the tagged_with edge.
func (s *Service) TagObject(objectID, tagID string) (*types.Relation, error) {
	return s.tags.TagObject(objectID, tagID, s.clock())
}

// AddToCollection adds an object to a type-compatible collection.
func (s *Service) AddToCollection(objectID, collectionID string) (*types.Relation, error) {
	return s.tags.AddToCollection(objectID, collectionID, s.clock())
}

// Neighbors returns the objects at the other end of every relation of the
// given type touching objectID, regardless of direction. A self-loop
// contributes the object itself, once. Pass an empty relationType for all
// relation types.
func (s *Service) Neighbors(objectID, relationType string) ([]*types.Object, error) {
	rels, err := s.store.Relations().Find(types.RelationFilter{
		ObjectID: objectID,
		Type:     relationType,
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rels))
	neighbors := make([]*types.Object, 0, len(rels))
	for _, rel := range rels {
		otherID := rel.OtherEnd(objectID)
		if seen[otherID] {
			continue
		}
		seen[otherID] = true

		obj, err := s.store.Objects().Get(otherID)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		neighbors = append(neighbors, obj)
	}
	return neighbors, nil
}

// ArchiveObject soft-deletes an object.
func (s *Service) ArchiveObject(id string) error {
	return s.store.Objects().Archive(id, s.clock())
}

// UnarchiveObject reverses a soft delete.
func (s *Service) UnarchiveObject(id string) error {
	return s.store.Objects().Unarchive(id, s.clock())
}

// DeleteObject hard-deletes an object; its edges cascade away with it.
func (s *Service) DeleteObject(id string) error {
	return s.store.Objects().Delete(id)
}

// UpdateObject applies a patch; the store refreshes updated_at.
func (s *Service) UpdateObject(id string, patch types.ObjectPatch) (*types.Object, error) {
	return s.store.Objects().Update(id, patch, s.clock())
}
