// Package timeline derives per-day object indexes from the store's derived
// day columns and maintains the daily-note anchor objects that created_on
// edges point at.
package timeline

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/alexradu95/tangle/pkg/types"
)

// dailyNoteTitlePrefix prefixes auto-created daily note titles.
const dailyNoteTitlePrefix = "Daily Note - "

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDay checks a YYYY-MM-DD string both syntactically and against the
// calendar: "2025-02-30" is rejected, not normalized. The offending string
// is echoed in the error.
func ValidateDay(day string) error {
	if !dayPattern.MatchString(day) {
		return fmt.Errorf("%w: %q", types.ErrInvalidDate, day)
	}
	if _, err := time.Parse(types.DayFormat, day); err != nil {
		return fmt.Errorf("%w: %q", types.ErrInvalidDate, day)
	}
	return nil
}

// Service resolves daily notes and answers day-indexed timeline lookups.
// All date strings are UTC calendar days, matching the store's derived day
// columns.
type Service struct {
	store types.Store

	// gatesMu guards gates; each per-day mutex serializes in-process
	// get-or-create for that day. Cross-process racers are caught by the
	// store's unique daily-note index instead.
	gatesMu sync.Mutex
	gates   map[string]*sync.Mutex
}

// NewService creates a timeline service over store.
func NewService(store types.Store) *Service {
	return &Service{
		store: store,
		gates: make(map[string]*sync.Mutex),
	}
}

// GetOrCreateDailyNote returns the daily note for day, creating it on first
// reference. Calling it twice for the same day returns the same object.
// Concurrent callers are serialized per day, and a lost race against
// another process resolves by re-reading after the unique-index conflict.
func (s *Service) GetOrCreateDailyNote(day string, now time.Time) (*types.Object, error) {
	if err := ValidateDay(day); err != nil {
		return nil, err
	}

	gate := s.dayGate(day)
	gate.Lock()
	defer gate.Unlock()

	note, err := s.store.Objects().FindDailyNote(day)
	if err == nil {
		return note, nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	created, err := s.store.Objects().Create(&types.Object{
		Type:  types.TypeDailyNote,
		Title: dailyNoteTitlePrefix + day,
		Properties: map[string]types.PropertyValue{
			"date": types.DateValue(day),
		},
	}, now)
	if err == nil {
		return created, nil
	}
	if errors.Is(err, types.ErrConflict) {
		// Another creator won; its note is the canonical one.
		return s.store.Objects().FindDailyNote(day)
	}
	return nil, err
}

// OnObjectCreated links a freshly created object to the daily note for its
// creation day with an auto-tagged created_on edge. Daily notes themselves
// are skipped, which is what keeps note creation from recursing.
func (s *Service) OnObjectCreated(obj *types.Object, now time.Time) error {
	if obj.Type == types.TypeDailyNote {
		return nil
	}

	note, err := s.GetOrCreateDailyNote(obj.CreatedDay(), now)
	if err != nil {
		return fmt.Errorf("resolving daily note: %w", err)
	}

	_, err = s.store.Relations().Create(obj.ID, note.ID, types.RelationCreatedOn,
		map[string]any{"auto": true}, now)
	if err != nil {
		return fmt.Errorf("linking object to daily note: %w", err)
	}
	return nil
}

// ObjectsCreatedOnDate returns non-archived objects whose derived creation
// day equals day, oldest first.
func (s *Service) ObjectsCreatedOnDate(day string) ([]*types.Object, error) {
	if err := ValidateDay(day); err != nil {
		return nil, err
	}
	return s.store.Objects().ListCreatedOn(day)
}

// ObjectsModifiedOnDate is ObjectsCreatedOnDate over the derived update day.
func (s *Service) ObjectsModifiedOnDate(day string) ([]*types.Object, error) {
	if err := ValidateDay(day); err != nil {
		return nil, err
	}
	return s.store.Objects().ListUpdatedOn(day)
}

// DailyNoteTimeline returns the non-archived objects carrying a created_on
// edge to the given daily note, ordered by creation time ascending.
func (s *Service) DailyNoteTimeline(dailyNoteID string) ([]*types.Object, error) {
	rels, err := s.store.Relations().Find(types.RelationFilter{
		ObjectID:  dailyNoteID,
		Type:      types.RelationCreatedOn,
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
		return a.Metadata.CreatedAt.Before(b.Metadata.CreatedAt)
	})
	return objects, nil
}

func (s *Service) dayGate(day string) *sync.Mutex {
	s.gatesMu.Lock()
	defer s.gatesMu.Unlock()
	gate, ok := s.gates[day]
	if !ok {
		gate = &sync.Mutex{}
		s.gates[day] = gate
	}
	return gate
}
