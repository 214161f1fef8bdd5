package sqlite

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alexradu95/tangle/pkg/types"
)

func TestObjectCreateDefaults(t *testing.T) {
	b := newTestBackend(t)
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	created := mustCreate(t, b, &types.Object{Type: types.TypeTask, Title: "write tests"}, now)

	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if !created.Metadata.CreatedAt.Equal(now) || !created.Metadata.UpdatedAt.Equal(now) {
		t.Errorf("expected timestamps %v, got %v / %v", now, created.Metadata.CreatedAt, created.Metadata.UpdatedAt)
	}
	if created.Archived {
		t.Error("new objects must not be archived")
	}
	if created.CreatedDay() != "2025-01-15" {
		t.Errorf("derived day mismatch: %s", created.CreatedDay())
	}
}

func TestObjectCreateValidation(t *testing.T) {
	b := newTestBackend(t)
	now := time.Now()

	cases := []struct {
		name string
		obj  *types.Object
	}{
		{"empty title", &types.Object{Type: types.TypeNote}},
		{"oversized title", &types.Object{Type: types.TypeNote, Title: strings.Repeat("x", types.MaxTitleLength+1)}},
		{"bad object type", &types.Object{Type: "Shouting Type", Title: "x"}},
		{
			"property value shape mismatch",
			&types.Object{
				Type:  types.TypeNote,
				Title: "x",
				Properties: map[string]types.PropertyValue{
					"count": {Kind: types.KindNumber, Value: "twelve"},
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := b.Objects().Create(tc.obj, now); !errors.Is(err, types.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestObjectPropertiesRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	props := map[string]types.PropertyValue{
		"status": {
			Kind:   types.KindSelect,
			Value:  "active",
			Config: map[string]any{"options": []any{"active", "done"}},
		},
		"due":      {Kind: types.KindDate, Value: "2025-03-01"},
		"estimate": {Kind: types.KindNumber, Value: 2.5},
		"urgent":   {Kind: types.KindCheckbox, Value: true},
		"labels":   {Kind: types.KindMultiSelect, Value: []any{"home", "deep-work"}},
	}

	created := mustCreate(t, b, &types.Object{
		Type:       types.TypeTask,
		Title:      "round trip",
		Properties: props,
	}, time.Now())

	got, err := b.Objects().Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got.Properties, props) {
		t.Errorf("properties did not round-trip:\n got %#v\nwant %#v", got.Properties, props)
	}
}

func TestObjectGetNotFound(t *testing.T) {
	b := newTestBackend(t)
	if _, err := b.Objects().Get("missing"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestObjectUpdateRefreshesUpdatedAt(t *testing.T) {
	b := newTestBackend(t)
	created := mustCreate(t, b, &types.Object{Type: types.TypeNote, Title: "v1"},
		time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

	later := time.Date(2025, 1, 16, 9, 30, 0, 0, time.UTC)
	title := "v2"
	updated, err := b.Objects().Update(created.ID, types.ObjectPatch{Title: &title}, later)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "v2" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if !updated.Metadata.UpdatedAt.Equal(later) {
		t.Errorf("updated_at not refreshed: %v", updated.Metadata.UpdatedAt)
	}
	if !updated.Metadata.CreatedAt.Equal(created.Metadata.CreatedAt) {
		t.Errorf("created_at must not change on update")
	}
	if updated.UpdatedDay() != "2025-01-16" {
		t.Errorf("derived update day mismatch: %s", updated.UpdatedDay())
	}

	// The derived day column must agree with the refreshed timestamp.
	onDay, err := b.Objects().ListUpdatedOn("2025-01-16")
	if err != nil {
		t.Fatalf("ListUpdatedOn failed: %v", err)
	}
	if len(onDay) != 1 || onDay[0].ID != created.ID {
		t.Errorf("expected updated object indexed under 2025-01-16, got %d rows", len(onDay))
	}
}

func TestObjectUpdateNotFound(t *testing.T) {
	b := newTestBackend(t)
	title := "x"
	if _, err := b.Objects().Update("missing", types.ObjectPatch{Title: &title}, time.Now()); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestObjectArchiveUnarchive(t *testing.T) {
	b := newTestBackend(t)
	created := mustCreate(t, b, &types.Object{Type: types.TypeNote, Title: "to archive"}, time.Now())

	if err := b.Objects().Archive(created.ID, time.Now()); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	got, err := b.Objects().Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.Archived {
		t.Error("expected archived flag set")
	}

	// Archived objects drop out of default listings.
	listed, err := b.Objects().ListByType(types.TypeNote, types.ListOptions{})
	if err != nil {
		t.Fatalf("ListByType failed: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("archived object leaked into default listing: %d rows", len(listed))
	}

	if err := b.Objects().Unarchive(created.ID, time.Now()); err != nil {
		t.Fatalf("Unarchive failed: %v", err)
	}
	got, _ = b.Objects().Get(created.ID)
	if got.Archived {
		t.Error("expected archived flag cleared")
	}

	if err := b.Objects().Archive("missing", time.Now()); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestObjectDeleteCascadesRelations(t *testing.T) {
	b := newTestBackend(t)
	now := time.Now()

	p1 := mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "P1"}, now)
	p2 := mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "P2"}, now)
	note := mustCreate(t, b, &types.Object{Type: types.TypeNote, Title: "N"}, now)

	if _, err := b.Relations().Create(p1.ID, p2.ID, types.RelationRelatesTo, nil, now); err != nil {
		t.Fatalf("Create relation failed: %v", err)
	}
	if _, err := b.Relations().Create(note.ID, p1.ID, types.RelationReferences, nil, now); err != nil {
		t.Fatalf("Create relation failed: %v", err)
	}

	if err := b.Objects().Delete(p1.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Every edge naming p1 as either endpoint is gone; unrelated rows stay.
	for _, anchor := range []string{p2.ID, note.ID} {
		rels, err := b.Relations().Find(types.RelationFilter{ObjectID: anchor, Direction: types.DirectionBoth})
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if len(rels) != 0 {
			t.Errorf("expected no surviving relations for %s, got %d", anchor, len(rels))
		}
	}
	if _, err := b.Objects().Get(p1.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted object, got %v", err)
	}
	if _, err := b.Objects().Get(p2.ID); err != nil {
		t.Errorf("unrelated object must survive, got %v", err)
	}
}

func TestObjectListByType(t *testing.T) {
	b := newTestBackend(t)

	day15 := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	day16 := time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC)

	p1 := mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "alpha"}, day15)
	p2 := mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "Beta"}, day16)
	mustCreate(t, b, &types.Object{Type: types.TypeTask, Title: "other type"}, day15)

	t.Run("default order is created desc", func(t *testing.T) {
		got, err := b.Objects().ListByType(types.TypeProject, types.ListOptions{})
		if err != nil {
			t.Fatalf("ListByType failed: %v", err)
		}
		if len(got) != 2 || got[0].ID != p2.ID || got[1].ID != p1.ID {
			t.Errorf("unexpected order: %v", titles(got))
		}
	})

	t.Run("title sort is case-insensitive", func(t *testing.T) {
		got, err := b.Objects().ListByType(types.TypeProject, types.ListOptions{
			Sort: types.SortClause{Field: types.SortByTitle, Direction: types.SortAsc},
		})
		if err != nil {
			t.Fatalf("ListByType failed: %v", err)
		}
		if len(got) != 2 || got[0].Title != "alpha" || got[1].Title != "Beta" {
			t.Errorf("unexpected order: %v", titles(got))
		}
	})

	t.Run("inclusive date range", func(t *testing.T) {
		got, err := b.Objects().ListByType(types.TypeProject, types.ListOptions{
			CreatedRange: &types.DateRange{Start: "2025-01-15", End: "2025-01-15"},
		})
		if err != nil {
			t.Fatalf("ListByType failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != p1.ID {
			t.Errorf("expected exactly p1 for the single-day range, got %v", titles(got))
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := b.Objects().ListByType(types.TypeProject, types.ListOptions{Limit: 1})
		if err != nil {
			t.Fatalf("ListByType failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 row, got %d", len(got))
		}
	})

	t.Run("bad sort field", func(t *testing.T) {
		_, err := b.Objects().ListByType(types.TypeProject, types.ListOptions{
			Sort: types.SortClause{Field: "priority"},
		})
		if !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestObjectListCreatedOn(t *testing.T) {
	b := newTestBackend(t)

	p1 := mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "P1"},
		time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))
	mustCreate(t, b, &types.Object{Type: types.TypeProject, Title: "P2"},
		time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC))

	got, err := b.Objects().ListCreatedOn("2025-01-15")
	if err != nil {
		t.Fatalf("ListCreatedOn failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != p1.ID {
		t.Errorf("expected exactly [P1], got %v", titles(got))
	}

	empty, err := b.Objects().ListCreatedOn("2024-12-31")
	if err != nil {
		t.Fatalf("ListCreatedOn failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no rows, got %d", len(empty))
	}
}

func TestDailyNoteUniquePerDay(t *testing.T) {
	b := newTestBackend(t)
	now := time.Now()

	note := &types.Object{
		Type:       types.TypeDailyNote,
		Title:      "Daily Note - 2025-01-15",
		Properties: map[string]types.PropertyValue{"date": types.DateValue("2025-01-15")},
	}
	first := mustCreate(t, b, note, now)

	dup := &types.Object{
		Type:       types.TypeDailyNote,
		Title:      "Daily Note - 2025-01-15",
		Properties: map[string]types.PropertyValue{"date": types.DateValue("2025-01-15")},
	}
	if _, err := b.Objects().Create(dup, now); !errors.Is(err, types.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate daily note, got %v", err)
	}

	found, err := b.Objects().FindDailyNote("2025-01-15")
	if err != nil {
		t.Fatalf("FindDailyNote failed: %v", err)
	}
	if found.ID != first.ID {
		t.Errorf("expected the surviving note to be the first insert")
	}

	if _, err := b.Objects().FindDailyNote("2025-01-16"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown day, got %v", err)
	}
}

func titles(objs []*types.Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Title
	}
	return out
}
