package tags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexradu95/tangle/internal/sqlite"
	"github.com/alexradu95/tangle/pkg/types"
)

func newTestService(t *testing.T) (*Service, types.Store) {
	t.Helper()

	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { store.Detach() })

	return NewService(store), store
}

func createObject(t *testing.T, store types.Store, objectType, title string, props map[string]types.PropertyValue) *types.Object {
	t.Helper()
	obj, err := store.Objects().Create(&types.Object{
		Type:       objectType,
		Title:      title,
		Properties: props,
	}, time.Now())
	require.NoError(t, err)
	return obj
}

func TestTagObject(t *testing.T) {
	svc, store := newTestService(t)

	note := createObject(t, store, types.TypeNote, "a note", nil)
	tag := createObject(t, store, types.TypeTag, "work", map[string]types.PropertyValue{
		"color": types.TextValue("#ff0000"),
	})

	_, err := svc.TagObject(note.ID, tag.ID, time.Now())
	require.NoError(t, err)

	// Re-tagging is a conflict, consistently.
	_, err = svc.TagObject(note.ID, tag.ID, time.Now())
	assert.ErrorIs(t, err, types.ErrConflict)

	// Tag target must actually be a tag object.
	other := createObject(t, store, types.TypeNote, "not a tag", nil)
	_, err = svc.TagObject(note.ID, other.ID, time.Now())
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestUntagObjectIsNoOpWhenAbsent(t *testing.T) {
	svc, store := newTestService(t)

	note := createObject(t, store, types.TypeNote, "a note", nil)
	tag := createObject(t, store, types.TypeTag, "work", nil)

	// Never tagged: no error, no negative edge count.
	require.NoError(t, svc.UntagObject(note.ID, tag.ID))

	_, err := svc.TagObject(note.ID, tag.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.UntagObject(note.ID, tag.ID))
	require.NoError(t, svc.UntagObject(note.ID, tag.ID))

	got, err := svc.ObjectsByTag(tag.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestObjectsByTag(t *testing.T) {
	svc, store := newTestService(t)

	tag := createObject(t, store, types.TypeTag, "work", nil)
	a := createObject(t, store, types.TypeNote, "A", nil)
	b := createObject(t, store, types.TypeTask, "B", nil)
	archived := createObject(t, store, types.TypeNote, "C", nil)

	for _, obj := range []*types.Object{a, b, archived} {
		_, err := svc.TagObject(obj.ID, tag.ID, time.Now())
		require.NoError(t, err)
	}
	require.NoError(t, store.Objects().Archive(archived.ID, time.Now()))

	got, err := svc.ObjectsByTag(tag.ID)
	require.NoError(t, err)
	require.Len(t, got, 2, "archived objects are excluded")

	// Tagging spans object types.
	gotTypes := map[string]bool{}
	for _, obj := range got {
		gotTypes[obj.Type] = true
	}
	assert.True(t, gotTypes[types.TypeNote] && gotTypes[types.TypeTask])
}

func TestFindTagByName(t *testing.T) {
	svc, store := newTestService(t)

	tag := createObject(t, store, types.TypeTag, "work", nil)
	hidden := createObject(t, store, types.TypeTag, "hidden", nil)
	require.NoError(t, store.Objects().Archive(hidden.ID, time.Now()))

	got, err := svc.FindTagByName("work")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	_, err = svc.FindTagByName("hidden")
	assert.ErrorIs(t, err, types.ErrNotFound, "archived tags do not resolve")

	_, err = svc.FindTagByName("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddToCollectionTypeGuard(t *testing.T) {
	svc, store := newTestService(t)

	projects := createObject(t, store, types.TypeCollection, "Projects", map[string]types.PropertyValue{
		CollectionObjectTypeProp: types.TextValue(types.TypeProject),
	})
	project := createObject(t, store, types.TypeProject, "P", nil)
	task := createObject(t, store, types.TypeTask, "T", nil)

	_, err := svc.AddToCollection(project.ID, projects.ID, time.Now())
	require.NoError(t, err)

	// Mismatched member type is rejected and creates no edge.
	_, err = svc.AddToCollection(task.ID, projects.ID, time.Now())
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
	exists, err := store.Relations().Exists(task.ID, projects.ID, types.RelationMemberOf)
	require.NoError(t, err)
	assert.False(t, exists, "no edge may exist after a rejected insert")

	// Duplicate membership conflicts.
	_, err = svc.AddToCollection(project.ID, projects.ID, time.Now())
	assert.ErrorIs(t, err, types.ErrConflict)
}

func TestObjectsInCollection(t *testing.T) {
	svc, store := newTestService(t)

	coll := createObject(t, store, types.TypeCollection, "Tasks", map[string]types.PropertyValue{
		CollectionObjectTypeProp: types.TextValue(types.TypeTask),
	})
	t1 := createObject(t, store, types.TypeTask, "T1", nil)
	t2 := createObject(t, store, types.TypeTask, "T2", nil)

	for _, obj := range []*types.Object{t1, t2} {
		_, err := svc.AddToCollection(obj.ID, coll.ID, time.Now())
		require.NoError(t, err)
	}

	got, err := svc.ObjectsInCollection(coll.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, svc.RemoveFromCollection(t1.ID, coll.ID))
	got, err = svc.ObjectsInCollection(coll.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, t2.ID, got[0].ID)
}
