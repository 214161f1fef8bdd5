// Object table accessor: hydration between SQLite rows and *types.Object,
// validation on every write, derived-day lookups.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexradu95/tangle/pkg/types"
)

var _ types.ObjectStore = (*objectStore)(nil)

type objectStore struct {
	backend *Backend
}

// objectColumns is the SELECT column list shared by all object reads.
const objectColumns = "object_id, object_type, title, content, properties, archived, metadata, created_at, updated_at"

// metaJSON is the persisted shape of the metadata column. Timestamps live
// in their own columns so the generated day columns can index them.
type metaJSON struct {
	Tags      []string `json:"tags,omitempty"`
	Favorited bool     `json:"favorited,omitempty"`
}

// Create validates and inserts obj, stamping identity and timestamps.
// Unique-index collisions (one non-archived daily note per date) surface
// as ErrConflict so the caller can re-read and retry.
func (os *objectStore) Create(obj *types.Object, now time.Time) (*types.Object, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	stored := *obj
	stored.ID = generateUUID()
	stored.Metadata.CreatedAt = now
	stored.Metadata.UpdatedAt = now
	if stored.Properties == nil {
		stored.Properties = make(map[string]types.PropertyValue)
	}

	propsBlob, metaBlob, err := marshalObjectBlobs(&stored)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"INSERT INTO objects (object_id, object_type, title, content, properties, archived, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		stored.ID, stored.Type, stored.Title, stored.Content, propsBlob,
		boolToInt(stored.Archived), metaBlob,
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", types.ErrConflict, err)
		}
		return nil, fmt.Errorf("inserting object: %w", err)
	}
	return &stored, nil
}

// Get retrieves an object by ID.
func (os *objectStore) Get(id string) (*types.Object, error) {
	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty object id", types.ErrInvalidArgument)
	}

	row := db.QueryRow("SELECT "+objectColumns+" FROM objects WHERE object_id = ?", id)
	obj, err := hydrateObject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting object %s: %w", id, err)
	}
	return obj, nil
}

// Update applies patch to the stored object, revalidates, and refreshes
// updated_at unconditionally.
func (os *objectStore) Update(id string, patch types.ObjectPatch, now time.Time) (*types.Object, error) {
	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}

	obj, err := os.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		obj.Title = *patch.Title
	}
	if patch.Content != nil {
		obj.Content = *patch.Content
	}
	if patch.Properties != nil {
		obj.Properties = patch.Properties
	}
	if patch.Favorited != nil {
		obj.Metadata.Favorited = *patch.Favorited
	}
	if patch.Tags != nil {
		obj.Metadata.Tags = patch.Tags
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	obj.Metadata.UpdatedAt = now.UTC()
	propsBlob, metaBlob, err := marshalObjectBlobs(obj)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(
		"UPDATE objects SET title = ?, content = ?, properties = ?, metadata = ?, updated_at = ? WHERE object_id = ?",
		obj.Title, obj.Content, propsBlob, metaBlob,
		obj.Metadata.UpdatedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", types.ErrConflict, err)
		}
		return nil, fmt.Errorf("updating object %s: %w", id, err)
	}
	return obj, nil
}

// Archive soft-deletes the object.
func (os *objectStore) Archive(id string, now time.Time) error {
	return os.setArchived(id, true, now)
}

// Unarchive reverses a soft delete.
func (os *objectStore) Unarchive(id string, now time.Time) error {
	return os.setArchived(id, false, now)
}

func (os *objectStore) setArchived(id string, archived bool, now time.Time) error {
	db, err := os.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec(
		"UPDATE objects SET archived = ?, updated_at = ? WHERE object_id = ?",
		boolToInt(archived), now.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("archiving object %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archiving object %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Delete hard-deletes the object. Relations naming it as either endpoint
// are removed by the ON DELETE CASCADE foreign keys, not by application
// cleanup.
func (os *objectStore) Delete(id string) error {
	db, err := os.backend.conn()
	if err != nil {
		return err
	}

	res, err := db.Exec("DELETE FROM objects WHERE object_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// ListByType returns objects of one type filtered and ordered per opts.
func (os *objectStore) ListByType(objectType string, opts types.ListOptions) ([]*types.Object, error) {
	if objectType == "" {
		return nil, fmt.Errorf("%w: object type must not be empty", types.ErrInvalidArgument)
	}
	return os.Search(types.ObjectPredicate{
		Type:         objectType,
		Archived:     opts.Archived,
		CreatedRange: opts.CreatedRange,
		Sort:         opts.Sort,
		Limit:        opts.Limit,
	})
}

// Search answers the index-assisted predicate: type and archived equality
// plus an inclusive created_day range, each backed by an index. Archived
// defaults to false when unspecified. Day bounds compare only against the
// derived created_day column; raw timestamps never enter day comparisons,
// which is what keeps range boundaries from drifting by one day.
func (os *objectStore) Search(pred types.ObjectPredicate) ([]*types.Object, error) {
	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + objectColumns + " FROM objects WHERE 1=1"
	var args []any

	if pred.Type != "" {
		query += " AND object_type = ?"
		args = append(args, pred.Type)
	}

	archived := false
	if pred.Archived != nil {
		archived = *pred.Archived
	}
	query += " AND archived = ?"
	args = append(args, boolToInt(archived))

	if pred.CreatedRange != nil {
		if pred.CreatedRange.Start != "" {
			query += " AND created_day >= ?"
			args = append(args, pred.CreatedRange.Start)
		}
		if pred.CreatedRange.End != "" {
			query += " AND created_day <= ?"
			args = append(args, pred.CreatedRange.End)
		}
	}

	orderBy, err := orderClause(pred.Sort)
	if err != nil {
		return nil, err
	}
	query += orderBy

	if pred.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", pred.Limit)
	}

	return os.queryObjects(db, query, args...)
}

// ListCreatedOn returns non-archived objects created on day, oldest first.
func (os *objectStore) ListCreatedOn(day string) ([]*types.Object, error) {
	return os.listByDay("created_day", day)
}

// ListUpdatedOn returns non-archived objects last modified on day, oldest first.
func (os *objectStore) ListUpdatedOn(day string) ([]*types.Object, error) {
	return os.listByDay("updated_day", day)
}

func (os *objectStore) listByDay(column, day string) ([]*types.Object, error) {
	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}
	query := "SELECT " + objectColumns + " FROM objects WHERE " + column + " = ? AND archived = 0 ORDER BY created_at ASC"
	return os.queryObjects(db, query, day)
}

// FindDailyNote returns the non-archived daily note for day. The lookup
// matches the partial unique index expression, so there is at most one row.
func (os *objectStore) FindDailyNote(day string) (*types.Object, error) {
	db, err := os.backend.conn()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(
		"SELECT "+objectColumns+" FROM objects WHERE object_type = ? AND archived = 0 AND json_extract(properties, '$.date.value') = ?",
		types.TypeDailyNote, day,
	)
	obj, err := hydrateObject(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("finding daily note for %s: %w", day, err)
	}
	return obj, nil
}

func (os *objectStore) queryObjects(db *sql.DB, query string, args ...any) ([]*types.Object, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching objects: %w", err)
	}
	defer rows.Close()

	results := []*types.Object{}
	for rows.Next() {
		obj, err := hydrateObject(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating object: %w", err)
		}
		results = append(results, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return results, nil
}

// orderClause maps a SortClause onto a whitelisted ORDER BY fragment.
// Title sorts are case-insensitive; ties on any field break by object_id so
// ordering stays deterministic.
func orderClause(sort types.SortClause) (string, error) {
	field := sort.Field
	if field == "" {
		field = types.SortByCreatedAt
	}
	direction := sort.Direction
	if direction == "" {
		if sort.Field == "" {
			direction = types.SortDesc
		} else {
			direction = types.SortAsc
		}
	}

	var column string
	switch field {
	case types.SortByCreatedAt:
		column = "created_at"
	case types.SortByUpdatedAt:
		column = "updated_at"
	case types.SortByTitle:
		column = "title COLLATE NOCASE"
	default:
		return "", fmt.Errorf("%w: sort field %q", types.ErrInvalidArgument, field)
	}

	switch direction {
	case types.SortAsc:
		return " ORDER BY " + column + " ASC, object_id ASC", nil
	case types.SortDesc:
		return " ORDER BY " + column + " DESC, object_id ASC", nil
	default:
		return "", fmt.Errorf("%w: sort direction %q", types.ErrInvalidArgument, direction)
	}
}

// marshalObjectBlobs serializes the properties and metadata JSON columns.
func marshalObjectBlobs(obj *types.Object) (string, string, error) {
	propsBlob, err := json.Marshal(obj.Properties)
	if err != nil {
		return "", "", fmt.Errorf("marshaling properties: %w", err)
	}
	metaBlob, err := json.Marshal(metaJSON{
		Tags:      obj.Metadata.Tags,
		Favorited: obj.Metadata.Favorited,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshaling metadata: %w", err)
	}
	return string(propsBlob), string(metaBlob), nil
}

// hydrateObject converts a row into a *types.Object. Stored property blobs
// are re-validated at this boundary rather than trusted.
func hydrateObject(scan func(...any) error) (*types.Object, error) {
	var obj types.Object
	var propsBlob, metaBlob, createdAt, updatedAt string
	var archived int

	if err := scan(&obj.ID, &obj.Type, &obj.Title, &obj.Content, &propsBlob, &archived, &metaBlob, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	obj.Archived = archived != 0

	if err := json.Unmarshal([]byte(propsBlob), &obj.Properties); err != nil {
		return nil, fmt.Errorf("parsing properties: %w", err)
	}
	for key, pv := range obj.Properties {
		if err := pv.Validate(); err != nil {
			return nil, fmt.Errorf("stored property %q: %w", key, err)
		}
	}

	var meta metaJSON
	if err := json.Unmarshal([]byte(metaBlob), &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	obj.Metadata.Tags = meta.Tags
	obj.Metadata.Favorited = meta.Favorited

	var err error
	obj.Metadata.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	obj.Metadata.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &obj, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
