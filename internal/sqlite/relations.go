// Relation table accessor: directed typed edges with endpoint checks,
// duplicate detection, and criteria-based deletion.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexradu95/tangle/pkg/types"
)

var _ types.RelationStore = (*relationStore)(nil)

type relationStore struct {
	backend *Backend
}

const relationColumns = "relation_id, relation_type, from_id, to_id, metadata, created_at"

// Create inserts a directed edge. Both endpoints must exist (ErrNotFound
// otherwise) and the (type, from, to) triple must be new (ErrConflict on a
// duplicate, backed by the unique index for racing writers).
func (rs *relationStore) Create(fromID, toID, relationType string, metadata map[string]any, now time.Time) (*types.Relation, error) {
	db, err := rs.backend.conn()
	if err != nil {
		return nil, err
	}

	if !types.IsValidRelationType(relationType) {
		return nil, fmt.Errorf("%w: relation type %q", types.ErrValidation, relationType)
	}
	if fromID == "" || toID == "" {
		return nil, fmt.Errorf("%w: relation endpoints must not be empty", types.ErrValidation)
	}

	for _, endpoint := range []string{fromID, toID} {
		var one int
		err := db.QueryRow("SELECT 1 FROM objects WHERE object_id = ?", endpoint).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: endpoint object %s", types.ErrNotFound, endpoint)
		}
		if err != nil {
			return nil, fmt.Errorf("checking endpoint %s: %w", endpoint, err)
		}
	}

	exists, err := rs.Exists(fromID, toID, relationType)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s edge %s -> %s already exists", types.ErrConflict, relationType, fromID, toID)
	}

	rel := &types.Relation{
		ID:        generateUUID(),
		FromID:    fromID,
		ToID:      toID,
		Type:      relationType,
		Metadata:  metadata,
		CreatedAt: now.UTC(),
	}

	metaBlob := "{}"
	if len(metadata) > 0 {
		blob, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("marshaling relation metadata: %w", err)
		}
		metaBlob = string(blob)
	}

	_, err = db.Exec(
		"INSERT INTO relations (relation_id, relation_type, from_id, to_id, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rel.ID, rel.Type, rel.FromID, rel.ToID, metaBlob, rel.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s edge %s -> %s already exists", types.ErrConflict, relationType, fromID, toID)
		}
		return nil, fmt.Errorf("inserting relation: %w", err)
	}
	return rel, nil
}

// Find returns edges anchored at filter.ObjectID, newest first. Direction
// both unions the from-anchored and to-anchored halves; the default
// direction is both.
func (rs *relationStore) Find(filter types.RelationFilter) ([]*types.Relation, error) {
	db, err := rs.backend.conn()
	if err != nil {
		return nil, err
	}
	if filter.ObjectID == "" {
		return nil, fmt.Errorf("%w: relation lookup requires an object id", types.ErrInvalidArgument)
	}

	var condition string
	args := []any{}
	switch filter.Direction {
	case types.DirectionFrom:
		condition = "from_id = ?"
		args = append(args, filter.ObjectID)
	case types.DirectionTo:
		condition = "to_id = ?"
		args = append(args, filter.ObjectID)
	case types.DirectionBoth, "":
		condition = "(from_id = ? OR to_id = ?)"
		args = append(args, filter.ObjectID, filter.ObjectID)
	default:
		return nil, fmt.Errorf("%w: direction %q", types.ErrInvalidArgument, filter.Direction)
	}

	query := "SELECT " + relationColumns + " FROM relations WHERE " + condition
	if filter.Type != "" {
		query += " AND relation_type = ?"
		args = append(args, filter.Type)
	}
	query += " ORDER BY created_at DESC, relation_id ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching relations: %w", err)
	}
	defer rows.Close()

	results := []*types.Relation{}
	for rows.Next() {
		rel, err := hydrateRelation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("hydrating relation: %w", err)
		}
		results = append(results, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating relations: %w", err)
	}
	return results, nil
}

// Exists reports whether an edge with the exact triple exists.
func (rs *relationStore) Exists(fromID, toID, relationType string) (bool, error) {
	db, err := rs.backend.conn()
	if err != nil {
		return false, err
	}

	var one int
	err = db.QueryRow(
		"SELECT 1 FROM relations WHERE relation_type = ? AND from_id = ? AND to_id = ?",
		relationType, fromID, toID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking relation existence: %w", err)
	}
	return true, nil
}

// Delete removes edges matching the criteria. Deleting zero rows is not an
// error; deletion by criteria is idempotent. An empty criteria set is
// rejected to prevent accidental full-table deletion.
func (rs *relationStore) Delete(criteria types.RelationDelete) error {
	db, err := rs.backend.conn()
	if err != nil {
		return err
	}
	if criteria.Empty() {
		return fmt.Errorf("%w: relation delete requires criteria", types.ErrInvalidArgument)
	}

	var conditions []string
	var args []any
	if criteria.ID != "" {
		conditions = append(conditions, "relation_id = ?")
		args = append(args, criteria.ID)
	}
	if criteria.FromID != "" {
		conditions = append(conditions, "from_id = ?")
		args = append(args, criteria.FromID)
	}
	if criteria.ToID != "" {
		conditions = append(conditions, "to_id = ?")
		args = append(args, criteria.ToID)
	}
	if criteria.Type != "" {
		conditions = append(conditions, "relation_type = ?")
		args = append(args, criteria.Type)
	}

	_, err = db.Exec("DELETE FROM relations WHERE "+strings.Join(conditions, " AND "), args...)
	if err != nil {
		return fmt.Errorf("deleting relations: %w", err)
	}
	return nil
}

// hydrateRelation converts a row into a *types.Relation.
func hydrateRelation(scan func(...any) error) (*types.Relation, error) {
	var rel types.Relation
	var metaBlob, createdAt string

	if err := scan(&rel.ID, &rel.Type, &rel.FromID, &rel.ToID, &metaBlob, &createdAt); err != nil {
		return nil, err
	}

	if metaBlob != "" && metaBlob != "{}" {
		if err := json.Unmarshal([]byte(metaBlob), &rel.Metadata); err != nil {
			return nil, fmt.Errorf("parsing relation metadata: %w", err)
		}
	}

	var err error
	rel.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &rel, nil
}
