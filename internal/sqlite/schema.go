// Package sqlite implements the SQLite storage backend for tangle.
package sqlite

// Schema DDL. Objects and relations live in two tables; tags, collections,
// queries, and daily notes are ordinary object rows distinguished by
// object_type, and all graph semantics ride on relations rows.
//
// created_day/updated_day are generated columns over the RFC 3339 UTC
// timestamp columns, so the derived day can never drift from its timestamp.
const (
	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    object_id TEXT PRIMARY KEY,
    object_type TEXT NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    properties TEXT NOT NULL DEFAULT '{}',
    archived INTEGER NOT NULL DEFAULT 0,
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    created_day TEXT GENERATED ALWAYS AS (date(created_at)) STORED,
    updated_day TEXT GENERATED ALWAYS AS (date(updated_at)) STORED
);`

	createRelations = `CREATE TABLE IF NOT EXISTS relations (
    relation_id TEXT PRIMARY KEY,
    relation_type TEXT NOT NULL,
    from_id TEXT NOT NULL REFERENCES objects(object_id) ON DELETE CASCADE,
    to_id TEXT NOT NULL REFERENCES objects(object_id) ON DELETE CASCADE,
    metadata TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL
);`
)

// Index DDL. The partial unique index on the daily-note date property is
// what makes getOrCreateDailyNote safe under concurrent creators: the loser
// of the race gets a constraint violation and re-reads.
const (
	idxObjectsType       = `CREATE INDEX IF NOT EXISTS idx_objects_type ON objects(object_type);`
	idxObjectsArchived   = `CREATE INDEX IF NOT EXISTS idx_objects_archived ON objects(archived);`
	idxObjectsCreatedDay = `CREATE INDEX IF NOT EXISTS idx_objects_created_day ON objects(created_day);`
	idxObjectsUpdatedDay = `CREATE INDEX IF NOT EXISTS idx_objects_updated_day ON objects(updated_day);`
	idxObjectsDailyNote  = `CREATE UNIQUE INDEX IF NOT EXISTS idx_objects_daily_note_day
    ON objects(json_extract(properties, '$.date.value'))
    WHERE object_type = 'daily-note' AND archived = 0;`

	idxRelationsUnique = `CREATE UNIQUE INDEX IF NOT EXISTS idx_relations_unique ON relations(relation_type, from_id, to_id);`
	idxRelationsFrom   = `CREATE INDEX IF NOT EXISTS idx_relations_from ON relations(from_id, relation_type);`
	idxRelationsTo     = `CREATE INDEX IF NOT EXISTS idx_relations_to ON relations(to_id, relation_type);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createObjects,
	createRelations,
	idxObjectsType,
	idxObjectsArchived,
	idxObjectsCreatedDay,
	idxObjectsUpdatedDay,
	idxObjectsDailyNote,
	idxRelationsUnique,
	idxRelationsFrom,
	idxRelationsTo,
}
