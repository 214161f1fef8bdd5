package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexradu95/tangle/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "tangle.db"

// Backend implements types.Store on a single SQLite database file.
// The database is the source of truth; every mutation is a committed
// SQLite statement or transaction.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	objects   *objectStore
	relations *relationStore
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates an unattached backend; call Attach with a Config
// before use.
func NewBackend() *Backend {
	b := &Backend{}
	b.objects = &objectStore{backend: b}
	b.relations = &relationStore{backend: b}
	return b
}

// Attach opens (or creates) the database under config.DataDir and applies
// the schema. Returns ErrAlreadyOpen when called on an attached backend.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// foreign_keys gives relations their cascade-on-delete semantics;
	// busy_timeout keeps concurrent writers from failing fast with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		filepath.Join(dataDir, dbFileName))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent; after Detach all table
// operations return ErrStoreClosed.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Objects returns the object table accessor.
func (b *Backend) Objects() types.ObjectStore { return b.objects }

// Relations returns the relation table accessor.
func (b *Backend) Relations() types.RelationStore { return b.relations }

// conn returns the live database handle, or ErrStoreClosed.
func (b *Backend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreClosed
	}
	return b.db, nil
}

// generateUUID generates a UUID v7 for entity IDs, falling back to v4 if
// v7 generation fails.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// isUniqueViolation reports whether err is a SQLite unique-constraint
// failure. Used to map index collisions (duplicate edges, duplicate daily
// notes) onto types.ErrConflict.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
