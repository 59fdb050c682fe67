// Package duckdb keeps the listings catalog served by marsestate.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tinytelemetry/marsestate/internal/duckdb/migrate"
	"github.com/tinytelemetry/marsestate/internal/model"
)

// Store is the listings table behind the HTTP API and the socket RPC.
// Upserts take the write lock; listing reads share the read lock.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string

	// QueryTimeout bounds every read, on top of the caller's context.
	QueryTimeout time.Duration
}

// NewStore opens the listings database at dbPath, creating its directory,
// and applies pending migrations. An empty dbPath keeps the catalog in
// memory, which is what tests and a throwaway service want.
func NewStore(dbPath string, queryTimeout ...time.Duration) (*Store, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("duckdb: create dir for %s: %w", dbPath, err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("duckdb: open %q: %w", dbPath, err)
	}
	if dbPath == "" {
		// each in-memory connection is its own database
		db.SetMaxOpenConns(1)
	}

	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("duckdb: migrate listings schema: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath, QueryTimeout: model.DefaultQueryTimeout}
	if len(queryTimeout) > 0 && queryTimeout[0] > 0 {
		s.QueryTimeout = queryTimeout[0]
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DBPath is the on-disk location of the catalog, or "" when in memory.
func (s *Store) DBPath() string { return s.dbPath }

var _ model.ListingStore = (*Store)(nil)
