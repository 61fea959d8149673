// Package store is the SQLite data access layer backing the index: a
// table of artifacts, an FTS5-backed class name index, an inheritance
// edge table, and a resource/resource-class-link pair for non-class
// archive entries (currently .proto text).
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the index.
type Store struct {
	db *sql.DB

	// ftsTrigram is true once Migrate has confirmed the sqlite3 build
	// linked in supports the FTS5 trigram tokenizer. When false,
	// classes_fts is never populated and SearchClassesFTS falls back to
	// a LIKE-based scan of classes_map directly.
	ftsTrigram bool
}

// NewStore opens a SQLite database at dbPath with WAL mode and foreign
// keys enabled, and a generous busy timeout since writes are serialized
// behind a single writer but readers must never block on a brief writer
// hiccup.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates every table and index. Idempotent. classes_fts is
// created separately from the rest of the schema: some sqlite3 builds
// are compiled without the FTS5 trigram tokenizer, and Migrate falls
// back to a plain unicode61 tokenizer in that case, recording the
// degraded mode so SearchClassesFTS knows to bypass the FTS index.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if _, err := s.db.Exec(classesFTSTrigramDDL); err == nil {
		s.ftsTrigram = true
		return nil
	}
	if _, err := s.db.Exec(classesFTSUnicode61DDL); err != nil {
		return fmt.Errorf("migrate: create classes_fts: %w", err)
	}
	s.ftsTrigram = false
	return nil
}

// WithTransaction runs f inside a single SQLite transaction, committing
// on a nil return and rolling back otherwise. Per-artifact ingestion and
// every other multi-row write in this package goes through this so a
// reader never observes a partially-written artifact.
func (s *Store) WithTransaction(ctx context.Context, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := f(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS artifacts (
  id           INTEGER PRIMARY KEY,
  group_id     TEXT NOT NULL,
  artifact_id  TEXT NOT NULL,
  version      TEXT NOT NULL,
  abspath      TEXT NOT NULL,
  has_source   BOOLEAN NOT NULL DEFAULT FALSE,
  is_indexed   BOOLEAN NOT NULL DEFAULT FALSE,
  UNIQUE(group_id, artifact_id, version)
);

CREATE INDEX IF NOT EXISTS idx_artifacts_unindexed ON artifacts(is_indexed);
CREATE INDEX IF NOT EXISTS idx_artifacts_artifact_id ON artifacts(artifact_id);

-- classes_map is the source of truth for class rows; classes_fts is a
-- standalone FTS5 table (it stores its own copy of both columns) kept in
-- lockstep by inserting with
-- an explicit rowid equal to the classes_map id.
CREATE TABLE IF NOT EXISTS classes_map (
  id           INTEGER PRIMARY KEY,
  artifact_id  INTEGER NOT NULL REFERENCES artifacts(id),
  fq_name      TEXT NOT NULL,
  simple_name  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classes_map_artifact ON classes_map(artifact_id);
CREATE INDEX IF NOT EXISTS idx_classes_map_fq_name ON classes_map(fq_name);
CREATE INDEX IF NOT EXISTS idx_classes_map_simple_name ON classes_map(simple_name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS inheritance_edges (
  id           INTEGER PRIMARY KEY,
  artifact_id  INTEGER NOT NULL REFERENCES artifacts(id),
  class_name   TEXT NOT NULL,
  parent_name  TEXT NOT NULL,
  kind         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_inheritance_class ON inheritance_edges(class_name);
CREATE INDEX IF NOT EXISTS idx_inheritance_parent ON inheritance_edges(parent_name);
CREATE INDEX IF NOT EXISTS idx_inheritance_artifact ON inheritance_edges(artifact_id);

CREATE TABLE IF NOT EXISTS resources (
  id           INTEGER PRIMARY KEY,
  artifact_id  INTEGER NOT NULL REFERENCES artifacts(id),
  path         TEXT NOT NULL,
  content      TEXT NOT NULL,
  type         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resources_artifact ON resources(artifact_id);
CREATE INDEX IF NOT EXISTS idx_resources_path ON resources(path);

CREATE TABLE IF NOT EXISTS resource_class_links (
  id           INTEGER PRIMARY KEY,
  resource_id  INTEGER NOT NULL REFERENCES resources(id),
  class_name   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resource_links_class ON resource_class_links(class_name);
CREATE INDEX IF NOT EXISTS idx_resource_links_resource ON resource_class_links(resource_id);

CREATE TABLE IF NOT EXISTS schema_meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`

// classesFTSTrigramDDL is tried first: the trigram tokenizer is what
// makes classes_fts recall arbitrary substrings rather than whole
// tokens, and is present in any sqlite3 build compiled with a recent
// enough FTS5 extension.
const classesFTSTrigramDDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS classes_fts USING fts5(
  fq_name,
  simple_name,
  tokenize='trigram'
);
`

// classesFTSUnicode61DDL is the fallback schema for a sqlite3 build
// without the trigram tokenizer. unicode61 tokenizes on word
// boundaries, so it cannot recall an arbitrary substring match the way
// trigram does; classes_fts is left unpopulated in this mode and
// SearchClassesFTS instead scans classes_map with LIKE.
const classesFTSUnicode61DDL = `
CREATE VIRTUAL TABLE IF NOT EXISTS classes_fts USING fts5(
  fq_name,
  simple_name,
  tokenize='unicode61'
);
`
