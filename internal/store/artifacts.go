package store

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertArtifact inserts a row for (groupId, artifactId, version) if
// absent, leaving is_indexed=false on the new row. An existing row is
// never downgraded: its is_indexed flag and id are left untouched, only
// abspath/has_source are refreshed in case the on-disk layout moved.
func (s *Store) UpsertArtifact(ctx context.Context, tx *sql.Tx, a Artifact) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO artifacts (group_id, artifact_id, version, abspath, has_source, is_indexed)
		VALUES (?, ?, ?, ?, ?, FALSE)
		ON CONFLICT(group_id, artifact_id, version) DO UPDATE SET
			abspath = excluded.abspath,
			has_source = excluded.has_source
	`, a.GroupID, a.ArtifactID, a.Version, a.AbsPath, a.HasSource)
	if err != nil {
		return 0, fmt.Errorf("upsert artifact %s: %w", a.Coordinate(), err)
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		return id, nil
	}
	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM artifacts WHERE group_id = ? AND artifact_id = ? AND version = ?
	`, a.GroupID, a.ArtifactID, a.Version).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup artifact id for %s: %w", a.Coordinate(), err)
	}
	return id, nil
}

// FindUnindexed returns every artifact with is_indexed=false.
func (s *Store) FindUnindexed(ctx context.Context) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, artifact_id, version, abspath, has_source, is_indexed
		FROM artifacts WHERE is_indexed = FALSE
	`)
	if err != nil {
		return nil, fmt.Errorf("find unindexed: %w", err)
	}
	defer rows.Close()
	return scanArtifacts(rows)
}

// AllArtifacts returns every artifact row, indexed or not.
func (s *Store) AllArtifacts(ctx context.Context) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, artifact_id, version, abspath, has_source, is_indexed FROM artifacts
	`)
	if err != nil {
		return nil, fmt.Errorf("all artifacts: %w", err)
	}
	defer rows.Close()
	return scanArtifacts(rows)
}

// ArtifactByID returns one artifact, or nil if no row has that id.
func (s *Store) ArtifactByID(ctx context.Context, id int64) (*Artifact, error) {
	var a Artifact
	err := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, artifact_id, version, abspath, has_source, is_indexed
		FROM artifacts WHERE id = ?
	`, id).Scan(&a.ID, &a.GroupID, &a.ArtifactID, &a.Version, &a.AbsPath, &a.HasSource, &a.IsIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact by id %d: %w", id, err)
	}
	return &a, nil
}

// ArtifactsByCoordinate returns every artifact sharing a groupId/artifactId,
// across all versions -- the set ArtifactResolver chooses among.
func (s *Store) ArtifactsByCoordinate(ctx context.Context, groupID, artifactID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, artifact_id, version, abspath, has_source, is_indexed
		FROM artifacts WHERE group_id = ? AND artifact_id = ?
	`, groupID, artifactID)
	if err != nil {
		return nil, fmt.Errorf("artifacts by coordinate %s:%s: %w", groupID, artifactID, err)
	}
	defer rows.Close()
	return scanArtifacts(rows)
}

const artifactSearchCap = 50

// SearchArtifacts matches substr against groupId or artifactId.
func (s *Store) SearchArtifacts(ctx context.Context, substr string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, artifact_id, version, abspath, has_source, is_indexed
		FROM artifacts
		WHERE group_id LIKE '%' || ? || '%' OR artifact_id LIKE '%' || ? || '%'
		LIMIT ?
	`, substr, substr, artifactSearchCap)
	if err != nil {
		return nil, fmt.Errorf("search artifacts %q: %w", substr, err)
	}
	defer rows.Close()
	return scanArtifacts(rows)
}

// MarkIndexed flips is_indexed=true for one artifact within tx.
func (s *Store) MarkIndexed(ctx context.Context, tx *sql.Tx, artifactID int64) error {
	if _, err := tx.ExecContext(ctx, `UPDATE artifacts SET is_indexed = TRUE WHERE id = ?`, artifactID); err != nil {
		return fmt.Errorf("mark indexed %d: %w", artifactID, err)
	}
	return nil
}

// HasAnyIndexed reports whether at least one artifact has is_indexed=true.
func (s *Store) HasAnyIndexed(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts WHERE is_indexed = TRUE`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has any indexed: %w", err)
	}
	return n > 0, nil
}

// RefreshAll clears every class/inheritance/resource row and resets
// is_indexed=false on every artifact, in one transaction.
func (s *Store) RefreshAll(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM resource_class_links`,
			`DELETE FROM resources`,
			`DELETE FROM inheritance_edges`,
			`DELETE FROM classes_map`,
			`DELETE FROM classes_fts`,
			`UPDATE artifacts SET is_indexed = FALSE`,
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("refresh all: %w", err)
			}
		}
		return nil
	})
}

// ResetForHierarchyMigration clears the class index and resets
// is_indexed=false on every currently-indexed artifact, in one
// transaction. Used once when inheritance capture is detected to
// postdate some already-indexed artifacts.
func (s *Store) ResetForHierarchyMigration(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM classes_map`,
			`DELETE FROM classes_fts`,
			`UPDATE artifacts SET is_indexed = FALSE WHERE is_indexed = TRUE`,
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("reset for hierarchy migration: %w", err)
			}
		}
		return nil
	})
}

func scanArtifacts(rows *sql.Rows) ([]Artifact, error) {
	var out []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.GroupID, &a.ArtifactID, &a.Version, &a.AbsPath, &a.HasSource, &a.IsIndexed); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
