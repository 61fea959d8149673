package store

import (
	"context"
	"database/sql"
	"fmt"
)

// objectClass is filtered out of every inheritance edge per the
// classfile reader's contract -- every class trivially extends it.
const objectClass = "java.lang.Object"

// InsertEdge records one inheritance edge. java.lang.Object is dropped
// silently; callers need not filter it themselves.
func (s *Store) InsertEdge(ctx context.Context, tx *sql.Tx, e InheritanceEdge) error {
	if e.ParentName == objectClass {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO inheritance_edges (artifact_id, class_name, parent_name, kind) VALUES (?, ?, ?, ?)
	`, e.ArtifactID, e.ClassName, e.ParentName, string(e.Kind))
	if err != nil {
		return fmt.Errorf("insert inheritance edge %s -> %s: %w", e.ClassName, e.ParentName, err)
	}
	return nil
}

// InheritanceEdgeCount reports the total number of edge rows, used by
// the indexer's one-time consistency check (empty edge table but
// artifacts already marked indexed implies hierarchy capture predates
// this run and must be redone).
func (s *Store) InheritanceEdgeCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inheritance_edges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("inheritance edge count: %w", err)
	}
	return n, nil
}

// adjacency is the bulk-loaded parent->children map used for transitive
// descendant traversal: building it once and walking it in memory avoids
// one query per hop.
type adjacency struct {
	children map[string][]InheritanceEdge // parent_name -> edges whose parent is this name
}

func (s *Store) buildAdjacency(ctx context.Context) (*adjacency, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, artifact_id, class_name, parent_name, kind FROM inheritance_edges
	`)
	if err != nil {
		return nil, fmt.Errorf("build adjacency: %w", err)
	}
	defer rows.Close()

	adj := &adjacency{children: make(map[string][]InheritanceEdge)}
	for rows.Next() {
		var e InheritanceEdge
		var kind string
		if err := rows.Scan(&e.ID, &e.ArtifactID, &e.ClassName, &e.ParentName, &kind); err != nil {
			return nil, fmt.Errorf("scan inheritance edge: %w", err)
		}
		e.Kind = InheritanceKind(kind)
		adj.children[e.ParentName] = append(adj.children[e.ParentName], e)
	}
	return adj, rows.Err()
}

const descendantCap = 100

// TransitiveDescendants returns every class transitively extending or
// implementing parentName, breadth-first, capped at descendantCap rows
// and guarded against cycles by a visited set, grouped by class name
// the same way the other class search paths group their rows.
func (s *Store) TransitiveDescendants(ctx context.Context, parentName string) ([]ClassMatch, error) {
	adj, err := s.buildAdjacency(ctx)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{parentName: true}
	queue := []string{parentName}
	var descendantClasses []string

	for len(queue) > 0 && len(descendantClasses) < descendantCap {
		current := queue[0]
		queue = queue[1:]
		for _, e := range adj.children[current] {
			if visited[e.ClassName] {
				continue
			}
			visited[e.ClassName] = true
			descendantClasses = append(descendantClasses, e.ClassName)
			queue = append(queue, e.ClassName)
			if len(descendantClasses) >= descendantCap {
				break
			}
		}
	}
	if len(descendantClasses) == 0 {
		return nil, nil
	}

	placeholders := placeholderList(len(descendantClasses))
	args := make([]any, len(descendantClasses))
	for i, name := range descendantClasses {
		args[i] = name
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_map m
		JOIN artifacts a ON a.id = m.artifact_id
		WHERE m.fq_name IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("transitive descendants of %s: %w", parentName, err)
	}
	defer rows.Close()
	scanned, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	return groupClassMatches(scanned), nil
}
