package store

import (
	"context"
	"database/sql"
	"fmt"
)

const resourceSearchCap = 100

// InsertResource stores one non-class archive entry verbatim.
func (s *Store) InsertResource(ctx context.Context, tx *sql.Tx, r Resource) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO resources (artifact_id, path, content, type) VALUES (?, ?, ?, ?)
	`, r.ArtifactID, r.Path, r.Content, string(r.Type))
	if err != nil {
		return 0, fmt.Errorf("insert resource %s: %w", r.Path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert resource %s: last insert id: %w", r.Path, err)
	}
	return id, nil
}

// LinkResourceClass records one logical class name a code generator
// would produce from a resource.
func (s *Store) LinkResourceClass(ctx context.Context, tx *sql.Tx, resourceID int64, className string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO resource_class_links (resource_id, class_name) VALUES (?, ?)
	`, resourceID, className)
	if err != nil {
		return fmt.Errorf("link resource %d to class %s: %w", resourceID, className, err)
	}
	return nil
}

// ResourceArtifactMatch pairs a resource's path with the artifact that
// carries it, the shape searchResources returns.
type ResourceArtifactMatch struct {
	Path     string
	Artifact Artifact
}

// SearchResourcesSubstring matches substr against resource paths.
func (s *Store) SearchResourcesSubstring(ctx context.Context, substr string) ([]ResourceArtifactMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.path, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM resources r
		JOIN artifacts a ON a.id = r.artifact_id
		WHERE r.path LIKE '%' || ? || '%'
		LIMIT ?
	`, substr, resourceSearchCap)
	if err != nil {
		return nil, fmt.Errorf("search resources %q: %w", substr, err)
	}
	defer rows.Close()

	var out []ResourceArtifactMatch
	for rows.Next() {
		var m ResourceArtifactMatch
		if err := rows.Scan(&m.Path, &m.Artifact.ID, &m.Artifact.GroupID, &m.Artifact.ArtifactID,
			&m.Artifact.Version, &m.Artifact.AbsPath, &m.Artifact.HasSource, &m.Artifact.IsIndexed); err != nil {
			return nil, fmt.Errorf("scan resource match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ResourcesForClass returns every (path, content, type) whose resource
// is linked to className via resource_class_links.
func (s *Store) ResourcesForClass(ctx context.Context, className string) ([]Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.artifact_id, r.path, r.content, r.type
		FROM resource_class_links l
		JOIN resources r ON r.id = l.resource_id
		WHERE l.class_name = ?
	`, className)
	if err != nil {
		return nil, fmt.Errorf("resources for class %s: %w", className, err)
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		var r Resource
		var typ string
		if err := rows.Scan(&r.ID, &r.ArtifactID, &r.Path, &r.Content, &typ); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		r.Type = ResourceType(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}
