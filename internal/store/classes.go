package store

import (
	"context"
	"database/sql"
	"fmt"
)

const classSearchCap = 100

// InsertClass records one class observed in one artifact's archive,
// writing both the backing table and the standalone FTS index (kept in
// lockstep by reusing the classes_map id as the FTS rowid). classes_fts
// is only populated when Migrate confirmed the trigram tokenizer is
// available; in fallback mode SearchClassesFTS never queries it, so
// there is nothing to keep in sync.
func (s *Store) InsertClass(ctx context.Context, tx *sql.Tx, c ClassEntry) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO classes_map (artifact_id, fq_name, simple_name) VALUES (?, ?, ?)
	`, c.ArtifactID, c.FQName, c.SimpleName)
	if err != nil {
		return 0, fmt.Errorf("insert class %s: %w", c.FQName, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert class %s: last insert id: %w", c.FQName, err)
	}
	if s.ftsTrigram {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO classes_fts (rowid, fq_name, simple_name) VALUES (?, ?, ?)
		`, id, c.FQName, c.SimpleName); err != nil {
			return 0, fmt.Errorf("index class %s: %w", c.FQName, err)
		}
	}
	return id, nil
}

// classRow is one classes_map row joined to its owning artifact, the
// shape every search path scans into before grouping by FQName.
type classRow struct {
	fqName   string
	artifact Artifact
}

// SearchClassesFTS matches fragments of the fully-qualified or simple
// name via the trigram FTS index. The FTS tokenizer is case-insensitive,
// which satisfies the simple-name half of the case-sensitivity choice;
// the fq-name half is enforced by re-checking a case-sensitive substring
// against each FTS candidate before it is returned. When Migrate fell
// back to a non-trigram build, classes_fts was never populated and this
// instead scans classes_map with LIKE, applying the same post-filter.
func (s *Store) SearchClassesFTS(ctx context.Context, term string) ([]ClassMatch, error) {
	if !s.ftsTrigram {
		return s.searchClassesLike(ctx, term)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_fts f
		JOIN classes_map m ON m.id = f.rowid
		JOIN artifacts a ON a.id = m.artifact_id
		WHERE classes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery(term), classSearchCap)
	if err != nil {
		return nil, fmt.Errorf("search classes fts %q: %w", term, err)
	}
	defer rows.Close()
	matches, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	return groupFiltered(matches, func(m classRow) bool {
		return containsCaseSensitive(m.fqName, term) || containsCaseInsensitive(simpleNameOf(m.fqName), term)
	}), nil
}

// searchClassesLike is the fallback path for a sqlite3 build without
// the trigram tokenizer: it scans classes_map directly with a LIKE
// wildcard rather than using classes_fts at all, then applies the same
// case-sensitive-fq-name / case-insensitive-simple-name post-filter
// SearchClassesFTS uses on its FTS candidates.
func (s *Store) searchClassesLike(ctx context.Context, term string) ([]ClassMatch, error) {
	wildcard := "%" + escapeLikeLiteral(term) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_map m
		JOIN artifacts a ON a.id = m.artifact_id
		WHERE m.fq_name LIKE ? ESCAPE '\' OR m.simple_name LIKE ? ESCAPE '\'
		LIMIT ?
	`, wildcard, wildcard, classSearchCap)
	if err != nil {
		return nil, fmt.Errorf("search classes like %q: %w", term, err)
	}
	defer rows.Close()
	matches, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	return groupFiltered(matches, func(m classRow) bool {
		return containsCaseSensitive(m.fqName, term) || containsCaseInsensitive(simpleNameOf(m.fqName), term)
	}), nil
}

// SearchClassesGlob matches fq-name or simple-name against a shell glob
// (`*` any run, `?` single char). The fq-name half uses SQLite's GLOB
// operator directly: GLOB is case-sensitive unconditionally, independent
// of any collation or the case_sensitive_like pragma, which is exactly
// what the case-sensitive-on-fq-name half of the case-sensitivity
// decision needs. The simple-name half still goes through LIKE (whose
// default ASCII case-folding is what we want there), translated from
// the same glob syntax.
func (s *Store) SearchClassesGlob(ctx context.Context, pattern string) ([]ClassMatch, error) {
	like := globToLike(pattern)
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_map m
		JOIN artifacts a ON a.id = m.artifact_id
		WHERE m.fq_name GLOB ? OR m.simple_name LIKE ? ESCAPE '\'
		LIMIT ?
	`, pattern, like, classSearchCap)
	if err != nil {
		return nil, fmt.Errorf("search classes glob %q: %w", pattern, err)
	}
	defer rows.Close()
	matches, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	return groupClassMatches(matches), nil
}

// SearchClassesRegex matches fq-name against a host regular expression.
// SQLite has no native regex operator here, so candidates are streamed
// from the table and matched in Go, capped at classSearchCap results.
func (s *Store) SearchClassesRegex(ctx context.Context, match func(fqName string) bool) ([]ClassMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_map m
		JOIN artifacts a ON a.id = m.artifact_id
	`)
	if err != nil {
		return nil, fmt.Errorf("search classes regex: %w", err)
	}
	defer rows.Close()
	all, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	var matched []classRow
	for _, r := range all {
		if match(r.fqName) {
			matched = append(matched, r)
			if len(matched) >= classSearchCap {
				break
			}
		}
	}
	return groupClassMatches(matched), nil
}

// ClassByExactName returns every artifact carrying a class whose fq-name
// equals name exactly.
func (s *Store) ClassByExactName(ctx context.Context, name string) (*ClassMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.fq_name, a.id, a.group_id, a.artifact_id, a.version, a.abspath, a.has_source, a.is_indexed
		FROM classes_map m
		JOIN artifacts a ON a.id = m.artifact_id
		WHERE m.fq_name = ?
	`, name)
	if err != nil {
		return nil, fmt.Errorf("class by exact name %q: %w", name, err)
	}
	defer rows.Close()
	matches, err := scanClassRows(rows)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	grouped := groupClassMatches(matches)
	return &grouped[0], nil
}

func scanClassRows(rows *sql.Rows) ([]classRow, error) {
	var out []classRow
	for rows.Next() {
		var r classRow
		if err := rows.Scan(&r.fqName, &r.artifact.ID, &r.artifact.GroupID, &r.artifact.ArtifactID,
			&r.artifact.Version, &r.artifact.AbsPath, &r.artifact.HasSource, &r.artifact.IsIndexed); err != nil {
			return nil, fmt.Errorf("scan class row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// groupClassMatches groups rows by FQName, preserving first-seen order.
func groupClassMatches(rows []classRow) []ClassMatch {
	order := make([]string, 0, len(rows))
	byName := make(map[string]*ClassMatch, len(rows))
	for _, r := range rows {
		m, ok := byName[r.fqName]
		if !ok {
			order = append(order, r.fqName)
			m = &ClassMatch{FQName: r.fqName}
			byName[r.fqName] = m
		}
		m.Artifacts = append(m.Artifacts, r.artifact)
	}
	out := make([]ClassMatch, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

func groupFiltered(rows []classRow, keep func(classRow) bool) []ClassMatch {
	filtered := make([]classRow, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return groupClassMatches(filtered)
}
