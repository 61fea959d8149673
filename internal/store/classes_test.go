package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())
	return st
}

func mustInsertArtifact(t *testing.T, st *Store, a Artifact) int64 {
	t.Helper()
	var id int64
	require.NoError(t, st.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		var err error
		id, err = st.UpsertArtifact(context.Background(), tx, a)
		return err
	}))
	return id
}

func mustInsertClass(t *testing.T, st *Store, artifactID int64, fqName, simpleName string) {
	t.Helper()
	require.NoError(t, st.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		_, err := st.InsertClass(context.Background(), tx, ClassEntry{
			ArtifactID: artifactID, FQName: fqName, SimpleName: simpleName,
		})
		return err
	}))
}

func TestSearchClassesGlobFQNameIsCaseSensitive(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	id := mustInsertArtifact(t, st, Artifact{GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0", AbsPath: "/x"})
	mustInsertClass(t, st, id, "com.test.demo.TestUtils", "TestUtils")

	matches, err := st.SearchClassesGlob(context.Background(), "*TestUtils*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = st.SearchClassesGlob(context.Background(), "*testutils*")
	require.NoError(t, err)
	require.Empty(t, matches, "fq-name glob matching must stay case-sensitive")
}

func TestSearchClassesGlobSimpleNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	id := mustInsertArtifact(t, st, Artifact{GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0", AbsPath: "/x"})
	mustInsertClass(t, st, id, "com.test.demo.TestUtils", "TestUtils")

	matches, err := st.SearchClassesGlob(context.Background(), "*testutils*")
	require.NoError(t, err)
	require.Len(t, matches, 1, "simple_name matches case-insensitively even though the fq_name GLOB does not")

	matches, err = st.SearchClassesGlob(context.Background(), "*Utils*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSearchClassesFTSRecallsFragmentRegardlessOfTokenizerMode(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	id := mustInsertArtifact(t, st, Artifact{GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0", AbsPath: "/x"})
	mustInsertClass(t, st, id, "com.test.demo.TestUtils", "TestUtils")

	matches, err := st.SearchClassesFTS(context.Background(), "TestUtils")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "com.test.demo.TestUtils", matches[0].FQName)
}

func TestSearchClassesFTSFQNameCaseSensitivePostFilter(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	id := mustInsertArtifact(t, st, Artifact{GroupID: "com.test", ArtifactID: "demo", Version: "1.0.0", AbsPath: "/x"})
	mustInsertClass(t, st, id, "com.test.demo.TestUtils", "TestUtils")

	matches, err := st.SearchClassesFTS(context.Background(), "com.test.demo")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = st.SearchClassesFTS(context.Background(), "COM.TEST.DEMO")
	require.NoError(t, err)
	require.Empty(t, matches, "fq-name fragment matching must stay case-sensitive")
}
