package javadex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/javadex/internal/store"
)

func TestResolveBestArtifactHasSourceWinsAbsolutely(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver")
	candidates := []store.Artifact{
		{ID: 1, Version: "2.0.0", HasSource: false},
		{ID: 2, Version: "1.0.0", HasSource: true},
	}
	best, err := r.ResolveBestArtifact(candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.ID)
}

func TestResolveBestArtifactSemverTiebreak(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver")
	candidates := []store.Artifact{
		{ID: 1, Version: "1.2.0", HasSource: true},
		{ID: 2, Version: "1.10.0", HasSource: true},
		{ID: 3, Version: "1.9.0-SNAPSHOT", HasSource: true},
	}
	best, err := r.ResolveBestArtifact(candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.ID)
}

func TestResolveBestArtifactPrereleaseLosesToSameBaseRelease(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver")
	candidates := []store.Artifact{
		{ID: 1, Version: "1.0.0-SNAPSHOT", HasSource: true},
		{ID: 2, Version: "1.0.0", HasSource: true},
	}
	best, err := r.ResolveBestArtifact(candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(2), best.ID)
}

func TestResolveBestArtifactFinalTiebreakIsInsertionID(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver")
	candidates := []store.Artifact{
		{ID: 5, Version: "1.0.0", HasSource: true},
		{ID: 9, Version: "1.0.0", HasSource: true},
	}
	best, err := r.ResolveBestArtifact(candidates)
	require.NoError(t, err)
	assert.Equal(t, int64(9), best.ID)
}

func TestResolveBestArtifactEmptyCandidatesIsNotFound(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver")
	_, err := r.ResolveBestArtifact(nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeVersionStrategyAcceptsLegacyAliases(t *testing.T) {
	t.Parallel()
	r := NewArtifactResolver("semver-latest")
	assert.EqualValues(t, "semver", r.strategy)

	r = NewArtifactResolver("publish-time")
	assert.EqualValues(t, "latest-published", r.strategy)

	r = NewArtifactResolver("usage-time")
	assert.EqualValues(t, "latest-used", r.strategy)
}

func TestCompareSemverOrdering(t *testing.T) {
	t.Parallel()
	assert.Negative(t, compareSemver("1.2.0", "1.10.0"))
	assert.Positive(t, compareSemver("2.0.0", "1.9.9"))
	assert.Zero(t, compareSemver("1.0.0", "1.0.0"))
	assert.Negative(t, compareSemver("1.0.0-SNAPSHOT", "1.0.0"))
}
