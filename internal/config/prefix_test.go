package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrefixes(t *testing.T) {
	t.Parallel()
	got := NormalizePrefixes([]string{"com.test.*", "com.test", "com.test.demo", "com.other"})
	assert.Equal(t, []string{"com.other", "com.test"}, got)
}

func TestNormalizePrefixesWildcardMeansAll(t *testing.T) {
	t.Parallel()
	assert.Empty(t, NormalizePrefixes([]string{"*"}))
	assert.Empty(t, NormalizePrefixes([]string{""}))
	assert.Empty(t, NormalizePrefixes(nil))
}

func TestMatchesPrefixDotBoundary(t *testing.T) {
	t.Parallel()
	prefixes := []string{"com.test"}
	assert.True(t, MatchesPrefix("com.test.Foo", prefixes))
	assert.True(t, MatchesPrefix("com.test", prefixes))
	assert.False(t, MatchesPrefix("com.testing.Foo", prefixes))
	assert.False(t, MatchesPrefix("com.other.Foo", prefixes))
}

func TestMatchesPrefixEmptyMeansAll(t *testing.T) {
	t.Parallel()
	assert.True(t, MatchesPrefix("anything.at.all", nil))
}

func TestSubtreeMayContainPrefix(t *testing.T) {
	t.Parallel()
	prefixes := []string{"com.test"}
	assert.True(t, SubtreeMayContainPrefix("com", prefixes))
	assert.True(t, SubtreeMayContainPrefix("com.test", prefixes))
	assert.True(t, SubtreeMayContainPrefix("com.test.demo", prefixes))
	assert.False(t, SubtreeMayContainPrefix("com.other", prefixes))
}
