package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanMavenFindsLeafArtifact(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	leaf := filepath.Join(root, "com", "test", "demo", "1.0.0")
	writeFile(t, filepath.Join(leaf, "demo-1.0.0.pom"), "<project/>")
	writeFile(t, filepath.Join(leaf, "demo-1.0.0.jar"), "jarbytes")
	writeFile(t, filepath.Join(leaf, "demo-1.0.0-sources.jar"), "srcbytes")

	candidates := ScanMaven(root, nil)
	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "com.test", c.GroupID)
	assert.Equal(t, "demo", c.ArtifactID)
	assert.Equal(t, "1.0.0", c.Version)
	assert.Equal(t, leaf, c.AbsPath)
	assert.True(t, c.HasSource)
}

func TestScanMavenNoSourcesJar(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	leaf := filepath.Join(root, "com", "test", "demo", "2.0.0")
	writeFile(t, filepath.Join(leaf, "demo-2.0.0.pom"), "<project/>")

	candidates := ScanMaven(root, nil)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].HasSource)
}

func TestScanMavenPrefixPruning(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	allowed := filepath.Join(root, "com", "test", "allowed", "1.0.0")
	writeFile(t, filepath.Join(allowed, "allowed-1.0.0.pom"), "<project/>")
	ignored := filepath.Join(root, "com", "other", "ignored", "1.0.0")
	writeFile(t, filepath.Join(ignored, "ignored-1.0.0.pom"), "<project/>")

	candidates := ScanMaven(root, []string{"com.test"})
	require.Len(t, candidates, 1)
	assert.Equal(t, "allowed", candidates[0].ArtifactID)
}

func TestScanGradleAggregatesAcrossHashDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	base := filepath.Join(root, "com.gradle.test", "demo-lib", "2.0.0")
	writeFile(t, filepath.Join(base, "hash1", "demo-lib-2.0.0.jar"), "jarbytes")
	writeFile(t, filepath.Join(base, "hash2", "demo-lib-2.0.0-sources.jar"), "srcbytes")

	candidates := ScanGradle(root, nil)
	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "com.gradle.test", c.GroupID)
	assert.Equal(t, "demo-lib", c.ArtifactID)
	assert.Equal(t, "2.0.0", c.Version)
	assert.True(t, c.HasSource)
	assert.Equal(t, filepath.Join(base, "hash1", "demo-lib-2.0.0.jar"), c.AbsPath)
}

func TestScanGradleIgnoresJavadocJar(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	base := filepath.Join(root, "com.gradle.test", "demo-lib", "2.0.0", "hash1")
	writeFile(t, filepath.Join(base, "demo-lib-2.0.0.jar"), "jarbytes")
	writeFile(t, filepath.Join(base, "demo-lib-2.0.0-javadoc.jar"), "docbytes")

	candidates := ScanGradle(root, nil)
	require.Len(t, candidates, 1)
	assert.False(t, candidates[0].HasSource)
	assert.Equal(t, filepath.Join(base, "demo-lib-2.0.0.jar"), candidates[0].AbsPath)
}

func TestScanGradlePrefixPruning(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "com.allowed", "lib", "1.0.0", "h", "lib-1.0.0.jar"), "x")
	writeFile(t, filepath.Join(root, "com.ignored", "lib", "1.0.0", "h", "lib-1.0.0.jar"), "x")

	candidates := ScanGradle(root, []string{"com.allowed"})
	require.Len(t, candidates, 1)
	assert.Equal(t, "com.allowed", candidates[0].GroupID)
}
