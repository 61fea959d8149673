// Package scanner translates a Maven-layout or Gradle-layout dependency
// cache root into a uniform list of candidate artifacts. It never
// touches the store; ScanMaven and ScanGradle are pure reads of the
// filesystem.
package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/javadex/internal/config"
	"github.com/jward/javadex/internal/store"
)

// Candidate is one artifact discovered on disk, not yet persisted.
type Candidate struct {
	GroupID    string
	ArtifactID string
	Version    string
	AbsPath    string
	HasSource  bool
}

// ToArtifact converts a Candidate to a store.Artifact row shape with
// id=0 and isIndexed=false, the contract ScanMaven/ScanGradle promise.
func (c Candidate) ToArtifact() store.Artifact {
	return store.Artifact{
		GroupID:    c.GroupID,
		ArtifactID: c.ArtifactID,
		Version:    c.Version,
		AbsPath:    c.AbsPath,
		HasSource:  c.HasSource,
		IsIndexed:  false,
	}
}

// ScanMaven walks a Maven-layout repository root and returns every
// leaf directory containing an <artifactId>-<version>.pom file.
// Unreadable directories are skipped silently; scanning never aborts.
func ScanMaven(repoRoot string, prefixes []string) []Candidate {
	var out []Candidate
	walkMaven(repoRoot, repoRoot, prefixes, &out)
	return out
}

func walkMaven(repoRoot, dir string, prefixes []string, out *[]Candidate) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return // unreadable directory: skip silently
	}

	if pom := findLeafPOM(dir, entries); pom != "" {
		if c, ok := mavenCandidateFromLeaf(repoRoot, dir, pom); ok {
			*out = append(*out, c)
		}
		return // a leaf directory is not also an intermediate directory
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		if !mavenSubtreeAllowed(repoRoot, sub, prefixes) {
			continue
		}
		walkMaven(repoRoot, sub, prefixes, out)
	}
}

// findLeafPOM returns the name of a "<artifactId>-<version>.pom" file in
// dir, matching the leaf directory's own name as the version, or "" if
// dir is not such a leaf.
func findLeafPOM(dir string, entries []os.DirEntry) string {
	version := filepath.Base(dir)
	artifactID := filepath.Base(filepath.Dir(dir))
	want := artifactID + "-" + version + ".pom"
	for _, e := range entries {
		if !e.IsDir() && e.Name() == want {
			return e.Name()
		}
	}
	return ""
}

func mavenCandidateFromLeaf(repoRoot, leafDir, pomName string) (Candidate, bool) {
	version := filepath.Base(leafDir)
	artifactDir := filepath.Dir(leafDir)
	artifactID := filepath.Base(artifactDir)
	groupDir := filepath.Dir(artifactDir)

	rel, err := filepath.Rel(repoRoot, groupDir)
	if err != nil || rel == "." {
		return Candidate{}, false
	}
	groupID := strings.ReplaceAll(rel, string(filepath.Separator), ".")

	base := strings.TrimSuffix(pomName, ".pom")
	sourcesJar := filepath.Join(leafDir, base+"-sources.jar")
	_, statErr := os.Stat(sourcesJar)

	return Candidate{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Version:    version,
		AbsPath:    leafDir,
		HasSource:  statErr == nil,
	}, true
}

// mavenSubtreeAllowed reports whether sub's path, if it were to become a
// groupId prefix, is compatible with prefixes.
func mavenSubtreeAllowed(repoRoot, sub string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	rel, err := filepath.Rel(repoRoot, sub)
	if err != nil {
		return true
	}
	relDotted := strings.ReplaceAll(rel, string(filepath.Separator), ".")
	return config.SubtreeMayContainPrefix(relDotted, prefixes)
}
