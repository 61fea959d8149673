package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jward/javadex/internal/config"
)

// ScanGradle walks a Gradle-layout repository root
// (root/<groupId>/<artifactId>/<version>/<hash>/<file>, groupId literal
// with dots) and returns one candidate per version directory that has a
// main archive. Unreadable directories are skipped silently.
func ScanGradle(repoRoot string, prefixes []string) []Candidate {
	var out []Candidate

	groupDirs, err := os.ReadDir(repoRoot)
	if err != nil {
		return out
	}
	for _, g := range groupDirs {
		if !g.IsDir() || !gradleGroupAllowed(g.Name(), prefixes) {
			continue
		}
		groupID := g.Name()
		groupPath := filepath.Join(repoRoot, groupID)

		artifactDirs, err := os.ReadDir(groupPath)
		if err != nil {
			continue
		}
		for _, a := range artifactDirs {
			if !a.IsDir() {
				continue
			}
			artifactID := a.Name()
			artifactPath := filepath.Join(groupPath, artifactID)

			versionDirs, err := os.ReadDir(artifactPath)
			if err != nil {
				continue
			}
			for _, v := range versionDirs {
				if !v.IsDir() {
					continue
				}
				version := v.Name()
				versionPath := filepath.Join(artifactPath, version)
				if c, ok := gradleCandidateFromVersionDir(versionPath, groupID, artifactID, version); ok {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// gradleGroupAllowed reports whether groupID is equal to, or a
// sub-prefix of, some allowed prefix.
func gradleGroupAllowed(groupID string, prefixes []string) bool {
	return config.SubtreeMayContainPrefix(groupID, prefixes)
}

// gradleCandidateFromVersionDir aggregates across every hash directory
// under a version directory: the single .jar that is neither
// "-sources.jar" nor "-javadoc.jar" is the main archive, and hasSource
// is true iff any hash directory carries a "-sources.jar".
func gradleCandidateFromVersionDir(versionPath, groupID, artifactID, version string) (Candidate, bool) {
	hashDirs, err := os.ReadDir(versionPath)
	if err != nil {
		return Candidate{}, false
	}

	var mainJar string
	hasSource := false

	for _, h := range hashDirs {
		if !h.IsDir() {
			continue
		}
		hashPath := filepath.Join(versionPath, h.Name())
		files, err := os.ReadDir(hashPath)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			name := f.Name()
			switch {
			case strings.HasSuffix(name, "-sources.jar"):
				hasSource = true
			case strings.HasSuffix(name, "-javadoc.jar"):
				// neither the main archive nor a source archive
			case strings.HasSuffix(name, ".jar"):
				mainJar = filepath.Join(hashPath, name)
			}
		}
	}

	if mainJar == "" {
		return Candidate{}, false
	}
	return Candidate{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Version:    version,
		AbsPath:    mainJar,
		HasSource:  hasSource,
	}, true
}
