package javadex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jward/javadex/internal/config"
	"github.com/jward/javadex/internal/indexer"
	"github.com/jward/javadex/internal/store"
)

// ArtifactResolver picks the "best" artifact among multiple candidates
// carrying the same class, per a configurable version strategy.
type ArtifactResolver struct {
	strategy config.VersionStrategy
}

// NewArtifactResolver normalizes strategy (including legacy aliases)
// once at construction.
func NewArtifactResolver(strategy string) *ArtifactResolver {
	return &ArtifactResolver{strategy: config.NormalizeVersionStrategy(strategy)}
}

// ResolveBestArtifact returns the winner of candidates under the
// deterministic comparator: hasSource wins absolutely, then the
// strategy-dependent tie-break, then higher insertion id. Returns
// ErrNotFound if candidates is empty.
func (r *ArtifactResolver) ResolveBestArtifact(candidates []store.Artifact) (*store.Artifact, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidate artifacts", ErrNotFound)
	}
	ranked := make([]store.Artifact, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.less(ranked[j], ranked[i]) // descending: best first
	})
	return &ranked[0], nil
}

// less reports whether a ranks strictly below b: b wins on hasSource,
// or ties on hasSource and loses the strategy tie-break, or ties there
// too and has a lower insertion id.
func (r *ArtifactResolver) less(a, b store.Artifact) bool {
	if a.HasSource != b.HasSource {
		return !a.HasSource // a loses if it lacks source and b has it
	}
	if cmp := r.compareByStrategy(a, b); cmp != 0 {
		return cmp < 0
	}
	return a.ID < b.ID
}

// compareByStrategy returns <0 if a precedes (loses to) b, >0 if a
// wins, 0 on a genuine tie.
func (r *ArtifactResolver) compareByStrategy(a, b store.Artifact) int {
	switch r.strategy {
	case config.StrategyLatestPublished:
		return compareTimes(publishedTime(a), publishedTime(b))
	case config.StrategyLatestUsed:
		return compareTimes(usedTime(a), usedTime(b))
	default:
		return compareSemver(a.Version, b.Version)
	}
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// publishedTime prefers the greatest numeric lastUpdated=<millis> found
// in a sibling "*.pom.lastUpdated" marker file, falling back to the
// main archive's modification time.
func publishedTime(a store.Artifact) time.Time {
	if t, ok := pomLastUpdated(a); ok {
		return t
	}
	return mainFileModTime(a)
}

// usedTime is the main archive's creation time. The Go standard library
// exposes no portable creation-time stat field, so this uses the same
// modification-time proxy as publishedTime's fallback; on filesystems
// where mtime tracks write time this is the best available signal.
func usedTime(a store.Artifact) time.Time {
	return mainFileModTime(a)
}

func mainFileModTime(a store.Artifact) time.Time {
	mainJar, ok := indexer.MainArchivePath(a)
	if !ok {
		return time.Time{}
	}
	info, err := os.Stat(mainJar)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

func pomLastUpdated(a store.Artifact) (time.Time, bool) {
	dir := indexer.ArtifactDir(a)
	markerPath := filepath.Join(dir, a.ArtifactID+"-"+a.Version+".pom.lastUpdated")
	data, err := os.ReadFile(markerPath)
	if err != nil {
		return time.Time{}, false
	}

	var best int64 = -1
	for _, line := range strings.Split(string(data), "\n") {
		const prefix = "lastUpdated="
		idx := strings.Index(line, prefix)
		if idx < 0 {
			continue
		}
		val := strings.TrimSpace(line[idx+len(prefix):])
		millis, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			continue
		}
		if millis > best {
			best = millis
		}
	}
	if best < 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(best), true
}

// compareSemver returns <0 if a < b, >0 if a > b, 0 if equal, treating
// a "-SNAPSHOT" (or any "-"-suffixed pre-release tag) as losing to the
// same dotted-numeric base without a suffix.
func compareSemver(a, b string) int {
	aBase, aPre := splitPrerelease(a)
	bBase, bPre := splitPrerelease(b)

	aParts := numericParts(aBase)
	bParts := numericParts(bBase)
	for i := 0; i < len(aParts) || i < len(bParts); i++ {
		var av, bv int64
		if i < len(aParts) {
			av = aParts[i]
		}
		if i < len(bParts) {
			bv = bParts[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}

	switch {
	case aPre == "" && bPre != "":
		return 1
	case aPre != "" && bPre == "":
		return -1
	case aPre != bPre:
		return strings.Compare(aPre, bPre)
	default:
		return 0
	}
}

func splitPrerelease(version string) (base, pre string) {
	if i := strings.IndexByte(version, '-'); i >= 0 {
		return version[:i], version[i+1:]
	}
	return version, ""
}

func numericParts(base string) []int64 {
	fields := strings.Split(base, ".")
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
