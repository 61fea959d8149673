// Package config holds the root Engine's configuration surface. Parsing
// a settings file or environment variables into a Config is an external
// collaborator's job; this package only defines the shape and the pure
// normalization rules the rest of the core depends on.
package config

// VersionStrategy selects how ArtifactResolver breaks a tie between
// same-class artifacts once hasSource has already been considered.
type VersionStrategy string

const (
	StrategySemver          VersionStrategy = "semver"
	StrategyLatestPublished VersionStrategy = "latest-published"
	StrategyLatestUsed      VersionStrategy = "latest-used"
)

// legacy aliases accepted for backward compatibility.
var strategyAliases = map[string]VersionStrategy{
	"semver-latest":      StrategySemver,
	"date-latest":        StrategyLatestPublished,
	"modification-time":  StrategyLatestPublished,
	"publish-time":       StrategyLatestPublished,
	"creation-time":      StrategyLatestUsed,
	"usage-time":         StrategyLatestUsed,
}

// NormalizeVersionStrategy maps a legacy alias to its canonical strategy
// name and validates the result. An empty or unrecognized input falls
// back to StrategySemver, the documented default.
func NormalizeVersionStrategy(raw string) VersionStrategy {
	switch VersionStrategy(raw) {
	case StrategySemver, StrategyLatestPublished, StrategyLatestUsed:
		return VersionStrategy(raw)
	}
	if canonical, ok := strategyAliases[raw]; ok {
		return canonical
	}
	return StrategySemver
}

// Config is the root configuration for an Engine. Every field has a
// documented effect in the external interfaces this module exposes;
// the values themselves are supplied by a collaborator (settings file,
// environment, or CLI flags), never parsed by this package.
type Config struct {
	MavenRepo        string          // absolute path of a Maven-layout root
	GradleRepo       string          // absolute path of a Gradle-layout root
	IncludedPackages []string        // raw, pre-normalization; call NormalizePrefixes before use
	DecompilerPath   string          // absolute path of the decompiler archive
	VersionStrategy  VersionStrategy // semver | latest-published | latest-used (or a legacy alias)
	StorePath        string          // location of the persistent store
	JavapTool        string          // path to the external signature extractor, optional
}

// NormalizedPackages applies NormalizePrefixes to IncludedPackages.
func (c Config) NormalizedPackages() []string {
	return NormalizePrefixes(c.IncludedPackages)
}

// NormalizedVersionStrategy applies NormalizeVersionStrategy to VersionStrategy.
func (c Config) NormalizedVersionStrategy() VersionStrategy {
	return NormalizeVersionStrategy(string(c.VersionStrategy))
}

// HasAnyRoot reports whether at least one of MavenRepo/GradleRepo is set.
// A ConfigurationError is the caller's to construct when this is false.
func (c Config) HasAnyRoot() bool {
	return c.MavenRepo != "" || c.GradleRepo != ""
}
