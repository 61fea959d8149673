package javadex

import "errors"

// Sentinel error kinds returned to callers of QueryEngine, DetailExtractor,
// and Engine. Background indexing errors are logged via internal/diag and
// never surfaced through these; these are only for the query/detail path.
var (
	// ErrInvalidQuery is returned when a caller-supplied "regex:" pattern
	// does not compile. Glob and FTS terms are not validated up front.
	ErrInvalidQuery = errors.New("javadex: invalid query")

	// ErrNotFound is returned when a requested class or artifact does not
	// exist in the store.
	ErrNotFound = errors.New("javadex: not found")

	// ErrDecompilerUnavailable is returned when DetailExtractor falls
	// back to the decompiler and the decompiler binary is missing or
	// fails.
	ErrDecompilerUnavailable = errors.New("javadex: decompiler unavailable")

	// ErrConfigurationError names the condition where neither mavenRepo
	// nor gradleRepo is configured. No method currently returns it: an
	// index pass with no root logs the condition and returns nil.
	ErrConfigurationError = errors.New("javadex: no maven or gradle root configured")
)
