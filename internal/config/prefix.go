package config

import (
	"sort"
	"strings"
)

// NormalizePrefixes implements the includedPackages normalization:
// trim and drop empty entries, strip a trailing ".*" ("com.foo.*" ->
// "com.foo"),
// collapse to "match everything" when any entry was a bare "*", then
// sort and absorb sub-prefixes (if "com.a" is present, any later
// "com.a.b" is redundant and removed).
func NormalizePrefixes(raw []string) []string {
	var trimmed []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == "*" {
			return nil // "all packages"
		}
		p = strings.TrimSuffix(p, ".*")
		if p == "" {
			return nil
		}
		trimmed = append(trimmed, p)
	}
	if len(trimmed) == 0 {
		return nil
	}

	sort.Strings(trimmed)

	var out []string
	for _, p := range trimmed {
		absorbed := false
		for _, kept := range out {
			if p == kept || strings.HasPrefix(p, kept+".") {
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, p)
		}
	}
	return out
}

// MatchesPrefix reports whether name is exactly one of prefixes or a
// dotted sub-package of one, with dot-boundary matching (so "com.test"
// matches "com.test.Foo" but not "com.testing.Foo"). An empty prefixes
// list means "accept everything".
func MatchesPrefix(name string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if name == p || strings.HasPrefix(name, p+".") {
			return true
		}
	}
	return false
}

// SubtreeMayContainPrefix reports whether a directory path component
// dotted as dirPath could still lead to a package matching one of
// prefixes, for pruning a directory walk before any leaf is found. It is
// intentionally permissive in the ancestor direction (dirPath shorter
// than a prefix) and dot-boundary-exact in the descendant direction.
func SubtreeMayContainPrefix(dirPath string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if dirPath == p || strings.HasPrefix(dirPath, p+".") {
			return true // already past the boundary into an allowed subtree
		}
		if strings.HasPrefix(p, dirPath+".") {
			return true // dirPath is an ancestor of an allowed prefix, keep descending
		}
	}
	return false
}
