package store

import "strings"

// ftsQuery builds a trigram-friendly MATCH expression for a free-form
// search term: a quoted prefix match combined with a sanitized raw
// disjunction, so short terms still surface fragment hits.
func ftsQuery(term string) string {
	sanitized := strings.ReplaceAll(term, `"`, `""`)
	return `"` + sanitized + `"*` + " OR " + `"` + sanitized + `"`
}

// globToLike converts a shell glob (`*` any run, `?` single char) to a
// SQL LIKE pattern (`%`, `_`), escaping any literal `%`, `_` or `\` first.
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeLikeLiteral escapes LIKE's own wildcard characters in a literal
// search term before it is wrapped in `%...%`, so a term containing `%`,
// `_`, or `\` is matched literally rather than as a pattern.
func escapeLikeLiteral(term string) string {
	var b strings.Builder
	for _, r := range term {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// containsCaseSensitive is a case-sensitive substring test, used to
// enforce case-sensitive fq-name matching on top of the FTS index's
// case-insensitive trigram recall.
func containsCaseSensitive(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// containsCaseInsensitive is used for simple-name matching, per the
// case-insensitive-on-simple-name, case-sensitive-on-fq-name decision.
func containsCaseInsensitive(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// simpleNameOf returns the portion of a dotted fq-name after the last dot.
func simpleNameOf(fqName string) string {
	if i := strings.LastIndex(fqName, "."); i >= 0 {
		return fqName[i+1:]
	}
	return fqName
}
