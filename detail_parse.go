package javadex

import (
	"regexp"
	"strings"
)

// methodSignatureRe recognizes both hand-written public/protected method
// declarations and javap/decompiler output: a visibility modifier,
// optional further modifiers, a return type, a name, a parenthesized
// parameter list, an optional throws clause, optionally ending in `{`
// or `;`.
var methodSignatureRe = regexp.MustCompile(
	`^\s*(?:public|protected)(?:\s+(?:static|final|abstract|synchronized|native))*\s+[\w.<>\[\],\s]+?\s+\w+\s*\([^)]*\)\s*(?:throws\s+[\w.,\s]+)?\s*[{;]?\s*$`,
)

// classDeclRe matches the public/protected class, interface, or enum
// declaration line for simpleName, used to anchor the class-level
// Javadoc block that precedes it.
func classDeclRe(simpleName string) *regexp.Regexp {
	return regexp.MustCompile(`(?:public|protected)(?:\s+(?:final|abstract))?\s+(?:class|interface|enum)\s+` + regexp.QuoteMeta(simpleName) + `\b`)
}

// extractSignatures applies methodSignatureRe to every line of a javap
// or decompiler text dump, with no class-declaration anchoring (javap
// output has no Javadoc to anchor against).
func extractSignatures(src string) []string {
	var out []string
	for _, line := range strings.Split(src, "\n") {
		if methodSignatureRe.MatchString(line) {
			out = append(out, cleanSignatureLine(line))
		}
	}
	return out
}

// parseJavaLikeSource walks hand-written or decompiled Java/Kotlin text
// and returns every public/protected method signature plus the Javadoc
// block immediately preceding the simpleName class/interface/enum
// declaration. Failure to find either is a valid, non-error outcome:
// both returns may be empty.
func parseJavaLikeSource(src, simpleName string) ([]string, string) {
	classRe := classDeclRe(simpleName)
	lines := strings.Split(src, "\n")

	var signatures []string
	var doc string
	var pendingDoc []string
	inBlockComment := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlockComment {
			pendingDoc = append(pendingDoc, stripCommentMarkers(trimmed))
			if strings.Contains(trimmed, "*/") {
				inBlockComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "/**") {
			inBlockComment = !strings.Contains(trimmed, "*/")
			pendingDoc = []string{stripCommentMarkers(trimmed)}
			continue
		}
		if trimmed == "" {
			continue
		}

		if doc == "" && classRe.MatchString(trimmed) {
			doc = strings.TrimSpace(strings.Join(filterEmpty(pendingDoc), " "))
		}
		if methodSignatureRe.MatchString(line) {
			signatures = append(signatures, cleanSignatureLine(line))
		}
		pendingDoc = nil
	}

	return signatures, doc
}

func stripCommentMarkers(line string) string {
	line = strings.TrimPrefix(line, "/**")
	line = strings.TrimPrefix(line, "/*")
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimPrefix(strings.TrimSpace(line), "*")
	return strings.TrimSpace(line)
}

func filterEmpty(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func cleanSignatureLine(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimSuffix(trimmed, "{")
	trimmed = strings.TrimSuffix(trimmed, ";")
	return strings.TrimSpace(trimmed)
}
