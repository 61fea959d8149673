// Package protoreader parses the small subset of .proto syntax needed to
// derive the logical Java class names a code generator would produce
// from a .proto file: the package/option declarations and the list of
// top-level message/enum/service definitions.
package protoreader

import (
	"strings"
	"unicode"
)

// Result is the decoded shape of one .proto file.
type Result struct {
	Package            string
	JavaPackage        string
	JavaOuterClassname string
	JavaMultipleFiles  bool
	Definitions        []string // top-level message/enum/service names, declaration order
}

var topLevelKeywords = []string{"message", "enum", "service"}

// Parse strips comments from src and extracts package/option declarations
// plus the list of top-level definitions, tracking brace depth so nested
// declarations are excluded.
func Parse(src []byte) Result {
	text := stripComments(string(src))
	var res Result

	for _, line := range splitStatements(text) {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "package "):
			res.Package = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(line, "package ")), ";")
		case strings.HasPrefix(line, "option java_package"):
			res.JavaPackage = extractOptionString(line)
		case strings.HasPrefix(line, "option java_outer_classname"):
			res.JavaOuterClassname = extractOptionString(line)
		case strings.HasPrefix(line, "option java_multiple_files"):
			res.JavaMultipleFiles = strings.Contains(line, "true")
		}
	}

	res.Definitions = topLevelDefinitions(text)
	return res
}

// DerivedClassNames computes the logical class names index-worthy for
// the given file base name (used only when JavaOuterClassname is unset).
func (r Result) DerivedClassNames(fileBaseName string) []string {
	outerClass := r.JavaOuterClassname
	if outerClass == "" {
		outerClass = camelCase(fileBaseName)
	}
	pkg := r.JavaPackage
	if pkg == "" {
		pkg = r.Package
	}

	fullOuter := outerClass
	if pkg != "" {
		fullOuter = pkg + "." + outerClass
	}

	names := []string{fullOuter}
	for _, def := range r.Definitions {
		if r.JavaMultipleFiles {
			if pkg != "" {
				names = append(names, pkg+"."+def)
			} else {
				names = append(names, def)
			}
		} else {
			names = append(names, fullOuter+"."+def)
		}
	}
	return names
}

// stripComments removes // line comments and /* */ block comments.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inBlock := false
	for i := 0; i < len(s); i++ {
		if inBlock {
			if s[i] == '*' && i+1 < len(s) && s[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			b.WriteByte('\n')
			continue
		}
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '*' {
			inBlock = true
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitStatements splits top-level declarations on ';' and '\n', good
// enough for the handful of single-line statements this reader cares
// about (package/option lines never span a brace body).
func splitStatements(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		for _, stmt := range strings.Split(line, ";") {
			out = append(out, stmt)
		}
	}
	return out
}

func extractOptionString(line string) string {
	start := strings.Index(line, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(line[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return line[start+1 : start+1+end]
}

// topLevelDefinitions scans text as a token stream tracking brace depth
// so that only definitions at depth 0 (i.e. not nested inside another
// message) are returned.
func topLevelDefinitions(text string) []string {
	var defs []string
	depth := 0
	tokens := tokenize(text)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok {
		case "{":
			depth++
		case "}":
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && isTopLevelKeyword(tok) && i+1 < len(tokens) {
				defs = append(defs, tokens[i+1])
			}
		}
	}
	return defs
}

func isTopLevelKeyword(tok string) bool {
	for _, kw := range topLevelKeywords {
		if tok == kw {
			return true
		}
	}
	return false
}

// tokenize is a minimal whitespace/punctuation splitter sufficient for
// brace-depth tracking and keyword-then-name recognition.
func tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r == '{' || r == '}' || r == '(' || r == ')' || r == ';':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// camelCase mimics protoc's default outer-classname derivation: the
// file base name with underscores stripped and each resulting segment
// capitalized, e.g. "multi_proto" -> "MultiProto".
func camelCase(fileBaseName string) string {
	parts := strings.Split(fileBaseName, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
