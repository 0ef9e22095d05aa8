package source

import (
	"regexp"
	"strings"
)

// Stub detection rules. A function body is a stub when, after stripping
// comments and whitespace, it is empty, returns only a literal placeholder,
// or consists solely of a "not implemented" marker. Each rule is listed
// explicitly so the heuristic stays testable rule by rule.
var (
	// return null / nil / None / undefined / "" / '' / [] / {}, alone.
	// Deliberately excludes 0, true, and false: a one-line predicate or
	// counter is a legitimate implementation.
	rePlaceholderReturn = regexp.MustCompile(`(?i)^return\s*(?:null|nil|none|undefined|""|''|` + "``" + `|\[\]|\{\})?\s*;?$`)

	// literal string body markers: return "TODO: Implement", return 'stub', …
	rePlaceholderString = regexp.MustCompile(`(?i)^return\s+(["'` + "`" + `]).*(?:todo|tbd|stub|implement|placeholder|not implemented).*["'` + "`" + `]\s*;?$`)

	// explicit not-implemented markers per language
	reNotImplemented = regexp.MustCompile(`(?i)^(?:` +
		`panic\(\s*["'` + "`" + `].*not implemented.*["'` + "`" + `]\s*\)` +
		`|throw\s+new\s+\w*(?:notimplemented|unimplemented|unsupported)\w*\s*\(.*\)\s*;?` +
		`|throw\s+new\s+\w*(?:error|exception)\s*\(\s*["'` + "`" + `][^"'` + "`" + `\n]*(?:not implemented|todo|tbd|stub|placeholder)[^"'` + "`" + `\n]*["'` + "`" + `]\s*\)\s*;?` +
		`|raise\s+NotImplementedError.*` +
		`|unimplemented!?\s*\(\s*\)\s*;?` +
		`|todo!?\s*\(\s*\)\s*;?` +
		`|pass` +
		`|\.\.\.` +
		`|notimplementederror.*` +
		`)$`)

	reLineComment  = regexp.MustCompile(`(?m)(//|#).*$`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reDocstring    = regexp.MustCompile(`(?s)^\s*("""|''').*?("""|''')`)
)

// IsStubBody reports whether a function body (text between the braces, or
// the indented block for Python) is a stub rather than an implementation.
func IsStubBody(body string) bool {
	cleaned := reBlockComment.ReplaceAllString(body, "")
	cleaned = reDocstring.ReplaceAllString(cleaned, "")
	cleaned = reLineComment.ReplaceAllString(cleaned, "")

	var statements []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "{" || line == "}" {
			continue
		}
		statements = append(statements, line)
	}

	// Empty body after stripping comments.
	if len(statements) == 0 {
		return true
	}
	// A stub is at most one real statement.
	if len(statements) > 1 {
		return false
	}

	stmt := statements[0]
	return rePlaceholderReturn.MatchString(stmt) ||
		rePlaceholderString.MatchString(stmt) ||
		reNotImplemented.MatchString(stmt)
}
