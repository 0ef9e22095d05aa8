package gap

import (
	"regexp"
	"strings"
)

// stopwords are dropped when deriving symbol-name candidates from a
// requirement title: they carry no signal about what the function is called.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "on": true, "in": true, "at": true,
	"of": true, "for": true, "to": true, "with": true, "and": true, "or": true,
	"is": true, "are": true, "be": true, "should": true, "must": true,
	"can": true, "will": true, "when": true, "via": true, "by": true,
	"system": true, "user": true, "users": true, "able": true,
}

var reWord = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

// TitleTokens extracts the significant lowercase words of a title, in
// order, with stopwords removed.
func TitleTokens(title string) []string {
	var tokens []string
	for _, w := range reWord.FindAllString(title, -1) {
		w = strings.ToLower(w)
		if stopwords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// NameCandidates derives plausible function names for a requirement title.
// "Validate email on signup" yields validateEmail, validate_email,
// validateEmailSignup, … across camelCase and snake_case conventions.
// Candidates are ordered most-specific-first.
func NameCandidates(title string) []string {
	tokens := TitleTokens(title)
	if len(tokens) == 0 {
		return nil
	}

	var prefixes [][]string
	for n := len(tokens); n >= 1; n-- {
		if n > 4 {
			continue
		}
		prefixes = append(prefixes, tokens[:n])
	}

	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	// Longer prefixes first so exact multi-word names win over generic ones.
	for _, p := range prefixes {
		add(camelCase(p))
		add(strings.Join(p, "_"))
	}
	return out
}

func camelCase(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(tokens[0])
	for _, t := range tokens[1:] {
		b.WriteString(strings.ToUpper(t[:1]))
		b.WriteString(t[1:])
	}
	return b.String()
}

// DeclaredFields extracts backtick-quoted identifiers from a requirement's
// description and criteria. These are the fields the implementation's
// parameter list is expected to carry.
var reBacktick = regexp.MustCompile("`([A-Za-z_][A-Za-z0-9_]*)`")

func DeclaredFields(texts ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range texts {
		for _, m := range reBacktick.FindAllStringSubmatch(t, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	return out
}
