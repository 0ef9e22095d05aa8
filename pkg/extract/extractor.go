// Package extract parses source files into structural facts (functions,
// classes, exports) using per-language pattern matching. Extraction is
// deliberately regex-based rather than a full parse: it tolerates broken
// input by recovering whatever facts still match, and never fails a file.
package extract

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// extractFunc converts one file's contents into facts.
type extractFunc func(relPath string, data []byte) source.FileFacts

type language struct {
	name string
	fn   extractFunc
}

// languages maps file extensions to a language name and its extractor.
var languages = map[string]language{}

func init() {
	register := func(name string, fn extractFunc, exts ...string) {
		for _, ext := range exts {
			languages[ext] = language{name, fn}
		}
	}
	register("go", extractGo, ".go")
	register("typescript", extractTS, ".ts", ".tsx")
	register("javascript", extractTS, ".js", ".jsx", ".mjs", ".cjs")
	register("python", extractPython, ".py")
	register("rust", extractRust, ".rs")
	register("java", extractJava, ".java")
}

// LanguageForPath returns the language name for a file path, or "" when the
// extension is not supported.
func LanguageForPath(path string) string {
	lang, ok := languages[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return ""
	}
	return lang.name
}

// Supported reports whether facts can be extracted from the given path.
func Supported(path string) bool {
	return LanguageForPath(path) != ""
}

// Extract produces the fact list for one source file. It is a pure function
// of the input text; unsupported extensions yield empty facts.
func Extract(relPath string, data []byte) source.FileFacts {
	lang, ok := languages[strings.ToLower(filepath.Ext(relPath))]
	if !ok {
		return source.FileFacts{Path: relPath}
	}
	facts := lang.fn(relPath, data)
	facts.Path = relPath
	facts.Language = lang.name
	return facts
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(data []byte, off int) int {
	if off > len(data) {
		off = len(data)
	}
	return 1 + bytes.Count(data[:off], []byte("\n"))
}

// braceBody returns the text between the first balanced brace pair starting
// at or after from. Unbalanced input returns everything up to the cap, so a
// truncated file still yields a usable (if partial) body.
func braceBody(data []byte, from int) string {
	const maxBody = 16 * 1024

	start := bytes.IndexByte(data[from:], '{')
	if start < 0 {
		return ""
	}
	start += from

	depth := 0
	for i := start; i < len(data) && i-start < maxBody; i++ {
		switch data[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return string(data[start+1 : i])
			}
		}
	}

	end := start + maxBody
	if end > len(data) {
		end = len(data)
	}
	return string(data[start+1 : end])
}

// splitParams splits a raw parameter list on top-level commas, trimming
// whitespace and dropping empty entries. Nested generics/tuples keep their
// commas intact.
func splitParams(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var params []string
	depth := 0
	start := 0
	for i, r := range raw {
		switch r {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				if p := strings.TrimSpace(raw[start:i]); p != "" {
					params = append(params, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(raw[start:]); p != "" {
		params = append(params, p)
	}
	return params
}

// docAbove collects contiguous comment lines immediately preceding the
// declaration at off, using the given line-comment marker.
func docAbove(data []byte, off int, marker string) string {
	text := string(data[:off])
	lines := strings.Split(text, "\n")
	// Last element is the partial line of the declaration itself.
	if len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}

	var doc []string
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, marker) {
			break
		}
		doc = append([]string{strings.TrimSpace(strings.TrimPrefix(trimmed, marker))}, doc...)
	}
	return strings.Join(doc, "\n")
}
