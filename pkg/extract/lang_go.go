package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// Go symbol patterns. Top-level declarations only; bodies are recovered via
// balanced-brace scanning so a truncated file still yields partial facts.
var (
	// func Name(params) ret {  |  func (r *Recv) Name(params) (a, b) {
	reGoFunc = regexp.MustCompile(`(?m)^func\s+(?:\(\s*\w+\s+\*?[A-Za-z_]\w*\s*\)\s+)?([A-Za-z_]\w*)\s*\(([^)]*)\)\s*([^\{\n]*)\{`)

	// type Name struct {  |  type Name interface {
	reGoType = regexp.MustCompile(`(?m)^type\s+([A-Za-z_]\w*)\s+(struct|interface)\s*\{`)

	// const Name = ...  |  var Name = ...
	reGoConstVar = regexp.MustCompile(`(?m)^(const|var)\s+([A-Za-z_]\w*)`)

	// field or method line inside a type body: leading identifier
	reGoMember = regexp.MustCompile(`^([A-Za-z_]\w*)`)
)

func extractGo(relPath string, data []byte) source.FileFacts {
	var facts source.FileFacts

	for _, m := range reGoFunc.FindAllSubmatchIndex(data, -1) {
		name := string(data[m[2]:m[3]])
		params := string(data[m[4]:m[5]])
		ret := strings.TrimSpace(string(data[m[6]:m[7]]))
		body := braceBody(data, m[7])

		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       name,
			Params:     splitParams(params),
			ReturnType: ret,
			IsExported: goExported(name),
			IsStub:     source.IsStubBody(body),
			DocComment: docAbove(data, m[0], "//"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reGoType.FindAllSubmatchIndex(data, -1) {
		name := string(data[m[2]:m[3]])
		body := braceBody(data, m[0])

		var members, bases []string
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "//") {
				continue
			}
			fields := strings.Fields(line)
			if id := reGoMember.FindString(line); id != "" {
				// A bare identifier line is an embedded type.
				if len(fields) == 1 && goExported(id) {
					bases = append(bases, strings.TrimPrefix(fields[0], "*"))
					continue
				}
				members = append(members, id)
			}
		}

		facts.Classes = append(facts.Classes, source.ClassFact{
			Name:       name,
			Members:    members,
			BaseTypes:  bases,
			IsExported: goExported(name),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reGoConstVar.FindAllSubmatchIndex(data, -1) {
		kind := string(data[m[2]:m[3]])
		name := string(data[m[4]:m[5]])
		if !goExported(name) {
			continue
		}
		facts.Exports = append(facts.Exports, source.ExportFact{
			SymbolName: name,
			Kind:       kind,
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	return facts
}

func goExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}
