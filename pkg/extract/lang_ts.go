package extract

import (
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// TypeScript/JavaScript symbol patterns (shared for .ts/.tsx/.js/.jsx).
var (
	// export (default) (async) function Name(params): Ret {
	reTsFunc = regexp.MustCompile(`(?m)^\s*(export\s+)?(?:default\s+)?(async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(([^)]*)\)\s*(?::\s*([^\{\n]+))?\s*\{`)

	// export const Name = (params) =>  |  export const Name = param =>
	reTsArrow = regexp.MustCompile(`(?m)^\s*(export\s+)?const\s+([A-Za-z_$][\w$]*)\s*=\s*(async\s+)?(?:\(([^)]*)\)|([A-Za-z_$][\w$]*))\s*=>`)

	// export (default) (abstract) class Name extends Base implements I {
	reTsClass = regexp.MustCompile(`(?m)^\s*(export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)(?:\s+extends\s+([\w$.]+))?(?:\s+implements\s+([\w$.,\s]+))?\s*\{`)

	// export interface Name extends A, B {
	reTsInterface = regexp.MustCompile(`(?m)^\s*(export\s+)?interface\s+([A-Za-z_$][\w$]*)(?:\s+extends\s+([\w$.,\s]+))?\s*\{`)

	// export let/var/const Name = ... (non-arrow values)
	reTsValue = regexp.MustCompile(`(?m)^\s*export\s+(let|var|const)\s+([A-Za-z_$][\w$]*)\s*[:=]`)

	// export { Foo, Bar } from '...'
	reTsReExport = regexp.MustCompile(`(?m)^\s*export\s*\{([^}]*)\}`)

	// method or property name inside a class/interface body
	reTsMember = regexp.MustCompile(`(?m)^[\t ]+(?:public\s+|private\s+|protected\s+|readonly\s+|static\s+|async\s+)*([A-Za-z_$][\w$]*)\s*[(:?]`)
)

func extractTS(relPath string, data []byte) source.FileFacts {
	var facts source.FileFacts
	arrowSeen := map[string]bool{}

	for _, m := range reTsFunc.FindAllSubmatchIndex(data, -1) {
		name := group(data, m, 3)
		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       name,
			Params:     splitParams(group(data, m, 4)),
			ReturnType: strings.TrimSpace(group(data, m, 5)),
			IsAsync:    group(data, m, 2) != "",
			IsExported: group(data, m, 1) != "",
			IsStub:     source.IsStubBody(braceBody(data, m[1]-1)),
			DocComment: docAbove(data, m[0], "//"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reTsArrow.FindAllSubmatchIndex(data, -1) {
		name := group(data, m, 2)
		arrowSeen[name] = true
		params := group(data, m, 4)
		if params == "" {
			params = group(data, m, 5)
		}
		// Expression-bodied arrows have no braces; only brace bodies are
		// inspected for stubs.
		isStub := false
		if rest := strings.TrimLeft(string(data[m[1]:]), " \t"); strings.HasPrefix(rest, "{") {
			isStub = source.IsStubBody(braceBody(data, m[1]))
		}
		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       name,
			Params:     splitParams(params),
			IsAsync:    group(data, m, 3) != "",
			IsExported: group(data, m, 1) != "",
			IsStub:     isStub,
			DocComment: docAbove(data, m[0], "//"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	classLike := func(m []int, baseGroups ...int) source.ClassFact {
		var bases []string
		for _, g := range baseGroups {
			for _, b := range strings.Split(group(data, m, g), ",") {
				if b = strings.TrimSpace(b); b != "" {
					bases = append(bases, b)
				}
			}
		}

		var members []string
		seen := map[string]bool{}
		for _, mm := range reTsMember.FindAllStringSubmatch(braceBody(data, m[1]-1), -1) {
			name := mm[1]
			if keywordTS(name) || seen[name] {
				continue
			}
			seen[name] = true
			members = append(members, name)
		}

		return source.ClassFact{
			Name:       group(data, m, 2),
			Members:    members,
			BaseTypes:  bases,
			IsExported: group(data, m, 1) != "",
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		}
	}

	for _, m := range reTsClass.FindAllSubmatchIndex(data, -1) {
		facts.Classes = append(facts.Classes, classLike(m, 3, 4))
	}
	for _, m := range reTsInterface.FindAllSubmatchIndex(data, -1) {
		facts.Classes = append(facts.Classes, classLike(m, 3))
	}

	for _, m := range reTsValue.FindAllSubmatchIndex(data, -1) {
		name := group(data, m, 2)
		if arrowSeen[name] {
			continue
		}
		facts.Exports = append(facts.Exports, source.ExportFact{
			SymbolName: name,
			Kind:       group(data, m, 1),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reTsReExport.FindAllSubmatchIndex(data, -1) {
		for _, sym := range strings.Split(group(data, m, 1), ",") {
			sym = strings.TrimSpace(sym)
			// "Foo as Bar" re-exports under the alias.
			if parts := strings.Split(sym, " as "); len(parts) == 2 {
				sym = strings.TrimSpace(parts[1])
			}
			if sym == "" {
				continue
			}
			facts.Exports = append(facts.Exports, source.ExportFact{
				SymbolName: sym,
				Kind:       "reexport",
				FilePath:   relPath,
				Line:       lineOf(data, m[0]),
			})
		}
	}

	return facts
}

// group returns the text of capture group n, or "" when it did not match.
func group(data []byte, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return string(data[m[2*n]:m[2*n+1]])
}

func keywordTS(s string) bool {
	switch s {
	case "if", "for", "while", "switch", "return", "catch", "constructor", "function", "new", "super", "this", "typeof":
		return true
	}
	return false
}
