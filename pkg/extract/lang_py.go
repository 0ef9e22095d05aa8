package extract

import (
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// Python symbol patterns. Indentation decides nesting: column-zero defs are
// module functions, indented defs under a class line are its methods.
var (
	rePyDef = regexp.MustCompile(`(?m)^([\t ]*)(async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*(?:->\s*([^:\n]+))?\s*:`)

	rePyClass = regexp.MustCompile(`(?m)^class\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*:`)

	// module-level CONSTANT = ...
	rePyConst = regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]*)\s*=`)
)

func extractPython(relPath string, data []byte) source.FileFacts {
	var facts source.FileFacts
	text := string(data)

	for _, m := range rePyDef.FindAllStringSubmatchIndex(text, -1) {
		indent := pyGroup(text, m, 1)
		name := pyGroup(text, m, 3)

		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       name,
			Params:     pyParams(pyGroup(text, m, 4)),
			ReturnType: strings.TrimSpace(pyGroup(text, m, 5)),
			IsAsync:    pyGroup(text, m, 2) != "",
			IsExported: indent == "" && !strings.HasPrefix(name, "_"),
			IsStub:     source.IsStubBody(pyBlock(text, m[1], indent)),
			DocComment: docAbove(data, m[0], "#"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range rePyClass.FindAllStringSubmatchIndex(text, -1) {
		name := pyGroup(text, m, 1)

		var bases []string
		for _, b := range strings.Split(pyGroup(text, m, 2), ",") {
			b = strings.TrimSpace(b)
			if b != "" && b != "object" {
				bases = append(bases, b)
			}
		}

		var members []string
		for _, mm := range rePyDef.FindAllStringSubmatch(pyBlock(text, m[1], ""), -1) {
			if method := mm[3]; !strings.HasPrefix(method, "__") {
				members = append(members, method)
			}
		}

		facts.Classes = append(facts.Classes, source.ClassFact{
			Name:       name,
			Members:    members,
			BaseTypes:  bases,
			IsExported: !strings.HasPrefix(name, "_"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range rePyConst.FindAllStringSubmatchIndex(text, -1) {
		facts.Exports = append(facts.Exports, source.ExportFact{
			SymbolName: pyGroup(text, m, 1),
			Kind:       "const",
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	return facts
}

// pyBlock returns the indented block following the declaration whose header
// ends at off. The block runs until the first non-blank line indented at or
// below the header's own indentation.
func pyBlock(text string, off int, headerIndent string) string {
	rest := text[off:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		return ""
	}

	var block []string
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			block = append(block, "")
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if len(indent) <= len(headerIndent) {
			break
		}
		block = append(block, line)
	}
	return strings.Join(block, "\n")
}

func pyParams(raw string) []string {
	params := splitParams(raw)
	// self/cls carry no signature information.
	if len(params) > 0 && (params[0] == "self" || params[0] == "cls") {
		params = params[1:]
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

func pyGroup(text string, m []int, n int) string {
	if 2*n+1 >= len(m) || m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}
