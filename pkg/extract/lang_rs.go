package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// Rust symbol patterns.
var (
	// pub async fn name<T>(params) -> Ret {
	reRsFn = regexp.MustCompile(`(?m)^\s*(pub(?:\([^)]*\))?\s+)?(async\s+)?fn\s+([a-z_]\w*)\s*(?:<[^>]*>)?\s*\(([^)]*)\)\s*(?:->\s*([^\{\n]+))?\s*\{`)

	// pub struct/enum/trait Name
	reRsType = regexp.MustCompile(`(?m)^\s*(pub(?:\([^)]*\))?\s+)?(struct|enum|trait)\s+([A-Za-z_]\w*)`)

	// pub const NAME | pub static NAME
	reRsConst = regexp.MustCompile(`(?m)^\s*pub\s+(const|static)\s+([A-Z_][A-Z0-9_]*)`)

	reRsField = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?([a-z_]\w*)\s*[:(]`)
)

func extractRust(relPath string, data []byte) source.FileFacts {
	var facts source.FileFacts

	for _, m := range reRsFn.FindAllSubmatchIndex(data, -1) {
		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       group(data, m, 3),
			Params:     rsParams(group(data, m, 4)),
			ReturnType: strings.TrimSpace(group(data, m, 5)),
			IsAsync:    group(data, m, 2) != "",
			IsExported: group(data, m, 1) != "",
			IsStub:     source.IsStubBody(braceBody(data, m[1]-1)),
			DocComment: docAbove(data, m[0], "///"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reRsType.FindAllSubmatchIndex(data, -1) {
		var members []string
		// Tuple and unit structs end at ';' before any brace; only a brace
		// body belongs to this declaration.
		rest := data[m[1]:]
		semi := bytes.IndexByte(rest, ';')
		brace := bytes.IndexByte(rest, '{')
		if brace >= 0 && (semi < 0 || brace < semi) {
			for _, mm := range reRsField.FindAllStringSubmatch(braceBody(data, m[1]), -1) {
				members = append(members, mm[1])
			}
		}
		facts.Classes = append(facts.Classes, source.ClassFact{
			Name:       group(data, m, 3),
			Members:    members,
			IsExported: group(data, m, 1) != "",
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reRsConst.FindAllSubmatchIndex(data, -1) {
		facts.Exports = append(facts.Exports, source.ExportFact{
			SymbolName: group(data, m, 2),
			Kind:       group(data, m, 1),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	return facts
}

func rsParams(raw string) []string {
	params := splitParams(raw)
	if len(params) > 0 {
		first := strings.TrimSpace(params[0])
		if first == "self" || strings.HasSuffix(first, "self") {
			params = params[1:]
		}
	}
	if len(params) == 0 {
		return nil
	}
	return params
}
