package extract

import (
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// Java symbol patterns.
var (
	// public static <T> Ret name(params) throws E {
	reJavaMethod = regexp.MustCompile(`(?m)^[\t ]+((?:public|protected|private)\s+)?(?:(?:static|final|abstract|synchronized|native|default)\s+)*(?:<[^>\n]*>\s+)?([\w$.<>\[\],?]+)\s+([a-z_$][\w$]*)\s*\(([^)]*)\)\s*(?:throws\s+[\w$.,\s]+?)?\s*\{`)

	// public final class Name extends Base implements A, B {
	reJavaType = regexp.MustCompile(`(?m)^\s*((?:public|protected|private)\s+)?(?:(?:abstract|final|static|sealed|non-sealed)\s+)*(class|interface|enum|record)\s+([A-Za-z_$][\w$]*)(?:<[^>\n]*>)?(?:\s*\([^)]*\))?(?:\s+extends\s+([\w$.<>,\s]+?))?(?:\s+implements\s+([\w$.<>,\s]+?))?\s*\{`)

	// public static final TYPE NAME = ...
	reJavaConst = regexp.MustCompile(`(?m)^\s*public\s+static\s+final\s+[\w$.<>\[\]]+\s+([A-Z_][A-Z0-9_]*)\s*[=;]`)

	// field declarations inside a type body
	reJavaField = regexp.MustCompile(`(?m)^[\t ]+(?:(?:public|protected|private|static|final|volatile|transient)\s+)+[\w$.<>\[\],?]+\s+([a-z_$][\w$]*)\s*[=;]`)
)

// javaKeywords filters control-flow statements that look like method
// declarations to the regex ("else if (x) {").
var javaKeywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "switch": true,
	"catch": true, "try": true, "do": true, "return": true, "new": true,
	"synchronized": true, "throw": true,
}

func extractJava(relPath string, data []byte) source.FileFacts {
	var facts source.FileFacts

	for _, m := range reJavaMethod.FindAllSubmatchIndex(data, -1) {
		name := group(data, m, 3)
		if javaKeywords[name] || javaKeywords[group(data, m, 2)] {
			continue
		}
		mods := group(data, m, 1)
		facts.Functions = append(facts.Functions, source.FunctionSignature{
			Name:       name,
			Params:     splitParams(group(data, m, 4)),
			ReturnType: strings.TrimSpace(group(data, m, 2)),
			IsExported: strings.HasPrefix(mods, "public"),
			IsStub:     source.IsStubBody(braceBody(data, m[1]-1)),
			DocComment: docAbove(data, m[0], "//"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reJavaType.FindAllSubmatchIndex(data, -1) {
		var bases []string
		for _, g := range []int{4, 5} {
			for _, b := range strings.Split(group(data, m, g), ",") {
				if b = strings.TrimSpace(b); b != "" {
					bases = append(bases, b)
				}
			}
		}

		var members []string
		seen := map[string]bool{}
		for _, mm := range reJavaField.FindAllStringSubmatch(braceBody(data, m[1]-1), -1) {
			if seen[mm[1]] || javaKeywords[mm[1]] {
				continue
			}
			seen[mm[1]] = true
			members = append(members, mm[1])
		}

		facts.Classes = append(facts.Classes, source.ClassFact{
			Name:       group(data, m, 3),
			Members:    members,
			BaseTypes:  bases,
			IsExported: strings.HasPrefix(group(data, m, 1), "public"),
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	for _, m := range reJavaConst.FindAllSubmatchIndex(data, -1) {
		facts.Exports = append(facts.Exports, source.ExportFact{
			SymbolName: group(data, m, 1),
			Kind:       "const",
			FilePath:   relPath,
			Line:       lineOf(data, m[0]),
		})
	}

	return facts
}
