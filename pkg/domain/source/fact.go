// Package source defines the structural facts extracted from source files:
// function signatures, class shapes, and export declarations. Facts are
// immutable after extraction and identified by (file path, symbol name).
package source

import (
	"sort"
	"strings"
)

// FunctionSignature describes one function or method found in a source file.
type FunctionSignature struct {
	Name       string   `json:"name"`
	Params     []string `json:"params,omitempty"`
	ReturnType string   `json:"return_type,omitempty"`
	IsAsync    bool     `json:"is_async,omitempty"`
	IsExported bool     `json:"is_exported"`
	IsStub     bool     `json:"is_stub,omitempty"`
	DocComment string   `json:"doc_comment,omitempty"`
	FilePath   string   `json:"file_path"`
	Line       int      `json:"line"`
}

// ClassFact describes a class, struct, or interface declaration.
type ClassFact struct {
	Name       string   `json:"name"`
	Members    []string `json:"members,omitempty"`
	BaseTypes  []string `json:"base_types,omitempty"`
	IsExported bool     `json:"is_exported"`
	FilePath   string   `json:"file_path"`
	Line       int      `json:"line"`
}

// ExportFact records an exported symbol that is neither a function nor a
// class definition at its declaration site (re-exports, constants, values).
type ExportFact struct {
	SymbolName string `json:"symbol_name"`
	Kind       string `json:"kind"` // "const", "var", "reexport", "value"
	FilePath   string `json:"file_path"`
	Line       int    `json:"line"`
}

// FileFacts holds everything extracted from one source file.
type FileFacts struct {
	Path      string              `json:"path"`
	Language  string              `json:"language"`
	Functions []FunctionSignature `json:"functions,omitempty"`
	Classes   []ClassFact         `json:"classes,omitempty"`
	Exports   []ExportFact        `json:"exports,omitempty"`
}

// IsEmpty returns true if extraction produced no facts for the file.
func (f FileFacts) IsEmpty() bool {
	return len(f.Functions) == 0 && len(f.Classes) == 0 && len(f.Exports) == 0
}

// SymbolKey normalizes a symbol name for cross-language comparison:
// lowercased with underscores and dashes removed, so "validate_email",
// "validateEmail", and "ValidateEmail" all share one key.
func SymbolKey(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '-' || r == '$' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Index provides normalized-name lookup over facts from many files.
// Built once per analysis run; read-only afterwards.
type Index struct {
	functions map[string][]FunctionSignature
	classes   map[string][]ClassFact
	exports   map[string][]ExportFact
	all       []FunctionSignature
}

// NewIndex builds an Index over the given file facts. Facts are stored in
// deterministic order (file path, then line) regardless of input order.
func NewIndex(files []FileFacts) *Index {
	ix := &Index{
		functions: make(map[string][]FunctionSignature),
		classes:   make(map[string][]ClassFact),
		exports:   make(map[string][]ExportFact),
	}

	sorted := make([]FileFacts, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, f := range sorted {
		for _, fn := range f.Functions {
			key := SymbolKey(fn.Name)
			ix.functions[key] = append(ix.functions[key], fn)
			ix.all = append(ix.all, fn)
		}
		for _, c := range f.Classes {
			ix.classes[SymbolKey(c.Name)] = append(ix.classes[SymbolKey(c.Name)], c)
		}
		for _, e := range f.Exports {
			ix.exports[SymbolKey(e.SymbolName)] = append(ix.exports[SymbolKey(e.SymbolName)], e)
		}
	}
	return ix
}

// LookupFunction returns functions whose normalized name matches.
func (ix *Index) LookupFunction(name string) []FunctionSignature {
	return ix.functions[SymbolKey(name)]
}

// LookupClass returns classes whose normalized name matches.
func (ix *Index) LookupClass(name string) []ClassFact {
	return ix.classes[SymbolKey(name)]
}

// LookupExport returns export facts whose normalized name matches.
func (ix *Index) LookupExport(name string) []ExportFact {
	return ix.exports[SymbolKey(name)]
}

// Functions returns every indexed function in deterministic order.
func (ix *Index) Functions() []FunctionSignature {
	return ix.all
}

// FunctionCount returns the number of indexed functions.
func (ix *Index) FunctionCount() int {
	return len(ix.all)
}
