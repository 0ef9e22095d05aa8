// Package feature cross-checks advertised claims from documentation
// against structural evidence in the code, producing accuracy-scored
// findings.
package feature

// Advertised is one claim extracted from documentation, typically a bullet
// under a "Features" heading in a root-level overview document.
type Advertised struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Path   string `json:"path"` // document the claim came from
}

// Finding is the verdict for one advertised feature: how much of the
// expected structural evidence was actually found in the code.
type Finding struct {
	Advertised    Advertised `json:"advertised"`
	AccuracyScore int        `json:"accuracy_score"` // 0..100
	Reality       string     `json:"reality"`
	Evidence      []string   `json:"evidence,omitempty"` // matched symbols, "file:line name"
}

// IsUnsubstantiated reports whether no evidence at all backed the claim.
func (f Finding) IsUnsubstantiated() bool {
	return f.AccuracyScore == 0
}
