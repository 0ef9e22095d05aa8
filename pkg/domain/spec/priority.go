package spec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the delivery priority of a spec or requirement.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// priorityOrder defines the ordering of priorities (lower order = more urgent).
var priorityOrder = map[Priority]int{
	PriorityP0: 0,
	PriorityP1: 1,
	PriorityP2: 2,
	PriorityP3: 3,
}

// AllPriorities returns all valid priorities in urgency order.
func AllPriorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}
}

// IsValid returns true if the priority is one of P0..P3.
func (p Priority) IsValid() bool {
	_, ok := priorityOrder[p]
	return ok
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Order returns the numeric rank of the priority. P0 is 0 (most urgent);
// unknown priorities sort after P3.
func (p Priority) Order() int {
	if order, ok := priorityOrder[p]; ok {
		return order
	}
	return len(priorityOrder)
}

// Compare compares two priorities by urgency.
// Returns -1 if p is more urgent than other, 0 if equal, 1 if less urgent.
func (p Priority) Compare(other Priority) int {
	switch {
	case p.Order() < other.Order():
		return -1
	case p.Order() > other.Order():
		return 1
	default:
		return 0
	}
}

// IsMoreUrgentThan returns true if p outranks other.
func (p Priority) IsMoreUrgentThan(other Priority) bool {
	return p.Compare(other) < 0
}

// ParsePriority parses a string into a Priority. It accepts lowercase
// forms ("p1") and a few common aliases found in planning documents.
func ParsePriority(s string) (Priority, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	switch normalized {
	case "CRITICAL", "MUST", "MUST-HAVE", "MUST HAVE":
		normalized = "P0"
	case "HIGH", "SHOULD", "SHOULD-HAVE", "SHOULD HAVE":
		normalized = "P1"
	case "MEDIUM", "COULD", "COULD-HAVE", "COULD HAVE":
		normalized = "P2"
	case "LOW", "WONT", "WON'T", "NICE-TO-HAVE", "NICE TO HAVE":
		normalized = "P3"
	}
	p := Priority(normalized)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return p, nil
}

// MustParsePriority parses a priority or panics. Use only in tests.
func MustParsePriority(s string) Priority {
	p, err := ParsePriority(s)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPriority returns the priority assumed when a document states none.
func DefaultPriority() Priority {
	return PriorityP2
}

// MarshalJSON implements json.Marshaler.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler.
// An empty string is accepted as the default priority so that older
// exports without explicit priorities still load.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*p = DefaultPriority()
		return nil
	}
	parsed, err := ParsePriority(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
