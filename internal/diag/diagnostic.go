package diag

import (
	"turbols/internal/source"
)

// Diagnostic is one advisory finding against a document. Diagnostics never
// abort other operations on the same document; they are UI classifications.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Range    source.Range
}

// HasErrors reports whether at least one diagnostic has error severity.
func HasErrors(items []Diagnostic) bool {
	for i := range items {
		if items[i].Severity >= SevError {
			return true
		}
	}
	return false
}
