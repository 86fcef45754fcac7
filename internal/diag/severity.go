package diag

// Severity ranks a diagnostic from advisory to blocking.
type Severity uint8

const (
	// SevInfo marks purely informational findings.
	SevInfo Severity = iota
	// SevWarning marks findings worth attention that do not fail a check.
	SevWarning
	// SevError marks findings that fail a syntax check.
	SevError
)

// String returns the upper-case label used in terminal output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
