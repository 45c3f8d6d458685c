package diag

// Severity is how bad a diagnostic is. The ordering matters: a larger value
// is more severe.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the lowercase label used in every report format.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ESLint returns the numeric severity ESLint-style tooling expects: 2 for
// errors, 1 for warnings, 0 otherwise.
func (s Severity) ESLint() int {
	switch s {
	case SevError:
		return 2
	case SevWarning:
		return 1
	}
	return 0
}
