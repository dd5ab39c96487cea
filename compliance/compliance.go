package compliance

// ComplianceMode selects how aggressively identifier construction rejects
// questionable input.
//
// Strict mode verifies supplied checksums and requires the leading "u" on
// full-length text. Permissive mode skips both checks; the stored checksum
// is always recomputed from the payload either way.
//
// Strict is the zero value.
type ComplianceMode int

const (
	Strict ComplianceMode = iota
	Permissive
)

// FromStrict maps a strict flag onto a mode.
func FromStrict(strict bool) ComplianceMode {
	if strict {
		return Strict
	}
	return Permissive
}

func (m ComplianceMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// Parse maps "strict" / "permissive" (as used by CLI flags) onto a mode.
func Parse(s string) (ComplianceMode, bool) {
	switch s {
	case "strict", "":
		return Strict, true
	case "permissive", "lenient":
		return Permissive, true
	default:
		return Strict, false
	}
}
