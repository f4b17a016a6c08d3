// Package smartcode validates and derives HERA smart codes, the structured
// business-context tags carried by every transaction and line.
package smartcode

import (
	"fmt"
	"regexp"
	"strings"
)

// ReverseSegment is the segment substituted into a smart code when deriving
// the code for a reversal transaction.
const ReverseSegment = "REVERSE"

// codePattern matches uppercase alphanumeric dot-separated codes of at least
// six segments: the HERA prefix, four or more business segments and a terminal
// version segment V<digits>. Example: HERA.RESTAURANT.SALES.ORDER.CORE.V1
var codePattern = regexp.MustCompile(`^HERA(\.[A-Z0-9]+){4,}\.V[0-9]+$`)

// IsValid reports whether code is a well-formed smart code.
func IsValid(code string) bool {
	return codePattern.MatchString(code)
}

// Validate returns a descriptive error when code is not a well-formed smart
// code, nil otherwise.
func Validate(code string) error {
	if !IsValid(code) {
		return fmt.Errorf("invalid smart code %q: expected HERA.<SEGMENT>(.<SEGMENT>)+.V<digits> with at least 6 uppercase segments", code)
	}
	return nil
}

// DeriveReversal returns the smart code for the reversal of a transaction
// tagged with code: the second-to-last segment is replaced with REVERSE and
// the version segment is left intact.
//
//	HERA.RESTAURANT.SALES.ORDER.CORE.V1 -> HERA.RESTAURANT.SALES.ORDER.REVERSE.V1
//
// The derivation is pure and deterministic. Applying it to a code whose
// second-to-last segment is already REVERSE replaces that segment again,
// yielding the same code; correct callers do not derive twice.
func DeriveReversal(code string) (string, error) {
	segments := strings.Split(code, ".")
	if len(segments) < 2 {
		return "", fmt.Errorf("cannot derive reversal smart code from %q: need at least 2 segments", code)
	}
	segments[len(segments)-2] = ReverseSegment
	return strings.Join(segments, "."), nil
}
