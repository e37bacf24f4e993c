// Package phone normalizes phone numbers to the E.164-like form the WhatsApp
// gateway expects. The packaged plan is the Argentine numbering plan: country
// code 54 plus the mobile indicator 9.
package phone

import "strings"

// Normalizer converts a raw phone number into the fully qualified form used
// for dispatch and comparison. Implementations must be idempotent.
type Normalizer interface {
	Normalize(raw string) string
}

// ArgentinaPlan normalizes numbers against the Argentine numbering plan.
type ArgentinaPlan struct{}

// Default is the normalizer used across the service.
var Default Normalizer = ArgentinaPlan{}

// Normalize applies the default plan.
func Normalize(raw string) string {
	return Default.Normalize(raw)
}

// Normalize strips non-digit characters and qualifies the number:
//   - 10 digits: national number, prepend country code
//   - 11 digits with leading trunk prefix 0: strip it, prepend country code
//   - 12 digits with an explicit +54 country code: insert the mobile
//     indicator 9 after the country code
//   - 12 digits starting with 54, or 13 starting with 549: already qualified,
//     passed through unchanged
//
// Every output of Normalize is a fixed point, so applying it twice is the
// same as applying it once. Anything that matches no branch is returned
// digits-only, untouched.
func (ArgentinaPlan) Normalize(raw string) string {
	explicitCC := strings.HasPrefix(strings.TrimSpace(raw), "+")
	digits := keepDigits(raw)

	switch {
	case len(digits) == 13 && strings.HasPrefix(digits, "549"):
		return digits
	case len(digits) == 12 && strings.HasPrefix(digits, "54"):
		if explicitCC {
			return digits[:2] + "9" + digits[2:]
		}
		return digits
	case len(digits) == 10:
		return "54" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "54" + digits[1:]
	}

	return digits
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
