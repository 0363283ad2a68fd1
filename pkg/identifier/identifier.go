// Package identifier normalizes employee identifiers used for whitelist auth.
package identifier

// MaxDigits is the longest identifier the whitelist accepts.
const MaxDigits = 5

// Identifier is a normalized 1-5 digit employee code.
type Identifier string

// Normalize strips every byte that is not an ASCII decimal digit from raw
// and validates the remainder. It returns ok=false when nothing is left or
// more than MaxDigits digits remain. Valid identifiers are returned exactly
// as their digits appeared: no zero padding, no leading-zero stripping.
func Normalize(raw string) (Identifier, bool) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	if len(digits) == 0 || len(digits) > MaxDigits {
		return "", false
	}
	return Identifier(digits), true
}

// Valid reports whether id is already in normalized form.
func Valid(id Identifier) bool {
	norm, ok := Normalize(string(id))
	return ok && norm == id
}
