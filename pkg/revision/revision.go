// Package revision orders drawing revision labels and picks the latest one.
//
// Labels come in two schemes: purely numeric ("0", "1", "12") and purely
// alphabetic ("A", "B", "AA"). Lettered revisions supersede numeric ones,
// so the ordered sequence is always the numeric block sorted by integer
// value followed by the alphabetic block sorted by byte-wise string
// comparison. The last element of that sequence is the latest revision by
// convention.
package revision

import (
	"sort"
	"strconv"
	"unicode"
)

// Kind classifies a revision label.
type Kind int

const (
	// KindOther marks labels that are neither purely numeric nor purely
	// alphabetic (mixed, empty, punctuated). They are excluded from
	// ordering without error.
	KindOther Kind = iota
	KindNumeric
	KindAlphabetic
)

// Classify returns the ordering kind of a label. Numeric means non-empty and
// all ASCII digits; alphabetic means non-empty and all letters.
func Classify(label string) Kind {
	if label == "" {
		return KindOther
	}
	numeric := true
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			numeric = false
			break
		}
	}
	if numeric {
		return KindNumeric
	}
	for _, r := range label {
		if !unicode.IsLetter(r) {
			return KindOther
		}
	}
	return KindAlphabetic
}

// Order returns the labels in display order: numeric ascending by integer
// value, then alphabetic ascending by case-sensitive string comparison.
// Labels of KindOther are dropped. Input order is the ingestion order:
// duplicates are removed keeping the first occurrence, and equal numeric
// values keep their relative input order (stable sort), so the result is
// deterministic for a fixed input slice.
func Order(labels []string) []string {
	ordered, _ := OrderWithExcluded(labels)
	return ordered
}

// OrderWithExcluded is Order plus the count of labels dropped because they
// fit neither scheme, for callers that want to surface the omission.
func OrderWithExcluded(labels []string) ([]string, int) {
	seen := make(map[string]struct{}, len(labels))
	var numeric, alpha []string
	excluded := 0
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		switch Classify(label) {
		case KindNumeric:
			numeric = append(numeric, label)
		case KindAlphabetic:
			alpha = append(alpha, label)
		default:
			excluded++
		}
	}

	sort.SliceStable(numeric, func(i, j int) bool {
		return numericLess(numeric[i], numeric[j])
	})
	sort.SliceStable(alpha, func(i, j int) bool {
		return alpha[i] < alpha[j]
	})

	ordered := make([]string, 0, len(numeric)+len(alpha))
	ordered = append(ordered, numeric...)
	ordered = append(ordered, alpha...)
	return ordered, excluded
}

// Latest returns the last element of an ordered sequence, or ok=false when
// the drawing has no orderable revisions.
func Latest(ordered []string) (string, bool) {
	if len(ordered) == 0 {
		return "", false
	}
	return ordered[len(ordered)-1], true
}

// numericLess compares two all-digit labels by integer value. Labels too
// long for int64 fall back to length-then-lexicographic comparison, which
// agrees with integer ordering for digit strings without leading zeros and
// keeps the sort total either way.
func numericLess(a, b string) bool {
	av, aerr := strconv.ParseInt(a, 10, 64)
	bv, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return av < bv
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
