package revision

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		label string
		want  Kind
	}{
		{"0", KindNumeric},
		{"12", KindNumeric},
		{"A", KindAlphabetic},
		{"ab", KindAlphabetic},
		{"", KindOther},
		{"A1", KindOther},
		{"1.0", KindOther},
		{"R-2", KindOther},
		{" 3", KindOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.label); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestOrderNumericByValue(t *testing.T) {
	got := Order([]string{"2", "10", "1"})
	want := []string{"1", "2", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
	latest, ok := Latest(got)
	if !ok || latest != "10" {
		t.Fatalf("Latest = %q, %v, want \"10\", true", latest, ok)
	}
}

func TestOrderNumericBlockBeforeAlphabetic(t *testing.T) {
	got := Order([]string{"B", "A", "3", "1"})
	want := []string{"1", "3", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
	latest, ok := Latest(got)
	if !ok || latest != "B" {
		t.Fatalf("Latest = %q, %v, want \"B\", true", latest, ok)
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(nil); len(got) != 0 {
		t.Fatalf("Order(nil) = %v, want empty", got)
	}
	if _, ok := Latest(nil); ok {
		t.Fatal("Latest(nil) reported a latest revision")
	}
}

func TestOrderDropsMixedLabels(t *testing.T) {
	ordered, excluded := OrderWithExcluded([]string{"1", "A1", "B", "rev.2", ""})
	want := []string{"1", "B"}
	if !reflect.DeepEqual(ordered, want) {
		t.Fatalf("ordered = %v, want %v", ordered, want)
	}
	if excluded != 3 {
		t.Fatalf("excluded = %d, want 3", excluded)
	}
}

func TestOrderDeduplicatesKeepingFirst(t *testing.T) {
	ordered, excluded := OrderWithExcluded([]string{"2", "2", "A", "A", "2"})
	want := []string{"2", "A"}
	if !reflect.DeepEqual(ordered, want) {
		t.Fatalf("ordered = %v, want %v", ordered, want)
	}
	if excluded != 0 {
		t.Fatalf("excluded = %d, want 0", excluded)
	}
}

func TestOrderAlphabeticIsCaseSensitive(t *testing.T) {
	// Byte-wise comparison: uppercase sorts before lowercase.
	got := Order([]string{"a", "B", "A"})
	want := []string{"A", "B", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
}

func TestOrderDeterministicForFixedInput(t *testing.T) {
	in := []string{"10", "B", "2", "x1", "a", "1", "A"}
	first := Order(in)
	for i := 0; i < 50; i++ {
		if got := Order(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("Order not deterministic: %v vs %v", got, first)
		}
	}
}

func TestOrderHugeNumericLabels(t *testing.T) {
	// Labels beyond int64 still sort totally and deterministically.
	got := Order([]string{"99999999999999999999", "9", "100000000000000000000"})
	want := []string{"9", "99999999999999999999", "100000000000000000000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Order = %v, want %v", got, want)
	}
}
