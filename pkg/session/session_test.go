package session

import (
	"testing"
	"time"
)

func TestIsExpired(t *testing.T) {
	issued := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	s := Session{ID: "x", IssuedAt: issued}
	ttl := 8 * time.Hour

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just issued", issued, false},
		{"within ttl", issued.Add(7 * time.Hour), false},
		{"exactly at ttl", issued.Add(ttl), false},
		{"one nanosecond past", issued.Add(ttl + time.Nanosecond), true},
		{"well past", issued.Add(24 * time.Hour), true},
	}
	for _, tc := range cases {
		if got := IsExpired(s, tc.now, ttl); got != tc.want {
			t.Errorf("%s: IsExpired = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExpiresAt(t *testing.T) {
	issued := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	s := Session{IssuedAt: issued}
	if got := s.ExpiresAt(8 * time.Hour); !got.Equal(issued.Add(8 * time.Hour)) {
		t.Fatalf("ExpiresAt = %v", got)
	}
}

func TestNewIDUniqueAndOpaque(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("NewID length = %d, want 26 (ULID)", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("NewID produced duplicate %q", id)
		}
		seen[id] = struct{}{}
	}
}
