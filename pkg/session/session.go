// Package session defines the login session value and its expiry rule.
//
// Storage and lifecycle belong to the web layer (pkg/storage persists
// sessions, pkg/web issues cookies); this package only holds the value and
// the pure wall-clock expiry predicate so the rule is directly testable.
package session

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/marambaia/drawdex/pkg/identifier"
)

// Session is an authenticated login, issued after a successful whitelist
// lookup.
type Session struct {
	ID          string
	Identifier  identifier.Identifier
	DisplayName string
	Role        string
	IssuedAt    time.Time
}

// IsExpired reports whether the session has outlived ttl at the given
// instant. Expiry is measured from IssuedAt only: activity never extends a
// session. The comparison is strict, so a session is still valid exactly at
// the TTL boundary.
func IsExpired(s Session, now time.Time, ttl time.Duration) bool {
	return now.Sub(s.IssuedAt) > ttl
}

// ExpiresAt returns the instant after which IsExpired starts reporting true.
func (s Session) ExpiresAt(ttl time.Duration) time.Time {
	return s.IssuedAt.Add(ttl)
}

// NewID returns an opaque session token suitable for a cookie value. The
// default entropy source is locked, so concurrent logins are fine.
func NewID() string {
	return strings.ToLower(ulid.Make().String())
}
