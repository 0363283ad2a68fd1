package storage

import (
	"database/sql"
	"time"

	derrors "github.com/marambaia/drawdex/pkg/errors"
	"github.com/marambaia/drawdex/pkg/identifier"
	"github.com/marambaia/drawdex/pkg/session"
)

// CreateSession persists a freshly issued login session.
func (s *Store) CreateSession(sess session.Session) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	_, err := s.db.Exec(`
        INSERT INTO auth_sessions (id, identifier, display_name, role, issued_at, created_at, last_seen_at)
        VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
    `, sess.ID, string(sess.Identifier), sess.DisplayName, sess.Role, sess.IssuedAt.UTC())
	return err
}

// GetSession returns the stored session, or nil when the id is unknown.
func (s *Store) GetSession(id string) (*session.Session, error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreClosed
	}
	row := s.db.QueryRow(`
        SELECT id, identifier, display_name, role, issued_at
        FROM auth_sessions WHERE id = ?
    `, id)

	var sess session.Session
	var ident string
	if err := row.Scan(&sess.ID, &ident, &sess.DisplayName, &sess.Role, &sess.IssuedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, derrors.Wrap(err, derrors.ErrCodeStorageRead, "loading session")
	}
	sess.Identifier = identifier.Identifier(ident)
	sess.IssuedAt = sess.IssuedAt.UTC()
	return &sess, nil
}

// TouchSession records activity. It never extends expiry; last_seen_at is
// bookkeeping only.
func (s *Store) TouchSession(id string) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	_, err := s.db.Exec(`UPDATE auth_sessions SET last_seen_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// DeleteSession removes a session (logout or expiry).
func (s *Store) DeleteSession(id string) error {
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes every session issued at or before cutoff
// (cutoff = now - ttl) and reports how many were deleted.
func (s *Store) DeleteExpiredSessions(cutoff time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrStoreClosed
	}
	res, err := s.db.Exec(`DELETE FROM auth_sessions WHERE issued_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// CountActiveSessions counts sessions issued after cutoff.
func (s *Store) CountActiveSessions(cutoff time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrStoreClosed
	}
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM auth_sessions WHERE issued_at >= ?`, cutoff.UTC()).Scan(&count)
	return count, err
}
