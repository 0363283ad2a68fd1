// Package whitelist holds the employee whitelist snapshot and the
// authentication lookup against it.
package whitelist

import (
	"errors"
	"strings"

	"github.com/marambaia/drawdex/pkg/identifier"
)

// Authentication outcomes. Both are ordinary return values: an identifier
// that fails the digit rule never reaches the snapshot lookup.
var (
	ErrInvalidIdentifier = errors.New("whitelist: invalid identifier")
	ErrNotFound          = errors.New("whitelist: identifier not found")
)

// Row is a raw whitelist row as produced by a source loader, before
// identifier normalization.
type Row struct {
	Identifier  string
	DisplayName string
	Role        string
}

// Entry is one whitelisted employee keyed by normalized identifier.
type Entry struct {
	Identifier  identifier.Identifier
	DisplayName string
	Role        string
}

// Snapshot is an immutable whitelist mapping built from one source load.
type Snapshot map[identifier.Identifier]Entry

// BuildSnapshot normalizes each row's identifier and keys the snapshot by
// the normalized form, so membership checks always compare two normalized
// identifiers. Rows whose identifier fails normalization are dropped; when
// two rows normalize to the same identifier the first one wins. DisplayName
// and Role are trimmed.
func BuildSnapshot(rows []Row) Snapshot {
	snap := make(Snapshot, len(rows))
	for _, row := range rows {
		id, ok := identifier.Normalize(row.Identifier)
		if !ok {
			continue
		}
		if _, exists := snap[id]; exists {
			continue
		}
		snap[id] = Entry{
			Identifier:  id,
			DisplayName: strings.TrimSpace(row.DisplayName),
			Role:        strings.TrimSpace(row.Role),
		}
	}
	return snap
}

// Authenticate normalizes raw and looks it up as an exact key in snap.
// It returns ErrInvalidIdentifier without consulting the snapshot when
// normalization fails, and ErrNotFound when the normalized identifier is
// absent. There is no partial or fuzzy matching: "007" and "7" are
// different identifiers.
func Authenticate(raw string, snap Snapshot) (Entry, error) {
	id, ok := identifier.Normalize(raw)
	if !ok {
		return Entry{}, ErrInvalidIdentifier
	}
	entry, found := snap[id]
	if !found {
		return Entry{}, ErrNotFound
	}
	return entry, nil
}
