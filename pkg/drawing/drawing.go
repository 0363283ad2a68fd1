// Package drawing implements substring search over the drawings table and
// the grouping of matched rows into per-drawing revision sets.
package drawing

import (
	"strings"

	"github.com/marambaia/drawdex/pkg/revision"
)

// Row is one line of the drawings spreadsheet: a drawing name plus one
// revision label. A drawing with several revisions spans several rows.
type Row struct {
	Name     string
	Revision string
}

// Group collects the revision labels of one drawing in row order,
// duplicates included; ordering and dedup happen in pkg/revision.
type Group struct {
	Name      string
	Revisions []string
}

// Result is one drawing prepared for display: revisions in display order
// with the latest one called out, plus the count of labels that fit neither
// revision scheme and were omitted.
type Result struct {
	Name      string   `json:"name"`
	Revisions []string `json:"revisions"`
	Latest    string   `json:"latest,omitempty"`
	Excluded  int      `json:"excludedLabels,omitempty"`
}

// Search returns the rows whose Name contains term as a case-insensitive
// substring, preserving row order. An empty term matches nothing; callers
// are expected to guard on non-empty input before calling.
func Search(rows []Row, term string) []Row {
	if term == "" {
		return nil
	}
	needle := strings.ToLower(term)
	var matched []Row
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.Name), needle) {
			matched = append(matched, row)
		}
	}
	return matched
}

// GroupByName groups rows by exact drawing name, preserving the order in
// which each name first appears. Revision labels keep their row order so
// downstream ordering is deterministic.
func GroupByName(rows []Row) []Group {
	index := make(map[string]int, len(rows))
	var groups []Group
	for _, row := range rows {
		i, seen := index[row.Name]
		if !seen {
			index[row.Name] = len(groups)
			groups = append(groups, Group{Name: row.Name})
			i = len(groups) - 1
		}
		groups[i].Revisions = append(groups[i].Revisions, row.Revision)
	}
	return groups
}

// Lookup searches rows for term and assembles one Result per matched
// drawing: ordered revisions, the latest label, and the excluded count.
func Lookup(rows []Row, term string) []Result {
	groups := GroupByName(Search(rows, term))
	results := make([]Result, 0, len(groups))
	for _, g := range groups {
		ordered, excluded := revision.OrderWithExcluded(g.Revisions)
		res := Result{Name: g.Name, Revisions: ordered, Excluded: excluded}
		if latest, ok := revision.Latest(ordered); ok {
			res.Latest = latest
		}
		results = append(results, res)
	}
	return results
}
