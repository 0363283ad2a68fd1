package source

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/marambaia/drawdex/pkg/drawing"
	derrors "github.com/marambaia/drawdex/pkg/errors"
)

// Drawings table column names. The revision column carries an accent in the
// published workbook; the unaccented spelling is accepted as a fallback.
const (
	colDrawingName = "desenho"
	colRevision    = "revisão"
	colRevisionAlt = "revisao"
)

// ParseDrawingsXLSX reads drawing rows from the first sheet of an XLSX
// workbook. Row order is preserved: it is the deterministic ingestion order
// revision ordering depends on.
func ParseDrawingsXLSX(data []byte) ([]drawing.Row, error) {
	table, err := firstSheetRows(bytes.NewReader(data))
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceParse, "reading drawings XLSX")
	}
	if len(table) == 0 {
		return nil, derrors.New(derrors.ErrCodeSourceSchema, "drawings XLSX is empty")
	}

	header := table[0]
	nameIdx := columnIndex(header, colDrawingName)
	revIdx := columnIndex(header, colRevision, colRevisionAlt)
	if nameIdx < 0 || revIdx < 0 {
		return nil, derrors.New(derrors.ErrCodeSourceSchema,
			"drawings table must contain the columns 'DESENHO' and 'REVISÃO'").
			WithContext("header", strings.Join(header, ","))
	}

	rows := make([]drawing.Row, 0, len(table)-1)
	for _, record := range table[1:] {
		if nameIdx >= len(record) {
			continue
		}
		row := drawing.Row{Name: strings.TrimSpace(record[nameIdx])}
		if row.Name == "" {
			continue
		}
		if revIdx < len(record) {
			row.Revision = strings.TrimSpace(record[revIdx])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DrawingSource fetches and parses the drawings spreadsheet.
type DrawingSource struct {
	fetcher Fetcher
	url     string
}

// NewDrawingSource wires a drawings loader for the given URL.
func NewDrawingSource(fetcher Fetcher, url string) *DrawingSource {
	return &DrawingSource{fetcher: fetcher, url: url}
}

// Load fetches and parses the current drawings snapshot.
func (s *DrawingSource) Load(ctx context.Context) ([]drawing.Row, error) {
	data, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return ParseDrawingsXLSX(data)
}

// firstSheetRows opens a workbook and returns the cell values of its first
// sheet.
func firstSheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

// columnIndex finds the first header cell matching any of names after
// trimming and lowercasing, or -1.
func columnIndex(header []string, names ...string) int {
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}
