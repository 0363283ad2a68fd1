package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	derrors "github.com/marambaia/drawdex/pkg/errors"
	"github.com/marambaia/drawdex/pkg/whitelist"
)

// Whitelist column names as they appear in the published spreadsheet.
const (
	colIdentifier  = "matricula"
	colDisplayName = "nome"
	colRole        = "funcao"
)

// ParseWhitelistCSV reads whitelist rows from CSV data. The header row is
// matched case-insensitively after trimming; the three required columns
// must all be present. Rows too short to cover the required columns are
// skipped.
func ParseWhitelistCSV(r io.Reader) ([]whitelist.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceParse, "reading whitelist CSV")
	}
	if len(records) == 0 {
		return nil, derrors.New(derrors.ErrCodeSourceSchema, "whitelist CSV is empty")
	}
	return whitelistRowsFromTable(records)
}

// ParseWhitelistXLSX reads whitelist rows from the first sheet of an XLSX
// workbook, with the same header rule as the CSV form.
func ParseWhitelistXLSX(data []byte) ([]whitelist.Row, error) {
	table, err := firstSheetRows(bytes.NewReader(data))
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceParse, "reading whitelist XLSX")
	}
	if len(table) == 0 {
		return nil, derrors.New(derrors.ErrCodeSourceSchema, "whitelist XLSX is empty")
	}
	return whitelistRowsFromTable(table)
}

func whitelistRowsFromTable(table [][]string) ([]whitelist.Row, error) {
	header := table[0]
	idIdx := columnIndex(header, colIdentifier)
	nameIdx := columnIndex(header, colDisplayName)
	roleIdx := columnIndex(header, colRole)
	if idIdx < 0 || nameIdx < 0 || roleIdx < 0 {
		return nil, derrors.New(derrors.ErrCodeSourceSchema,
			"whitelist must contain the columns 'matricula', 'nome' and 'funcao'").
			WithContext("header", strings.Join(header, ","))
	}

	rows := make([]whitelist.Row, 0, len(table)-1)
	for _, record := range table[1:] {
		if idIdx >= len(record) {
			continue
		}
		row := whitelist.Row{Identifier: record[idIdx]}
		if nameIdx < len(record) {
			row.DisplayName = record[nameIdx]
		}
		if roleIdx < len(record) {
			row.Role = record[roleIdx]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WhitelistSource fetches and parses the whitelist spreadsheet.
type WhitelistSource struct {
	fetcher Fetcher
	url     string
	format  string // "csv" or "xlsx"
}

// NewWhitelistSource wires a whitelist loader for the given URL and format.
func NewWhitelistSource(fetcher Fetcher, url, format string) *WhitelistSource {
	return &WhitelistSource{fetcher: fetcher, url: url, format: format}
}

// Load fetches the current snapshot and builds the normalized whitelist
// mapping from it.
func (s *WhitelistSource) Load(ctx context.Context) (whitelist.Snapshot, error) {
	data, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}

	var rows []whitelist.Row
	switch s.format {
	case "xlsx":
		rows, err = ParseWhitelistXLSX(data)
	default:
		rows, err = ParseWhitelistCSV(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	return whitelist.BuildSnapshot(rows), nil
}
