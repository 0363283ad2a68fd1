package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marambaia/drawdex/pkg/drawing"
	derrors "github.com/marambaia/drawdex/pkg/errors"
)

func TestParseDrawingsXLSX(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"DESENHO", "REVISÃO"},
		{"M05B-391-PIPING", "0"},
		{"M05B-391-PIPING", "A"},
		{"M07C-112-HULL", "1"},
	})

	rows, err := ParseDrawingsXLSX(data)
	require.NoError(t, err)
	assert.Equal(t, []drawing.Row{
		{Name: "M05B-391-PIPING", Revision: "0"},
		{Name: "M05B-391-PIPING", Revision: "A"},
		{Name: "M07C-112-HULL", Revision: "1"},
	}, rows)
}

func TestParseDrawingsXLSXUnaccentedHeader(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"desenho", "revisao"},
		{"X-1", "2"},
	})

	rows, err := ParseDrawingsXLSX(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].Revision)
}

func TestParseDrawingsXLSXSkipsBlankNames(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"DESENHO", "REVISÃO"},
		{"", "3"},
		{"X-1", ""},
	})

	rows, err := ParseDrawingsXLSX(data)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "X-1", rows[0].Name)
	assert.Equal(t, "", rows[0].Revision)
}

func TestParseDrawingsXLSXMissingColumns(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"DESENHO", "STATUS"},
		{"X-1", "issued"},
	})

	_, err := ParseDrawingsXLSX(data)
	require.Error(t, err)
	assert.True(t, derrors.IsCode(err, derrors.ErrCodeSourceSchema), "got %v", err)
}

func TestDrawingSourceLoad(t *testing.T) {
	workbook := buildWorkbook(t, [][]any{
		{"DESENHO", "REVISÃO"},
		{"M05B-391", "0"},
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(workbook)
	}))
	defer srv.Close()

	src := NewDrawingSource(NewHTTPFetcher(5*time.Second), srv.URL)
	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "M05B-391", rows[0].Name)
}
