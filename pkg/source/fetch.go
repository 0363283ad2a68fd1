// Package source loads the whitelist and drawings spreadsheets from their
// published URLs and parses them into typed rows. All schema validation
// happens here, at the load boundary; the core packages only ever see
// well-formed rows.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	derrors "github.com/marambaia/drawdex/pkg/errors"
)

// maxBodyBytes caps a spreadsheet download; the published tables are a few
// hundred KB at most.
const maxBodyBytes = 32 << 20

// Fetcher retrieves a published spreadsheet snapshot.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches snapshots with a plain GET.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch performs a GET and returns the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceFetch, "building request").
			WithContext("url", url)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceFetch, "fetching snapshot").
			WithContext("url", url).
			WithRetryable(true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, derrors.New(derrors.ErrCodeSourceFetch,
			fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithContext("url", url).
			WithRetryable(resp.StatusCode >= 500)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, derrors.Wrap(err, derrors.ErrCodeSourceFetch, "reading body").
			WithContext("url", url).
			WithRetryable(true)
	}
	return body, nil
}
