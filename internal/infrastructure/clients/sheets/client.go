// Package sheets retrieves published-spreadsheet tabs exported as CSV.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/clinicops/leakwatch/internal/domain/entities"
	apperrors "github.com/clinicops/leakwatch/pkg/errors"
	"github.com/clinicops/leakwatch/pkg/retry"
)

// Client fetches one raw table per published CSV URL
type Client interface {
	FetchTable(ctx context.Context, name, url string) (*entities.RawTable, error)
}

// HTTPClient implements Client over plain HTTP with retry
type HTTPClient struct {
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewClient creates a sheets client with sane timeouts
func NewClient() *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retryCfg: retry.DefaultConfig(),
	}
}

// FetchTable downloads and parses one CSV tab. The first row is the
// header; remaining rows are kept as raw string cells. A payload that does
// not parse as CSV at all is an external error, which aborts the report.
func (c *HTTPClient) FetchTable(ctx context.Context, name, url string) (*entities.RawTable, error) {
	if url == "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("no source URL configured for table %s", name))
	}

	var rows [][]string
	err := retry.Do(ctx, c.retryCfg, func() error {
		var fetchErr error
		rows, fetchErr = c.fetchCSV(ctx, url)
		return fetchErr
	})
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to fetch table %s", name), err)
	}

	if len(rows) == 0 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("table %s: source returned no rows", name), nil)
	}

	return &entities.RawTable{
		Name:    name,
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}

func (c *HTTPClient) fetchCSV(ctx context.Context, url string) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.TrimLeadingSpace = true
	// Hand-edited sheets produce ragged rows; keep them and let the
	// normalizer treat missing cells as empty.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("payload is not valid CSV: %w", err)
	}
	return rows, nil
}
