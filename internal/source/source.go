// Package source retrieves raw documents for a ticker from external
// providers and normalizes each provider's payload into model.Document
// at the boundary, so provider-shape drift stays out of the pipeline.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/cognivest/cognivest/internal/model"
)

// Fetcher produces zero or more documents for a ticker. A fetch error is
// returned as-is; the ingest orchestrator downgrades it to an empty
// result so one unreachable provider never aborts a run.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, ticker string) ([]model.Document, error)
}

func getJSON(ctx context.Context, client *http.Client, url, userAgent string, decode func([]byte) error) error {
	body, err := getBytes(ctx, client, url, userAgent)
	if err != nil {
		return err
	}
	return decode(body)
}

func getBytes(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}
