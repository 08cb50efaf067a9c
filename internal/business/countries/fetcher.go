package countries

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher abstracts how provider documents are fetched so the source can be tested without network calls.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher fetches JSON documents over HTTP.
type HTTPFetcher struct {
	client HTTPClient
}

// NewHTTPFetcher creates a fetcher. A nil client gets a default with the given timeout.
func NewHTTPFetcher(client HTTPClient, timeout time.Duration) *HTTPFetcher {
	if client == nil {
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &UpstreamError{URL: url, Status: resp.StatusCode}
	}
	return resp.Body, nil
}
