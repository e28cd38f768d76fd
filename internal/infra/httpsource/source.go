package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"question-bank/internal/domain"
	"question-bank/internal/normalize"
)

// ExampleName is the source name recorded for the bundled example collection.
const ExampleName = "example-questions"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 32 << 20

// Source fetches a collection from a fixed URL.
type Source struct {
	name   string
	url    string
	client *http.Client
}

// NewExampleSource fetches the example resource at url.
func NewExampleSource(url string) *Source {
	return NewSource(ExampleName, url, nil)
}

// NewSource fetches url with client; a nil client gets a 15s timeout.
func NewSource(name, url string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Source{name: name, url: url, client: client}
}

func (s *Source) Name() string { return s.name }

// Fetch fails with domain.ErrFetch on transport errors and non-2xx statuses.
// A body that is not a JSON array fails with both domain.ErrFetch and
// domain.ErrParse.
func (s *Source) Fetch(ctx context.Context) ([]normalize.RawQuestion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d loading %s", domain.ErrFetch, resp.StatusCode, s.name)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetch, err)
	}
	raws, err := normalize.ParseCollection(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	return raws, nil
}
