package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPSource reads the catalog with one GET request.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = hc
	}
}

// NewHTTPSource creates a source for the given URL.
// The default client applies no timeout; the fetch runs to completion or failure.
func NewHTTPSource(rawURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:        rawURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch issues the request and returns the body.
func (s *HTTPSource) Fetch(ctx context.Context) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Payload{}, transportError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Payload{}, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, statusError(resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, transportError(fmt.Errorf("read body: %w", err))
	}

	resource := s.url
	if u, err := url.Parse(s.url); err == nil {
		resource = u.Path
	}
	return Payload{Data: data, Format: formatFor(resp.Header.Get("Content-Type"), resource)}, nil
}

// String identifies the source in logs.
func (s *HTTPSource) String() string { return s.url }
