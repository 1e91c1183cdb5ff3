package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// RequestError is returned for any request that did not produce a 2xx response.
// StatusCode is zero when the server was never reached.
type RequestError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

type HTTPRequestImpl struct {
	client  *http.Client
	headers HeaderProvider
}

func NewHTTPRequest(timeout time.Duration, headers HeaderProvider) *HTTPRequestImpl {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPRequestImpl{
		client:  &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// Get issues a single GET with a fresh header set. No retries: the caller decides what a failure means.
func (s *HTTPRequestImpl) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{URL: url, Cause: fmt.Errorf("failed to create request: %w", err)}
	}

	if s.headers != nil {
		for key, values := range s.headers.Headers() {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &RequestError{URL: url, Cause: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, &RequestError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status: %s", resp.Status),
		}
	}

	return resp, nil
}
