package giphy

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingAPIKey     = errors.New("no API key configured (set GIFR_API_KEY or api.key)")
	ErrMalformedResponse = errors.New("malformed search response")
	ErrEmptyQuery        = errors.New("empty search query")
)

// HTTPError is returned for any non-2xx reply.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected HTTP status: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("unexpected HTTP status: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.StatusCode)
}
