package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamFetch covers network, HTTP status, rate limit and circuit breaker failures
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrMalformedResponse is returned when the upstream document cannot be decoded or validated
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// ResponseError describes an upstream response that could not be used.
// Body holds the raw payload so it can be logged.
type ResponseError struct {
	Kind       error // ErrUpstreamFetch or ErrMalformedResponse
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ResponseError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: status %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ResponseError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// RawBody returns the upstream payload attached to err, if any
func RawBody(err error) ([]byte, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) && len(respErr.Body) > 0 {
		return respErr.Body, true
	}
	return nil, false
}
