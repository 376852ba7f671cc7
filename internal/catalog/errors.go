package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the catalog returned no result for an id.
	ErrNotFound = errors.New("app not found in catalog")
	// ErrInvalidResponse indicates a payload that could not be decoded.
	ErrInvalidResponse = errors.New("invalid catalog response")
	// ErrRateLimited indicates the catalog refused the request (HTTP 403).
	ErrRateLimited = errors.New("catalog rate limit exceeded")
	// ErrBadRequest indicates the catalog rejected the request (HTTP 400).
	ErrBadRequest = errors.New("bad catalog request")
)

// StatusError carries an HTTP status that has no dedicated sentinel.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	if e.IsServerError() {
		return fmt.Sprintf("catalog server error (HTTP %d)", e.Code)
	}
	return fmt.Sprintf("unexpected catalog status (HTTP %d)", e.Code)
}

// IsServerError reports a 5xx status.
func (e *StatusError) IsServerError() bool {
	return e.Code >= 500 && e.Code <= 599
}

// NetworkError wraps a transport failure: DNS, connection, TLS or timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// statusErr maps a non-200 status to the error taxonomy.
func statusErr(code int) error {
	switch code {
	case 400:
		return ErrBadRequest
	case 403:
		return ErrRateLimited
	case 404:
		return ErrNotFound
	}
	return &StatusError{Code: code}
}
