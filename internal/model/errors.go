package model

import (
	"fmt"
	"time"
)

// Reasons a RawRecord can fail normalization.
const (
	ReasonMissingURL = "missing_url"
	ReasonInvalidURL = "invalid_url"
)

// NormalizationError reports a RawRecord that could not be canonicalized.
// It is per-record and never fatal: the record is dropped and counted.
type NormalizationError struct {
	Reason string
	Source string
	Title  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s record %q: %s", e.Source, e.Title, e.Reason)
}

// StoreError wraps a seen-store failure. A run aborts on it: without the
// store there is no way to guarantee a duplicate is never emitted.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("seen store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
