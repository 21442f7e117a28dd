package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidSource indicates a malformed repository URL
	ErrInvalidSource = errors.New("invalid source")

	// ErrSourceUnavailable indicates every candidate branch failed to download or extract
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrUnsafeArchiveEntry indicates an archive entry that escapes the extraction root
	ErrUnsafeArchiveEntry = errors.New("unsafe archive entry")

	// ErrInvalidRoot indicates the scan root is missing or not a directory
	ErrInvalidRoot = errors.New("input path does not exist or is not a directory")

	// ErrFileRead indicates a single file could not be read or decoded.
	// It is recovered inline by the writer and never returned to callers.
	ErrFileRead = errors.New("file read failed")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")
)

// FetchError represents an error during an archive download
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsRetryable checks if a download error should be retried
func IsRetryable(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrRateLimited)
}

// SourceUnavailableError reports that no candidate branch could be acquired.
// Branch and Err describe the last attempt.
type SourceUnavailableError struct {
	URL    string
	Branch string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	msg := fmt.Sprintf("failed to download or extract repo: %s", e.URL)
	switch {
	case e.Branch != "" && e.Err != nil:
		return fmt.Sprintf("%s (last branch %q: %v)", msg, e.Branch, e.Err)
	case e.Branch != "":
		return fmt.Sprintf("%s (last branch %q)", msg, e.Branch)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SourceUnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceUnavailable}
	}
	return []error{ErrSourceUnavailable, e.Err}
}

// UnsafeEntryError names the archive entry that was rejected
type UnsafeEntryError struct {
	Entry string
}

func (e *UnsafeEntryError) Error() string {
	return fmt.Sprintf("bad zip entry: %s", e.Entry)
}

func (e *UnsafeEntryError) Is(target error) bool {
	return target == ErrUnsafeArchiveEntry
}
