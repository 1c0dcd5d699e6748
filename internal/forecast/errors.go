package forecast

import "errors"

var (
	// ErrLocationNotFound is returned when the upstream resolves no place for a location.
	ErrLocationNotFound = errors.New("location not found")

	// ErrFetchFailed covers transport failures, non-2xx statuses and malformed payloads.
	ErrFetchFailed = errors.New("forecast fetch failed")
)
