package countries

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a record that cannot be aggregated (blank name, negative population).
	ErrInvalidInput = errors.New("invalid country input")
	// ErrNotFound is returned when the provider has no country matching a name search.
	ErrNotFound = errors.New("no countries match the search")
	// ErrEmptyQuery is returned for a blank search term.
	ErrEmptyQuery = errors.New("search term is empty")
	// ErrSuperseded is returned when a newer search from the same client cancelled this one.
	ErrSuperseded = errors.New("request superseded by a newer search")
)

// InvalidInputError identifies the offending record. It unwraps to ErrInvalidInput.
type InvalidInputError struct {
	Index  int
	Name   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid country input at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid country input at index %d (%s): %s", e.Index, e.Name, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// UpstreamError is a non-200 answer from the country data provider.
type UpstreamError struct {
	URL    string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Status, e.URL)
}

var (
	// ErrReportNotFound is returned by report stores for an unknown report ID.
	ErrReportNotFound = errors.New("report not found")
	// ErrHistoryDisabled is returned when no report store is configured.
	ErrHistoryDisabled = errors.New("report history is disabled")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
