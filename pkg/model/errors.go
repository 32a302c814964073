package model

import "errors"

var (
	// ErrNotFound is returned for valid requests with no data behind them.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned before any feed call for out of range selectors.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	MinYear = 1950
)

// ValidYear reports whether year is within [1950, currentYear+1].
func ValidYear(year, currentYear int) bool {
	return year >= MinYear && year <= currentYear+1
}
