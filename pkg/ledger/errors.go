package ledger

import "errors"

// Sentinel errors for ledger operations, checked with errors.Is()
var (
	// ErrPartNotFound indicates no registered part carries the requested ID
	ErrPartNotFound = errors.New("part not found")
)
