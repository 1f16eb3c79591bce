package batch

import (
	"errors"
	"fmt"
)

// Sentinel errors for batch-level failures, checked with errors.Is()
var (
	// ErrSourceUnavailable indicates the batch source could not be opened
	ErrSourceUnavailable = errors.New("batch source unavailable")

	// ErrMissingColumns indicates the header row lacks required columns
	ErrMissingColumns = errors.New("batch source missing required columns")
)

// RowErrorKind classifies per-row failures
type RowErrorKind string

const (
	RowErrorMalformed     RowErrorKind = "malformed-value"
	RowErrorMissingColumn RowErrorKind = "missing-column"
	RowErrorUnexpected    RowErrorKind = "unexpected"
)

// RowError describes a failure isolated to one data row. Row numbers
// are 1-based and count the header as row 1, so the first data row
// is row 2.
type RowError struct {
	Row    int
	Kind   RowErrorKind
	Column string
	Detail string
}

func (e *RowError) Error() string {
	switch e.Kind {
	case RowErrorMalformed:
		return fmt.Sprintf("row %d: invalid %s value %s", e.Row, e.Column, e.Detail)
	case RowErrorMissingColumn:
		return fmt.Sprintf("row %d: missing value for column %q", e.Row, e.Column)
	default:
		return fmt.Sprintf("row %d: unexpected error - %s", e.Row, e.Detail)
	}
}
