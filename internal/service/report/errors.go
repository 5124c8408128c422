package report

import "errors"

// Sentinel errors for the report service layer.
var (
	ErrNotFound         = errors.New("report not found")
	ErrAccountNotFound  = errors.New("ad account not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrPersistence      = errors.New("failed to save report")
)
