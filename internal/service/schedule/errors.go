package schedule

import "errors"

// Sentinel errors for the schedule service layer.
var (
	ErrNotFound         = errors.New("scheduled report not found")
	ErrInvalidFrequency = errors.New("invalid report frequency")
	ErrInvalidRange     = errors.New("invalid date range type")
	ErrInvalidTime      = errors.New("time of day must be HH:MM")
	ErrInvalidTimezone  = errors.New("unknown timezone")
	ErrNoRecipients     = errors.New("at least one recipient is required")
	ErrInvalidDay       = errors.New("invalid day for frequency")
)
