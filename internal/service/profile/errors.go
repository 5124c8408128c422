package profile

import "errors"

// Sentinel errors for the profile service layer.
var (
	ErrNotFound       = errors.New("profitability profile not found")
	ErrInvalidProfile = errors.New("invalid profitability profile")
)
