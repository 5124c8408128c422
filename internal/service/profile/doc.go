// Package profile owns each ad account's profitability profile: the unit
// economics a user enters at onboarding or on the settings page and the
// break-even and target thresholds derived from them.
package profile
