// Package meta is a typed client for the Meta Graph insights API.
//
// It issues field-selected, cursor-paginated insight requests at account,
// campaign, adset and ad level and reduces the platform's action lists into
// the canonical domain.InsightRow. Credential problems surface as
// *CredentialError so callers can start a reconnect flow; every other
// failure is a *PlatformUnavailableError.
package meta
