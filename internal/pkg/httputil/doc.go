// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Handlers write every body through these helpers so that successes and
// errors share one JSON envelope. Machine-readable error codes such as
// "reconnect_required" travel in ErrorResponse.Code.
package httputil
