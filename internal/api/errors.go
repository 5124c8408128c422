package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/adlens/internal/meta"
	"github.com/ignite/adlens/internal/pkg/httputil"
	"github.com/ignite/adlens/internal/pkg/logger"
	"github.com/ignite/adlens/internal/service/profile"
	"github.com/ignite/adlens/internal/service/report"
	"github.com/ignite/adlens/internal/service/schedule"
)

const (
	codeReconnectRequired   = "reconnect_required"
	codePlatformUnavailable = "platform_unavailable"
)

var (
	badRequestErrors = []error{
		report.ErrInvalidDateRange,
		meta.ErrInvalidQuery,
		profile.ErrInvalidProfile,
		schedule.ErrInvalidFrequency,
		schedule.ErrInvalidRange,
		schedule.ErrInvalidTime,
		schedule.ErrInvalidTimezone,
		schedule.ErrNoRecipients,
		schedule.ErrInvalidDay,
	}
	notFoundErrors = []error{
		report.ErrNotFound,
		report.ErrAccountNotFound,
		profile.ErrNotFound,
		schedule.ErrNotFound,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeServiceError maps a service error onto a status and error code.
// Server-side failures log err and return fallback to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	log := logger.With("request_id", middleware.GetReqID(r.Context()), "path", r.URL.Path)
	switch {
	case meta.IsCredentialError(err):
		log.Warn("credential rejected by Meta", "err", err)
		httputil.Unauthorized(w, codeReconnectRequired,
			"Meta access has expired or been revoked. Reconnect the ad account.")
	case meta.IsPlatformUnavailable(err):
		log.Warn("Meta unavailable", "err", err)
		httputil.ServiceUnavailable(w, codePlatformUnavailable,
			"Meta Ads is temporarily unavailable. Try again shortly.")
	case isAny(err, badRequestErrors):
		httputil.BadRequest(w, err.Error())
	case isAny(err, notFoundErrors):
		httputil.NotFound(w, err.Error())
	default:
		log.Error(fallback, "err", err)
		httputil.InternalError(w, err, fallback)
	}
}
