package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/adlens/internal/pkg/distlock"
	"github.com/ignite/adlens/internal/pkg/httputil"
	"github.com/ignite/adlens/internal/service/schedule"
)

func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	list, err := h.schedules.List(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to list schedules")
		return
	}
	httputil.OK(w, map[string]interface{}{"schedules": list})
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var in schedule.CreateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	s, err := h.schedules.Create(r.Context(), chi.URLParam(r, "accountID"), in)
	if err != nil {
		writeServiceError(w, r, err, "failed to create schedule")
		return
	}
	httputil.Created(w, s)
}

func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.Get(r.Context(), chi.URLParam(r, "scheduleID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load schedule")
		return
	}
	httputil.OK(w, s)
}

// DeactivateSchedule soft-deletes a schedule; delivery history is kept.
func (h *Handlers) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.schedules.Deactivate(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
		writeServiceError(w, r, err, "failed to delete schedule")
		return
	}
	httputil.NoContent(w)
}

func (h *Handlers) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	list, err := h.schedules.Deliveries(r.Context(), chi.URLParam(r, "scheduleID"), queryLimit(r))
	if err != nil {
		writeServiceError(w, r, err, "failed to list deliveries")
		return
	}
	httputil.OK(w, map[string]interface{}{"deliveries": list})
}

// RunScheduledReports handles the cron trigger.
func (h *Handlers) RunScheduledReports(w http.ResponseWriter, r *http.Request) {
	if h.cron == nil {
		httputil.ServiceUnavailable(w, "scheduler_disabled", "scheduled reports are not configured")
		return
	}
	summary, err := h.cron.RunOnce(r.Context())
	if errors.Is(err, distlock.ErrNotAcquired) {
		httputil.ErrorWithCode(w, http.StatusConflict, "already_running", "scheduled reports are already being processed")
		return
	}
	if err != nil {
		httputil.InternalError(w, err, "failed to process scheduled reports")
		return
	}
	httputil.OK(w, summary)
}

// requireBearer rejects requests without "Authorization: Bearer <secret>".
func requireBearer(secret string) func(http.Handler) http.Handler {
	want := []byte("Bearer " + secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(strings.TrimSpace(r.Header.Get("Authorization")))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				httputil.Unauthorized(w, "unauthorized", "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
