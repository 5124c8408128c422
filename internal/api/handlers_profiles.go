package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/adlens/internal/pkg/httputil"
	"github.com/ignite/adlens/internal/service/profile"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load profile")
		return
	}
	httputil.OK(w, p)
}

// OnboardProfile creates or resets the profile from onboarding answers.
func (h *Handlers) OnboardProfile(w http.ResponseWriter, r *http.Request) {
	var in profile.OnboardInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	p, err := h.profiles.Onboard(r.Context(), chi.URLParam(r, "accountID"), in)
	if err != nil {
		writeServiceError(w, r, err, "failed to save profile")
		return
	}
	httputil.Created(w, p)
}

// UpdateProfile applies a partial settings save.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in profile.UpdateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	p, err := h.profiles.Update(r.Context(), chi.URLParam(r, "accountID"), in)
	if err != nil {
		writeServiceError(w, r, err, "failed to save profile")
		return
	}
	httputil.OK(w, p)
}
