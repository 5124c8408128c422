package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/adlens/internal/pkg/httputil"
	"github.com/ignite/adlens/internal/service/report"
)

// GenerateReport handles POST /api/ad-accounts/{accountID}/reports.
func (h *Handlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var in report.GenerateInput
	if !httputil.Decode(w, r, &in) {
		return
	}
	in.AccountID = chi.URLParam(r, "accountID")

	snap, err := h.reports.Generate(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "failed to generate report")
		return
	}
	httputil.Created(w, snap)
}

// ListReports handles GET /api/ad-accounts/{accountID}/reports.
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListByAccount(r.Context(), chi.URLParam(r, "accountID"), queryLimit(r))
	if err != nil {
		writeServiceError(w, r, err, "failed to list reports")
		return
	}
	httputil.OK(w, map[string]interface{}{"reports": reports})
}

// GetReport handles GET /api/reports/{reportID}.
func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reports.Get(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load report")
		return
	}
	httputil.OK(w, snap)
}

// GetAccountReport handles GET /api/ad-accounts/{accountID}/reports/{reportID}.
func (h *Handlers) GetAccountReport(w http.ResponseWriter, r *http.Request) {
	snap, err := h.reports.GetForAccount(r.Context(), chi.URLParam(r, "accountID"), chi.URLParam(r, "reportID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to load report")
		return
	}
	httputil.OK(w, snap)
}

// GetReportAnalysis handles GET /api/reports/{reportID}/analysis.
func (h *Handlers) GetReportAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.reports.Reanalyze(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to analyze report")
		return
	}
	httputil.OK(w, analysis)
}

// ListPlatformAccounts handles GET /api/ad-accounts/{accountID}/platform-accounts.
func (h *Handlers) ListPlatformAccounts(w http.ResponseWriter, r *http.Request) {
	res, err := h.reports.PlatformAccounts(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeServiceError(w, r, err, "failed to list ad accounts")
		return
	}
	httputil.OK(w, res)
}
