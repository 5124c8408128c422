package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/meta"
	"github.com/ignite/adlens/internal/pkg/httputil"
	"github.com/ignite/adlens/internal/service/profile"
	"github.com/ignite/adlens/internal/service/report"
	"github.com/ignite/adlens/internal/service/schedule"
)

// ReportService is implemented by *report.Service.
type ReportService interface {
	Generate(ctx context.Context, in report.GenerateInput) (*domain.ReportSnapshot, error)
	Get(ctx context.Context, id string) (*domain.ReportSnapshot, error)
	GetForAccount(ctx context.Context, accountID, id string) (*domain.ReportSnapshot, error)
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReportSnapshot, error)
	Reanalyze(ctx context.Context, id string) (*domain.FunnelAnalysis, error)
	PlatformAccounts(ctx context.Context, accountID string) (*meta.AccountsResult, error)
}

// ProfileService is implemented by *profile.Service.
type ProfileService interface {
	Get(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error)
	Onboard(ctx context.Context, accountID string, in profile.OnboardInput) (*domain.ProfitabilityProfile, error)
	Update(ctx context.Context, accountID string, in profile.UpdateInput) (*domain.ProfitabilityProfile, error)
}

// ScheduleService is implemented by *schedule.Service.
type ScheduleService interface {
	Create(ctx context.Context, accountID string, in schedule.CreateInput) (*domain.ScheduledReport, error)
	Get(ctx context.Context, id string) (*domain.ScheduledReport, error)
	List(ctx context.Context, accountID string) ([]domain.ScheduledReport, error)
	Deactivate(ctx context.Context, id string) error
	Deliveries(ctx context.Context, scheduleID string, limit int) ([]domain.ReportDelivery, error)
}

// DueRunner runs one pass over due schedules. The worker's
// ReportScheduler.RunOnce satisfies it and serializes passes across
// processes.
type DueRunner interface {
	RunOnce(ctx context.Context) (*schedule.RunSummary, error)
}

// Pinger checks a backing store for the health endpoint.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers holds the HTTP handlers and their services.
type Handlers struct {
	reports   ReportService
	profiles  ProfileService
	schedules ScheduleService
	cron      DueRunner
	db        Pinger
	now       func() time.Time
}

// NewHandlers creates handlers. cron and db may be nil.
func NewHandlers(reports ReportService, profiles ProfileService, schedules ScheduleService, cron DueRunner, db Pinger) *Handlers {
	return &Handlers{
		reports:   reports,
		profiles:  profiles,
		schedules: schedules,
		cron:      cron,
		db:        db,
		now:       time.Now,
	}
}

// HealthCheck reports liveness and database reachability.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	httputil.JSON(w, code, map[string]interface{}{
		"status":    status,
		"timestamp": h.now().UTC(),
	})
}

func queryLimit(r *http.Request) int {
	n, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return n
}
