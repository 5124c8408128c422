package schedule

import (
	"context"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/report"
)

// Repository defines the data access contract for scheduled reports.
type Repository interface {
	// Create inserts a new schedule.
	Create(ctx context.Context, s *domain.ScheduledReport) error

	// Get returns one schedule. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.ScheduledReport, error)

	// ListByAccount returns an account's schedules, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]domain.ScheduledReport, error)

	// ListDue returns active schedules with next_run_at <= now.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledReport, error)

	// MarkRun records a completed run and the next run time.
	MarkRun(ctx context.Context, id string, ranAt, nextRunAt time.Time) error

	// Deactivate stops a schedule from running again.
	Deactivate(ctx context.Context, id string) error
}

// DeliveryRepository records the outcome of each scheduled run.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.ReportDelivery) error
	ListBySchedule(ctx context.Context, scheduleID string, limit int) ([]domain.ReportDelivery, error)
}

// AccountLookup resolves the ad account a schedule belongs to.
type AccountLookup interface {
	Get(ctx context.Context, id string) (*domain.AdAccount, error)
}

// ReportGenerator builds and persists a report snapshot.
type ReportGenerator interface {
	Generate(ctx context.Context, in report.GenerateInput) (*domain.ReportSnapshot, error)
}

// Delivery is everything a Deliverer needs to send one report.
type Delivery struct {
	Schedule *domain.ScheduledReport
	Account  *domain.AdAccount
	Report   *domain.ReportSnapshot
}

// Deliverer sends a generated report to the schedule's recipients.
type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}
