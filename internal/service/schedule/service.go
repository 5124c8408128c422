package schedule

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/report"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultBatchSize caps how many due schedules one RunDue call processes.
const DefaultBatchSize = 50

// Service implements scheduled report management and execution.
type Service struct {
	repo       Repository
	deliveries DeliveryRepository
	accounts   AccountLookup
	reports    ReportGenerator
	deliverer  Deliverer
	batchSize  int
	now        func() time.Time
}

// NewService wires the schedule service.
func NewService(repo Repository, deliveries DeliveryRepository, accounts AccountLookup, reports ReportGenerator, deliverer Deliverer) *Service {
	return &Service{
		repo:       repo,
		deliveries: deliveries,
		accounts:   accounts,
		reports:    reports,
		deliverer:  deliverer,
		batchSize:  DefaultBatchSize,
		now:        time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetBatchSize overrides DefaultBatchSize.
func (s *Service) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// CreateInput holds the fields for creating a schedule.
type CreateInput struct {
	Name          string                 `json:"name"`
	Frequency     domain.ReportFrequency `json:"frequency"`
	DayOfWeek     int                    `json:"dayOfWeek"`
	DayOfMonth    int                    `json:"dayOfMonth"`
	TimeOfDay     string                 `json:"timeOfDay"`
	Timezone      string                 `json:"timezone"`
	DateRangeType domain.DateRangeType   `json:"dateRangeType"`
	Recipients    []string               `json:"recipients"`
}

func (in *CreateInput) normalize() error {
	if !in.Frequency.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, in.Frequency)
	}
	if !in.DateRangeType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRange, in.DateRangeType)
	}
	switch in.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return fmt.Errorf("%w: day_of_week %d", ErrInvalidDay, in.DayOfWeek)
		}
		in.DayOfMonth = 0
	default:
		if in.DayOfMonth < 1 || in.DayOfMonth > 28 {
			return fmt.Errorf("%w: day_of_month %d", ErrInvalidDay, in.DayOfMonth)
		}
		in.DayOfWeek = 0
	}
	if _, _, err := parseTimeOfDay(in.TimeOfDay); err != nil {
		return err
	}
	if in.Timezone == "" {
		in.Timezone = DefaultTimezone
	}
	if _, err := loadLocation(in.Timezone); err != nil {
		return err
	}

	recipients := make([]string, 0, len(in.Recipients))
	for _, r := range in.Recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, err := mail.ParseAddress(r); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", r, err)
		}
		recipients = append(recipients, r)
	}
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	in.Recipients = recipients
	if in.Name == "" {
		in.Name = fmt.Sprintf("%s report", cases.Title(language.AmericanEnglish).String(string(in.Frequency)))
	}
	return nil
}

// Create validates and persists a new active schedule.
func (s *Service) Create(ctx context.Context, accountID string, in CreateInput) (*domain.ScheduledReport, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}

	now := s.now()
	sched := &domain.ScheduledReport{
		ID:            uuid.New().String(),
		AdAccountID:   accountID,
		Name:          in.Name,
		Frequency:     in.Frequency,
		DayOfWeek:     in.DayOfWeek,
		DayOfMonth:    in.DayOfMonth,
		TimeOfDay:     in.TimeOfDay,
		Timezone:      in.Timezone,
		DateRangeType: in.DateRangeType,
		Recipients:    in.Recipients,
		IsActive:      true,
		CreatedAt:     now,
	}
	next, err := NextRun(sched, now)
	if err != nil {
		return nil, err
	}
	sched.NextRunAt = next

	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	log.Printf("[schedule.Service] Created %s schedule %s for account %s, next run %s",
		sched.Frequency, sched.ID, accountID, next.Format(time.RFC3339))
	return sched, nil
}

// Get returns one schedule.
func (s *Service) Get(ctx context.Context, id string) (*domain.ScheduledReport, error) {
	return s.repo.Get(ctx, id)
}

// List returns an account's schedules.
func (s *Service) List(ctx context.Context, accountID string) ([]domain.ScheduledReport, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

// Deactivate stops a schedule.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

// Deliveries returns the most recent delivery log entries of a schedule.
func (s *Service) Deliveries(ctx context.Context, scheduleID string, limit int) ([]domain.ReportDelivery, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.deliveries.ListBySchedule(ctx, scheduleID, limit)
}

// RunResult is the outcome of one due schedule.
type RunResult struct {
	ScheduleID string                `json:"scheduleId"`
	Status     domain.DeliveryStatus `json:"status"`
	ReportID   string                `json:"reportId,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// RunSummary is returned by RunDue.
type RunSummary struct {
	Processed int         `json:"processed"`
	Results   []RunResult `json:"results"`
}

// RunDue generates and delivers every schedule whose next run has passed.
// A failing schedule is logged and advanced; it never stops the batch.
func (s *Service) RunDue(ctx context.Context) (*RunSummary, error) {
	now := s.now()
	due, err := s.repo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	if len(due) > 0 {
		log.Printf("[schedule.Service] Found %d reports due for delivery", len(due))
	}

	summary := &RunSummary{Results: make([]RunResult, 0, len(due))}
	for i := range due {
		if ctx.Err() != nil {
			break
		}
		summary.Results = append(summary.Results, s.runOne(ctx, &due[i], now))
		summary.Processed++
	}
	return summary, nil
}

func (s *Service) runOne(ctx context.Context, sched *domain.ScheduledReport, now time.Time) RunResult {
	result := RunResult{ScheduleID: sched.ID, Status: domain.DeliverySuccess}
	snap, err := s.generateAndDeliver(ctx, sched, now)
	if snap != nil {
		result.ReportID = snap.ID
	}

	delivery := &domain.ReportDelivery{
		ID:                uuid.New().String(),
		ScheduledReportID: sched.ID,
		Status:            domain.DeliverySuccess,
		Recipients:        sched.Recipients,
		DeliveredAt:       s.now(),
	}
	if snap != nil {
		id := snap.ID
		delivery.ReportID = &id
	}
	if err != nil {
		log.Printf("[schedule.Service] Error processing schedule %s: %v", sched.ID, err)
		result.Status = domain.DeliveryFailed
		result.Error = err.Error()
		delivery.Status = domain.DeliveryFailed
		delivery.ErrorMessage = err.Error()
	}
	if derr := s.deliveries.Create(ctx, delivery); derr != nil {
		log.Printf("[schedule.Service] Failed to log delivery for schedule %s: %v", sched.ID, derr)
	}

	next, aerr := Advance(sched, sched.NextRunAt, now)
	if aerr != nil {
		log.Printf("[schedule.Service] Cannot advance schedule %s: %v", sched.ID, aerr)
		return result
	}
	if merr := s.repo.MarkRun(ctx, sched.ID, now, next); merr != nil {
		log.Printf("[schedule.Service] Failed to advance schedule %s: %v", sched.ID, merr)
	}
	return result
}

func (s *Service) generateAndDeliver(ctx context.Context, sched *domain.ScheduledReport, now time.Time) (*domain.ReportSnapshot, error) {
	start, end, err := DateRange(sched.DateRangeType, now, sched.Timezone)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.Get(ctx, sched.AdAccountID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	snap, err := s.reports.Generate(ctx, report.GenerateInput{
		AccountID:      sched.AdAccountID,
		DateRangeStart: start,
		DateRangeEnd:   end,
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}
	if err := s.deliverer.Deliver(ctx, Delivery{Schedule: sched, Account: account, Report: snap}); err != nil {
		return snap, fmt.Errorf("deliver report: %w", err)
	}
	return snap, nil
}
