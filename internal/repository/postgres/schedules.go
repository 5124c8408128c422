package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/schedule"
	"github.com/lib/pq"
)

// ScheduleRepo implements schedule.Repository against PostgreSQL.
type ScheduleRepo struct{ db *sql.DB }

// NewScheduleRepo creates a Postgres-backed schedule repository.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleColumns = `id, ad_account_id, name, frequency, COALESCE(day_of_week,0), COALESCE(day_of_month,0),
		       time_of_day, timezone, date_range_type, recipients, is_active,
		       next_run_at, last_run_at, created_at`

func (r *ScheduleRepo) Create(ctx context.Context, s *domain.ScheduledReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scheduled_reports (
			id, ad_account_id, name, frequency, day_of_week, day_of_month,
			time_of_day, timezone, date_range_type, recipients, is_active,
			next_run_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, s.ID, s.AdAccountID, s.Name, string(s.Frequency), s.DayOfWeek, s.DayOfMonth,
		s.TimeOfDay, s.Timezone, string(s.DateRangeType), pq.Array(s.Recipients), s.IsActive,
		s.NextRunAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert scheduled report: %w", err)
	}
	return nil
}

func (r *ScheduleRepo) Get(ctx context.Context, id string) (*domain.ScheduledReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM scheduled_reports WHERE id = $1`, id)
	s, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, schedule.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scheduled report: %w", err)
	}
	return s, nil
}

func (r *ScheduleRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.ScheduledReport, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+`
		FROM scheduled_reports
		WHERE ad_account_id = $1
		ORDER BY created_at DESC`, accountID)
}

func (r *ScheduleRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledReport, error) {
	return r.list(ctx, `SELECT `+scheduleColumns+`
		FROM scheduled_reports
		WHERE is_active = true AND next_run_at <= $1
		ORDER BY next_run_at ASC
		LIMIT $2`, now, limit)
}

func (r *ScheduleRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.ScheduledReport, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list scheduled reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ScheduledReport
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scheduled report: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSchedule(row scanner) (*domain.ScheduledReport, error) {
	s := &domain.ScheduledReport{}
	var freq, rangeType string
	var lastRun sql.NullTime
	if err := row.Scan(
		&s.ID, &s.AdAccountID, &s.Name, &freq, &s.DayOfWeek, &s.DayOfMonth,
		&s.TimeOfDay, &s.Timezone, &rangeType, pq.Array(&s.Recipients), &s.IsActive,
		&s.NextRunAt, &lastRun, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Frequency = domain.ReportFrequency(freq)
	s.DateRangeType = domain.DateRangeType(rangeType)
	if lastRun.Valid {
		s.LastRunAt = &lastRun.Time
	}
	return s, nil
}

func (r *ScheduleRepo) MarkRun(ctx context.Context, id string, ranAt, nextRunAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_reports
		SET last_run_at = $2, next_run_at = $3, updated_at = NOW()
		WHERE id = $1
	`, id, ranAt, nextRunAt)
	if err != nil {
		return fmt.Errorf("mark scheduled report run: %w", err)
	}
	return requireRow(res, schedule.ErrNotFound)
}

func (r *ScheduleRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_reports SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate scheduled report: %w", err)
	}
	return requireRow(res, schedule.ErrNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
