package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/adlens/internal/domain"
	"github.com/lib/pq"
)

// DeliveryRepo logs scheduled report runs.
type DeliveryRepo struct{ db *sql.DB }

// NewDeliveryRepo creates a Postgres-backed delivery log.
func NewDeliveryRepo(db *sql.DB) *DeliveryRepo { return &DeliveryRepo{db: db} }

func (r *DeliveryRepo) Create(ctx context.Context, d *domain.ReportDelivery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_deliveries (
			id, scheduled_report_id, report_id, status, error_message, recipients, delivered_at
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	`, d.ID, d.ScheduledReportID, d.ReportID, string(d.Status), d.ErrorMessage,
		pq.Array(d.Recipients), d.DeliveredAt)
	if err != nil {
		return fmt.Errorf("insert report delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepo) ListBySchedule(ctx context.Context, scheduleID string, limit int) ([]domain.ReportDelivery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scheduled_report_id, report_id, status, COALESCE(error_message,''),
		       recipients, delivered_at
		FROM report_deliveries
		WHERE scheduled_report_id = $1
		ORDER BY delivered_at DESC
		LIMIT $2
	`, scheduleID, limit)
	if err != nil {
		return nil, fmt.Errorf("list report deliveries: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportDelivery
	for rows.Next() {
		var d domain.ReportDelivery
		var reportID sql.NullString
		var status string
		if err := rows.Scan(&d.ID, &d.ScheduledReportID, &reportID, &status, &d.ErrorMessage,
			pq.Array(&d.Recipients), &d.DeliveredAt); err != nil {
			return nil, fmt.Errorf("scan report delivery: %w", err)
		}
		d.Status = domain.DeliveryStatus(status)
		if reportID.Valid {
			id := reportID.String
			d.ReportID = &id
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
