package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/report"
)

// ReportRepo stores report snapshots with their data as JSONB. Snapshots
// are insert-only.
type ReportRepo struct{ db *sql.DB }

// NewReportRepo creates a Postgres-backed report repository.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

const reportColumns = `id, ad_account_id, report_type, date_range_start::text, date_range_end::text,
		       data_snapshot, calculated_metrics, insights, insight_source,
		       generation_time_ms, created_at`

func (r *ReportRepo) Create(ctx context.Context, s *domain.ReportSnapshot) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("marshal data snapshot: %w", err)
	}
	calc, err := json.Marshal(s.CalculatedMetrics)
	if err != nil {
		return fmt.Errorf("marshal calculated metrics: %w", err)
	}
	items := s.Insights
	if items == nil {
		items = []domain.Insight{}
	}
	ins, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, ad_account_id, report_type, date_range_start, date_range_end,
			data_snapshot, calculated_metrics, insights, insight_source,
			truncated, generation_time_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, s.ID, s.AdAccountID, s.ReportType, s.DateRangeStart, s.DateRangeEnd,
		data, calc, ins, string(s.InsightSource),
		s.Data.Truncated, s.GenerationTimeMs, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, id string) (*domain.ReportSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	s, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return s, nil
}

func (r *ReportRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReportSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+reportColumns+`
		FROM reports
		WHERE ad_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportSnapshot
	for rows.Next() {
		s, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row scanner) (*domain.ReportSnapshot, error) {
	s := &domain.ReportSnapshot{}
	var data, calc, ins []byte
	var source string
	if err := row.Scan(
		&s.ID, &s.AdAccountID, &s.ReportType, &s.DateRangeStart, &s.DateRangeEnd,
		&data, &calc, &ins, &source,
		&s.GenerationTimeMs, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.InsightSource = domain.InsightSource(source)
	if err := json.Unmarshal(data, &s.Data); err != nil {
		return nil, fmt.Errorf("decode data snapshot: %w", err)
	}
	if len(calc) > 0 {
		if err := json.Unmarshal(calc, &s.CalculatedMetrics); err != nil {
			return nil, fmt.Errorf("decode calculated metrics: %w", err)
		}
	}
	if len(ins) > 0 {
		if err := json.Unmarshal(ins, &s.Insights); err != nil {
			return nil, fmt.Errorf("decode insights: %w", err)
		}
	}
	return s, nil
}
