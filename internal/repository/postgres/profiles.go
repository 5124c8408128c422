package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/profile"
)

// ProfileRepo implements profile.Repository against PostgreSQL.
type ProfileRepo struct{ db *sql.DB }

// NewProfileRepo creates a Postgres-backed profile repository.
func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Get(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error) {
	p := &domain.ProfitabilityProfile{}
	var freq string
	err := r.db.QueryRowContext(ctx, `
		SELECT ad_account_id, average_order_value, profit_margin, has_repeat_purchases,
		       COALESCE(repeat_purchase_frequency,'none'), break_even_cpa, minimum_roas,
		       target_cpa, target_roas, ltv_multiplier, target_cpa_overridden,
		       target_roas_overridden, updated_at
		FROM profitability_profiles
		WHERE ad_account_id = $1
	`, accountID).Scan(
		&p.AdAccountID, &p.AverageOrderValue, &p.ProfitMargin, &p.HasRepeatPurchases,
		&freq, &p.BreakEvenCPA, &p.MinimumROAS,
		&p.TargetCPA, &p.TargetROAS, &p.LTVMultiplier, &p.TargetCPAOverridden,
		&p.TargetROASOverridden, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.RepeatPurchaseFrequency = domain.RepeatFrequency(freq)
	return p, nil
}

func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.ProfitabilityProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profitability_profiles (
			ad_account_id, average_order_value, profit_margin, has_repeat_purchases,
			repeat_purchase_frequency, break_even_cpa, minimum_roas, target_cpa,
			target_roas, ltv_multiplier, target_cpa_overridden, target_roas_overridden,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (ad_account_id) DO UPDATE SET
			average_order_value = EXCLUDED.average_order_value,
			profit_margin = EXCLUDED.profit_margin,
			has_repeat_purchases = EXCLUDED.has_repeat_purchases,
			repeat_purchase_frequency = EXCLUDED.repeat_purchase_frequency,
			break_even_cpa = EXCLUDED.break_even_cpa,
			minimum_roas = EXCLUDED.minimum_roas,
			target_cpa = EXCLUDED.target_cpa,
			target_roas = EXCLUDED.target_roas,
			ltv_multiplier = EXCLUDED.ltv_multiplier,
			target_cpa_overridden = EXCLUDED.target_cpa_overridden,
			target_roas_overridden = EXCLUDED.target_roas_overridden,
			updated_at = EXCLUDED.updated_at
	`, p.AdAccountID, p.AverageOrderValue, p.ProfitMargin, p.HasRepeatPurchases,
		string(p.RepeatPurchaseFrequency), p.BreakEvenCPA, p.MinimumROAS, p.TargetCPA,
		p.TargetROAS, p.LTVMultiplier, p.TargetCPAOverridden, p.TargetROASOverridden, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
