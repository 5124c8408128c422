package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/service/report"
)

// AccountRepo reads connected ad accounts. Access tokens are stored already
// decrypted by the auth layer that writes this table.
type AccountRepo struct{ db *sql.DB }

// NewAccountRepo creates a Postgres-backed account repository.
func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) Get(ctx context.Context, id string) (*domain.AdAccount, error) {
	a := &domain.AdAccount{}
	var expires, synced sql.NullTime
	var model string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, platform_account_id, name, COALESCE(currency,''),
		       COALESCE(timezone,''), COALESCE(industry,''), COALESCE(business_model,''),
		       COALESCE(primary_goal,''), access_token, token_expires_at, last_synced_at, created_at
		FROM ad_accounts
		WHERE id = $1
	`, id).Scan(
		&a.ID, &a.UserID, &a.PlatformAccountID, &a.Name, &a.Currency,
		&a.Timezone, &a.Industry, &model,
		&a.PrimaryGoal, &a.AccessToken, &expires, &synced, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, report.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ad account: %w", err)
	}
	a.BusinessModel = domain.BusinessModel(model)
	if expires.Valid {
		a.TokenExpiresAt = &expires.Time
	}
	if synced.Valid {
		a.LastSyncedAt = &synced.Time
	}
	return a, nil
}

func (r *AccountRepo) TouchLastSynced(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ad_accounts SET last_synced_at = $2, updated_at = NOW() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("touch last_synced_at: %w", err)
	}
	return nil
}
