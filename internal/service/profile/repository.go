package profile

import (
	"context"

	"github.com/ignite/adlens/internal/domain"
)

// Repository persists one profile per ad account.
type Repository interface {
	// Get returns the account's profile. Returns ErrNotFound if none exists.
	Get(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error)

	// Upsert writes the full profile, replacing any previous row.
	Upsert(ctx context.Context, p *domain.ProfitabilityProfile) error
}

// AccountLookup confirms the ad account exists.
type AccountLookup interface {
	Get(ctx context.Context, id string) (*domain.AdAccount, error)
}
