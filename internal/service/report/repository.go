package report

import (
	"context"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/insights"
	"github.com/ignite/adlens/internal/meta"
	"golang.org/x/oauth2"
)

// Repository persists report snapshots. Snapshots are insert-only.
type Repository interface {
	// Create inserts a new snapshot.
	Create(ctx context.Context, r *domain.ReportSnapshot) error

	// Get returns a snapshot. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.ReportSnapshot, error)

	// ListByAccount returns an account's most recent snapshots.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReportSnapshot, error)
}

// AccountRepository loads connected ad accounts and their credentials.
type AccountRepository interface {
	// Get returns an account. Returns ErrAccountNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.AdAccount, error)

	// TouchLastSynced records a successful platform fetch.
	TouchLastSynced(ctx context.Context, id string, at time.Time) error
}

// ProfileRepository loads the account's profitability profile.
type ProfileRepository interface {
	Get(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error)
}

// InsightsFetcher is the ad-platform client.
type InsightsFetcher interface {
	GetInsights(ctx context.Context, token *oauth2.Token, accountID string, q meta.Query) (*meta.InsightsResult, error)
	ListAdAccounts(ctx context.Context, token *oauth2.Token) (*meta.AccountsResult, error)
}

// InsightGenerator produces narrative insights. It never fails.
type InsightGenerator interface {
	Generate(ctx context.Context, c insights.AnalysisContext) insights.Result
}

// Exporter copies a persisted snapshot somewhere else.
type Exporter interface {
	Export(ctx context.Context, r *domain.ReportSnapshot) (string, error)
}

// Archive reads snapshots back from export storage.
type Archive interface {
	Load(ctx context.Context, accountID, reportID string) (*domain.ReportSnapshot, error)
}

// Observer records generation outcomes.
type Observer interface {
	ObserveReport(outcome string, elapsed time.Duration)
}
