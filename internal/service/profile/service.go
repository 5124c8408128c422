package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
)

// Service implements profile onboarding and settings updates.
type Service struct {
	repo     Repository
	accounts AccountLookup
	now      func() time.Time
}

// NewService creates a profile service.
func NewService(repo Repository, accounts AccountLookup) *Service {
	return &Service{repo: repo, accounts: accounts, now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get returns the account's profile.
func (s *Service) Get(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error) {
	return s.repo.Get(ctx, accountID)
}

// OnboardInput is the unit economics collected during onboarding.
type OnboardInput struct {
	AverageOrderValue       float64                `json:"averageOrderValue"`
	ProfitMargin            float64                `json:"profitMargin"`
	HasRepeatPurchases      bool                   `json:"hasRepeatPurchases"`
	RepeatPurchaseFrequency domain.RepeatFrequency `json:"repeatPurchaseFrequency"`
}

// Onboard creates (or resets) a profile with fully derived targets.
func (s *Service) Onboard(ctx context.Context, accountID string, in OnboardInput) (*domain.ProfitabilityProfile, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	p := &domain.ProfitabilityProfile{
		AdAccountID:             accountID,
		AverageOrderValue:       in.AverageOrderValue,
		ProfitMargin:            in.ProfitMargin,
		HasRepeatPurchases:      in.HasRepeatPurchases,
		RepeatPurchaseFrequency: in.RepeatPurchaseFrequency,
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// UpdateInput holds a settings-page save. Nil fields keep their stored
// value. Supplying a target marks that target as user overridden;
// ClearTargetOverrides goes back to derived targets for both.
type UpdateInput struct {
	AverageOrderValue       *float64                `json:"averageOrderValue,omitempty"`
	ProfitMargin            *float64                `json:"profitMargin,omitempty"`
	HasRepeatPurchases      *bool                   `json:"hasRepeatPurchases,omitempty"`
	RepeatPurchaseFrequency *domain.RepeatFrequency `json:"repeatPurchaseFrequency,omitempty"`
	TargetCPA               *float64                `json:"targetCPA,omitempty"`
	TargetROAS              *float64                `json:"targetROAS,omitempty"`
	ClearTargetOverrides    bool                    `json:"clearTargetOverrides,omitempty"`
}

// Update applies a settings save. Break-even CPA and minimum ROAS are
// always recomputed from AOV and margin.
func (s *Service) Update(ctx context.Context, accountID string, in UpdateInput) (*domain.ProfitabilityProfile, error) {
	if _, err := s.accounts.Get(ctx, accountID); err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, accountID)
	if errors.Is(err, ErrNotFound) {
		p = &domain.ProfitabilityProfile{AdAccountID: accountID}
	} else if err != nil {
		return nil, err
	}

	if in.AverageOrderValue != nil {
		p.AverageOrderValue = *in.AverageOrderValue
	}
	if in.ProfitMargin != nil {
		p.ProfitMargin = *in.ProfitMargin
	}
	if in.HasRepeatPurchases != nil {
		p.HasRepeatPurchases = *in.HasRepeatPurchases
	}
	if in.RepeatPurchaseFrequency != nil {
		p.RepeatPurchaseFrequency = *in.RepeatPurchaseFrequency
	}
	if in.ClearTargetOverrides {
		p.TargetCPAOverridden = false
		p.TargetROASOverridden = false
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	for _, v := range []*float64{in.TargetCPA, in.TargetROAS} {
		if v != nil && (!finite(*v) || *v < 0) {
			return nil, fmt.Errorf("%w: targets must be non-negative", ErrInvalidProfile)
		}
	}

	if in.TargetCPA != nil {
		p.TargetCPA = *in.TargetCPA
		p.TargetCPAOverridden = true
	}
	if in.TargetROAS != nil {
		p.TargetROAS = *in.TargetROAS
		p.TargetROASOverridden = true
	}
	return s.save(ctx, p)
}

func (s *Service) save(ctx context.Context, p *domain.ProfitabilityProfile) (*domain.ProfitabilityProfile, error) {
	metrics.ApplyProfile(p)
	p.UpdatedAt = s.now()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	log.Printf("[profile.Service] Account %s: break-even CPA %.2f, target CPA %.2f (overridden=%t), target ROAS %.2f (overridden=%t)",
		p.AdAccountID, p.BreakEvenCPA, p.TargetCPA, p.TargetCPAOverridden, p.TargetROAS, p.TargetROASOverridden)
	return p, nil
}

func validate(p *domain.ProfitabilityProfile) error {
	if !finite(p.AverageOrderValue) || p.AverageOrderValue < 0 {
		return fmt.Errorf("%w: average order value must be non-negative", ErrInvalidProfile)
	}
	if !finite(p.ProfitMargin) || p.ProfitMargin < 0 || p.ProfitMargin > 100 {
		return fmt.Errorf("%w: profit margin must be between 0 and 100", ErrInvalidProfile)
	}
	if !p.RepeatPurchaseFrequency.Valid() {
		return fmt.Errorf("%w: unknown repeat purchase frequency %q", ErrInvalidProfile, p.RepeatPurchaseFrequency)
	}
	if !p.HasRepeatPurchases || p.RepeatPurchaseFrequency == "" {
		p.RepeatPurchaseFrequency = domain.FrequencyNone
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
