package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/funnel"
	"github.com/ignite/adlens/internal/insights"
	"github.com/ignite/adlens/internal/meta"
	"github.com/ignite/adlens/internal/metrics"
	"github.com/ignite/adlens/internal/service/profile"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// Generation outcomes reported to the Observer.
const (
	OutcomeSuccess             = "success"
	OutcomeInvalid             = "invalid"
	OutcomeCredentialError     = "credential_error"
	OutcomePlatformUnavailable = "platform_unavailable"
	OutcomePersistenceError    = "persistence_error"
	OutcomeError               = "error"
)

// Service assembles, persists and reads report snapshots.
type Service struct {
	repo      Repository
	accounts  AccountRepository
	profiles  ProfileRepository
	fetcher   InsightsFetcher
	engine    *funnel.Engine
	generator InsightGenerator
	exporter  Exporter
	archive   Archive
	observer  Observer
	now       func() time.Time
}

// NewService wires the report service. A nil engine uses the embedded
// benchmark table.
func NewService(repo Repository, accounts AccountRepository, profiles ProfileRepository, fetcher InsightsFetcher, engine *funnel.Engine, generator InsightGenerator) *Service {
	if engine == nil {
		engine = funnel.NewEngine(nil)
	}
	return &Service{
		repo:      repo,
		accounts:  accounts,
		profiles:  profiles,
		fetcher:   fetcher,
		engine:    engine,
		generator: generator,
		now:       time.Now,
	}
}

// SetExporter enables snapshot export after each persist.
func (s *Service) SetExporter(e Exporter) {
	s.exporter = e
}

// SetArchive enables reading snapshots back from export storage when the
// database row is gone.
func (s *Service) SetArchive(a Archive) {
	s.archive = a
}

// SetObserver registers an outcome observer.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GenerateInput selects the account and inclusive date range of a report.
// A nil Profile is loaded from the profile repository.
type GenerateInput struct {
	AccountID      string                       `json:"adAccountId"`
	DateRangeStart string                       `json:"dateRangeStart"`
	DateRangeEnd   string                       `json:"dateRangeEnd"`
	Profile        *domain.ProfitabilityProfile `json:"-"`
}

func (in GenerateInput) validate() error {
	start, err := time.Parse(dateLayout, in.DateRangeStart)
	if err != nil {
		return fmt.Errorf("%w: start %q is not a YYYY-MM-DD date", ErrInvalidDateRange, in.DateRangeStart)
	}
	end, err := time.Parse(dateLayout, in.DateRangeEnd)
	if err != nil {
		return fmt.Errorf("%w: end %q is not a YYYY-MM-DD date", ErrInvalidDateRange, in.DateRangeEnd)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, in.DateRangeStart, in.DateRangeEnd)
	}
	return nil
}

// Generate builds and persists a new report snapshot.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*domain.ReportSnapshot, error) {
	started := s.now()
	snap, err := s.generate(ctx, in, started)
	if s.observer != nil {
		s.observer.ObserveReport(outcomeOf(err), s.now().Sub(started))
	}
	return snap, err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, meta.ErrInvalidQuery):
		return OutcomeInvalid
	case meta.IsCredentialError(err):
		return OutcomeCredentialError
	case meta.IsPlatformUnavailable(err):
		return OutcomePlatformUnavailable
	case errors.Is(err, ErrPersistence):
		return OutcomePersistenceError
	}
	return OutcomeError
}

func (s *Service) generate(ctx context.Context, in GenerateInput, started time.Time) (*domain.ReportSnapshot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	account, err := s.accounts.Get(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	prof := in.Profile
	if prof == nil {
		if prof, err = s.loadProfile(ctx, account.ID); err != nil {
			return nil, err
		}
	}

	fetched, err := s.fetchLevels(ctx, account, in.DateRangeStart, in.DateRangeEnd)
	if err != nil {
		return nil, err
	}

	totals := fetched.account.Summary
	analysis := s.engine.Analyze(totals, account.BenchmarkIndustry())
	summary := Summarize(totals)
	profitability := Profitability(summary, prof)

	actx := insights.AnalysisContext{
		Business: domain.BusinessContext{
			Industry:      analysis.Industry,
			BusinessModel: account.BusinessModel,
			PrimaryGoal:   account.PrimaryGoal,
		},
		DateRange:     in.DateRangeStart + " to " + in.DateRangeEnd,
		Summary:       summary,
		Funnel:        analysis.Funnel,
		Rates:         analysis.ConversionRates,
		Profitability: profitability,
	}
	if prof != nil {
		actx.AverageOrderValue = prof.AverageOrderValue
		actx.ProfitMargin = prof.ProfitMargin
	}
	if analysis.WeakestStage != nil {
		actx.WeakestStage = analysis.WeakestStage.Stage
	}
	items, source := insights.Translate(s.generator.Generate(ctx, actx))

	snap := &domain.ReportSnapshot{
		ID:             uuid.New().String(),
		AdAccountID:    account.ID,
		ReportType:     domain.ReportTypeAccountOverview,
		DateRangeStart: in.DateRangeStart,
		DateRangeEnd:   in.DateRangeEnd,
		Data: domain.ReportData{
			Summary:         summary,
			Totals:          totals,
			Funnel:          analysis.Funnel,
			ConversionRates: analysis.ConversionRates,
			Profitability:   profitability,
			Analysis:        analysis,
			Campaigns:       nonNil(fetched.campaigns.Data),
			Adsets:          nonNil(fetched.adsets.Data),
			Truncated:       fetched.truncated(),
		},
		CalculatedMetrics: domain.CalculatedMetrics{
			ConversionRates: analysis.ConversionRates,
			ROAS:            summary.ROAS,
			CPA:             summary.CPA,
		},
		Insights:      items,
		InsightSource: source,
	}
	now := s.now()
	snap.CreatedAt = now
	snap.GenerationTimeMs = now.Sub(started).Milliseconds()

	if err := s.repo.Create(ctx, snap); err != nil {
		log.Printf("[report.Service] Failed to persist report for account %s: %v", account.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	log.Printf("[report.Service] Report %s generated for account %s (%s to %s, insights=%s, %dms)",
		snap.ID, account.ID, in.DateRangeStart, in.DateRangeEnd, source, snap.GenerationTimeMs)

	if err := s.accounts.TouchLastSynced(ctx, account.ID, now); err != nil {
		log.Printf("[report.Service] Failed to update last_synced_at for account %s: %v", account.ID, err)
	}
	if s.exporter != nil {
		if key, err := s.exporter.Export(ctx, snap); err != nil {
			log.Printf("[report.Service] Export of report %s failed: %v", snap.ID, err)
		} else {
			log.Printf("[report.Service] Report %s exported to %s", snap.ID, key)
		}
	}
	return snap, nil
}

func (s *Service) loadProfile(ctx context.Context, accountID string) (*domain.ProfitabilityProfile, error) {
	if s.profiles == nil {
		return nil, nil
	}
	p, err := s.profiles.Get(ctx, accountID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

type levelResults struct {
	account   *meta.InsightsResult
	campaigns *meta.InsightsResult
	adsets    *meta.InsightsResult
}

func (l levelResults) truncated() bool {
	return l.account.Truncated || l.campaigns.Truncated || l.adsets.Truncated
}

// fetchLevels issues the three level fetches concurrently. The first
// failure cancels the others and fails the whole generation.
func (s *Service) fetchLevels(ctx context.Context, account *domain.AdAccount, since, until string) (levelResults, error) {
	token := Token(account)
	var out levelResults

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(level domain.InsightLevel, dst **meta.InsightsResult) {
		g.Go(func() error {
			res, err := s.fetcher.GetInsights(gctx, token, account.PlatformAccountID, meta.Query{
				Level: level,
				Since: since,
				Until: until,
			})
			if err != nil {
				return fmt.Errorf("fetch %s insights: %w", level, err)
			}
			*dst = res
			return nil
		})
	}
	fetch(domain.LevelAccount, &out.account)
	fetch(domain.LevelCampaign, &out.campaigns)
	fetch(domain.LevelAdset, &out.adsets)

	if err := g.Wait(); err != nil {
		return levelResults{}, err
	}
	return out, nil
}

// Token converts an account's stored credential into an oauth2 token.
func Token(a *domain.AdAccount) *oauth2.Token {
	t := &oauth2.Token{AccessToken: a.AccessToken, TokenType: "Bearer"}
	if a.TokenExpiresAt != nil {
		t.Expiry = *a.TokenExpiresAt
	}
	return t
}

// Summarize derives the headline metrics from raw totals.
func Summarize(t domain.InsightTotals) domain.ReportSummary {
	return domain.ReportSummary{
		Impressions: t.Impressions,
		Clicks:      t.Clicks,
		Spend:       t.Spend,
		Revenue:     t.Revenue,
		Purchases:   t.Purchases,
		CTR:         metrics.CTR(t.Clicks, t.Impressions),
		CPM:         metrics.CPM(t.Spend, t.Impressions),
		CPC:         metrics.CPC(t.Spend, t.Clicks),
		ROAS:        metrics.ROAS(t.Revenue, t.Spend),
		CPA:         metrics.CPA(t.Spend, t.Purchases),
	}
}

// Profitability freezes the profile's thresholds and compares them with
// the period's CPA. A nil profile yields an empty, unprofitable snapshot.
func Profitability(summary domain.ReportSummary, p *domain.ProfitabilityProfile) domain.ProfitabilitySnapshot {
	if p == nil {
		return domain.ProfitabilitySnapshot{}
	}
	return domain.ProfitabilitySnapshot{
		BreakEvenCPA: p.BreakEvenCPA,
		TargetCPA:    p.TargetCPA,
		TargetROAS:   p.TargetROAS,
		MinimumROAS:  p.MinimumROAS,
		IsProfitable: metrics.IsProfitable(summary.CPA, p.BreakEvenCPA),
	}
}

func nonNil(rows []domain.InsightRow) []domain.InsightRow {
	if rows == nil {
		return []domain.InsightRow{}
	}
	return rows
}

// Get returns a stored snapshot.
func (s *Service) Get(ctx context.Context, id string) (*domain.ReportSnapshot, error) {
	return s.repo.Get(ctx, id)
}

// GetForAccount returns a snapshot owned by accountID. A snapshot missing
// from the database is read from the archive when one is configured.
func (s *Service) GetForAccount(ctx context.Context, accountID, id string) (*domain.ReportSnapshot, error) {
	snap, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		if snap.AdAccountID != accountID {
			return nil, ErrNotFound
		}
		return snap, nil
	case !errors.Is(err, ErrNotFound) || s.archive == nil:
		return nil, err
	}

	snap, err = s.archive.Load(ctx, accountID, id)
	if err != nil {
		log.Printf("[report.Service] Report %s not in archive for account %s: %v", id, accountID, err)
		return nil, ErrNotFound
	}
	if snap.ID != id || snap.AdAccountID != accountID {
		return nil, ErrNotFound
	}
	log.Printf("[report.Service] Report %s served from archive", id)
	return snap, nil
}

// ListByAccount returns the account's recent snapshots.
func (s *Service) ListByAccount(ctx context.Context, accountID string, limit int) ([]domain.ReportSnapshot, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByAccount(ctx, accountID, limit)
}

// Reanalyze reruns the funnel engine over a stored snapshot's totals with
// the current benchmark table. The snapshot itself is not modified.
func (s *Service) Reanalyze(ctx context.Context, id string) (*domain.FunnelAnalysis, error) {
	snap, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis := s.engine.Analyze(snap.Data.Totals, snap.Data.Analysis.Industry)
	return &analysis, nil
}

// PlatformAccounts lists every platform ad account the stored credential
// can see.
func (s *Service) PlatformAccounts(ctx context.Context, accountID string) (*meta.AccountsResult, error) {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.fetcher.ListAdAccounts(ctx, Token(account))
}
