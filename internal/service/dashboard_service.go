package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/cache"
	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/repository"
)

const (
	topClientsLimit  = 5
	topClientsWindow = 30 * 24 * time.Hour
)

// DashboardService builds the global dashboard, cache-aside over Redis.
type DashboardService struct {
	repo   repository.DashboardRepository
	cache  *cache.DashboardCache
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService constructs the service. A nil cache disables caching.
func NewDashboardService(repo repository.DashboardRepository, dashboardCache *cache.DashboardCache, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: dashboardCache, logger: logger, now: time.Now}
}

// Summary returns the cached summary when present, otherwise computes and caches it.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}

	now := s.now()
	top, err := s.repo.TopClients(ctx, now.Add(-topClientsWindow), topClientsLimit)
	if err != nil {
		return nil, err
	}
	byRisk, err := s.repo.RiskBreakdown(ctx, nil)
	if err != nil {
		return nil, err
	}
	bySentiment, err := s.repo.SentimentBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TopClients:             top,
		RiskBreakdown:          byRisk,
		SentimentBreakdown:     bySentiment,
		TotalTickets:           totals.TotalTickets,
		TotalClientsWithTicket: totals.TotalClientsWithTickets,
		GlobalChurnScore:       totals.GlobalChurnScore,
		GeneratedAt:            now.UTC(),
	}
	s.cache.Set(ctx, summary)
	return summary, nil
}
