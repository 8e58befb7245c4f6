package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/primtakip/backend/internal/domain/identity"
	"github.com/primtakip/backend/internal/domain/report"
	"github.com/primtakip/backend/internal/domain/shared"
	"github.com/primtakip/backend/internal/infrastructure/cache"
)

// ReportService builds dashboard statistics from the report read model.
// Results are cached with a short TTL since the underlying aggregates
// scan the full sales table.
type ReportService struct {
	repo     report.Repository
	cache    cache.ReportCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(repo report.Repository, reportCache cache.ReportCache, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportService{
		repo:     repo,
		cache:    reportCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetStatistics returns the dashboard statistics. Admin only.
func (s *ReportService) GetStatistics(ctx context.Context, actor identity.Actor, req StatisticsRequest) (*StatisticsResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.NewForbiddenError("only admins can view statistics")
	}

	year := req.Year
	if year == 0 {
		year = time.Now().Year()
	}

	key := cacheKey(req.StartDate, req.EndDate, year)
	if s.cache != nil {
		if payload, found, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("Report cache read failed", zap.Error(err))
		} else if found {
			var resp StatisticsResponse
			if err := json.Unmarshal(payload, &resp); err == nil {
				resp.FromCache = true
				return &resp, nil
			}
			s.logger.Warn("Dropping corrupt report cache entry", zap.String("key", key))
		}
	}

	filter := report.Filter{StartDate: req.StartDate, EndDate: req.EndDate}

	summary, err := s.repo.GetSummary(filter)
	if err != nil {
		return nil, err
	}
	trend, err := s.repo.GetMonthlyTrend(year)
	if err != nil {
		return nil, err
	}
	byUser, err := s.repo.GetUserBreakdown(filter)
	if err != nil {
		return nil, err
	}

	resp := &StatisticsResponse{
		Summary:      *summary,
		MonthlyTrend: trend,
		ByUser:       byUser,
		GeneratedAt:  time.Now(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.logger.Warn("Report cache write failed", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// Invalidate drops all cached statistics. Called after sale or period
// mutations that change the aggregates.
func (s *ReportService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("Report cache invalidation failed", zap.Error(err))
	}
}

func cacheKey(start, end *time.Time, year int) string {
	s, e := "open", "open"
	if start != nil {
		s = start.Format("2006-01-02")
	}
	if end != nil {
		e = end.Format("2006-01-02")
	}
	return fmt.Sprintf("statistics:%s:%s:%d", s, e, year)
}
