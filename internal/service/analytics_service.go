package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-desk/complaint-service/internal/repository"
	apperrors "github.com/campus-desk/complaint-service/pkg/util"
)

// delayThreshold is how long a complaint may stay unresolved before it counts
// as delayed in the dashboard.
const delayThreshold = 48 * time.Hour

// AnalyticsSummary aggregates complaint trends over a trailing window.
type AnalyticsSummary struct {
	Timeline                  []repository.TimelineBucket
	Trends                    []repository.LabelCount
	AverageResolutionDuration string
	ResolutionRate            string
	StatusDistribution        []repository.LabelCount
	PriorityDistribution      []repository.LabelCount
	DelayByCategory           []repository.LabelCount
}

// AnalyticsService computes dashboard aggregates. Every call recomputes from
// the store; there is no caching.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, now: time.Now}
}

// Summarize aggregates complaints created within the trailing `days`-day
// window.
//
// The resolution rate of an empty window formats as "NaN" (0/0). That matches
// the long-standing dashboard behavior and the front end renders it as "no
// data"; changing it to "0.00" would silently redefine the metric.
func (s *AnalyticsService) Summarize(ctx context.Context, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		return nil, apperrors.NewValidationError("days must be a positive number", nil)
	}

	now := s.now()
	from := now.AddDate(0, 0, -days)

	timeline, err := s.analytics.TimelineCounts(ctx, from)
	if err != nil {
		return nil, err
	}
	trends, err := s.analytics.CategoryCounts(ctx, from)
	if err != nil {
		return nil, err
	}
	stats, err := s.analytics.ResolutionStats(ctx, from)
	if err != nil {
		return nil, err
	}
	total, err := s.analytics.TotalInWindow(ctx, from)
	if err != nil {
		return nil, err
	}
	statusDist, err := s.analytics.StatusCounts(ctx, from)
	if err != nil {
		return nil, err
	}
	priorityDist, err := s.analytics.PriorityCounts(ctx, from)
	if err != nil {
		return nil, err
	}
	delayed, err := s.analytics.DelayedByCategory(ctx, from, now.Add(-delayThreshold))
	if err != nil {
		return nil, err
	}

	averageHours := 0.0
	if stats.ResolvedCount > 0 {
		averageHours = stats.TotalHours / float64(stats.ResolvedCount)
	}
	rate := float64(stats.ResolvedCount) / float64(total) * 100

	return &AnalyticsSummary{
		Timeline:                  timeline,
		Trends:                    trends,
		AverageResolutionDuration: fmt.Sprintf("%.2f", averageHours),
		ResolutionRate:            fmt.Sprintf("%.2f", rate),
		StatusDistribution:        statusDist,
		PriorityDistribution:      priorityDist,
		DelayByCategory:           delayed,
	}, nil
}
