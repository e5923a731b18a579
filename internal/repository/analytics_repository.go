package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TimelineBucket is a per-day complaint count.
type TimelineBucket struct {
	Day   string
	Count int
}

// LabelCount is a generic grouped count (category, status, priority).
type LabelCount struct {
	Label string
	Count int
}

// ResolutionStats aggregates resolved complaints in a window.
type ResolutionStats struct {
	ResolvedCount int
	TotalHours    float64
}

// AnalyticsRepository exposes the aggregation queries behind the dashboard.
// Every method scopes to complaints created at or after `from`.
type AnalyticsRepository interface {
	TimelineCounts(ctx context.Context, from time.Time) ([]TimelineBucket, error)
	CategoryCounts(ctx context.Context, from time.Time) ([]LabelCount, error)
	StatusCounts(ctx context.Context, from time.Time) ([]LabelCount, error)
	PriorityCounts(ctx context.Context, from time.Time) ([]LabelCount, error)
	ResolutionStats(ctx context.Context, from time.Time) (ResolutionStats, error)
	TotalInWindow(ctx context.Context, from time.Time) (int, error)
	DelayedByCategory(ctx context.Context, from time.Time, openedBefore time.Time) ([]LabelCount, error)
}

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository instantiates repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) TimelineCounts(ctx context.Context, from time.Time) ([]TimelineBucket, error) {
	const query = `
        SELECT TO_CHAR(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM complaints
        WHERE created_at >= $1
        GROUP BY day
        ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []TimelineBucket
	for rows.Next() {
		var bucket TimelineBucket
		if err := rows.Scan(&bucket.Day, &bucket.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, rows.Err()
}

func (r *analyticsRepository) CategoryCounts(ctx context.Context, from time.Time) ([]LabelCount, error) {
	const query = `
        SELECT category, COUNT(*) FROM complaints
        WHERE created_at >= $1
        GROUP BY category`
	return r.groupedCounts(ctx, query, from)
}

func (r *analyticsRepository) StatusCounts(ctx context.Context, from time.Time) ([]LabelCount, error) {
	const query = `
        SELECT status, COUNT(*) FROM complaints
        WHERE created_at >= $1
        GROUP BY status`
	return r.groupedCounts(ctx, query, from)
}

func (r *analyticsRepository) PriorityCounts(ctx context.Context, from time.Time) ([]LabelCount, error) {
	const query = `
        SELECT priority, COUNT(*) FROM complaints
        WHERE created_at >= $1
        GROUP BY priority`
	return r.groupedCounts(ctx, query, from)
}

func (r *analyticsRepository) ResolutionStats(ctx context.Context, from time.Time) (ResolutionStats, error) {
	const query = `
        SELECT COUNT(*),
               COALESCE(SUM(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0) FILTER (WHERE resolved_at IS NOT NULL), 0)
        FROM complaints
        WHERE created_at >= $1 AND status = 'Resolved'`

	var stats ResolutionStats
	if err := r.pool.QueryRow(ctx, query, from).Scan(&stats.ResolvedCount, &stats.TotalHours); err != nil {
		return ResolutionStats{}, err
	}
	return stats, nil
}

func (r *analyticsRepository) TotalInWindow(ctx context.Context, from time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE created_at >= $1`
	var total int
	if err := r.pool.QueryRow(ctx, query, from).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DelayedByCategory counts unresolved complaints in the window that were
// opened at or before `openedBefore` (current time minus the delay threshold),
// grouped by category.
func (r *analyticsRepository) DelayedByCategory(ctx context.Context, from time.Time, openedBefore time.Time) ([]LabelCount, error) {
	const query = `
        SELECT category, COUNT(*) FROM complaints
        WHERE created_at >= $1 AND created_at <= $2 AND status <> 'Resolved'
        GROUP BY category`
	return r.groupedCounts(ctx, query, from, openedBefore)
}

func (r *analyticsRepository) groupedCounts(ctx context.Context, query string, args ...any) ([]LabelCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var entry LabelCount
		if err := rows.Scan(&entry.Label, &entry.Count); err != nil {
			return nil, err
		}
		counts = append(counts, entry)
	}
	return counts, rows.Err()
}
