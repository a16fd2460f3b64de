package query

import (
	"context"
	"fmt"
	"time"

	"github.com/dcastano/brandpulse-backend/internal/daterange"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/db"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
)

const (
	brandSummarySQL = `
SELECT
  COALESCE(SUM(gmv), 0) AS total_gmv,
  COUNT(DISTINCT order_id) AS total_orders,
  COALESCE(SUM(item_count), 0) AS total_items_sold,
  COUNT(DISTINCT CASE WHEN creator_name <> '' THEN creator_name END) AS unique_creators,
  COUNT(DISTINCT CASE WHEN video_id <> '' THEN video_id END) AS total_videos
FROM sales_facts
WHERE brand_id = ?
  AND order_date BETWEEN ? AND ?
`

	creatorRankingsSQL = `
SELECT
  creator_name,
  COALESCE(SUM(gmv), 0) AS total_gmv,
  COUNT(DISTINCT order_id) AS total_orders,
  COALESCE(SUM(item_count), 0) AS total_items_sold,
  COUNT(DISTINCT order_date) AS days_active
FROM sales_facts
WHERE brand_id = ?
  AND order_date BETWEEN ? AND ?
  AND creator_name <> ''%s
GROUP BY creator_name
ORDER BY total_gmv DESC
LIMIT ?
`

	managedOnlyClause = `
  AND creator_managed`

	productSummarySQL = `
SELECT
  product_name,
  COALESCE(SUM(gmv), 0) AS total_gmv,
  COUNT(DISTINCT order_id) AS total_orders,
  COALESCE(SUM(item_count), 0) AS total_items_sold
FROM sales_facts
WHERE brand_id = ?
  AND order_date BETWEEN ? AND ?
  AND product_name <> ''
GROUP BY product_name
ORDER BY total_gmv DESC
LIMIT ?
`

	videoSummarySQL = `
SELECT
  video_id,
  MIN(video_title) AS video_title,
  MIN(creator_name) AS creator_name,
  COALESCE(SUM(gmv), 0) AS total_gmv,
  COUNT(DISTINCT order_id) AS total_orders,
  COUNT(DISTINCT order_date) AS days_active
FROM sales_facts
WHERE brand_id = ?
  AND order_date BETWEEN ? AND ?
  AND video_id <> ''
GROUP BY video_id
ORDER BY total_gmv DESC
LIMIT ?
`

	dailyTrendSQL = `
SELECT
  CAST(order_date AS TEXT) AS report_date,
  COALESCE(SUM(gmv), 0) AS daily_gmv
FROM sales_facts
WHERE brand_id = ?
  AND order_date BETWEEN ? AND ?
GROUP BY order_date
ORDER BY report_date ASC
`
)

// Fetcher is the per-brand read surface over the reporting store. Each method
// issues one query for one brand and never retries; failures come back as a
// *FetchError for the aggregator to isolate.
type Fetcher interface {
	BrandSummary(ctx context.Context, brand string, r daterange.Range) (types.SummaryRow, error)
	CreatorRankings(ctx context.Context, brand string, r daterange.Range, limit int, managedOnly bool) ([]types.CreatorRow, error)
	ProductSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.ProductRow, error)
	VideoSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.VideoRow, error)
	DailyTrend(ctx context.Context, brand string, r daterange.Range) ([]types.TrendRow, error)
}

type store struct {
	client  *db.Client
	limits  config.RankingsConfig
	metrics *metrics.FetcherMetrics
}

// NewStore builds the SQL-backed fetcher.
func NewStore(client *db.Client, limits config.RankingsConfig, m *metrics.FetcherMetrics) (Fetcher, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &store{client: client, limits: limits, metrics: m}, nil
}

func (s *store) BrandSummary(ctx context.Context, brand string, r daterange.Range) (types.SummaryRow, error) {
	var row types.SummaryRow
	err := s.observe(QueryBrandSummary, brand, func() error {
		return s.client.Raw(ctx, brandSummarySQL, brand, r.StartISO(), r.EndISO()).Scan(&row).Error
	})
	if err != nil {
		return types.SummaryRow{}, &FetchError{Query: QueryBrandSummary, Brand: brand, Err: err}
	}
	return row, nil
}

func (s *store) CreatorRankings(ctx context.Context, brand string, r daterange.Range, limit int, managedOnly bool) ([]types.CreatorRow, error) {
	clause := ""
	if managedOnly {
		clause = managedOnlyClause
	}
	sql := fmt.Sprintf(creatorRankingsSQL, clause)

	var rows []types.CreatorRow
	err := s.observe(QueryCreatorRankings, brand, func() error {
		return s.client.Raw(ctx, sql, brand, r.StartISO(), r.EndISO(), s.clampLimit(limit)).Scan(&rows).Error
	})
	if err != nil {
		return nil, &FetchError{Query: QueryCreatorRankings, Brand: brand, Err: err}
	}
	return rows, nil
}

func (s *store) ProductSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.ProductRow, error) {
	var rows []types.ProductRow
	err := s.observe(QueryProductSummary, brand, func() error {
		return s.client.Raw(ctx, productSummarySQL, brand, r.StartISO(), r.EndISO(), s.clampLimit(limit)).Scan(&rows).Error
	})
	if err != nil {
		return nil, &FetchError{Query: QueryProductSummary, Brand: brand, Err: err}
	}
	return rows, nil
}

func (s *store) VideoSummary(ctx context.Context, brand string, r daterange.Range, limit int) ([]types.VideoRow, error) {
	var rows []types.VideoRow
	err := s.observe(QueryVideoSummary, brand, func() error {
		return s.client.Raw(ctx, videoSummarySQL, brand, r.StartISO(), r.EndISO(), s.clampLimit(limit)).Scan(&rows).Error
	})
	if err != nil {
		return nil, &FetchError{Query: QueryVideoSummary, Brand: brand, Err: err}
	}
	return rows, nil
}

func (s *store) DailyTrend(ctx context.Context, brand string, r daterange.Range) ([]types.TrendRow, error) {
	var rows []types.TrendRow
	err := s.observe(QueryDailyTrend, brand, func() error {
		return s.client.Raw(ctx, dailyTrendSQL, brand, r.StartISO(), r.EndISO()).Scan(&rows).Error
	})
	if err != nil {
		return nil, &FetchError{Query: QueryDailyTrend, Brand: brand, Err: err}
	}
	return rows, nil
}

// clampLimit bounds per-brand fetch cost: non-positive limits fall back to
// the configured per-brand default, oversized ones to the configured max.
func (s *store) clampLimit(limit int) int {
	if limit <= 0 {
		return s.limits.PerBrandLimit
	}
	if s.limits.MaxLimit > 0 && limit > s.limits.MaxLimit {
		return s.limits.MaxLimit
	}
	return limit
}

func (s *store) observe(query, brand string, fn func() error) error {
	started := time.Now()
	err := fn()
	s.metrics.ObserveFetch(query, brand, time.Since(started))
	if err != nil {
		s.metrics.IncFetchFailure(query, brand)
	}
	return err
}
