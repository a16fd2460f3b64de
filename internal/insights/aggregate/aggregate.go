package aggregate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dcastano/brandpulse-backend/internal/daterange"
	"github.com/dcastano/brandpulse-backend/internal/insights/query"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// Aggregation kinds, used as metric labels.
const (
	KindSummary        = "summary"
	KindCreatorRanking = "creator_ranking"
	KindProductRanking = "product_ranking"
	KindVideoRanking   = "video_ranking"
	KindDailyTrend     = "daily_trend"
)

// Aggregator fans a fetcher out across a brand set and merges the results.
// A failed brand contributes an empty result; one brand outage never blanks
// the whole dashboard.
type Aggregator struct {
	fetcher query.Fetcher
	logg    *logger.Logger
	metrics *metrics.FetcherMetrics
}

// New builds an aggregator over the given fetcher.
func New(fetcher query.Fetcher, logg *logger.Logger, m *metrics.FetcherMetrics) *Aggregator {
	return &Aggregator{fetcher: fetcher, logg: logg, metrics: m}
}

// fanOut runs fetch concurrently for every brand, slotting results by brand
// index so fetch order stays deterministic by the caller's brand order.
func fanOut[T any](ctx context.Context, brands []string, fetch func(ctx context.Context, brand string) (T, error)) ([]T, []string, error) {
	results := make([]T, len(brands))
	errs := make([]error, len(brands))

	var wg sync.WaitGroup
	for i, brand := range brands {
		wg.Add(1)
		go func(i int, brand string) {
			defer wg.Done()
			results[i], errs[i] = fetch(ctx, brand)
		}(i, brand)
	}
	wg.Wait()

	var failed []string
	var merged error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, brands[i])
			merged = multierr.Append(merged, err)
		}
	}
	return results, failed, merged
}

func (a *Aggregator) logFailures(ctx context.Context, kind string, failed []string, err error) {
	if err == nil {
		return
	}
	ctx = a.logg.WithFields(ctx, map[string]any{
		"kind":  kind,
		"error": err.Error(),
	})
	for _, brand := range failed {
		a.logg.Warn(a.logg.WithBrand(ctx, brand), "brand fetch failed, substituting empty results")
	}
}

// Summary aggregates the brand summaries: one row per brand (zero placeholder
// for failed brands) plus portfolio totals over the successful ones.
func (a *Aggregator) Summary(ctx context.Context, brands []string, r daterange.Range) types.SummaryResult {
	defer a.observe(KindSummary)()

	rows, failed, err := fanOut(ctx, brands, func(ctx context.Context, brand string) (types.SummaryRow, error) {
		return a.fetcher.BrandSummary(ctx, brand, r)
	})
	a.logFailures(ctx, KindSummary, failed, err)

	failedSet := toSet(failed)
	result := types.SummaryResult{
		Brands:       make([]types.BrandSummary, 0, len(brands)),
		Partial:      len(failed) > 0,
		FailedBrands: failed,
	}
	result.Totals.TotalGMV = decimal.Zero

	for i, brand := range brands {
		if failedSet[brand] {
			result.Brands = append(result.Brands, types.BrandSummary{Brand: brand, TotalGMV: decimal.Zero})
			continue
		}
		row := rows[i]
		result.Brands = append(result.Brands, types.BrandSummary{
			Brand:          brand,
			TotalGMV:       row.TotalGMV,
			TotalOrders:    row.TotalOrders,
			TotalItemsSold: row.TotalItemsSold,
			UniqueCreators: row.UniqueCreators,
			UniqueVideos:   row.UniqueVideos,
		})
		result.Totals.TotalGMV = result.Totals.TotalGMV.Add(row.TotalGMV)
		result.Totals.TotalOrders += row.TotalOrders
		result.Totals.TotalItemsSold += row.TotalItemsSold
		result.Totals.UniqueCreators += row.UniqueCreators
		result.Totals.UniqueVideos += row.UniqueVideos
	}
	return result
}

// CreatorRankings merges per-brand creator rows into one globally sorted
// ranking. Per-brand limiting happens at fetch time and topN after the merge;
// both apply in sequence, so a brand's candidates beyond its per-brand limit
// can never enter the global list. Known ranking approximation, kept for
// compatibility.
func (a *Aggregator) CreatorRankings(ctx context.Context, brands []string, r daterange.Range, perBrandLimit, topN int, managedOnly bool) []types.CreatorRankingEntry {
	defer a.observe(KindCreatorRanking)()

	rows, failed, err := fanOut(ctx, brands, func(ctx context.Context, brand string) ([]types.CreatorRow, error) {
		return a.fetcher.CreatorRankings(ctx, brand, r, perBrandLimit, managedOnly)
	})
	a.logFailures(ctx, KindCreatorRanking, failed, err)

	merged := make([]types.CreatorRankingEntry, 0)
	for i, brand := range brands {
		for _, row := range rows[i] {
			merged = append(merged, types.CreatorRankingEntry{
				CreatorName:    row.CreatorName,
				Brand:          brand,
				TotalGMV:       row.TotalGMV,
				TotalOrders:    row.TotalOrders,
				TotalItemsSold: row.TotalItemsSold,
				DaysActive:     row.DaysActive,
			})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TotalGMV.GreaterThan(merged[j].TotalGMV)
	})
	return truncate(merged, topN)
}

// ProductRankings merges per-brand product rows, same limiting rules as
// CreatorRankings.
func (a *Aggregator) ProductRankings(ctx context.Context, brands []string, r daterange.Range, perBrandLimit, topN int) []types.ProductRankingEntry {
	defer a.observe(KindProductRanking)()

	rows, failed, err := fanOut(ctx, brands, func(ctx context.Context, brand string) ([]types.ProductRow, error) {
		return a.fetcher.ProductSummary(ctx, brand, r, perBrandLimit)
	})
	a.logFailures(ctx, KindProductRanking, failed, err)

	merged := make([]types.ProductRankingEntry, 0)
	for i, brand := range brands {
		for _, row := range rows[i] {
			merged = append(merged, types.ProductRankingEntry{
				ProductName:    row.ProductName,
				Brand:          brand,
				TotalGMV:       row.TotalGMV,
				TotalOrders:    row.TotalOrders,
				TotalItemsSold: row.TotalItemsSold,
			})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TotalGMV.GreaterThan(merged[j].TotalGMV)
	})
	return truncate(merged, topN)
}

// VideoRankings merges per-brand video rows, same limiting rules as
// CreatorRankings.
func (a *Aggregator) VideoRankings(ctx context.Context, brands []string, r daterange.Range, perBrandLimit, topN int) []types.VideoRankingEntry {
	defer a.observe(KindVideoRanking)()

	rows, failed, err := fanOut(ctx, brands, func(ctx context.Context, brand string) ([]types.VideoRow, error) {
		return a.fetcher.VideoSummary(ctx, brand, r, perBrandLimit)
	})
	a.logFailures(ctx, KindVideoRanking, failed, err)

	merged := make([]types.VideoRankingEntry, 0)
	for i, brand := range brands {
		for _, row := range rows[i] {
			merged = append(merged, types.VideoRankingEntry{
				VideoID:     row.VideoID,
				VideoTitle:  row.VideoTitle,
				CreatorName: row.CreatorName,
				Brand:       brand,
				TotalGMV:    row.TotalGMV,
				TotalOrders: row.TotalOrders,
				DaysActive:  row.DaysActive,
			})
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TotalGMV.GreaterThan(merged[j].TotalGMV)
	})
	return truncate(merged, topN)
}

// DailyTrend merges per-brand daily series into one timeline. Every date seen
// in any brand's series appears once, with an explicit zero for brands absent
// on that date; output is ascending by ISO date.
func (a *Aggregator) DailyTrend(ctx context.Context, brands []string, r daterange.Range) []types.TrendPoint {
	defer a.observe(KindDailyTrend)()

	rows, failed, err := fanOut(ctx, brands, func(ctx context.Context, brand string) ([]types.TrendRow, error) {
		return a.fetcher.DailyTrend(ctx, brand, r)
	})
	a.logFailures(ctx, KindDailyTrend, failed, err)

	byDate := map[string]map[string]decimal.Decimal{}
	for i, brand := range brands {
		for _, row := range rows[i] {
			if byDate[row.ReportDate] == nil {
				byDate[row.ReportDate] = map[string]decimal.Decimal{}
			}
			byDate[row.ReportDate][brand] = row.DailyGMV
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// ISO dates sort correctly as strings.
	sort.Strings(dates)

	points := make([]types.TrendPoint, 0, len(dates))
	for _, date := range dates {
		point := types.TrendPoint{Date: date, Brands: make(map[string]decimal.Decimal, len(brands))}
		for _, brand := range brands {
			if gmv, ok := byDate[date][brand]; ok {
				point.Brands[brand] = gmv
			} else {
				point.Brands[brand] = decimal.Zero
			}
		}
		points = append(points, point)
	}
	return points
}

func truncate[T any](rows []T, topN int) []T {
	if topN > 0 && len(rows) > topN {
		return rows[:topN]
	}
	return rows
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func (a *Aggregator) observe(kind string) func() {
	started := time.Now()
	return func() {
		a.metrics.ObserveAggregation(kind, time.Since(started))
	}
}
