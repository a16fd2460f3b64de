package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcastano/brandpulse-backend/internal/daterange"
	"github.com/dcastano/brandpulse-backend/internal/insights/aggregate"
	"github.com/dcastano/brandpulse-backend/internal/insights/alerts"
	"github.com/dcastano/brandpulse-backend/internal/insights/query"
	"github.com/dcastano/brandpulse-backend/internal/insights/trend"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
)

// Service is the dashboard read surface. All operations resolve their window
// from a preset token and degrade to partial results on per-brand failures
// rather than erroring.
type Service interface {
	Overview(ctx context.Context, brands []string, preset string) (*types.Overview, error)
	CreatorLeaderboard(ctx context.Context, brands []string, preset string, limit int, managedOnly bool) (*types.CreatorLeaderboard, error)
	CreatorDetail(ctx context.Context, brands []string, preset, creatorName string) (*types.CreatorDetail, error)
	ProductLeaderboard(ctx context.Context, brands []string, preset string, limit int) (*types.ProductLeaderboard, error)
	VideoLeaderboard(ctx context.Context, brands []string, preset string, limit int) (*types.VideoLeaderboard, error)
}

type service struct {
	agg    *aggregate.Aggregator
	limits config.RankingsConfig
	logg   *logger.Logger
}

// NewService wires the dashboard service over a fetcher.
func NewService(fetcher query.Fetcher, limits config.RankingsConfig, logg *logger.Logger, m *metrics.FetcherMetrics) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		agg:    aggregate.New(fetcher, logg, m),
		limits: limits,
		logg:   logg,
	}, nil
}

func (s *service) Overview(ctx context.Context, brands []string, preset string) (*types.Overview, error) {
	if err := validateBrands(brands); err != nil {
		return nil, err
	}

	r := daterange.ResolvePreset(preset)
	prior := daterange.PriorPeriod(r)
	ctx = s.logg.WithPreset(ctx, r.Preset.String())

	current := s.agg.Summary(ctx, brands, r)
	previous := s.agg.Summary(ctx, brands, prior)
	trendPoints := s.agg.DailyTrend(ctx, brands, r)
	comparisons := trend.CompareSummaries(current, previous)

	var topCreator *types.CreatorRankingEntry
	if top := s.agg.CreatorRankings(ctx, brands, r, s.limits.PerBrandLimit, 1, false); len(top) > 0 {
		topCreator = &top[0]
	}
	var topProduct *types.ProductRankingEntry
	if top := s.agg.ProductRankings(ctx, brands, r, s.limits.PerBrandLimit, 1); len(top) > 0 {
		topProduct = &top[0]
	}

	return &types.Overview{
		Preset:      r.Preset,
		StartDate:   r.StartISO(),
		EndDate:     r.EndISO(),
		Summary:     current,
		Trend:       trendPoints,
		Comparisons: comparisons,
		Alerts:      alerts.Derive(comparisons),
		Brief:       alerts.ComposeBrief(current.Totals, previous.Totals, comparisons, topCreator, topProduct),
	}, nil
}

func (s *service) CreatorLeaderboard(ctx context.Context, brands []string, preset string, limit int, managedOnly bool) (*types.CreatorLeaderboard, error) {
	if err := validateBrands(brands); err != nil {
		return nil, err
	}

	r := daterange.ResolvePreset(preset)
	entries := s.agg.CreatorRankings(ctx, brands, r, s.limits.PerBrandLimit, s.clampTopN(limit), managedOnly)

	return &types.CreatorLeaderboard{
		Preset:    r.Preset,
		StartDate: r.StartISO(),
		EndDate:   r.EndISO(),
		Entries:   entries,
	}, nil
}

func (s *service) CreatorDetail(ctx context.Context, brands []string, preset, creatorName string) (*types.CreatorDetail, error) {
	if err := validateBrands(brands); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(creatorName)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "creator name required")
	}

	r := daterange.ResolvePreset(preset)
	entries := s.agg.CreatorRankings(ctx, brands, r, s.limits.PerBrandLimit, 0, false)

	detail := &types.CreatorDetail{
		CreatorName: name,
		Preset:      r.Preset,
		StartDate:   r.StartISO(),
		EndDate:     r.EndISO(),
		PerBrand:    make([]types.CreatorRankingEntry, 0, len(brands)),
	}
	for _, entry := range entries {
		if entry.CreatorName != name {
			continue
		}
		detail.PerBrand = append(detail.PerBrand, entry)
		detail.Totals.TotalGMV = detail.Totals.TotalGMV.Add(entry.TotalGMV)
		detail.Totals.TotalOrders += entry.TotalOrders
		detail.Totals.TotalItemsSold += entry.TotalItemsSold
	}
	if len(detail.PerBrand) == 0 {
		return nil, errors.New(errors.CodeNotFound, fmt.Sprintf("no activity for creator %q in period", name))
	}
	return detail, nil
}

func (s *service) ProductLeaderboard(ctx context.Context, brands []string, preset string, limit int) (*types.ProductLeaderboard, error) {
	if err := validateBrands(brands); err != nil {
		return nil, err
	}

	r := daterange.ResolvePreset(preset)
	entries := s.agg.ProductRankings(ctx, brands, r, s.limits.PerBrandLimit, s.clampTopN(limit))

	return &types.ProductLeaderboard{
		Preset:    r.Preset,
		StartDate: r.StartISO(),
		EndDate:   r.EndISO(),
		Entries:   entries,
	}, nil
}

func (s *service) VideoLeaderboard(ctx context.Context, brands []string, preset string, limit int) (*types.VideoLeaderboard, error) {
	if err := validateBrands(brands); err != nil {
		return nil, err
	}

	r := daterange.ResolvePreset(preset)
	entries := s.agg.VideoRankings(ctx, brands, r, s.limits.PerBrandLimit, s.clampTopN(limit))

	return &types.VideoLeaderboard{
		Preset:    r.Preset,
		StartDate: r.StartISO(),
		EndDate:   r.EndISO(),
		Entries:   entries,
	}, nil
}

func (s *service) clampTopN(limit int) int {
	if limit <= 0 {
		return s.limits.DefaultLimit
	}
	if s.limits.MaxLimit > 0 && limit > s.limits.MaxLimit {
		return s.limits.MaxLimit
	}
	return limit
}

func validateBrands(brands []string) error {
	if len(brands) == 0 {
		return errors.New(errors.CodeValidation, "at least one brand required")
	}
	for _, brand := range brands {
		if strings.TrimSpace(brand) == "" {
			return errors.New(errors.CodeValidation, "brand ids must be non-empty")
		}
	}
	return nil
}
