package alerts

import (
	"fmt"
	"sort"

	"github.com/dcastano/brandpulse-backend/internal/insights/trend"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/shopspring/decimal"
)

const (
	maxBrandCallouts   = 3
	productNameMaxRune = 60
)

// riskFlagAt is a stricter threshold than the alert tiers and strictly
// less-than; a brand at exactly -20 is not flagged.
var riskFlagAt = decimal.NewFromInt(-20)

// ComposeBrief renders the narrative summary: a portfolio headline, up to
// three brand callouts picked by largest absolute change (most newsworthy,
// not biggest), and creator/product spotlights. Risk flags are collected
// independently of the callouts and of the alert tiers.
func ComposeBrief(
	current, prior types.PortfolioTotals,
	comparisons []types.PeriodComparison,
	topCreator *types.CreatorRankingEntry,
	topProduct *types.ProductRankingEntry,
) types.NarrativeBrief {
	brief := types.NarrativeBrief{
		Lines:     []string{headline(current, prior)},
		RiskFlags: []string{},
	}

	gmvComparisons := make([]types.PeriodComparison, 0, len(comparisons))
	for _, cmp := range comparisons {
		if cmp.Metric == trend.MetricGMV && cmp.PctChange != nil {
			gmvComparisons = append(gmvComparisons, cmp)
		}
	}

	sort.SliceStable(gmvComparisons, func(i, j int) bool {
		return gmvComparisons[i].PctChange.Abs().GreaterThan(gmvComparisons[j].PctChange.Abs())
	})
	for i, cmp := range gmvComparisons {
		if i == maxBrandCallouts {
			break
		}
		brief.Lines = append(brief.Lines, brandCallout(cmp))
	}

	if topCreator != nil && topCreator.TotalGMV.IsPositive() {
		brief.Lines = append(brief.Lines, fmt.Sprintf(
			"Top creator: %s (%s) with $%s",
			topCreator.CreatorName, topCreator.Brand, topCreator.TotalGMV.StringFixed(2)))
	}
	if topProduct != nil && topProduct.TotalGMV.IsPositive() {
		brief.Lines = append(brief.Lines, fmt.Sprintf(
			"Top product: %s (%s) with $%s",
			truncateName(topProduct.ProductName), topProduct.Brand, topProduct.TotalGMV.StringFixed(2)))
	}

	for _, cmp := range comparisons {
		if cmp.Metric != trend.MetricGMV || cmp.PctChange == nil {
			continue
		}
		if cmp.PctChange.LessThan(riskFlagAt) {
			brief.RiskFlags = append(brief.RiskFlags, fmt.Sprintf(
				"%s gmv down %s%% vs prior period", cmp.Brand, cmp.PctChange.Abs().StringFixed(1)))
		}
	}

	return brief
}

func headline(current, prior types.PortfolioTotals) string {
	direction := "flat"
	magnitude := ""
	if change, ok := trend.PctChange(current.TotalGMV, prior.TotalGMV); ok && !change.IsZero() {
		if change.IsPositive() {
			direction = "up"
		} else {
			direction = "down"
		}
		magnitude = fmt.Sprintf(" %s%%", change.Abs().StringFixed(1))
	}
	return fmt.Sprintf(
		"Portfolio GMV $%s, %s%s vs prior period; %d creators, %d videos active",
		current.TotalGMV.StringFixed(2), direction, magnitude,
		current.UniqueCreators, current.UniqueVideos)
}

func brandCallout(cmp types.PeriodComparison) string {
	direction := "up"
	if cmp.PctChange.IsNegative() {
		direction = "down"
	}
	return fmt.Sprintf("%s %s %s%% ($%s → $%s)",
		cmp.Brand, direction, cmp.PctChange.Abs().StringFixed(1),
		cmp.Previous.StringFixed(2), cmp.Current.StringFixed(2))
}

func truncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= productNameMaxRune {
		return name
	}
	return string(runes[:productNameMaxRune]) + "…"
}
