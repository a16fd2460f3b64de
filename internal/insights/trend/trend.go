package trend

import (
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/shopspring/decimal"
)

// Metric names used in comparisons and alerts.
const (
	MetricGMV       = "gmv"
	MetricOrders    = "orders"
	MetricItemsSold = "items_sold"
)

var hundred = decimal.NewFromInt(100)

// PctChange returns the percentage change from previous to current. The
// second return is false only when both values are zero (no signal). A zero
// baseline with a positive current reports exactly 100 by convention, never
// infinity.
func PctChange(current, previous decimal.Decimal) (decimal.Decimal, bool) {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero, false
		}
		return hundred, true
	}
	return current.Sub(previous).Div(previous).Mul(hundred), true
}

// Compare builds a single comparison record. PctChange stays nil when both
// periods are zero.
func Compare(metric, brand string, current, previous decimal.Decimal) types.PeriodComparison {
	cmp := types.PeriodComparison{
		Metric:   metric,
		Brand:    brand,
		Current:  current,
		Previous: previous,
	}
	if change, ok := PctChange(current, previous); ok {
		cmp.PctChange = &change
	}
	return cmp
}

// CompareSummaries derives per-brand comparisons for GMV, orders, and items
// sold between a current and a prior summary aggregate. Brand order follows
// the current result's brand order.
func CompareSummaries(current, prior types.SummaryResult) []types.PeriodComparison {
	priorByBrand := make(map[string]types.BrandSummary, len(prior.Brands))
	for _, b := range prior.Brands {
		priorByBrand[b.Brand] = b
	}

	comparisons := make([]types.PeriodComparison, 0, len(current.Brands)*3)
	for _, cur := range current.Brands {
		prev := priorByBrand[cur.Brand]
		comparisons = append(comparisons,
			Compare(MetricGMV, cur.Brand, cur.TotalGMV, prev.TotalGMV),
			Compare(MetricOrders, cur.Brand, decimal.NewFromInt(cur.TotalOrders), decimal.NewFromInt(prev.TotalOrders)),
			Compare(MetricItemsSold, cur.Brand, decimal.NewFromInt(cur.TotalItemsSold), decimal.NewFromInt(prev.TotalItemsSold)),
		)
	}
	return comparisons
}
