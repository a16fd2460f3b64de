package alerts

import (
	"fmt"
	"sort"

	"github.com/dcastano/brandpulse-backend/internal/insights/trend"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Severity thresholds on GMV pct change. Fixed design constants.
var (
	criticalDropAt = decimal.NewFromInt(-15)
	dipAt          = decimal.NewFromInt(-5)
	growthAt       = decimal.NewFromInt(10)
)

// Derive classifies brand-level GMV comparisons into alert records. Brands
// with no signal (both periods zero) are skipped; at most one alert is
// emitted per (brand, metric), with critical taking precedence over dip over
// growth. Output is sorted ascending by signed change so the worst news
// comes first.
func Derive(comparisons []types.PeriodComparison) []types.AlertRecord {
	records := make([]types.AlertRecord, 0)
	for _, cmp := range comparisons {
		if cmp.Metric != trend.MetricGMV || cmp.PctChange == nil {
			continue
		}
		change := *cmp.PctChange

		var severity enums.AlertSeverity
		switch {
		case change.LessThanOrEqual(criticalDropAt):
			severity = enums.AlertSeverityCriticalDrop
		case change.LessThanOrEqual(dipAt):
			severity = enums.AlertSeverityDip
		case change.GreaterThanOrEqual(growthAt):
			severity = enums.AlertSeverityGrowth
		default:
			continue
		}

		records = append(records, types.AlertRecord{
			ID:       alertID(cmp.Brand, cmp.Metric, change),
			Brand:    cmp.Brand,
			Metric:   cmp.Metric,
			Change:   change,
			Severity: severity,
			Message:  alertMessage(cmp.Brand, cmp.Metric, change, severity),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Change.LessThan(records[j].Change)
	})
	return records
}

// alertID is stable per brand+metric+direction so clients can dedupe across
// refreshes even as the magnitude moves.
func alertID(brand, metric string, change decimal.Decimal) string {
	direction := "growth"
	if change.IsNegative() {
		direction = "drop"
	}
	return fmt.Sprintf("%s:%s:%s", brand, metric, direction)
}

func alertMessage(brand, metric string, change decimal.Decimal, severity enums.AlertSeverity) string {
	magnitude := change.Abs().StringFixed(1)
	switch severity {
	case enums.AlertSeverityCriticalDrop:
		return fmt.Sprintf("%s %s down %s%% vs prior period, needs attention", brand, metric, magnitude)
	case enums.AlertSeverityDip:
		return fmt.Sprintf("%s %s dipped %s%% vs prior period", brand, metric, magnitude)
	default:
		return fmt.Sprintf("%s %s up %s%% vs prior period", brand, metric, magnitude)
	}
}
