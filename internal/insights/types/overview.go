package types

import (
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Overview is the dashboard landing payload: current-period aggregates with
// prior-period deltas, alerts, and the narrative brief.
type Overview struct {
	Preset      enums.Preset       `json:"preset"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Summary     SummaryResult      `json:"summary"`
	Trend       []TrendPoint       `json:"trend"`
	Comparisons []PeriodComparison `json:"comparisons"`
	Alerts      []AlertRecord      `json:"alerts"`
	Brief       NarrativeBrief     `json:"brief"`
}

// CreatorLeaderboard is the merged cross-brand creator ranking.
type CreatorLeaderboard struct {
	Preset    enums.Preset          `json:"preset"`
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Entries   []CreatorRankingEntry `json:"entries"`
}

// ProductLeaderboard is the merged cross-brand product ranking.
type ProductLeaderboard struct {
	Preset    enums.Preset          `json:"preset"`
	StartDate string                `json:"start_date"`
	EndDate   string                `json:"end_date"`
	Entries   []ProductRankingEntry `json:"entries"`
}

// VideoLeaderboard is the merged cross-brand video ranking.
type VideoLeaderboard struct {
	Preset    enums.Preset        `json:"preset"`
	StartDate string              `json:"start_date"`
	EndDate   string              `json:"end_date"`
	Entries   []VideoRankingEntry `json:"entries"`
}

// CreatorDetail groups one creator's rows across brands. This is the one
// view keyed by creator name alone rather than (creator, brand).
type CreatorDetail struct {
	CreatorName string                `json:"creator_name"`
	Preset      enums.Preset          `json:"preset"`
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	PerBrand    []CreatorRankingEntry `json:"per_brand"`
	Totals      CreatorTotals         `json:"totals"`
}

// CreatorTotals sums a creator's contribution across brands.
type CreatorTotals struct {
	TotalGMV       decimal.Decimal `json:"total_gmv"`
	TotalOrders    int64           `json:"total_orders"`
	TotalItemsSold int64           `json:"total_items_sold"`
}
