package types

import (
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// BrandSummary is a summary row tagged with its source brand. Failed brands
// surface as a zero-valued placeholder rather than being dropped.
type BrandSummary struct {
	Brand          string          `json:"brand"`
	TotalGMV       decimal.Decimal `json:"total_gmv"`
	TotalOrders    int64           `json:"total_orders"`
	TotalItemsSold int64           `json:"total_items_sold"`
	UniqueCreators int64           `json:"unique_creators"`
	UniqueVideos   int64           `json:"unique_videos"`
}

// PortfolioTotals sums the numeric summary fields across successful brands.
type PortfolioTotals struct {
	TotalGMV       decimal.Decimal `json:"total_gmv"`
	TotalOrders    int64           `json:"total_orders"`
	TotalItemsSold int64           `json:"total_items_sold"`
	UniqueCreators int64           `json:"unique_creators"`
	UniqueVideos   int64           `json:"unique_videos"`
}

// SummaryResult is the cross-brand summary aggregate. Partial is true when at
// least one brand's fetch failed and contributed a zero placeholder.
type SummaryResult struct {
	Brands       []BrandSummary  `json:"brands"`
	Totals       PortfolioTotals `json:"totals"`
	Partial      bool            `json:"partial"`
	FailedBrands []string        `json:"failed_brands,omitempty"`
}

// CreatorRankingEntry is a creator row tagged with its source brand. The
// dedup key is (creator_name, brand); names alone may repeat across brands.
type CreatorRankingEntry struct {
	CreatorName    string          `json:"creator_name"`
	Brand          string          `json:"brand"`
	TotalGMV       decimal.Decimal `json:"total_gmv"`
	TotalOrders    int64           `json:"total_orders"`
	TotalItemsSold int64           `json:"total_items_sold"`
	DaysActive     int64           `json:"days_active"`
}

// ProductRankingEntry is a product row tagged with its source brand.
type ProductRankingEntry struct {
	ProductName    string          `json:"product_name"`
	Brand          string          `json:"brand"`
	TotalGMV       decimal.Decimal `json:"total_gmv"`
	TotalOrders    int64           `json:"total_orders"`
	TotalItemsSold int64           `json:"total_items_sold"`
}

// VideoRankingEntry is a video row tagged with its source brand.
type VideoRankingEntry struct {
	VideoID     string          `json:"video_id"`
	VideoTitle  string          `json:"video_title"`
	CreatorName string          `json:"creator_name"`
	Brand       string          `json:"brand"`
	TotalGMV    decimal.Decimal `json:"total_gmv"`
	TotalOrders int64           `json:"total_orders"`
	DaysActive  int64           `json:"days_active"`
}

// TrendPoint is one merged day of the cross-brand trend. Every configured
// brand is present in Brands, zero-filled when the brand had no sales.
type TrendPoint struct {
	Date   string                     `json:"date"`
	Brands map[string]decimal.Decimal `json:"brands"`
}

// PeriodComparison is a current-vs-prior delta for one metric of one brand.
// PctChange is nil only when both periods are zero.
type PeriodComparison struct {
	Metric    string           `json:"metric"`
	Brand     string           `json:"brand"`
	Current   decimal.Decimal  `json:"current"`
	Previous  decimal.Decimal  `json:"previous"`
	PctChange *decimal.Decimal `json:"pct_change"`
}

// AlertRecord is a derived alert. ID is stable per brand+metric+direction and
// regenerated on every request; alerts are never persisted.
type AlertRecord struct {
	ID       string              `json:"id"`
	Brand    string              `json:"brand"`
	Metric   string              `json:"metric"`
	Change   decimal.Decimal     `json:"change"`
	Severity enums.AlertSeverity `json:"severity"`
	Message  string              `json:"message"`
}

// NarrativeBrief is the ordered narrative summary plus the stricter risk-flag
// list, which is independent of the alert tiers.
type NarrativeBrief struct {
	Lines     []string `json:"lines"`
	RiskFlags []string `json:"risk_flags"`
}
