package types

import "github.com/shopspring/decimal"

// Scan targets for the per-brand metric queries. The queries themselves do
// not return the brand; the aggregator tags rows after the fetch.

// SummaryRow is the single-row result of the brand summary query.
type SummaryRow struct {
	TotalGMV       decimal.Decimal `gorm:"column:total_gmv"`
	TotalOrders    int64           `gorm:"column:total_orders"`
	TotalItemsSold int64           `gorm:"column:total_items_sold"`
	UniqueCreators int64           `gorm:"column:unique_creators"`
	UniqueVideos   int64           `gorm:"column:total_videos"`
}

// CreatorRow is one creator ranking row for a single brand.
type CreatorRow struct {
	CreatorName    string          `gorm:"column:creator_name"`
	TotalGMV       decimal.Decimal `gorm:"column:total_gmv"`
	TotalOrders    int64           `gorm:"column:total_orders"`
	TotalItemsSold int64           `gorm:"column:total_items_sold"`
	DaysActive     int64           `gorm:"column:days_active"`
}

// ProductRow is one product ranking row for a single brand.
type ProductRow struct {
	ProductName    string          `gorm:"column:product_name"`
	TotalGMV       decimal.Decimal `gorm:"column:total_gmv"`
	TotalOrders    int64           `gorm:"column:total_orders"`
	TotalItemsSold int64           `gorm:"column:total_items_sold"`
}

// VideoRow is one video ranking row for a single brand.
type VideoRow struct {
	VideoID     string          `gorm:"column:video_id"`
	VideoTitle  string          `gorm:"column:video_title"`
	CreatorName string          `gorm:"column:creator_name"`
	TotalGMV    decimal.Decimal `gorm:"column:total_gmv"`
	TotalOrders int64           `gorm:"column:total_orders"`
	DaysActive  int64           `gorm:"column:days_active"`
}

// TrendRow is one day of GMV for a single brand.
type TrendRow struct {
	ReportDate string          `gorm:"column:report_date"`
	DailyGMV   decimal.Decimal `gorm:"column:daily_gmv"`
}
