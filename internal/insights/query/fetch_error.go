package query

import "fmt"

// Named queries exposed by the reporting store. The names double as metric
// labels and FetchError identifiers.
const (
	QueryBrandSummary    = "get_brand_summary"
	QueryCreatorRankings = "get_creator_rankings"
	QueryProductSummary  = "get_product_summary"
	QueryVideoSummary    = "get_video_summary"
	QueryDailyTrend      = "get_daily_trend"
)

// FetchError reports that a single metric query for a single brand failed.
// Fetchers never retry; the aggregator isolates the failure.
type FetchError struct {
	Query string
	Brand string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s failed for brand %s: %v", e.Query, e.Brand, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
