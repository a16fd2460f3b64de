package enums

import "fmt"

// MetricKind identifies which aggregation query a dashboard request maps to.
type MetricKind string

const (
	MetricKindSummary        MetricKind = "summary"
	MetricKindCreatorRanking MetricKind = "creator_ranking"
	MetricKindProductRanking MetricKind = "product_ranking"
	MetricKindVideoRanking   MetricKind = "video_ranking"
	MetricKindDailyTrend     MetricKind = "daily_trend"
)

var validMetricKinds = []MetricKind{
	MetricKindSummary,
	MetricKindCreatorRanking,
	MetricKindProductRanking,
	MetricKindVideoRanking,
	MetricKindDailyTrend,
}

// String implements fmt.Stringer.
func (m MetricKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetricKind.
func (m MetricKind) IsValid() bool {
	for _, candidate := range validMetricKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMetricKind converts raw input into a MetricKind.
func ParseMetricKind(value string) (MetricKind, error) {
	for _, candidate := range validMetricKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metric kind %q", value)
}
