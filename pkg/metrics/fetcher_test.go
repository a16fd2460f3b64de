package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestFetcherMetricsExportsCountersAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewFetcherMetrics(reg)

	metrics.ObserveFetch("get_brand_summary", "jiyu", 120*time.Millisecond)
	metrics.IncFetchFailure("get_brand_summary", "jiyu")
	metrics.ObserveAggregation("summary", 40*time.Millisecond)
	metrics.IncCacheHit("get_brand_summary", "jiyu")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "fetch_failures_total", "brand", "jiyu"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "fetch_cache_hits_total", "brand", "jiyu"); err != nil {
		t.Fatalf("fetch cache hits: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cache hits=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "fetch_duration_seconds", "query", "get_brand_summary"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected fetch duration sum > 0, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "aggregation_duration_seconds", "kind", "summary"); err != nil {
		t.Fatalf("aggregation duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected aggregation duration sum > 0, got %f", got)
	}
}

func TestNilReceiversAreNoOps(t *testing.T) {
	var metrics *FetcherMetrics
	metrics.ObserveFetch("q", "b", time.Second)
	metrics.IncFetchFailure("q", "b")
	metrics.ObserveAggregation("k", time.Second)
	metrics.IncCacheHit("q", "b")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
