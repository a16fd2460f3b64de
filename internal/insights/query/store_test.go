package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dcastano/brandpulse-backend/internal/daterange"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	"github.com/dcastano/brandpulse-backend/pkg/db"
	"github.com/dcastano/brandpulse-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const createFactsTableSQL = `
CREATE TABLE sales_facts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  brand_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  order_date TEXT NOT NULL,
  creator_name TEXT NOT NULL DEFAULT '',
  creator_managed BOOLEAN NOT NULL DEFAULT 0,
  product_name TEXT NOT NULL DEFAULT '',
  video_id TEXT NOT NULL DEFAULT '',
  video_title TEXT NOT NULL DEFAULT '',
  gmv NUMERIC NOT NULL DEFAULT 0,
  item_count INTEGER NOT NULL DEFAULT 0
)`

const insertFactSQL = `
INSERT INTO sales_facts
  (brand_id, order_id, order_date, creator_name, creator_managed, product_name, video_id, video_title, gmv, item_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type fact struct {
	brand   string
	order   string
	date    string
	creator string
	managed bool
	product string
	videoID string
	video   string
	gmv     string
	items   int
}

func newTestStore(t *testing.T, limits config.RankingsConfig, facts []fact) Fetcher {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(ctx, config.DBConfig{DSN: dsn}, true, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Exec(ctx, createFactsTableSQL).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, f := range facts {
		if err := client.Exec(ctx, insertFactSQL,
			f.brand, f.order, f.date, f.creator, f.managed,
			f.product, f.videoID, f.video, f.gmv, f.items,
		).Error; err != nil {
			t.Fatalf("insert fact: %v", err)
		}
	}

	fetcher, err := NewStore(client, limits, metrics.NewFetcherMetrics(nil))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return fetcher
}

func windowFor(start, end string) daterange.Range {
	return daterange.Range{
		Start: mustDate(start),
		End:   mustDate(end),
	}
}

func mustDate(s string) time.Time {
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestBrandSummaryAggregates(t *testing.T) {
	fetcher := newTestStore(t, config.RankingsConfig{PerBrandLimit: 50, MaxLimit: 100}, []fact{
		{brand: "jiyu", order: "o1", date: "2026-03-10", creator: "ana", videoID: "v1", video: "clip one", gmv: "100.50", items: 2},
		{brand: "jiyu", order: "o1", date: "2026-03-10", creator: "ana", videoID: "v1", video: "clip one", gmv: "49.50", items: 1},
		{brand: "jiyu", order: "o2", date: "2026-03-11", creator: "bo", videoID: "v2", video: "clip two", gmv: "200.00", items: 3},
		{brand: "catakor", order: "o3", date: "2026-03-11", creator: "cy", gmv: "999.00", items: 1},
		{brand: "jiyu", order: "o4", date: "2026-03-20", creator: "ana", gmv: "500.00", items: 1}, // outside window
	})

	row, err := fetcher.BrandSummary(context.Background(), "jiyu", windowFor("2026-03-10", "2026-03-12"))
	if err != nil {
		t.Fatalf("brand summary: %v", err)
	}

	if !row.TotalGMV.Equal(decimal.RequireFromString("350.00")) {
		t.Fatalf("total gmv = %s, want 350.00", row.TotalGMV)
	}
	if row.TotalOrders != 2 {
		t.Fatalf("total orders = %d, want 2", row.TotalOrders)
	}
	if row.TotalItemsSold != 6 {
		t.Fatalf("items sold = %d, want 6", row.TotalItemsSold)
	}
	if row.UniqueCreators != 2 {
		t.Fatalf("unique creators = %d, want 2", row.UniqueCreators)
	}
	if row.UniqueVideos != 2 {
		t.Fatalf("unique videos = %d, want 2", row.UniqueVideos)
	}
}

func TestCreatorRankingsManagedOnly(t *testing.T) {
	fetcher := newTestStore(t, config.RankingsConfig{PerBrandLimit: 50, MaxLimit: 100}, []fact{
		{brand: "jiyu", order: "o1", date: "2026-03-10", creator: "ana", managed: true, gmv: "100.00", items: 1},
		{brand: "jiyu", order: "o2", date: "2026-03-11", creator: "bo", managed: false, gmv: "300.00", items: 1},
		{brand: "jiyu", order: "o3", date: "2026-03-11", creator: "ana", managed: true, gmv: "50.00", items: 1},
	})
	ctx := context.Background()
	window := windowFor("2026-03-10", "2026-03-12")

	all, err := fetcher.CreatorRankings(ctx, "jiyu", window, 0, false)
	if err != nil {
		t.Fatalf("creator rankings: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 creators, got %d", len(all))
	}
	if all[0].CreatorName != "bo" {
		t.Fatalf("expected bo ranked first by gmv, got %s", all[0].CreatorName)
	}
	if all[1].DaysActive != 2 {
		t.Fatalf("ana days active = %d, want 2", all[1].DaysActive)
	}

	managed, err := fetcher.CreatorRankings(ctx, "jiyu", window, 0, true)
	if err != nil {
		t.Fatalf("managed rankings: %v", err)
	}
	if len(managed) != 1 || managed[0].CreatorName != "ana" {
		t.Fatalf("managed_only should keep ana only, got %+v", managed)
	}
}

func TestRankingLimitClamped(t *testing.T) {
	facts := make([]fact, 0, 5)
	for i := 0; i < 5; i++ {
		facts = append(facts, fact{
			brand: "jiyu", order: fmt.Sprintf("o%d", i), date: "2026-03-10",
			product: fmt.Sprintf("product %d", i), gmv: fmt.Sprintf("%d.00", 100-i), items: 1,
		})
	}
	fetcher := newTestStore(t, config.RankingsConfig{PerBrandLimit: 3, MaxLimit: 2}, facts)
	ctx := context.Background()
	window := windowFor("2026-03-10", "2026-03-10")

	// Non-positive limit falls back to the per-brand default.
	rows, err := fetcher.ProductSummary(ctx, "jiyu", window, 0)
	if err != nil {
		t.Fatalf("product summary: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("default limit should yield 3 rows, got %d", len(rows))
	}

	// Oversized limits clamp to the configured max.
	rows, err = fetcher.ProductSummary(ctx, "jiyu", window, 10)
	if err != nil {
		t.Fatalf("product summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("oversized limit should clamp to 2 rows, got %d", len(rows))
	}
}

func TestVideoSummaryGroupsByVideoID(t *testing.T) {
	fetcher := newTestStore(t, config.RankingsConfig{PerBrandLimit: 50, MaxLimit: 100}, []fact{
		{brand: "jiyu", order: "o1", date: "2026-03-10", creator: "ana", videoID: "v1", video: "launch clip", gmv: "100.00", items: 1},
		{brand: "jiyu", order: "o2", date: "2026-03-11", creator: "ana", videoID: "v1", video: "launch clip", gmv: "80.00", items: 1},
		{brand: "jiyu", order: "o3", date: "2026-03-11", creator: "bo", videoID: "v2", video: "review", gmv: "20.00", items: 1},
	})

	rows, err := fetcher.VideoSummary(context.Background(), "jiyu", windowFor("2026-03-10", "2026-03-12"), 0)
	if err != nil {
		t.Fatalf("video summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(rows))
	}
	if rows[0].VideoID != "v1" || !rows[0].TotalGMV.Equal(decimal.RequireFromString("180.00")) {
		t.Fatalf("unexpected top video %+v", rows[0])
	}
	if rows[0].DaysActive != 2 {
		t.Fatalf("v1 days active = %d, want 2", rows[0].DaysActive)
	}
}

func TestDailyTrendSortedAscending(t *testing.T) {
	fetcher := newTestStore(t, config.RankingsConfig{PerBrandLimit: 50, MaxLimit: 100}, []fact{
		{brand: "jiyu", order: "o2", date: "2026-03-12", gmv: "30.00", items: 1},
		{brand: "jiyu", order: "o1", date: "2026-03-10", gmv: "10.00", items: 1},
		{brand: "jiyu", order: "o3", date: "2026-03-10", gmv: "5.00", items: 1},
	})

	rows, err := fetcher.DailyTrend(context.Background(), "jiyu", windowFor("2026-03-09", "2026-03-13"))
	if err != nil {
		t.Fatalf("daily trend: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 trend rows, got %d", len(rows))
	}
	if rows[0].ReportDate != "2026-03-10" || rows[1].ReportDate != "2026-03-12" {
		t.Fatalf("trend rows not ascending: %+v", rows)
	}
	if !rows[0].DailyGMV.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("day gmv = %s, want 15.00", rows[0].DailyGMV)
	}
}

func TestFetchErrorCarriesQueryName(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(ctx, config.DBConfig{DSN: dsn}, true, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	// No sales_facts table, so every query fails.
	fetcher, err := NewStore(client, config.RankingsConfig{PerBrandLimit: 50, MaxLimit: 100}, metrics.NewFetcherMetrics(nil))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	_, err = fetcher.BrandSummary(ctx, "jiyu", windowFor("2026-03-10", "2026-03-12"))
	if err == nil {
		t.Fatal("expected fetch error")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.Query != QueryBrandSummary || fe.Brand != "jiyu" {
		t.Fatalf("unexpected fetch error identity %q/%q", fe.Query, fe.Brand)
	}
	if fe.Unwrap() == nil {
		t.Fatal("fetch error should carry its cause")
	}
}
