package alerts

import (
	"strings"
	"testing"

	"github.com/dcastano/brandpulse-backend/internal/insights/trend"
	"github.com/dcastano/brandpulse-backend/internal/insights/types"
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func gmvComparison(brand, change string) types.PeriodComparison {
	c := dec(change)
	return types.PeriodComparison{Metric: trend.MetricGMV, Brand: brand, PctChange: &c}
}

func TestDeriveThresholdBoundaries(t *testing.T) {
	cases := []struct {
		change string
		want   enums.AlertSeverity
		none   bool
	}{
		{"-15.0", enums.AlertSeverityCriticalDrop, false},
		{"-15.1", enums.AlertSeverityCriticalDrop, false},
		{"-14.9", enums.AlertSeverityDip, false},
		{"-5.0", enums.AlertSeverityDip, false},
		{"-4.9", "", true},
		{"9.9", "", true},
		{"10.0", enums.AlertSeverityGrowth, false},
		{"25.0", enums.AlertSeverityGrowth, false},
	}

	for _, tc := range cases {
		records := Derive([]types.PeriodComparison{gmvComparison("jiyu", tc.change)})
		if tc.none {
			if len(records) != 0 {
				t.Errorf("change %s: expected no alert, got %+v", tc.change, records)
			}
			continue
		}
		if len(records) != 1 {
			t.Fatalf("change %s: expected one alert, got %d", tc.change, len(records))
		}
		if records[0].Severity != tc.want {
			t.Errorf("change %s: severity %s, want %s", tc.change, records[0].Severity, tc.want)
		}
	}
}

func TestDeriveSkipsNoSignalAndNonGMV(t *testing.T) {
	orders := dec("-50")
	records := Derive([]types.PeriodComparison{
		{Metric: trend.MetricGMV, Brand: "jiyu", PctChange: nil},
		{Metric: trend.MetricOrders, Brand: "jiyu", PctChange: &orders},
	})
	if len(records) != 0 {
		t.Fatalf("expected no alerts, got %+v", records)
	}
}

func TestDeriveSortedAscendingBySignedChange(t *testing.T) {
	records := Derive([]types.PeriodComparison{
		gmvComparison("a", "15.0"),
		gmvComparison("b", "-30.0"),
		gmvComparison("c", "-6.0"),
		gmvComparison("d", "40.0"),
	})
	if len(records) != 4 {
		t.Fatalf("expected 4 alerts, got %d", len(records))
	}
	order := []string{records[0].Brand, records[1].Brand, records[2].Brand, records[3].Brand}
	want := []string{"b", "c", "a", "d"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("alert order %v, want %v", order, want)
		}
	}
}

func TestAlertIDStablePerDirection(t *testing.T) {
	small := Derive([]types.PeriodComparison{gmvComparison("jiyu", "-6.0")})
	big := Derive([]types.PeriodComparison{gmvComparison("jiyu", "-40.0")})
	if small[0].ID != big[0].ID {
		t.Fatalf("drop ids should match across magnitudes: %s vs %s", small[0].ID, big[0].ID)
	}
	if small[0].ID != "jiyu:gmv:drop" {
		t.Fatalf("unexpected id %s", small[0].ID)
	}

	up := Derive([]types.PeriodComparison{gmvComparison("jiyu", "12.0")})
	if up[0].ID != "jiyu:gmv:growth" {
		t.Fatalf("unexpected growth id %s", up[0].ID)
	}
}

func TestEndToEndScenarioBoundaries(t *testing.T) {
	// jiyu 1000 -> 1200 (+20), catakor 500 -> 400 (-20).
	comparisons := []types.PeriodComparison{
		trend.Compare(trend.MetricGMV, "jiyu", dec("1200"), dec("1000")),
		trend.Compare(trend.MetricGMV, "catakor", dec("400"), dec("500")),
	}

	records := Derive(comparisons)
	if len(records) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(records))
	}
	// -20 <= -15, so catakor is critical, and sorts first.
	if records[0].Brand != "catakor" || records[0].Severity != enums.AlertSeverityCriticalDrop {
		t.Fatalf("expected catakor critical first, got %+v", records[0])
	}
	if records[1].Brand != "jiyu" || records[1].Severity != enums.AlertSeverityGrowth {
		t.Fatalf("expected jiyu growth, got %+v", records[1])
	}

	// Risk flags require strictly less than -20: exactly -20 is excluded.
	brief := ComposeBrief(types.PortfolioTotals{TotalGMV: dec("1600")}, types.PortfolioTotals{TotalGMV: dec("1500")}, comparisons, nil, nil)
	if len(brief.RiskFlags) != 0 {
		t.Fatalf("catakor at exactly -20 must not be risk-flagged: %v", brief.RiskFlags)
	}
}

func TestRiskFlagIndependentOfAlertTiers(t *testing.T) {
	// -12 is a dip alert but not a risk flag.
	dip := ComposeBrief(types.PortfolioTotals{}, types.PortfolioTotals{},
		[]types.PeriodComparison{gmvComparison("jiyu", "-12.0")}, nil, nil)
	if len(dip.RiskFlags) != 0 {
		t.Fatalf("-12 should not be risk-flagged: %v", dip.RiskFlags)
	}

	// -25 is risk-flagged even though it also alerts.
	risk := ComposeBrief(types.PortfolioTotals{}, types.PortfolioTotals{},
		[]types.PeriodComparison{gmvComparison("catakor", "-25.0")}, nil, nil)
	if len(risk.RiskFlags) != 1 || !strings.Contains(risk.RiskFlags[0], "catakor") {
		t.Fatalf("expected catakor risk flag, got %v", risk.RiskFlags)
	}
}

func TestComposeBriefCalloutsPickLargestAbsoluteChange(t *testing.T) {
	comparisons := []types.PeriodComparison{
		gmvComparison("small-move", "2.0"),
		gmvComparison("big-drop", "-45.0"),
		gmvComparison("mid-gain", "18.0"),
		gmvComparison("big-gain", "60.0"),
		gmvComparison("tiny", "0.5"),
	}
	brief := ComposeBrief(
		types.PortfolioTotals{TotalGMV: dec("5000"), UniqueCreators: 8, UniqueVideos: 19},
		types.PortfolioTotals{TotalGMV: dec("4000")},
		comparisons, nil, nil)

	// headline + 3 callouts
	if len(brief.Lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(brief.Lines), brief.Lines)
	}
	if !strings.Contains(brief.Lines[0], "Portfolio GMV $5000.00") || !strings.Contains(brief.Lines[0], "up 25.0%") {
		t.Fatalf("unexpected headline %q", brief.Lines[0])
	}
	// Callouts by |change|: big-gain, big-drop, mid-gain.
	if !strings.Contains(brief.Lines[1], "big-gain") ||
		!strings.Contains(brief.Lines[2], "big-drop") ||
		!strings.Contains(brief.Lines[3], "mid-gain") {
		t.Fatalf("callouts not chosen by magnitude: %v", brief.Lines[1:])
	}
	if len(brief.RiskFlags) != 1 || !strings.Contains(brief.RiskFlags[0], "big-drop") {
		t.Fatalf("expected big-drop risk flag, got %v", brief.RiskFlags)
	}
}

func TestComposeBriefSpotlightsAndTruncation(t *testing.T) {
	longName := strings.Repeat("x", 70)
	creator := &types.CreatorRankingEntry{CreatorName: "ana", Brand: "jiyu", TotalGMV: dec("500.00")}
	product := &types.ProductRankingEntry{ProductName: longName, Brand: "catakor", TotalGMV: dec("300.00")}

	brief := ComposeBrief(types.PortfolioTotals{TotalGMV: dec("800")}, types.PortfolioTotals{TotalGMV: dec("800")},
		nil, creator, product)

	if len(brief.Lines) != 3 {
		t.Fatalf("expected headline + 2 spotlights, got %v", brief.Lines)
	}
	if !strings.Contains(brief.Lines[1], "ana (jiyu)") {
		t.Fatalf("missing creator spotlight: %q", brief.Lines[1])
	}
	if !strings.Contains(brief.Lines[2], strings.Repeat("x", 60)+"…") {
		t.Fatalf("product name not truncated at 60 runes: %q", brief.Lines[2])
	}
	if strings.Contains(brief.Lines[2], strings.Repeat("x", 61)) {
		t.Fatalf("product name too long: %q", brief.Lines[2])
	}

	// Zero-GMV spotlights are suppressed.
	zeroCreator := &types.CreatorRankingEntry{CreatorName: "ana", TotalGMV: decimal.Zero}
	brief = ComposeBrief(types.PortfolioTotals{}, types.PortfolioTotals{}, nil, zeroCreator, nil)
	if len(brief.Lines) != 1 {
		t.Fatalf("expected headline only, got %v", brief.Lines)
	}
}
