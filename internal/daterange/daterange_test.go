package daterange

import (
	"testing"
	"time"

	"github.com/dcastano/brandpulse-backend/pkg/enums"
)

func withFrozenNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNowUTC
	timeNowUTC = func() time.Time { return now }
	t.Cleanup(func() { timeNowUTC = prev })
}

func TestResolvePresetWindows(t *testing.T) {
	// Mid-month Wednesday with a non-midnight clock to prove day truncation.
	withFrozenNow(t, time.Date(2026, time.March, 18, 14, 30, 45, 0, time.UTC))

	cases := []struct {
		token      string
		wantPreset enums.Preset
		wantStart  string
		wantEnd    string
	}{
		{"yesterday", enums.PresetYesterday, "2026-03-17", "2026-03-17"},
		{"last7", enums.PresetLast7, "2026-03-11", "2026-03-18"},
		{"last14", enums.PresetLast14, "2026-03-04", "2026-03-18"},
		{"last30", enums.PresetLast30, "2026-02-16", "2026-03-18"},
		{"thisMonth", enums.PresetThisMonth, "2026-03-01", "2026-03-18"},
		{"lastMonth", enums.PresetLastMonth, "2026-02-01", "2026-02-28"},
	}

	for _, tc := range cases {
		got := ResolvePreset(tc.token)
		if got.Preset != tc.wantPreset {
			t.Errorf("%s: preset %s, want %s", tc.token, got.Preset, tc.wantPreset)
		}
		if got.StartISO() != tc.wantStart {
			t.Errorf("%s: start %s, want %s", tc.token, got.StartISO(), tc.wantStart)
		}
		if got.EndISO() != tc.wantEnd {
			t.Errorf("%s: end %s, want %s", tc.token, got.EndISO(), tc.wantEnd)
		}
	}
}

func TestResolvePresetFallsBackOnBogusToken(t *testing.T) {
	withFrozenNow(t, time.Date(2026, time.March, 18, 9, 0, 0, 0, time.UTC))

	bogus := ResolvePreset("bogus-token")
	def := ResolvePreset("last7")

	if bogus.Preset != enums.PresetLast7 {
		t.Fatalf("expected fallback to last7, got %s", bogus.Preset)
	}
	if !bogus.Start.Equal(def.Start) || !bogus.End.Equal(def.End) {
		t.Fatalf("bogus window %s..%s differs from last7 %s..%s",
			bogus.StartISO(), bogus.EndISO(), def.StartISO(), def.EndISO())
	}
	if bogus.EndISO() != "2026-03-18" {
		t.Fatalf("end date should be today truncated to day, got %s", bogus.EndISO())
	}

	empty := ResolvePreset("")
	if empty.Preset != enums.PresetLast7 {
		t.Fatalf("expected empty token to normalize to last7, got %s", empty.Preset)
	}
}

func TestPriorPeriodMatchesInclusiveLength(t *testing.T) {
	withFrozenNow(t, time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC))

	r := ResolvePreset("last7")
	if r.Days() != 8 {
		t.Fatalf("last7 inclusive day count should be 8, got %d", r.Days())
	}

	prior := PriorPeriod(r)
	if prior.Days() != r.Days() {
		t.Fatalf("prior window length %d, want %d", prior.Days(), r.Days())
	}
	if prior.EndISO() != "2026-03-10" {
		t.Fatalf("prior window should end the day before start, got %s", prior.EndISO())
	}
	if prior.StartISO() != "2026-03-03" {
		t.Fatalf("unexpected prior start %s", prior.StartISO())
	}
}

func TestPriorPeriodSingleDay(t *testing.T) {
	withFrozenNow(t, time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC))

	r := ResolvePreset("yesterday")
	prior := PriorPeriod(r)
	if prior.StartISO() != "2026-03-16" || prior.EndISO() != "2026-03-16" {
		t.Fatalf("unexpected prior window %s..%s", prior.StartISO(), prior.EndISO())
	}
}
