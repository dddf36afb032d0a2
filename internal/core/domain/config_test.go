package domain

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 12, hour, minute, 0, 0, time.UTC)
}

func TestPeakHour_Contains_InclusiveBoundaries(t *testing.T) {
	window := PeakHour{Start: "12:00", End: "14:00"}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before start", at(11, 59), false},
		{"exactly at start", at(12, 0), true},
		{"inside", at(13, 30), true},
		{"exactly at end", at(14, 0), true},
		{"after end", at(14, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := window.Contains(tc.at); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestPeakHour_Contains_SecondsIgnored(t *testing.T) {
	window := PeakHour{Start: "12:00", End: "14:00"}
	// 14:00:59 is still minute-of-day 14:00 and therefore inside.
	tm := time.Date(2026, 3, 12, 14, 0, 59, 0, time.UTC)
	if !window.Contains(tm) {
		t.Error("comparison must be at minute granularity")
	}
}

func TestPeakHour_Contains_MalformedWindow(t *testing.T) {
	for _, window := range []PeakHour{
		{Start: "noon", End: "14:00"},
		{Start: "12:00", End: ""},
		{Start: "25:00", End: "26:00"},
		{Start: "12:61", End: "13:00"},
	} {
		if window.Contains(at(13, 0)) {
			t.Errorf("malformed window %+v must never match", window)
		}
	}
}

func TestPeakHour_Contains_NoMidnightWrap(t *testing.T) {
	// Start > End is treated as an empty same-day window, not an overnight one.
	window := PeakHour{Start: "22:00", End: "02:00"}
	if window.Contains(at(23, 0)) {
		t.Error("inverted window must not match")
	}
	if window.Contains(at(1, 0)) {
		t.Error("inverted window must not match after midnight either")
	}
}

func TestMatchServiceArea_EmptyListMatchesEverything(t *testing.T) {
	cfg := &ShippingConfig{}

	area, ok := cfg.MatchServiceArea("06600")
	if !ok {
		t.Fatal("empty service-area list must not restrict destinations")
	}
	if area != nil {
		t.Errorf("expected nil area for unrestricted config, got %+v", area)
	}
}

func TestMatchServiceArea_ExactMatchOnly(t *testing.T) {
	cfg := &ShippingConfig{
		ServiceAreas: []ServiceArea{
			{PostalCode: "06600"},
			{PostalCode: "72000", CustomRate: 35},
		},
	}

	if _, ok := cfg.MatchServiceArea("06600"); !ok {
		t.Error("listed postal code must match")
	}
	if _, ok := cfg.MatchServiceArea("0660"); ok {
		t.Error("prefix must not match")
	}
	if _, ok := cfg.MatchServiceArea("99999"); ok {
		t.Error("unlisted postal code must not match")
	}

	area, ok := cfg.MatchServiceArea("72000")
	if !ok || area == nil {
		t.Fatal("expected a matched area")
	}
	if area.CustomRate != 35 {
		t.Errorf("expected custom rate 35, got %v", area.CustomRate)
	}
}

func TestDistanceResult_EstimatedSeconds(t *testing.T) {
	withTraffic := DistanceResult{DurationSeconds: 600, DurationInTrafficSeconds: 840}
	if got := withTraffic.EstimatedSeconds(); got != 840 {
		t.Errorf("expected traffic-aware duration 840, got %d", got)
	}

	withoutTraffic := DistanceResult{DurationSeconds: 600}
	if got := withoutTraffic.EstimatedSeconds(); got != 600 {
		t.Errorf("expected plain duration 600, got %d", got)
	}
}

func TestDistanceResult_DistanceKm(t *testing.T) {
	d := DistanceResult{DistanceMeters: 10500}
	if got := d.DistanceKm(); got != 10.5 {
		t.Errorf("expected 10.5 km, got %v", got)
	}
}
