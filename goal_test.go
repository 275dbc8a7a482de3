package main

import (
	"math"
	"testing"
)

// =============================================================================
// Goal Amount Parsing
// =============================================================================

func TestParseGoalAmount(t *testing.T) {
	tests := []struct {
		goal   string
		amount float64
		ok     bool
	}{
		{"Buy a car for 5 lakh", 500000, true},
		{"Buy a car for 5 Lakhs", 500000, true},
		{"House worth 2 crore", 20000000, true},
		{"House worth 1.5cr", 15000000, true},
		{"Save ₹8,00,000 for a wedding", 800000, true},
		{"Emergency fund of Rs. 300000", 300000, true},
		{"retire happily", 0, false},
		{"", 0, false},
		// The lakh pattern wins over the first bare number
		{"In 3 years, 10 lakh for studies", 1000000, true},
	}

	for _, tc := range tests {
		got, ok := ParseGoalAmount(tc.goal)
		if ok != tc.ok {
			t.Errorf("ParseGoalAmount(%q) ok = %v, want %v", tc.goal, ok, tc.ok)
			continue
		}
		if math.Abs(got-tc.amount) > 0.01 {
			t.Errorf("ParseGoalAmount(%q) = %.2f, want %.2f", tc.goal, got, tc.amount)
		}
	}
}

// =============================================================================
// Inflation Projection
// =============================================================================

func TestFutureValue(t *testing.T) {
	// 5 lakh at 6% for 3 years: 500000 × 1.191016
	got := FutureValue(500000, 0.06, 3)
	if math.Abs(got-595508) > 1 {
		t.Errorf("FutureValue = %.2f, want ~595508", got)
	}

	if got := FutureValue(100000, 0.06, 0); got != 100000 {
		t.Errorf("FutureValue with 0 years = %.2f, want 100000", got)
	}
}

func TestProjectGoal(t *testing.T) {
	proj := ProjectGoal("Buy a car for 5 lakh", "3", 0.06)
	if proj == nil {
		t.Fatal("expected a projection")
	}
	if proj.StatedAmount != 500000 || proj.Years != 3 || proj.AnnualInflationRate != 0.06 {
		t.Errorf("unexpected projection %+v", proj)
	}
	if math.Abs(proj.InflationAdjustedAmount-595508) > 1 {
		t.Errorf("InflationAdjustedAmount = %.2f, want ~595508", proj.InflationAdjustedAmount)
	}

	tests := []struct {
		name      string
		goal      string
		timeframe FormValue
	}{
		{"no amount", "retire happily", "10"},
		{"zero years", "5 lakh", "0"},
		{"negative years", "5 lakh", "-2"},
		{"missing timeframe", "5 lakh", ""},
		{"text timeframe", "5 lakh", "soon"},
	}
	for _, tc := range tests {
		if proj := ProjectGoal(tc.goal, tc.timeframe, 0.06); proj != nil {
			t.Errorf("%s: expected nil projection, got %+v", tc.name, proj)
		}
	}
}
