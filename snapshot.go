package main

import (
	"fmt"
	"math"
	"strconv"
)

// Snapshot is the chart data shown above the plan sections
type Snapshot struct {
	Income           float64 `json:"income"`
	FixedExpenses    float64 `json:"fixed_expenses"`
	VariableExpenses float64 `json:"variable_expenses"`
	TotalExpenses    float64 `json:"total_expenses"`
	Disposable       float64 `json:"disposable"`

	// Income allocation bar, as % of income (only when income > 0)
	HasIncome             bool    `json:"has_income"`
	FixedPctOfIncome      float64 `json:"fixed_pct_of_income"`
	VariablePctOfIncome   float64 `json:"variable_pct_of_income"`
	DisposablePctOfIncome float64 `json:"disposable_pct_of_income"`

	// Expense pie, as % of total expenses (only when expenses > 0)
	HasExpenses           bool    `json:"has_expenses"`
	FixedPctOfExpenses    float64 `json:"fixed_pct_of_expenses"`
	VariablePctOfExpenses float64 `json:"variable_pct_of_expenses"`
}

// BuildSnapshot derives the chart percentages from a profile
func BuildSnapshot(profile *FinancialProfile) Snapshot {
	s := Snapshot{
		Income:           profile.MonthlyIncome,
		FixedExpenses:    profile.FixedExpenses,
		VariableExpenses: profile.VariableExpenses,
		TotalExpenses:    profile.TotalExpenses(),
	}
	s.Disposable = s.Income - s.TotalExpenses

	if s.Income > 0 {
		s.HasIncome = true
		s.FixedPctOfIncome = s.FixedExpenses / s.Income * 100
		s.VariablePctOfIncome = s.VariableExpenses / s.Income * 100
		s.DisposablePctOfIncome = s.Disposable / s.Income * 100
	}
	if s.TotalExpenses > 0 {
		s.HasExpenses = true
		s.FixedPctOfExpenses = s.FixedExpenses / s.TotalExpenses * 100
		s.VariablePctOfExpenses = s.VariableExpenses / s.TotalExpenses * 100
	}
	return s
}

// PieSlices holds SVG path data for a two-slice pie on the unit circle.
// When one share is 100% the path is empty and FullFixed/FullVariable is set.
type PieSlices struct {
	FixedPath    string
	VariablePath string
	FullFixed    bool
	FullVariable bool
}

// pieCoordinates returns the point on the unit circle at the given fraction of a turn
func pieCoordinates(fraction float64) (x, y float64) {
	return math.Cos(2 * math.Pi * fraction), math.Sin(2 * math.Pi * fraction)
}

func svgNum(v float64) string {
	// Avoid "-0" in path data
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// ExpensePie computes the slice paths for the expense breakdown chart
func (s Snapshot) ExpensePie() PieSlices {
	if !s.HasExpenses {
		return PieSlices{}
	}
	if s.VariablePctOfExpenses == 0 {
		return PieSlices{FullFixed: true}
	}
	if s.FixedPctOfExpenses == 0 {
		return PieSlices{FullVariable: true}
	}

	x, y := pieCoordinates(s.FixedPctOfExpenses / 100)
	largeFixed, largeVariable := 0, 0
	if s.FixedPctOfExpenses > 50 {
		largeFixed = 1
	}
	if s.VariablePctOfExpenses > 50 {
		largeVariable = 1
	}
	return PieSlices{
		FixedPath:    fmt.Sprintf("M 1 0 A 1 1 0 %d 1 %s %s L 0 0", largeFixed, svgNum(x), svgNum(y)),
		VariablePath: fmt.Sprintf("M %s %s A 1 1 0 %d 1 1 0 L 0 0", svgNum(x), svgNum(y), largeVariable),
	}
}

// clampPct bounds a percentage for use as a CSS width
func clampPct(p float64) float64 {
	return math.Max(0, math.Min(100, p))
}
