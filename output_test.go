package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		amount float64
		digits string
		neg    bool
	}{
		{0, "0", false},
		{999, "999", false},
		{85000, "85000", false},
		{100000, "100000", false},
		{12345678.4, "12345678", false},
		{599.5, "600", false},
		{-2500, "2500", true},
	}

	for _, tc := range tests {
		got := FormatRupees(tc.amount)
		prefix := "₹"
		if tc.neg {
			prefix = "-₹"
		}
		if !strings.HasPrefix(got, prefix) {
			t.Errorf("FormatRupees(%v) = %q, want prefix %q", tc.amount, got, prefix)
			continue
		}
		if digits := strings.ReplaceAll(strings.TrimPrefix(got, prefix), ",", ""); digits != tc.digits {
			t.Errorf("FormatRupees(%v) = %q, digits %q want %q", tc.amount, got, digits, tc.digits)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{30, "30%"},
		{33.333, "33.3%"},
		{0, "0%"},
		{-12.5, "-12.5%"},
		{99.96, "100%"},
	}
	for _, tc := range tests {
		if got := FormatPercent(tc.pct); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestSectionMarkdown(t *testing.T) {
	section := PlanSection{
		Title:   "Savings",
		Content: "Start with <strong>₹5,000</strong>.<br />Then:<ul><li>Step one</li><li>Step two</li></ul>",
	}
	got := SectionMarkdown(section)

	for _, want := range []string{"## Savings", "**₹5,000**", "* Step one", "* Step two"} {
		if !strings.Contains(got, want) {
			t.Errorf("SectionMarkdown missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup left in terminal markdown:\n%s", got)
	}
}

func TestPrintPlan(t *testing.T) {
	plan := ParsePlan("## Savings\n* Save **30%**\n\n**Disclaimer:** general advice")

	var buf bytes.Buffer
	if err := PrintPlan(&buf, English, &plan, 80); err != nil {
		t.Fatalf("PrintPlan: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"English", "Savings", "Save", "Disclaimer: general advice"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintProfileHeader(t *testing.T) {
	profile := &FinancialProfile{Name: "Priya", MonthlyIncome: 100000, FixedExpenses: 30000, VariableExpenses: 20000}
	directive := PlanningDirective{
		AgeBracket: AgeYoung,
		Goal:       &GoalProjection{StatedAmount: 500000, InflationAdjustedAmount: 595508, AnnualInflationRate: 0.06, Years: 3},
	}

	var buf bytes.Buffer
	PrintProfileHeader(&buf, profile, directive)
	out := buf.String()
	for _, want := range []string{"Priya", "Young", "3 years", "Disposable 50%"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}
