package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		err   bool
	}{
		{"85000", 85000, false},
		{"50k", 50000, false},
		{"50K", 50000, false},
		{"5 lakh", 500000, false},
		{"2.5lac", 250000, false},
		{"3L", 300000, false},
		{"1.2cr", 12000000, false},
		{"2 crore", 20000000, false},
		{"₹1,20,000", 120000, false},
		{"Rs. 4500", 4500, false},
		{"lots", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := parseMoney(tc.input)
		if (err != nil) != tc.err {
			t.Errorf("parseMoney(%q) error = %v, wantErr %v", tc.input, err, tc.err)
			continue
		}
		if math.Abs(got-tc.want) > 0.001 {
			t.Errorf("parseMoney(%q) = %.2f, want %.2f", tc.input, got, tc.want)
		}
	}
}

func TestProfileBuilder_Build(t *testing.T) {
	answers := strings.Join([]string{
		"Priya",
		"15", // Rejected age
		"28",
		"85k",
		"30000",
		"lots", // Rejected amount
		"20k",
		"2 lakh",
		"y", "Credit Card", "50000", "36%", "12",
		"n",
		"yes", "PPF", "1.5 lakh",
		"n",
		"Buy a car for 5 lakh",
		"3",
		"3", // Aggressive
	}, "\n") + "\n"

	var out bytes.Buffer
	p := NewProfileBuilder(strings.NewReader(answers), &out).Build()

	if p.Name != "Priya" || p.Age != "28" {
		t.Errorf("name/age = %q/%q", p.Name, p.Age)
	}
	if p.MonthlyIncome != 85000 || p.FixedExpenses != 30000 || p.VariableExpenses != 20000 || p.Savings != 200000 {
		t.Errorf("amounts = %+v", p)
	}
	if len(p.Debts) != 1 || p.Debts[0].Type != "Credit Card" || p.Debts[0].InterestRate != 36 || p.Debts[0].RemainingTenureMonths != "12" {
		t.Errorf("debts = %+v", p.Debts)
	}
	if len(p.Investments) != 1 || p.Investments[0].Amount != 150000 {
		t.Errorf("investments = %+v", p.Investments)
	}
	if p.Goals != "Buy a car for 5 lakh" || p.GoalTimeframe != "3" {
		t.Errorf("goal = %q in %q", p.Goals, p.GoalTimeframe)
	}
	if p.RiskTolerance != RiskAggressive {
		t.Errorf("risk = %s", p.RiskTolerance)
	}

	prompts := out.String()
	if !strings.Contains(prompts, "✗ Age must be between 18 and 120") {
		t.Error("invalid age should be reported")
	}
	if !strings.Contains(prompts, "✗ Invalid amount") {
		t.Error("invalid amount should be reported")
	}
	if err := ValidateProfile(p, English); err != nil {
		t.Errorf("built profile should validate: %v", err)
	}
}

func TestProfileBuilder_EOF(t *testing.T) {
	// Input ends after the name; every other answer takes its default
	var out bytes.Buffer
	p := NewProfileBuilder(strings.NewReader("Arjun\n"), &out).Build()

	if p.Name != "Arjun" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Age != "" || p.MonthlyIncome != 0 || len(p.Debts) != 0 {
		t.Errorf("expected defaults, got %+v", p)
	}
	if p.RiskTolerance != RiskModerate {
		t.Errorf("risk = %s, want the Moderate default", p.RiskTolerance)
	}
}
