package main

import "testing"

var testPlanning = PlanningConfig{
	InflationRate: 0.06,
	YoungBelow:    30,
	MidCareerUpTo: 45,
	Directives:    true,
}

func TestClassifyAge(t *testing.T) {
	tests := []struct {
		age  FormValue
		want AgeBracket
	}{
		{"18", AgeYoung},
		{"25", AgeYoung},
		{"29", AgeYoung},
		{"30", AgeMidCareer}, // Boundary belongs to MidCareer
		{"45", AgeMidCareer},
		{"46", AgePreRetirement},
		{"70", AgePreRetirement},
		{"30.0", AgeMidCareer},
		{" 27 ", AgeYoung},
		{"", DefaultAgeBracket},
		{"thirty", DefaultAgeBracket},
		{"-5", DefaultAgeBracket},
	}

	for _, tc := range tests {
		if got := ClassifyAge(tc.age, testPlanning); got != tc.want {
			t.Errorf("ClassifyAge(%q) = %s, want %s", tc.age, got, tc.want)
		}
	}
}

func TestClassifyAge_ConfiguredThresholds(t *testing.T) {
	cfg := PlanningConfig{YoungBelow: 35, MidCareerUpTo: 50}
	if got := ClassifyAge("32", cfg); got != AgeYoung {
		t.Errorf("with YoungBelow 35, age 32 = %s, want Young", got)
	}
	if got := ClassifyAge("50", cfg); got != AgeMidCareer {
		t.Errorf("with MidCareerUpTo 50, age 50 = %s, want MidCareer", got)
	}
}

func TestBuildPlanningDirective(t *testing.T) {
	profile := &FinancialProfile{
		Name:          "Priya",
		Age:           "28",
		Goals:         "Buy a car for 5 lakh",
		GoalTimeframe: "3",
	}

	d := BuildPlanningDirective(profile, testPlanning)
	if d.AgeBracket != AgeYoung {
		t.Errorf("AgeBracket = %s, want Young", d.AgeBracket)
	}
	if d.Goal == nil || d.Goal.Years != 3 {
		t.Fatalf("expected a 3 year goal projection, got %+v", d.Goal)
	}

	profile.Goals = "financial freedom"
	if d := BuildPlanningDirective(profile, testPlanning); d.Goal != nil {
		t.Errorf("goal without an amount should not be projected, got %+v", d.Goal)
	}
}
