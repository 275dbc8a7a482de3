package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// RiskTolerance is the investor's stated appetite for volatility
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "Conservative"
	RiskModerate     RiskTolerance = "Moderate"
	RiskAggressive   RiskTolerance = "Aggressive"
)

// Language selects the response language of the generated plan
type Language int

const (
	English Language = iota
	Hindi
)

func (l Language) String() string {
	switch l {
	case English:
		return "English"
	case Hindi:
		return "Hindi"
	default:
		return "Unknown"
	}
}

// MarshalText lets languages be used as JSON object keys
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a language name (case-insensitive)
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLanguage converts "English"/"en"/"Hindi"/"hi" to a Language
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "hindi", "hi", "हिन्दी":
		return Hindi, nil
	}
	return English, fmt.Errorf("unknown language %q", s)
}

// AllLanguages lists every supported response language in display order
var AllLanguages = []Language{English, Hindi}

// AgeBracket classifies the user's life stage for planning directives
type AgeBracket int

const (
	AgeYoung AgeBracket = iota
	AgeMidCareer
	AgePreRetirement
)

func (a AgeBracket) String() string {
	switch a {
	case AgeYoung:
		return "Young"
	case AgeMidCareer:
		return "MidCareer"
	case AgePreRetirement:
		return "PreRetirement"
	default:
		return "Unknown"
	}
}

// MarshalText renders the bracket name in JSON output
func (a AgeBracket) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a bracket name written by MarshalText
func (a *AgeBracket) UnmarshalText(text []byte) error {
	for _, b := range []AgeBracket{AgeYoung, AgeMidCareer, AgePreRetirement} {
		if b.String() == string(text) {
			*a = b
			return nil
		}
	}
	return fmt.Errorf("unknown age bracket %q", text)
}

// FormValue is a raw numeric form field. It accepts a JSON number or string
// and keeps the text so unparseable input can degrade instead of failing.
type FormValue string

// UnmarshalJSON accepts 30, "30" and null
func (v *FormValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(strings.TrimSpace(string(data)))
	return nil
}

// UnmarshalYAML accepts any scalar, keeping its text
func (v *FormValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or text", node.Line)
	}
	if node.Tag == "!!null" {
		*v = ""
		return nil
	}
	*v = FormValue(node.Value)
	return nil
}

// Int parses the value as an integer; ok is false for empty or non-numeric text
func (v FormValue) Int() (int, bool) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// Accept "30.0" style input from number fields
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Debt is one outstanding loan in the profile
type Debt struct {
	Type                  string    `yaml:"type" json:"type"`
	OutstandingAmount     float64   `yaml:"outstanding_amount" json:"outstanding_amount" validate:"gte=0"`
	InterestRate          float64   `yaml:"interest_rate" json:"interest_rate" validate:"gte=0,lte=100"` // Annual %, e.g. 24 = 24%
	RemainingTenureMonths FormValue `yaml:"remaining_tenure_months" json:"remaining_tenure_months"`
}

// IsComplete reports whether the row carries enough data to be sent to the generator
func (d Debt) IsComplete() bool {
	return d.OutstandingAmount > 0 && d.InterestRate > 0
}

// Investment is one existing holding in the profile
type Investment struct {
	Type   string  `yaml:"type" json:"type"`
	Amount float64 `yaml:"amount" json:"amount" validate:"gte=0"`
}

// IsComplete reports whether the row carries enough data to be sent to the generator
func (i Investment) IsComplete() bool {
	return i.Amount > 0 && strings.TrimSpace(i.Type) != ""
}

// FinancialProfile is the snapshot of user-entered data for one planning request
type FinancialProfile struct {
	Name             string        `yaml:"name" json:"name" validate:"required"`
	Age              FormValue     `yaml:"age" json:"age"`
	MonthlyIncome    float64       `yaml:"monthly_income" json:"monthly_income" validate:"gte=0"`
	FixedExpenses    float64       `yaml:"fixed_expenses" json:"fixed_expenses" validate:"gte=0"`
	VariableExpenses float64       `yaml:"variable_expenses" json:"variable_expenses" validate:"gte=0"`
	Savings          float64       `yaml:"savings" json:"savings" validate:"gte=0"`
	Debts            []Debt        `yaml:"debts" json:"debts" validate:"dive"`
	Investments      []Investment  `yaml:"investments" json:"investments" validate:"dive"`
	Goals            string        `yaml:"goals" json:"goals"`
	GoalTimeframe    FormValue     `yaml:"goal_timeframe" json:"goal_timeframe"`
	RiskTolerance    RiskTolerance `yaml:"risk_tolerance" json:"risk_tolerance" validate:"omitempty,oneof=Conservative Moderate Aggressive"`
}

// TotalExpenses returns fixed plus variable monthly expenses
func (p *FinancialProfile) TotalExpenses() float64 {
	return p.FixedExpenses + p.VariableExpenses
}

// CompleteDebts returns the debt rows that have both an amount and a rate
func (p *FinancialProfile) CompleteDebts() []Debt {
	var debts []Debt
	for _, d := range p.Debts {
		if d.IsComplete() {
			debts = append(debts, d)
		}
	}
	return debts
}

// CompleteInvestments returns the investment rows that have both a type and an amount
func (p *FinancialProfile) CompleteInvestments() []Investment {
	var investments []Investment
	for _, inv := range p.Investments {
		if inv.IsComplete() {
			investments = append(investments, inv)
		}
	}
	return investments
}

// GoalProjection is the inflation-adjusted future value of a stated goal amount
type GoalProjection struct {
	StatedAmount            float64 `json:"stated_amount"`
	InflationAdjustedAmount float64 `json:"inflation_adjusted_amount"`
	AnnualInflationRate     float64 `json:"annual_inflation_rate"`
	Years                   int     `json:"years"`
}

// PlanningDirective is the derived guidance embedded in the outbound request
type PlanningDirective struct {
	AgeBracket AgeBracket      `json:"age_bracket"`
	Goal       *GoalProjection `json:"goal,omitempty"`
}

// PlanSection is one titled unit of the parsed plan
type PlanSection struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"` // Normalized markup
	Category SectionCategory `json:"category"`
}

// ParsedPlan is the structured form of one generator response
type ParsedPlan struct {
	Sections   []PlanSection `json:"sections"`
	Disclaimer string        `json:"disclaimer,omitempty"`
}

// PlanSet holds the per-language plans produced for one profile
type PlanSet struct {
	Directive PlanningDirective        `json:"directive"`
	Plans     map[Language]*ParsedPlan `json:"plans"`
	Raw       map[Language]string      `json:"-"`
}
