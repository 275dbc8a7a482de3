package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ProfileBuilder collects a financial profile on the terminal
type ProfileBuilder struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewProfileBuilder creates a builder reading answers from in and writing prompts to out
func NewProfileBuilder(in io.Reader, out io.Writer) *ProfileBuilder {
	return &ProfileBuilder{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// moneySuffixes are the shorthand multipliers accepted for rupee amounts.
// Longer suffixes come first so "lakh" is not read as "k".
var moneySuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"crore", crore},
	{"cr", crore},
	{"lakh", lakh},
	{"lac", lakh},
	{"l", lakh},
	{"k", 1e3},
}

// parseMoney parses rupee strings like "50k", "5 lakh", "1.2cr", "₹1,20,000"
func parseMoney(input string) (float64, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	input = strings.TrimPrefix(input, "₹")
	input = strings.TrimPrefix(input, "rs.")
	input = strings.TrimPrefix(input, "rs")
	input = strings.ReplaceAll(input, ",", "")
	input = strings.TrimSpace(input)

	multiplier := 1.0
	for _, s := range moneySuffixes {
		if strings.HasSuffix(input, s.suffix) {
			multiplier = s.multiplier
			input = strings.TrimSpace(strings.TrimSuffix(input, s.suffix))
			break
		}
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, err
	}
	return val * multiplier, nil
}

// readLine returns the next trimmed answer; EOF reads as an empty answer
func (b *ProfileBuilder) readLine() string {
	input, _ := b.reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// eof reports whether input is exhausted, so retry loops can give up
func (b *ProfileBuilder) eof() bool {
	_, err := b.reader.Peek(1)
	return err != nil
}

func (b *ProfileBuilder) retry(msg string) {
	fmt.Fprintf(b.out, "  ✗ %s\n", msg)
}

// promptString asks for a string with a default value
func (b *ProfileBuilder) promptString(prompt, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(b.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(b.out, "%s: ", prompt)
	}
	input := b.readLine()
	if input == "" {
		return defaultVal
	}
	return input
}

// promptRequired asks until a non-empty answer is given
func (b *ProfileBuilder) promptRequired(prompt string) string {
	for {
		fmt.Fprintf(b.out, "%s: ", prompt)
		input := b.readLine()
		if input != "" || b.eof() {
			return input
		}
		b.retry("This field is required")
	}
}

// promptAge asks for an age with validation (18-120); empty keeps it unset
func (b *ProfileBuilder) promptAge(prompt string) FormValue {
	for {
		fmt.Fprintf(b.out, "%s: ", prompt)
		input := b.readLine()
		if input == "" {
			return ""
		}
		val, err := strconv.Atoi(input)
		if err != nil {
			b.retry("Invalid number. Please enter a whole number")
			if b.eof() {
				return ""
			}
			continue
		}
		if err := validateAge(val, "age"); err != nil {
			b.retry(err.Error())
			if b.eof() {
				return ""
			}
			continue
		}
		return FormValue(strconv.Itoa(val))
	}
}

// promptYears asks for a whole number of years; empty keeps it unset
func (b *ProfileBuilder) promptYears(prompt string) FormValue {
	for {
		fmt.Fprintf(b.out, "%s: ", prompt)
		input := b.readLine()
		if input == "" {
			return ""
		}
		val, err := strconv.Atoi(input)
		if err != nil || val < 0 {
			b.retry("Enter a whole number of years")
			if b.eof() {
				return ""
			}
			continue
		}
		return FormValue(strconv.Itoa(val))
	}
}

// promptMoney asks for a rupee amount (accepts "50k", "5 lakh", "1cr")
func (b *ProfileBuilder) promptMoney(prompt string, defaultVal float64) float64 {
	for {
		fmt.Fprintf(b.out, "%s [%s]: ", prompt, FormatRupees(defaultVal))
		input := b.readLine()
		if input == "" {
			return defaultVal
		}
		val, err := parseMoney(input)
		if err != nil {
			b.retry("Invalid amount. Enter e.g. 85000, 50k, 5 lakh or 1.2cr")
			if b.eof() {
				return defaultVal
			}
			continue
		}
		if err := validateMoney(val, "amount"); err != nil {
			b.retry(err.Error())
			if b.eof() {
				return defaultVal
			}
			continue
		}
		return val
	}
}

// promptPercent asks for an annual rate in percent ("24" or "24%")
func (b *ProfileBuilder) promptPercent(prompt string, defaultVal float64) float64 {
	for {
		fmt.Fprintf(b.out, "%s [%s%%]: ", prompt, FormatPercent(defaultVal))
		input := strings.TrimSuffix(b.readLine(), "%")
		if input == "" {
			return defaultVal
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
		if err != nil {
			b.retry("Invalid percentage. Enter as '12' or '12%'")
			if b.eof() {
				return defaultVal
			}
			continue
		}
		if err := validatePercent(val, "interest_rate"); err != nil {
			b.retry(err.Error())
			if b.eof() {
				return defaultVal
			}
			continue
		}
		return val
	}
}

// promptYesNo asks a yes/no question
func (b *ProfileBuilder) promptYesNo(prompt string, defaultVal bool) bool {
	hint := "y/N"
	if defaultVal {
		hint = "Y/n"
	}
	fmt.Fprintf(b.out, "%s [%s]: ", prompt, hint)
	switch strings.ToLower(b.readLine()) {
	case "y", "yes", "haan", "ha":
		return true
	case "n", "no", "nahi":
		return false
	}
	return defaultVal
}

// promptRisk asks for a risk tolerance by number or name
func (b *ProfileBuilder) promptRisk(defaultVal RiskTolerance) RiskTolerance {
	options := []RiskTolerance{RiskConservative, RiskModerate, RiskAggressive}
	fmt.Fprintln(b.out, "Risk tolerance:")
	for i, opt := range options {
		fmt.Fprintf(b.out, "  %d. %s\n", i+1, opt)
	}
	for {
		fmt.Fprintf(b.out, "Choose [%s]: ", defaultVal)
		input := b.readLine()
		if input == "" {
			return defaultVal
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(options) {
			return options[n-1]
		}
		for _, opt := range options {
			if strings.EqualFold(input, string(opt)) {
				return opt
			}
		}
		b.retry("Enter 1, 2 or 3")
		if b.eof() {
			return defaultVal
		}
	}
}

// Build runs the full questionnaire
func (b *ProfileBuilder) Build() *FinancialProfile {
	fmt.Fprintln(b.out, "\n=== FinanceBuddy Profile ===")
	fmt.Fprintln(b.out, "Amounts are monthly rupees. Shorthand like 50k, 5 lakh or 1.2cr is accepted.")
	fmt.Fprintln(b.out)

	profile := &FinancialProfile{}
	profile.Name = b.promptRequired("Your name")
	profile.Age = b.promptAge("Age (optional)")

	fmt.Fprintln(b.out, "\n--- Income & Expenses ---")
	profile.MonthlyIncome = b.promptMoney("Monthly income", 0)
	profile.FixedExpenses = b.promptMoney("Fixed monthly expenses (rent, EMIs, bills)", 0)
	profile.VariableExpenses = b.promptMoney("Variable monthly expenses (food, travel, shopping)", 0)
	profile.Savings = b.promptMoney("Current savings", 0)

	fmt.Fprintln(b.out, "\n--- Debts ---")
	for b.promptYesNo("Add a debt?", false) {
		debt := Debt{
			Type:              b.promptString("  Type (e.g. Home Loan, Credit Card)", ""),
			OutstandingAmount: b.promptMoney("  Outstanding amount", 0),
			InterestRate:      b.promptPercent("  Annual interest rate", 0),
		}
		debt.RemainingTenureMonths = FormValue(b.promptString("  Remaining tenure in months (optional)", ""))
		profile.Debts = append(profile.Debts, debt)
		if b.eof() {
			break
		}
	}

	fmt.Fprintln(b.out, "\n--- Investments ---")
	for b.promptYesNo("Add an investment?", false) {
		profile.Investments = append(profile.Investments, Investment{
			Type:   b.promptString("  Type (e.g. Mutual Funds, PPF, FD)", ""),
			Amount: b.promptMoney("  Current value", 0),
		})
		if b.eof() {
			break
		}
	}

	fmt.Fprintln(b.out, "\n--- Goals ---")
	profile.Goals = b.promptString("Financial goals (e.g. Buy a car for 8 lakh)", "")
	profile.GoalTimeframe = b.promptYears("Goal timeframe in years (optional)")
	profile.RiskTolerance = b.promptRisk(RiskModerate)

	return profile
}
