package main

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	lakh  = 100000.0
	crore = 10000000.0
)

// Goal amount patterns, checked in priority order so "5 lakh" never matches as 5
var (
	lakhPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?|lac)\b`)
	crorePattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:crores?|cr)\b`)
	amountPattern = regexp.MustCompile(`(?i)(?:₹|rs\.?|inr|\$)?\s*(\d+(?:\.\d+)?)`)
)

// ParseGoalAmount extracts the first monetary amount from a free-text goal.
// Returns false when the text mentions no amount (e.g. "financial freedom").
func ParseGoalAmount(goal string) (float64, bool) {
	text := strings.TrimSpace(strings.ReplaceAll(goal, ",", ""))
	if text == "" {
		return 0, false
	}

	if m := lakhPattern.FindStringSubmatch(text); m != nil {
		return parseScaled(m[1], lakh)
	}
	if m := crorePattern.FindStringSubmatch(text); m != nil {
		return parseScaled(m[1], crore)
	}
	if m := amountPattern.FindStringSubmatch(text); m != nil {
		return parseScaled(m[1], 1)
	}
	return 0, false
}

func parseScaled(number string, multiplier float64) (float64, bool) {
	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	return v * multiplier, true
}

// FutureValue compounds a lump sum at rate for whole years: amount × (1 + rate)^years
func FutureValue(amount, rate float64, years int) float64 {
	return amount * math.Pow(1+rate, float64(years))
}

// ProjectGoal parses the goal amount and projects it forward by the inflation rate.
// Returns nil when no amount is found or the timeframe is not a positive integer.
func ProjectGoal(goal string, timeframe FormValue, inflationRate float64) *GoalProjection {
	amount, ok := ParseGoalAmount(goal)
	if !ok {
		return nil
	}
	years, ok := timeframe.Int()
	if !ok || years <= 0 {
		return nil
	}

	return &GoalProjection{
		StatedAmount:            amount,
		InflationAdjustedAmount: FutureValue(amount, inflationRate, years),
		AnnualInflationRate:     inflationRate,
		Years:                   years,
	}
}
