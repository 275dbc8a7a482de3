package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected profile field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every problem found in a profile
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// expensesExceedIncome is shown when fixed plus variable expenses exceed income
var expensesExceedIncome = map[Language]string{
	English: "Your total monthly expenses exceed your monthly income. Please review your numbers.",
	Hindi:   "आपके कुल मासिक खर्चे आपकी मासिक आय से अधिक हैं। कृपया अपने नंबरों की समीक्षा करें।",
}

var validate = validator.New()

// ValidateProfile checks struct constraints and the income/expense relationship.
// Messages for the expense check are localized to lang.
func ValidateProfile(profile *FinancialProfile, lang Language) error {
	var problems ValidationErrors

	if err := validate.Struct(profile); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return &PlanError{Kind: KindValidation, Op: "validate profile", Err: err}
		}
		for _, fe := range fieldErrs {
			problems = append(problems, ValidationError{
				Field:   fe.Namespace(),
				Message: fieldMessage(fe),
			})
		}
	}

	// Negative amounts are already reported by the gte tags
	amounts := []struct {
		field  string
		amount float64
	}{
		{"monthly_income", profile.MonthlyIncome},
		{"savings", profile.Savings},
	}
	for _, a := range amounts {
		if a.amount < 0 {
			continue
		}
		if err := validateMoney(a.amount, a.field); err != nil {
			problems = append(problems, err.(ValidationError))
		}
	}
	if profile.MonthlyIncome > 0 && profile.TotalExpenses() > profile.MonthlyIncome {
		msg, ok := expensesExceedIncome[lang]
		if !ok {
			msg = expensesExceedIncome[English]
		}
		problems = append(problems, ValidationError{Field: "expenses", Message: msg})
	}

	if len(problems) > 0 {
		return &PlanError{Kind: KindValidation, Op: "validate profile", Err: problems}
	}
	return nil
}

// fieldMessage turns a validator failure into a sentence
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot be more than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	}
}

// validateAge checks if age is reasonable (18-120)
func validateAge(age int, fieldName string) error {
	if age < 18 || age > 120 {
		return ValidationError{Field: fieldName, Message: fmt.Sprintf("Age must be between 18 and 120 (got %d)", age)}
	}
	return nil
}

// validateMoney checks if amount is non-negative and reasonable
func validateMoney(amount float64, fieldName string) error {
	if amount < 0 {
		return ValidationError{Field: fieldName, Message: "Amount cannot be negative"}
	}
	if amount > 1e12 { // ₹1 lakh crore
		return ValidationError{Field: fieldName, Message: "Amount seems too large. Please check the value"}
	}
	return nil
}

// validatePercent checks an annual rate given in percent (24 = 24%)
func validatePercent(rate float64, fieldName string) error {
	if rate < 0 || rate > 100 {
		return ValidationError{Field: fieldName, Message: fmt.Sprintf("Rate must be between 0%% and 100%% (got %.1f%%)", rate)}
	}
	return nil
}
