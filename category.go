package main

import "strings"

// SectionCategory is display metadata derived from a section title
type SectionCategory string

const (
	CategorySummaryAtAGlance     SectionCategory = "summary_at_a_glance"
	CategorySummary              SectionCategory = "summary"
	CategorySavings              SectionCategory = "savings"
	CategoryInvestmentActionPlan SectionCategory = "investment_action_plan"
	CategoryInvestment           SectionCategory = "investment"
	CategoryDebt                 SectionCategory = "debt"
	CategoryTaxActionPlan        SectionCategory = "tax_action_plan"
	CategoryTax                  SectionCategory = "tax"
	CategoryGeneric              SectionCategory = "generic"
)

type categoryRule struct {
	category SectionCategory
	keywords []string
}

// categoryRules are tested in order; the first match wins. Specific phrases
// precede the general words they contain ("Investment Action Plan" before
// "Investment", "कर-बचत" before "बचत").
var categoryRules = []categoryRule{
	{CategorySummaryAtAGlance, []string{"summary at a glance", "एक नज़र में सारांश"}},
	{CategoryInvestmentActionPlan, []string{"investment action plan", "निवेश कार्य योजना"}},
	{CategoryTaxActionPlan, []string{"tax action plan", "कर कार्य योजना"}},
	{CategoryTax, []string{"tax", "कर-बचत", "कर बचत"}},
	{CategorySummary, []string{"summary", "सारांश"}},
	{CategorySavings, []string{"savings", "budget", "बचत", "बजट"}},
	{CategoryInvestment, []string{"investment", "निवेश"}},
	{CategoryDebt, []string{"debt", "loan", "ऋण", "कर्ज"}},
}

// ClassifySection picks the display category for a section title.
// It always returns a category; unknown titles are CategoryGeneric.
func ClassifySection(title string) SectionCategory {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneric
}
