package main

import (
	"fmt"
	"strings"
)

// languageProfile holds the per-language text the pipeline depends on
type languageProfile struct {
	ResponseDirective string // Instruction selecting the response language
	DisclaimerMarker  string // Bold label that starts the trailing disclaimer
	DisclaimerText    string // Exact disclaimer the generator is asked to append
}

var languageProfiles = map[Language]languageProfile{
	English: {
		ResponseDirective: "Respond entirely in English.",
		DisclaimerMarker:  "**Disclaimer:**",
		DisclaimerText:    "**Disclaimer:** This advice is general; consult a professional for specific financial decisions.",
	},
	Hindi: {
		ResponseDirective: "Respond entirely in Hindi, written in Devanagari script. Keep numbers in Indian digits with the ₹ symbol.",
		DisclaimerMarker:  "**अस्वीकरण:**",
		DisclaimerText:    "**अस्वीकरण:** यह सलाह सामान्य है; विशिष्ट वित्तीय निर्णयों के लिए किसी पेशेवर से परामर्श लें।",
	},
}

// SectionTopic is one required section of the generated plan
type SectionTopic struct {
	Category    SectionCategory
	Titles      map[Language]string
	Instruction string // %[1]s is replaced with the user's name
}

// Title returns the heading for lang, falling back to English
func (t SectionTopic) Title(lang Language) string {
	if title, ok := t.Titles[lang]; ok {
		return title
	}
	return t.Titles[English]
}

var (
	topicFinancialSummary = SectionTopic{
		Category:    CategorySummary,
		Titles:      map[Language]string{English: "Financial Summary", Hindi: "वित्तीय सारांश"},
		Instruction: "A brief overview of %[1]s's current financial health.",
	}
	topicSavings = SectionTopic{
		Category:    CategorySavings,
		Titles:      map[Language]string{English: "Savings and Budgeting Advice", Hindi: "बचत और बजट सलाह"},
		Instruction: "Actionable tips to improve savings and manage budget. Suggest a savings rate based on their income and expenses.",
	}
	topicInvestments = SectionTopic{
		Category:    CategoryInvestment,
		Titles:      map[Language]string{English: "Investment Suggestions", Hindi: "निवेश सुझाव"},
		Instruction: "Investment suggestions tailored to %[1]s's risk profile and goals. Include Indian-specific options like SIPs in Index Funds, ELSS for tax saving, and PPF/Sukanya Samriddhi Yojana if relevant.",
	}
	topicInvestmentAction = SectionTopic{
		Category:    CategoryInvestmentActionPlan,
		Titles:      map[Language]string{English: "Investment Action Plan", Hindi: "निवेश कार्य योजना"},
		Instruction: "A concrete month-by-month list of investment steps with suggested monthly amounts that add up to the recommended savings rate.",
	}
	topicDebt = SectionTopic{
		Category:    CategoryDebt,
		Titles:      map[Language]string{English: "Debt Repayment Plan", Hindi: "ऋण चुकौती योजना"},
		Instruction: "A strategy to repay existing debt. Prioritize debts based on interest rates (debt avalanche method). If there is no debt, state that and commend the user.",
	}
	topicTax = SectionTopic{
		Category:    CategoryTax,
		Titles:      map[Language]string{English: "Tax-Saving Advice", Hindi: "कर-बचत सलाह"},
		Instruction: "Ways to save tax under Indian laws, mentioning sections like 80C, 80D, HRA benefits, and NPS.",
	}
	topicTaxAction = SectionTopic{
		Category:    CategoryTaxActionPlan,
		Titles:      map[Language]string{English: "Tax Action Plan", Hindi: "कर कार्य योजना"},
		Instruction: "A short checklist of tax-saving steps to complete before the end of the financial year, with amounts.",
	}
	topicGlance = SectionTopic{
		Category:    CategorySummaryAtAGlance,
		Titles:      map[Language]string{English: "Summary at a Glance", Hindi: "एक नज़र में सारांश"},
		Instruction: "Three to five bullet points summarising the most important actions for %[1]s.",
	}
)

// BasicSections is the plan outline without planning directives
var BasicSections = []SectionTopic{topicFinancialSummary, topicSavings, topicInvestments, topicDebt, topicTax}

// RichSections adds action plans and a closing summary to the basic outline
var RichSections = []SectionTopic{
	topicFinancialSummary, topicSavings, topicInvestments, topicInvestmentAction,
	topicDebt, topicTax, topicTaxAction, topicGlance,
}

// PromptOptions parameterizes the Request Assembler
type PromptOptions struct {
	Language   Language
	Directives bool // Include age-bracket and inflation-adjusted goal guidance
	Sections   []SectionTopic
}

var ageBracketGuidance = map[AgeBracket]string{
	AgeYoung:         "The user is early in their career. Emphasise building an emergency fund, starting long-horizon equity SIPs early, and good budgeting habits; a higher equity share is suitable if their risk tolerance allows.",
	AgeMidCareer:     "The user is mid-career. Balance goal-based investing with faster debt reduction, adequate term and health insurance, and provisions for dependants.",
	AgePreRetirement: "The user is approaching retirement. Prioritise capital preservation, becoming debt-free before retirement, a gradual shift towards debt instruments, and the adequacy of the retirement corpus (NPS, PPF, SCSS).",
}

func formatDebts(debts []Debt) string {
	if len(debts) == 0 {
		return "No debt specified."
	}
	lines := make([]string, 0, len(debts))
	for _, d := range debts {
		debtType := d.Type
		if strings.TrimSpace(debtType) == "" {
			debtType = "N/A"
		}
		line := fmt.Sprintf("- Type: %s, Amount: %s, Interest Rate: %s%%",
			debtType, FormatRupees(d.OutstandingAmount), formatRate(d.InterestRate))
		if months, ok := d.RemainingTenureMonths.Int(); ok && months > 0 {
			line += fmt.Sprintf(", Remaining Tenure: %d months", months)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n    ")
}

func formatInvestments(investments []Investment) string {
	if len(investments) == 0 {
		return "No investments specified."
	}
	lines := make([]string, 0, len(investments))
	for _, inv := range investments {
		lines = append(lines, fmt.Sprintf("- Type: %s, Amount: %s", inv.Type, FormatRupees(inv.Amount)))
	}
	return strings.Join(lines, "\n    ")
}

func formatRate(rate float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", rate), "0"), ".")
}

func rawOr(v FormValue, fallback string) string {
	if s := strings.TrimSpace(string(v)); s != "" {
		return s
	}
	return fallback
}

// BuildPrompt renders the complete instruction payload sent to the generator
func BuildPrompt(profile *FinancialProfile, directive PlanningDirective, opts PromptOptions) string {
	lang := languageProfiles[opts.Language]
	sections := opts.Sections
	if len(sections) == 0 {
		sections = BasicSections
	}
	risk := string(profile.RiskTolerance)
	if risk == "" {
		risk = string(RiskModerate)
	}

	var b strings.Builder

	b.WriteString("You are FinanceBuddyGPT, an AI-based personal finance assistant designed for Indian users.\n")
	b.WriteString("Your job is to take basic financial inputs from users and create a personalized financial plan.\n")
	b.WriteString("Respond in a friendly, concise, and professional tone.\n")
	b.WriteString("The response should be in markdown format. Use bold for emphasis (e.g., **Key Point**) and bullet points for lists (e.g., * Item).\n")
	b.WriteString(lang.ResponseDirective + "\n\n")

	b.WriteString("Here is the user's financial data:\n")
	fmt.Fprintf(&b, "- Name: %s\n", profile.Name)
	fmt.Fprintf(&b, "- Age: %s\n", rawOr(profile.Age, "Not specified"))
	fmt.Fprintf(&b, "- Monthly Income (after tax): %s\n", FormatRupees(profile.MonthlyIncome))
	fmt.Fprintf(&b, "- Monthly Fixed Expenses: %s\n", FormatRupees(profile.FixedExpenses))
	fmt.Fprintf(&b, "- Monthly Variable Expenses: %s\n", FormatRupees(profile.VariableExpenses))
	fmt.Fprintf(&b, "- Current Savings: %s\n", FormatRupees(profile.Savings))
	fmt.Fprintf(&b, "- Existing Investments:\n    %s\n", formatInvestments(profile.CompleteInvestments()))
	fmt.Fprintf(&b, "- Financial Goals: %s (Timeframe: %s years)\n", profile.Goals, rawOr(profile.GoalTimeframe, "unspecified"))
	fmt.Fprintf(&b, "- Risk Tolerance: %s\n", risk)
	fmt.Fprintf(&b, "- Existing Debts:\n    %s\n\n", formatDebts(profile.CompleteDebts()))

	if opts.Directives {
		b.WriteString("Planning directives:\n")
		fmt.Fprintf(&b, "- Life stage (%s): %s\n", directive.AgeBracket, ageBracketGuidance[directive.AgeBracket])
		if g := directive.Goal; g != nil {
			fmt.Fprintf(&b, "- Inflation-adjusted goal: the stated goal amount of %s in %d years is equivalent to about %s at an assumed %s%% annual inflation. Plan towards the inflation-adjusted target and state the monthly investment needed to reach it.\n",
				FormatRupees(g.StatedAmount), g.Years, FormatRupees(g.InflationAdjustedAmount), formatRate(g.AnnualInflationRate*100))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Based on this data, create a personalized financial plan for %s with the following sections. Each section must start with a markdown h2 heading using exactly the heading text given (e.g., \"## %s\").\n\n",
		profile.Name, sections[0].Title(opts.Language))
	for i, topic := range sections {
		fmt.Fprintf(&b, "%d.  ## %s: %s\n", i+1, topic.Title(opts.Language), fmt.Sprintf(topic.Instruction, profile.Name))
	}

	b.WriteString("\nIMPORTANT: At the very end of your entire response, add this exact disclaimer on a new line:\n")
	fmt.Fprintf(&b, "\"%s\"\n", lang.DisclaimerText)

	return b.String()
}
