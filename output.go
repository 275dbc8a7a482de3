package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// rupeePrinter groups digits the Indian way (12,34,567)
var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatRupees formats a whole-rupee amount with Indian digit grouping
func FormatRupees(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-₹" + rupeePrinter.Sprintf("%d", -rounded)
	}
	return "₹" + rupeePrinter.Sprintf("%d", rounded)
}

// FormatPercent formats a share (0-100) with one decimal place, dropping ".0"
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "%"
}

var (
	colorPrimary = lipgloss.Color("#4F46E5")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarn    = lipgloss.Color("#B45309")

	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleDisclaimer = lipgloss.NewStyle().
			Foreground(colorWarn).
			Italic(true)
)

// PrintProfileHeader prints the profile summary and derived directives
func PrintProfileHeader(w io.Writer, profile *FinancialProfile, directive PlanningDirective) {
	snap := BuildSnapshot(profile)

	var lines []string
	lines = append(lines, styleTitle.Render("FinanceBuddy plan for "+profile.Name))
	lines = append(lines, fmt.Sprintf("Income %s/month | Expenses %s/month | Savings %s",
		FormatRupees(profile.MonthlyIncome), FormatRupees(profile.TotalExpenses()), FormatRupees(profile.Savings)))
	if snap.HasIncome {
		lines = append(lines, fmt.Sprintf("Fixed %s | Variable %s | Disposable %s",
			FormatPercent(snap.FixedPctOfIncome), FormatPercent(snap.VariablePctOfIncome), FormatPercent(snap.DisposablePctOfIncome)))
	}
	lines = append(lines, styleMuted.Render("Life stage: "+directive.AgeBracket.String()))
	if g := directive.Goal; g != nil {
		lines = append(lines, styleMuted.Render(fmt.Sprintf("Goal: %s in %d years ≈ %s at %s inflation",
			FormatRupees(g.StatedAmount), g.Years, FormatRupees(g.InflationAdjustedAmount), FormatPercent(g.AnnualInflationRate*100))))
	}

	fmt.Fprintln(w, styleBox.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(w)
}

// PrintPlan renders one language's plan as terminal markdown
func PrintPlan(w io.Writer, lang Language, plan *ParsedPlan, width int) error {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("terminal renderer: %w", err)
	}

	fmt.Fprintln(w, styleTitle.Render(fmt.Sprintf("── %s ──", lang)))
	for _, section := range plan.Sections {
		out, err := renderer.Render(SectionMarkdown(section))
		if err != nil {
			return fmt.Errorf("render section %q: %w", section.Title, err)
		}
		fmt.Fprint(w, out)
	}
	if plan.Disclaimer != "" {
		fmt.Fprintln(w, styleDisclaimer.Render(plan.Disclaimer))
	}
	fmt.Fprintln(w)
	return nil
}

// SectionMarkdown converts a normalized section back into markdown for terminal display
func SectionMarkdown(section PlanSection) string {
	r := strings.NewReplacer(
		listOpen, "\n",
		listClose, "\n",
		itemOpen, "* ",
		itemClose, "\n",
		lineBreak, "\n\n",
		strongOpen, "**",
		strongClose, "**",
	)
	return "## " + section.Title + "\n\n" + strings.TrimSpace(r.Replace(section.Content)) + "\n"
}
