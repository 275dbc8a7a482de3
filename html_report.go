package main

import (
	"fmt"
	"html"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/afero"
)

// reportLabels holds the fixed report text for one language
type reportLabels struct {
	ReportTitle      string
	SnapshotTitle    string
	AllocationTitle  string
	TotalIncome      string
	Expenses         string
	Disposable       string
	Fixed            string
	Variable         string
	BreakdownTitle   string
	TotalExpenses    string
	FixedExpenses    string
	VariableExpenses string
	Generated        string
}

var labels = map[Language]reportLabels{
	English: {
		ReportTitle:      "Your Plan",
		SnapshotTitle:    "Financial Snapshot",
		AllocationTitle:  "Income Allocation",
		TotalIncome:      "Total Income",
		Expenses:         "Expenses",
		Disposable:       "Disposable Income",
		Fixed:            "Fixed",
		Variable:         "Variable",
		BreakdownTitle:   "Expense Breakdown",
		TotalExpenses:    "Total Expenses",
		FixedExpenses:    "Fixed Expenses",
		VariableExpenses: "Variable Expenses",
		Generated:        "Generated",
	},
	Hindi: {
		ReportTitle:      "आपकी योजना",
		SnapshotTitle:    "वित्तीय स्नैपशॉट",
		AllocationTitle:  "आय का आवंटन",
		TotalIncome:      "कुल आय",
		Expenses:         "व्यय",
		Disposable:       "प्रयोज्य आय",
		Fixed:            "निश्चित",
		Variable:         "परिवर्तनीय",
		BreakdownTitle:   "व्यय का विवरण",
		TotalExpenses:    "कुल व्यय",
		FixedExpenses:    "निश्चित व्यय",
		VariableExpenses: "परिवर्तनीय व्यय",
		Generated:        "तैयार किया गया",
	},
}

func labelsFor(lang Language) reportLabels {
	if l, ok := labels[lang]; ok {
		return l
	}
	return labels[English]
}

// sectionPolicy allows only the markup produced by NormalizeBody plus light emphasis
var sectionPolicy = bluemonday.NewPolicy().AllowElements("ul", "ol", "li", "strong", "em", "b", "i", "br", "p")

// SanitizeSection strips anything from section markup that is not display markup
func SanitizeSection(content string) string {
	return sectionPolicy.Sanitize(content)
}

// Section icons (24x24 stroke paths)
var sectionIcons = map[SectionCategory]string{
	CategorySummaryAtAGlance:     `<path d="M9 11l3 3L22 4"/><path d="M21 12v7a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h11"/>`,
	CategorySummary:              `<path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><path d="M14 2v6h6M16 13H8M16 17H8M10 9H8"/>`,
	CategorySavings:              `<path d="M19 5c-1.5 0-2.8 1.4-3 2-3.5-1.5-11-.3-11 5 0 1.8 0 3 2 4.5V20h4v-2h3v2h4v-4c1-.5 1.7-1 2-2h2v-4h-2c0-1-.5-1.5-1-2V5z"/>`,
	CategoryInvestment:           `<path d="M23 6l-9.5 9.5-5-5L1 18"/><path d="M17 6h6v6"/>`,
	CategoryInvestmentActionPlan: `<path d="M3 3v18h18"/><path d="M18 17V9M13 17V5M8 17v-3"/>`,
	CategoryDebt:                 `<rect x="1" y="4" width="22" height="16" rx="2"/><path d="M1 10h22"/>`,
	CategoryTax:                  `<path d="M19 5L5 19"/><circle cx="6.5" cy="6.5" r="2.5"/><circle cx="17.5" cy="17.5" r="2.5"/>`,
	CategoryTaxActionPlan:        `<path d="M9 11l3 3L22 4"/><path d="M3 6h4M3 12h4M3 18h14"/>`,
	CategoryGeneric:              `<path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><path d="M14 2v6h6"/>`,
}

func sectionIcon(cat SectionCategory) string {
	paths, ok := sectionIcons[cat]
	if !ok {
		paths = sectionIcons[CategoryGeneric]
	}
	return `<svg class="icon" viewBox="0 0 24 24" width="24" height="24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round">` + paths + `</svg>`
}

const reportCSS = `
        :root {
            --primary: #4f46e5;
            --fixed: #3b82f6;
            --variable: #10b981;
            --disposable: #e5e7eb;
            --card-bg: #ffffff;
            --bg: #f3f4f6;
            --text: #111827;
            --text-muted: #4b5563;
            --border: #e5e7eb;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Noto Sans Devanagari', sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
        }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.08);
        }
        .card-header { display: flex; align-items: center; gap: 16px; margin-bottom: 16px; }
        .icon-wrap { padding: 12px; border-radius: 9999px; background: rgba(79,70,229,0.1); color: var(--primary); display: flex; }
        .card h2 { font-size: 20px; font-weight: 700; }
        .card h3 { font-size: 18px; font-weight: 700; margin-bottom: 8px; }
        .content { color: var(--text-muted); }
        .content strong { font-weight: 600; color: var(--text); }
        .content ul { list-style: disc; padding-left: 20px; margin: 8px 0; }
        .content li { margin-bottom: 8px; }
        .snapshot-grid { display: flex; gap: 16px; }
        .snapshot-grid > .card { flex: 1; }
        .bar { display: flex; height: 32px; border-radius: 8px; overflow: hidden; margin: 8px 0 16px; }
        .legend { font-size: 14px; }
        .legend-row { display: flex; justify-content: space-between; align-items: center; margin-bottom: 6px; }
        .legend-row.total { border-top: 1px solid var(--border); padding-top: 8px; font-weight: 700; }
        .dot { display: inline-block; width: 12px; height: 12px; border-radius: 9999px; margin-right: 8px; }
        .pie { position: relative; display: flex; justify-content: center; align-items: center; margin: 16px 0; }
        .pie svg { transform: rotate(-90deg); }
        .pie-label { position: absolute; text-align: center; }
        .pie-label span { font-size: 12px; color: var(--text-muted); }
        .pie-label p { font-size: 20px; font-weight: 700; }
        .disclaimer { font-size: 12px; color: var(--text-muted); font-style: italic; text-align: center; padding: 8px 16px; }
        .muted { color: var(--text-muted); font-size: 14px; }
`

// BuildReportBlocks returns the ordered report blocks: snapshot, sections, disclaimer
func BuildReportBlocks(profile *FinancialProfile, plan *ParsedPlan, lang Language) []Block {
	var blocks []Block

	snap := BuildSnapshot(profile)
	if snap.HasIncome || snap.HasExpenses {
		blocks = append(blocks, Block{ID: "snapshot", Kind: BlockSnapshot, HTML: snapshotHTML(snap, lang)})
	}

	for i, section := range plan.Sections {
		blocks = append(blocks, Block{
			ID:   fmt.Sprintf("section-%d", i+1),
			Kind: BlockSection,
			HTML: sectionHTML(section),
		})
	}

	if plan.Disclaimer != "" {
		blocks = append(blocks, Block{
			ID:   "disclaimer",
			Kind: BlockDisclaimer,
			HTML: `<div class="disclaimer">` + html.EscapeString(plan.Disclaimer) + `</div>`,
		})
	}
	return blocks
}

// BlockDocument wraps a block fragment in a standalone page laid out at width CSS pixels
func BlockDocument(block Block, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>%s
        body { background: #ffffff; }
    </style>
</head>
<body>
<div id="block" style="width: %dpx">
%s
</div>
</body>
</html>
`, reportCSS, width, block.HTML)
	return b.String()
}

func sectionHTML(section PlanSection) string {
	return fmt.Sprintf(`<div class="card">
    <div class="card-header">
        <div class="icon-wrap">%s</div>
        <h2>%s</h2>
    </div>
    <div class="content">%s</div>
</div>`, sectionIcon(section.Category), html.EscapeString(section.Title), SanitizeSection(section.Content))
}

func snapshotHTML(snap Snapshot, lang Language) string {
	t := labelsFor(lang)
	var b strings.Builder

	fmt.Fprintf(&b, `<div class="card"><h3>%s</h3><div class="snapshot-grid">`, html.EscapeString(t.SnapshotTitle))

	if snap.HasIncome {
		fmt.Fprintf(&b, `
<div class="card">
    <h3>%s</h3>
    <p class="muted">%s: <strong>%s</strong></p>
    <div class="bar">
        <div style="width: %.2f%%; background: var(--fixed)"></div>
        <div style="width: %.2f%%; background: var(--variable)"></div>
        <div style="width: %.2f%%; background: var(--disposable)"></div>
    </div>
    <div class="legend">
        %s
        %s
        <div class="legend-row total"><span><span class="dot" style="background: #9ca3af"></span>%s</span><span>%s (%s)</span></div>
    </div>
</div>`,
			t.AllocationTitle, t.TotalIncome, FormatRupees(snap.Income),
			clampPct(snap.FixedPctOfIncome), clampPct(snap.VariablePctOfIncome), clampPct(snap.DisposablePctOfIncome),
			legendRow("var(--fixed)", t.Fixed+" "+t.Expenses, snap.FixedExpenses, snap.FixedPctOfIncome),
			legendRow("var(--variable)", t.Variable+" "+t.Expenses, snap.VariableExpenses, snap.VariablePctOfIncome),
			t.Disposable, FormatRupees(snap.Disposable), FormatPercent(snap.DisposablePctOfIncome))
	}

	if snap.HasExpenses {
		pie := snap.ExpensePie()
		var slices string
		switch {
		case pie.FullFixed:
			slices = `<circle cx="0" cy="0" r="1" fill="#3b82f6"/>`
		case pie.FullVariable:
			slices = `<circle cx="0" cy="0" r="1" fill="#10b981"/>`
		default:
			slices = fmt.Sprintf(`<path d="%s" fill="#10b981"/><path d="%s" fill="#3b82f6"/>`, pie.VariablePath, pie.FixedPath)
		}
		fmt.Fprintf(&b, `
<div class="card">
    <h3>%s</h3>
    <div class="pie">
        <svg viewBox="-1.2 -1.2 2.4 2.4" width="192" height="192">%s<circle cx="0" cy="0" r="0.6" fill="white"/></svg>
        <div class="pie-label"><span>%s</span><p>%s</p></div>
    </div>
    <div class="legend">
        %s
        %s
    </div>
</div>`,
			t.BreakdownTitle, slices, t.TotalExpenses, FormatRupees(snap.TotalExpenses),
			legendRow("var(--fixed)", t.FixedExpenses, snap.FixedExpenses, snap.FixedPctOfExpenses),
			legendRow("var(--variable)", t.VariableExpenses, snap.VariableExpenses, snap.VariablePctOfExpenses))
	}

	b.WriteString(`</div></div>`)
	return b.String()
}

func legendRow(color, label string, amount, pct float64) string {
	return fmt.Sprintf(`<div class="legend-row"><span><span class="dot" style="background: %s"></span>%s</span><span>%s (%s)</span></div>`,
		color, html.EscapeString(label), FormatRupees(amount), FormatPercent(pct))
}

// WriteHTMLReport writes a standalone HTML report of one language's plan
func WriteHTMLReport(w io.Writer, profile *FinancialProfile, set *PlanSet, lang Language) error {
	plan, ok := set.Plans[lang]
	if !ok {
		return fmt.Errorf("no %s plan in this plan set", lang)
	}
	t := labelsFor(lang)

	htmlLang := "en"
	if lang == Hindi {
		htmlLang = "hi"
	}

	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>FinanceBuddyGPT: %s</title>
    <style>%s
        body { padding: 2rem; }
        .container { max-width: 800px; margin: 0 auto; display: flex; flex-direction: column; gap: 20px; }
        h1 { font-size: 28px; color: var(--primary); }
    </style>
</head>
<body>
<div class="container">
<h1>%s: %s</h1>
<p class="muted">%s %s</p>
`, htmlLang, html.EscapeString(profile.Name), reportCSS,
		html.EscapeString(t.ReportTitle), html.EscapeString(profile.Name),
		t.Generated, time.Now().Format("2 January 2006"))

	for _, block := range BuildReportBlocks(profile, plan, lang) {
		if _, err := fmt.Fprintf(w, "%s\n", block.HTML); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "</div>\n</body>\n</html>\n")
	return err
}

// SaveHTMLReport writes the HTML report into dir and returns its path
func SaveHTMLReport(fs afero.Fs, dir string, profile *FinancialProfile, set *PlanSet, lang Language) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(ReportFilename(profile.Name), ".pdf")+"_"+strings.ToLower(lang.String())+".html")
	f, err := fs.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteHTMLReport(f, profile, set, lang); err != nil {
		return "", err
	}
	return path, nil
}
