package main

import "strings"

// sectionHeading marks the start of a plan section (markdown level-2 heading)
const sectionHeading = "##"

// ParsePlan decomposes a generator response into titled sections and a disclaimer.
// It never fails: text without headings becomes a single section. Callers must
// run CheckResponse first so error payloads are not parsed as plans.
func ParsePlan(text string) ParsedPlan {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	planText, disclaimer := extractDisclaimer(text)

	fragments, found := splitSections(planText)
	if !found || len(fragments) == 0 {
		return ParsedPlan{
			Sections:   []PlanSection{wholeTextSection(planText)},
			Disclaimer: disclaimer,
		}
	}

	sections := make([]PlanSection, 0, len(fragments))
	for _, fragment := range fragments {
		title, body, _ := strings.Cut(fragment, "\n")
		title = strings.TrimSpace(title)
		sections = append(sections, PlanSection{
			Title:    title,
			Content:  NormalizeBody(body),
			Category: ClassifySection(title),
		})
	}

	return ParsedPlan{Sections: sections, Disclaimer: disclaimer}
}

// extractDisclaimer removes the trailing disclaimer block, from the first known
// marker to the end of the text, and returns it with emphasis markers stripped.
func extractDisclaimer(text string) (planText, disclaimer string) {
	start := -1
	for _, lang := range AllLanguages {
		idx := strings.Index(text, languageProfiles[lang].DisclaimerMarker)
		if idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return text, ""
	}

	disclaimer = strings.TrimSpace(strings.ReplaceAll(text[start:], "**", ""))
	return strings.TrimSpace(text[:start]), disclaimer
}

// isHeadingLine matches "## Title" but not deeper headings like "### Title"
func isHeadingLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, sectionHeading) && !strings.HasPrefix(trimmed, sectionHeading+"#")
}

// splitSections cuts the text at heading lines. Each fragment starts with its
// title line. Whitespace-only fragments are dropped. found is false when the
// text contains no heading at all.
func splitSections(text string) (fragments []string, found bool) {
	var current []string
	flush := func() {
		fragment := strings.Join(current, "\n")
		if strings.TrimSpace(fragment) != "" {
			fragments = append(fragments, fragment)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if isHeadingLine(line) {
			found = true
			flush()
			current = append(current, strings.TrimPrefix(strings.TrimLeft(line, " \t"), sectionHeading))
			continue
		}
		current = append(current, line)
	}
	flush()

	return fragments, found
}

// wholeTextSection is the degraded result for a response with no headings:
// the first line is the title and the whole text is the content.
func wholeTextSection(text string) PlanSection {
	trimmed := strings.TrimSpace(text)
	title, _, _ := strings.Cut(trimmed, "\n")
	title = strings.TrimSpace(title)
	return PlanSection{
		Title:    title,
		Content:  NormalizeBody(trimmed),
		Category: ClassifySection(title),
	}
}
