package main

import "strings"

// Normalized markup emitted for section bodies
const (
	lineBreak   = "<br />"
	listOpen    = "<ul>"
	listClose   = "</ul>"
	itemOpen    = "<li>"
	itemClose   = "</li>"
	strongOpen  = "<strong>"
	strongClose = "</strong>"
)

type markupNodeKind int

const (
	nodeText markupNodeKind = iota
	nodeList
)

// markupNode is either one line of paragraph text or a run of list items
type markupNode struct {
	kind  markupNodeKind
	text  string
	items []string
}

type bodyState int

const (
	stateParagraph bodyState = iota
	stateListRun
	stateDone
)

// bulletItem reports whether a line is a "* item" bullet and returns the item text
func bulletItem(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < 2 || trimmed[0] != '*' || (trimmed[1] != ' ' && trimmed[1] != '\t') {
		return "", false
	}
	return strings.TrimSpace(trimmed[2:]), true
}

// tokenizeBody walks the body once and groups lines into text and list nodes.
// Blank lines between two bullets do not end a list run; any other line does.
func tokenizeBody(body string) []markupNode {
	lines := strings.Split(body, "\n")

	var nodes []markupNode
	var items []string
	blanks := 0
	state := stateParagraph

	flushList := func() {
		nodes = append(nodes, markupNode{kind: nodeList, items: items})
		items = nil
		for ; blanks > 0; blanks-- {
			nodes = append(nodes, markupNode{kind: nodeText})
		}
	}

	for i := 0; state != stateDone; i++ {
		if i == len(lines) {
			if state == stateListRun {
				flushList()
			}
			state = stateDone
			continue
		}

		line := strings.TrimRight(lines[i], "\r")
		item, isItem := bulletItem(line)

		switch state {
		case stateParagraph:
			if isItem {
				items = append(items, item)
				state = stateListRun
				continue
			}
			nodes = append(nodes, markupNode{kind: nodeText, text: line})

		case stateListRun:
			switch {
			case isItem:
				blanks = 0
				items = append(items, item)
			case strings.TrimSpace(line) == "":
				blanks++
			default:
				flushList()
				nodes = append(nodes, markupNode{kind: nodeText, text: line})
				state = stateParagraph
			}
		}
	}

	return nodes
}

// renderInline converts paired ** delimiters to strong spans; an unpaired ** stays literal
func renderInline(s string) string {
	if !strings.Contains(s, "**") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "**")
		if start < 0 {
			break
		}
		end := strings.Index(s[start+2:], "**")
		if end < 0 {
			break
		}
		b.WriteString(s[:start])
		b.WriteString(strongOpen)
		b.WriteString(s[start+2 : start+2+end])
		b.WriteString(strongClose)
		s = s[start+2+end+2:]
	}
	b.WriteString(s)
	return b.String()
}

// renderNodes emits markup; consecutive text lines are joined by a line break,
// list containers get no line break on either side.
func renderNodes(nodes []markupNode) string {
	var b strings.Builder
	for i, n := range nodes {
		switch n.kind {
		case nodeText:
			if i > 0 && nodes[i-1].kind == nodeText {
				b.WriteString(lineBreak)
			}
			b.WriteString(renderInline(n.text))
		case nodeList:
			b.WriteString(listOpen)
			for _, item := range n.items {
				b.WriteString(itemOpen)
				b.WriteString(renderInline(item))
				b.WriteString(itemClose)
			}
			b.WriteString(listClose)
		}
	}
	return b.String()
}

// NormalizeBody converts a section body from generator markdown to display markup.
// Already-normalized markup passes through unchanged.
func NormalizeBody(body string) string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if body == "" {
		return ""
	}
	return renderNodes(tokenizeBody(body))
}
