package diff

import (
	"strings"

	"github.com/codalotl/screendiff/internal/q/uni"
)

// Colors (ANSI) for rendered output.
const (
	reset     = "\x1b[0m"
	blackFG   = "\x1b[30m"
	pinkLine  = "\x1b[48;5;224m" // light pink for removed lines
	pinkSpan  = "\x1b[48;5;217m" // slightly darker pink for removed spans
	greenLine = "\x1b[48;5;194m" // light green for added lines
	greenSpan = "\x1b[48;5;114m" // slightly darker green for added spans
)

// RenderPretty renders lines one per output line, prefixed like a unified diff: " " for context, "-" for removed, and "+" for added. Lines are rendered as given; callers that want
// only the changed region should pass Window(lines).
//
// If color is true, removed and added lines get pink and green backgrounds, and the changed segments of paired lines (see Pairs) are highlighted with a darker shade. If color is
// false, the output is plain text.
//
// The returned string uses "\n" as separator and has no trailing newline. It is "" if lines is empty.
func RenderPretty(lines []Line, color bool) string {
	if len(lines) == 0 {
		return ""
	}

	var spansByIndex map[int][]Span
	if color {
		spansByIndex = make(map[int][]Span)
		for _, p := range Pairs(lines) {
			spansByIndex[p.Old] = p.Spans
			spansByIndex[p.New] = p.Spans
		}
	}

	out := make([]string, 0, len(lines))
	for i, ln := range lines {
		if !color {
			out = append(out, string(prefix(ln.Kind))+ln.Text)
			continue
		}
		switch ln.Kind {
		case KindContext:
			out = append(out, " "+ln.Text)
		case KindRemoved:
			content := highlight(ln.Text, spansByIndex[i], '-', pinkLine)
			out = append(out, blackFG+pinkLine+"-"+content+reset)
		case KindAdded:
			content := highlight(ln.Text, spansByIndex[i], '+', greenLine)
			out = append(out, blackFG+greenLine+"+"+content+reset)
		}
	}
	return strings.Join(out, defaultEOL)
}

// highlight renders one side of a paired line with its changed spans emphasized. With no spans, text is returned unchanged.
func highlight(text string, spans []Span, tag byte, baseBg string) string {
	if len(spans) == 0 {
		return text
	}
	spanBg := pinkSpan
	if tag == '+' {
		spanBg = greenSpan
	}
	var b strings.Builder
	for _, sp := range spans {
		segment := sp.OldText
		if tag == '+' {
			segment = sp.NewText
		}
		if segment == "" {
			continue
		}
		if sp.Op == OpEqual {
			b.WriteString(segment)
			continue
		}
		// Emphasize the segment, then reapply the line's base colors.
		b.WriteString(reset)
		b.WriteString(blackFG)
		b.WriteString(spanBg)
		b.WriteString(segment)
		b.WriteString(reset)
		b.WriteString(blackFG)
		b.WriteString(baseBg)
	}
	return b.String()
}

func prefix(k Kind) byte {
	switch k {
	case KindAdded:
		return '+'
	case KindRemoved:
		return '-'
	default:
		return ' '
	}
}

// RenderSideBySide renders lines as two columns, old on the left and new on the right, in a total of width terminal columns. Paired removed/added lines (see Pairs) share a row
// separated by " | "; unpaired removed lines show " < " and an empty right column; unpaired added lines show " > " and an empty left column; context rows use "   ".
//
// Cells wider than their column are truncated with an ellipsis. Widths below 11 are raised to 11. If color is true, removed cells get a pink background and added cells a green one.
func RenderSideBySide(lines []Line, width int, color bool) string {
	if len(lines) == 0 {
		return ""
	}
	const gutter = 3
	width = max(width, 11)
	col := (width - gutter) / 2

	partner := make(map[int]int)
	for _, p := range Pairs(lines) {
		partner[p.Old] = p.New
		partner[p.New] = p.Old
	}

	cell := func(text string, bg string) string {
		c := uni.Fit(text, col, nil)
		if color && bg != "" {
			return blackFG + bg + c + reset
		}
		return c
	}

	var out []string
	for i, ln := range lines {
		var left, mid, right string
		switch ln.Kind {
		case KindContext:
			left, mid, right = cell(ln.Text, ""), "   ", cell(ln.Text, "")
		case KindRemoved:
			if j, ok := partner[i]; ok {
				left, mid, right = cell(ln.Text, pinkLine), " | ", cell(lines[j].Text, greenLine)
			} else {
				left, mid, right = cell(ln.Text, pinkLine), " < ", cell("", "")
			}
		case KindAdded:
			if _, ok := partner[i]; ok {
				// Rendered on its removed partner's row.
				continue
			}
			left, mid, right = cell("", ""), " > ", cell(ln.Text, greenLine)
		}
		out = append(out, strings.TrimRight(left+mid+right, " "))
	}
	return strings.Join(out, defaultEOL)
}
