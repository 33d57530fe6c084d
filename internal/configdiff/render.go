package configdiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/codalotl/screendiff/internal/diff"
	"github.com/yuin/goldmark"
)

// Style selects how RenderText lays out a section's lines.
type Style int

const (
	StyleUnified    Style = iota // one column with "+", "-", and " " prefixes
	StyleSideBySide              // old and new in two columns
)

// TextOptions controls RenderText.
type TextOptions struct {
	Style         Style
	Color         bool // ANSI colors
	Width         int  // total width for StyleSideBySide
	ShowUnchanged bool // include unchanged sections (as a header only)
}

// RenderText renders sections for a terminal. Each section is a header line "title [status]" followed by its lines; sections are separated by a blank line. Unchanged sections are
// omitted unless opts.ShowUnchanged. It returns "" if nothing is rendered.
func RenderText(sections []Section, opts TextOptions) string {
	var blocks []string
	for _, s := range sections {
		if s.Status == StatusUnchanged && !opts.ShowUnchanged {
			continue
		}
		header := fmt.Sprintf("%s [%s]", s.Title, s.Status)
		if opts.Color {
			header = "\x1b[1m" + header + "\x1b[0m"
		}
		var body string
		switch opts.Style {
		case StyleSideBySide:
			body = diff.RenderSideBySide(s.Lines, opts.Width, opts.Color)
		default:
			body = diff.RenderPretty(s.Lines, opts.Color)
		}
		if body == "" {
			blocks = append(blocks, header)
		} else {
			blocks = append(blocks, header+"\n"+body)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// jsonReport is the document written by RenderJSON.
type jsonReport struct {
	Sections []Section `json:"sections"`
	Summary  Summary   `json:"summary"`
}

// RenderJSON writes sections and their Summary to w as an indented JSON object {"sections": [...], "summary": {...}}.
func RenderJSON(w io.Writer, sections []Section) error {
	report := jsonReport{Sections: make([]Section, len(sections)), Summary: Summarize(sections)}
	copy(report.Sections, sections)
	for i := range report.Sections {
		if report.Sections[i].Lines == nil {
			report.Sections[i].Lines = []diff.Line{}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("configdiff: encode json: %w", err)
	}
	return nil
}

// RenderMarkdown renders sections as a markdown report: a heading per section with its status, and its lines in a "diff" fenced code block. Unchanged sections are listed without
// a code block. If there are no sections, the report says so.
func RenderMarkdown(sections []Section) string {
	var b strings.Builder
	sum := Summarize(sections)
	b.WriteString("# Configuration changes\n\n")
	if len(sections) == 0 {
		b.WriteString("No differences.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "%d added, %d removed, %d modified, %d unchanged.\n", sum.Added, sum.Removed, sum.Modified, sum.Unchanged)
	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s (%s)\n", escapeMarkdown(s.Title), s.Status)
		if len(s.Lines) == 0 {
			continue
		}
		body := diff.RenderPretty(s.Lines, false)
		fence := codeFence(body)
		fmt.Fprintf(&b, "\n%sdiff\n%s\n%s\n", fence, body, fence)
	}
	return b.String()
}

// RenderHTML renders the RenderMarkdown report as an HTML fragment.
func RenderHTML(sections []Section) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(RenderMarkdown(sections)), &buf); err != nil {
		return "", fmt.Errorf("configdiff: render html: %w", err)
	}
	return buf.String(), nil
}

// codeFence returns a backtick fence longer than any backtick run in body.
func codeFence(body string) string {
	longest, run := 0, 0
	for i := 0; i < len(body); i++ {
		if body[i] == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
