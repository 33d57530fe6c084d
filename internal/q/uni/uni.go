// Package uni measures and fits text for monospace terminal columns.
package uni

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Options control width calculation.
//
// Currently only relevant for East Asian code points and their locale.
type Options struct {
	EastAsianWidth   bool // if true, treats certain East Asian code points as 2 wide (e.g., Chinese, Japanese, Korean). Use if the locale is one of CJK.
	TreatEmojiAsWide bool // Only considered if EastAsianWidth. If true, treats emoji as wide (2 columns).
}

// TextWidth returns the text width of str for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func TextWidth(str string, opts *Options) int {
	return conditionFromOptions(opts).StringWidth(str)
}

// RuneWidth returns the width of r for monospace fonts in terminals. If opts is nil, locale is assumed to be non-East Asian.
func RuneWidth(r rune, opts *Options) int {
	return conditionFromOptions(opts).RuneWidth(r)
}

// Truncate returns the longest prefix of str, cut on grapheme cluster boundaries, whose width is at most width. If str had to be cut and tail fits in width, the prefix is shortened
// further and tail is appended (ex: "…").
func Truncate(str string, width int, tail string, opts *Options) string {
	if width <= 0 {
		return ""
	}
	cond := conditionFromOptions(opts)
	if cond.StringWidth(str) <= width {
		return str
	}
	tailWidth := cond.StringWidth(tail)
	if tailWidth > width {
		tail = ""
		tailWidth = 0
	}
	limit := width - tailWidth

	var b strings.Builder
	used := 0
	iter := graphemes.FromString(str)
	for iter.Next() {
		g := iter.Value()
		w := cond.StringWidth(g)
		if used+w > limit {
			break
		}
		b.WriteString(g)
		used += w
	}
	b.WriteString(tail)
	return b.String()
}

// PadRight appends spaces to str until its width is width. It never truncates.
func PadRight(str string, width int, opts *Options) string {
	w := TextWidth(str, opts)
	if w >= width {
		return str
	}
	return str + strings.Repeat(" ", width-w)
}

// Fit truncates str to width (with an ellipsis) and pads it to exactly width columns.
func Fit(str string, width int, opts *Options) string {
	return PadRight(Truncate(str, width, "…", opts), width, opts)
}

func conditionFromOptions(opts *Options) *runewidth.Condition {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	cond.StrictEmojiNeutral = true

	if opts == nil {
		return cond
	}

	cond.EastAsianWidth = opts.EastAsianWidth
	if opts.EastAsianWidth && opts.TreatEmojiAsWide {
		cond.StrictEmojiNeutral = false
	}

	return cond
}
