package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is an operation on a span from an old line to a new line.
type Op int

// Span operations.
const (
	OpEqual Op = iota
	OpInsert
	OpDelete
	OpReplace
)

// Span is an intra-line segment of a pair of lines (a removed line and the added line that replaced it). Spans never contain '\n'.
//
// Operations:
//   - OpEqual: OldText == NewText
//   - OpInsert: OldText == "" && NewText != ""
//   - OpDelete: OldText != "" && NewText == ""
//   - OpReplace: OldText != "" && NewText != ""
type Span struct {
	Op      Op
	OldText string
	NewText string
}

// Pair is a removed line paired with the added line that replaced it. Lines of a change block are paired in order; leftovers are unpaired.
type Pair struct {
	Old   int    // index into the diff of the removed line
	New   int    // index into the diff of the added line
	Spans []Span // concat(Spans.OldText) == old text; concat(Spans.NewText) == new text
}

// Pairs finds the paired removed/added lines in lines and computes their intra-line spans.
//
// A change block is a maximal run of removed lines immediately followed by a maximal run of added lines. The k-th removed line is paired with the k-th added line for k < min(removed,
// added).
func Pairs(lines []Line) []Pair {
	var pairs []Pair
	dmp := diffmatchpatch.New()
	for i := 0; i < len(lines); {
		if lines[i].Kind != KindRemoved {
			i++
			continue
		}
		delStart := i
		for i < len(lines) && lines[i].Kind == KindRemoved {
			i++
		}
		insStart := i
		for i < len(lines) && lines[i].Kind == KindAdded {
			i++
		}
		nDel := insStart - delStart
		nIns := i - insStart
		for k := 0; k < min(nDel, nIns); k++ {
			oldText := lines[delStart+k].Text
			newText := lines[insStart+k].Text
			diffs := dmp.DiffMain(oldText, newText, false)
			diffs = dmp.DiffCleanupSemantic(diffs)
			pairs = append(pairs, Pair{Old: delStart + k, New: insStart + k, Spans: diffsToSpans(diffs)})
		}
	}
	return pairs
}

// diffsToSpans converts diffmatchpatch diffs to spans, coalescing runs of non-equal diffs and absorbing short equal segments sandwiched between changes.
func diffsToSpans(diffs []diffmatchpatch.Diff) []Span {
	const maxSandwichedEqualLen = 8

	var spans []Span
	appendSpan := func(s Span) {
		if len(spans) == 0 {
			spans = append(spans, s)
			return
		}
		prev := &spans[len(spans)-1]
		switch {
		case prev.Op == OpEqual && s.Op == OpEqual:
			prev.OldText += s.OldText
			prev.NewText += s.NewText
		case prev.Op != OpEqual && s.Op != OpEqual:
			*prev = combineSpans(*prev, s)
		default:
			spans = append(spans, s)
		}
	}

	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			appendSpan(Span{Op: OpEqual, OldText: d.Text, NewText: d.Text})
		case diffmatchpatch.DiffDelete:
			appendSpan(Span{Op: OpDelete, OldText: d.Text})
		case diffmatchpatch.DiffInsert:
			appendSpan(Span{Op: OpInsert, NewText: d.Text})
		}
	}

	// Merge [change][short equal][change] triplets until none remain.
	for {
		changed := false
		var merged []Span
		for i := 0; i < len(spans); i++ {
			if i+2 < len(spans) && spans[i].Op != OpEqual && spans[i+1].Op == OpEqual && spans[i+2].Op != OpEqual && len(spans[i+1].OldText) <= maxSandwichedEqualLen {
				bridge := Span{Op: OpReplace, OldText: spans[i+1].OldText, NewText: spans[i+1].NewText}
				merged = append(merged, combineSpans(combineSpans(spans[i], bridge), spans[i+2]))
				i += 2
				changed = true
				continue
			}
			merged = append(merged, spans[i])
		}
		spans = coalesce(merged)
		if !changed {
			break
		}
	}
	return spans
}

// combineSpans joins two adjacent spans into one non-equal span.
func combineSpans(a, b Span) Span {
	var oldBuf, newBuf strings.Builder
	oldBuf.WriteString(a.OldText)
	oldBuf.WriteString(b.OldText)
	newBuf.WriteString(a.NewText)
	newBuf.WriteString(b.NewText)
	s := Span{OldText: oldBuf.String(), NewText: newBuf.String()}
	switch {
	case s.OldText != "" && s.NewText != "":
		s.Op = OpReplace
	case s.OldText != "":
		s.Op = OpDelete
	default:
		s.Op = OpInsert
	}
	return s
}

// coalesce merges adjacent non-equal spans.
func coalesce(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if len(out) > 0 && out[len(out)-1].Op != OpEqual && s.Op != OpEqual {
			out[len(out)-1] = combineSpans(out[len(out)-1], s)
			continue
		}
		out = append(out, s)
	}
	return out
}
