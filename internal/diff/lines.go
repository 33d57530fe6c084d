package diff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultCellLimit is the largest LCS table (in cells, (m+1)*(n+1)) a zero Differ builds before falling back to a Myers diff.
const DefaultCellLimit = 4_000_000

// Differ computes line diffs.
//
// Above CellLimit, lines are diffed with Myers' algorithm, which encodes each distinct line as one rune. Inputs with more distinct lines than there are runes (about 1.1M) only
// get their common prefix and suffix matched; the lines between are reported as removed, then added.
//
// The zero value is ready to use.
type Differ struct {
	// CellLimit bounds the size of the LCS table. If 0, DefaultCellLimit is used. If negative, there is no limit and the LCS table is always used.
	CellLimit int
}

// SplitLines splits text on '\n'. Empty lines are preserved, and an empty text yields a single empty line. Lines are not trimmed, and a trailing '\n' yields a trailing empty line.
func SplitLines(text string) []string {
	return strings.Split(text, defaultEOL)
}

// LineDiff diffs oldText to newText with a zero Differ. See Differ.Lines.
func LineDiff(oldText, newText string) []Line {
	return Differ{}.Lines(oldText, newText)
}

// Changes diffs oldText to newText with a zero Differ and windows the result. See Differ.Changes.
func Changes(oldText, newText string) []Line {
	return Differ{}.Changes(oldText, newText)
}

// Lines returns the full (unwindowed) line diff from oldText to newText. The result satisfies the package invariants; it panics if it does not, since that is a bug in this package.
func (d Differ) Lines(oldText, newText string) []Line {
	a := SplitLines(oldText)
	b := SplitLines(newText)

	var lines []Line
	if d.useLCS(len(a), len(b)) {
		lines = backtrack(a, b, lcsTable(a, b))
	} else {
		lines = myersLines(a, b)
	}

	if err := validate(lines, oldText, newText); err != nil {
		panic(fmt.Errorf("Differ.Lines: validate failed with %v", err))
	}
	return lines
}

// Changes returns Window(d.Lines(oldText, newText)): the changed region plus ContextMargin lines of context on each side, or nil if the texts are equal.
func (d Differ) Changes(oldText, newText string) []Line {
	return Window(d.Lines(oldText, newText))
}

func (d Differ) useLCS(m, n int) bool {
	limit := d.CellLimit
	if limit == 0 {
		limit = DefaultCellLimit
	}
	if limit < 0 {
		return true
	}
	// Compare without multiplying to avoid overflow on absurd inputs.
	return m+1 <= limit/(n+1)
}

// lcsTable returns the (len(a)+1) x (len(b)+1) table where dp[i][j] is the length of the longest common subsequence of a[:i] and b[:j].
func lcsTable(a, b []string) [][]int {
	m, n := len(a), len(b)
	cells := make([]int, (m+1)*(n+1))
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = cells[i*(n+1) : (i+1)*(n+1)]
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp
}

// backtrack walks dp from (len(a), len(b)) to (0, 0) and returns the diff in document order.
//
// On a tie between stepping left and stepping up, it steps left (emits an added line).
func backtrack(a, b []string, dp [][]int) []Line {
	i, j := len(a), len(b)
	reversed := make([]Line, 0, i+j)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1]:
			reversed = append(reversed, Line{Kind: KindContext, Text: a[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]):
			reversed = append(reversed, Line{Kind: KindAdded, Text: b[j-1]})
			j--
		default:
			reversed = append(reversed, Line{Kind: KindRemoved, Text: a[i-1]})
			i--
		}
	}
	for l, r := 0, len(reversed)-1; l < r; l, r = l+1, r-1 {
		reversed[l], reversed[r] = reversed[r], reversed[l]
	}
	return reversed
}

// Window returns the sub-slice of lines from ContextMargin lines before the first change through ContextMargin lines after the last change, clipped to bounds. If lines has no
// changes, it returns nil.
//
// The returned slice aliases lines.
func Window(lines []Line) []Line {
	first, last := -1, -1
	for i, l := range lines {
		if !l.IsChange() {
			continue
		}
		if first == -1 {
			first = i
		}
		last = i
	}
	if first == -1 {
		return nil
	}
	start := max(0, first-ContextMargin)
	end := min(len(lines)-1, last+ContextMargin)
	return lines[start : end+1]
}

// maxLineRunes is the number of distinct lines myersLines can encode: every rune except the surrogates.
const maxLineRunes = utf8.MaxRune + 1 - (0xDFFF - 0xD800 + 1)

// myersLines diffs a and b with diffmatchpatch, treating each line as a single rune. Inputs with more than maxLineRunes distinct lines are diffed with trimLines.
func myersLines(a, b []string) []Line {
	return myersLinesUpTo(a, b, maxLineRunes)
}

func myersLinesUpTo(a, b []string, distinct int) []Line {
	index := make(map[string]rune)
	encode := func(lines []string) ([]rune, bool) {
		out := make([]rune, len(lines))
		for k, s := range lines {
			r, ok := index[s]
			if !ok {
				if len(index) == distinct {
					return nil, false
				}
				r = lineRune(len(index))
				index[s] = r
			}
			out[k] = r
		}
		return out, true
	}
	ra, ok := encode(a)
	var rb []rune
	if ok {
		rb, ok = encode(b)
	}
	if !ok {
		return trimLines(a, b)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(ra, rb, false)
	diffs = dmp.DiffCleanupMerge(diffs)

	// Only the rune count of each diff is used: lines are taken positionally from a and b.
	lines := make([]Line, 0, len(a)+len(b))
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < n; k++ {
				lines = append(lines, Line{Kind: KindContext, Text: a[i]})
				i++
				j++
			}
		case diffmatchpatch.DiffDelete:
			for k := 0; k < n; k++ {
				lines = append(lines, Line{Kind: KindRemoved, Text: a[i]})
				i++
			}
		case diffmatchpatch.DiffInsert:
			for k := 0; k < n; k++ {
				lines = append(lines, Line{Kind: KindAdded, Text: b[j]})
				j++
			}
		}
	}
	return lines
}

// lineRune maps a line index to a rune, skipping the surrogate range so every rune survives a string round trip.
func lineRune(idx int) rune {
	const surrogateMin, surrogateMax = 0xD800, 0xDFFF
	r := rune(idx)
	if r >= surrogateMin {
		r += surrogateMax - surrogateMin + 1
	}
	return r
}

// trimLines keeps the common prefix and suffix of a and b as context and replaces everything between them: the rest of a removed, then the rest of b added.
func trimLines(a, b []string) []Line {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	lines := make([]Line, 0, len(a)+len(b)-pre-suf)
	for _, s := range a[:pre] {
		lines = append(lines, Line{Kind: KindContext, Text: s})
	}
	for _, s := range a[pre : len(a)-suf] {
		lines = append(lines, Line{Kind: KindRemoved, Text: s})
	}
	for _, s := range b[pre : len(b)-suf] {
		lines = append(lines, Line{Kind: KindAdded, Text: s})
	}
	for _, s := range a[len(a)-suf:] {
		lines = append(lines, Line{Kind: KindContext, Text: s})
	}
	return lines
}
