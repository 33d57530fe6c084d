// Package diff computes line diffs between an "old" and a "new" text and renders them for humans.
//
// Representation: a diff is an ordered []Line. Each Line has a Kind:
//   - KindContext: the line is present, unchanged, in both texts.
//   - KindAdded: the line is present only in the new text.
//   - KindRemoved: the line is present only in the old text.
//
// Invariants (for the unwindowed output of LineDiff):
//   - Joining the Text of every KindContext and KindRemoved line with "\n", in order, yields the old text exactly.
//   - Joining the Text of every KindContext and KindAdded line with "\n", in order, yields the new text exactly.
//   - Diffing a text against itself yields only KindContext lines.
//
// Algorithm: texts are split on '\n' (see SplitLines), a longest-common-subsequence table is built over the two line sequences, and the table is walked backwards from the bottom-right
// corner. When stepping left (an added line) and stepping up (a removed line) are equally good, the added line is emitted first while walking backwards; in document order this places
// removed lines before the added lines that replace them. This tie-break is fixed: callers and tests may rely on it.
//
// The LCS table is O(m·n) in time and space. Inputs are expected to be configuration-sized. For inputs whose table would exceed a Differ's CellLimit, the Differ falls back to a Myers
// line diff (via diffmatchpatch); the invariants still hold but the tie-break is not guaranteed.
//
// Windowing: Window trims a diff to its changed region plus ContextMargin unchanged lines on each side. A diff with no changes windows to nil.
//
// Rendering:
//   - RenderPretty emits "+"/"-"/" " prefixed lines, optionally with ANSI colors and intra-line highlighting of the changed segments of paired removed/added lines.
//   - RenderSideBySide emits two columns (old | new) sized by terminal display width.
package diff
