package configdiff

import (
	"github.com/codalotl/screendiff/internal/diff"
	"github.com/codalotl/screendiff/internal/screenconfig"
)

// TimeRanges holds the saved and current time ranges of a screen. They are tracked apart from the configuration because the current range usually comes from the viewer's state
// (ex: URL parameters) rather than the edited configuration.
type TimeRanges struct {
	Saved   screenconfig.TimeRange
	Current screenconfig.TimeRange
}

// TimeRangesOf reads both time ranges from the snapshots' "timeRangeFrom" and "timeRangeTo" keys.
func TimeRangesOf(saved, current screenconfig.Snapshot) TimeRanges {
	return TimeRanges{Saved: screenconfig.TimeRangeOf(saved), Current: screenconfig.TimeRangeOf(current)}
}

// Comparer compares configurations using Differ for line diffs. The zero value is ready to use.
type Comparer struct {
	Differ diff.Differ
}

// Compare compares saved to current with a zero Comparer. See Comparer.Compare.
func Compare(saved, current screenconfig.Snapshot, timeRanges TimeRanges) []Section {
	return Comparer{}.Compare(saved, current, timeRanges)
}

// Compare returns the sections describing how current differs from saved. A nil saved means the configuration has never been saved. An empty result means there are no differences.
//
// Sections appear in this order:
//   - If saved is nil, only a "New configuration" section (status added) holding every line of current. Nothing else is compared.
//   - If either side has a well-formed cell list (see screenconfig.Snapshot.Cells): one section per current cell in order (added, modified, or unchanged), then one "(saved)"
//     section per saved cell missing from current (removed), then a "Configuration" section if the rest of the configuration differs.
//   - Otherwise, a "Configuration" section if the configurations, excluding the time range keys, differ.
//   - A "timeRange" section if the time ranges differ.
//
// Compare is total: malformed cell lists are compared as ordinary configuration.
func (c Comparer) Compare(saved, current screenconfig.Snapshot, timeRanges TimeRanges) []Section {
	if saved == nil {
		return []Section{{
			Title:  TitleNewConfiguration,
			Status: StatusAdded,
			Lines:  diff.AllAs(diff.KindAdded, screenconfig.Canonical(current)),
		}}
	}

	var sections []Section

	savedCells, savedOK := saved.Cells()
	currentCells, currentOK := current.Cells()
	if savedOK || currentOK {
		sections = append(sections, c.compareCells(savedCells, currentCells)...)
		if s, ok := c.compareBody(bodyOf(saved, savedOK), bodyOf(current, currentOK)); ok {
			sections = append(sections, s)
		}
	} else if s, ok := c.compareBody(bodyOf(saved, false), bodyOf(current, false)); ok {
		sections = append(sections, s)
	}

	if s, ok := compareTimeRanges(timeRanges); ok {
		sections = append(sections, s)
	}
	return sections
}

// compareCells matches cells by name. A side without a well-formed cell list has nil cells and contributes no matches.
func (c Comparer) compareCells(saved, current []screenconfig.Cell) []Section {
	type indexed struct {
		cell  screenconfig.Cell
		index int
	}
	savedByName := make(map[string]indexed, len(saved))
	for i, cell := range saved {
		// Later cells win when names repeat.
		savedByName[cell.Name()] = indexed{cell: cell, index: i}
	}
	currentNames := make(map[string]bool, len(current))

	var sections []Section
	for i, cell := range current {
		name := cell.Name()
		currentNames[name] = true
		title := cellTitle(i, name)
		currentText := screenconfig.Canonical(cell)

		prev, ok := savedByName[name]
		if !ok {
			sections = append(sections, Section{Title: title, Status: StatusAdded, Lines: diff.AllAs(diff.KindAdded, currentText)})
			continue
		}
		savedText := screenconfig.Canonical(prev.cell)
		if savedText == currentText {
			sections = append(sections, Section{Title: title, Status: StatusUnchanged, Lines: []diff.Line{}})
			continue
		}
		sections = append(sections, Section{Title: title, Status: StatusModified, Lines: c.Differ.Changes(savedText, currentText)})
	}

	for i, cell := range saved {
		name := cell.Name()
		if currentNames[name] {
			continue
		}
		sections = append(sections, Section{
			Title:  savedCellTitle(i, name),
			Status: StatusRemoved,
			Lines:  diff.AllAs(diff.KindRemoved, screenconfig.Canonical(cell)),
		})
	}
	return sections
}

// bodyOf returns s without its time range keys and, if withoutCells, without its cell list.
func bodyOf(s screenconfig.Snapshot, withoutCells bool) screenconfig.Snapshot {
	if withoutCells {
		return s.Without(screenconfig.KeyTimeRangeFrom, screenconfig.KeyTimeRangeTo, screenconfig.KeyCells)
	}
	return s.Without(screenconfig.KeyTimeRangeFrom, screenconfig.KeyTimeRangeTo)
}

func (c Comparer) compareBody(saved, current screenconfig.Snapshot) (Section, bool) {
	savedText := screenconfig.Canonical(saved)
	currentText := screenconfig.Canonical(current)
	if savedText == currentText {
		return Section{}, false
	}
	return Section{Title: TitleConfiguration, Status: StatusModified, Lines: c.Differ.Changes(savedText, currentText)}, true
}

func compareTimeRanges(tr TimeRanges) (Section, bool) {
	if tr.Saved == tr.Current {
		return Section{}, false
	}
	var lines []diff.Line
	field := func(key, saved, current string) {
		if saved == current {
			lines = append(lines, diff.Line{Kind: diff.KindContext, Text: key + ": " + current})
			return
		}
		lines = append(lines,
			diff.Line{Kind: diff.KindRemoved, Text: key + ": " + saved},
			diff.Line{Kind: diff.KindAdded, Text: key + ": " + current},
		)
	}
	field(screenconfig.KeyTimeRangeFrom, tr.Saved.From, tr.Current.From)
	field(screenconfig.KeyTimeRangeTo, tr.Saved.To, tr.Current.To)
	return Section{Title: TitleTimeRange, Status: StatusModified, Lines: lines}, true
}
