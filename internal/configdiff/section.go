package configdiff

import (
	"fmt"

	"github.com/codalotl/screendiff/internal/diff"
)

// Status is the outcome of comparing one unit of a configuration.
type Status int

// Section statuses.
const (
	StatusUnchanged Status = iota
	StatusModified
	StatusAdded
	StatusRemoved
)

var statusNames = [...]string{
	StatusUnchanged: "unchanged",
	StatusModified:  "modified",
	StatusAdded:     "added",
	StatusRemoved:   "removed",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("configdiff: invalid status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("configdiff: unknown status %q", string(b))
}

// Section is one labeled unit of a comparison: a cell, the configuration body, or the time range.
type Section struct {
	Title  string      `json:"title"`
	Status Status      `json:"status"`
	Lines  []diff.Line `json:"lines"`
}

// Section titles that are not derived from cell names.
const (
	TitleNewConfiguration = "New configuration"
	TitleConfiguration    = "Configuration"
	TitleTimeRange        = "timeRange"
)

func cellTitle(index int, name string) string {
	return fmt.Sprintf("cells[%d] — %s", index, name)
}

func savedCellTitle(index int, name string) string {
	return cellTitle(index, name) + " (saved)"
}
