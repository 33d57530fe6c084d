package diff

import "fmt"

// Kind classifies a Line.
type Kind int

// Line kinds.
const (
	KindContext Kind = iota
	KindAdded
	KindRemoved
)

// ContextMargin is the number of unchanged lines Window keeps before the first change and after the last change.
const ContextMargin = 2

// String returns "context", "added", or "removed".
func (k Kind) String() string {
	switch k {
	case KindContext:
		return "context"
	case KindAdded:
		return "added"
	case KindRemoved:
		return "removed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes k as its String form.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindContext, KindAdded, KindRemoved:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("diff: invalid kind %d", int(k))
}

// UnmarshalText decodes the String form of a Kind.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "context":
		*k = KindContext
	case "added":
		*k = KindAdded
	case "removed":
		*k = KindRemoved
	default:
		return fmt.Errorf("diff: unknown kind %q", string(text))
	}
	return nil
}

// Line is one line of a diff. Text never contains '\n'.
type Line struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// IsChange reports whether l is an added or removed line.
func (l Line) IsChange() bool {
	return l.Kind == KindAdded || l.Kind == KindRemoved
}

// HasChanges reports whether any line in lines is added or removed.
func HasChanges(lines []Line) bool {
	for _, l := range lines {
		if l.IsChange() {
			return true
		}
	}
	return false
}

// AllAs returns one line of kind k for each line of text (see SplitLines).
//
// It is used to present an entirely new (KindAdded) or entirely deleted (KindRemoved) text.
func AllAs(k Kind, text string) []Line {
	split := SplitLines(text)
	lines := make([]Line, len(split))
	for i, s := range split {
		lines[i] = Line{Kind: k, Text: s}
	}
	return lines
}

// defaultEOL is the line separator ('\n').
const defaultEOL = "\n"
