package diff

import (
	"fmt"
	"strings"
)

// validate checks the package invariants for an unwindowed diff of oldText to newText and returns an error on the first violation.
func validate(lines []Line, oldText, newText string) error {
	var oldLines, newLines []string
	for i, ln := range lines {
		if strings.Contains(ln.Text, defaultEOL) {
			return fmt.Errorf("line[%d]: Text contains EOL", i)
		}
		switch ln.Kind {
		case KindContext:
			oldLines = append(oldLines, ln.Text)
			newLines = append(newLines, ln.Text)
		case KindRemoved:
			oldLines = append(oldLines, ln.Text)
		case KindAdded:
			newLines = append(newLines, ln.Text)
		default:
			return fmt.Errorf("line[%d]: invalid kind %d", i, int(ln.Kind))
		}
	}

	if got := strings.Join(oldLines, defaultEOL); got != oldText {
		return fmt.Errorf("diff: context and removed lines do not reconstruct old text")
	}
	if got := strings.Join(newLines, defaultEOL); got != newText {
		return fmt.Errorf("diff: context and added lines do not reconstruct new text")
	}
	return nil
}
