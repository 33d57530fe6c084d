package cli

import (
	"io"
	"strings"

	"github.com/codalotl/screendiff/internal/q/uni"
)

// writeTable writes rows under header as space-aligned columns, with a row of dashes below the header. Column widths are display widths, so wide characters line up.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = uni.TextWidth(h, nil)
	}
	for _, r := range rows {
		for i, v := range r {
			if n := uni.TextWidth(v, nil); n > widths[i] {
				widths[i] = n
			}
		}
	}

	writeRow := func(values []string) error {
		var b strings.Builder
		for i, v := range values {
			if i > 0 {
				b.WriteString("  ")
			}
			if i < len(values)-1 {
				v = uni.PadRight(v, widths[i], nil)
			}
			b.WriteString(v)
		}
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if err := writeRow(header); err != nil {
		return err
	}
	dashes := make([]string, len(header))
	for i := range header {
		dashes[i] = strings.Repeat("-", widths[i])
	}
	if err := writeRow(dashes); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writeRow(r); err != nil {
			return err
		}
	}
	return nil
}
