package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

const defaultWidth = 120

// useColor resolves a color setting (auto, always, or never) for output written to w. In auto mode, color is used only when w is a terminal, NO_COLOR is unset, and TERM is not
// "dumb".
func useColor(setting string, w io.Writer, getenv func(string) string) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	}
	if getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputWidth returns the width to render at: flagWidth if positive, else the width of the terminal w is attached to, else defaultWidth.
func outputWidth(flagWidth int, w io.Writer) int {
	if flagWidth > 0 {
		return flagWidth
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return defaultWidth
}
