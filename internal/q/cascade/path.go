package cascade

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~" (meaning the home directory) in path. If home is empty, os.UserHomeDir is used; if that fails too, path is returned unchanged. Works cross-OS, so
// "~\foo" is expanded on Windows.
func ExpandPath(path, home string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	if home == "" {
		home, _ = os.UserHomeDir()
		if home == "" {
			return path
		}
	}
	switch {
	case path == "~" || path == "~/" || path == `~\`:
		return home
	case strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`):
		return filepath.Join(home, path[2:])
	}
	// "~user" is not supported.
	return path
}
