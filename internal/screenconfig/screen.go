package screenconfig

import (
	"fmt"
	"strings"
	"time"
)

// Screen is a saved, named screen as stored by the analytics web server.
type Screen struct {
	Name       string     `json:"name"`
	ScreenType string     `json:"screen_type"`
	Config     Snapshot   `json:"config"`
	CreatedBy  string     `json:"created_by,omitempty"`
	UpdatedBy  string     `json:"updated_by,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// ValidationError is a user-facing validation failure. Code is a stable, machine-readable identifier (ex: "NAME_TOO_SHORT").
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ScreenType is the kind of a screen.
type ScreenType string

// Screen types.
const (
	ScreenTypeProcessList ScreenType = "process_list"
	ScreenTypeMetrics     ScreenType = "metrics"
	ScreenTypeLog         ScreenType = "log"
	ScreenTypeNotebook    ScreenType = "notebook"
)

// ScreenTypeInfo describes a ScreenType for display.
type ScreenTypeInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// AllScreenTypes returns every ScreenType, in display order.
func AllScreenTypes() []ScreenType {
	return []ScreenType{ScreenTypeProcessList, ScreenTypeMetrics, ScreenTypeLog, ScreenTypeNotebook}
}

// ParseScreenType parses s. Unknown types yield a *ValidationError with code INVALID_SCREEN_TYPE.
func ParseScreenType(s string) (ScreenType, error) {
	for _, t := range AllScreenTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &ValidationError{
		Code:    "INVALID_SCREEN_TYPE",
		Message: fmt.Sprintf("invalid screen type '%s', expected one of: %s", s, screenTypeList()),
	}
}

func screenTypeList() string {
	names := make([]string, 0, len(AllScreenTypes()))
	for _, t := range AllScreenTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// Info returns display information for t. Unknown types return an Info with only Name set.
func (t ScreenType) Info() ScreenTypeInfo {
	switch t {
	case ScreenTypeProcessList:
		return ScreenTypeInfo{Name: string(t), DisplayName: "Process List", Icon: "list", Description: "List of processes with filtering"}
	case ScreenTypeMetrics:
		return ScreenTypeInfo{Name: string(t), DisplayName: "Metrics", Icon: "chart-line", Description: "Time series metrics visualization"}
	case ScreenTypeLog:
		return ScreenTypeInfo{Name: string(t), DisplayName: "Log", Icon: "file-text", Description: "Log entries viewer with filtering"}
	case ScreenTypeNotebook:
		return ScreenTypeInfo{Name: string(t), DisplayName: "Notebook", Icon: "notebook", Description: "Ordered cells of queries, charts, and notes"}
	default:
		return ScreenTypeInfo{Name: string(t)}
	}
}

// DefaultConfig returns a fresh default configuration for t. Unknown types return an empty Snapshot.
func (t ScreenType) DefaultConfig() Snapshot {
	switch t {
	case ScreenTypeProcessList:
		return Snapshot{"sql": "SELECT * FROM processes LIMIT 100", "variables": []any{}}
	case ScreenTypeMetrics:
		return Snapshot{"sql": "SELECT time, value FROM metrics WHERE $__timeFilter(time) ORDER BY time", "variables": []any{}}
	case ScreenTypeLog:
		return Snapshot{"sql": "SELECT time, level, target, msg FROM log_entries ORDER BY time DESC LIMIT 1000", "variables": []any{}}
	case ScreenTypeNotebook:
		return Snapshot{KeyCells: []any{}}
	default:
		return Snapshot{}
	}
}

// reservedNames cannot be used as screen names.
var reservedNames = []string{"new"}

// NormalizeName converts name into URL-friendly form: lowercase, spaces become hyphens, characters other than a-z, 0-9, and '-' are dropped, runs of hyphens collapse to one, and
// leading/trailing hyphens are trimmed. The result is not necessarily valid (see ValidateName).
func NormalizeName(name string) string {
	var b strings.Builder
	prevHyphen := false
	for _, c := range strings.ToLower(name) {
		if c == ' ' {
			c = '-'
		}
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			continue
		}
		if c == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteRune(c)
	}
	return strings.Trim(b.String(), "-")
}

// ValidateName checks name against the screen name rules and returns a *ValidationError describing the first violation:
//   - 3 to 100 characters
//   - not a reserved name
//   - starts with a lowercase letter and ends with a lowercase letter or digit
//   - only lowercase letters, digits, and hyphens, with no consecutive hyphens
func ValidateName(name string) error {
	if len(name) < 3 {
		return &ValidationError{Code: "NAME_TOO_SHORT", Message: "Screen name must be at least 3 characters"}
	}
	if len(name) > 100 {
		return &ValidationError{Code: "NAME_TOO_LONG", Message: "Screen name must be at most 100 characters"}
	}
	for _, r := range reservedNames {
		if name == r {
			return &ValidationError{Code: "RESERVED_NAME", Message: "This screen name is reserved"}
		}
	}

	isLower := func(c byte) bool { return c >= 'a' && c <= 'z' }
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }

	if !isLower(name[0]) {
		return &ValidationError{Code: "INVALID_START", Message: "Screen name must start with a lowercase letter"}
	}
	if last := name[len(name)-1]; !isLower(last) && !isDigit(last) {
		return &ValidationError{Code: "INVALID_END", Message: "Screen name must end with a letter or number"}
	}

	prevHyphen := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLower(c) && !isDigit(c) && c != '-' {
			return &ValidationError{Code: "INVALID_CHARACTER", Message: "Screen name can only contain lowercase letters, numbers, and hyphens"}
		}
		if c == '-' {
			if prevHyphen {
				return &ValidationError{Code: "CONSECUTIVE_HYPHENS", Message: "Screen name cannot contain consecutive hyphens"}
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
	}
	return nil
}
