package configdiff

import (
	"strings"
	"sync"

	"github.com/codalotl/screendiff/internal/screenconfig"
)

// Memo remembers the inputs and result of the last comparison and returns the remembered result when called again with equal inputs. Inputs are compared by canonical form, so a
// caller may pass freshly decoded snapshots each time.
//
// A Memo is safe for concurrent use. Returned sections are shared between calls and must not be modified.
type Memo struct {
	Comparer Comparer

	mu      sync.Mutex
	key     string
	result  []Section
	hasLast bool
	hits    int
}

// Compare is Comparer.Compare with memoization.
func (m *Memo) Compare(saved, current screenconfig.Snapshot, timeRanges TimeRanges) []Section {
	key := memoKey(saved, current, timeRanges)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasLast && m.key == key {
		m.hits++
		return m.result
	}
	m.result = m.Comparer.Compare(saved, current, timeRanges)
	m.key = key
	m.hasLast = true
	return m.result
}

// Hits returns the number of calls answered from the remembered result.
func (m *Memo) Hits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}

func memoKey(saved, current screenconfig.Snapshot, tr TimeRanges) string {
	// NUL cannot appear in canonical JSON, so the parts cannot run together.
	return strings.Join([]string{
		screenconfig.Canonical(saved),
		screenconfig.Canonical(current),
		screenconfig.Canonical(tr),
	}, "\x00")
}
