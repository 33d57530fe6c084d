package configdiff

import (
	"sync"
	"testing"

	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/stretchr/testify/assert"
)

func TestMemo(t *testing.T) {
	var m Memo
	mk := func(x int) screenconfig.Snapshot { return screenconfig.Snapshot{"x": x} }

	first := m.Compare(mk(1), mk(2), TimeRanges{})
	assert.Len(t, first, 1)
	assert.Equal(t, 0, m.Hits())

	// Equal inputs, distinct values.
	again := m.Compare(mk(1), mk(2), TimeRanges{})
	assert.Equal(t, first, again)
	assert.Equal(t, 1, m.Hits())

	assert.Empty(t, m.Compare(mk(1), mk(1), TimeRanges{}))
	assert.Equal(t, 1, m.Hits())

	// A changed time range is a different input.
	got := m.Compare(mk(1), mk(1), TimeRanges{Current: screenconfig.TimeRange{From: "now-1h"}})
	assert.Len(t, got, 1)
	assert.Equal(t, 1, m.Hits())

	// nil and {} differ.
	assert.Equal(t, TitleNewConfiguration, m.Compare(nil, screenconfig.Snapshot{}, TimeRanges{})[0].Title)
	assert.Empty(t, m.Compare(screenconfig.Snapshot{}, screenconfig.Snapshot{}, TimeRanges{}))
}

func TestMemo_Concurrent(t *testing.T) {
	var m Memo
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			saved := screenconfig.Snapshot{"x": i % 2}
			m.Compare(saved, screenconfig.Snapshot{"x": 1}, TimeRanges{})
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Hits(), 7)
}
