package screenconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	s := Snapshot{
		"z":    1,
		"a":    "<b>&",
		"list": []any{map[string]any{"y": true, "x": nil}},
	}
	want := `{
  "a": "<b>&",
  "list": [
    {
      "x": null,
      "y": true
    }
  ],
  "z": 1
}`
	assert.Equal(t, want, Canonical(s))
	assert.Equal(t, "null", Canonical(Snapshot(nil)))
	assert.Equal(t, "{}", Canonical(Snapshot{}))
}

func TestCanonical_EqualValuesSerializeIdentically(t *testing.T) {
	a := Snapshot{"b": []any{1.0, "x"}, "a": map[string]any{"k": "v", "j": 2.0}}
	b := Snapshot{"a": map[string]any{"j": 2.0, "k": "v"}, "b": []any{1.0, "x"}}
	assert.Equal(t, Canonical(a), Canonical(b))
}

func TestCanonical_Unencodable(t *testing.T) {
	ch := make(chan int)
	assert.NotPanics(t, func() { Canonical(map[string]any{"c": ch}) })
}

func TestSnapshotCells(t *testing.T) {
	tests := []struct {
		name   string
		snap   Snapshot
		wantOK bool
		want   []string
	}{
		{name: "nil", snap: nil},
		{name: "no cells", snap: Snapshot{"sql": "x"}},
		{name: "empty", snap: Snapshot{KeyCells: []any{}}, wantOK: true, want: []string{}},
		{
			name:   "well formed",
			snap:   Snapshot{KeyCells: []any{map[string]any{"name": "a", "type": "table"}, map[string]any{"name": "b", "type": "chart", "x": 1.0}}},
			wantOK: true,
			want:   []string{"a", "b"},
		},
		{name: "typed slice", snap: Snapshot{KeyCells: []Cell{{"name": "a", "type": "t"}}}, wantOK: true, want: []string{"a"}},
		{name: "not a list", snap: Snapshot{KeyCells: "a"}},
		{name: "element not object", snap: Snapshot{KeyCells: []any{"a"}}},
		{name: "missing name", snap: Snapshot{KeyCells: []any{map[string]any{"type": "t"}}}},
		{name: "null type", snap: Snapshot{KeyCells: []any{map[string]any{"name": "a", "type": nil}}}},
		{name: "null name", snap: Snapshot{KeyCells: []any{map[string]any{"name": nil, "type": "t"}}}},
		{name: "numeric name", snap: Snapshot{KeyCells: []any{map[string]any{"name": 1.0, "type": "t"}}}, wantOK: true, want: []string{"1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, ok := tt.snap.Cells()
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, cells)
				return
			}
			names := []string{}
			for _, c := range cells {
				names = append(names, c.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestCellType(t *testing.T) {
	assert.Equal(t, "table", Cell{"type": "table"}.Type())
	assert.Equal(t, "3", Cell{"type": 3}.Type())
	assert.Equal(t, "", Cell{}.Type())
}

func TestSnapshotWithout(t *testing.T) {
	s := Snapshot{"a": 1, KeyTimeRangeFrom: "now-1h", KeyTimeRangeTo: "now"}
	got := s.Without(KeyTimeRangeFrom, KeyTimeRangeTo)
	assert.Equal(t, Snapshot{"a": 1}, got)
	assert.Len(t, s, 3)
	assert.Nil(t, Snapshot(nil).Without("a"))
}

func TestTimeRangeOf(t *testing.T) {
	assert.Equal(t, TimeRange{From: "now-1h", To: "now"}, TimeRangeOf(Snapshot{KeyTimeRangeFrom: "now-1h", KeyTimeRangeTo: "now"}))
	assert.Equal(t, TimeRange{}, TimeRangeOf(nil))
	assert.Equal(t, TimeRange{From: ""}, TimeRangeOf(Snapshot{KeyTimeRangeFrom: nil}))
}
