package configdiff

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/codalotl/screendiff/internal/diff"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSections() []Section {
	saved := screenconfig.Snapshot{screenconfig.KeyCells: cells(
		map[string]any{"name": "a", "type": "table", "x": 1},
		map[string]any{"name": "c", "type": "log"},
	)}
	current := screenconfig.Snapshot{screenconfig.KeyCells: cells(
		map[string]any{"name": "c", "type": "log"},
		map[string]any{"name": "a", "type": "table", "x": 2},
	)}
	return Compare(saved, current, TimeRanges{})
}

func TestRenderText(t *testing.T) {
	sections := sampleSections()
	want := strings.Join([]string{
		"cells[1] — a [modified]",
		`   "name": "a",`,
		`   "type": "table",`,
		`-  "x": 1`,
		`+  "x": 2`,
		" }",
	}, "\n")
	assert.Equal(t, want, RenderText(sections, TextOptions{}))

	withUnchanged := RenderText(sections, TextOptions{ShowUnchanged: true})
	assert.True(t, strings.HasPrefix(withUnchanged, "cells[0] — c [unchanged]\n\ncells[1] — a [modified]\n"))

	assert.Equal(t, "", RenderText(nil, TextOptions{}))
}

func TestRenderText_SideBySide(t *testing.T) {
	sections := []Section{{Title: TitleTimeRange, Status: StatusModified, Lines: []diff.Line{
		rem("timeRangeFrom: now-1h"),
		add("timeRangeFrom: now-24h"),
		ctx("timeRangeTo: now"),
	}}}
	out := RenderText(sections, TextOptions{Style: StyleSideBySide, Width: 63})
	rows := strings.Split(out, "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "timeRange [modified]", rows[0])
	assert.Contains(t, rows[1], " | ")
	assert.True(t, strings.HasPrefix(rows[1], "timeRangeFrom: now-1h"))
	assert.True(t, strings.HasSuffix(rows[1], "timeRangeFrom: now-24h"))
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleSections()))

	var got struct {
		Sections []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
			Lines  []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"sections"`
		Summary Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "unchanged", got.Sections[0].Status)
	assert.NotNil(t, got.Sections[0].Lines)
	assert.Equal(t, "modified", got.Sections[1].Status)
	assert.Equal(t, "removed", got.Sections[1].Lines[2].Kind)
	assert.Equal(t, Summary{Modified: 1, Unchanged: 1}, got.Summary)

	buf.Reset()
	require.NoError(t, RenderJSON(&buf, nil))
	assert.Contains(t, buf.String(), `"sections": []`)
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(sampleSections())
	assert.Contains(t, md, "0 added, 0 removed, 1 modified, 1 unchanged.")
	assert.Contains(t, md, "## cells\\[1\\] — a (modified)\n\n```diff\n   \"name\": \"a\",\n")
	assert.Contains(t, md, "## cells\\[0\\] — c (unchanged)\n")

	assert.Contains(t, RenderMarkdown(nil), "No differences.")
}

func TestRenderMarkdown_Fence(t *testing.T) {
	sections := []Section{{Title: "x", Status: StatusModified, Lines: []diff.Line{add("```")}}}
	md := RenderMarkdown(sections)
	assert.Contains(t, md, "````diff\n+```\n````\n")
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(sampleSections())
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Configuration changes</h1>")
	assert.Contains(t, html, `<pre><code class="language-diff">`)
	assert.Contains(t, html, "cells[1] — a (modified)")
	assert.Contains(t, html, "-  &quot;x&quot;: 1")
}
