package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Local(t *testing.T) {
	h := newHarness(t)
	same := h.write("saved/same.json", `{"sql": "SELECT 1"}`)
	old := h.write("saved/cells.json", `{"cells": [{"name": "a", "type": "sql"}]}`)
	for name, path := range map[string]string{"same": same, "cells": old} {
		res := h.run("save", name, path, "--type", "notebook")
		require.Equal(t, 0, res.code, res.stderr)
	}

	dir := filepath.Join(h.wd, "screens")
	h.write("screens/same.json", `{"sql": "SELECT 1"}`)
	h.write("screens/cells.yml", "cells:\n  - name: a\n    type: sql\n  - name: b\n    type: markdown\n")
	h.write("screens/notes.txt", "not a screen")
	h.write("screens/sub/ignored.json", `{}`)

	res := h.run("status", "--local", dir)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, [][]string{
		{"cells", "modified", "1", "0", "0"},
		{"same", "clean", "0", "0", "0"},
	}, statusRows(t, res.stdout))
}

func TestStatus_Errors(t *testing.T) {
	h := newHarness(t)
	dir := filepath.Join(h.wd, "screens")
	h.write("screens/broken.json", `{"sql": `)
	h.write("screens/fine.json", `{"sql": "SELECT 1"}`)

	res := h.run("status", "--local", dir)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, [][]string{
		{"broken", "error", "-", "-", "-"},
		{"fine", "new", "1", "0", "0"},
	}, statusRows(t, res.stdout))
	assert.Contains(t, res.stderr, "broken: ")
	assert.Contains(t, res.stderr, "1 of 2 screens could not be compared")

	res = h.run("status", filepath.Join(h.wd, "missing"))
	assert.Equal(t, 1, res.code)

	empty := t.TempDir()
	res = h.run("status", empty)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No configuration files")
}

func TestSnapshotFiles(t *testing.T) {
	h := newHarness(t)
	h.write("b.YAML", "a: 1")
	h.write("a.json", "{}")
	h.write("c.yml", "a: 1")
	h.write("d.txt", "")

	files, err := snapshotFiles(h.wd)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(h.wd, "a.json"),
		filepath.Join(h.wd, "b.YAML"),
		filepath.Join(h.wd, "c.yml"),
	}, files)
	assert.Equal(t, "b", screenNameOf(files[1]))
}
