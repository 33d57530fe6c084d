package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/codalotl/screendiff/internal/configdiff"
	"github.com/codalotl/screendiff/internal/screenclient"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/codalotl/screendiff/internal/screenstore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Screen statuses reported by status.
const (
	statusNew      = "new"
	statusClean    = "clean"
	statusModified = "modified"
	statusError    = "error"
)

type screenStatusRow struct {
	Screen  string
	Status  string
	Summary configdiff.Summary
	Err     error
}

// snapshotFiles returns the JSON and YAML files directly in dir, sorted by name.
func snapshotFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// screenNameOf returns the screen a snapshot file belongs to: its base name without extension.
func screenNameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// savedLookup returns a screen's saved configuration, or nil if the screen does not exist.
type savedLookup func(ctx context.Context, name string) (screenconfig.Snapshot, error)

func (a *app) remoteLookup() savedLookup {
	c := a.client()
	return func(ctx context.Context, name string) (screenconfig.Snapshot, error) {
		screen, err := c.GetScreen(ctx, name)
		if errors.Is(err, screenclient.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return screen.Config, nil
	}
}

func (a *app) storeLookup() (savedLookup, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, name string) (screenconfig.Snapshot, error) {
		screen, err := st.Get(ctx, screenconfig.NormalizeName(name))
		if errors.Is(err, screenstore.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return screen.Config, nil
	}, nil
}

// screenStatuses compares every file with its saved screen, running up to limit lookups at once. Rows are in the order of files. A failure for one file is recorded in its row and
// does not stop the others.
func (a *app) screenStatuses(ctx context.Context, files []string, lookup savedLookup, limit int) []screenStatusRow {
	rows := make([]screenStatusRow, len(files))
	cmp := a.comparer()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			row := screenStatusRow{Screen: screenNameOf(path)}
			defer func() { rows[i] = row }()

			current, err := screenconfig.Load(path)
			if err != nil {
				row.Status, row.Err = statusError, err
				return nil
			}
			saved, err := lookup(gctx, row.Screen)
			if err != nil {
				row.Status, row.Err = statusError, err
				return nil
			}
			sections := cmp.Compare(saved, current, configdiff.TimeRangesOf(saved, current))
			row.Summary = configdiff.Summarize(sections)
			switch {
			case saved == nil:
				row.Status = statusNew
			case row.Summary.Changed() > 0:
				row.Status = statusModified
			default:
				row.Status = statusClean
			}
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func statusTable(rows []screenStatusRow) ([]string, [][]string) {
	header := []string{"screen", "status", "added", "removed", "modified"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Err != nil {
			out = append(out, []string{r.Screen, r.Status, "-", "-", "-"})
			continue
		}
		out = append(out, []string{r.Screen, r.Status, strconv.Itoa(r.Summary.Added), strconv.Itoa(r.Summary.Removed), strconv.Itoa(r.Summary.Modified)})
	}
	return header, out
}

func (a *app) newStatusCommand() *cobra.Command {
	var local bool
	var exitCode bool
	cmd := &cobra.Command{
		Use:   "status <dir>",
		Short: "Compare every configuration file in a directory with its saved screen",
		Long: `For each .json, .yaml, or .yml file in <dir>, compare it with the saved screen of the same name
(the file name without its extension) and print one row per screen. Saved screens come from the
analytics web server, or from the local store with --local.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := snapshotFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(a.out, "No configuration files in %s.\n", args[0])
				return nil
			}

			lookup := a.remoteLookup()
			if local {
				lookup, err = a.storeLookup()
				if err != nil {
					return err
				}
			}
			rows := a.screenStatuses(cmd.Context(), files, lookup, a.cfg.Concurrency)
			header, table := statusTable(rows)
			if err := writeTable(a.out, header, table); err != nil {
				return err
			}

			failed, changed := 0, 0
			for _, r := range rows {
				switch r.Status {
				case statusError:
					failed++
					fmt.Fprintf(a.err, "%s: %v\n", r.Screen, r.Err)
				case statusNew, statusModified:
					changed++
				}
			}
			a.logger.Info("status", zap.Int("screens", len(rows)), zap.Int("changed", changed), zap.Int("failed", failed))
			if failed > 0 {
				return fmt.Errorf("%d of %d screens could not be compared", failed, len(rows))
			}
			if exitCode && changed > 0 {
				return errDifferences
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "compare with the local store instead of the server")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 if any screen is new or modified")
	return cmd
}
