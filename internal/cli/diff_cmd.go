package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/codalotl/screendiff/internal/configdiff"
	"github.com/codalotl/screendiff/internal/screenclient"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/codalotl/screendiff/internal/screenstore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// savedSource selects where the saved configuration of diff and watch comes from. With no flag set, it is read from a file argument.
type savedSource struct {
	isNew  bool   // --new: there is no saved configuration
	screen string // --saved-screen: the local store
	remote string // --remote: the analytics web server
}

func (s *savedSource) bind(fs *pflag.FlagSet) {
	fs.BoolVar(&s.isNew, "new", false, "treat the configuration as never saved")
	fs.StringVar(&s.screen, "saved-screen", "", "read the saved configuration from the local store")
	fs.StringVar(&s.remote, "remote", "", "read the saved configuration from the analytics web server")
}

func (s *savedSource) count() int {
	n := 0
	if s.isNew {
		n++
	}
	if s.screen != "" {
		n++
	}
	if s.remote != "" {
		n++
	}
	return n
}

// split validates args against the source flags and returns the saved file argument ("" if a flag selects the source) and the current file argument.
func (s *savedSource) split(args []string) (savedArg string, currentArg string, err error) {
	switch s.count() {
	case 0:
		if len(args) != 2 {
			return "", "", usageErrorf("expected <saved> <current>, or one of --new, --saved-screen, --remote with <current>")
		}
		if args[0] == "-" && args[1] == "-" {
			return "", "", usageErrorf("only one of <saved> and <current> can be read from stdin")
		}
		return args[0], args[1], nil
	case 1:
		if len(args) != 1 {
			return "", "", usageErrorf("expected only <current> when the saved configuration is selected by a flag")
		}
		return "", args[0], nil
	default:
		return "", "", usageErrorf("--new, --saved-screen, and --remote cannot be combined")
	}
}

// loadSaved returns the saved configuration. A screen missing from the store or server yields a nil snapshot, which compares as a new configuration.
func (a *app) loadSaved(ctx context.Context, s *savedSource, savedArg string) (screenconfig.Snapshot, error) {
	switch {
	case s.isNew:
		return nil, nil
	case s.screen != "":
		st, err := a.openStore()
		if err != nil {
			return nil, err
		}
		screen, err := st.Get(ctx, screenconfig.NormalizeName(s.screen))
		if errors.Is(err, screenstore.ErrNotFound) {
			fmt.Fprintf(a.err, "screen %q is not in the local store; comparing as a new configuration\n", s.screen)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return screen.Config, nil
	case s.remote != "":
		screen, err := a.client().GetScreen(ctx, s.remote)
		if errors.Is(err, screenclient.ErrNotFound) {
			fmt.Fprintf(a.err, "screen %q is not on the server; comparing as a new configuration\n", s.remote)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return screen.Config, nil
	}
	return a.loadSnapshot(savedArg)
}

// loadSnapshot loads a snapshot file, or standard input if path is "-". Standard input is parsed as JSON, then as YAML.
func (a *app) loadSnapshot(path string) (screenconfig.Snapshot, error) {
	if path != "-" {
		return screenconfig.Load(path)
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	s, err := screenconfig.Parse(data, screenconfig.FormatJSON)
	if err == nil {
		return s, nil
	}
	if s, yerr := screenconfig.Parse(data, screenconfig.FormatYAML); yerr == nil {
		return s, nil
	}
	return nil, fmt.Errorf("stdin: %w", err)
}

// renderOptions controls how sections are written.
type renderOptions struct {
	format        string // text, side, json, markdown, or html
	color         bool
	width         int
	showUnchanged bool
}

func renderSections(w io.Writer, sections []configdiff.Section, ro renderOptions) error {
	switch ro.format {
	case "json":
		return configdiff.RenderJSON(w, sections)
	case "markdown":
		_, err := io.WriteString(w, configdiff.RenderMarkdown(sections))
		return err
	case "html":
		html, err := configdiff.RenderHTML(sections)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	}

	opts := configdiff.TextOptions{Color: ro.color, Width: ro.width, ShowUnchanged: ro.showUnchanged}
	if ro.format == "side" {
		opts.Style = configdiff.StyleSideBySide
	}
	text := configdiff.RenderText(sections, opts)
	if !configdiff.HasChanges(sections) {
		if text != "" {
			text += "\n\n"
		}
		text += "No differences."
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// diffFlags are the output flags shared by diff and watch.
type diffFlags struct {
	saved         savedSource
	from, to      string
	showUnchanged bool
	width         int
}

func (f *diffFlags) bind(fs *pflag.FlagSet) {
	f.saved.bind(fs)
	fs.StringVar(&f.from, "from", "", "override the current time range start (ex: now-24h)")
	fs.StringVar(&f.to, "to", "", "override the current time range end (ex: now)")
	fs.BoolVar(&f.showUnchanged, "show-unchanged", false, "list unchanged cells")
	fs.IntVar(&f.width, "width", 0, "output width for --format side (default: terminal width, or 120)")
	fs.String("format", "", "output format: text, side, json, markdown, or html")
	fs.String("color", "", "color output: auto, always, or never")
}

func (f *diffFlags) timeRanges(saved, current screenconfig.Snapshot) configdiff.TimeRanges {
	tr := configdiff.TimeRangesOf(saved, current)
	if f.from != "" {
		tr.Current.From = f.from
	}
	if f.to != "" {
		tr.Current.To = f.to
	}
	return tr
}

func (a *app) renderOptions(f *diffFlags) renderOptions {
	return renderOptions{
		format:        a.cfg.Format,
		color:         useColor(a.cfg.Color, a.out, a.getenv),
		width:         outputWidth(f.width, a.out),
		showUnchanged: f.showUnchanged,
	}
}

func (a *app) newDiffCommand() *cobra.Command {
	var flags diffFlags
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff [<saved>|-] <current>",
		Short: "Show how a configuration differs from its saved version",
		Long: `Show how the current configuration differs from the saved one. Files may be JSON or YAML; "-"
reads standard input.

The saved configuration is the first argument, or is selected with --new, --saved-screen, or
--remote, in which case only <current> is given.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			savedArg, currentArg, err := flags.saved.split(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			saved, err := a.loadSaved(ctx, &flags.saved, savedArg)
			if err != nil {
				return err
			}
			current, err := a.loadSnapshot(currentArg)
			if err != nil {
				return err
			}

			sections := a.comparer().Compare(saved, current, flags.timeRanges(saved, current))
			sum := configdiff.Summarize(sections)
			a.logger.Info("compared",
				zap.String("current", currentArg),
				zap.Int("added", sum.Added),
				zap.Int("removed", sum.Removed),
				zap.Int("modified", sum.Modified),
			)
			if err := renderSections(a.out, sections, a.renderOptions(&flags)); err != nil {
				return err
			}
			if exitCode && configdiff.HasChanges(sections) {
				return errDifferences
			}
			return nil
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 if there are differences")
	return cmd
}
