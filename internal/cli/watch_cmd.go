package cli

import (
	"fmt"
	"time"

	"github.com/codalotl/screendiff/internal/configdiff"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/codalotl/screendiff/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newWatchCommand() *cobra.Command {
	var flags diffFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [<saved>] <current>",
		Short: "Print the diff again whenever the current configuration file changes",
		Long: `Print the diff like "screendiff diff", then keep watching <current> and print the diff again
each time the file is saved with different content. Stop with Ctrl-C.`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			savedArg, currentArg, err := flags.saved.split(args)
			if err != nil {
				return err
			}
			if currentArg == "-" {
				return usageErrorf("watch needs a file for <current>, not stdin")
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

			memo := &configdiff.Memo{Comparer: a.comparer()}
			ro := a.renderOptions(&flags)
			// render prints the diff for current unless it is the same as the last one printed.
			render := func(current screenconfig.Snapshot, header bool) error {
				hits := memo.Hits()
				sections := memo.Compare(saved, current, flags.timeRanges(saved, current))
				if memo.Hits() > hits {
					return nil
				}
				if header {
					fmt.Fprintf(a.out, "\n--- %s changed at %s ---\n", currentArg, time.Now().Format(time.TimeOnly))
				}
				return renderSections(a.out, sections, ro)
			}
			if err := render(current, false); err != nil {
				return err
			}

			w, err := watch.New(currentArg, debounce, func(s screenconfig.Snapshot, err error) {
				if err != nil {
					fmt.Fprintf(a.err, "error: %v\n", err)
					return
				}
				if err := render(s, true); err != nil {
					a.logger.Warn("render", zap.Error(err))
				}
			}, a.logger)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long after the last change before reloading")
	return cmd
}
