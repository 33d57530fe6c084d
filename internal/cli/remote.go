package cli

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/codalotl/screendiff/internal/configdiff"
	"github.com/codalotl/screendiff/internal/screenclient"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// httpClientWithTimeout returns an HTTP client whose requests time out after d. A zero d means no timeout.
func httpClientWithTimeout(d time.Duration) *http.Client {
	return &http.Client{Timeout: d}
}

func (a *app) newPushCommand() *cobra.Command {
	var screenType string
	var dryRun bool
	var width int

	cmd := &cobra.Command{
		Use:   "push <name> <current>",
		Short: "Show the diff against the server's screen, then save the configuration there",
		Long: `Compare <current> with the screen <name> on the analytics web server, print the differences,
and save <current> as the screen's configuration. A screen that does not exist yet is created,
which requires --type.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ctx := cmd.Context()

			if screenType != "" {
				if _, err := screenconfig.ParseScreenType(screenType); err != nil {
					return &usageError{msg: err.Error()}
				}
			}
			current, err := a.loadSnapshot(args[1])
			if err != nil {
				return err
			}
			if current == nil {
				return fmt.Errorf("%s: configuration is null", args[1])
			}

			c := a.client()
			var saved screenconfig.Snapshot
			exists := true
			screen, err := c.GetScreen(ctx, name)
			switch {
			case errors.Is(err, screenclient.ErrNotFound):
				if screenType == "" {
					return usageErrorf("screen %q does not exist on the server; pass --type to create it", name)
				}
				exists = false
			case err != nil:
				return err
			default:
				saved = screen.Config
			}

			sections := a.comparer().Compare(saved, current, configdiff.TimeRangesOf(saved, current))
			if !configdiff.HasChanges(sections) {
				fmt.Fprintln(a.out, "Nothing to push.")
				return nil
			}
			ro := renderOptions{format: "text", color: useColor(a.cfg.Color, a.out, a.getenv), width: outputWidth(width, a.out)}
			if err := renderSections(a.out, sections, ro); err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(a.out, "\nDry run: %s was not pushed.\n", name)
				return nil
			}

			if exists {
				if _, err := c.UpdateScreen(ctx, name, current); err != nil {
					return err
				}
				a.logger.Info("pushed screen", zap.String("name", name))
				fmt.Fprintf(a.out, "\nUpdated screen %s.\n", name)
				return nil
			}
			created, err := c.CreateScreen(ctx, screenclient.CreateRequest{Name: name, ScreenType: screenType, Config: current})
			if err != nil {
				return err
			}
			a.logger.Info("created screen", zap.String("name", created.Name), zap.String("screen_type", screenType))
			fmt.Fprintf(a.out, "\nCreated screen %s.\n", created.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&screenType, "type", "", "screen type when creating the screen: process_list, metrics, log, or notebook")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the differences without pushing")
	cmd.Flags().IntVar(&width, "width", 0, "output width (default: terminal width, or 120)")
	return cmd
}

func (a *app) newFetchCommand() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "fetch <name>",
		Short: "Print a screen's configuration from the server as canonical JSON",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := a.client().GetScreen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if full {
				fmt.Fprintln(a.out, screenconfig.Canonical(screen))
			} else {
				fmt.Fprintln(a.out, screenconfig.Canonical(screen.Config))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole screen record, not just its configuration")
	return cmd
}

func (a *app) newTypesCommand() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the screen types",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []screenconfig.ScreenTypeInfo
			if remote {
				var err error
				infos, err = a.client().ListScreenTypes(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				for _, t := range screenconfig.AllScreenTypes() {
					infos = append(infos, t.Info())
				}
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{info.Name, info.DisplayName, info.Icon, info.Description})
			}
			return writeTable(a.out, []string{"name", "display_name", "icon", "description"}, rows)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of using the built-in list")
	return cmd
}

func (a *app) newDefaultCommand() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "default <type>",
		Short: "Print the default configuration of a screen type",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := screenconfig.ParseScreenType(args[0])
			if err != nil {
				return &usageError{msg: err.Error()}
			}
			cfg := t.DefaultConfig()
			if remote {
				cfg, err = a.client().DefaultConfig(cmd.Context(), string(t))
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(a.out, screenconfig.Canonical(cfg))
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "ask the server instead of using the built-in default")
	return cmd
}

func (a *app) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the analytics web server",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			flightsql := "disconnected"
			if h.FlightSQLConnected {
				flightsql = "connected"
			}
			fmt.Fprintf(a.out, "server:    %s\nstatus:    %s\nflightsql: %s\n", a.cfg.Server, h.Status, flightsql)
			if h.Status != "healthy" {
				return fmt.Errorf("server status is %q", h.Status)
			}
			return nil
		},
	}
}
