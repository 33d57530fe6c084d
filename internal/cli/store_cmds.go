package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/codalotl/screendiff/internal/screenconfig"
	"github.com/codalotl/screendiff/internal/screenstore"
	"github.com/spf13/cobra"
)

func (a *app) newSaveCommand() *cobra.Command {
	var screenType string
	cmd := &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Save a configuration to the local store",
		Long: `Save the configuration in <file> as the screen <name> in the local store, replacing the
stored configuration if the screen exists. Creating a screen requires --type. Names are normalized
(lowercase, spaces become hyphens) before they are validated.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := screenconfig.NormalizeName(args[0])
			cfg, err := a.loadSnapshot(args[1])
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}

			_, err = st.Get(ctx, name)
			switch {
			case errors.Is(err, screenstore.ErrNotFound):
				if screenType == "" {
					return usageErrorf("screen %q is not in the local store; pass --type to create it", name)
				}
				screen, err := st.Create(ctx, name, screenType, cfg, a.user())
				if err != nil {
					return storeError(err)
				}
				fmt.Fprintf(a.out, "Created screen %s.\n", screen.Name)
				return nil
			case err != nil:
				return err
			}
			if screenType != "" {
				if _, err := screenconfig.ParseScreenType(screenType); err != nil {
					return &usageError{msg: err.Error()}
				}
			}
			if _, err := st.Update(ctx, name, cfg, a.user()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated screen %s.\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&screenType, "type", "", "screen type when creating the screen: process_list, metrics, log, or notebook")
	return cmd
}

// storeError turns validation failures of user input into usage errors.
func storeError(err error) error {
	var ve *screenconfig.ValidationError
	if errors.As(err, &ve) {
		return &usageError{msg: ve.Error()}
	}
	return err
}

func (a *app) newShowCommand() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored configuration as canonical JSON",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			screen, err := st.Get(cmd.Context(), screenconfig.NormalizeName(args[0]))
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

func (a *app) newLsCommand() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored screens",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var screens []screenconfig.Screen
			var err error
			if remote {
				screens, err = a.client().ListScreens(cmd.Context())
			} else {
				var st *screenstore.Store
				st, err = a.openStore()
				if err == nil {
					screens, err = st.List(cmd.Context())
				}
			}
			if err != nil {
				return err
			}
			if len(screens) == 0 {
				fmt.Fprintln(a.out, "No screens.")
				return nil
			}
			rows := make([][]string, 0, len(screens))
			for _, s := range screens {
				updated := ""
				if s.UpdatedAt != nil {
					updated = s.UpdatedAt.UTC().Format(time.RFC3339)
				}
				by := s.UpdatedBy
				if by == "" {
					by = s.CreatedBy
				}
				rows = append(rows, []string{s.Name, s.ScreenType, updated, by})
			}
			return writeTable(a.out, []string{"name", "type", "updated", "by"}, rows)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "list the server's screens instead")
	return cmd
}

func (a *app) newRmCommand() *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored screen",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				if err := a.client().DeleteScreen(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted screen %s from the server.\n", args[0])
				return nil
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			name := screenconfig.NormalizeName(args[0])
			if err := st.Delete(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted screen %s.\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "delete the screen on the server instead")
	return cmd
}
