package cli

import (
	"fmt"

	"github.com/codalotl/screendiff/internal/config"
	"github.com/spf13/cobra"
)

func (a *app) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration and where each value comes from",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteYAML(a.out, a.cfg)
		},
	}
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		// The version is printed even if the configuration is broken.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "screendiff %s\n", Version)
			return err
		},
	}
}
