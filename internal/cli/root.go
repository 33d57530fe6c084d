package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/codalotl/screendiff/internal/config"
	"github.com/codalotl/screendiff/internal/configdiff"
	"github.com/codalotl/screendiff/internal/diff"
	"github.com/codalotl/screendiff/internal/logging"
	"github.com/codalotl/screendiff/internal/q/cascade"
	"github.com/codalotl/screendiff/internal/screenclient"
	"github.com/codalotl/screendiff/internal/screenstore"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// app holds the state shared by the commands of one Run.
type app struct {
	in     io.Reader
	out    io.Writer
	err    io.Writer
	getenv func(string) string
	home   string
	wd     string

	configFile string // --config

	cfg    config.Config
	logger   *zap.Logger
	closeLog func()
	store    *screenstore.Store // opened on first use
}

func newApp(opts *RunOptions) *app {
	a := &app{
		in:     os.Stdin,
		out:    os.Stdout,
		err:    os.Stderr,
		getenv: os.Getenv,
		logger:   zap.NewNop(),
		closeLog: func() {},
	}
	if opts != nil {
		if opts.In != nil {
			a.in = opts.In
		}
		if opts.Out != nil {
			a.out = opts.Out
		}
		if opts.Err != nil {
			a.err = opts.Err
		}
		if opts.Getenv != nil {
			a.getenv = opts.Getenv
		}
		a.home = opts.HomeDir
		a.wd = opts.WorkDir
	}
	if a.home == "" {
		a.home, _ = os.UserHomeDir()
	}
	return a
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
		a.store = nil
	}
	a.closeLog()
	a.logger, a.closeLog = zap.NewNop(), func() {}
}

// flagKeys maps flags to the configuration keys they override. A flag overrides its key only if it is defined on the running command and was set.
var flagKeys = []struct{ flag, key string }{
	{"server", "server"},
	{"token", "token"},
	{"store", "store_path"},
	{"log-level", "log_level"},
	{"format", "format"},
	{"color", "color"},
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "screendiff",
		Short: "Compare analytics screen configurations",
		Long: `screendiff shows what changed between a saved analytics screen configuration and the
configuration being edited: per notebook cell, for the rest of the configuration, and for the
time range. Saved configurations come from files, the analytics web server, or a local store.`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate("screendiff {{.Version}}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "configuration file (applied over the user and project files)")
	pf.String("server", "", "analytics web server base URL")
	pf.String("token", "", "bearer token for the analytics web server")
	pf.String("store", "", "local screen store (SQLite file)")
	pf.String("log-level", "", "log level: debug, info, warn, or error")

	root.AddCommand(
		a.newDiffCommand(),
		a.newWatchCommand(),
		a.newStatusCommand(),
		a.newPushCommand(),
		a.newFetchCommand(),
		a.newSaveCommand(),
		a.newShowCommand(),
		a.newLsCommand(),
		a.newRmCommand(),
		a.newTypesCommand(),
		a.newDefaultCommand(),
		a.newHealthCommand(),
		a.newConfigCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup loads the configuration, applies flag overrides, and creates the logger.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.Loader{HomeDir: a.home, WorkDir: a.wd, File: a.configFile, Getenv: a.getenv}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	for _, fk := range flagKeys {
		f := flags.Lookup(fk.flag)
		if f == nil || !f.Changed {
			continue
		}
		value := f.Value.String()
		if fk.key == "store_path" {
			value = cascade.ExpandPath(value, a.home)
		}
		if err := cfg.Set(fk.key, value, config.Source{Kind: "flag", Name: "--" + fk.flag}); err != nil {
			return &usageError{msg: err.Error()}
		}
	}
	if err := cfg.Validate(); err != nil {
		if anyChanged(flags, "format", "color", "log-level", "server") {
			return &usageError{msg: err.Error()}
		}
		return err
	}
	a.cfg = cfg

	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	a.logger, a.closeLog = logger, closeLog
	a.logger.Debug("command", zap.String("name", cmd.CommandPath()), zap.String("server", cfg.Server))
	return nil
}

func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, n := range names {
		if f := flags.Lookup(n); f != nil && f.Changed {
			return true
		}
	}
	return false
}

func (a *app) client() *screenclient.Client {
	c := screenclient.New(a.cfg.Server, a.cfg.Token)
	c.HTTPClient = httpClientWithTimeout(a.cfg.Timeout)
	c.Logger = a.logger
	return c
}

func (a *app) openStore() (*screenstore.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := screenstore.Open(a.cfg.StorePath, a.logger)
	if err != nil {
		return nil, err
	}
	a.store = s
	return s, nil
}

func (a *app) comparer() configdiff.Comparer {
	return configdiff.Comparer{Differ: diff.Differ{CellLimit: a.cfg.LCSCellLimit}}
}

// user names the author recorded on stored screens.
func (a *app) user() string {
	if u := a.getenv("USER"); u != "" {
		return u
	}
	return a.getenv("USERNAME")
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return usageArgs(cobra.ExactArgs(n))
}

func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%s: %w", cmd.CommandPath(), &usageError{msg: err.Error()})
		}
		return nil
	}
}
