package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

// Version is the screendiff version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.4.0"

// RunOptions overrides the process environment of Run. Zero fields use the real one. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Getenv  func(string) string // if nil, os.Getenv
	HomeDir string              // if empty, os.UserHomeDir
	WorkDir string              // if empty, os.Getwd

	// Context, if non-nil, bounds the command. If nil, the command is canceled on interrupt.
	Context context.Context
}

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (flags are correct, etc). `diff --exit-code` also exits 1 when there are differences.
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	a := newApp(opts)
	defer a.close()

	ctx := context.Background()
	if opts != nil && opts.Context != nil {
		ctx = opts.Context
	} else {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	root := a.newRootCommand()
	root.SetArgs(argv)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0, nil
	}
	if errors.Is(err, errDifferences) {
		return 1, err
	}

	fmt.Fprintf(a.err, "error: %v\n", err)
	if isUsageError(err) {
		fmt.Fprintf(a.err, "Run '%s --help' for usage.\n", root.Name())
		return 2, err
	}
	return 1, err
}

// errDifferences is returned by commands run with --exit-code when there are differences. Nothing is printed for it.
var errDifferences = errors.New("differences found")

// usageError is a user-facing mistake in the command line (exit code 2).
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func isUsageError(err error) bool {
	var ue *usageError
	if errors.As(err, &ue) {
		return true
	}
	// cobra reports unknown subcommands from its own argument checks.
	return strings.HasPrefix(err.Error(), "unknown command")
}
