package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idelchi/gitdu/internal/gitdu"
	"github.com/idelchi/gitdu/internal/gitexec"
)

// stageMessages are shown on the status line while a stage runs.
var stageMessages = map[string]string{ //nolint:gochecknoglobals // Lookup table
	gitdu.StageVerifyPack: "Running verify-pack…",
	gitdu.StageRevList:    "Running rev-list…",
	gitdu.StageAggregate:  "Aggregating…",
}

// newLogger builds the console logger writing to w.
func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.NameKey = ""
	enc.StacktraceKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)

	return zap.New(core)
}

// logLevel maps the verbosity flags, which cobra keeps mutually exclusive.
func logLevel(opts options) zapcore.Level {
	switch {
	case opts.Verbose:
		return zapcore.DebugLevel
	case opts.Quiet:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// readIgnoreList reads the ignore file, if any.
func readIgnoreList(path string) (gitdu.IgnoreSet, error) {
	if path == "" {
		return gitdu.IgnoreSet{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading ignore list %q: %w", path, err)
	}
	defer f.Close()

	return gitdu.ParseIgnoreList(f)
}

func logic(cmd *cobra.Command, opts options) error {
	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	log := newLogger(stderr, logLevel(opts))
	defer log.Sync() //nolint:errcheck // Nothing to do on failure

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	git := gitexec.Git{}

	prefix, err := git.Prefix(ctx)
	if err != nil {
		return err
	}

	scope := gitexec.Scope(prefix, opts.Path)

	ignored, err := readIgnoreList(opts.Ignore)
	if err != nil {
		return err
	}

	threshold, err := parseThreshold(opts.Threshold)
	if err != nil {
		return err
	}

	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = gitdu.NoDepthLimit
	}

	log.Debug("options",
		zap.String("scope", scope),
		zap.Int("ignored", len(ignored)),
		zap.Int64("threshold", threshold),
		zap.Bool("extensions", opts.Extensions))

	enableProgress := opts.Output != "json" &&
		!opts.Verbose &&
		!opts.Quiet &&
		isTerminal(stderr)

	var progress func(stage string)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progress = func(stage string) {
			fmt.Fprintf(stderr, "\r\033[2K%s\r", stageMessages[stage])
		}
	}

	src := gitexec.Source{
		Git:             git,
		VerifyPackCache: gitexec.Cache(opts.VerifyPack),
		RevListCache:    gitexec.Cache(opts.RevList),
		Log:             log,
	}

	report, err := gitdu.Run(ctx, gitdu.Options{
		Filter: gitdu.Filter{
			ListFiles: opts.All,
			MaxDepth:  maxDepth,
			Threshold: threshold,
			Scope:     scope,
		},
		Extensions: opts.Extensions,
		Ignored:    ignored,
	}, src, log, progress)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			fmt.Fprintln(stdout, "Caught Ctrl-C. Exiting.")

			return nil
		}

		return err
	}

	switch opts.Output {
	case "json":
		return PrintJSON(report, stdout)
	default:
		return PrintTable(report, stdout, opts.HumanReadable)
	}
}
