package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/idelchi/gitdu/internal/config"
	"github.com/idelchi/gitdu/internal/gitexec"
	"github.com/idelchi/gitdu/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// options holds the parsed command-line flags.
type options struct {
	// Path is the optional positional path, relative to the working directory.
	Path string
	// All lists files as well as directories.
	All bool
	// MaxDepth limits the reported depth (0=unlimited).
	MaxDepth int
	// Threshold is the signed, possibly humanized, size threshold.
	Threshold string
	// Extensions reports per-extension totals instead of directories.
	Extensions bool
	// HumanReadable prints sizes with units.
	HumanReadable bool
	// Output is the output format (table or json).
	Output string
	// Ignore is a file listing paths to exclude.
	Ignore string
	// VerifyPack is the verify-pack cache file.
	VerifyPack string
	// RevList is the rev-list cache file.
	RevList string
	// Config is the TOML config file.
	Config string
	// Verbose enables debug logging.
	Verbose bool
	// Quiet only logs warnings and errors.
	Quiet bool
	// Integration prints the git alias snippet.
	Integration bool
}

var allowedOutputs = []string{"table", "json"} //nolint:gochecknoglobals // Config constant

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "gitdu [flags] [path]",
		Short:   "List the pack size of files and folders in a git repository",
		Version: c.version,
		Long: heredoc.Doc(`
			gitdu reports how much of a git repository's packs each directory,
			file or file extension takes up, across the whole history.

			Sizes come from 'git verify-pack -v' and paths from
			'git rev-list --all --objects'; the working tree is never read.

			Positional Arguments:
			  path   Directory to report on, relative to the current directory.
			         Defaults to the current directory.

			Modes:
			  Default mode prints one line per directory:
			    <stored size> <updates> <kind> /<path>
			  Use --extensions to print one line per file extension instead:
			    <stored size> <files> <updates> <extension>

			Defaults for every flag can be set in a .gitdu.toml file at the
			repository top level, or in the file given with --config.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprint(cmd.OutOrStdout(), rendered)

				return nil
			}

			if len(args) > 0 {
				opts.Path = args[0]
			}

			cfg, err := loadConfig(cmd, opts.Config)
			if err != nil {
				return err
			}

			if err := applyConfig(cmd, cfg); err != nil {
				return err
			}

			if err := opts.validate(); err != nil {
				return err
			}

			return logic(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&opts.All, "all", "a", false, "List files as well as directories")
	flags.IntVarP(&opts.MaxDepth, "max-depth", "d", 0,
		"Print an entry only if its path has fewer than N '/' separators (0=unlimited)")
	flags.StringVarP(&opts.Threshold, "threshold", "t", "",
		"Exclude entries smaller than SIZE if positive, or greater than SIZE if negative (e.g. 1MiB, -500KB)")
	flags.BoolVarP(&opts.Extensions, "extensions", "e", false, "Report totals per file extension")
	flags.BoolVarP(&opts.HumanReadable, "human-readable", "H", false, "Print sizes with units")
	flags.StringVarP(&opts.Output, "output", "o", "table", "Output format: json or table")
	flags.StringVar(&opts.Ignore, "ignore", "", "File listing paths to exclude, one per line")
	flags.StringVar(&opts.VerifyPack, "verify-pack", "",
		"File caching verify-pack output: read if it exists, otherwise written (.zst is compressed)")
	flags.StringVar(&opts.RevList, "rev-list", "",
		"File caching rev-list output: read if it exists, otherwise written (.zst is compressed)")
	flags.StringVar(&opts.Config, "config", "", "TOML config file (default <toplevel>/"+config.FileName+")")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log progress and unpacked objects")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Only log warnings and errors")
	flags.BoolVarP(&opts.Integration, "init", "i", false, "Output a snippet registering 'git du' as an alias")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// validate checks flag values after config defaults were applied.
func (o options) validate() error {
	if !slices.Contains(allowedOutputs, o.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", o.Output, allowedOutputs)
	}

	if o.MaxDepth < 0 {
		return errors.New("max-depth cannot be negative")
	}

	if _, err := parseThreshold(o.Threshold); err != nil {
		return err
	}

	return nil
}

// parseThreshold parses a signed size such as "100", "1MiB" or "-2KB".
func parseThreshold(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	negative := strings.HasPrefix(s, "-")

	size, err := humanize.ParseBytes(strings.TrimPrefix(s, "-"))
	if err != nil {
		return 0, fmt.Errorf("invalid threshold: %w", err)
	}

	threshold := int64(size) //nolint:gosec // Size conversion from humanize is safe
	if negative {
		threshold = -threshold
	}

	return threshold, nil
}

// loadConfig loads the explicit config file, or the optional one at the
// repository top level.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	top, err := gitexec.Git{}.TopLevel(cmd.Context())
	if err != nil {
		// Not fatal here: logic reports missing repositories.
		return config.Config{}, nil //nolint:nilerr // Reported later by logic
	}

	return config.LoadOptional(filepath.Join(top, config.FileName))
}

// applyConfig copies config values into flags the user did not set.
func applyConfig(cmd *cobra.Command, cfg config.Config) error {
	values := map[string]*string{
		"threshold":   cfg.Threshold,
		"output":      cfg.Output,
		"ignore":      cfg.Ignore,
		"verify-pack": cfg.VerifyPack,
		"rev-list":    cfg.RevList,
	}

	for name, b := range map[string]*bool{
		"all":            cfg.All,
		"extensions":     cfg.Extensions,
		"human-readable": cfg.HumanReadable,
	} {
		if b != nil {
			s := strconv.FormatBool(*b)
			values[name] = &s
		}
	}

	if cfg.MaxDepth != nil {
		s := strconv.Itoa(*cfg.MaxDepth)
		values["max-depth"] = &s
	}

	flags := cmd.Flags()

	for name, value := range values {
		if value == nil || flags.Changed(name) {
			continue
		}

		if err := flags.Set(name, *value); err != nil {
			return fmt.Errorf("applying config value %q: %w", name, err)
		}
	}

	return nil
}
