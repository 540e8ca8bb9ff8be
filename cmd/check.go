/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/internal/fixture"
	"github.com/fulmenhq/specex/internal/report"
	"github.com/fulmenhq/specex/internal/verify"
	"github.com/fulmenhq/specex/pkg/config"
	"github.com/fulmenhq/specex/pkg/exitcode"
	"github.com/fulmenhq/specex/pkg/ignore"
	"github.com/fulmenhq/specex/pkg/logger"
	"github.com/fulmenhq/specex/pkg/safeio"
)

// newCheckCommand creates the check command.
func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [documents...]",
		Short: "Extract and verify the examples of specification documents",
		Long: `Check extracts every example of the given documents, validates its syntax,
runs JSON-LD processing where the example asks for it and compares the
result with the expected output. Arguments may be doublestar globs.

A mark is printed per example: '.' pass, 'w' warning, 'i' ignored and
'F' failure. The command exits with status 3 when any example failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().String("example-dir", "", "Write extracted example bodies to this directory")
	cmd.Flags().String("yaml-dir", "", "Write YAML renditions of JSON examples to this directory")
	cmd.Flags().BoolP("verbose", "v", false, "Echo examples, results and comparison details")
	cmd.Flags().IntP("number", "n", 0, "Only check the example with this number")
	cmd.Flags().IntP("line", "l", 0, "Only check the example starting at this line")
	cmd.Flags().String("format", "", "Report format (text|json|markdown|html)")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("no-lint", false, "Disable linting of RDF expectations")
	cmd.Flags().String("lint-rules", "", "Lint rule set version")
	cmd.Flags().StringArray("context", nil, "Preload a JSON-LD context as url=path (repeatable)")
	cmd.Flags().Bool("no-ignore", false, "Do not skip glob matches listed in .gitignore or .specexignore")
	return cmd
}

// checkOptions is the configuration after flags were applied on top of the
// loaded settings.
type checkOptions struct {
	cfg      *config.Config
	format   report.OutputFormat
	number   int
	line     int
	output   string
	noColor  bool
	contexts map[string]string
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := loadCheckOptions(cmd)
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return err
		}
		return withExitCode(exitcode.ConfigError, err)
	}

	var matcher *ignore.Matcher
	if noIgnore, _ := cmd.Flags().GetBool("no-ignore"); !noIgnore {
		home, err := config.GetSpecexHome()
		if err != nil {
			logger.Debug("No specex home, skipping user ignore file", logger.Err(err))
			home = ""
		}
		if matcher, err = ignore.NewMatcher(".", home); err != nil {
			return withExitCode(exitcode.GeneralError, err)
		}
	}
	docs, err := expandInputs(args, matcher)
	if err != nil {
		return withExitCode(exitcode.FileSystemError, err)
	}
	logger.Debug(fmt.Sprintf("Checking %d documents", len(docs)))

	proc, err := engine.NewJSONGold(engine.Config{
		ProcessingMode: opts.cfg.Engine.ProcessingMode,
		Contexts:       opts.contexts,
	})
	if err != nil {
		return withExitCode(exitcode.ConfigError, err)
	}

	// Marks and echo share stdout with the text report only.
	stdout := cmd.OutOrStdout()
	echo := stdout
	if opts.format != report.FormatText {
		echo = cmd.ErrOrStderr()
	}
	styles := report.PlainStyles()
	if f, ok := stdout.(*os.File); ok {
		styles = report.StylesFor(f, opts.noColor)
	}
	progress := report.NewProgress(stdout, styles)

	runOpts := []verify.Option{
		verify.WithEcho(echo),
		verify.WithFixtures(&fixture.Writer{
			ExampleDir: opts.cfg.Check.ExampleDir,
			YAMLDir:    opts.cfg.Check.YAMLDir,
		}),
	}
	if opts.format == report.FormatText && !opts.cfg.Check.Verbose {
		runOpts = append(runOpts, verify.WithProgress(progress.Mark))
	}

	runner, err := verify.NewRunner(proc, verify.Config{
		Verbose:   opts.cfg.Check.Verbose,
		Number:    opts.number,
		Line:      opts.line,
		Lint:      opts.cfg.Lint.Enable,
		LintRules: opts.cfg.Lint.Rules,
		Prefixes:  opts.cfg.Prefixes,
	}, runOpts...)
	if err != nil {
		return withExitCode(exitcode.ConfigError, err)
	}

	run, err := runner.Run(cmd.Context(), docs)
	progress.Done()
	if err != nil {
		var we *fixture.WriteError
		if errors.As(err, &we) || errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return withExitCode(exitcode.FileSystemError, err)
		}
		return withExitCode(exitcode.GeneralError, err)
	}

	if err := writeReport(stdout, opts, run, styles); err != nil {
		return withExitCode(exitcode.FileSystemError, err)
	}

	logger.Info(fmt.Sprintf("Checked %d examples: %d passed, %d warned, %d failed, %d ignored",
		run.Counts.Total, run.Counts.Passed, run.Counts.Warned, run.Counts.Failed, run.Counts.Ignored))
	if run.Failed() {
		return withExitCode(exitcode.ValidationError, fmt.Errorf("%d examples failed", run.Counts.Failed))
	}
	return nil
}

// loadCheckOptions loads the configuration file and lets explicitly set
// flags override it.
func loadCheckOptions(cmd *cobra.Command) (*checkOptions, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(flags, cfg)

	format, err := report.ParseFormat(cfg.Check.Format)
	if err != nil {
		return nil, withExitCode(exitcode.UnsupportedFormat, err)
	}

	contexts := cfg.Engine.ContextMap()
	mappings, _ := flags.GetStringArray("context")
	for _, m := range mappings {
		url, path, err := parseContextMapping(m)
		if err != nil {
			return nil, err
		}
		contexts[url] = path
	}

	opts := &checkOptions{cfg: cfg, format: format, contexts: contexts}
	opts.number, _ = flags.GetInt("number")
	opts.line, _ = flags.GetInt("line")
	opts.output, _ = flags.GetString("output")
	opts.noColor, _ = flags.GetBool("no-color")
	if opts.number < 0 || opts.line < 0 {
		return nil, fmt.Errorf("--number and --line must not be negative")
	}
	return opts, nil
}

// applyFlagOverrides copies explicitly set flags over the loaded settings.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("example-dir") {
		cfg.Check.ExampleDir, _ = flags.GetString("example-dir")
	}
	if flags.Changed("yaml-dir") {
		cfg.Check.YAMLDir, _ = flags.GetString("yaml-dir")
	}
	if flags.Changed("verbose") {
		cfg.Check.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("format") {
		cfg.Check.Format, _ = flags.GetString("format")
	}
	if noLint, _ := flags.GetBool("no-lint"); noLint {
		cfg.Lint.Enable = false
	}
	if flags.Changed("lint-rules") {
		cfg.Lint.Rules, _ = flags.GetString("lint-rules")
	}
}

// parseContextMapping splits url=path at the last '=' so that query
// strings survive in the URL.
func parseContextMapping(s string) (string, string, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("invalid context mapping %q, expected url=path", s)
	}
	url, path := strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", "", fmt.Errorf("invalid context mapping %q, url must be http or https", s)
	}
	return url, path, nil
}

// expandInputs resolves doublestar patterns. Plain paths must exist;
// patterns must match at least one file that matcher does not ignore.
func expandInputs(args []string, matcher *ignore.Matcher) ([]string, error) {
	var docs []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			docs = append(docs, p)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("cannot read document %s: %w", arg, err)
			}
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		found := 0
		for _, m := range matches {
			if matcher != nil && matcher.IsIgnored(m) {
				logger.Debug(fmt.Sprintf("Ignoring %s", m))
				continue
			}
			found++
			add(m)
		}
		if found == 0 {
			return nil, fmt.Errorf("no documents match %s", arg)
		}
	}
	return docs, nil
}

func writeReport(stdout io.Writer, opts *checkOptions, run *verify.RunResult, styles report.Styles) error {
	w := stdout
	if opts.output != "" {
		path, err := safeio.CleanUserPath(opts.output)
		if err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
		styles = report.PlainStyles()
	}
	formatter := report.NewFormatter(opts.format, styles).WithSummary(opts.cfg.Check.Verbose)
	return formatter.WriteReport(w, run)
}
