/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/specex/pkg/buildinfo"
	"github.com/fulmenhq/specex/pkg/exitcode"
	"github.com/fulmenhq/specex/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "specex",
		Short: "Check the examples embedded in JSON-LD specification documents",
		Long: `Specex extracts the examples of HTML specification documents, runs them
through a JSON-LD processor and compares the results with the examples
that claim to be their output.

Examples:
   specex check index.html              # Check one document
   specex check -v -n 12 index.html     # Echo only example 12
   specex check --format json 'docs/**/*.html'
   specex version --extended            # Show build and engine info`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().String("config", "", "Path to a specex configuration file")

	// Wire Cobra's built-in --version using the binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("specex {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command and exits with the code carried by the
// returned error. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	code := exitCodeFor(err)
	if code != exitcode.ValidationError {
		logger.Error(exitcode.String(code), logger.Err(err))
	}
	logger.Sync()
	os.Exit(code)
}

func init() {
	registerSubcommands(rootCmd)
}

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitcode.GeneralError
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	level, ok := logger.ParseLevel(strings.ToLower(logLevelStr))
	config := logger.Config{
		Level:     level,
		UseColor:  !noColor && os.Getenv("NO_COLOR") == "",
		JSON:      jsonLogs,
		Component: "specex",
	}

	if err := logger.Initialize(config); err != nil {
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
	if !ok {
		logger.Warn("Unknown log level, using info", logger.String("level", logLevelStr))
	}
}
