/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/specex/internal/engine"
	"github.com/fulmenhq/specex/pkg/buildinfo"
)

const jsonGoldModule = "github.com/piprate/json-gold"

// newVersionCommand creates the version command.
func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show specex version information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show build and engine information")
	cmd.Flags().Bool("json", false, "Output version information in JSON format")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	engineVersion := buildinfo.DependencyVersion(jsonGoldModule)
	if engineVersion == "" {
		engineVersion = "unknown"
	}
	module := buildinfo.ModuleVersion()
	if module == "" {
		module = "unknown"
	}

	if jsonOutput {
		info := map[string]any{
			"version":   buildinfo.BinaryVersion,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			info["module"] = module
			info["engine"] = jsonGoldModule
			info["engineVersion"] = engineVersion
			info["processingMode"] = engine.DefaultProcessingMode
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "specex %s\n", buildinfo.BinaryVersion)
	if extended {
		fmt.Fprintf(out, "Module: %s\n", module)
		fmt.Fprintf(out, "Engine: %s %s\n", jsonGoldModule, engineVersion)
		fmt.Fprintf(out, "Processing mode: %s\n", engine.DefaultProcessingMode)
	}
	fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}
