// Package main is the entry point for the sbomstatus CLI.
//
// sbomstatus waits for an uploaded SBOM to be processed and reports the
// result. It runs as a standalone binary with a YAML configuration, or as
// a GitHub Action step reading its inputs from the environment.
//
// Usage:
//
//	sbomstatus poll -c config.yaml    # Poll until processed or timed out
//	sbomstatus poll                   # Inside GitHub Actions, read action inputs
//	sbomstatus validate -c config.yaml
//	sbomstatus version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sbomstatus",
	Short: "Wait for an uploaded SBOM to finish processing",
	Long: `sbomstatus polls the SBOM upload status endpoint of an instance until
the upload has been processed (and, if requested, vulnerability and package
information is available), then prints a summary.

Quick start:
  1. Create a config file (sbomstatus.yaml)
  2. Run: sbomstatus poll -c sbomstatus.yaml

Example config:
  instance_url: https://example.service-now.com
  username: ${SN_SBOM_USER}
  password: ${SN_SBOM_PASSWORD}
  bom_record_id: 0a1b2c3d
  max_status_poll_attempts: 10
  status_attempt_interval: 15000
  fetch_vulnerability_info: true`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sbomstatus %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
