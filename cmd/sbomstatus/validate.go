package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sbomstatus/config"
)

// validateCmd validates a config file without contacting the instance.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an sbomstatus configuration file without polling.

This command parses the YAML, expands environment variables, applies the
polling defaults and validates all fields. The record ID may be left out
of the file and supplied to poll with --record-id.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sbomstatus validate -c sbomstatus.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	recordID := cfg.BOMRecordID
	if recordID == "" {
		recordID = "(not set, pass --record-id to poll)"
	}
	// no wait follows the final attempt
	maxWait := time.Duration(cfg.MaxStatusPollAttempts-1) * cfg.PollInterval()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Instance:      %s\n", cfg.InstanceURL)
	fmt.Fprintf(out, "  Record ID:     %s\n", recordID)
	fmt.Fprintf(out, "  Attempts:      %d every %s (up to %s of waiting)\n",
		cfg.MaxStatusPollAttempts, cfg.PollInterval(), maxWait)
	fmt.Fprintf(out, "  Wait for:      vulnerability info=%t, package info=%t\n",
		cfg.FetchVulnerabilityInfo, cfg.FetchPackageInfo)
	fmt.Fprintf(out, "  Timeout:       %s per request\n", cfg.RequestTimeout.Duration())

	return nil
}
