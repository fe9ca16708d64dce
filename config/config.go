// Package config provides configuration loading for the sbomstatus CLI.
//
// Configuration comes either from a YAML file or, inside GitHub Actions,
// from the action inputs.
//
// Example configuration:
//
//	instance_url: https://example.service-now.com
//	username: ${SN_SBOM_USER}
//	password: ${SN_SBOM_PASSWORD}
//	bom_record_id: 0a1b2c3d
//	max_status_poll_attempts: 10
//	status_attempt_interval: 15000   # milliseconds
//	fetch_vulnerability_info: true
//	fetch_package_info: false
//	request_timeout: 30s
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/sbomstatus"
)

const defaultRequestTimeout = 30 * time.Second

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load], [Parse] or [FromInputs] to create a Config.
type Config struct {
	// InstanceURL is the base URL of the instance hosting the status API.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	InstanceURL string `yaml:"instance_url"`

	// Username and Password authenticate with basic auth.
	// Both support environment variable substitution.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// BOMRecordID is the record whose upload status is polled.
	BOMRecordID string `yaml:"bom_record_id"`

	// MaxStatusPollAttempts is the attempt limit. Non-positive values select 5.
	MaxStatusPollAttempts int `yaml:"max_status_poll_attempts"`

	// StatusAttemptInterval is the wait between attempts in milliseconds.
	// Values of 1000 or less select 10000.
	StatusAttemptInterval int `yaml:"status_attempt_interval"`

	// FetchVulnerabilityInfo waits for vulnerability enrichment.
	FetchVulnerabilityInfo bool `yaml:"fetch_vulnerability_info"`

	// FetchPackageInfo waits for package health enrichment.
	FetchPackageInfo bool `yaml:"fetch_package_info"`

	// RequestTimeout bounds each status request. Defaults to 30s.
	RequestTimeout Duration `yaml:"request_timeout"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in every string field, polling values
// are normalized, and the connection settings are validated. The record ID
// is checked later by [Config.Validate] so it can be supplied by a flag.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	if err := cfg.validateConnection(); err != nil {
		return nil, err
	}

	cfg.Normalize()
	return &cfg, nil
}

// Input names of the GitHub Action.
const (
	InputUser                   = "snSbomUser"
	InputPassword               = "snSbomPassword"
	InputInstanceURL            = "snInstanceUrl"
	InputBOMRecordID            = "bomRecordId"
	InputMaxStatusPollAttempts  = "maxStatusPollAttempts"
	InputStatusAttemptInterval  = "statusAttemptInterval"
	InputFetchPackageInfo       = "fetchPackageInfo"
	InputFetchVulnerabilityInfo = "fetchVulnerabilityInfo"
)

// FromInputs builds a Config from GitHub Action inputs.
//
// input returns the trimmed value of a named input, or "" if unset.
// Numbers that fail to parse fall back to their defaults; booleans are true
// only for the exact value "true". As with [Parse], the record ID is left
// for [Config.Validate].
func FromInputs(input func(name string) string) (*Config, error) {
	cfg := Config{
		InstanceURL:            input(InputInstanceURL),
		Username:               input(InputUser),
		Password:               input(InputPassword),
		BOMRecordID:            input(InputBOMRecordID),
		MaxStatusPollAttempts:  atoiOrZero(input(InputMaxStatusPollAttempts)),
		StatusAttemptInterval:  atoiOrZero(input(InputStatusAttemptInterval)),
		FetchPackageInfo:       input(InputFetchPackageInfo) == "true",
		FetchVulnerabilityInfo: input(InputFetchVulnerabilityInfo) == "true",
	}
	if err := cfg.validateConnection(); err != nil {
		return nil, err
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize applies defaults and the polling floors. It is idempotent.
func (c *Config) Normalize() {
	c.BOMRecordID = strings.TrimSpace(c.BOMRecordID)
	c.MaxStatusPollAttempts = sbomstatus.EffectiveMaxAttempts(c.MaxStatusPollAttempts)
	interval := sbomstatus.EffectiveInterval(time.Duration(c.StatusAttemptInterval) * time.Millisecond)
	c.StatusAttemptInterval = int(interval.Milliseconds())
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Duration(defaultRequestTimeout)
	}
}

// Validate checks that the configuration is complete enough to poll.
func (c *Config) Validate() error {
	if err := c.validateConnection(); err != nil {
		return err
	}
	if c.BOMRecordID == "" {
		return errors.New("bom_record_id is empty; please provide a valid bomRecordId")
	}
	return nil
}

// PollInterval returns StatusAttemptInterval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.StatusAttemptInterval) * time.Millisecond
}

// expand substitutes environment variables in the string fields.
func (c *Config) expand() error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"instance_url", &c.InstanceURL},
		{"username", &c.Username},
		{"password", &c.Password},
		{"bom_record_id", &c.BOMRecordID},
	}
	for _, f := range fields {
		expanded, err := expandEnvVars(*f.ptr)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.ptr = expanded
	}
	return nil
}

func (c *Config) validateConnection() error {
	if c.InstanceURL == "" {
		return errors.New("instance_url is required")
	}
	parsedURL, err := url.Parse(c.InstanceURL)
	if err != nil {
		return fmt.Errorf("invalid instance_url: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("instance_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("instance_url must include a host")
	}
	if c.Username == "" {
		return errors.New("username is required")
	}
	if c.Password == "" {
		return errors.New("password is required")
	}
	if c.RequestTimeout.Duration() < 0 {
		return fmt.Errorf("request_timeout cannot be negative, got %s", c.RequestTimeout.Duration())
	}
	return nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
