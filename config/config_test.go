package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	yaml := `
instance_url: https://example.service-now.com
username: user
password: pass
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// check defaults applied
	if cfg.MaxStatusPollAttempts != 5 {
		t.Errorf("MaxStatusPollAttempts = %d, want 5", cfg.MaxStatusPollAttempts)
	}
	if cfg.StatusAttemptInterval != 10000 {
		t.Errorf("StatusAttemptInterval = %d, want 10000", cfg.StatusAttemptInterval)
	}
	if cfg.RequestTimeout.Duration() != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout.Duration())
	}
	if cfg.FetchVulnerabilityInfo || cfg.FetchPackageInfo {
		t.Error("enrichment flags should default to false")
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
instance_url: https://example.service-now.com
username: user
password: pass
bom_record_id: "  bom-123 "
max_status_poll_attempts: 12
status_attempt_interval: 2500
fetch_vulnerability_info: true
fetch_package_info: true
request_timeout: 5s
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.BOMRecordID != "bom-123" {
		t.Errorf("BOMRecordID = %q, want %q", cfg.BOMRecordID, "bom-123")
	}
	if cfg.MaxStatusPollAttempts != 12 {
		t.Errorf("MaxStatusPollAttempts = %d, want 12", cfg.MaxStatusPollAttempts)
	}
	if cfg.PollInterval() != 2500*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 2.5s", cfg.PollInterval())
	}
	if !cfg.FetchVulnerabilityInfo || !cfg.FetchPackageInfo {
		t.Error("enrichment flags should be true")
	}
	if cfg.RequestTimeout.Duration() != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout.Duration())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParse_PollingFloors(t *testing.T) {
	tests := []struct {
		name         string
		attempts     string
		interval     string
		wantAttempts int
		wantInterval int
	}{
		{"negative attempts", "-1", "5000", 5, 5000},
		{"zero attempts", "0", "5000", 5, 5000},
		{"interval below floor", "3", "500", 3, 10000},
		{"interval at floor", "3", "1000", 3, 10000},
		{"interval just above floor", "3", "1500", 3, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml := `
instance_url: https://example.com
username: u
password: p
max_status_poll_attempts: ` + tt.attempts + `
status_attempt_interval: ` + tt.interval + `
`
			cfg, err := Parse([]byte(yaml))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.MaxStatusPollAttempts != tt.wantAttempts {
				t.Errorf("MaxStatusPollAttempts = %d, want %d", cfg.MaxStatusPollAttempts, tt.wantAttempts)
			}
			if cfg.StatusAttemptInterval != tt.wantInterval {
				t.Errorf("StatusAttemptInterval = %d, want %d", cfg.StatusAttemptInterval, tt.wantInterval)
			}
		})
	}
}

func TestParse_EnvVarExpansion(t *testing.T) {
	t.Setenv("SBOMSTATUS_TEST_USER", "env-user")
	t.Setenv("SBOMSTATUS_TEST_PASSWORD", "env-pass")

	yaml := `
instance_url: ${SBOMSTATUS_TEST_URL:-https://fallback.example.com}
username: ${SBOMSTATUS_TEST_USER}
password: ${SBOMSTATUS_TEST_PASSWORD}
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.InstanceURL != "https://fallback.example.com" {
		t.Errorf("InstanceURL = %q, want fallback", cfg.InstanceURL)
	}
	if cfg.Username != "env-user" {
		t.Errorf("Username = %q, want env-user", cfg.Username)
	}
	if cfg.Password != "env-pass" {
		t.Errorf("Password = %q, want env-pass", cfg.Password)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			yaml:    "instance_url: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing url",
			yaml:    "username: u\npassword: p\n",
			wantErr: "instance_url is required",
		},
		{
			name:    "bad scheme",
			yaml:    "instance_url: ftp://example.com\nusername: u\npassword: p\n",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "missing host",
			yaml:    "instance_url: https://\nusername: u\npassword: p\n",
			wantErr: "must include a host",
		},
		{
			name:    "missing username",
			yaml:    "instance_url: https://example.com\npassword: p\n",
			wantErr: "username is required",
		},
		{
			name:    "missing password",
			yaml:    "instance_url: https://example.com\nusername: u\n",
			wantErr: "password is required",
		},
		{
			name:    "unset env var",
			yaml:    "instance_url: https://example.com\nusername: ${SBOMSTATUS_DEFINITELY_UNSET}\npassword: p\n",
			wantErr: `environment variable "SBOMSTATUS_DEFINITELY_UNSET" is not set`,
		},
		{
			name:    "bad duration",
			yaml:    "instance_url: https://example.com\nusername: u\npassword: p\nrequest_timeout: soon\n",
			wantErr: "invalid duration",
		},
		{
			name:    "negative timeout",
			yaml:    "instance_url: https://example.com\nusername: u\npassword: p\nrequest_timeout: -5s\n",
			wantErr: "request_timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_RequiresRecordID(t *testing.T) {
	cfg, err := Parse([]byte("instance_url: https://example.com\nusername: u\npassword: p\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "bom_record_id is empty") {
		t.Errorf("Validate() error = %v, want bom_record_id is empty", err)
	}

	cfg.BOMRecordID = "bom-1"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Load() error = %v, want failed to read config file", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "instance_url: https://example.com\nusername: u\npassword: p\nbom_record_id: bom-9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BOMRecordID != "bom-9" {
		t.Errorf("BOMRecordID = %q, want bom-9", cfg.BOMRecordID)
	}
}

func TestFromInputs(t *testing.T) {
	inputs := map[string]string{
		"snSbomUser":             "user",
		"snSbomPassword":         "pass",
		"snInstanceUrl":          "https://example.service-now.com",
		"bomRecordId":            "bom-1",
		"maxStatusPollAttempts":  "not-a-number",
		"statusAttemptInterval":  "1500",
		"fetchPackageInfo":       "TRUE",
		"fetchVulnerabilityInfo": "true",
	}
	cfg, err := FromInputs(func(name string) string { return inputs[name] })
	if err != nil {
		t.Fatalf("FromInputs() error = %v", err)
	}

	if cfg.MaxStatusPollAttempts != 5 {
		t.Errorf("MaxStatusPollAttempts = %d, want 5 for unparsable input", cfg.MaxStatusPollAttempts)
	}
	if cfg.StatusAttemptInterval != 1500 {
		t.Errorf("StatusAttemptInterval = %d, want 1500", cfg.StatusAttemptInterval)
	}
	if cfg.FetchPackageInfo {
		t.Error("FetchPackageInfo should only accept the exact value \"true\"")
	}
	if !cfg.FetchVulnerabilityInfo {
		t.Error("FetchVulnerabilityInfo should be true")
	}
	if cfg.BOMRecordID != "bom-1" {
		t.Errorf("BOMRecordID = %q, want bom-1", cfg.BOMRecordID)
	}
}

func TestFromInputs_MissingCredentials(t *testing.T) {
	_, err := FromInputs(func(name string) string {
		if name == InputInstanceURL {
			return "https://example.com"
		}
		return ""
	})
	if err == nil || !strings.Contains(err.Error(), "username is required") {
		t.Errorf("FromInputs() error = %v, want username is required", err)
	}
}
