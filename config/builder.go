package config

import (
	"fmt"

	"github.com/jpalmerr/sbomstatus"
)

// BuildPoller converts configuration into a ready [sbomstatus.Poller].
//
// The returned client owns pooled connections; callers should Close it once
// polling is done. Extra options are applied after the ones derived from cfg,
// so they can add a logger or progress callbacks.
func BuildPoller(cfg *Config, extra ...sbomstatus.Option) (*sbomstatus.Poller, *sbomstatus.HTTPStatusClient, error) {
	client, err := sbomstatus.NewHTTPStatusClient(cfg.Credentials(), cfg.RequestTimeout.Duration())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create status client: %w", err)
	}

	opts := append([]sbomstatus.Option{
		sbomstatus.WithMaxAttempts(cfg.MaxStatusPollAttempts),
		sbomstatus.WithInterval(cfg.PollInterval()),
		sbomstatus.WithFetchVulnerabilityInfo(cfg.FetchVulnerabilityInfo),
		sbomstatus.WithFetchPackageInfo(cfg.FetchPackageInfo),
	}, extra...)

	p, err := sbomstatus.New(cfg.BOMRecordID, client, opts...)
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to create poller: %w", err)
	}
	return p, client, nil
}

// Credentials returns the connection settings of cfg.
func (c *Config) Credentials() sbomstatus.Credentials {
	return sbomstatus.Credentials{
		InstanceURL: c.InstanceURL,
		Username:    c.Username,
		Password:    c.Password,
	}
}
