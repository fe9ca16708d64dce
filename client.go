package sbomstatus

import (
	"context"
	"time"

	"github.com/jpalmerr/sbomstatus/internal/statusapi"
)

// Credentials identify the instance and account used to query upload status.
type Credentials struct {
	// InstanceURL is the base URL of the instance.
	InstanceURL string

	// Username and Password are sent as HTTP basic auth.
	Username string
	Password string
}

// HTTPStatusClient is the [StatusClient] that talks to the instance's upload
// status endpoint over HTTP.
type HTTPStatusClient struct {
	api *statusapi.Client
}

// NewHTTPStatusClient creates an [HTTPStatusClient].
//
// requestTimeout bounds each individual request; zero selects 30 seconds.
// Returns an error if the instance URL is missing or invalid.
func NewHTTPStatusClient(creds Credentials, requestTimeout time.Duration) (*HTTPStatusClient, error) {
	api, err := statusapi.NewClient(statusapi.Config{
		BaseURL:  creds.InstanceURL,
		Username: creds.Username,
		Password: creds.Password,
		Timeout:  requestTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &HTTPStatusClient{api: api}, nil
}

// FetchStatus performs one authenticated status request.
func (c *HTTPStatusClient) FetchStatus(ctx context.Context, bomRecordID string) (Observation, error) {
	result, latency, err := c.api.Status(ctx, bomRecordID)
	if err != nil {
		return Observation{}, err
	}
	obs := resultToObservation(result)
	obs.Latency = latency
	obs.CheckedAt = time.Now()
	return obs, nil
}

// Close releases idle connections.
func (c *HTTPStatusClient) Close() {
	if c == nil {
		return
	}
	c.api.Close()
}

// resultToObservation converts the wire result to the public type.
func resultToObservation(r *statusapi.Result) Observation {
	obs := Observation{
		BOMRecordID:          r.BOMRecordID,
		UploadStatus:         UploadStatus(r.UploadStatus),
		AdditionalInfoStatus: AdditionalInfoStatus(r.AdditionalInfoStatus),
		BuildID:              r.BuildID,
		Status:               r.Status,
		StatusCode:           r.StatusCode,
		Detail:               r.Detail,
	}
	if s := r.UploadSummary; s != nil {
		summary := &UploadSummary{}
		if s.Components != nil {
			summary.Components = &ComponentSummary{
				Added:   s.Components.Added,
				Removed: s.Components.Removed,
				Total:   s.Components.Total,
			}
		}
		if s.VulnerabilityInfo != nil {
			v := s.VulnerabilityInfo
			summary.VulnerabilityInfo = &VulnerabilitySummary{
				Critical: v.Critical,
				High:     v.High,
				Medium:   v.Medium,
				Low:      v.Low,
				None:     v.None,
			}
		}
		if s.PackageInfo != nil {
			summary.PackageInfo = &PackageSummary{
				Stale:     s.PackageInfo.Stale,
				Abandoned: s.PackageInfo.Abandoned,
			}
		}
		obs.UploadSummary = summary
	}
	return obs
}
