package sbomstatus

import "time"

// UploadStatus is the server-side lifecycle stage of an uploaded SBOM.
//
// UploadStatus is an open enumeration: the server may report values not
// listed here, all of which are treated as "still in progress".
type UploadStatus string

const (
	// UploadProcessed marks the primary upload as fully processed.
	UploadProcessed UploadStatus = "processed"

	// UploadPending is reported while the upload is queued or being processed.
	UploadPending UploadStatus = "pending"
)

// String returns the string representation of the upload status.
func (s UploadStatus) String() string {
	return string(s)
}

// AdditionalInfoStatus is the lifecycle stage of the vulnerability and
// package intelligence enrichment attached to an upload.
type AdditionalInfoStatus string

const (
	// AdditionalInfoComplete indicates enrichment has finished.
	AdditionalInfoComplete AdditionalInfoStatus = "complete"

	// AdditionalInfoNotRequested indicates the upload was submitted without
	// asking for enrichment, so it will never complete.
	AdditionalInfoNotRequested AdditionalInfoStatus = "not_requested"

	// AdditionalInfoPending is reported while enrichment is running.
	AdditionalInfoPending AdditionalInfoStatus = "pending"
)

// String returns the string representation of the additional info status.
func (s AdditionalInfoStatus) String() string {
	return string(s)
}

// statusError is the value of Observation.Status for a server-reported error.
const statusError = "error"

// Observation is the result of a single status fetch.
//
// Observation mirrors the "result" object returned by the status endpoint.
// Attempt, Latency and CheckedAt are filled in by the [Poller] and are not
// part of the wire format.
type Observation struct {
	// BOMRecordID identifies the uploaded SBOM record.
	BOMRecordID string `json:"bomRecordId"`

	// UploadStatus is the stage of the primary upload.
	UploadStatus UploadStatus `json:"uploadStatus"`

	// AdditionalInfoStatus is the stage of the vulnerability/package enrichment.
	AdditionalInfoStatus AdditionalInfoStatus `json:"additionalInfoStatus"`

	// BuildID is the build the SBOM was uploaded for.
	BuildID string `json:"buildId"`

	// Status is "error" when the server reports a failure for this record.
	Status string `json:"status,omitempty"`

	// StatusCode accompanies an error status.
	StatusCode int `json:"statusCode,omitempty"`

	// Detail is the server's error description.
	Detail string `json:"detail,omitempty"`

	// UploadSummary is present once the server has summary counts.
	UploadSummary *UploadSummary `json:"uploadSummary,omitempty"`

	// Attempt is the 1-based poll attempt that produced this observation.
	Attempt int `json:"-"`

	// Latency is the time taken by the fetch.
	Latency time.Duration `json:"-"`

	// CheckedAt is when the fetch completed.
	CheckedAt time.Time `json:"-"`
}

// IsError reports whether the server flagged this record as failed.
func (o Observation) IsError() bool {
	return o.Status == statusError
}

// UploadSummary holds the counts reported for a processed upload.
type UploadSummary struct {
	Components        *ComponentSummary     `json:"components,omitempty"`
	VulnerabilityInfo *VulnerabilitySummary `json:"vulnerabilityInfo,omitempty"`
	PackageInfo       *PackageSummary       `json:"packageInfo,omitempty"`
}

// ComponentSummary is the component delta against the previous upload.
type ComponentSummary struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// VulnerabilitySummary is a histogram of vulnerabilities by severity.
type VulnerabilitySummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
}

// PackageSummary counts packages with health concerns.
type PackageSummary struct {
	Stale     int `json:"stale"`
	Abandoned int `json:"abandoned"`
}
