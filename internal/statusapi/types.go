package statusapi

// ResponseBody is the JSON document returned by the status endpoint.
type ResponseBody struct {
	Result *Result `json:"result"`
}

// Result is the status of one BOM record.
type Result struct {
	BOMRecordID          string         `json:"bomRecordId"`
	UploadStatus         string         `json:"uploadStatus"`
	AdditionalInfoStatus string         `json:"additionalInfoStatus"`
	BuildID              string         `json:"buildId"`
	UploadSummary        *UploadSummary `json:"uploadSummary,omitempty"`
	StatusCode           int            `json:"statusCode,omitempty"`
	Status               string         `json:"status,omitempty"`
	Detail               string         `json:"detail,omitempty"`
}

// UploadSummary holds the optional summary counts.
type UploadSummary struct {
	Components        *Components        `json:"components,omitempty"`
	VulnerabilityInfo *VulnerabilityInfo `json:"vulnerabilityInfo,omitempty"`
	PackageInfo       *PackageInfo       `json:"packageInfo,omitempty"`
}

// Components is the component delta of an upload.
type Components struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// VulnerabilityInfo counts vulnerabilities by severity.
type VulnerabilityInfo struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
}

// PackageInfo counts packages with health concerns.
type PackageInfo struct {
	Stale     int `json:"stale"`
	Abandoned int `json:"abandoned"`
}
