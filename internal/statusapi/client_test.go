package statusapi

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:  baseURL,
		Username: "sbom-user",
		Password: "s3cret",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClient_Status_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, StatusPath, r.URL.Path)
		assert.Equal(t, "bom-42", r.URL.Query().Get("bomRecordId"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("sbom-user:s3cret"))
		assert.Equal(t, want, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"bomRecordId":"bom-42","uploadStatus":"processed","additionalInfoStatus":"complete","buildId":"b1",
			"uploadSummary":{"components":{"added":3,"removed":1,"total":40},"vulnerabilityInfo":{"critical":1,"high":2,"medium":3,"low":4,"none":5},"packageInfo":{"stale":6,"abandoned":7}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, latency, err := c.Status(context.Background(), "bom-42")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, latency, time.Duration(0))

	assert.Equal(t, "bom-42", result.BOMRecordID)
	assert.Equal(t, "processed", result.UploadStatus)
	assert.Equal(t, "complete", result.AdditionalInfoStatus)
	require.NotNil(t, result.UploadSummary)
	assert.Equal(t, 40, result.UploadSummary.Components.Total)
	assert.Equal(t, 2, result.UploadSummary.VulnerabilityInfo.High)
	assert.Equal(t, 6, result.UploadSummary.PackageInfo.Stale)
	assert.Equal(t, 7, result.UploadSummary.PackageInfo.Abandoned)
}

func TestClient_Status_ErrorResultOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":{"status":"error","statusCode":404,"detail":"record not found"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	result, _, err := c.Status(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "error", result.Status)
	assert.Equal(t, 404, result.StatusCode)
	assert.Equal(t, "record not found", result.Detail)
}

func TestClient_Status_Non2xxWithoutErrorResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`<html>denied</html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, _, err := c.Status(context.Background(), "bom-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestClient_Status_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, _, err := c.Status(context.Background(), "bom-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no result")
}

func TestClient_Status_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := newTestClient(t, addr)
	_, _, err := c.Status(context.Background(), "bom-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestStatusURL_ReplacesBasePath(t *testing.T) {
	base, err := url.Parse("https://example.service-now.com/some/path?x=1")
	require.NoError(t, err)

	got := StatusURL(base, "a b&c")
	assert.Equal(t, "https://example.service-now.com/api/sbom/core/upload/status?bomRecordId=a+b%26c", got)
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{"empty", "", "base URL is required"},
		{"bad scheme", "ftp://example.com", "scheme must be http or https"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Config{BaseURL: tt.baseURL})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Close_NilClient(t *testing.T) {
	var c *Client
	c.Close()
}
