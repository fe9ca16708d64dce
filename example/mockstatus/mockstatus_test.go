package mockstatus

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/sbomstatus/internal/statusapi"
)

func newTestServer(t *testing.T) *statusapi.Client {
	t.Helper()
	s := New()
	s.Latency = 0
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	c, err := statusapi.NewClient(statusapi.Config{BaseURL: srv.URL, Username: "u", Password: "p", Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestServer_UploadProgresses(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	res, _, err := c.Status(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, "pending", res.UploadStatus)
	assert.Equal(t, "not_requested", res.AdditionalInfoStatus)

	res, _, err = c.Status(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, "processed", res.UploadStatus)
	require.NotNil(t, res.UploadSummary)
	assert.Equal(t, 148, res.UploadSummary.Components.Total)
}

func TestServer_EnrichmentCompletesLater(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	var res *statusapi.Result
	var err error
	for i := 1; i <= additionalAfter; i++ {
		res, _, err = c.Status(ctx, "enrich-1")
		require.NoError(t, err)
		if i < additionalAfter {
			assert.Equal(t, "pending", res.AdditionalInfoStatus, "request %d", i)
		}
	}
	assert.Equal(t, "complete", res.AdditionalInfoStatus)
	assert.NotNil(t, res.UploadSummary.VulnerabilityInfo)
}

func TestServer_MissingRecord(t *testing.T) {
	c := newTestServer(t)

	res, _, err := c.Status(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "error", res.Status)
	assert.Equal(t, 404, res.StatusCode)
}
