// Package mockstatus serves a fake upload status endpoint for demos.
//
// Each record advances one stage per request: the upload is pending for
// the first requests, then processed; when the record ID contains "enrich"
// the additional info stays pending a little longer before completing.
// The record ID "missing" returns the server's error result.
package mockstatus

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/sbomstatus/internal/statusapi"
)

// Requests before each stage completes.
const (
	uploadAfter     = 2
	additionalAfter = 4
)

// Server tracks how often each record was requested.
type Server struct {
	// Latency adds 0..Latency of random delay to each response.
	Latency time.Duration

	mu   sync.Mutex
	hits map[string]int
}

// New returns a Server with a small simulated latency.
func New() *Server {
	return &Server{
		Latency: 150 * time.Millisecond,
		hits:    make(map[string]int),
	}
}

// Handler returns the HTTP handler mounted at the status path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(statusapi.StatusPath, s.serveStatus)
	return mux
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("bomRecordId")

	if s.Latency > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(s.Latency))))
	}

	if id == "missing" {
		writeJSON(w, http.StatusNotFound, statusapi.ResponseBody{Result: &statusapi.Result{
			Status:     "error",
			StatusCode: http.StatusNotFound,
			Detail:     "No record found for bomRecordId: " + id,
		}})
		return
	}

	s.mu.Lock()
	s.hits[id]++
	n := s.hits[id]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, statusapi.ResponseBody{Result: result(id, n)})
}

// result builds the status of record id on its nth request.
func result(id string, n int) *statusapi.Result {
	res := &statusapi.Result{
		BOMRecordID:          id,
		BuildID:              "demo-build",
		UploadStatus:         "pending",
		AdditionalInfoStatus: "not_requested",
	}
	enrich := strings.Contains(id, "enrich")
	if enrich {
		res.AdditionalInfoStatus = "pending"
	}
	if n < uploadAfter {
		return res
	}

	res.UploadStatus = "processed"
	res.UploadSummary = &statusapi.UploadSummary{
		Components: &statusapi.Components{Added: 12, Removed: 3, Total: 148},
	}
	if enrich && n >= additionalAfter {
		res.AdditionalInfoStatus = "complete"
		res.UploadSummary.VulnerabilityInfo = &statusapi.VulnerabilityInfo{Critical: 1, High: 4, Medium: 9, Low: 2}
		res.UploadSummary.PackageInfo = &statusapi.PackageInfo{Stale: 7, Abandoned: 2}
	}
	return res
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
