// Standalone mock status server for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/sbomstatus poll -c example/config.yaml
//	go run ./cmd/sbomstatus poll -c example/config.yaml --record-id missing
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/jpalmerr/sbomstatus/example/mockstatus"
)

func main() {
	fmt.Println("Mock status server starting on :9999")
	fmt.Println("Uploads process after 2 requests; IDs containing \"enrich\" complete additional info after 4")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	if err := http.ListenAndServe(":9999", mockstatus.New().Handler()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
