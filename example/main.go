package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/sbomstatus"
	"github.com/jpalmerr/sbomstatus/example/mockstatus"
	"github.com/jpalmerr/sbomstatus/internal/report"
)

func main() {
	// start mock status server (see mockstatus)
	go func() {
		if err := http.ListenAndServe(":9999", mockstatus.New().Handler()); err != nil {
			slog.Error("mock server error", "error", err)
		}
	}()
	time.Sleep(100 * time.Millisecond)

	client, err := sbomstatus.NewHTTPStatusClient(sbomstatus.Credentials{
		InstanceURL: "http://localhost:9999",
		Username:    "demo",
		Password:    "demo",
	}, 5*time.Second)
	if err != nil {
		slog.Error("failed to create status client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// "enrich" records keep additional info pending for a few requests
	pp := report.NewProgressPrinter(os.Stderr)
	p, err := sbomstatus.New("demo-enrich-1", client,
		sbomstatus.WithMaxAttempts(6),
		sbomstatus.WithInterval(2*time.Second),
		sbomstatus.WithFetchVulnerabilityInfo(true),
		sbomstatus.WithProgressCallback(pp.Print),
	)
	if err != nil {
		slog.Error("failed to create poller", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  sbomstatus demo: polling demo-enrich-1 every 2s (up to 6 attempts)")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := p.Run(ctx)
	if rerr := report.Terminal(os.Stdout, report.Build(outcome, p.Settings())); rerr != nil {
		slog.Error("failed to write report", "error", rerr)
	}
	if err != nil {
		slog.Error("polling failed", "error", err)
		os.Exit(1)
	}
}
