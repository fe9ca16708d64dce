// Package sbomstatus polls the upload status of an SBOM until it has been
// processed, and reports how the wait ended.
//
// # Quick Start
//
//	client, _ := sbomstatus.NewHTTPStatusClient(sbomstatus.Credentials{
//	    InstanceURL: "https://example.service-now.com",
//	    Username:    user,
//	    Password:    password,
//	}, 0)
//	defer client.Close()
//
//	p, _ := sbomstatus.New(bomRecordID, client,
//	    sbomstatus.WithMaxAttempts(10),
//	    sbomstatus.WithInterval(15 * time.Second),
//	    sbomstatus.WithFetchVulnerabilityInfo(true),
//	)
//
//	outcome, err := p.Run(ctx)
//
// # Halting
//
// After every fetch the poller stops successfully when the upload status is
// "processed" and, if vulnerability or package information was requested,
// the additional info status is "complete". If the server reports that
// additional info was never requested for the upload, the poller warns once
// and stops waiting for it.
//
// # Outcomes
//
// [Poller.Run] returns exactly one [Outcome]:
//
//   - [OutcomeCompleted]: the halting condition was met
//   - [OutcomeTimedOut]: every attempt was used; returned with a nil error
//   - [OutcomeFailed]: a missing record ID, a transport error, or a
//     server-reported error aborted the run
//
// Transport errors are never retried. Retrying happens only by polling again
// after an in-progress observation.
//
// # Architecture
//
//   - internal/statusapi: HTTP client and wire types for the status endpoint
//   - internal/report: terminal and markdown rendering of an Outcome
//   - internal/actions: GitHub Actions inputs, outputs and step summary
//   - config: YAML and action-input configuration
package sbomstatus
