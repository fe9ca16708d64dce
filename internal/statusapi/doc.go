// Package statusapi is the HTTP client for the SBOM upload status endpoint.
//
// The main components are:
//
//   - [Client]: authenticated GET of one status document, no retries
//   - [ResponseBody]: the wire format returned by the endpoint
//   - [StatusURL]: builds the status URL for a record
//
// Users of the sbomstatus package should not need this package directly;
// [github.com/jpalmerr/sbomstatus.NewHTTPStatusClient] wraps it.
package statusapi
