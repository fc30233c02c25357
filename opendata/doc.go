// Package opendata fetches records from the Opendatasoft explore v2.1 API
// that publishes the SNCF station and TGV Max datasets.
//
// It has three layers:
//   - Client: one HTTP GET per page, with bounded retries on transient failures
//   - Pager: sequential limit/offset paging with partial-result semantics
//   - records: decoding of raw JSON records into stations and connections
//
// Malformed records are dropped and counted, never returned.
package opendata
