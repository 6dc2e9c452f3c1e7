// Package httputil provides HTTP plumbing for the schema registry client.
//
// It contains two pieces of infrastructure:
//
//   - [Cache]: file-based caching of JSON-marshalable HTTP responses
//   - [Retry]: automatic retry with exponential backoff for transient
//     failures (network errors, 5xx responses)
//
// Cached responses live under ~/.cache/biolink-explorer/ by default and
// expire based on file modification time. Tag listings use a short TTL
// (new Biolink releases should show up promptly); schema documents for a
// released tag are immutable and use a long TTL.
package httputil
