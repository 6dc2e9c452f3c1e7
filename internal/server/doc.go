// Package server implements the explorer's HTTP API and browser viewer.
//
// The API serves filtered hierarchy element sets as JSON:
//
//	GET /api/versions                         available model versions
//	GET /api/graphs/{version}/{kind}          filtered elements (kind is
//	                                          categories or predicates)
//	GET /api/graphs/{version}/{kind}/nodes/{id}  single node detail
//
// plus /healthz, /metrics (Prometheus), and the embedded viewer page at /.
//
// Built versions are held in memory after the first request; a shared
// snapshot store (MongoDB) lets a fleet of instances build each version
// once. Filtering happens per request against the in-memory graphs, so
// search and domain/range queries never refetch the schema.
package server
