// Package internal holds the citymap events API internals.
//
// The internal tree is organized by responsibility:
// - api: envelope handler, HTTP adapter, middleware and routing
// - domain/events: listing semantics, filters and output shape
// - storage/postgres: per-invocation pgx connections and the events query
// - config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
