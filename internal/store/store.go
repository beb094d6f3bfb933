// Package store holds the three client-side state containers: the
// session, the consultation collection, and the billing catalog.
// Each store is an explicitly constructed object (no singletons) and
// is the sole mutator of its own state. UI layers read snapshots and
// dispatch actions; they never write fields directly.
//
// Every action clears the error field on entry and records its
// outcome. Mutation failures raise a transient notification through
// the injected Notifier; read failures only set the error field so
// views can render an inline retry instead of spamming notifications
// during background polling.
//
// Because Go callers may overlap actions on real threads, each store
// serializes writes behind a mutex and stamps every fetch with a
// monotonic sequence number: a slow stale response is discarded
// instead of clobbering state written by a newer one.
package store

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("store")

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)
