// Package trace provides structured event tracing for white runs.
//
// Tracing follows a formatting run from the driver down to individual
// formatter passes, which helps to find slow files and rules that churn.
//
// # Usage
//
//	white fmt --trace=- --trace-level=detail ./src
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump when a file fails
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: nothing is streamed, the ring is dumped on failures
//   - LevelPhase: driver boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything including per-formatter passes
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "file:"+path, parentID)
//	defer span.End("")
package trace
