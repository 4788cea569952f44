// Package trace is the structured event log of the ember tools.
//
// Enable it from the CLI:
//
//	ember parse --trace=- --trace-level=detail src/
//
// Tracers: Nop (disabled), StreamTracer (text or NDJSON to a writer),
// RingTracer (last N events in memory) and MultiTracer (fan-out).
//
// Levels select scopes: error keeps driver events, phase adds passes,
// detail adds per-file spans and debug adds parser decisions (ScopeNode).
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
package trace
