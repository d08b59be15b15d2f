// Package trace is the structured event log of templ.
//
// Commands open a driver span, each pass (load, lex, cache) a pass span and
// each template a file span. Events go to a Tracer taken from the context:
//
//	templ tokenize-dir --trace=- --trace-level=detail templates/
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lex", parent)
//	defer span.End("")
//
// Levels filter by scope: phase shows driver and pass spans, detail adds
// files, debug adds per-token events. StreamTracer writes text or NDJSON.
package trace
