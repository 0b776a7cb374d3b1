// Package generator provides the names pipelines that exercise the stream
// operators end to end: mapping and filtering, ordered and unordered
// flattening with artificial latency, reusable stages with empty fallbacks,
// and the concat, merge and zip combinators.
//
// Latency is injected through DelayFunc and the clock through WithClock,
// so tests drive every pipeline with a virtual clock.
package generator
