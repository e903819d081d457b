// Package tasks runs the longer movie operations that sit above a single service call, with progress reporting.
//
// # Operations
//
//  1. [Engine.LoadHome] : Load the popular, trending and top-rated sections concurrently
//     - Every section settles independently; a panicking section is reported without cancelling the others
//
//  2. [Engine.PrefetchDetails] : Warm the detail cache for a list of movie ids
//     - Worker pool (default 5 workers, max 10) gated by a [rate.Limiter]
//     - Optionally writes each movie to disk and a manifest summarizing the run
//     - Partial failures are reported per id and never abort the run
//
// # Debounced search
//
// [Debouncer] is the explicit Idle / Pending / InFlight state machine behind search-as-you-type.
// Only the newest keystroke may fire a request, and only the newest in-flight request may deliver results.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages and optional data.
// Updates use select with default so a slow consumer never stalls a run.
package tasks
