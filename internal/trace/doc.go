// Package trace records a bounded, observable history of the query-like
// actions the storefront performs.
//
// The log is instrumentation, not an audit trail: it captures what query an
// action would issue, in human-readable form, so the store's behavior is
// legible to anyone watching. Capture is opt-in (disabled logs drop entries
// silently) and destructive on disable (history is discarded, not paused).
//
// One log instance per process by convention. The log is constructed
// explicitly with New and passed to the components that emit into it;
// there is no package-level global.
//
// Thread-safety: all methods are safe for concurrent use. Subscriber
// callbacks run outside the internal lock against a snapshot of the
// subscriber set, so a subscriber added mid-dispatch is never included
// in that same dispatch. Callbacks must not mutate the log.
package trace
