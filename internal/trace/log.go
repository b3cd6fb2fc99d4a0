package trace

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded action. Immutable once created.
type Entry struct {
	ID        string
	Timestamp time.Time
	Action    string
	QueryText string
	Params    Params
}

// FormattedQuery returns the entry's query text with all placeholders
// resolved from its parameter bag.
func (e Entry) FormattedQuery() string {
	return FormatQuery(e.QueryText, e.Params)
}

// Listener receives the full ordered history on every log state change.
type Listener func([]Entry)

// Option configures a Log.
type Option func(*Log)

// WithClock sets the timestamp source. Tests inject a frozen clock for
// deterministic entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithIDGenerator sets the entry ID source. The default generates
// time-sortable UUIDv7 strings.
func WithIDGenerator(newID func() string) Option {
	return func(l *Log) { l.newID = newID }
}

// Log is an observable, append-only history of trace entries.
//
// Construct one per process with New and pass it explicitly to the
// components that emit into it.
type Log struct {
	mu        sync.Mutex
	enabled   bool
	entries   []Entry
	listeners map[int]Listener
	nextKey   int

	now   func() time.Time
	newID func() string
}

// New creates a disabled, empty log.
func New(opts ...Option) *Log {
	l := &Log{
		listeners: make(map[int]Listener),
		now:       time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Enable turns capture on and notifies subscribers.
func (l *Log) Enable() {
	l.mu.Lock()
	l.enabled = true
	fns, hist := l.snapshotLocked()
	l.mu.Unlock()

	dispatch(fns, hist)
}

// Disable turns capture off, discards all history, and notifies
// subscribers. Disabling is destructive: re-enabling starts from an
// empty history.
func (l *Log) Disable() {
	l.mu.Lock()
	l.enabled = false
	l.entries = nil
	fns, hist := l.snapshotLocked()
	l.mu.Unlock()

	dispatch(fns, hist)
}

// Toggle flips between enabled and disabled as one atomic step, so
// concurrent toggles always alternate states. Toggling off discards
// history, same as Disable.
func (l *Log) Toggle() {
	l.mu.Lock()
	l.enabled = !l.enabled
	if !l.enabled {
		l.entries = nil
	}
	fns, hist := l.snapshotLocked()
	l.mu.Unlock()

	dispatch(fns, hist)
}

// Active reports whether capture is on.
func (l *Log) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// LogAction appends an entry and notifies subscribers with the full
// history. While the log is disabled this is a silent no-op: nothing is
// recorded, nothing is buffered, and no error is possible.
//
// The query text is whitespace-trimmed. Params may be nil.
func (l *Log) LogAction(action, queryText string, params Params) {
	l.mu.Lock()
	if !l.enabled {
		l.mu.Unlock()
		return
	}

	l.entries = append(l.entries, Entry{
		ID:        l.newID(),
		Timestamp: l.now(),
		Action:    action,
		QueryText: strings.TrimSpace(queryText),
		Params:    copyParams(params),
	})
	fns, hist := l.snapshotLocked()
	l.mu.Unlock()

	dispatch(fns, hist)
}

// History returns a snapshot of the ordered history. Mutating the
// returned slice or its parameter maps never affects the log.
func (l *Log) History() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyEntries(l.entries)
}

// Clear empties the history and notifies subscribers. Capture state is
// unchanged.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	fns, hist := l.snapshotLocked()
	l.mu.Unlock()

	dispatch(fns, hist)
}

// Subscribe registers a listener fired on every state change (enable,
// disable, log, clear). Returns the unsubscribe function. Unsubscribing
// one listener never affects others; unsubscribing twice is harmless.
func (l *Log) Subscribe(fn Listener) (unsubscribe func()) {
	l.mu.Lock()
	key := l.nextKey
	l.nextKey++
	l.listeners[key] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.listeners, key)
		l.mu.Unlock()
	}
}

// snapshotLocked copies the listener set and history under the lock so
// dispatch can run outside it. A listener subscribed during an in-flight
// dispatch is excluded from that dispatch.
func (l *Log) snapshotLocked() ([]Listener, []Entry) {
	fns := make([]Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	return fns, copyEntries(l.entries)
}

func dispatch(fns []Listener, hist []Entry) {
	for _, fn := range fns {
		fn(hist)
	}
}

func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	for i := range out {
		out[i].Params = copyParams(out[i].Params)
	}
	return out
}

func copyParams(params Params) Params {
	if params == nil {
		return nil
	}
	out := make(Params, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
