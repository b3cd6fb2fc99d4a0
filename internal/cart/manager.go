// Package cart owns the lifecycle of a session's shopping cart.
//
// The manager resolves the session's cart once, applies quantity mutations
// with merge semantics, and keeps its in-memory projection consistent with
// the store of record by re-reading lines in full after every mutation
// (read-after-write, never optimistic patching). Every mutation emits a
// trace entry before the store call; the trace records intent, not
// confirmed effect, and is never rolled back on failure.
//
// A per-manager mutex serializes operations: one in-flight mutation at a
// time, later callers block. That makes reload-after-write deterministic
// for sequential callers. True uniqueness of carts and lines is still the
// store's job - racing managers converge through its conflict resolution,
// not through anything enforced here.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/vitrine/internal/store"
	"github.com/roach88/vitrine/internal/trace"
)

// State is the manager lifecycle state.
type State int

const (
	// StateUninitialized is the zero state before Initialize is called.
	StateUninitialized State = iota
	// StateInitializing is transient while cart resolution runs.
	StateInitializing
	// StateReady means the cart is resolved and operations are accepted.
	StateReady
	// StateFailed means cart resolution errored. Recoverable: a fresh
	// Initialize may succeed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store is the slice of the backing store the manager needs.
// *store.Store satisfies it; tests substitute failing stubs.
type Store interface {
	FindCartBySession(ctx context.Context, sessionID string) (store.Cart, bool, error)
	CreateCart(ctx context.Context, id, sessionID string) (store.Cart, error)
	CartLines(ctx context.Context, cartID string) ([]store.CartLine, error)
	UpsertCartLine(ctx context.Context, lineID, cartID, productID string) error
	SetCartLineQuantity(ctx context.Context, lineID string, quantity int64) error
	DeleteCartLine(ctx context.Context, lineID string) error
}

// IdentityStore resolves the durable session identity.
// *session.Store satisfies it.
type IdentityStore interface {
	Identity() (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithIDGenerator sets the source of cart and line IDs. Tests inject a
// fixed sequence for deterministic rows.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// Manager is one session's cart aggregate. Construct with New, then call
// Initialize before any operation. Safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	state State
	cart  store.Cart
	lines []store.CartLine

	store      Store
	identities IdentityStore
	trace      *trace.Log
	logger     *slog.Logger
	newID      func() string
}

// New creates an uninitialized manager.
func New(st Store, ids IdentityStore, log *trace.Log, opts ...Option) *Manager {
	m := &Manager{
		store:      st,
		identities: ids,
		trace:      log,
		logger:     slog.Default(),
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Initialize resolves the session identity and finds or creates its cart,
// then loads all lines. Callable from Uninitialized or Failed; a store
// failure leaves the manager Failed and every operation rejected until a
// fresh Initialize succeeds.
//
// Find-or-create is one logical step: if a concurrent bootstrap created
// the cart first, the store hands back that cart and this manager adopts
// it rather than asserting uniqueness itself.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateInitializing

	sessionID, err := m.identities.Identity()
	if err != nil {
		return m.failInitLocked("initialize", err)
	}

	m.trace.LogAction("Initialize Cart",
		"SELECT * FROM carts WHERE session_id = '<session_id>'",
		trace.Params{"session_id": trace.IdentParam(sessionID)})

	cart, found, err := m.store.FindCartBySession(ctx, sessionID)
	if err != nil {
		return m.failInitLocked("initialize", err)
	}

	if !found {
		m.trace.LogAction("Create Cart",
			"INSERT INTO carts (session_id) VALUES ('<session_id>')",
			trace.Params{"session_id": trace.IdentParam(sessionID)})

		cart, err = m.store.CreateCart(ctx, m.newID(), sessionID)
		if err != nil {
			return m.failInitLocked("initialize", err)
		}
	}

	m.cart = cart
	if err := m.reloadLocked(ctx); err != nil {
		return m.failInitLocked("initialize", err)
	}

	m.state = StateReady
	m.logger.Info("cart initialized",
		"cart_id", cart.ID,
		"session_id", cart.SessionID,
		"lines", len(m.lines))
	return nil
}

// AddItem adds one unit of a product. An existing line for the product is
// merged (quantity incremented) by the store's conflict resolution; a new
// line starts at quantity 1. An empty product ID is a silent no-op, the
// same boundary policy as unknown line IDs.
func (m *Manager) AddItem(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return notInitialized("add item")
	}
	if productID == "" {
		return nil
	}

	m.trace.LogAction("Add to Cart",
		`INSERT INTO cart_lines (cart_id, product_id, quantity)
VALUES ('<cart_id>', '<product_id>', 1)
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_lines.quantity + 1`,
		trace.Params{
			"cart_id":    trace.IdentParam(m.cart.ID),
			"product_id": trace.IdentParam(productID),
		})

	if err := m.store.UpsertCartLine(ctx, m.newID(), m.cart.ID, productID); err != nil {
		m.logger.Warn("add item failed", "product_id", productID, "error", err)
		return storeUnavailable("add item", err)
	}

	if err := m.reloadLocked(ctx); err != nil {
		return storeUnavailable("add item", err)
	}
	return nil
}

// SetQuantity sets a line's quantity. A quantity of zero or less is
// removal and delegates to the same path as RemoveItem. An unknown line
// ID is a silent no-op.
func (m *Manager) SetQuantity(ctx context.Context, lineID string, quantity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return notInitialized("set quantity")
	}

	line, ok := m.findLineLocked(lineID)
	if !ok {
		return nil
	}

	m.trace.LogAction("Update Cart Quantity",
		`UPDATE cart_lines
SET quantity = <new_quantity>
WHERE cart_id = '<cart_id>' AND product_id = '<product_id>'`,
		trace.Params{
			"cart_id":      trace.IdentParam(m.cart.ID),
			"product_id":   trace.IdentParam(line.ProductID),
			"new_quantity": trace.IntParam(quantity),
		})

	if quantity <= 0 {
		return m.removeLocked(ctx, line)
	}

	if err := m.store.SetCartLineQuantity(ctx, lineID, quantity); err != nil {
		m.logger.Warn("set quantity failed", "line_id", lineID, "error", err)
		return storeUnavailable("set quantity", err)
	}

	if err := m.reloadLocked(ctx); err != nil {
		return storeUnavailable("set quantity", err)
	}
	return nil
}

// RemoveItem deletes a line. An unknown line ID is a silent no-op.
func (m *Manager) RemoveItem(ctx context.Context, lineID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReady {
		return notInitialized("remove item")
	}

	line, ok := m.findLineLocked(lineID)
	if !ok {
		return nil
	}
	return m.removeLocked(ctx, line)
}

// Lines returns a snapshot of the current cart lines.
func (m *Manager) Lines() []store.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := make([]store.CartLine, len(m.lines))
	copy(lines, m.lines)
	return lines
}

// Total returns the cart total in cents, computed fresh from the current
// lines. Never cached: the lines are the single source of truth.
func (m *Manager) Total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, line := range m.lines {
		total += line.Product.Price * line.Quantity
	}
	return total
}

// Count returns the total unit count across lines, computed fresh.
func (m *Manager) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, line := range m.lines {
		count += line.Quantity
	}
	return count
}

// removeLocked traces and issues the delete for a known line, then
// reloads. Shared by RemoveItem and SetQuantity's zero path.
func (m *Manager) removeLocked(ctx context.Context, line store.CartLine) error {
	m.trace.LogAction("Remove from Cart",
		`DELETE FROM cart_lines
WHERE cart_id = '<cart_id>' AND product_id = '<product_id>'`,
		trace.Params{
			"cart_id":    trace.IdentParam(m.cart.ID),
			"product_id": trace.IdentParam(line.ProductID),
		})

	if err := m.store.DeleteCartLine(ctx, line.ID); err != nil {
		m.logger.Warn("remove item failed", "line_id", line.ID, "error", err)
		return storeUnavailable("remove item", err)
	}

	if err := m.reloadLocked(ctx); err != nil {
		return storeUnavailable("remove item", err)
	}
	return nil
}

// reloadLocked re-reads the full line list from the store. The in-memory
// projection changes only here, and only on success.
func (m *Manager) reloadLocked(ctx context.Context) error {
	m.trace.LogAction("View Cart",
		`SELECT cart_lines.*, products.*
FROM cart_lines
JOIN products ON cart_lines.product_id = products.id
WHERE cart_id = '<cart_id>'`,
		trace.Params{"cart_id": trace.IdentParam(m.cart.ID)})

	lines, err := m.store.CartLines(ctx, m.cart.ID)
	if err != nil {
		return err
	}
	m.lines = lines
	return nil
}

func (m *Manager) findLineLocked(lineID string) (store.CartLine, bool) {
	for _, line := range m.lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return store.CartLine{}, false
}

func (m *Manager) failInitLocked(op string, err error) error {
	m.state = StateFailed
	m.logger.Error("cart initialization failed", "error", err)
	return storeUnavailable(op, err)
}
