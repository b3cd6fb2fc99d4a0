package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vitrine/internal/catalog"
	"github.com/roach88/vitrine/internal/store"
	"github.com/roach88/vitrine/internal/testutil"
	"github.com/roach88/vitrine/internal/trace"
)

const (
	phonePrice int64 = 99900
	budsPrice  int64 = 19900
)

// fixedIdentity is a stub session identity store.
type fixedIdentity struct {
	token string
	err   error
}

func (f fixedIdentity) Identity() (string, error) {
	return f.token, f.err
}

// failingStore wraps a working store and fails selected operations.
type failingStore struct {
	Store
	failFind   bool
	failUpsert bool
	failLines  bool
}

var errStoreDown = errors.New("store down")

func (f *failingStore) FindCartBySession(ctx context.Context, sessionID string) (store.Cart, bool, error) {
	if f.failFind {
		return store.Cart{}, false, errStoreDown
	}
	return f.Store.FindCartBySession(ctx, sessionID)
}

func (f *failingStore) UpsertCartLine(ctx context.Context, lineID, cartID, productID string) error {
	if f.failUpsert {
		return errStoreDown
	}
	return f.Store.UpsertCartLine(ctx, lineID, cartID, productID)
}

func (f *failingStore) CartLines(ctx context.Context, cartID string) ([]store.CartLine, error) {
	if f.failLines {
		return nil, errStoreDown
	}
	return f.Store.CartLines(ctx, cartID)
}

func newSeededStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	products := []catalog.Product{
		{ID: "p-phone", Name: "Aurora 15 Pro", Slug: "aurora-15-pro", Price: phonePrice, Category: "Smartphones", Color: "Silver", Storage: 256},
		{ID: "p-buds", Name: "Halo Buds", Slug: "halo-buds", Price: budsPrice, Category: "Audio", Color: "White"},
	}
	for _, p := range products {
		require.NoError(t, s.InsertProduct(ctx, p))
	}
	require.NoError(t, s.InsertImage(ctx, catalog.Image{
		ID: "p-phone-img-0", ProductID: "p-phone",
		URL: "https://img.example.com/aurora.jpg", Primary: true,
	}))

	return s
}

func newTestManager(t *testing.T, st Store) (*Manager, *trace.Log) {
	t.Helper()

	clock := testutil.NewClock(time.Unix(1700000000, 0).UTC(), time.Second)
	log := trace.New(
		trace.WithClock(clock.Now),
		trace.WithIDGenerator(testutil.SequenceIDs("entry")),
	)
	log.Enable()

	m := New(st, fixedIdentity{token: "session_test"}, log,
		WithIDGenerator(testutil.SequenceIDs("id")))
	return m, log
}

func actions(log *trace.Log) []string {
	hist := log.History()
	out := make([]string, len(hist))
	for i, e := range hist {
		out[i] = e.Action
	}
	return out
}

func TestInitialize_CreatesCartOnFirstUse(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))

	require.NoError(t, m.Initialize(context.Background()))
	assert.Equal(t, StateReady, m.State())
	assert.Empty(t, m.Lines())
	assert.Zero(t, m.Count())
	assert.Zero(t, m.Total())

	assert.Equal(t, []string{"Initialize Cart", "Create Cart", "View Cart"}, actions(log))
}

func TestInitialize_ResolvesExistingCart(t *testing.T) {
	st := newSeededStore(t)

	first, _ := newTestManager(t, st)
	require.NoError(t, first.Initialize(context.Background()))
	require.NoError(t, first.AddItem(context.Background(), "p-phone"))

	// A second manager over the same session resolves the same cart and
	// sees its lines. No Create Cart entry this time.
	second, log := newTestManager(t, st)
	require.NoError(t, second.Initialize(context.Background()))
	assert.Equal(t, []string{"Initialize Cart", "View Cart"}, actions(log))
	assert.Equal(t, int64(1), second.Count())
}

func TestInitialize_IdentityFailure(t *testing.T) {
	log := trace.New()
	m := New(newSeededStore(t), fixedIdentity{err: errors.New("disk gone")}, log)

	err := m.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
	assert.Equal(t, StateFailed, m.State())
}

func TestInitialize_StoreFailureThenRecovery(t *testing.T) {
	fs := &failingStore{Store: newSeededStore(t), failFind: true}
	m, _ := newTestManager(t, fs)
	ctx := context.Background()

	err := m.Initialize(ctx)
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
	assert.Equal(t, StateFailed, m.State())

	// Operations are rejected until a fresh Initialize succeeds.
	err = m.AddItem(ctx, "p-phone")
	assert.True(t, IsNotInitialized(err))

	fs.failFind = false
	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, StateReady, m.State())
	require.NoError(t, m.AddItem(ctx, "p-phone"))
	assert.Equal(t, int64(1), m.Count())
}

func TestOperations_RequireReady(t *testing.T) {
	m, _ := newTestManager(t, newSeededStore(t))
	ctx := context.Background()

	assert.True(t, IsNotInitialized(m.AddItem(ctx, "p-phone")))
	assert.True(t, IsNotInitialized(m.SetQuantity(ctx, "line-1", 2)))
	assert.True(t, IsNotInitialized(m.RemoveItem(ctx, "line-1")))
}

func TestAddItem_MergesDuplicateProduct(t *testing.T) {
	m, _ := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	require.NoError(t, m.AddItem(ctx, "p-phone"))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	lines := m.Lines()
	require.Len(t, lines, 1, "duplicate add must merge, never create a second line")
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.Equal(t, int64(2), m.Count())
	assert.Equal(t, 2*phonePrice, m.Total())
}

func TestAddItem_SnapshotCarriesPrimaryImage(t *testing.T) {
	m, _ := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	line := m.Lines()[0]
	assert.Equal(t, "Aurora 15 Pro", line.Product.Name)
	assert.Equal(t, "https://img.example.com/aurora.jpg", line.Product.ImageURL)
}

func TestAddItem_EmptyProductIsNoOp(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	before := len(log.History())

	require.NoError(t, m.AddItem(ctx, ""))
	assert.Empty(t, m.Lines())
	assert.Len(t, log.History(), before, "no trace entry for a no-op")
}

func TestSetQuantity_ZeroDelegatesToRemove(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))
	lineID := m.Lines()[0].ID

	require.NoError(t, m.SetQuantity(ctx, lineID, 0))
	assert.Empty(t, m.Lines())

	// Matches the removal path's end state and trace shape: the update
	// intent is recorded, then the delete.
	acts := actions(log)
	assert.Equal(t, "Update Cart Quantity", acts[len(acts)-3])
	assert.Equal(t, "Remove from Cart", acts[len(acts)-2])
	assert.Equal(t, "View Cart", acts[len(acts)-1])
}

func TestSetQuantity_UnknownLineIsNoOp(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))
	before := len(log.History())

	require.NoError(t, m.SetQuantity(ctx, "line-missing", 7))
	assert.Equal(t, int64(1), m.Count())
	assert.Len(t, log.History(), before)
}

func TestRemoveItem_UnknownLineIsNoOp(t *testing.T) {
	m, _ := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	total, count := m.Total(), m.Count()
	require.NoError(t, m.RemoveItem(ctx, "line-missing"))
	assert.Equal(t, total, m.Total())
	assert.Equal(t, count, m.Count())
	assert.Len(t, m.Lines(), 1)
}

func TestMutationFailure_LeavesProjectionIntact(t *testing.T) {
	fs := &failingStore{Store: newSeededStore(t)}
	m, _ := newTestManager(t, fs)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	fs.failUpsert = true
	err := m.AddItem(ctx, "p-phone")
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))

	// Still Ready, projection unchanged: the mutation never applied
	// locally because only a successful reload updates lines.
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, int64(1), m.Count())

	fs.failUpsert = false
	require.NoError(t, m.AddItem(ctx, "p-phone"))
	assert.Equal(t, int64(2), m.Count())
}

func TestReloadFailure_KeepsPreviousLines(t *testing.T) {
	fs := &failingStore{Store: newSeededStore(t)}
	m, _ := newTestManager(t, fs)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	fs.failLines = true
	err := m.AddItem(ctx, "p-buds")
	require.Error(t, err)

	// The upsert went through but the reload did not; the projection
	// shows the last successfully loaded state.
	assert.Equal(t, int64(1), m.Count())

	fs.failLines = false
	require.NoError(t, m.AddItem(ctx, "p-buds"))
	assert.Equal(t, int64(3), m.Count())
}

// TestCartLifecycleScenario walks the full add/add/set/remove flow against
// a real in-memory store.
func TestCartLifecycleScenario(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	require.Empty(t, m.Lines())

	require.NoError(t, m.AddItem(ctx, "p-phone"))
	assert.Equal(t, int64(1), m.Count())
	assert.Equal(t, phonePrice, m.Total())

	require.NoError(t, m.AddItem(ctx, "p-phone"))
	assert.Equal(t, int64(2), m.Count())
	require.Len(t, m.Lines(), 1)
	assert.Equal(t, int64(2), m.Lines()[0].Quantity)

	lineID := m.Lines()[0].ID
	require.NoError(t, m.SetQuantity(ctx, lineID, 5))
	assert.Equal(t, int64(5), m.Count())
	assert.Equal(t, 5*phonePrice, m.Total())

	require.NoError(t, m.RemoveItem(ctx, lineID))
	assert.Zero(t, m.Count())
	assert.Zero(t, m.Total())
	assert.Empty(t, m.Lines())

	assert.Equal(t, []string{
		"Initialize Cart", "Create Cart", "View Cart",
		"Add to Cart", "View Cart",
		"Add to Cart", "View Cart",
		"Update Cart Quantity", "View Cart",
		"Remove from Cart", "View Cart",
	}, actions(log))
}

func TestTraceEntries_RecordResolvedQueries(t *testing.T) {
	m, log := newTestManager(t, newSeededStore(t))
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))

	var add trace.Entry
	for _, e := range log.History() {
		if e.Action == "Add to Cart" {
			add = e
		}
	}
	require.NotEmpty(t, add.ID)

	resolved := add.FormattedQuery()
	assert.Contains(t, resolved, "ON CONFLICT (cart_id, product_id)")
	assert.Contains(t, resolved, "'p-phone'")
	assert.NotContains(t, resolved, "<product_id>")
}

func TestTraceDisabled_OperationsStillWork(t *testing.T) {
	log := trace.New() // never enabled
	m := New(newSeededStore(t), fixedIdentity{token: "session_test"}, log,
		WithIDGenerator(testutil.SequenceIDs("id")))
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	require.NoError(t, m.AddItem(ctx, "p-phone"))
	assert.Equal(t, int64(1), m.Count())
	assert.Empty(t, log.History())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
