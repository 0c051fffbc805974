package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/stock"
)

type fakeProduct struct {
	name     string
	quantity int64
}

// memoryRepo emulates the PostgreSQL repository: WithTx holds a lock for the
// whole transaction (the FOR UPDATE row lock) and restores a snapshot when
// the callback fails (rollback).
type memoryRepo struct {
	mu           sync.Mutex
	products     map[int64]*fakeProduct
	movements    []Movement
	nextID       int64
	sawNegative  bool
	recomputeRun int
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[int64]*fakeProduct{}}
}

func (r *memoryRepo) addProduct(id int64, name string, qty int64) {
	r.products[id] = &fakeProduct{name: name, quantity: qty}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[int64]int64, len(r.products))
	for id, p := range r.products {
		snapshot[id] = p.quantity
	}
	moved := len(r.movements)

	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		for id, qty := range snapshot {
			r.products[id].quantity = qty
		}
		r.movements = r.movements[:moved]
		return err
	}
	return nil
}

func (r *memoryRepo) ListMovements(ctx context.Context, filter ListFilter) ([]MovementRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := []MovementRow{}
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		rows = append(rows, MovementRow{Movement: m, ProductName: r.products[m.ProductID].name, Unit: "pcs"})
		if len(rows) == DefaultListLimit {
			break
		}
	}
	return rows, nil
}

func (tx *memoryTx) GetProductForUpdate(ctx context.Context, productID int64) (ProductState, error) {
	p, ok := tx.repo.products[productID]
	if !ok {
		return ProductState{}, shared.ErrNotFound
	}
	return ProductState{ID: productID, Name: p.name, Quantity: p.quantity}, nil
}

func (tx *memoryTx) InsertMovement(ctx context.Context, m Movement) (Movement, error) {
	tx.repo.nextID++
	m.ID = tx.repo.nextID
	m.CreatedAt = time.Now().UTC()
	tx.repo.movements = append(tx.repo.movements, m)
	return m, nil
}

func (tx *memoryTx) UpdateProductQuantity(ctx context.Context, productID, quantity int64) error {
	if quantity < 0 {
		tx.repo.sawNegative = true
	}
	tx.repo.products[productID].quantity = quantity
	return nil
}

func (tx *memoryTx) RecomputeQuantities(ctx context.Context) ([]Drift, error) {
	tx.repo.recomputeRun++
	drift := []Drift{}
	for id, p := range tx.repo.products {
		var derived int64
		for _, m := range tx.repo.movements {
			if m.ProductID != id {
				continue
			}
			if m.Type == MovementIn {
				derived += m.Quantity
			} else {
				derived -= m.Quantity
			}
		}
		if derived != p.quantity {
			drift = append(drift, Drift{ProductID: id, Stored: p.quantity, Derived: derived})
			p.quantity = derived
		}
	}
	return drift, nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: map[string]bool{}}
}

func (f *fakeIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	f.keys[key] = true
	return nil
}

func (f *fakeIdempotency) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}

type capturingNotifier struct {
	mu     sync.Mutex
	events []StockAlertEvent
}

func (n *capturingNotifier) StockStatusChanged(ctx context.Context, evt StockAlertEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return nil
}

func TestRecordMaintainsLedgerSum(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Rice 25kg", 0)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	for _, step := range []struct {
		typ MovementType
		qty int64
	}{
		{MovementIn, 10}, {MovementIn, 7}, {MovementOut, 4}, {MovementIn, 2}, {MovementOut, 15},
	} {
		_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: step.typ, Quantity: step.qty})
		require.NoError(t, err)
	}

	var sum int64
	for _, m := range repo.movements {
		if m.Type == MovementIn {
			sum += m.Quantity
		} else {
			sum -= m.Quantity
		}
	}
	require.Equal(t, sum, repo.products[1].quantity)
	require.EqualValues(t, 0, repo.products[1].quantity)
	require.False(t, repo.sawNegative)
}

func TestRecordInThenOutRestoresQuantity(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Sugar 1kg", 6)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementIn, Quantity: 9})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 9})
	require.NoError(t, err)
	require.EqualValues(t, 6, repo.products[1].quantity)
}

func TestInsufficientStockLeavesNothingBehind(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Flour sack", 3)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 5})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.EqualValues(t, 3, repo.products[1].quantity)
	require.Empty(t, repo.movements)
}

func TestRecordValidation(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Oil bottle", 3)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	var vErr *shared.ValidationError

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: "swap", Quantity: 1})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementIn, Quantity: 0})
	require.ErrorAs(t, err, &vErr)

	_, err = svc.Record(ctx, RecordInput{ProductID: 99, Type: MovementIn, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Empty(t, repo.movements)
}

func TestThreeInThenOversizedOut(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Noodle pack", 0)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementIn, Quantity: 5})
		require.NoError(t, err)
	}
	require.EqualValues(t, 15, repo.products[1].quantity)
	require.Len(t, repo.movements, 3)
	require.Equal(t, stock.StatusInStock, stock.Classify(repo.products[1].quantity, 10))

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 20})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	require.EqualValues(t, 15, repo.products[1].quantity)
	require.Len(t, repo.movements, 3)
}

func TestConcurrentOutsDrainToZero(t *testing.T) {
	const n = 50
	repo := newMemoryRepo()
	repo.addProduct(1, "Bottled water", n)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 0, repo.products[1].quantity)
	require.Len(t, repo.movements, n)
	require.False(t, repo.sawNegative, "no negative quantity may ever be written")
}

func TestIdempotencyKeyRejectsReplay(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Egg tray", 10)
	idem := newFakeIdempotency()
	svc := NewService(repo, idem, nil, ServiceConfig{})
	ctx := context.Background()

	key := uuid.NewString()
	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 2, IdempotencyKey: key})
	require.NoError(t, err)

	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 2, IdempotencyKey: key})
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
	require.EqualValues(t, 8, repo.products[1].quantity)
	require.Len(t, repo.movements, 1)
}

func TestIdempotencyKeyReleasedOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Egg tray", 1)
	idem := newFakeIdempotency()
	svc := NewService(repo, idem, nil, ServiceConfig{})
	ctx := context.Background()

	key := uuid.NewString()
	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 5, IdempotencyKey: key})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	// The failed attempt must not burn the key.
	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 1, IdempotencyKey: key})
	require.NoError(t, err)
}

// timeoutRepo simulates a transaction whose deadline expired before the
// commit outcome was observed.
type timeoutRepo struct {
	*memoryRepo
}

func (r *timeoutRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return context.DeadlineExceeded
}

func TestIdempotencyKeyKeptOnTimeout(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Egg tray", 10)
	idem := newFakeIdempotency()
	svc := NewService(&timeoutRepo{memoryRepo: repo}, idem, nil, ServiceConfig{})
	ctx := context.Background()

	key := uuid.NewString()
	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 2, IdempotencyKey: key})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The movement may have committed after the deadline, so the key must
	// survive and block a blind retry from applying it twice.
	require.True(t, idem.keys[key])
	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 2, IdempotencyKey: key})
	require.ErrorIs(t, err, shared.ErrIdempotencyConflict)
}

func TestAlertEmittedWhenStockDropsLow(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Cooking oil", 12)
	notifier := &capturingNotifier{}
	svc := NewService(repo, nil, notifier, ServiceConfig{LowStockThreshold: 10})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 5})
	require.NoError(t, err)
	require.Len(t, notifier.events, 1)
	require.Equal(t, stock.StatusLowStock, notifier.events[0].Status)
	require.EqualValues(t, 7, notifier.events[0].Quantity)

	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 7})
	require.NoError(t, err)
	require.Len(t, notifier.events, 2)
	require.Equal(t, stock.StatusOutOfStock, notifier.events[1].Status)
}

func TestListFiltersByType(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Rice 25kg", 0)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementIn, Quantity: 5})
	require.NoError(t, err)
	_, err = svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementOut, Quantity: 2})
	require.NoError(t, err)

	rows, err := svc.List(ctx, ListFilter{Type: MovementOut})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, MovementOut, rows[0].Type)

	rows, err = svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, MovementOut, rows[0].Type, "newest first")

	_, err = svc.List(ctx, ListFilter{Type: "transfer"})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestReconcileFixesDrift(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, "Rice 25kg", 0)
	svc := NewService(repo, nil, nil, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Record(ctx, RecordInput{ProductID: 1, Type: MovementIn, Quantity: 5})
	require.NoError(t, err)

	// Simulate an out-of-band write corrupting the stored counter.
	repo.products[1].quantity = 42

	drift, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	require.EqualValues(t, 42, drift[0].Stored)
	require.EqualValues(t, 5, drift[0].Derived)
	require.EqualValues(t, 5, repo.products[1].quantity)

	drift, err = svc.Reconcile(ctx)
	require.NoError(t, err)
	require.Empty(t, drift)
}
