package allocation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Test helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	batches *memBatchRepo
	allocs  *memAllocRepo
	orders  *memOrderRepo
	engine  *allocation.Engine
}

func newFixture() *fixture {
	f := &fixture{
		batches: newMemBatchRepo(),
		allocs:  newMemAllocRepo(),
		orders:  newMemOrderRepo(),
	}
	tx := &fakeTxRunner{batchRepo: f.batches, allocRepo: f.allocs}
	f.engine = allocation.NewEngine(tx, f.orders, logger.Nop())
	return f
}

func (f *fixture) addBatch(id, variantID string, qty int64, createdAt time.Time) {
	f.batches.batches[id] = &entity.Batch{
		ID:        id,
		VariantID: variantID,
		LotNumber: "LOT-" + id,
		Quantity:  qty,
		CreatedAt: createdAt,
	}
}

func (f *fixture) addOrder(id string, items ...entity.OrderLineItem) {
	f.orders.orders[id] = &entity.Order{ID: id, Items: items}
}

func (f *fixture) allocatedTo(batchID string) int64 {
	var total int64
	for _, a := range f.allocs.allocs {
		if a.BatchID == batchID {
			total += a.Quantity
		}
	}
	return total
}

var (
	day1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
)

// ──────────────────────────────────────────────────────────────────────────────
// Allocate
// ──────────────────────────────────────────────────────────────────────────────

// Oldest lot is exhausted before the next one is touched.
func TestAllocate_FIFOAcrossBatches(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addBatch("b2", "var-1", 5, day2)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 7})

	res, err := f.engine.Allocate(context.Background(), "order-1")

	require.NoError(t, err)
	require.Len(t, res.Created, 2)
	assert.Equal(t, int64(5), f.allocatedTo("b1"))
	assert.Equal(t, int64(2), f.allocatedTo("b2"))
	assert.Empty(t, res.Shortfalls)
	assert.Equal(t, []string{"var-1"}, res.VariantIDs)
}

func TestAllocate_TagsSystemAllocations(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 2})

	res, err := f.engine.Allocate(context.Background(), "order-1")

	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	a := res.Created[0]
	assert.Equal(t, true, a.Metadata[entity.AllocationMetaAuto])
	assert.Equal(t, "order-1", a.Metadata[entity.AllocationMetaOrderID])
	assert.Equal(t, "li-1", a.LineItemID)
}

// A second pass with no state change must not double-allocate.
func TestAllocate_Idempotent(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 10, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 4})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	res, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Empty(t, res.Created)
	assert.Empty(t, res.VariantIDs)
	assert.Equal(t, int64(4), f.allocatedTo("b1"))
}

// After a shortfall, a restock pass only allocates the outstanding remainder.
func TestAllocate_TopUpAfterRestock(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 3, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 7})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	f.addBatch("b2", "var-1", 10, day2)
	res, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	require.Len(t, res.Created, 1)
	assert.Equal(t, int64(4), res.Created[0].Quantity)
	assert.Equal(t, int64(3), f.allocatedTo("b1"))
	assert.Equal(t, int64(4), f.allocatedTo("b2"))
}

// Shortfall is reported, never thrown: the payment is already captured.
func TestAllocate_ShortfallDoesNotBlock(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 3, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 7})

	res, err := f.engine.Allocate(context.Background(), "order-1")

	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, int64(3), res.Created[0].Quantity)
	require.Len(t, res.Shortfalls, 1)
	assert.Equal(t, allocation.Shortfall{
		OrderID:    "order-1",
		LineItemID: "li-1",
		VariantID:  "var-1",
		Missing:    4,
	}, res.Shortfalls[0])
}

func TestAllocate_SkipsUntrackedAndEmptyLines(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addOrder("order-1",
		entity.OrderLineItem{ID: "li-fee", VariantID: "", Quantity: 1},
		entity.OrderLineItem{ID: "li-zero", VariantID: "var-1", Quantity: 0},
	)

	res, err := f.engine.Allocate(context.Background(), "order-1")

	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Empty(t, res.Shortfalls)
}

func TestAllocate_OrderNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.engine.Allocate(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// One line item's hard failure must not starve the rest of the order.
func TestAllocate_LineItemFailureIsolated(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addBatch("b2", "var-2", 5, day1)
	f.addOrder("order-1",
		entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 2},
		entity.OrderLineItem{ID: "li-2", VariantID: "var-2", Quantity: 3},
	)

	boom := errors.New("storage exploded")
	failing := &failingAllocRepo{AllocationRepository: f.allocs, failLineItemID: "li-1", err: boom}
	tx := &fakeTxRunner{batchRepo: f.batches, allocRepo: failing}
	engine := allocation.NewEngine(tx, f.orders, logger.Nop())

	res, err := engine.Allocate(context.Background(), "order-1")

	assert.ErrorIs(t, err, boom)
	require.Len(t, res.Created, 1)
	assert.Equal(t, int64(3), f.allocatedTo("b2"))
	assert.Equal(t, int64(0), f.allocatedTo("b1"))
}

// The allocation never exceeds a batch's derived availability, even with
// pre-existing manual allocations on it.
func TestAllocate_RespectsExistingAllocations(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 10, day1)
	f.allocs.allocs["manual"] = &entity.Allocation{
		ID: "manual", BatchID: "b1", LineItemID: "li-other", Quantity: 8,
	}
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 5})

	res, err := f.engine.Allocate(context.Background(), "order-1")

	require.NoError(t, err)
	require.Len(t, res.Created, 1)
	assert.Equal(t, int64(2), res.Created[0].Quantity)
	require.Len(t, res.Shortfalls, 1)
	assert.Equal(t, int64(3), res.Shortfalls[0].Missing)

	batches, _ := f.batches.ListByVariant(context.Background(), "var-1")
	allocs, _ := f.allocs.ListByBatchIDs(context.Background(), []string{"b1"})
	assert.Equal(t, int64(0), lot.VariantAvailable(batches, allocs))
}
