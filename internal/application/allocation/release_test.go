package allocation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
)

// Release must return every batch to its pre-allocation availability.
func TestRelease_ReversesFully(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addBatch("b2", "var-1", 5, day2)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 7})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	res, err := f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Len(t, res.Deleted, 2)
	assert.Equal(t, []string{"var-1"}, res.VariantIDs)
	assert.Empty(t, f.allocs.allocs)

	batches, _ := f.batches.ListByVariant(context.Background(), "var-1")
	assert.Equal(t, int64(10), lot.VariantAvailable(batches, nil))
}

// When the order record is gone, the allocation metadata is the fallback link.
func TestRelease_FallbackByMetadata(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 4})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	// order purged before the cancel event arrives
	delete(f.orders.orders, "order-1")

	res, err := f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Len(t, res.Deleted, 1)
	assert.Equal(t, []string{"var-1"}, res.VariantIDs)
	assert.Empty(t, f.allocs.allocs)
}

// The metadata sweep also catches allocations whose line item was detached from
// the order after allocation.
func TestRelease_SweepsDetachedLineItems(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 2})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	// storefront edited the order: the line item no longer appears on it
	f.orders.orders["order-1"].Items = nil

	res, err := f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Len(t, res.Deleted, 1)
	assert.Empty(t, f.allocs.allocs)
}

func TestRelease_Idempotent(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 5, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 2})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)

	_, err = f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	res, err := f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Empty(t, res.Deleted)
	assert.Empty(t, res.VariantIDs)
}

// Manual allocations on other orders' line items survive a release.
func TestRelease_LeavesOtherOrdersAlone(t *testing.T) {
	f := newFixture()
	f.addBatch("b1", "var-1", 10, day1)
	f.addOrder("order-1", entity.OrderLineItem{ID: "li-1", VariantID: "var-1", Quantity: 2})
	f.addOrder("order-2", entity.OrderLineItem{ID: "li-2", VariantID: "var-1", Quantity: 3})

	_, err := f.engine.Allocate(context.Background(), "order-1")
	require.NoError(t, err)
	_, err = f.engine.Allocate(context.Background(), "order-2")
	require.NoError(t, err)

	_, err = f.engine.Release(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.allocatedTo("b1"))
}
