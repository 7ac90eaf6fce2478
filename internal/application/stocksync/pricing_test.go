package stocksync_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelar-dev/lotstock-api/internal/application/stocksync"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type pricingFixture struct {
	batches *fakeBatchRepo
	prices  *fakePriceRepo
	sync    *stocksync.PricingSync
}

func newPricingFixture(t *testing.T) *pricingFixture {
	t.Helper()
	f := &pricingFixture{
		batches: newFakeBatchRepo(),
		prices:  newFakePriceRepo(),
	}
	f.sync = stocksync.NewPricingSync(f.batches, f.prices, stocksync.PricingConfig{
		Currency:        "usd",
		CustomerGroupID: "cg-at-price",
		PriceListName:   "at-price",
	}, logger.Nop())
	require.NoError(t, f.sync.EnsurePriceList(context.Background()))
	return f
}

func (f *pricingFixture) price(variantID string) *entity.Price {
	list := f.prices.lists["at-price"]
	ps := f.prices.priceSets[variantID]
	if list == nil || ps == nil {
		return nil
	}
	return f.prices.prices[list.ID+"|"+ps.PriceSetID+"|usd"]
}

func TestEnsurePriceList_CreatesOnce(t *testing.T) {
	f := newPricingFixture(t)

	list := f.prices.lists["at-price"]
	require.NotNil(t, list)
	assert.Equal(t, "cg-at-price", list.CustomerGroupID)

	// second run must reuse, not duplicate
	require.NoError(t, f.sync.EnsurePriceList(context.Background()))
	assert.Equal(t, list.ID, f.prices.lists["at-price"].ID)
}

func TestEnsurePriceList_SurvivesCreateRace(t *testing.T) {
	prices := newFakePriceRepo()
	prices.dupOnce = true
	sync := stocksync.NewPricingSync(newFakeBatchRepo(), prices, stocksync.PricingConfig{
		Currency: "usd", PriceListName: "at-price",
	}, logger.Nop())

	require.NoError(t, sync.EnsurePriceList(context.Background()))
	require.NoError(t, sync.SyncVariants(context.Background(), nil))
	assert.Equal(t, "pl-winner", prices.lists["at-price"].ID)
}

func TestPricingSync_RequiresProvisioning(t *testing.T) {
	sync := stocksync.NewPricingSync(newFakeBatchRepo(), newFakePriceRepo(), stocksync.PricingConfig{
		Currency: "usd", PriceListName: "at-price",
	}, logger.Nop())

	err := sync.SyncVariants(context.Background(), []string{"var-1"})

	assert.Error(t, err)
}

// $2/unit supplier cost plus $10 testing over 10 units → $3/unit → 300 cents.
func TestPricingSync_WritesValuationInMinorUnits(t *testing.T) {
	f := newPricingFixture(t)
	f.batches.add(&entity.Batch{
		ID: "b1", VariantID: "var-1", Quantity: 10,
		SupplierCost: dec("2"), TestingCost: dec("10"),
	})
	f.prices.priceSets["var-1"] = &entity.VariantPriceSet{VariantID: "var-1", PriceSetID: "ps-1"}

	err := f.sync.SyncVariants(context.Background(), []string{"var-1"})

	require.NoError(t, err)
	p := f.price("var-1")
	require.NotNil(t, p)
	assert.Equal(t, int64(300), p.AmountMinor)
}

func TestPricingSync_UpdatesOnlyWhenChanged(t *testing.T) {
	f := newPricingFixture(t)
	f.batches.add(&entity.Batch{ID: "b1", VariantID: "var-1", Quantity: 10, SupplierCost: dec("3")})
	f.prices.priceSets["var-1"] = &entity.VariantPriceSet{VariantID: "var-1", PriceSetID: "ps-1"}

	require.NoError(t, f.sync.SyncVariants(context.Background(), []string{"var-1"}))
	assert.Equal(t, 1, f.prices.creates)

	// same valuation: no second write
	require.NoError(t, f.sync.SyncVariants(context.Background(), []string{"var-1"}))
	assert.Equal(t, 0, f.prices.updates)

	// cost changes: amount is updated in place
	f.batches.add(&entity.Batch{ID: "b2", VariantID: "var-1", Quantity: 10, SupplierCost: dec("5")})
	require.NoError(t, f.sync.SyncVariants(context.Background(), []string{"var-1"}))
	assert.Equal(t, 1, f.prices.updates)
	assert.Equal(t, int64(400), f.price("var-1").AmountMinor)
}

// No cost data on any batch: fall back to the base calculated price rather than
// dropping the override.
func TestPricingSync_FallsBackToBasePrice(t *testing.T) {
	f := newPricingFixture(t)
	f.prices.priceSets["var-1"] = &entity.VariantPriceSet{VariantID: "var-1", PriceSetID: "ps-1"}
	f.prices.basePrices["ps-1|usd"] = 2500

	err := f.sync.SyncVariants(context.Background(), []string{"var-1"})

	require.NoError(t, err)
	p := f.price("var-1")
	require.NotNil(t, p)
	assert.Equal(t, int64(2500), p.AmountMinor)
}

func TestPricingSync_SkipsWhenNoValuationAndNoBase(t *testing.T) {
	f := newPricingFixture(t)
	f.prices.priceSets["var-1"] = &entity.VariantPriceSet{VariantID: "var-1", PriceSetID: "ps-1"}

	err := f.sync.SyncVariants(context.Background(), []string{"var-1"})

	require.NoError(t, err)
	assert.Nil(t, f.price("var-1"))
}

func TestPricingSync_SkipsVariantsWithoutPriceSet(t *testing.T) {
	f := newPricingFixture(t)
	f.batches.add(&entity.Batch{ID: "b1", VariantID: "var-1", Quantity: 10, SupplierCost: dec("3")})

	err := f.sync.SyncVariants(context.Background(), []string{"var-1"})

	require.NoError(t, err)
	assert.Equal(t, 0, f.prices.creates)
}

// Fractional cents round half up.
func TestPricingSync_RoundsToNearestCent(t *testing.T) {
	f := newPricingFixture(t)
	// 3 units at $1 plus $1 testing → 1.3333… → 133 cents
	f.batches.add(&entity.Batch{
		ID: "b1", VariantID: "var-1", Quantity: 3,
		SupplierCost: dec("1"), TestingCost: dec("1"),
	})
	f.prices.priceSets["var-1"] = &entity.VariantPriceSet{VariantID: "var-1", PriceSetID: "ps-1"}

	err := f.sync.SyncVariants(context.Background(), []string{"var-1"})

	require.NoError(t, err)
	assert.Equal(t, int64(133), f.price("var-1").AmountMinor)
}
