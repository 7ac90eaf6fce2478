package stocksync_test

import (
	"context"
	"sort"

	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

// Fakes embed the port interface and implement only the methods the sync
// adapters touch; anything else panics on a nil interface.

type fakeBatchRepo struct {
	repository.BatchRepository
	byVariant map[string][]*entity.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{byVariant: map[string][]*entity.Batch{}}
}

func (r *fakeBatchRepo) add(b *entity.Batch) {
	r.byVariant[b.VariantID] = append(r.byVariant[b.VariantID], b)
}

func (r *fakeBatchRepo) ListByVariant(_ context.Context, variantID string) ([]*entity.Batch, error) {
	return r.byVariant[variantID], nil
}

type fakeAllocRepo struct {
	repository.AllocationRepository
	allocs []*entity.Allocation
}

func (r *fakeAllocRepo) ListByBatchIDs(_ context.Context, batchIDs []string) ([]*entity.Allocation, error) {
	ids := map[string]bool{}
	for _, id := range batchIDs {
		ids[id] = true
	}
	var out []*entity.Allocation
	for _, a := range r.allocs {
		if ids[a.BatchID] {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLinkRepo struct {
	links []*entity.VariantStockLink
}

func (r *fakeLinkRepo) ListByVariants(_ context.Context, variantIDs []string) ([]*entity.VariantStockLink, error) {
	ids := map[string]bool{}
	for _, id := range variantIDs {
		ids[id] = true
	}
	var out []*entity.VariantStockLink
	for _, l := range r.links {
		if ids[l.VariantID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) ListByInventoryItems(_ context.Context, itemIDs []string) ([]*entity.VariantStockLink, error) {
	ids := map[string]bool{}
	for _, id := range itemIDs {
		ids[id] = true
	}
	var out []*entity.VariantStockLink
	for _, l := range r.links {
		if ids[l.InventoryItemID] {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeLevelRepo struct {
	levels  map[string][]*entity.InventoryLevel // keyed by inventory item
	creates int
	updates int
}

func newFakeLevelRepo() *fakeLevelRepo {
	return &fakeLevelRepo{levels: map[string][]*entity.InventoryLevel{}}
}

func (r *fakeLevelRepo) ListByInventoryItem(_ context.Context, itemID string) ([]*entity.InventoryLevel, error) {
	out := append([]*entity.InventoryLevel(nil), r.levels[itemID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *fakeLevelRepo) Create(_ context.Context, level *entity.InventoryLevel) error {
	r.creates++
	r.levels[level.InventoryItemID] = append(r.levels[level.InventoryItemID], level)
	return nil
}

func (r *fakeLevelRepo) UpdateStockedQuantity(_ context.Context, itemID, locationID string, quantity int64) error {
	r.updates++
	for _, l := range r.levels[itemID] {
		if l.LocationID == locationID {
			l.StockedQuantity = quantity
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeLevelRepo) stocked(itemID, locationID string) int64 {
	for _, l := range r.levels[itemID] {
		if l.LocationID == locationID {
			return l.StockedQuantity
		}
	}
	return -1
}

type fakePriceRepo struct {
	lists      map[string]*entity.PriceList // keyed by name
	priceSets  map[string]*entity.VariantPriceSet
	prices     map[string]*entity.Price // keyed by listID|setID|currency
	basePrices map[string]int64         // keyed by setID|currency
	creates    int
	updates    int
	dupOnce    bool // next CreatePriceList returns ErrDuplicate
}

func newFakePriceRepo() *fakePriceRepo {
	return &fakePriceRepo{
		lists:      map[string]*entity.PriceList{},
		priceSets:  map[string]*entity.VariantPriceSet{},
		prices:     map[string]*entity.Price{},
		basePrices: map[string]int64{},
	}
}

func (r *fakePriceRepo) GetPriceListByName(_ context.Context, name string) (*entity.PriceList, error) {
	return r.lists[name], nil
}

func (r *fakePriceRepo) CreatePriceList(_ context.Context, list *entity.PriceList) error {
	if r.dupOnce {
		// a concurrent provisioner won the insert
		r.dupOnce = false
		r.lists[list.Name] = &entity.PriceList{ID: "pl-winner", Name: list.Name}
		return domain.ErrDuplicate
	}
	r.lists[list.Name] = list
	return nil
}

func (r *fakePriceRepo) GetPriceSetByVariant(_ context.Context, variantID string) (*entity.VariantPriceSet, error) {
	return r.priceSets[variantID], nil
}

func (r *fakePriceRepo) GetPrice(_ context.Context, priceListID, priceSetID, currency string) (*entity.Price, error) {
	return r.prices[priceListID+"|"+priceSetID+"|"+currency], nil
}

func (r *fakePriceRepo) CreatePrice(_ context.Context, p *entity.Price) error {
	r.creates++
	r.prices[p.PriceListID+"|"+p.PriceSetID+"|"+p.Currency] = p
	return nil
}

func (r *fakePriceRepo) UpdatePriceAmount(_ context.Context, id string, amountMinor int64) error {
	r.updates++
	for _, p := range r.prices {
		if p.ID == id {
			p.AmountMinor = amountMinor
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakePriceRepo) GetBasePriceMinor(_ context.Context, priceSetID, currency string) (*int64, error) {
	v, ok := r.basePrices[priceSetID+"|"+currency]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
