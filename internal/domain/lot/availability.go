// Package lot holds the pure domain services for dated-lot inventory: deriving
// available-to-sell quantities from batches and their allocations, and valuing a
// variant's stock as a weighted-average unit cost.
package lot

import (
	"sort"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// BatchAvailability pairs a batch with its derived available quantity, for admin
// listings where exhausted lots still appear (with zero availability).
type BatchAvailability struct {
	Batch     *entity.Batch
	Available int64
}

// AllocatedByBatch sums allocation quantities per batch id.
func AllocatedByBatch(allocs []*entity.Allocation) map[string]int64 {
	out := make(map[string]int64, len(allocs))
	for _, a := range allocs {
		out[a.BatchID] += a.Quantity
	}
	return out
}

// Available derives a batch's remaining sellable quantity. Overallocation is a bug
// state and must never surface as negative availability.
func Available(b *entity.Batch, allocated int64) int64 {
	remaining := b.Quantity - allocated
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AvailabilityByBatch derives availability for every batch, preserving input order.
func AvailabilityByBatch(batches []*entity.Batch, allocs []*entity.Allocation) []BatchAvailability {
	allocated := AllocatedByBatch(allocs)
	out := make([]BatchAvailability, 0, len(batches))
	for _, b := range batches {
		out = append(out, BatchAvailability{Batch: b, Available: Available(b, allocated[b.ID])})
	}
	return out
}

// VariantAvailable aggregates available quantity across a variant's batches.
// A variant with no batches is simply zero, not an error.
func VariantAvailable(batches []*entity.Batch, allocs []*entity.Allocation) int64 {
	allocated := AllocatedByBatch(allocs)
	var total int64
	for _, b := range batches {
		total += Available(b, allocated[b.ID])
	}
	return total
}

// SortFIFO orders batches oldest-received-first by creation time (id as tiebreak
// so the order is deterministic). Oldest stock is sold first.
func SortFIFO(batches []*entity.Batch) []*entity.Batch {
	sorted := make([]*entity.Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
