package lot

import (
	"github.com/shopspring/decimal"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
)

// Valuation is the weighted-average per-unit cost across a variant's in-stock lots.
// Defined is false when no lot has quantity > 0; that means "no data", not "free",
// and consumers must not coerce it to zero.
type Valuation struct {
	UnitCost decimal.Decimal
	Defined  bool
}

// WeightedUnitCost values a variant's stock. Only batches with quantity > 0
// qualify. Each qualifying batch contributes
//
//	per_unit = supplier_cost + testing_cost / quantity
//
// weighted by its quantity. Batches missing cost data contribute their quantity at
// zero cost, diluting the average downward; negative cost inputs are treated as
// missing.
func WeightedUnitCost(batches []*entity.Batch) Valuation {
	var (
		num = decimal.Zero
		den int64
	)
	for _, b := range batches {
		if b.Quantity <= 0 {
			continue
		}
		if v := BatchUnitCost(b); v.Defined {
			num = num.Add(v.UnitCost.Mul(decimal.NewFromInt(b.Quantity)))
		}
		den += b.Quantity
	}
	if den == 0 {
		return Valuation{}
	}
	return Valuation{
		UnitCost: num.Div(decimal.NewFromInt(den)),
		Defined:  true,
	}
}

// BatchUnitCost derives one lot's per-unit cost: supplier cost plus testing cost
// spread over the lot's quantity. Undefined when the lot has no quantity or no
// positive cost data.
func BatchUnitCost(b *entity.Batch) Valuation {
	if b.Quantity <= 0 {
		return Valuation{}
	}
	per := decimal.Zero
	hasData := false
	if b.SupplierCost != nil && b.SupplierCost.IsPositive() {
		per = per.Add(*b.SupplierCost)
		hasData = true
	}
	if b.TestingCost != nil && b.TestingCost.IsPositive() {
		per = per.Add(b.TestingCost.Div(decimal.NewFromInt(b.Quantity)))
		hasData = true
	}
	if !hasData {
		return Valuation{}
	}
	return Valuation{UnitCost: per, Defined: true}
}
