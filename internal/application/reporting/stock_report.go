// Package reporting builds the stock valuation report: every lot with its
// derived availability, per-unit cost, and remaining stock value.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
)

// ReportRow is one lot line on the report.
type ReportRow struct {
	VariantID    string
	LotNumber    string
	ReceivedDate *time.Time
	Quantity     int64
	Available    int64
	UnitCost     decimal.Decimal
	CostDefined  bool
	Value        decimal.Decimal // available × unit cost
}

// StockReport is the assembled report, ready for rendering.
type StockReport struct {
	GeneratedAt time.Time
	Currency    string
	Rows        []ReportRow
	TotalUnits  int64
	TotalValue  decimal.Decimal
}

// Generator renders an assembled report to a document.
type Generator interface {
	GenerateStockReport(ctx context.Context, report *StockReport) ([]byte, error)
}

// UseCase assembles and renders the stock valuation report.
type UseCase struct {
	batches   repository.BatchRepository
	allocs    repository.AllocationRepository
	generator Generator
	currency  string
}

// NewUseCase builds the use case.
func NewUseCase(
	batches repository.BatchRepository,
	allocs repository.AllocationRepository,
	generator Generator,
	currency string,
) *UseCase {
	return &UseCase{batches: batches, allocs: allocs, generator: generator, currency: currency}
}

// StockValuationPDF renders the current stock position as a PDF. Exhausted lots
// are listed with zero availability; lots without cost data carry no value.
func (uc *UseCase) StockValuationPDF(ctx context.Context) ([]byte, string, error) {
	report, err := uc.Assemble(ctx)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStockReport(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("reporting: render stock report: %w", err)
	}
	filename := fmt.Sprintf("stock_valuation_%s.pdf", report.GeneratedAt.Format("2006-01-02"))
	return pdf, filename, nil
}

// Assemble gathers every lot with availability and per-unit cost, oldest first.
func (uc *UseCase) Assemble(ctx context.Context) (*StockReport, error) {
	batches, err := uc.batches.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	batchIDs := make([]string, 0, len(batches))
	for _, b := range batches {
		batchIDs = append(batchIDs, b.ID)
	}
	allocs, err := uc.allocs.ListByBatchIDs(ctx, batchIDs)
	if err != nil {
		return nil, err
	}
	allocated := lot.AllocatedByBatch(allocs)

	report := &StockReport{
		GeneratedAt: time.Now(),
		Currency:    uc.currency,
		TotalValue:  decimal.Zero,
	}
	for _, b := range lot.SortFIFO(batches) {
		report.Rows = append(report.Rows, uc.row(b, allocated[b.ID]))
		last := report.Rows[len(report.Rows)-1]
		report.TotalUnits += last.Available
		report.TotalValue = report.TotalValue.Add(last.Value)
	}
	return report, nil
}

func (uc *UseCase) row(b *entity.Batch, allocated int64) ReportRow {
	available := lot.Available(b, allocated)
	cost := lot.BatchUnitCost(b)
	row := ReportRow{
		VariantID:    b.VariantID,
		LotNumber:    b.LotNumber,
		ReceivedDate: b.ReceivedDate,
		Quantity:     b.Quantity,
		Available:    available,
		CostDefined:  cost.Defined,
		Value:        decimal.Zero,
	}
	if cost.Defined {
		row.UnitCost = cost.UnitCost
		row.Value = cost.UnitCost.Mul(decimal.NewFromInt(available))
	}
	return row
}
