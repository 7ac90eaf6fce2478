package stocksync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
	"github.com/avelar-dev/lotstock-api/internal/domain/repository"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// PricingConfig settings for the cost-derived override price list.
type PricingConfig struct {
	Currency        string
	CustomerGroupID string
	PriceListName   string
}

// PricingSync maintains an "at-price" override price list: each tracked variant's
// override equals its weighted-average unit cost, so the restricted customer group
// buys at cost.
type PricingSync struct {
	batches     repository.BatchRepository
	prices      repository.PriceRepository
	cfg         PricingConfig
	priceListID string
	log         *logger.Logger
}

// NewPricingSync builds the adapter. EnsurePriceList must run before SyncVariants.
func NewPricingSync(
	batches repository.BatchRepository,
	prices repository.PriceRepository,
	cfg PricingConfig,
	log *logger.Logger,
) *PricingSync {
	return &PricingSync{batches: batches, prices: prices, cfg: cfg, log: log}
}

// EnsurePriceList provisions the customer-group-restricted price list once at
// startup. Idempotent: an existing list with the configured name is reused, and a
// lost create race falls back to the winner's list.
func (s *PricingSync) EnsurePriceList(ctx context.Context) error {
	list, err := s.prices.GetPriceListByName(ctx, s.cfg.PriceListName)
	if err != nil {
		return err
	}
	if list == nil {
		list = &entity.PriceList{
			ID:              uuid.New().String(),
			Name:            s.cfg.PriceListName,
			CustomerGroupID: s.cfg.CustomerGroupID,
			CreatedAt:       time.Now(),
		}
		if err := s.prices.CreatePriceList(ctx, list); err != nil {
			if !errors.Is(err, domain.ErrDuplicate) {
				return err
			}
			list, err = s.prices.GetPriceListByName(ctx, s.cfg.PriceListName)
			if err != nil {
				return err
			}
			if list == nil {
				return fmt.Errorf("price list %q vanished after duplicate create", s.cfg.PriceListName)
			}
		}
	}
	s.priceListID = list.ID
	return nil
}

// SyncVariants recomputes the override price of every affected variant that has a
// price-set link. A positive valuation is written in minor currency units; when
// the valuation is undefined the existing base calculated price is kept as the
// override amount instead of deleting the entry. Writes happen only when the
// amount actually changed.
func (s *PricingSync) SyncVariants(ctx context.Context, variantIDs []string) error {
	if s.priceListID == "" {
		return fmt.Errorf("pricing sync: price list not provisioned")
	}
	for _, variantID := range variantIDs {
		ps, err := s.prices.GetPriceSetByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		if ps == nil {
			continue
		}

		batches, err := s.batches.ListByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		v := lot.WeightedUnitCost(batches)

		var amountMinor int64
		if v.Defined && v.UnitCost.IsPositive() {
			amountMinor = toMinorUnits(v.UnitCost)
		} else {
			base, err := s.prices.GetBasePriceMinor(ctx, ps.PriceSetID, s.cfg.Currency)
			if err != nil {
				return err
			}
			if base == nil {
				s.log.Warn().
					Str("variant_id", variantID).
					Msg("no valuation and no base price, override skipped")
				continue
			}
			amountMinor = *base
		}

		existing, err := s.prices.GetPrice(ctx, s.priceListID, ps.PriceSetID, s.cfg.Currency)
		if err != nil {
			return err
		}
		if existing == nil {
			now := time.Now()
			err = s.prices.CreatePrice(ctx, &entity.Price{
				ID:          uuid.New().String(),
				PriceListID: s.priceListID,
				PriceSetID:  ps.PriceSetID,
				Currency:    s.cfg.Currency,
				AmountMinor: amountMinor,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return err
			}
		} else if existing.AmountMinor != amountMinor {
			if err := s.prices.UpdatePriceAmount(ctx, existing.ID, amountMinor); err != nil {
				return err
			}
		}
		s.log.Debug().
			Str("variant_id", variantID).
			Int64("amount_minor", amountMinor).
			Msg("override price synced")
	}
	return nil
}

// toMinorUnits converts a major-unit amount to integer cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
