package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/avelar-dev/lotstock-api/internal/application/allocation"
	"github.com/avelar-dev/lotstock-api/internal/application/batch"
	"github.com/avelar-dev/lotstock-api/internal/application/dto"
	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/pkg/logger"
)

// EventHandler receives storefront order events and drives the allocation
// engine. Shortfalls are reported in the response, never as an error status: the
// payment is already captured when the event arrives.
type EventHandler struct {
	engine  *allocation.Engine
	invSync batch.Syncer
	log     *logger.Logger
}

// NewEventHandler builds the handler. invSync may be nil (sync disabled).
func NewEventHandler(engine *allocation.Engine, invSync batch.Syncer, log *logger.Logger) *EventHandler {
	return &EventHandler{engine: engine, invSync: invSync, log: log}
}

// PaymentCaptured godoc
// @Summary      Allocate lots to a paid order
// @Tags         events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderEventRequest  true  "Order event"
// @Success      200   {object}  dto.AllocateResultResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/events/payment-captured [post]
func (h *EventHandler) PaymentCaptured(c *fiber.Ctx) error {
	var in dto.OrderEventRequest
	if err := c.BodyParser(&in); err != nil || in.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "order_id is required"})
	}

	res, err := h.engine.Allocate(c.Context(), in.OrderID)
	if err != nil && res == nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// A per-line-item failure still allocated the other items; report what was
	// done and let the storefront retry the event.
	if err != nil {
		h.log.Error().Err(err).Str("order_id", in.OrderID).Msg("allocation pass finished with line item errors")
	}

	h.syncAffected(c, res.VariantIDs)
	return c.JSON(toAllocateResult(res))
}

// OrderCanceled godoc
// @Summary      Release a canceled order's allocations
// @Tags         events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OrderEventRequest  true  "Order event"
// @Success      200   {object}  dto.ReleaseResultResponse
// @Router       /api/events/order-canceled [post]
func (h *EventHandler) OrderCanceled(c *fiber.Ctx) error {
	var in dto.OrderEventRequest
	if err := c.BodyParser(&in); err != nil || in.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "order_id is required"})
	}

	res, err := h.engine.Release(c.Context(), in.OrderID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	h.syncAffected(c, res.VariantIDs)
	return c.JSON(dto.ReleaseResultResponse{Released: len(res.Deleted)})
}

func (h *EventHandler) syncAffected(c *fiber.Ctx, variantIDs []string) {
	if h.invSync == nil || len(variantIDs) == 0 {
		return
	}
	if err := h.invSync.SyncVariants(c.Context(), variantIDs); err != nil {
		h.log.Error().Err(err).Strs("variant_ids", variantIDs).Msg("inventory sync failed")
	}
}

func toAllocateResult(res *allocation.Result) dto.AllocateResultResponse {
	out := dto.AllocateResultResponse{
		Created:    make([]dto.AllocationResponse, 0, len(res.Created)),
		Shortfalls: make([]dto.ShortfallResponse, 0, len(res.Shortfalls)),
	}
	for _, a := range res.Created {
		out.Created = append(out.Created, dto.ToAllocationResponse(a))
	}
	for _, s := range res.Shortfalls {
		out.Shortfalls = append(out.Shortfalls, dto.ShortfallResponse{
			OrderID:    s.OrderID,
			LineItemID: s.LineItemID,
			VariantID:  s.VariantID,
			Missing:    s.Missing,
		})
	}
	return out
}
