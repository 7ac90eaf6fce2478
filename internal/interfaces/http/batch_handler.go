package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/avelar-dev/lotstock-api/internal/application/batch"
	"github.com/avelar-dev/lotstock-api/internal/application/dto"
	"github.com/avelar-dev/lotstock-api/internal/domain"
	"github.com/avelar-dev/lotstock-api/internal/domain/entity"
	"github.com/avelar-dev/lotstock-api/internal/domain/lot"
)

// BatchHandler handles the admin surface over lots and allocations (protected).
type BatchHandler struct {
	uc *batch.UseCase
}

// NewBatchHandler builds the handler.
func NewBatchHandler(uc *batch.UseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create godoc
// @Summary      Record a received lot
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Lot data"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	b := &entity.Batch{
		VariantID:          in.VariantID,
		LotNumber:          in.LotNumber,
		Quantity:           in.Quantity,
		COAFileKey:         in.COAFileKey,
		ReceivedDate:       in.ReceivedDate,
		SupplierInvoiceURL: in.SupplierInvoiceURL,
		LabInvoiceURL:      in.LabInvoiceURL,
		SupplierCost:       in.SupplierCost,
		TestingCost:        in.TestingCost,
		Metadata:           in.Metadata,
	}
	if err := h.uc.CreateBatch(c.Context(), b); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id, lot_number and a positive quantity are required"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "lot number already exists for this variant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out, err := h.uc.GetBatch(c.Context(), b.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBatchResponse(*out))
}

// GetByID godoc
// @Summary      Get a lot with derived availability
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Batch ID"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "batch not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToBatchResponse(*out))
}

// List godoc
// @Summary      List lots
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        limit       query  int     false  "Limit"   default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Param        variant_id  query  string  false  "Filter by variant"
// @Success      200  {object}  dto.BatchListResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	if variantID := c.Query("variant_id"); variantID != "" {
		items, err := h.uc.ListBatchesByVariant(c.Context(), variantID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		return c.JSON(toBatchList(items, dto.PageResponse{Limit: len(items)}))
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	items, err := h.uc.ListBatches(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toBatchList(items, dto.PageResponse{Limit: limit, Offset: offset}))
}

// Update godoc
// @Summary      Correct a lot
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Batch ID"
// @Param        body  body  dto.UpdateBatchRequest  true  "Fields to update"
// @Success      200   {object}  dto.BatchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	b := &entity.Batch{
		ID:                 c.Params("id"),
		LotNumber:          in.LotNumber,
		Quantity:           in.Quantity,
		COAFileKey:         in.COAFileKey,
		ReceivedDate:       in.ReceivedDate,
		SupplierInvoiceURL: in.SupplierInvoiceURL,
		LabInvoiceURL:      in.LabInvoiceURL,
		SupplierCost:       in.SupplierCost,
		TestingCost:        in.TestingCost,
		Metadata:           in.Metadata,
	}
	if err := h.uc.UpdateBatch(c.Context(), b); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity cannot be negative"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "batch not found"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "lot number already exists for this variant"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out, err := h.uc.GetBatch(c.Context(), b.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToBatchResponse(*out))
}

// Delete godoc
// @Summary      Delete a lot
// @Tags         batches
// @Security     Bearer
// @Param        id  path  string  true  "Batch ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteBatch(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "batch not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Availability godoc
// @Summary      Variant total availability
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        variant_id  path  string  true  "Variant ID"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/variants/{variant_id}/availability [get]
func (h *BatchHandler) Availability(c *fiber.Ctx) error {
	variantID := c.Params("variant_id")
	available, err := h.uc.VariantAvailability(c.Context(), variantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AvailabilityResponse{VariantID: variantID, Available: available})
}

// Valuation godoc
// @Summary      Variant weighted-average unit cost
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        variant_id  path  string  true  "Variant ID"
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/variants/{variant_id}/valuation [get]
func (h *BatchHandler) Valuation(c *fiber.Ctx) error {
	variantID := c.Params("variant_id")
	v, err := h.uc.VariantValuation(c.Context(), variantID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ValuationResponse{VariantID: variantID, Defined: v.Defined}
	if v.Defined {
		cost := v.UnitCost
		out.UnitCost = &cost
	}
	return c.JSON(out)
}

// ListAllocations godoc
// @Summary      List a lot's allocations
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Batch ID"
// @Success      200  {array}  dto.AllocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/allocations [get]
func (h *BatchHandler) ListAllocations(c *fiber.Ctx) error {
	allocs, err := h.uc.ListAllocationsByBatch(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "batch not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, dto.ToAllocationResponse(a))
	}
	return c.JSON(out)
}

// CreateAllocation godoc
// @Summary      Pin lot quantity to a line item
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Batch ID"
// @Param        body  body  dto.CreateAllocationRequest  true  "Allocation data"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/allocations [post]
func (h *BatchHandler) CreateAllocation(c *fiber.Ctx) error {
	var in dto.CreateAllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	a, err := h.uc.CreateAllocation(c.Context(), c.Params("id"), in.LineItemID, in.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "line_item_id and a positive quantity are required"})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "batch not found"})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "requested quantity exceeds the lot's availability"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAllocationResponse(a))
}

// DeleteAllocation godoc
// @Summary      Free an allocation
// @Tags         allocations
// @Security     Bearer
// @Param        id  path  string  true  "Allocation ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [delete]
func (h *BatchHandler) DeleteAllocation(c *fiber.Ctx) error {
	if err := h.uc.DeleteAllocation(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "allocation not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toBatchList(items []lot.BatchAvailability, page dto.PageResponse) dto.BatchListResponse {
	out := dto.BatchListResponse{
		Items: make([]dto.BatchResponse, 0, len(items)),
		Page:  page,
	}
	for _, av := range items {
		out.Items = append(out.Items, dto.ToBatchResponse(av))
	}
	return out
}
