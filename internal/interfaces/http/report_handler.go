package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/avelar-dev/lotstock-api/internal/application/dto"
	"github.com/avelar-dev/lotstock-api/internal/application/reporting"
)

// ReportHandler serves generated reports (protected).
type ReportHandler struct {
	uc *reporting.UseCase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockValuation godoc
// @Summary      Download the stock valuation report (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.StockValuationPDF(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
