package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/documents/stock_adjustment"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockAdjustmentHandler handles HTTP requests for stock adjustments.
type StockAdjustmentHandler struct {
	*BaseDocumentHandler[*stock_adjustment.StockAdjustment, dto.CreateStockAdjustmentRequest, dto.UpdateStockAdjustmentRequest]
	service *stock_adjustment.Service
}

// NewStockAdjustmentHandler creates a new stock adjustment handler.
func NewStockAdjustmentHandler(base *BaseHandler, service *stock_adjustment.Service) *StockAdjustmentHandler {
	cfg := BaseDocumentHandlerConfig[*stock_adjustment.StockAdjustment, dto.CreateStockAdjustmentRequest, dto.UpdateStockAdjustmentRequest]{
		Service:    service.DocumentService,
		EntityName: "stock adjustment",
		MapCreateDTO: func(c *gin.Context, req dto.CreateStockAdjustmentRequest) (*stock_adjustment.StockAdjustment, error) {
			return req.ToEntity(base.CompanyID(c)), nil
		},
		MapUpdateDTO: func(req dto.UpdateStockAdjustmentRequest, existing *stock_adjustment.StockAdjustment) *stock_adjustment.StockAdjustment {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *stock_adjustment.StockAdjustment) any {
			return doc
		},
	}

	return &StockAdjustmentHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Approve handles POST /documents/stock-adjustments/:id/approve.
// Approval posts the adjustment and applies the corrections to stock.
func (h *StockAdjustmentHandler) Approve(c *gin.Context) {
	h.runTransition(c, h.service.Approve)
}
