package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/documents/pos_sale"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// POSSaleHandler handles HTTP requests for point of sale sales.
type POSSaleHandler struct {
	*BaseDocumentHandler[*pos_sale.POSSale, dto.CreatePOSSaleRequest, dto.UpdatePOSSaleRequest]
	service *pos_sale.Service
}

// NewPOSSaleHandler creates a new POS sale handler.
func NewPOSSaleHandler(base *BaseHandler, service *pos_sale.Service) *POSSaleHandler {
	cfg := BaseDocumentHandlerConfig[*pos_sale.POSSale, dto.CreatePOSSaleRequest, dto.UpdatePOSSaleRequest]{
		Service:    service.DocumentService,
		EntityName: "pos sale",
		MapCreateDTO: func(c *gin.Context, req dto.CreatePOSSaleRequest) (*pos_sale.POSSale, error) {
			return req.ToEntity(base.CompanyID(c), base.UserID(c)), nil
		},
		MapUpdateDTO: func(req dto.UpdatePOSSaleRequest, existing *pos_sale.POSSale) *pos_sale.POSSale {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *pos_sale.POSSale) any {
			return doc
		},
	}

	return &POSSaleHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Sell handles POST /documents/pos-sales/sell.
// Registers the sale and posts it in one step, the checkout path.
func (h *POSSaleHandler) Sell(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePOSSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale := req.ToEntity(h.CompanyID(c), h.UserID(c))

	if err := h.service.Sell(ctx, sale); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, sale)
}

// Void handles POST /documents/pos-sales/:id/void.
// Voiding unposts the sale and returns the goods to stock.
func (h *POSSaleHandler) Void(c *gin.Context) {
	h.runTransition(c, h.service.Void)
}
