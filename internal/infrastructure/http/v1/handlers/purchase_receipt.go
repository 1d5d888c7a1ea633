package handlers

import (
	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/documents/purchase_receipt"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// PurchaseReceiptHandler handles HTTP requests for purchase receipts.
type PurchaseReceiptHandler struct {
	*BaseDocumentHandler[*purchase_receipt.PurchaseReceipt, dto.CreatePurchaseReceiptRequest, dto.UpdatePurchaseReceiptRequest]
	service *purchase_receipt.Service
}

// NewPurchaseReceiptHandler creates a new purchase receipt handler.
func NewPurchaseReceiptHandler(base *BaseHandler, service *purchase_receipt.Service) *PurchaseReceiptHandler {
	cfg := BaseDocumentHandlerConfig[*purchase_receipt.PurchaseReceipt, dto.CreatePurchaseReceiptRequest, dto.UpdatePurchaseReceiptRequest]{
		Service:    service.DocumentService,
		EntityName: "purchase receipt",
		MapCreateDTO: func(c *gin.Context, req dto.CreatePurchaseReceiptRequest) (*purchase_receipt.PurchaseReceipt, error) {
			return req.ToEntity(base.CompanyID(c)), nil
		},
		MapUpdateDTO: func(req dto.UpdatePurchaseReceiptRequest, existing *purchase_receipt.PurchaseReceipt) *purchase_receipt.PurchaseReceipt {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *purchase_receipt.PurchaseReceipt) any {
			return doc
		},
	}

	return &PurchaseReceiptHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Receive handles POST /documents/purchase-receipts/:id/receive.
// Receiving a draft receipt posts it and puts the goods on stock.
func (h *PurchaseReceiptHandler) Receive(c *gin.Context) {
	h.runTransition(c, h.service.Receive)
}
