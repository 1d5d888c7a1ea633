package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/domain/documents/stock_transaction"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// StockTransactionHandler handles HTTP requests for stock transactions.
type StockTransactionHandler struct {
	*BaseDocumentHandler[*stock_transaction.StockTransaction, dto.CreateStockTransactionRequest, dto.UpdateStockTransactionRequest]
	service *stock_transaction.Service
}

// NewStockTransactionHandler creates a new stock transaction handler.
func NewStockTransactionHandler(base *BaseHandler, service *stock_transaction.Service) *StockTransactionHandler {
	cfg := BaseDocumentHandlerConfig[*stock_transaction.StockTransaction, dto.CreateStockTransactionRequest, dto.UpdateStockTransactionRequest]{
		Service:    service.DocumentService,
		EntityName: "stock transaction",
		MapCreateDTO: func(c *gin.Context, req dto.CreateStockTransactionRequest) (*stock_transaction.StockTransaction, error) {
			return req.ToEntity(base.CompanyID(c)), nil
		},
		MapUpdateDTO: func(req dto.UpdateStockTransactionRequest, existing *stock_transaction.StockTransaction) *stock_transaction.StockTransaction {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *stock_transaction.StockTransaction) any {
			return doc
		},
	}

	return &StockTransactionHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Create handles POST /documents/stock-transactions. With
// postImmediately set the draft is created and posted in one call.
func (h *StockTransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateStockTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity(h.CompanyID(c))

	var err error
	if req.PostImmediately {
		err = h.service.PostAndSave(ctx, doc)
	} else {
		err = h.service.Create(ctx, doc)
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}
