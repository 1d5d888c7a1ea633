package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/registers/stock"
)

// StockHandler exposes the stock register: balances, ledger history,
// turnovers, and maintenance.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetBalance handles GET /registers/stock/balance?warehouseId=&itemId=.
func (h *StockHandler) GetBalance(c *gin.Context) {
	warehouseID, ok := h.parseIDQuery(c, "warehouseId", true)
	if !ok {
		return
	}
	itemID, ok := h.parseIDQuery(c, "itemId", true)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), h.CompanyID(c), *warehouseID, *itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// GetWarehouseStock handles GET /registers/stock/balances/:warehouseId.
func (h *StockHandler) GetWarehouseStock(c *gin.Context) {
	warehouseID, err := id.Parse(c.Param("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId format"))
		return
	}

	filter := stock.BalanceFilter{
		ExcludeZero:  c.DefaultQuery("excludeZero", "true") == "true",
		BelowReorder: c.Query("belowReorder") == "true",
	}
	for _, itemStr := range c.QueryArray("itemId") {
		itemID, err := id.Parse(itemStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid itemId format"))
			return
		}
		filter.ItemIDs = append(filter.ItemIDs, itemID)
	}

	balances, err := h.service.GetWarehouseStock(c.Request.Context(), h.CompanyID(c), warehouseID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

// GetAvailability handles GET /registers/stock/availability/:itemId.
// Returns the total available (on hand minus reserved) across warehouses.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	available, err := h.service.GetItemAvailability(c.Request.Context(), h.CompanyID(c), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"itemId":    itemID,
		"available": available,
	})
}

// GetLedgerHistory handles GET /registers/stock/ledger/:itemId.
func (h *StockHandler) GetLedgerHistory(c *gin.Context) {
	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid itemId format"))
		return
	}

	filter := stock.LedgerFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	warehouseID, ok := h.parseIDQuery(c, "warehouseId", false)
	if !ok {
		return
	}
	filter.WarehouseID = warehouseID

	if rtStr := c.Query("recordType"); rtStr != "" {
		rt := entity.RecordType(rtStr)
		if rt != entity.RecordTypeReceipt && rt != entity.RecordTypeExpense {
			h.Error(c, apperror.NewValidation("recordType must be receipt or expense"))
			return
		}
		filter.RecordType = &rt
	}

	from, ok := h.parseTimeQuery(c, "dateFrom")
	if !ok {
		return
	}
	filter.FromDate = from

	to, ok := h.parseTimeQuery(c, "dateTo")
	if !ok {
		return
	}
	filter.ToDate = to

	entries, err := h.service.GetLedgerHistory(c.Request.Context(), h.CompanyID(c), itemID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetDocumentEntries handles GET /registers/stock/movements/:recorderId.
// Returns the ledger entries written by one document.
func (h *StockHandler) GetDocumentEntries(c *gin.Context) {
	recorderID, err := id.Parse(c.Param("recorderId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid recorderId format"))
		return
	}

	entries, err := h.service.GetDocumentEntries(c.Request.Context(), h.CompanyID(c), recorderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetTurnover handles GET /registers/stock/turnovers?dateFrom=&dateTo=.
func (h *StockHandler) GetTurnover(c *gin.Context) {
	from, ok := h.parseTimeQuery(c, "dateFrom")
	if !ok {
		return
	}
	to, ok := h.parseTimeQuery(c, "dateTo")
	if !ok {
		return
	}
	if from == nil || to == nil {
		h.Error(c, apperror.NewValidation("dateFrom and dateTo are required"))
		return
	}

	filter := stock.TurnoverFilter{FromDate: *from, ToDate: *to}

	warehouseID, ok := h.parseIDQuery(c, "warehouseId", false)
	if !ok {
		return
	}
	filter.WarehouseID = warehouseID

	itemID, ok := h.parseIDQuery(c, "itemId", false)
	if !ok {
		return
	}
	filter.ItemID = itemID

	turnovers, err := h.service.GetTurnover(c.Request.Context(), h.CompanyID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, turnovers)
}

// GetBalanceAtDate handles GET /registers/stock/balance-at?warehouseId=&itemId=&date=.
func (h *StockHandler) GetBalanceAtDate(c *gin.Context) {
	warehouseID, ok := h.parseIDQuery(c, "warehouseId", true)
	if !ok {
		return
	}
	itemID, ok := h.parseIDQuery(c, "itemId", true)
	if !ok {
		return
	}
	date, ok := h.parseTimeQuery(c, "date")
	if !ok {
		return
	}
	if date == nil {
		h.Error(c, apperror.NewValidation("date is required"))
		return
	}

	qty, err := h.service.GetBalanceAtDate(c.Request.Context(), h.CompanyID(c), *warehouseID, *itemID, *date)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"warehouseId": warehouseID,
		"itemId":      itemID,
		"date":        date,
		"quantity":    qty,
	})
}

// Recalculate handles POST /registers/stock/recalculate.
// Rebuilds balances from the ledger, optionally scoped by query params.
func (h *StockHandler) Recalculate(c *gin.Context) {
	warehouseID, ok := h.parseIDQuery(c, "warehouseId", false)
	if !ok {
		return
	}
	itemID, ok := h.parseIDQuery(c, "itemId", false)
	if !ok {
		return
	}

	if err := h.service.Recalculate(c.Request.Context(), h.CompanyID(c), warehouseID, itemID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balances recalculated")
}

func (h *StockHandler) parseIDQuery(c *gin.Context, key string, required bool) (*id.ID, bool) {
	val := c.Query(key)
	if val == "" {
		if required {
			h.Error(c, apperror.NewValidation(key+" is required"))
			return nil, false
		}
		return nil, true
	}

	parsed, err := id.Parse(val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+" format"))
		return nil, false
	}
	return &parsed, true
}

func (h *StockHandler) parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		// Date-only form is accepted for report boundaries.
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key+" format, expected RFC3339 or YYYY-MM-DD"))
			return nil, false
		}
	}
	return &t, true
}
