package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/reports"
)

// ReportsHandler exposes the reporting endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// StockBalance handles GET /reports/stock-balance.
func (h *ReportsHandler) StockBalance(c *gin.Context) {
	filter := reports.StockBalanceFilter{
		ExcludeZero: c.DefaultQuery("excludeZero", "true") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	asOf, ok := h.reportTimeQuery(c, "asOf")
	if !ok {
		return
	}
	filter.AsOfDate = asOf

	warehouseIDs, ok := h.reportIDsQuery(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseIDs = warehouseIDs

	itemIDs, ok := h.reportIDsQuery(c, "itemId")
	if !ok {
		return
	}
	filter.ItemIDs = itemIDs

	report, err := h.service.GetStockBalance(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// StockTurnover handles GET /reports/stock-turnover.
func (h *ReportsHandler) StockTurnover(c *gin.Context) {
	from, ok := h.reportTimeQuery(c, "dateFrom")
	if !ok {
		return
	}
	to, ok := h.reportTimeQuery(c, "dateTo")
	if !ok {
		return
	}
	if from == nil || to == nil {
		h.Error(c, apperror.NewValidation("dateFrom and dateTo are required"))
		return
	}

	filter := reports.StockTurnoverFilter{
		FromDate:    *from,
		ToDate:      *to,
		IncludeZero: c.Query("includeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	warehouseIDs, ok := h.reportIDsQuery(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseIDs = warehouseIDs

	itemIDs, ok := h.reportIDsQuery(c, "itemId")
	if !ok {
		return
	}
	filter.ItemIDs = itemIDs

	report, err := h.service.GetStockTurnover(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Reorder handles GET /reports/reorder.
// Lists items at or below their reorder level.
func (h *ReportsHandler) Reorder(c *gin.Context) {
	rows, err := h.service.GetReorderReport(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// DocumentJournal handles GET /reports/document-journal.
// A cross-type view of all documents.
func (h *ReportsHandler) DocumentJournal(c *gin.Context) {
	filter := reports.DocumentJournalFilter{
		DocumentTypes:  c.QueryArray("type"),
		NumberContains: c.Query("number"),
		SortBy:         c.DefaultQuery("sortBy", "date"),
		SortOrder:      c.DefaultQuery("sortOrder", "desc"),
		Limit:          h.ParseIntQuery(c, "limit", 50),
		Offset:         h.ParseIntQuery(c, "offset", 0),
	}

	from, ok := h.reportTimeQuery(c, "dateFrom")
	if !ok {
		return
	}
	filter.FromDate = from

	to, ok := h.reportTimeQuery(c, "dateTo")
	if !ok {
		return
	}
	filter.ToDate = to

	if postedStr := c.Query("posted"); postedStr != "" {
		posted := postedStr == "true"
		filter.Posted = &posted
	}

	warehouseIDs, ok := h.reportIDsQuery(c, "warehouseId")
	if !ok {
		return
	}
	filter.WarehouseIDs = warehouseIDs

	journal, err := h.service.GetDocumentJournal(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, journal)
}

func (h *ReportsHandler) reportIDsQuery(c *gin.Context, key string) ([]id.ID, bool) {
	var ids []id.ID
	for _, val := range c.QueryArray(key) {
		parsed, err := id.Parse(val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key+" format"))
			return nil, false
		}
		ids = append(ids, parsed)
	}
	return ids, true
}

func (h *ReportsHandler) reportTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		t, err = time.Parse("2006-01-02", val)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid "+key+" format, expected RFC3339 or YYYY-MM-DD"))
			return nil, false
		}
	}
	return &t, true
}
