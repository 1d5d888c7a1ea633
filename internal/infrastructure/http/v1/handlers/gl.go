package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/gl"
)

// GLHandler exposes the general ledger journal.
type GLHandler struct {
	*BaseHandler
	service *gl.Service
}

// NewGLHandler creates a new general ledger handler.
func NewGLHandler(base *BaseHandler, service *gl.Service) *GLHandler {
	return &GLHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetByRecorder handles GET /registers/gl/journal/:recorderId.
// Returns the journal lines written by one document.
func (h *GLHandler) GetByRecorder(c *gin.Context) {
	recorderID, err := id.Parse(c.Param("recorderId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid recorderId format"))
		return
	}

	entries, err := h.service.GetByRecorder(c.Request.Context(), h.CompanyID(c), recorderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// TrialBalance handles GET /registers/gl/trial-balance?dateFrom=&dateTo=.
func (h *GLHandler) TrialBalance(c *gin.Context) {
	from, ok := h.glTimeQuery(c, "dateFrom")
	if !ok {
		return
	}
	to, ok := h.glTimeQuery(c, "dateTo")
	if !ok {
		return
	}
	if from == nil || to == nil {
		h.Error(c, apperror.NewValidation("dateFrom and dateTo are required"))
		return
	}

	balances, err := h.service.TrialBalance(c.Request.Context(), h.CompanyID(c), *from, *to)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

func (h *GLHandler) glTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
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
