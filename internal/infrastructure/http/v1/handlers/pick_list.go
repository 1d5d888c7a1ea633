package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/documents/pick_list"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// PickListHandler handles HTTP requests for pick lists, including the
// picking workflow endpoints.
type PickListHandler struct {
	*BaseDocumentHandler[*pick_list.PickList, dto.CreatePickListRequest, dto.UpdatePickListRequest]
	service *pick_list.Service
}

// NewPickListHandler creates a new pick list handler.
func NewPickListHandler(base *BaseHandler, service *pick_list.Service) *PickListHandler {
	cfg := BaseDocumentHandlerConfig[*pick_list.PickList, dto.CreatePickListRequest, dto.UpdatePickListRequest]{
		Service:    service.DocumentService,
		EntityName: "pick list",
		MapCreateDTO: func(c *gin.Context, req dto.CreatePickListRequest) (*pick_list.PickList, error) {
			return req.ToEntity(base.CompanyID(c)), nil
		},
		MapUpdateDTO: func(req dto.UpdatePickListRequest, existing *pick_list.PickList) *pick_list.PickList {
			req.ApplyTo(existing)
			return existing
		},
		MapToDTO: func(doc *pick_list.PickList) any {
			return doc
		},
	}

	return &PickListHandler{
		BaseDocumentHandler: NewBaseDocumentHandler(base, cfg),
		service:             service,
	}
}

// Release handles POST /documents/pick-lists/:id/release.
// Releasing reserves the requested quantities.
func (h *PickListHandler) Release(c *gin.Context) {
	h.runTransition(c, h.service.Release)
}

// StartPicking handles POST /documents/pick-lists/:id/start-picking.
// The picker defaults to the authenticated user.
func (h *PickListHandler) StartPicking(c *gin.Context) {
	var req dto.StartPickingRequest
	if c.Request.ContentLength > 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}
	if req.PickerID == "" {
		req.PickerID = h.UserID(c)
	}

	h.runTransition(c, func(ctx context.Context, companyID string, docID id.ID) error {
		return h.service.StartPicking(ctx, companyID, docID, req.PickerID)
	})
}

// FinishPicking handles POST /documents/pick-lists/:id/finish-picking.
// The body reports actually picked quantities per line.
func (h *PickListHandler) FinishPicking(c *gin.Context) {
	var req dto.FinishPickingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.runTransition(c, func(ctx context.Context, companyID string, docID id.ID) error {
		return h.service.FinishPicking(ctx, companyID, docID, pick_list.PickedQuantities(req.PickedQuantities))
	})
}

// Complete handles POST /documents/pick-lists/:id/complete.
// Completion posts the pick list and issues the picked stock.
func (h *PickListHandler) Complete(c *gin.Context) {
	h.runTransition(c, h.service.Complete)
}

// Cancel handles POST /documents/pick-lists/:id/cancel.
func (h *PickListHandler) Cancel(c *gin.Context) {
	h.runTransition(c, h.service.Cancel)
}

// TransitionStatus handles PATCH /documents/pick-lists/:id/status.
// Generic form of the workflow verbs: the body names the target status
// and the transition allow-list decides whether the move is legal.
func (h *PickListHandler) TransitionStatus(c *gin.Context) {
	var req dto.TransitionPickListRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var op func(ctx context.Context, companyID string, docID id.ID) error
	switch req.Status {
	case pick_list.StatusReleased:
		op = h.service.Release
	case pick_list.StatusPicking:
		pickerID := req.PickerID
		if pickerID == "" {
			pickerID = h.UserID(c)
		}
		op = func(ctx context.Context, companyID string, docID id.ID) error {
			return h.service.StartPicking(ctx, companyID, docID, pickerID)
		}
	case pick_list.StatusPicked:
		op = func(ctx context.Context, companyID string, docID id.ID) error {
			return h.service.FinishPicking(ctx, companyID, docID, pick_list.PickedQuantities(req.PickedQuantities))
		}
	case pick_list.StatusCompleted:
		op = h.service.Complete
	case pick_list.StatusCancelled:
		op = h.service.Cancel
	default:
		h.Error(c, apperror.NewValidation("unknown pick list status").
			WithDetail("status", string(req.Status)))
		return
	}

	h.runTransition(c, op)
}

// Queue handles GET /documents/pick-lists/queue.
// Returns pick lists waiting in one workflow status, oldest first.
func (h *PickListHandler) Queue(c *gin.Context) {
	status := pick_list.Status(c.DefaultQuery("status", string(pick_list.StatusReleased)))
	switch status {
	case pick_list.StatusDraft, pick_list.StatusReleased, pick_list.StatusPicking,
		pick_list.StatusPicked, pick_list.StatusCompleted, pick_list.StatusCancelled:
	default:
		h.Error(c, apperror.NewValidation("unknown pick list status").
			WithDetail("status", string(status)))
		return
	}

	docs, err := h.service.Queue(c.Request.Context(), h.CompanyID(c), status)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      docs,
		TotalCount: int64(len(docs)),
		Limit:      len(docs),
		Offset:     0,
	})
}
