package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/naskek/FlowStock-sub000/internal/apierror"
	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/middleware"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DocsHandler struct {
	svc    service.DocService
	ledger service.LedgerService
}

func NewDocsHandler(svc service.DocService, ledger service.LedgerService) *DocsHandler {
	return &DocsHandler{svc: svc, ledger: ledger}
}

// Create godoc
// @Summary Create a draft document
// @Tags docs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateDocRequest true "Document header"
// @Success 201 {object} dto.DocResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/docs [post]
func (h *DocsHandler) Create(c *gin.Context) {
	var req dto.CreateDocRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("document not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := repository.DocFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if raw := c.Query("order_id"); raw != "" {
		oid, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid order_id"))
			return
		}
		filter.OrderID = &oid
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list documents"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Lines ────────────────────────────────────────────────────────────────────

func (h *DocsHandler) AddLine(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AddLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddLine(c.Request.Context(), docID, req)
	if err != nil {
		c.JSON(docEditStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DocsHandler) UpdateLineQty(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid line id"))
		return
	}
	var req dto.UpdateLineQtyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateLineQty(c.Request.Context(), docID, lineID, req); err != nil {
		c.JSON(docEditStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DocsHandler) DeleteLine(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid line id"))
		return
	}
	if err := h.svc.DeleteLine(c.Request.Context(), docID, lineID); err != nil {
		c.JSON(docEditStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Lifecycle ────────────────────────────────────────────────────────────────

// Close godoc
// @Summary Close a document
// @Description Validates and posts the document to the stock ledger. Negative-stock warnings come back with success=false; re-send with allow_negative=true to confirm.
// @Tags docs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document UUID"
// @Param body body dto.CloseDocRequest true "Close options"
// @Success 200 {object} dto.CloseDocResponse
// @Failure 409 {object} dto.CloseDocResponse
// @Router /v1/docs/{id}/close [post]
func (h *DocsHandler) Close(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CloseDocRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Confirming a negative-stock close is a supervisor decision.
	if req.AllowNegative {
		claims := middleware.GetClaims(c)
		if claims == nil || claims.Role == model.RoleOperator {
			c.JSON(http.StatusForbidden, apierror.New("confirming negative stock requires supervisor role"))
			return
		}
	}

	result, err := h.svc.TryClose(c.Request.Context(), docID, req.AllowNegative)
	if err != nil {
		if errors.Is(err, service.ErrTxConflict) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	resp := closeResultToResponse(result)
	if !result.Success {
		c.JSON(http.StatusConflict, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocsHandler) MarkForRecount(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.MarkForRecount(c.Request.Context(), docID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Postings lists the ledger rows a closed document produced.
func (h *DocsHandler) Postings(c *gin.Context) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	postings, err := h.ledger.PostingsForDoc(c.Request.Context(), docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list postings"))
		return
	}
	c.JSON(http.StatusOK, postings)
}

func docEditStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotDraft),
		errors.Is(err, service.ErrRecountRequested),
		errors.Is(err, service.ErrOrderBoundLines):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func closeResultToResponse(r *service.CloseResult) dto.CloseDocResponse {
	resp := dto.CloseDocResponse{
		Success:  r.Success,
		Errors:   make([]dto.IssueDTO, 0, len(r.Errors)),
		Warnings: make([]dto.IssueDTO, 0, len(r.Warnings)),
	}
	for _, i := range r.Errors {
		resp.Errors = append(resp.Errors, dto.IssueDTO{Kind: string(i.Kind), Message: i.Message})
	}
	for _, i := range r.Warnings {
		resp.Warnings = append(resp.Warnings, dto.IssueDTO{Kind: string(i.Kind), Message: i.Message})
	}
	return resp
}
