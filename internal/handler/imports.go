package handler

import (
	"net/http"

	"github.com/naskek/FlowStock-sub000/internal/apierror"
	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImportsHandler struct{ svc service.ImportService }

func NewImportsHandler(svc service.ImportService) *ImportsHandler {
	return &ImportsHandler{svc: svc}
}

// Import godoc
// @Summary Import scan records into a document
// @Description Applies a device scan batch synchronously. Records are deduplicated by scan_id; unresolvable records land in import errors.
// @Tags imports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ImportRequest true "Scan batch"
// @Success 200 {object} dto.ImportReport
// @Failure 400 {object} apierror.APIError
// @Router /v1/imports [post]
func (h *ImportsHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	docID, err := uuid.Parse(req.DocID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid doc_id"))
		return
	}
	report, err := h.svc.Import(c.Request.Context(), docID, req.Records)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, report)
}

// ImportAsync enqueues the batch on the worker pool and returns immediately.
func (h *ImportsHandler) ImportAsync(c *gin.Context) {
	var req dto.ImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnqueueImport(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

func (h *ImportsHandler) ListErrors(c *gin.Context) {
	resp, err := h.svc.ListErrors(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list import errors"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportsHandler) Reapply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.ReapplyError(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
