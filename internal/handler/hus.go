package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/naskek/FlowStock-sub000/internal/apierror"
	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/middleware"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type HusHandler struct{ svc service.HuService }

func NewHusHandler(svc service.HuService) *HusHandler { return &HusHandler{svc: svc} }

// Generate godoc
// @Summary Generate handling units
// @Description Reserves a consecutive code range and registers the containers in OPEN status.
// @Tags hus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.GenerateHuRequest true "Batch size"
// @Success 201 {array} dto.HuResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/hus/generate [post]
func (h *HusHandler) Generate(c *gin.Context) {
	var req dto.GenerateHuRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Generate(c.Request.Context(), req.Count, claims.Username)
	if err != nil {
		if errors.Is(err, service.ErrTxConflict) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HusHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("handling unit not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HusHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	filter := repository.HuFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list handling units"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Composition godoc
// @Summary Container contents
// @Description Derived view: per-item, per-location quantities summed from ledger postings carrying the code.
// @Tags hus
// @Produce json
// @Security BearerAuth
// @Param code path string true "HU code"
// @Success 200 {array} repository.HuContentRow
// @Failure 404 {object} apierror.APIError
// @Router /v1/hus/{code}/composition [get]
func (h *HusHandler) Composition(c *gin.Context) {
	rows, err := h.svc.Composition(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("handling unit not found"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HusHandler) Totals(c *gin.Context) {
	totals, err := h.svc.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute totals"))
		return
	}
	c.JSON(http.StatusOK, dto.HuTotalsResponse{Totals: totals})
}

func (h *HusHandler) Close(c *gin.Context) {
	var req dto.CloseHuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	if err := h.svc.Close(c.Request.Context(), c.Param("code"), req.Note); err != nil {
		c.JSON(huCloseStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HusHandler) Void(c *gin.Context) {
	var req dto.CloseHuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return
	}
	if err := h.svc.Void(c.Request.Context(), c.Param("code"), req.Note); err != nil {
		c.JSON(huCloseStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Labels streams a printable PDF label sheet for the requested codes.
func (h *HusHandler) Labels(c *gin.Context) {
	var req struct {
		Codes []string `json:"codes" validate:"required,min=1,max=200"`
	}
	if !bindAndValidate(c, &req) {
		return
	}
	path, err := h.svc.LabelSheet(c.Request.Context(), req.Codes)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.FileAttachment(path, "hu-labels.pdf")
}

func huCloseStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrHuTerminal), errors.Is(err, service.ErrHuNotEmpty):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
