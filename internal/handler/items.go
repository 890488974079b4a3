package handler

import (
	"net/http"
	"strconv"

	"github.com/naskek/FlowStock-sub000/internal/apierror"
	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemsHandler struct{ svc service.CatalogService }

func NewItemsHandler(svc service.CatalogService) *ItemsHandler { return &ItemsHandler{svc: svc} }

// Create godoc
// @Summary Create an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/items [post]
func (h *ItemsHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("item not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter := repository.ItemFilter{
		Name:    c.Query("name"),
		Barcode: c.Query("barcode"),
		Page:    page,
		Limit:   limit,
	}
	resp, err := h.svc.ListItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Packagings ───────────────────────────────────────────────────────────────

// CreatePackaging godoc
// @Summary Add a packaging to an item
// @Description Registers an alternative unit of measure with its conversion factor to the item's base unit.
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item UUID"
// @Param body body dto.CreatePackagingRequest true "Packaging"
// @Success 201 {object} dto.PackagingResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/items/{id}/packagings [post]
func (h *ItemsHandler) CreatePackaging(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.CreatePackagingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePackaging(c.Request.Context(), itemID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ItemsHandler) ListPackagings(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	resp, err := h.svc.ListPackagings(c.Request.Context(), itemID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list packagings"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemsHandler) DeactivatePackaging(c *gin.Context) {
	id, err := uuid.Parse(c.Param("packagingId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeactivatePackaging(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
