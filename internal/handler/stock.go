package handler

import (
	"net/http"

	"github.com/naskek/FlowStock-sub000/internal/apierror"
	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct {
	ledger service.LedgerService
	orders service.OrderService
}

func NewStockHandler(ledger service.LedgerService, orders service.OrderService) *StockHandler {
	return &StockHandler{ledger: ledger, orders: orders}
}

// Quantity godoc
// @Summary Quantity at a stock tuple
// @Description Current quantity of an item at a location, optionally inside a container. Computed from the ledger at call time.
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param item_id query string true "Item UUID"
// @Param location_id query string true "Location UUID"
// @Param hu_code query string false "Container code; absent means loose stock"
// @Success 200 {object} dto.QuantityResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/stock/quantity [get]
func (h *StockHandler) Quantity(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid item_id"))
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid location_id"))
		return
	}
	var huCode *string
	if raw := c.Query("hu_code"); raw != "" {
		huCode = &raw
	}

	qty, err := h.ledger.Quantity(c.Request.Context(), itemID, locationID, huCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute quantity"))
		return
	}
	c.JSON(http.StatusOK, dto.QuantityResponse{
		ItemID:     itemID.String(),
		LocationID: locationID.String(),
		HuCode:     huCode,
		Qty:        qty,
	})
}

// OnHand lists total on-hand per item across all locations and containers.
func (h *StockHandler) OnHand(c *gin.Context) {
	totals, err := h.ledger.OnHandByItem(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute on-hand"))
		return
	}
	rows := make([]dto.AvailabilityRow, 0, len(totals))
	for itemID, qty := range totals {
		rows = append(rows, dto.AvailabilityRow{ItemID: itemID.String(), Available: qty})
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Data: rows})
}

// Availability reports on-hand minus quantities committed to draft outbound
// docs for one item.
func (h *StockHandler) Availability(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid item_id"))
		return
	}
	avail, err := h.orders.ItemAvailability(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute availability"))
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityRow{ItemID: itemID.String(), Available: avail})
}

// Buckets lists the stock buckets of an item, largest first.
func (h *StockHandler) Buckets(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid item_id"))
		return
	}
	rows, err := h.ledger.ItemStockByLocation(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list stock buckets"))
		return
	}
	c.JSON(http.StatusOK, rows)
}
