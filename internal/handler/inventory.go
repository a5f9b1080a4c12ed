package handler

import (
	"net/http"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Manual stock adjustment
// @Description  Applies a signed quantity delta to one (product, location) level under the shared stock-locking contract.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      200 {object} dto.ProductResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Adjust(c.Request.Context(), req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transfer godoc
// @Summary      Transfer stock between locations
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.TransferStockRequest true "Transfer"
// @Success      204
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Transfer(c.Request.Context(), req); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Receive godoc
// @Summary      Receive purchase-order lines
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body body dto.ReceiveStockRequest true "Receiving"
// @Success      204
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/inventory/receivings [post]
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Receive(c.Request.Context(), req); err != nil {
		renderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMovements godoc
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        product_id query string false "Product UUID"
// @Param        type       query string false "Movement type"
// @Success      200 {object} dto.StockMovementListResponse
// @Router       /v1/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
