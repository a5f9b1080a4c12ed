package handler

import (
	"net/http"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Settle a sale
// @Description  Settles a cart atomically: prices the cart, reserves stock under lock, applies loyalty redemption and earning, and commits the transaction with its ledger entries.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateSaleRequest true "Cart, payment and optional redemption"
// @Success      201  {object} dto.SaleResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Settle(c.Request.Context(), req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Transaction UUID"
// @Success      200 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sale not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        date        query string false "Date YYYY-MM-DD"
// @Param        customer_id query string false "Customer UUID"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.SaleListResponse
// @Router       /v1/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
