package handler

import (
	"net/http"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Get godoc
// @Summary      Get a customer with the stored loyalty balance
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/{id} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("customer not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ledger godoc
// @Summary      Loyalty ledger history
// @Description  Newest-first list of append-only ledger entries; each entry snapshots the balance after it was applied.
// @Tags         customers
// @Produce      json
// @Param        id    path  string true  "Customer UUID"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.LedgerListResponse
// @Router       /v1/customers/{id}/ledger [get]
func (h *CustomersHandler) Ledger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var filter dto.LedgerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Ledger(c.Request.Context(), id, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list ledger"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
