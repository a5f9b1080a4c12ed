package handler

import (
	"net/http"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Register a product
// @Description  Adds a catalog entry with zero stock; quantity arrives later through receiving or adjustments.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201 {object} dto.ProductResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		if apierror.IsUniqueViolation(err) {
			c.JSON(http.StatusUnprocessableEntity,
				apierror.NewValidation(map[string]string{"sku": "sku already exists"}))
			return
		}
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        sku    query string false "Exact SKU"
// @Param        name   query string false "Name search"
// @Param        active query string false "false | all (default: active only)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get a product with its per-location levels
// @Tags         products
// @Produce      json
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceBySKU godoc
// @Summary      Price lookup by SKU (cached)
// @Tags         products
// @Produce      json
// @Param        sku path string true "Product SKU"
// @Success      200 {object} dto.PriceLookupResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{sku} [get]
func (h *ProductsHandler) PriceBySKU(c *gin.Context) {
	resp, err := h.svc.PriceBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
