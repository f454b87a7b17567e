package handler

import (
	"net/http"

	"autobier-api/internal/dto"
	"autobier-api/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.productService.List(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.Create(ctx, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.productService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.productService.Delete(ctx, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "product deleted",
	})
}
