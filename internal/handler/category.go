package handler

import (
	"net/http"

	"autobier-api/internal/dto"
	"autobier-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.categoryService.List(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	category, err := h.categoryService.Create(ctx, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	category, err := h.categoryService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.categoryService.Delete(ctx, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "category deleted",
	})
}
