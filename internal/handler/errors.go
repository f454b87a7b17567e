package handler

import (
	"errors"
	"net/http"

	"autobier-api/internal/apperr"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeError maps the error taxonomy to HTTP. Validation and gateway
// failures carry their message to the caller; everything else is a generic
// internal error so internals never leak through read endpoints.
func writeError(c echo.Context, err error) error {
	var validation *apperr.ValidationError
	if errors.As(err, &validation) {
		return c.JSON(http.StatusBadRequest, &errorResponse{Error: validation.Message})
	}

	var gateway *apperr.GatewayError
	if errors.As(err, &gateway) {
		return c.JSON(http.StatusBadRequest, &errorResponse{
			Error:   "payment gateway error",
			Details: gateway.Error(),
		})
	}

	var conflict *apperr.GatewayConflict
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, &errorResponse{
			Error:   "charge already settled",
			Details: conflict.Detail,
		})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, &errorResponse{Error: "not found"})
	}

	return c.JSON(http.StatusInternalServerError, &errorResponse{Error: "internal error"})
}
