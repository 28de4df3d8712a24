// Package handler contains the HTTP layer.  Handlers bind and validate
// request payloads, call one service method and translate the result (or the
// typed error) into a JSON response.  No business logic lives here.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/apperror"
)

// Validator adapts go-playground/validator to Echo's Validator interface so
// handlers can call c.Validate on bound DTOs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the validator used by the whole HTTP layer.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.  Tag failures are wrapped into the
// application's validation error so the shared error mapping applies.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}

// respondError maps a service error onto the HTTP status taxonomy: 404 for
// missing entities, 400 for validation failures, 409 for conflicts and 500
// for everything else.  The error message is surfaced verbatim for the typed
// cases only.
func respondError(c echo.Context, err error) error {
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(ae, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(ae, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(ae, apperror.ErrConflict):
			status = http.StatusConflict
		}
		return c.JSON(status, map[string]string{"error": ae.Message})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// paramID parses the named path parameter as an entity id.
func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid id")
	}
	return id, nil
}

// queryInt reads an integer query parameter, returning def when absent or
// unparseable.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
