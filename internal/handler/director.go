package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// DirectorHandler exposes the director CRUD endpoints.
type DirectorHandler struct {
	svc *service.DirectorService
}

// NewDirectorHandler constructs a DirectorHandler.
func NewDirectorHandler(svc *service.DirectorService) *DirectorHandler {
	return &DirectorHandler{svc: svc}
}

// Create handles POST /api/v1/directors.
func (h *DirectorHandler) Create(c echo.Context) error {
	var in service.CreateDirectorInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	d, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// List handles GET /api/v1/directors.
func (h *DirectorHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	payload, err := h.svc.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// Get handles GET /api/v1/directors/:id.
func (h *DirectorHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles PATCH /api/v1/directors/:id.
func (h *DirectorHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.UpdateDirectorInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	d, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /api/v1/directors/:id.
func (h *DirectorHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
