package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// GenreHandler exposes the genre CRUD endpoints.
type GenreHandler struct {
	svc *service.GenreService
}

// NewGenreHandler constructs a GenreHandler.
func NewGenreHandler(svc *service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

// Create handles POST /api/v1/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var in service.CreateGenreInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	g, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// List handles GET /api/v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	payload, err := h.svc.FindAll(c.Request().Context(), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// Get handles GET /api/v1/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	g, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Update handles PATCH /api/v1/genres/:id.
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.UpdateGenreInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	g, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /api/v1/genres/:id.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
