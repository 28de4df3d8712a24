package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/apperror"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// MovieHandler exposes the movie CRUD, listing and poster endpoints.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Create handles POST /api/v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var in service.CreateMovieInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	m, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /api/v1/movies with filter/sort/paginate query params.
func (h *MovieHandler) List(c echo.Context) error {
	q := service.MovieListQuery{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
		Search:   c.QueryParam("search"),
		Genre:    c.QueryParam("genre"),
		Director: c.QueryParam("director"),
		Year:     queryInt(c, "year", 0),
		SortBy:   c.QueryParam("sortBy"),
		Order:    c.QueryParam("order"),
	}
	payload, err := h.svc.FindAll(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// Popular handles GET /api/v1/movies/popular.
func (h *MovieHandler) Popular(c echo.Context) error {
	payload, err := h.svc.FindPopular(c.Request().Context(),
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// ByGenre handles GET /api/v1/movies/genre/:genreId.
func (h *MovieHandler) ByGenre(c echo.Context) error {
	genreID, err := paramID(c, "genreId")
	if err != nil {
		return respondError(c, err)
	}
	payload, err := h.svc.FindByGenre(c.Request().Context(), genreID,
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// ByDirector handles GET /api/v1/movies/director/:directorId.
func (h *MovieHandler) ByDirector(c echo.Context) error {
	directorID, err := paramID(c, "directorId")
	if err != nil {
		return respondError(c, err)
	}
	payload, err := h.svc.FindByDirector(c.Request().Context(), directorID,
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSONBlob(http.StatusOK, payload)
}

// Get handles GET /api/v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	m, err := h.svc.FindOne(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Update handles PATCH /api/v1/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.UpdateMovieInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&in); err != nil {
		return respondError(c, err)
	}
	m, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /api/v1/movies/:id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadPoster handles POST /api/v1/movies/:id/poster (multipart form, file
// field "poster").
func (h *MovieHandler) UploadPoster(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	fh, err := c.FormFile("poster")
	if err != nil {
		return respondError(c, apperror.Validation("no file provided"))
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, apperror.Validation("could not read uploaded file"))
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, apperror.Validation("could not read uploaded file"))
	}

	res, err := h.svc.UploadPoster(c.Request().Context(), id, data,
		fh.Header.Get("Content-Type"), fh.Filename)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// DeletePoster handles DELETE /api/v1/movies/:id/poster.
func (h *MovieHandler) DeletePoster(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.RemovePoster(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
