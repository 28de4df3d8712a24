package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/movie-catalog/internal/cache"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

const testSchema = `
CREATE TABLE genres (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE directors (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name  TEXT NOT NULL,
    last_name   TEXT NOT NULL,
    birth_date  TEXT,
    nationality TEXT,
    biography   TEXT,
    created_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE movies (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    title         TEXT NOT NULL,
    description   TEXT,
    release_year  INTEGER NOT NULL,
    duration      INTEGER,
    rating_tenths INTEGER,
    poster_url    TEXT,
    synopsis      TEXT,
    genre_id      INTEGER NOT NULL REFERENCES genres(id),
    director_id   INTEGER NOT NULL REFERENCES directors(id),
    created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

type fakePosterStore struct {
	stored  int
	deleted []string
}

func (f *fakePosterStore) StorePoster(_ context.Context, _ []byte, _, _ string) (string, error) {
	f.stored++
	return fmt.Sprintf("/uploads/posters/poster-%d.jpg", f.stored), nil
}

func (f *fakePosterStore) DeletePoster(_ context.Context, url string) {
	f.deleted = append(f.deleted, url)
}

// newTestServer wires the full HTTP surface over an in-memory database with
// caching and events disabled.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	movieRepo := repository.NewMovieRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	directorRepo := repository.NewDirectorRepo(db)

	store := cache.NewStore(nil, zap.NewNop())
	logger := zap.NewNop()

	movieSvc := service.NewMovieService(movieRepo, genreRepo, directorRepo, store, &fakePosterStore{}, nil, logger)
	genreSvc := service.NewGenreService(genreRepo, movieRepo, store, nil, logger)
	directorSvc := service.NewDirectorService(directorRepo, movieRepo, store, nil, logger)

	e := echo.New()
	e.Validator = handler.NewValidator()
	router.RegisterRoutes(e)
	router.RegisterCatalog(e,
		handler.NewMovieHandler(movieSvc),
		handler.NewGenreHandler(genreSvc),
		handler.NewDirectorHandler(directorSvc),
	)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenreEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/genres", `{"name":"Drama"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID   uint64 `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Drama", created.Name)

	// Duplicate name conflicts.
	rec = doJSON(e, http.MethodPost, "/api/v1/genres", `{"name":"Drama"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Missing required field fails validation.
	rec = doJSON(e, http.MethodPost, "/api/v1/genres", `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/genres/%d", created.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/genres/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genre with ID 999 not found")

	rec = doJSON(e, http.MethodGet, "/api/v1/genres/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/genres/%d", created.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMovieEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/genres", `{"name":"Sci-Fi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/v1/directors", `{"firstName":"Christopher","lastName":"Nolan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Dangling foreign key is a validation failure, not a 500.
	rec = doJSON(e, http.MethodPost, "/api/v1/movies",
		`{"title":"Inception","releaseYear":2010,"genreId":99,"directorId":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genre with ID 99 not found")

	rec = doJSON(e, http.MethodPost, "/api/v1/movies",
		`{"title":"Inception","releaseYear":2010,"rating":8.8,"genreId":1,"directorId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var movie struct {
		ID     uint64  `json:"id"`
		Rating float64 `json:"rating"`
		Genre  struct {
			Name string `json:"name"`
		} `json:"genre"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movie))
	assert.InDelta(t, 8.8, movie.Rating, 0.001)
	assert.Equal(t, "Sci-Fi", movie.Genre.Name)

	// Out-of-range release year is rejected by tag validation.
	rec = doJSON(e, http.MethodPost, "/api/v1/movies",
		`{"title":"Old","releaseYear":1700,"genreId":1,"directorId":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The static popular route resolves ahead of /:id.
	rec = doJSON(e, http.MethodGet, "/api/v1/movies/popular", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.EqualValues(t, 1, listing.Total)

	rec = doJSON(e, http.MethodGet, "/api/v1/movies/genre/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, "/api/v1/movies/director/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/api/v1/movies/%d", movie.ID),
		`{"title":"Inception (IMAX)"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inception (IMAX)")

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/v1/movies/%d", movie.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/v1/movies/%d", movie.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMoviePosterEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/genres", `{"name":"Sci-Fi"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/v1/directors", `{"firstName":"Denis","lastName":"Villeneuve"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/v1/movies",
		`{"title":"Dune","releaseYear":2021,"genreId":1,"directorId":1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Multipart upload with the "poster" file field.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hd := make(textproto.MIMEHeader)
	hd.Set("Content-Disposition", `form-data; name="poster"; filename="dune.jpg"`)
	hd.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hd)
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/movies/1/poster", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	recU := httptest.NewRecorder()
	e.ServeHTTP(recU, req)
	require.Equal(t, http.StatusOK, recU.Code)

	var res struct {
		PosterURL string `json:"posterUrl"`
		Message   string `json:"message"`
		FileName  string `json:"fileName"`
	}
	require.NoError(t, json.Unmarshal(recU.Body.Bytes(), &res))
	assert.Equal(t, "Poster uploaded successfully", res.Message)
	assert.NotEmpty(t, res.PosterURL)
	assert.NotEmpty(t, res.FileName)

	// Upload without a file is a validation failure.
	rec = doJSON(e, http.MethodPost, "/api/v1/movies/1/poster", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no file provided")

	rec = doJSON(e, http.MethodDelete, "/api/v1/movies/1/poster", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Removing an absent poster stays a no-op success.
	rec = doJSON(e, http.MethodDelete, "/api/v1/movies/1/poster", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDirectorEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/directors",
		`{"firstName":"Greta","lastName":"Gerwig","birthDate":"1983-08-04"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Greta Gerwig")

	// Malformed birth date fails tag validation.
	rec = doJSON(e, http.MethodPost, "/api/v1/directors",
		`{"firstName":"Bad","lastName":"Date","birthDate":"04-08-1983"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/directors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.EqualValues(t, 1, listing.Total)

	rec = doJSON(e, http.MethodGet, "/api/v1/directors/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
