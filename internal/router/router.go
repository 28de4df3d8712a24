// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo instance.
// This endpoint can be used by load balancers or monitoring systems to
// verify that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers every catalog endpoint under the /api/v1 prefix.
// Static routes (popular, genre/:genreId, director/:directorId) are declared
// before the /:id routes so Echo resolves them first.
func RegisterCatalog(e *echo.Echo, movies *handler.MovieHandler, genres *handler.GenreHandler, directors *handler.DirectorHandler) {
	v1 := e.Group("/api/v1")

	m := v1.Group("/movies")
	m.POST("", movies.Create)
	m.GET("", movies.List)
	m.GET("/popular", movies.Popular)
	m.GET("/genre/:genreId", movies.ByGenre)
	m.GET("/director/:directorId", movies.ByDirector)
	m.GET("/:id", movies.Get)
	m.PATCH("/:id", movies.Update)
	m.POST("/:id/poster", movies.UploadPoster)
	m.DELETE("/:id/poster", movies.DeletePoster)
	m.DELETE("/:id", movies.Delete)

	g := v1.Group("/genres")
	g.POST("", genres.Create)
	g.GET("", genres.List)
	g.GET("/:id", genres.Get)
	g.PATCH("/:id", genres.Update)
	g.DELETE("/:id", genres.Delete)

	d := v1.Group("/directors")
	d.POST("", directors.Create)
	d.GET("", directors.List)
	d.GET("/:id", directors.Get)
	d.PATCH("/:id", directors.Update)
	d.DELETE("/:id", directors.Delete)
}
