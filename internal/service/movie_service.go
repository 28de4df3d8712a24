package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/apperror"
	"github.com/iliyamo/movie-catalog/internal/cache"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CreateMovieInput is the payload for creating a movie.  GenreID and
// DirectorID must reference existing rows; the service verifies both before
// anything is written.
type CreateMovieInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description" validate:"omitempty"`
	ReleaseYear int      `json:"releaseYear" validate:"required,min=1888,max=2030"`
	Duration    *int     `json:"duration" validate:"omitempty,min=1"`
	Rating      *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
	Synopsis    *string  `json:"synopsis" validate:"omitempty"`
	GenreID     uint64   `json:"genreId" validate:"required"`
	DirectorID  uint64   `json:"directorId" validate:"required"`
}

// UpdateMovieInput is a partial update; nil fields are left untouched.
// Changed foreign keys are re-validated exactly like on create.
type UpdateMovieInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty"`
	ReleaseYear *int     `json:"releaseYear" validate:"omitempty,min=1888,max=2030"`
	Duration    *int     `json:"duration" validate:"omitempty,min=1"`
	Rating      *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
	Synopsis    *string  `json:"synopsis" validate:"omitempty"`
	GenreID     *uint64  `json:"genreId" validate:"omitempty"`
	DirectorID  *uint64  `json:"directorId" validate:"omitempty"`
}

// MovieListQuery carries the list endpoint's filter/sort/pagination options.
type MovieListQuery struct {
	Page     int
	Limit    int
	Search   string
	Genre    string
	Director string
	Year     int
	SortBy   string
	Order    string
}

// popularFloorTenths is the minimum rating for the popular listing (5.0).
const popularFloorTenths = 50

// MovieService orchestrates movie CRUD across storage, cache and the poster
// store.
type MovieService struct {
	movies    *repository.MovieRepo
	genres    *repository.GenreRepo
	directors *repository.DirectorRepo
	cache     *cache.Store
	posters   PosterStore
	events    *queue.Publisher
	logger    *zap.Logger
}

// NewMovieService wires a MovieService.
func NewMovieService(
	movies *repository.MovieRepo,
	genres *repository.GenreRepo,
	directors *repository.DirectorRepo,
	c *cache.Store,
	posters PosterStore,
	events *queue.Publisher,
	logger *zap.Logger,
) *MovieService {
	return &MovieService{
		movies:    movies,
		genres:    genres,
		directors: directors,
		cache:     c,
		posters:   posters,
		events:    events,
		logger:    logger,
	}
}

// checkGenreExists is the shared lookup-or-fail foreign-key check used by
// both the create and update paths.
func (s *MovieService) checkGenreExists(ctx context.Context, id uint64) error {
	if _, err := s.genres.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return apperror.Validationf("Genre with ID %d not found", id)
		}
		return err
	}
	return nil
}

// checkDirectorExists mirrors checkGenreExists for directors.
func (s *MovieService) checkDirectorExists(ctx context.Context, id uint64) error {
	if _, err := s.directors.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return apperror.Validationf("Director with ID %d not found", id)
		}
		return err
	}
	return nil
}

// ratingTenths converts an input rating to fixed-point tenths, rejecting
// values that leave [0.0, 10.0] after rounding to one decimal place.
func ratingTenths(rating *float64) (*int64, error) {
	if rating == nil {
		return nil, nil
	}
	t, ok := model.RatingToTenths(*rating)
	if !ok {
		return nil, apperror.Validation("rating must be between 0.0 and 10.0")
	}
	return &t, nil
}

// Create validates both foreign keys, persists the movie and invalidates
// every movie namespace.  Validation failures happen strictly before the
// insert, so there are no partial writes.
func (s *MovieService) Create(ctx context.Context, in CreateMovieInput) (*model.Movie, error) {
	if err := s.checkGenreExists(ctx, in.GenreID); err != nil {
		return nil, err
	}
	if err := s.checkDirectorExists(ctx, in.DirectorID); err != nil {
		return nil, err
	}
	tenths, err := ratingTenths(in.Rating)
	if err != nil {
		return nil, err
	}

	m := &model.Movie{
		Title:        in.Title,
		Description:  in.Description,
		ReleaseYear:  in.ReleaseYear,
		Duration:     in.Duration,
		RatingTenths: tenths,
		Synopsis:     in.Synopsis,
		GenreID:      in.GenreID,
		DirectorID:   in.DirectorID,
	}
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityMovie)
	emitEvent(ctx, s.events, s.logger, cache.EntityMovie, queue.ActionCreated, m.ID, m.Title)
	return m, nil
}

// FindAll returns one serialized page of movies with all filters applied.
// Unfiltered listings live in the all-movies namespace, filtered ones in the
// search namespace; both use the short TTL tier.
func (s *MovieService) FindAll(ctx context.Context, q MovieListQuery) ([]byte, error) {
	q.Page, q.Limit = normalizePage(q.Page, q.Limit)
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.Order == "" {
		q.Order = "DESC"
	}

	// Every parameter participates in the key, absent ones as empty strings,
	// so equivalent requests collide on the same entry.
	year := ""
	if q.Year != 0 {
		year = strconv.Itoa(q.Year)
	}
	params := map[string]string{
		"page":     strconv.Itoa(q.Page),
		"limit":    strconv.Itoa(q.Limit),
		"search":   q.Search,
		"genre":    q.Genre,
		"director": q.Director,
		"year":     year,
		"sortBy":   q.SortBy,
		"order":    q.Order,
	}

	query := repository.MovieQuery{
		Search:   q.Search,
		Genre:    q.Genre,
		Director: q.Director,
		Year:     q.Year,
		SortBy:   q.SortBy,
		Order:    q.Order,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	ns := cache.NSMoviesAll
	if query.HasFilter() {
		ns = cache.NSMoviesSearch
	}
	if hit := s.cache.Get(ctx, ns, params); hit != nil {
		return hit, nil
	}

	return s.listAndCache(ctx, ns, params, query, cache.TTLShort)
}

// FindPopular lists movies rated 5.0 or higher, best first.  Popularity
// shifts slowly, so pages use the medium TTL tier.
func (s *MovieService) FindPopular(ctx context.Context, page, limit int) ([]byte, error) {
	page, limit = normalizePage(page, limit)
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if hit := s.cache.Get(ctx, cache.NSMoviesPopular, params); hit != nil {
		return hit, nil
	}
	query := repository.MovieQuery{
		MinRatingTenths: popularFloorTenths,
		Page:            page,
		Limit:           limit,
	}
	return s.listAndCache(ctx, cache.NSMoviesPopular, params, query, cache.TTLMedium)
}

// FindByGenre lists movies of one genre, newest first.
func (s *MovieService) FindByGenre(ctx context.Context, genreID uint64, page, limit int) ([]byte, error) {
	page, limit = normalizePage(page, limit)
	params := map[string]string{
		"genreId": strconv.FormatUint(genreID, 10),
		"page":    strconv.Itoa(page),
		"limit":   strconv.Itoa(limit),
	}
	if hit := s.cache.Get(ctx, cache.NSMoviesByGenre, params); hit != nil {
		return hit, nil
	}
	query := repository.MovieQuery{GenreID: genreID, Page: page, Limit: limit}
	return s.listAndCache(ctx, cache.NSMoviesByGenre, params, query, cache.TTLShort)
}

// FindByDirector lists movies of one director, newest first.
func (s *MovieService) FindByDirector(ctx context.Context, directorID uint64, page, limit int) ([]byte, error) {
	page, limit = normalizePage(page, limit)
	params := map[string]string{
		"directorId": strconv.FormatUint(directorID, 10),
		"page":       strconv.Itoa(page),
		"limit":      strconv.Itoa(limit),
	}
	if hit := s.cache.Get(ctx, cache.NSMoviesByDirector, params); hit != nil {
		return hit, nil
	}
	query := repository.MovieQuery{DirectorID: directorID, Page: page, Limit: limit}
	return s.listAndCache(ctx, cache.NSMoviesByDirector, params, query, cache.TTLShort)
}

// listAndCache runs the repository query, builds the envelope, caches the
// serialized payload and returns it.
func (s *MovieService) listAndCache(ctx context.Context, ns cache.Namespace, params map[string]string, query repository.MovieQuery, ttl time.Duration) ([]byte, error) {
	data, total, err := s.movies.List(ctx, query)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(ListResult{Data: data, Total: total, Page: query.Page, Limit: query.Limit})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, ns, params, payload, ttl)
	return payload, nil
}

// FindOne fetches a movie by id with genre and director attached.
func (s *MovieService) FindOne(ctx context.Context, id uint64) (*model.Movie, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return nil, apperror.NotFound("Movie", id)
		}
		return nil, err
	}
	return m, nil
}

// Update merges the non-nil fields into the existing movie, re-validating
// any changed foreign key before persisting.
func (s *MovieService) Update(ctx context.Context, id uint64, in UpdateMovieInput) (*model.Movie, error) {
	m, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.GenreID != nil {
		if err := s.checkGenreExists(ctx, *in.GenreID); err != nil {
			return nil, err
		}
		m.GenreID = *in.GenreID
	}
	if in.DirectorID != nil {
		if err := s.checkDirectorExists(ctx, *in.DirectorID); err != nil {
			return nil, err
		}
		m.DirectorID = *in.DirectorID
	}
	if in.Title != nil {
		m.Title = *in.Title
	}
	if in.Description != nil {
		m.Description = in.Description
	}
	if in.ReleaseYear != nil {
		m.ReleaseYear = *in.ReleaseYear
	}
	if in.Duration != nil {
		m.Duration = in.Duration
	}
	if in.Rating != nil {
		tenths, err := ratingTenths(in.Rating)
		if err != nil {
			return nil, err
		}
		m.RatingTenths = tenths
	}
	if in.Synopsis != nil {
		m.Synopsis = in.Synopsis
	}

	if err := s.movies.Update(ctx, m); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityMovie)
	emitEvent(ctx, s.events, s.logger, cache.EntityMovie, queue.ActionUpdated, m.ID, m.Title)
	return m, nil
}

// Remove deletes a movie.  A stored poster is deleted best-effort after the
// row is gone; a failing poster deletion never fails the remove.
func (s *MovieService) Remove(ctx context.Context, id uint64) error {
	m, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if err := s.movies.Delete(ctx, id); err != nil {
		return err
	}
	if m.PosterURL != nil {
		s.posters.DeletePoster(ctx, *m.PosterURL)
	}
	s.cache.Invalidate(ctx, cache.EntityMovie)
	emitEvent(ctx, s.events, s.logger, cache.EntityMovie, queue.ActionDeleted, id, m.Title)
	return nil
}

// PosterResult is the response payload of a poster upload.
type PosterResult struct {
	PosterURL string `json:"posterUrl"`
	Message   string `json:"message"`
	FileName  string `json:"fileName"`
}

// UploadPoster validates and stores a new poster for the movie, replacing
// and best-effort deleting any previous one.
func (s *MovieService) UploadPoster(ctx context.Context, id uint64, data []byte, mimeType, originalName string) (*PosterResult, error) {
	m, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.posters.StorePoster(ctx, data, mimeType, originalName)
	if err != nil {
		return nil, err
	}
	// The old file goes only after the new one is safely stored.
	if m.PosterURL != nil {
		s.posters.DeletePoster(ctx, *m.PosterURL)
	}
	if err := s.movies.SetPosterURL(ctx, id, &url); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityMovie)
	emitEvent(ctx, s.events, s.logger, cache.EntityMovie, queue.ActionUpdated, id, m.Title)

	name := url
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		name = url[i+1:]
	}
	return &PosterResult{
		PosterURL: url,
		Message:   "Poster uploaded successfully",
		FileName:  name,
	}, nil
}

// RemovePoster clears the movie's poster column and best-effort deletes the
// stored file.  Removing a poster that does not exist is a no-op success.
func (s *MovieService) RemovePoster(ctx context.Context, id uint64) error {
	m, err := s.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if m.PosterURL == nil {
		return nil
	}
	s.posters.DeletePoster(ctx, *m.PosterURL)
	if err := s.movies.SetPosterURL(ctx, id, nil); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.EntityMovie)
	emitEvent(ctx, s.events, s.logger, cache.EntityMovie, queue.ActionUpdated, id, m.Title)
	return nil
}
