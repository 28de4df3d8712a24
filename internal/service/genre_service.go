package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/apperror"
	"github.com/iliyamo/movie-catalog/internal/cache"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// CreateGenreInput is the payload for creating a genre.
type CreateGenreInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty"`
}

// UpdateGenreInput is a partial update; nil fields are left untouched.
type UpdateGenreInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty"`
}

// GenreService orchestrates genre CRUD across storage and cache.
type GenreService struct {
	genres *repository.GenreRepo
	movies *repository.MovieRepo
	cache  *cache.Store
	events *queue.Publisher
	logger *zap.Logger
}

// NewGenreService wires a GenreService.
func NewGenreService(genres *repository.GenreRepo, movies *repository.MovieRepo, c *cache.Store, events *queue.Publisher, logger *zap.Logger) *GenreService {
	return &GenreService{genres: genres, movies: movies, cache: c, events: events, logger: logger}
}

// Create persists a new genre and invalidates the genre cache namespaces.
// A duplicate name surfaces as a conflict.
func (s *GenreService) Create(ctx context.Context, in CreateGenreInput) (*model.Genre, error) {
	g := &model.Genre{Name: in.Name, Description: in.Description}
	if err := s.genres.Create(ctx, g); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("genre name already exists")
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityGenre)
	emitEvent(ctx, s.events, s.logger, cache.EntityGenre, queue.ActionCreated, g.ID, g.Name)
	return g, nil
}

// FindAll returns one serialized page of genres ordered by name.  Genres
// change rarely, so pages live in the long-TTL namespace.
func (s *GenreService) FindAll(ctx context.Context, page, limit int) ([]byte, error) {
	page, limit = normalizePage(page, limit)
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if hit := s.cache.Get(ctx, cache.NSGenresAll, params); hit != nil {
		return hit, nil
	}

	data, total, err := s.genres.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(ListResult{Data: data, Total: total, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.NSGenresAll, params, payload, cache.TTLLong)
	return payload, nil
}

// FindOne fetches a genre by id with its movies attached.
func (s *GenreService) FindOne(ctx context.Context, id uint64) (*model.Genre, error) {
	g, err := s.genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return nil, apperror.NotFound("Genre", id)
		}
		return nil, err
	}
	movies, err := s.movies.ListByGenre(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Movies = movies
	return g, nil
}

// Update merges the non-nil fields into the existing genre and persists it.
func (s *GenreService) Update(ctx context.Context, id uint64, in UpdateGenreInput) (*model.Genre, error) {
	g, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		g.Name = *in.Name
	}
	if in.Description != nil {
		g.Description = in.Description
	}
	if err := s.genres.Update(ctx, g); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("genre name already exists")
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityGenre)
	emitEvent(ctx, s.events, s.logger, cache.EntityGenre, queue.ActionUpdated, g.ID, g.Name)
	g.Movies = nil
	return g, nil
}

// Remove deletes a genre.  Deletion is restricted while movies still
// reference the genre, surfacing a conflict instead of cascading.
func (s *GenreService) Remove(ctx context.Context, id uint64) error {
	g, err := s.genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return apperror.NotFound("Genre", id)
		}
		return err
	}
	n, err := s.genres.CountMovies(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("cannot delete genre: " + strconv.FormatInt(n, 10) + " movies still reference it")
	}
	if err := s.genres.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.EntityGenre)
	emitEvent(ctx, s.events, s.logger, cache.EntityGenre, queue.ActionDeleted, id, g.Name)
	return nil
}
