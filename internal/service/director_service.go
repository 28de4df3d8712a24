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

// CreateDirectorInput is the payload for creating a director.
type CreateDirectorInput struct {
	FirstName   string  `json:"firstName" validate:"required,max=100"`
	LastName    string  `json:"lastName" validate:"required,max=100"`
	BirthDate   *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	Biography   *string `json:"biography" validate:"omitempty"`
}

// UpdateDirectorInput is a partial update; nil fields are left untouched.
type UpdateDirectorInput struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	BirthDate   *string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Nationality *string `json:"nationality" validate:"omitempty,max=100"`
	Biography   *string `json:"biography" validate:"omitempty"`
}

// DirectorService orchestrates director CRUD across storage and cache.
type DirectorService struct {
	directors *repository.DirectorRepo
	movies    *repository.MovieRepo
	cache     *cache.Store
	events    *queue.Publisher
	logger    *zap.Logger
}

// NewDirectorService wires a DirectorService.
func NewDirectorService(directors *repository.DirectorRepo, movies *repository.MovieRepo, c *cache.Store, events *queue.Publisher, logger *zap.Logger) *DirectorService {
	return &DirectorService{directors: directors, movies: movies, cache: c, events: events, logger: logger}
}

// Create persists a new director and invalidates the director namespaces.
func (s *DirectorService) Create(ctx context.Context, in CreateDirectorInput) (*model.Director, error) {
	d := &model.Director{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		BirthDate:   in.BirthDate,
		Nationality: in.Nationality,
		Biography:   in.Biography,
	}
	if err := s.directors.Create(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityDirector)
	emitEvent(ctx, s.events, s.logger, cache.EntityDirector, queue.ActionCreated, d.ID, d.FullName)
	return d, nil
}

// FindAll returns one serialized page of directors ordered by last name.
func (s *DirectorService) FindAll(ctx context.Context, page, limit int) ([]byte, error) {
	page, limit = normalizePage(page, limit)
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}
	if hit := s.cache.Get(ctx, cache.NSDirectorsAll, params); hit != nil {
		return hit, nil
	}

	data, total, err := s.directors.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(ListResult{Data: data, Total: total, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cache.NSDirectorsAll, params, payload, cache.TTLLong)
	return payload, nil
}

// FindOne fetches a director by id with their movies attached.
func (s *DirectorService) FindOne(ctx context.Context, id uint64) (*model.Director, error) {
	d, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return nil, apperror.NotFound("Director", id)
		}
		return nil, err
	}
	movies, err := s.movies.ListByDirector(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Movies = movies
	return d, nil
}

// Update merges the non-nil fields into the existing director and persists
// it.
func (s *DirectorService) Update(ctx context.Context, id uint64, in UpdateDirectorInput) (*model.Director, error) {
	d, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		d.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		d.LastName = *in.LastName
	}
	if in.BirthDate != nil {
		d.BirthDate = in.BirthDate
	}
	if in.Nationality != nil {
		d.Nationality = in.Nationality
	}
	if in.Biography != nil {
		d.Biography = in.Biography
	}
	if err := s.directors.Update(ctx, d); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.EntityDirector)
	emitEvent(ctx, s.events, s.logger, cache.EntityDirector, queue.ActionUpdated, d.ID, d.FullName)
	d.Movies = nil
	return d, nil
}

// Remove deletes a director, restricted while movies still reference them.
func (s *DirectorService) Remove(ctx context.Context, id uint64) error {
	d, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDirectorNotFound) {
			return apperror.NotFound("Director", id)
		}
		return err
	}
	n, err := s.directors.CountMovies(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Conflict("cannot delete director: " + strconv.FormatInt(n, 10) + " movies still reference them")
	}
	if err := s.directors.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.EntityDirector)
	emitEvent(ctx, s.events, s.logger, cache.EntityDirector, queue.ActionDeleted, id, d.FullName)
	return nil
}
