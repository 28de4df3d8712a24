// This file defines repository methods for CRUD operations on movies.  Every
// read joins the genre and director rows so payloads always embed both
// related objects; list queries with filters live in movie_search.go.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// movieColumns is the shared SELECT column list for movie reads.  The order
// must match scanMovie.
const movieColumns = `m.id, m.title, m.description, m.release_year, m.duration, m.rating_tenths,
	m.poster_url, m.synopsis, m.genre_id, m.director_id, m.created_at, m.updated_at,
	g.id, g.name, g.description, g.created_at, g.updated_at,
	d.id, d.first_name, d.last_name, d.birth_date, d.nationality, d.biography, d.created_at, d.updated_at`

// movieJoin is the shared FROM clause joining the related entities.
const movieJoin = `FROM movies m
	JOIN genres g    ON g.id = m.genre_id
	JOIN directors d ON d.id = m.director_id`

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// scanner matches both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanMovie reads one joined movie row and computes the derived fields.
func scanMovie(s scanner) (*model.Movie, error) {
	var (
		m model.Movie
		g model.Genre
		d model.Director
	)
	if err := s.Scan(
		&m.ID, &m.Title, &m.Description, &m.ReleaseYear, &m.Duration, &m.RatingTenths,
		&m.PosterURL, &m.Synopsis, &m.GenreID, &m.DirectorID, &m.CreatedAt, &m.UpdatedAt,
		&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt,
		&d.ID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Nationality, &d.Biography, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	normalizeDate(d.BirthDate)
	d.ComputeFullName()
	m.ComputeRating()
	m.Genre = &g
	m.Director = &d
	return &m, nil
}

// Create inserts a new movie.  Foreign keys must already be validated by the
// caller; the database constraint is only a backstop.  On success the full
// joined record is re-read into m.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const qInsert = `INSERT INTO movies
		(title, description, release_year, duration, rating_tenths, poster_url, synopsis, genre_id, director_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		m.Title, m.Description, m.ReleaseYear, m.Duration, m.RatingTenths,
		m.PosterURL, m.Synopsis, m.GenreID, m.DirectorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	created, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// GetByID fetches a movie by its ID with genre and director attached.  It
// returns ErrMovieNotFound if no row is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	q := "SELECT " + movieColumns + " " + movieJoin + " WHERE m.id = ?"
	m, err := scanMovie(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListByGenre returns the movies referencing the given genre, newest first.
// Used to attach movies on genre detail fetches.
func (r *MovieRepo) ListByGenre(ctx context.Context, genreID uint64) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " " + movieJoin +
		" WHERE m.genre_id = ? ORDER BY m.created_at DESC, m.id DESC"
	return r.queryMovies(ctx, q, genreID)
}

// ListByDirector returns the movies referencing the given director, newest
// first.  Used to attach movies on director detail fetches.
func (r *MovieRepo) ListByDirector(ctx context.Context, directorID uint64) ([]model.Movie, error) {
	q := "SELECT " + movieColumns + " " + movieJoin +
		" WHERE m.director_id = ? ORDER BY m.created_at DESC, m.id DESC"
	return r.queryMovies(ctx, q, directorID)
}

func (r *MovieRepo) queryMovies(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists all mutable fields of an existing movie and bumps
// updated_at, then re-reads the joined record into m.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = `UPDATE movies
	           SET title = ?, description = ?, release_year = ?, duration = ?, rating_tenths = ?,
	               poster_url = ?, synopsis = ?, genre_id = ?, director_id = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		m.Title, m.Description, m.ReleaseYear, m.Duration, m.RatingTenths,
		m.PosterURL, m.Synopsis, m.GenreID, m.DirectorID, m.ID); err != nil {
		return err
	}
	updated, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *updated
	return nil
}

// SetPosterURL updates only the poster column.  A nil url clears it.
func (r *MovieRepo) SetPosterURL(ctx context.Context, id uint64, url *string) error {
	const q = `UPDATE movies SET poster_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a movie by id.  It returns ErrMovieNotFound when the row
// does not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
