// This file defines repository methods for CRUD and lookup operations on
// genres.  A genre groups movies by category; its name is globally unique.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to match sentinel error values

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates all database queries related to genres.  It depends
// on a sql.DB connection which should be configured elsewhere.
type GenreRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.  This
// allows dependency injection of the database in tests and at startup.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// Create inserts a new genre.  On success the genre's ID field is populated
// with the auto-generated value and a follow-up SELECT fills timestamp
// fields so callers receive a fully populated record.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	const qInsert = "INSERT INTO genres (name, description) VALUES (?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, g.Name, g.Description)
	if err != nil {
		return err // propagate DB errors (duplicate names included) to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	const qSelect = "SELECT name, description, created_at, updated_at FROM genres WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, g.ID).
		Scan(&g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
}

// GetByID fetches a genre by its ID.  It returns ErrGenreNotFound if no row
// is found.
func (r *GenreRepo) GetByID(ctx context.Context, id uint64) (*model.Genre, error) {
	const q = "SELECT id, name, description, created_at, updated_at FROM genres WHERE id = ?"
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns one page of genres ordered by name together with the total
// row count.
func (r *GenreRepo) List(ctx context.Context, page, limit int) ([]model.Genre, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM genres").Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT id, name, description, created_at, updated_at
	           FROM genres ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Genre, 0, limit)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists the name and description of an existing genre and bumps
// updated_at.  It returns sql.ErrNoRows when no row is affected.  A
// follow-up SELECT refreshes the timestamps on the passed record.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	const q = `UPDATE genres
	           SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.Description, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; distinguish via lookup.
		if _, err := r.GetByID(ctx, g.ID); err != nil {
			return err
		}
	}
	const qSelect = "SELECT created_at, updated_at FROM genres WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, g.ID).Scan(&g.CreatedAt, &g.UpdatedAt)
}

// Delete removes a genre by id.  It returns ErrGenreNotFound when the row
// does not exist.  Callers are responsible for checking dependent movies
// first; the foreign key is a backstop, not the primary guard.
func (r *GenreRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM genres WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGenreNotFound
	}
	return nil
}

// CountMovies returns the number of movies referencing the genre.  The
// services use it to enforce the restrict-on-delete policy.
func (r *GenreRepo) CountMovies(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE genre_id = ?", id).Scan(&n)
	return n, err
}
