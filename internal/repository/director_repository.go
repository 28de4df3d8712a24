// This file defines repository methods for CRUD and lookup operations on
// directors.  A director may be referenced by many movies; the derived
// full-name view is computed after every scan.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// DirectorRepo encapsulates all database queries related to directors.
type DirectorRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewDirectorRepo constructs a DirectorRepo with the provided DB handle.
func NewDirectorRepo(db *sql.DB) *DirectorRepo {
	return &DirectorRepo{db: db}
}

// Create inserts a new director.  On success the ID field is populated and a
// follow-up SELECT fills the timestamp fields.
func (r *DirectorRepo) Create(ctx context.Context, d *model.Director) error {
	const qInsert = `INSERT INTO directors (first_name, last_name, birth_date, nationality, biography)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		d.FirstName, d.LastName, d.BirthDate, d.Nationality, d.Biography)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)

	const qSelect = `SELECT first_name, last_name, birth_date, nationality, biography, created_at, updated_at
	                 FROM directors WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, qSelect, d.ID).
		Scan(&d.FirstName, &d.LastName, &d.BirthDate, &d.Nationality, &d.Biography, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return err
	}
	normalizeDate(d.BirthDate)
	d.ComputeFullName()
	return nil
}

// GetByID fetches a director by its ID.  It returns ErrDirectorNotFound if
// no row is found.
func (r *DirectorRepo) GetByID(ctx context.Context, id uint64) (*model.Director, error) {
	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography, created_at, updated_at
	           FROM directors WHERE id = ?`
	var d model.Director
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&d.ID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Nationality, &d.Biography, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	normalizeDate(d.BirthDate)
	d.ComputeFullName()
	return &d, nil
}

// List returns one page of directors ordered by last then first name,
// together with the total row count.
func (r *DirectorRepo) List(ctx context.Context, page, limit int) ([]model.Director, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM directors").Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT id, first_name, last_name, birth_date, nationality, biography, created_at, updated_at
	           FROM directors ORDER BY last_name ASC, first_name ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Director, 0, limit)
	for rows.Next() {
		var d model.Director
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.BirthDate, &d.Nationality, &d.Biography, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		normalizeDate(d.BirthDate)
		d.ComputeFullName()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update persists all mutable fields of an existing director and bumps
// updated_at, then refreshes timestamps on the passed record.
func (r *DirectorRepo) Update(ctx context.Context, d *model.Director) error {
	const q = `UPDATE directors
	           SET first_name = ?, last_name = ?, birth_date = ?, nationality = ?, biography = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		d.FirstName, d.LastName, d.BirthDate, d.Nationality, d.Biography, d.ID); err != nil {
		return err
	}
	d.ComputeFullName()
	const qSelect = "SELECT created_at, updated_at FROM directors WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, d.ID).Scan(&d.CreatedAt, &d.UpdatedAt)
}

// Delete removes a director by id.  It returns ErrDirectorNotFound when the
// row does not exist.
func (r *DirectorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

// CountMovies returns the number of movies referencing the director.
func (r *DirectorRepo) CountMovies(ctx context.Context, id uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM movies WHERE director_id = ?", id).Scan(&n)
	return n, err
}

// normalizeDate trims a scanned DATE value down to its YYYY-MM-DD form.  The
// MySQL driver hands DATE columns back as full timestamps when parseTime is
// enabled.
func normalizeDate(s *string) {
	if s != nil && len(*s) > 10 {
		*s = (*s)[:10]
	}
}
