package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieQuery defines filters, sorting and pagination for listing movies.
// Zero values mean "no filter".  SortBy/Order are validated against the
// safelists below; anything else falls back to created_at DESC.
type MovieQuery struct {
	Search          string // substring match on the movie title
	Genre           string // substring match on the genre name
	Director        string // substring match on the director's first or last name
	Year            int    // exact release-year match
	GenreID         uint64 // exact genre id (by-genre listing)
	DirectorID      uint64 // exact director id (by-director listing)
	MinRatingTenths int64  // popular listing floor, in tenths; 0 disables
	SortBy          string // title | releaseYear | rating | createdAt
	Order           string // ASC | DESC
	Page            int
	Limit           int
}

// HasFilter reports whether any of the content filters is active.  The
// service uses it to pick between the all-movies and search cache
// namespaces.
func (q MovieQuery) HasFilter() bool {
	return q.Search != "" || q.Genre != "" || q.Director != "" || q.Year != 0
}

// sortColumns maps API sort fields to SQL columns.  Only safelisted fields
// are accepted; the rating sort uses the fixed-point column so NULLs group
// together.
var sortColumns = map[string]string{
	"title":       "m.title",
	"releaseYear": "m.release_year",
	"rating":      "m.rating_tenths",
	"createdAt":   "m.created_at",
}

// List runs the filtered, sorted, paginated movie query and returns one page
// plus the total number of matching rows.  The WHERE clause is assembled the
// same way for the COUNT and the page query so both always agree.
func (r *MovieRepo) List(ctx context.Context, q MovieQuery) ([]model.Movie, int64, error) {
	where := []string{}
	args := []any{}

	if q.Search != "" {
		where = append(where, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Search)+"%")
	}
	if q.Genre != "" {
		where = append(where, "LOWER(g.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Genre)+"%")
	}
	if q.Director != "" {
		where = append(where, "(LOWER(d.first_name) LIKE ? OR LOWER(d.last_name) LIKE ?)")
		needle := "%" + strings.ToLower(q.Director) + "%"
		args = append(args, needle, needle)
	}
	if q.Year != 0 {
		where = append(where, "m.release_year = ?")
		args = append(args, q.Year)
	}
	if q.GenreID != 0 {
		where = append(where, "m.genre_id = ?")
		args = append(args, q.GenreID)
	}
	if q.DirectorID != 0 {
		where = append(where, "m.director_id = ?")
		args = append(args, q.DirectorID)
	}
	if q.MinRatingTenths > 0 {
		where = append(where, "m.rating_tenths >= ?")
		args = append(args, q.MinRatingTenths)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := "SELECT COUNT(*) " + movieJoin + " WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := "DESC"
	if strings.EqualFold(q.Order, "ASC") {
		order = "ASC"
	}
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "m.created_at"
	}
	orderBy := col + " " + order
	if q.MinRatingTenths > 0 {
		// Popular listing always ranks by rating first.
		orderBy = "m.rating_tenths DESC, m.created_at DESC"
	}

	dataSQL := "SELECT " + movieColumns + " " + movieJoin +
		" WHERE " + cond +
		" ORDER BY " + orderBy + ", m.id " + order +
		" LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Movie, 0, q.Limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
