package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// testSchema mirrors the production tables in SQLite dialect.  The queries
// under test stick to portable SQL, so the same statements run against both
// engines.
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

// newTestDB opens an in-memory SQLite database with the catalog schema
// applied.  MaxOpenConns is pinned to 1 so every query sees the same
// in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func strptr(s string) *string { return &s }
func intptr(n int) *int       { return &n }
func i64ptr(n int64) *int64   { return &n }

func seedGenre(t *testing.T, db *sql.DB, name string) *model.Genre {
	t.Helper()
	g := &model.Genre{Name: name}
	require.NoError(t, NewGenreRepo(db).Create(context.Background(), g))
	return g
}

func seedDirector(t *testing.T, db *sql.DB, first, last string) *model.Director {
	t.Helper()
	d := &model.Director{FirstName: first, LastName: last}
	require.NoError(t, NewDirectorRepo(db).Create(context.Background(), d))
	return d
}

func seedMovie(t *testing.T, db *sql.DB, title string, year int, ratingTenths int64, genreID, directorID uint64) *model.Movie {
	t.Helper()
	m := &model.Movie{
		Title:       title,
		ReleaseYear: year,
		GenreID:     genreID,
		DirectorID:  directorID,
	}
	if ratingTenths > 0 {
		m.RatingTenths = i64ptr(ratingTenths)
	}
	require.NoError(t, NewMovieRepo(db).Create(context.Background(), m))
	return m
}
