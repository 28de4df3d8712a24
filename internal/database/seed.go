package database

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type seedGenre struct {
	name, description string
}

type seedDirector struct {
	firstName, lastName, birthDate, nationality string
}

type seedMovie struct {
	title, description string
	year, duration     int
	ratingTenths       int64
	genre, director    int // indexes into the seed slices
}

var seedGenres = []seedGenre{
	{"Action", "High-energy movies with intense action sequences"},
	{"Drama", "Character-driven stories with emotional themes"},
	{"Sci-Fi", "Science fiction exploring futuristic concepts"},
	{"Thriller", "Suspenseful movies designed to keep viewers on edge"},
	{"Comedy", "Movies intended to make the audience laugh"},
}

var seedDirectors = []seedDirector{
	{"Christopher", "Nolan", "1970-07-30", "British"},
	{"Denis", "Villeneuve", "1967-10-03", "Canadian"},
	{"Greta", "Gerwig", "1983-08-04", "American"},
	{"Bong", "Joon-ho", "1969-09-14", "South Korean"},
}

var seedMovies = []seedMovie{
	{"Inception", "A thief who steals corporate secrets through dream-sharing technology.", 2010, 148, 88, 2, 0},
	{"Interstellar", "A team of explorers travel through a wormhole in space.", 2014, 169, 87, 2, 0},
	{"Dune", "A noble family becomes embroiled in a war for a desert planet.", 2021, 155, 80, 2, 1},
	{"Parasite", "A poor family schemes to become employed by a wealthy household.", 2019, 132, 85, 3, 3},
	{"Barbie", "Barbie suffers a crisis that leads her to question her world.", 2023, 114, 69, 4, 2},
}

// Seed populates a starter catalog when the database is empty.  It is only
// wired up in development; a non-empty genres table short-circuits so
// repeated boots never duplicate rows.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM genres`).Scan(&count); err != nil {
		return fmt.Errorf("seed: counting genres: %w", err)
	}
	if count > 0 {
		logger.Info("database already contains data, skipping seed")
		return nil
	}

	genreIDs := make([]uint64, len(seedGenres))
	for i, g := range seedGenres {
		res, err := db.ExecContext(ctx,
			`INSERT INTO genres (name, description) VALUES (?, ?)`, g.name, g.description)
		if err != nil {
			return fmt.Errorf("seed: inserting genre %q: %w", g.name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		genreIDs[i] = uint64(id)
	}

	directorIDs := make([]uint64, len(seedDirectors))
	for i, d := range seedDirectors {
		res, err := db.ExecContext(ctx,
			`INSERT INTO directors (first_name, last_name, birth_date, nationality) VALUES (?, ?, ?, ?)`,
			d.firstName, d.lastName, d.birthDate, d.nationality)
		if err != nil {
			return fmt.Errorf("seed: inserting director %s %s: %w", d.firstName, d.lastName, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		directorIDs[i] = uint64(id)
	}

	for _, m := range seedMovies {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO movies (title, description, release_year, duration, rating_tenths, genre_id, director_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			m.title, m.description, m.year, m.duration, m.ratingTenths,
			genreIDs[m.genre], directorIDs[m.director]); err != nil {
			return fmt.Errorf("seed: inserting movie %q: %w", m.title, err)
		}
	}

	logger.Info("database seeding completed",
		zap.Int("genres", len(seedGenres)),
		zap.Int("directors", len(seedDirectors)),
		zap.Int("movies", len(seedMovies)))
	return nil
}
