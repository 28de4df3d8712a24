package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the catalog tables when they do not exist yet.  Statements
// are idempotent so the server can run them on every boot.  Repositories set
// updated_at explicitly on UPDATE, so the schema only supplies insert-time
// defaults.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS genres (
			id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name        VARCHAR(100) NOT NULL,
			description TEXT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_genres_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS directors (
			id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			first_name  VARCHAR(100) NOT NULL,
			last_name   VARCHAR(100) NOT NULL,
			birth_date  DATE NULL,
			nationality VARCHAR(100) NULL,
			biography   TEXT NULL,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS movies (
			id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			title         VARCHAR(200) NOT NULL,
			description   TEXT NULL,
			release_year  INT NOT NULL,
			duration      INT NULL,
			rating_tenths SMALLINT NULL,
			poster_url    VARCHAR(500) NULL,
			synopsis      TEXT NULL,
			genre_id      BIGINT UNSIGNED NOT NULL,
			director_id   BIGINT UNSIGNED NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_movies_title (title),
			KEY idx_movies_release_year (release_year),
			CONSTRAINT fk_movies_genre FOREIGN KEY (genre_id) REFERENCES genres (id),
			CONSTRAINT fk_movies_director FOREIGN KEY (director_id) REFERENCES directors (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
