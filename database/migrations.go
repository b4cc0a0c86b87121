package database

import (
	"fmt"
)

func RunMigrations() error {
	usersTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := DB.Exec(usersTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run users migration: %w", err)
	}

	genresTableSQL := `
	CREATE TABLE IF NOT EXISTS genres (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) UNIQUE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err = DB.Exec(genresTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run genres migration: %w", err)
	}

	moviesTableSQL := `
	CREATE TABLE IF NOT EXISTS movies (
		id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		overview TEXT DEFAULT '',
		release_date DATE,
		vote_average DOUBLE PRECISION DEFAULT 0,
		vote_count INTEGER DEFAULT 0,
		runtime INTEGER DEFAULT 0,
		poster_path VARCHAR(500) DEFAULT '',
		backdrop_path VARCHAR(500) DEFAULT '',
		tmdb_id BIGINT UNIQUE,
		imdb_id VARCHAR(20) UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title);
	CREATE INDEX IF NOT EXISTS idx_movies_release_date ON movies (release_date);

	CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		genre_id INTEGER REFERENCES genres(id) ON DELETE CASCADE,
		PRIMARY KEY (movie_id, genre_id)
	);

	-- Migration for existing movies table
	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='imdb_id') THEN
			ALTER TABLE movies ADD COLUMN imdb_id VARCHAR(20) UNIQUE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name='movies' AND column_name='backdrop_path') THEN
			ALTER TABLE movies ADD COLUMN backdrop_path VARCHAR(500) DEFAULT '';
		END IF;
	END $$;
	`
	_, err = DB.Exec(moviesTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run movies migration: %w", err)
	}

	reviewsTableSQL := `
	CREATE TABLE IF NOT EXISTS reviews (
		id SERIAL PRIMARY KEY,
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		rating INTEGER NOT NULL CHECK (rating >= 1 AND rating <= 10),
		comment TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (movie_id, user_id)
	);
	`
	_, err = DB.Exec(reviewsTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run reviews migration: %w", err)
	}

	listsTableSQL := `
	CREATE TABLE IF NOT EXISTS watchlist (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, movie_id)
	);

	CREATE TABLE IF NOT EXISTS favorites (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
		movie_id INTEGER REFERENCES movies(id) ON DELETE CASCADE,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, movie_id)
	);
	`
	_, err = DB.Exec(listsTableSQL)
	if err != nil {
		return fmt.Errorf("failed to run watchlist migrations: %w", err)
	}

	return nil
}
