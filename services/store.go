package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Reelgo/database"
	"Reelgo/models"
)

// dbCatalog is the PostgreSQL-backed CatalogStore. The movies table's unique
// constraints on tmdb_id and imdb_id are the real duplicate guard; this layer
// just translates violations into ErrConflict for the merge engine.
type dbCatalog struct{}

func Catalog() CatalogStore {
	return dbCatalog{}
}

func (dbCatalog) FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	return findMovieWhere(ctx, "m.tmdb_id = $1", tmdbID)
}

func (dbCatalog) FindMovieByIMDBID(ctx context.Context, imdbID string) (*models.Movie, error) {
	return findMovieWhere(ctx, "m.imdb_id = $1", imdbID)
}

func (dbCatalog) FindMovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	return findMovieWhere(ctx, "m.title = $1", title)
}

func (dbCatalog) CreateMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	var movieID int64
	err := database.DB.QueryRowContext(ctx, `
		INSERT INTO movies (title, overview, release_date, vote_average, vote_count, runtime,
			poster_path, backdrop_path, tmdb_id, imdb_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		in.Title, in.Overview, dateArg(in.ReleaseDate), in.VoteAverage, in.VoteCount, in.Runtime,
		in.PosterPath, in.BackdropPath, in.TMDBID, in.IMDBID,
	).Scan(&movieID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("movie %q: %w", in.Title, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	return GetMovieByID(ctx, movieID)
}

func (dbCatalog) GetOrCreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	var g models.Genre
	err := database.DB.QueryRowContext(ctx, `
		INSERT INTO genres (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at`,
		name,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err == nil {
		return &g, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}

	// Conflict path: the name already exists, fetch it.
	err = database.DB.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM genres WHERE name = $1", name,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre %q: %w", name, err)
	}
	return &g, nil
}

func (dbCatalog) AttachGenre(ctx context.Context, movieID, genreID int64) error {
	_, err := database.DB.ExecContext(ctx,
		"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		movieID, genreID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach genre: %w", err)
	}
	return nil
}

func findMovieWhere(ctx context.Context, cond string, arg interface{}) (*models.Movie, error) {
	row := database.DB.QueryRowContext(ctx, movieSelect+" WHERE "+cond+" ORDER BY m.id ASC LIMIT 1", arg)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}
