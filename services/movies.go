package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Reelgo/database"
	"Reelgo/models"
)

// movieColumns is the canonical movie projection. The review aggregates ride
// along as correlated subqueries so every movie response carries
// average_rating and review_count. Queries joining movies against another
// table (watchlist, favorites) splice these columns after their own.
const movieColumns = `m.id, m.title, m.overview, m.release_date, m.vote_average, m.vote_count,
		m.poster_path, m.backdrop_path, m.runtime, m.tmdb_id, m.imdb_id, m.created_at, m.updated_at,
		(SELECT ROUND(AVG(r.rating)::numeric, 1) FROM reviews r WHERE r.movie_id = m.id) AS average_rating,
		(SELECT COUNT(*) FROM reviews r WHERE r.movie_id = m.id) AS review_count`

const movieSelect = `
	SELECT DISTINCT ` + movieColumns + `
	FROM movies m`

// MovieFilters are the optional list/search parameters. Zero values mean
// "not supplied"; supplied filters combine with AND.
type MovieFilters struct {
	Genre  string
	Year   int
	Search string
	Sort   string
}

// sortFields whitelists the sortable columns. Anything else falls back to
// the default order.
var sortFields = map[string]string{
	"id":           "m.id",
	"title":        "m.title",
	"release_date": "m.release_date",
	"vote_average": "m.vote_average",
	"vote_count":   "m.vote_count",
	"runtime":      "m.runtime",
	"created_at":   "m.created_at",
}

// buildMovieListQuery composes the filtered, ordered list query. The genre
// filter matches any attached genre name case-insensitively through an EXISTS
// subquery, so a movie matching through several genres still appears once.
func buildMovieListQuery(f MovieFilters) (string, []interface{}) {
	query := movieSelect
	var conds []string
	var args []interface{}

	if f.Genre != "" {
		args = append(args, f.Genre)
		conds = append(conds, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id = m.id AND g.name ILIKE '%%' || $%d || '%%')`,
			len(args)))
	}
	if f.Year != 0 {
		args = append(args, f.Year)
		conds = append(conds, fmt.Sprintf(`EXTRACT(YEAR FROM m.release_date) = $%d`, len(args)))
	}
	if f.Search != "" {
		args = append(args, f.Search)
		conds = append(conds, fmt.Sprintf(`m.title ILIKE '%%' || $%d || '%%'`, len(args)))
	}

	if len(conds) > 0 {
		query += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\tORDER BY " + orderClause(f.Sort)

	return query, args
}

func orderClause(sort string) string {
	if sort == "" {
		sort = "-release_date"
	}
	direction := " ASC"
	if strings.HasPrefix(sort, "-") {
		sort = strings.TrimPrefix(sort, "-")
		direction = " DESC"
	}
	column, ok := sortFields[sort]
	if !ok {
		return "m.release_date DESC"
	}
	return column + direction
}

func GetMovies(ctx context.Context, f MovieFilters) ([]models.Movie, error) {
	query, args := buildMovieListQuery(f)

	rows, err := database.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*models.Movie, len(movies))
	for i := range movies {
		ptrs[i] = &movies[i]
	}
	if err := loadGenres(ctx, ptrs); err != nil {
		return nil, err
	}
	return movies, nil
}

func GetMovieByID(ctx context.Context, movieID int64) (*models.Movie, error) {
	row := database.DB.QueryRowContext(ctx, movieSelect+" WHERE m.id = $1", movieID)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		}
		return nil, err
	}

	if err := loadGenres(ctx, []*models.Movie{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateCatalogMovie creates a movie through the direct API path and sets its
// genre list from ids.
func CreateCatalogMovie(ctx context.Context, in MovieInput, genreIDs []int64) (*models.Movie, error) {
	movie, err := Catalog().CreateMovie(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(genreIDs) > 0 {
		if err := SetMovieGenres(ctx, movie.ID, genreIDs); err != nil {
			return nil, err
		}
	}
	return GetMovieByID(ctx, movie.ID)
}

func UpdateMovie(ctx context.Context, movieID int64, in MovieInput, genreIDs []int64) (*models.Movie, error) {
	result, err := database.DB.ExecContext(ctx, `
		UPDATE movies
		SET title = $1, overview = $2, release_date = $3, vote_average = $4, vote_count = $5,
			runtime = $6, poster_path = $7, backdrop_path = $8, tmdb_id = $9, imdb_id = $10,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`,
		in.Title, in.Overview, dateArg(in.ReleaseDate), in.VoteAverage, in.VoteCount,
		in.Runtime, in.PosterPath, in.BackdropPath, in.TMDBID, in.IMDBID, movieID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("external id already in use: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}

	if genreIDs != nil {
		if err := SetMovieGenres(ctx, movieID, genreIDs); err != nil {
			return nil, err
		}
	}
	return GetMovieByID(ctx, movieID)
}

func DeleteMovie(ctx context.Context, movieID int64) error {
	result, err := database.DB.ExecContext(ctx, "DELETE FROM movies WHERE id = $1", movieID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
	}
	return nil
}

// SetMovieGenres replaces a movie's genre set with the given ids.
func SetMovieGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	if _, err := database.DB.ExecContext(ctx, "DELETE FROM movie_genres WHERE movie_id = $1", movieID); err != nil {
		return fmt.Errorf("failed to clear movie genres: %w", err)
	}
	for _, genreID := range genreIDs {
		_, err := database.DB.ExecContext(ctx,
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			movieID, genreID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("genre %d: %w", genreID, ErrNotFound)
			}
			return fmt.Errorf("failed to attach genre: %w", err)
		}
	}
	return nil
}

// loadGenres fills in the genre lists for a batch of movies in one query.
func loadGenres(ctx context.Context, movies []*models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(movies))
	index := make(map[int64]*models.Movie, len(movies))
	for _, m := range movies {
		m.Genres = []models.Genre{}
		ids = append(ids, m.ID)
		index[m.ID] = m
	}

	rows, err := database.DB.QueryContext(ctx, `
		SELECT mg.movie_id, g.id, g.name, g.created_at
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		WHERE mg.movie_id = ANY($1)
		ORDER BY g.name ASC`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to query movie genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID int64
		var g models.Genre
		if err := rows.Scan(&movieID, &g.ID, &g.Name, &g.CreatedAt); err != nil {
			return err
		}
		if m, ok := index[movieID]; ok {
			m.Genres = append(m.Genres, g)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMovie reads one movieColumns row. Leading destinations, if any, are
// scanned before the movie columns so joined queries can carry their own
// fields in front of the projection.
func scanMovie(row rowScanner, leading ...interface{}) (*models.Movie, error) {
	var m models.Movie
	var releaseDate sql.NullTime
	var tmdbID sql.NullInt64
	var imdbID sql.NullString
	var averageRating sql.NullFloat64

	dest := append(leading,
		&m.ID, &m.Title, &m.Overview, &releaseDate, &m.VoteAverage, &m.VoteCount,
		&m.PosterPath, &m.BackdropPath, &m.Runtime, &tmdbID, &imdbID, &m.CreatedAt, &m.UpdatedAt,
		&averageRating, &m.ReviewCount,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if releaseDate.Valid {
		d := models.Date{Time: releaseDate.Time}
		m.ReleaseDate = &d
	}
	if tmdbID.Valid {
		m.TMDBID = &tmdbID.Int64
	}
	if imdbID.Valid {
		m.IMDBID = &imdbID.String
	}
	if averageRating.Valid {
		m.AverageRating = &averageRating.Float64
	}
	m.Genres = []models.Genre{}

	return &m, nil
}

func dateArg(d *models.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time
}
