package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Reelgo/database"
	"Reelgo/models"
)

// Watchlist and favorites share one shape and one set of semantics; only the
// table differs. The table name is compiled in from these constants, never
// from request data.
const (
	tableWatchlist = "watchlist"
	tableFavorites = "favorites"
)

func GetWatchlist(ctx context.Context, userID int64) ([]models.ListEntry, error) {
	return listEntries(ctx, tableWatchlist, userID)
}

func AddToWatchlist(ctx context.Context, userID, movieID int64) (*models.ListEntry, error) {
	return addEntry(ctx, tableWatchlist, userID, movieID)
}

func RemoveFromWatchlist(ctx context.Context, userID, movieID int64) error {
	return removeEntry(ctx, tableWatchlist, userID, movieID)
}

func GetFavorites(ctx context.Context, userID int64) ([]models.ListEntry, error) {
	return listEntries(ctx, tableFavorites, userID)
}

func AddToFavorites(ctx context.Context, userID, movieID int64) (*models.ListEntry, error) {
	return addEntry(ctx, tableFavorites, userID, movieID)
}

func RemoveFromFavorites(ctx context.Context, userID, movieID int64) error {
	return removeEntry(ctx, tableFavorites, userID, movieID)
}

// listEntriesQuery joins the list table against the movie projection so one
// query returns the entries and their movies together.
func listEntriesQuery(table string) string {
	return fmt.Sprintf(`
		SELECT e.id, e.added_at, `+movieColumns+`
		FROM %s e
		JOIN movies m ON m.id = e.movie_id
		WHERE e.user_id = $1
		ORDER BY e.added_at DESC`, table)
}

func listEntries(ctx context.Context, table string, userID int64) ([]models.ListEntry, error) {
	rows, err := database.DB.QueryContext(ctx, listEntriesQuery(table), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	entries := []models.ListEntry{}
	for rows.Next() {
		var entry models.ListEntry
		movie, err := scanMovie(rows, &entry.ID, &entry.AddedAt)
		if err != nil {
			return nil, err
		}
		entry.UserID = userID
		entry.Movie = movie
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	movies := make([]*models.Movie, len(entries))
	for i := range entries {
		movies[i] = entries[i].Movie
	}
	if err := loadGenres(ctx, movies); err != nil {
		return nil, err
	}
	return entries, nil
}

// addEntry is idempotent: adding a movie that is already on the list returns
// the existing row instead of erroring or duplicating it.
func addEntry(ctx context.Context, table string, userID, movieID int64) (*models.ListEntry, error) {
	var entry models.ListEntry
	err := database.DB.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, movie_id) VALUES ($1, $2)
			ON CONFLICT (user_id, movie_id) DO NOTHING
			RETURNING id, added_at`, table),
		userID, movieID,
	).Scan(&entry.ID, &entry.AddedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Already on the list; hand back the existing entry.
			err = database.DB.QueryRowContext(ctx,
				fmt.Sprintf("SELECT id, added_at FROM %s WHERE user_id = $1 AND movie_id = $2", table),
				userID, movieID,
			).Scan(&entry.ID, &entry.AddedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch existing %s entry: %w", table, err)
			}
		} else if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		} else {
			return nil, fmt.Errorf("failed to add %s entry: %w", table, err)
		}
	}

	entry.UserID = userID
	movie, err := GetMovieByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	entry.Movie = movie
	return &entry, nil
}

func removeEntry(ctx context.Context, table string, userID, movieID int64) error {
	result, err := database.DB.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND movie_id = $2", table),
		userID, movieID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", table, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("movie %d not on %s: %w", movieID, table, ErrNotFound)
	}
	return nil
}
