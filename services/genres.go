package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Reelgo/database"
	"Reelgo/models"
)

func GetGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := database.DB.QueryContext(ctx, "SELECT id, name, created_at FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func GetGenreByID(ctx context.Context, genreID int64) (*models.Genre, error) {
	var g models.Genre
	err := database.DB.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM genres WHERE id = $1", genreID,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("genre %d: %w", genreID, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &g, nil
}

func CreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	var g models.Genre
	err := database.DB.QueryRowContext(ctx,
		"INSERT INTO genres (name) VALUES ($1) RETURNING id, name, created_at", name,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("genre %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	return &g, nil
}

func UpdateGenre(ctx context.Context, genreID int64, name string) (*models.Genre, error) {
	var g models.Genre
	err := database.DB.QueryRowContext(ctx,
		"UPDATE genres SET name = $1 WHERE id = $2 RETURNING id, name, created_at", name, genreID,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("genre %d: %w", genreID, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("genre %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("failed to update genre: %w", err)
	}
	return &g, nil
}

func DeleteGenre(ctx context.Context, genreID int64) error {
	result, err := database.DB.ExecContext(ctx, "DELETE FROM genres WHERE id = $1", genreID)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("genre %d: %w", genreID, ErrNotFound)
	}
	return nil
}
