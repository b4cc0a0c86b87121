package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Reelgo/database"
	"Reelgo/models"
)

const reviewSelect = `
	SELECT r.id, r.movie_id, m.title, u.username, r.user_id, r.rating, r.comment, r.created_at, r.updated_at
	FROM reviews r
	JOIN movies m ON m.id = r.movie_id
	JOIN users u ON u.id = r.user_id`

func GetReviewsForMovie(ctx context.Context, movieID int64) ([]models.Review, error) {
	rows, err := database.DB.QueryContext(ctx,
		reviewSelect+" WHERE r.movie_id = $1 ORDER BY r.created_at DESC", movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func GetReviewByID(ctx context.Context, reviewID int64) (*models.Review, error) {
	row := database.DB.QueryRowContext(ctx, reviewSelect+" WHERE r.id = $1", reviewID)
	r, err := scanReview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// CreateReview adds a user's review for a movie. The (movie, user) pair is
// unique; a second review from the same user is a conflict, not an update.
func CreateReview(ctx context.Context, movieID, userID int64, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("rating must be between 1 and 10: %w", ErrInvalid)
	}

	var reviewID int64
	err := database.DB.QueryRowContext(ctx,
		"INSERT INTO reviews (movie_id, user_id, rating, comment) VALUES ($1, $2, $3, $4) RETURNING id",
		movieID, userID, rating, comment,
	).Scan(&reviewID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("movie already reviewed: %w", ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("movie %d: %w", movieID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return GetReviewByID(ctx, reviewID)
}

// UpdateReview changes rating/comment on the caller's own review.
func UpdateReview(ctx context.Context, reviewID, userID int64, rating int, comment *string) (*models.Review, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("rating must be between 1 and 10: %w", ErrInvalid)
	}

	existing, err := GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
	}

	_, err = database.DB.ExecContext(ctx,
		"UPDATE reviews SET rating = $1, comment = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3",
		rating, comment, reviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return GetReviewByID(ctx, reviewID)
}

func DeleteReview(ctx context.Context, reviewID, userID int64) error {
	existing, err := GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return fmt.Errorf("review %d belongs to another user: %w", reviewID, ErrForbidden)
	}

	_, err = database.DB.ExecContext(ctx, "DELETE FROM reviews WHERE id = $1", reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func scanReview(row rowScanner) (*models.Review, error) {
	var r models.Review
	var comment sql.NullString
	err := row.Scan(&r.ID, &r.MovieID, &r.MovieTitle, &r.Username, &r.UserID, &r.Rating, &comment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if comment.Valid {
		r.Comment = &comment.String
	}
	return &r, nil
}
