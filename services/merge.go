package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"Reelgo/models"

	json "github.com/goccy/go-json"
)

// CatalogStore is the minimal persistence surface the merge engine needs.
// The database-backed implementation lives in store.go; tests substitute an
// in-memory one.
type CatalogStore interface {
	FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error)
	FindMovieByIMDBID(ctx context.Context, imdbID string) (*models.Movie, error)
	FindMovieByTitle(ctx context.Context, title string) (*models.Movie, error)
	CreateMovie(ctx context.Context, in MovieInput) (*models.Movie, error)
	GetOrCreateGenre(ctx context.Context, name string) (*models.Genre, error)
	AttachGenre(ctx context.Context, movieID, genreID int64) error
}

type MergeResult struct {
	Created bool
	MovieID int64
}

// ImportSummary reports what a bulk import run did. Reason is set when the
// upstream was unreachable and nothing was merged.
type ImportSummary struct {
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Matched int    `json:"matched"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Reason  string `json:"reason,omitempty"`
}

type Merger struct {
	store CatalogStore
}

func NewMerger(store CatalogStore) *Merger {
	return &Merger{store: store}
}

// Merge reconciles one normalized record with the catalog. Matching prefers
// the strongest natural key available: tmdb_id, then imdb_id, then exact
// title. Genres are attached on the match path too, not only on create, so a
// re-import can only grow a movie's genre set.
func (m *Merger) Merge(ctx context.Context, in MovieInput) (MergeResult, error) {
	if in.Title == "" {
		return MergeResult{}, fmt.Errorf("record has no title: %w", ErrInvalid)
	}

	movie, err := m.lookup(ctx, in)
	if err != nil {
		return MergeResult{}, err
	}

	created := false
	if movie == nil {
		movie, err = m.store.CreateMovie(ctx, in)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, ErrConflict):
			// Lost a create race; whoever won owns the row now.
			movie, err = m.lookup(ctx, in)
			if err != nil {
				return MergeResult{}, err
			}
			if movie == nil {
				return MergeResult{}, fmt.Errorf("create conflict for %q but no matching row", in.Title)
			}
		default:
			return MergeResult{}, err
		}
	}

	result := MergeResult{Created: created, MovieID: movie.ID}

	for _, name := range in.Genres {
		if name == "" {
			continue
		}
		genre, err := m.store.GetOrCreateGenre(ctx, name)
		if err != nil {
			return result, fmt.Errorf("failed to resolve genre %q: %w", name, err)
		}
		if err := m.store.AttachGenre(ctx, movie.ID, genre.ID); err != nil {
			return result, fmt.Errorf("failed to attach genre %q: %w", name, err)
		}
	}

	return result, nil
}

func (m *Merger) lookup(ctx context.Context, in MovieInput) (*models.Movie, error) {
	if in.TMDBID != nil {
		movie, err := m.store.FindMovieByTMDBID(ctx, *in.TMDBID)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if in.IMDBID != nil {
		movie, err := m.store.FindMovieByIMDBID(ctx, *in.IMDBID)
		if err == nil {
			return movie, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	movie, err := m.store.FindMovieByTitle(ctx, in.Title)
	if err == nil {
		return movie, nil
	}
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// MergeAll runs the merge over a fetched page of raw records. Individual
// record failures are counted and skipped; they never abort the batch.
func (m *Merger) MergeAll(ctx context.Context, records []json.RawMessage) ImportSummary {
	summary := ImportSummary{Fetched: len(records)}

	for _, record := range records {
		in, err := NormalizeMovie(record)
		if err != nil {
			slog.Warn("Skipping undecodable record", "error", err)
			summary.Skipped++
			continue
		}

		result, err := m.Merge(ctx, in)
		switch {
		case errors.Is(err, ErrInvalid):
			slog.Warn("Skipping malformed record", "error", err)
			summary.Skipped++
		case err != nil:
			slog.Error("Failed to merge record", "title", in.Title, "error", err)
			summary.Failed++
		case result.Created:
			summary.Created++
		default:
			summary.Matched++
		}
	}

	return summary
}
