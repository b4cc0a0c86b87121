package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"Reelgo/models"
)

// Importer drives both import pipelines: single movies pulled from TMDB by id
// and bulk pages pulled from the titles feed.
type Importer struct {
	tmdb   *TMDBService
	imdb   *IMDBService
	merger *Merger
}

func NewImporter(tmdb *TMDBService, imdb *IMDBService, store CatalogStore) *Importer {
	return &Importer{
		tmdb:   tmdb,
		imdb:   imdb,
		merger: NewMerger(store),
	}
}

// ImportMovieFromTMDB fetches one movie by its TMDB id and merges it into the
// catalog. The bool reports whether a new row was created.
func (i *Importer) ImportMovieFromTMDB(ctx context.Context, tmdbID int64) (*models.Movie, bool, error) {
	record, err := i.tmdb.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) && fe.Kind == FetchHTTPError && fe.Status == http.StatusNotFound {
			return nil, false, fmt.Errorf("movie %d not found upstream: %w", tmdbID, ErrNotFound)
		}
		return nil, false, err
	}

	in, err := NormalizeMovie(record)
	if err != nil {
		return nil, false, err
	}
	if in.TMDBID == nil {
		in.TMDBID = &tmdbID
	}

	result, err := i.merger.Merge(ctx, in)
	if err != nil {
		return nil, false, err
	}

	movie, err := GetMovieByID(ctx, result.MovieID)
	if err != nil {
		return nil, false, err
	}
	return movie, result.Created, nil
}

// ImportAllFromIMDB runs the merge pipeline over the current titles page. An
// unreachable upstream yields a summary with a failure reason, never an
// error: a dead provider must not take the endpoint down with it.
func (i *Importer) ImportAllFromIMDB(ctx context.Context) ImportSummary {
	records, err := i.imdb.FetchTitles(ctx)
	if err != nil {
		slog.Error("Bulk import fetch failed", "error", err)
		return ImportSummary{Reason: err.Error()}
	}

	slog.Info("Starting bulk import", "records", len(records))
	summary := i.merger.MergeAll(ctx, records)
	slog.Info("Bulk import finished",
		"created", summary.Created,
		"matched", summary.Matched,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary
}

// ImportPopularFromTMDB merges one page of the TMDB popular feed, with the
// same summary semantics as the titles import.
func (i *Importer) ImportPopularFromTMDB(ctx context.Context, page int) ImportSummary {
	records, err := i.tmdb.GetPopularMovies(ctx, page)
	if err != nil {
		slog.Error("Popular import fetch failed", "page", page, "error", err)
		return ImportSummary{Reason: err.Error()}
	}

	slog.Info("Starting popular import", "page", page, "records", len(records))
	summary := i.merger.MergeAll(ctx, records)
	slog.Info("Popular import finished",
		"created", summary.Created,
		"matched", summary.Matched,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	return summary
}

// ImportCandidate is one upstream search hit, trimmed to what a caller needs
// to pick an id to import.
type ImportCandidate struct {
	Title       string       `json:"title"`
	TMDBID      *int64       `json:"tmdb_id"`
	ReleaseDate *models.Date `json:"release_date"`
	VoteAverage float64      `json:"vote_average"`
	Overview    string       `json:"overview"`
}

// SearchTMDB searches the TMDB provider by title. Records that cannot be
// decoded are dropped from the candidate list rather than failing the search.
func (i *Importer) SearchTMDB(ctx context.Context, query string) ([]ImportCandidate, error) {
	records, err := i.tmdb.SearchMovies(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates := make([]ImportCandidate, 0, len(records))
	for _, record := range records {
		in, err := NormalizeMovie(record)
		if err != nil {
			continue
		}
		candidates = append(candidates, ImportCandidate{
			Title:       in.Title,
			TMDBID:      in.TMDBID,
			ReleaseDate: in.ReleaseDate,
			VoteAverage: in.VoteAverage,
			Overview:    in.Overview,
		})
	}
	return candidates, nil
}
