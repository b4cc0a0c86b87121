package services

import (
	"context"
	"fmt"
	"testing"

	"Reelgo/models"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory CatalogStore with the same uniqueness rules the
// real schema enforces.
type fakeCatalog struct {
	movies      []*models.Movie
	genres      map[string]*models.Genre
	attachments map[int64]map[int64]bool
	nextMovieID int64
	nextGenreID int64

	// conflictNextCreate makes the next CreateMovie behave like a lost
	// insert race: the rival's row appears and the insert itself fails.
	conflictNextCreate *MovieInput
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		genres:      map[string]*models.Genre{},
		attachments: map[int64]map[int64]bool{},
	}
}

func (f *fakeCatalog) FindMovieByTMDBID(ctx context.Context, tmdbID int64) (*models.Movie, error) {
	for _, m := range f.movies {
		if m.TMDBID != nil && *m.TMDBID == tmdbID {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeCatalog) FindMovieByIMDBID(ctx context.Context, imdbID string) (*models.Movie, error) {
	for _, m := range f.movies {
		if m.IMDBID != nil && *m.IMDBID == imdbID {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeCatalog) FindMovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	for _, m := range f.movies {
		if m.Title == title {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeCatalog) CreateMovie(ctx context.Context, in MovieInput) (*models.Movie, error) {
	if f.conflictNextCreate != nil {
		rival := *f.conflictNextCreate
		f.conflictNextCreate = nil
		f.insert(rival)
		return nil, fmt.Errorf("movie %q: %w", in.Title, ErrConflict)
	}

	if in.TMDBID != nil {
		if _, err := f.FindMovieByTMDBID(ctx, *in.TMDBID); err == nil {
			return nil, ErrConflict
		}
	}
	if in.IMDBID != nil {
		if _, err := f.FindMovieByIMDBID(ctx, *in.IMDBID); err == nil {
			return nil, ErrConflict
		}
	}
	return f.insert(in), nil
}

func (f *fakeCatalog) insert(in MovieInput) *models.Movie {
	f.nextMovieID++
	m := &models.Movie{
		ID:     f.nextMovieID,
		Title:  in.Title,
		TMDBID: in.TMDBID,
		IMDBID: in.IMDBID,
	}
	f.movies = append(f.movies, m)
	return m
}

func (f *fakeCatalog) GetOrCreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	if g, ok := f.genres[name]; ok {
		return g, nil
	}
	f.nextGenreID++
	g := &models.Genre{ID: f.nextGenreID, Name: name}
	f.genres[name] = g
	return g, nil
}

func (f *fakeCatalog) AttachGenre(ctx context.Context, movieID, genreID int64) error {
	if f.attachments[movieID] == nil {
		f.attachments[movieID] = map[int64]bool{}
	}
	f.attachments[movieID][genreID] = true
	return nil
}

func (f *fakeCatalog) genreNamesFor(movieID int64) []string {
	var names []string
	for name, g := range f.genres {
		if f.attachments[movieID][g.ID] {
			names = append(names, name)
		}
	}
	return names
}

func tmdbID(id int64) *int64 { return &id }

func TestMergeIsIdempotent(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)
	ctx := context.Background()

	in := MovieInput{Title: "The Matrix", TMDBID: tmdbID(603), Genres: []string{"Action", "Sci-Fi"}}

	first, err := merger.Merge(ctx, in)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := merger.Merge(ctx, in)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.MovieID, second.MovieID)

	assert.Len(t, store.movies, 1)
	assert.Len(t, store.genres, 2)
	assert.ElementsMatch(t, []string{"Action", "Sci-Fi"}, store.genreNamesFor(first.MovieID))
}

func TestMergeNaturalKeyPrecedence(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)
	ctx := context.Background()

	first, err := merger.Merge(ctx, MovieInput{Title: "The Matrix", TMDBID: tmdbID(603)})
	require.NoError(t, err)

	// Same tmdb_id, different title: must match the existing row, not fork
	// a duplicate.
	second, err := merger.Merge(ctx, MovieInput{Title: "Matrix, The", TMDBID: tmdbID(603)})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.MovieID, second.MovieID)
	assert.Len(t, store.movies, 1)
}

func TestMergeFallsBackToIMDBThenTitle(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)
	ctx := context.Background()

	imdb := "tt0133093"
	first, err := merger.Merge(ctx, MovieInput{Title: "The Matrix", IMDBID: &imdb})
	require.NoError(t, err)

	second, err := merger.Merge(ctx, MovieInput{Title: "Another Name", IMDBID: &imdb})
	require.NoError(t, err)
	assert.Equal(t, first.MovieID, second.MovieID)

	// No external ids at all: exact title match.
	third, err := merger.Merge(ctx, MovieInput{Title: "The Matrix"})
	require.NoError(t, err)
	assert.False(t, third.Created)
	assert.Equal(t, first.MovieID, third.MovieID)
}

func TestMergeUnionsGenresOnMatch(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)
	ctx := context.Background()

	first, err := merger.Merge(ctx, MovieInput{Title: "The Matrix", TMDBID: tmdbID(603), Genres: []string{"Action"}})
	require.NoError(t, err)

	_, err = merger.Merge(ctx, MovieInput{Title: "The Matrix", TMDBID: tmdbID(603), Genres: []string{"Sci-Fi"}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Action", "Sci-Fi"}, store.genreNamesFor(first.MovieID))
}

func TestMergeRejectsEmptyTitle(t *testing.T) {
	merger := NewMerger(newFakeCatalog())

	_, err := merger.Merge(context.Background(), MovieInput{Title: ""})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMergeRetriesCreateConflict(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)
	ctx := context.Background()

	// Simulate losing the insert race: by the time our insert runs, the
	// rival row with the same tmdb_id exists.
	in := MovieInput{Title: "The Matrix", TMDBID: tmdbID(603), Genres: []string{"Action"}}
	store.conflictNextCreate = &in

	result, err := merger.Merge(ctx, in)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Len(t, store.movies, 1)
	assert.ElementsMatch(t, []string{"Action"}, store.genreNamesFor(result.MovieID))
}

func TestMergeAllSummary(t *testing.T) {
	store := newFakeCatalog()
	merger := NewMerger(store)

	records := []json.RawMessage{
		json.RawMessage(`{"id":"tt0000001","primaryTitle":"First","genres":["Drama"]}`),
		json.RawMessage(`{"id":"tt0000001","primaryTitle":"First","genres":["Drama"]}`),
		json.RawMessage(`{"title":""}`),
		json.RawMessage(`[]`),
		json.RawMessage(`{"id":"tt0000002","primaryTitle":"Second"}`),
	}

	summary := merger.MergeAll(context.Background(), records)
	assert.Equal(t, 5, summary.Fetched)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}
