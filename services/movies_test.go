package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMovieListQueryNoFilters(t *testing.T) {
	query, args := buildMovieListQuery(MovieFilters{})

	assert.Empty(t, args)
	// The review subqueries carry their own WHERE; only the top-level filter
	// clause must be absent.
	assert.NotContains(t, query, "\n\tWHERE ")
	assert.Contains(t, query, "ORDER BY m.release_date DESC")
	assert.Contains(t, query, "SELECT DISTINCT")
}

func TestBuildMovieListQueryCombinesFiltersWithAND(t *testing.T) {
	query, args := buildMovieListQuery(MovieFilters{Genre: "act", Year: 1999, Search: "bat"})

	assert.Equal(t, []interface{}{"act", 1999, "bat"}, args)
	assert.Contains(t, query, "WHERE")
	assert.Contains(t, query, `g.name ILIKE '%' || $1 || '%'`)
	assert.Contains(t, query, ` AND EXTRACT(YEAR FROM m.release_date) = $2`)
	assert.Contains(t, query, ` AND m.title ILIKE '%' || $3 || '%'`)
}

func TestBuildMovieListQueryGenreUsesExists(t *testing.T) {
	// The genre predicate goes through EXISTS so a movie matching several
	// attached genres still comes back once.
	query, _ := buildMovieListQuery(MovieFilters{Genre: "a"})

	assert.Contains(t, query, "EXISTS (SELECT 1 FROM movie_genres mg")
	assert.NotContains(t, query, "JOIN movie_genres mg ON")
}

func TestBuildMovieListQuerySearchOnly(t *testing.T) {
	query, args := buildMovieListQuery(MovieFilters{Search: "batman"})

	assert.Equal(t, []interface{}{"batman"}, args)
	assert.Contains(t, query, `m.title ILIKE '%' || $1 || '%'`)
	assert.NotContains(t, query, "EXTRACT")
	assert.NotContains(t, query, "EXISTS")
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"", "m.release_date DESC"},
		{"-release_date", "m.release_date DESC"},
		{"release_date", "m.release_date ASC"},
		{"title", "m.title ASC"},
		{"-title", "m.title DESC"},
		{"-vote_average", "m.vote_average DESC"},
		{"created_at", "m.created_at ASC"},
		// Unknown or hostile sort fields fall back to the default order.
		{"poster_path", "m.release_date DESC"},
		{"title; DROP TABLE movies", "m.release_date DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, orderClause(tt.sort), "sort=%q", tt.sort)
	}
}

// stubRow plays back one row of column values through the rowScanner
// interface, mirroring how database/sql assigns into scan destinations.
type stubRow []interface{}

func (s stubRow) Scan(dest ...interface{}) error {
	if len(dest) != len(s) {
		return fmt.Errorf("expected %d columns, got %d destinations", len(s), len(dest))
	}
	for i, d := range dest {
		if scanner, ok := d.(sql.Scanner); ok {
			if err := scanner.Scan(s[i]); err != nil {
				return err
			}
			continue
		}
		switch p := d.(type) {
		case *int64:
			*p = s[i].(int64)
		case *int:
			*p = s[i].(int)
		case *string:
			*p = s[i].(string)
		case *float64:
			*p = s[i].(float64)
		case *time.Time:
			*p = s[i].(time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func movieRow(id int64, title string, averageRating interface{}, reviewCount int) stubRow {
	now := time.Now()
	return stubRow{
		id, title, "", nil, 0.0, 0,
		"", "", 0, nil, nil, now, now,
		averageRating, reviewCount,
	}
}

func TestMovieProjectionRoundsAverageRating(t *testing.T) {
	assert.Contains(t, movieSelect, "ROUND(AVG(r.rating)::numeric, 1)")
	assert.Contains(t, movieSelect, "(SELECT COUNT(*) FROM reviews r WHERE r.movie_id = m.id)")
}

func TestScanMovieReviewAggregates(t *testing.T) {
	m, err := scanMovie(movieRow(1, "The Matrix", 8.0, 3))
	require.NoError(t, err)
	require.NotNil(t, m.AverageRating)
	assert.Equal(t, 8.0, *m.AverageRating)
	assert.Equal(t, 3, m.ReviewCount)

	// Zero reviews: the aggregate is NULL and stays nil, never 0.0.
	m, err = scanMovie(movieRow(2, "Unreviewed", nil, 0))
	require.NoError(t, err)
	assert.Nil(t, m.AverageRating)
	assert.Zero(t, m.ReviewCount)
	assert.Nil(t, m.ReleaseDate)
}

func TestScanMovieLeadingColumns(t *testing.T) {
	addedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	row := append(stubRow{int64(7), addedAt}, movieRow(1, "The Matrix", nil, 0)...)

	var entryID int64
	var entryAddedAt time.Time
	m, err := scanMovie(row, &entryID, &entryAddedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(7), entryID)
	assert.Equal(t, addedAt, entryAddedAt)
	assert.Equal(t, "The Matrix", m.Title)
}
