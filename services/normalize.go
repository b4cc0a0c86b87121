package services

import (
	"fmt"
	"strconv"
	"strings"

	"Reelgo/models"

	json "github.com/goccy/go-json"
)

// MovieInput is the canonical movie shape handed to the merge engine,
// independent of which upstream produced the record.
type MovieInput struct {
	Title        string
	Overview     string
	ReleaseDate  *models.Date
	VoteAverage  float64
	VoteCount    int
	Runtime      int
	PosterPath   string
	BackdropPath string
	TMDBID       *int64
	IMDBID       *string
	Genres       []string
}

// rawTitle covers the field-name variance between the two providers: the
// titles API uses primaryTitle/runtimeSeconds/rating.aggregateRating and a
// "tt..." string id, while TMDB uses title/runtime/vote_average and a numeric
// id. Pointers distinguish an absent key from an empty value where the
// fallback rules depend on it.
type rawTitle struct {
	ID             json.RawMessage `json:"id"`
	PrimaryTitle   *string         `json:"primaryTitle"`
	Title          *string         `json:"title"`
	Overview       string          `json:"overview"`
	Plot           string          `json:"plot"`
	ReleaseDate    string          `json:"release_date"`
	RuntimeSeconds int             `json:"runtimeSeconds"`
	Runtime        int             `json:"runtime"`
	Rating         *struct {
		AggregateRating float64 `json:"aggregateRating"`
		VoteCount       int     `json:"voteCount"`
	} `json:"rating"`
	VoteAverage  float64    `json:"vote_average"`
	VoteCount    int        `json:"vote_count"`
	PosterPath   string     `json:"poster_path"`
	BackdropPath string     `json:"backdrop_path"`
	IMDBID       string     `json:"imdb_id"`
	Genres       genreNames `json:"genres"`
}

// genreNames accepts both ["Action"] and [{"id":28,"name":"Action"}].
type genreNames []string

func (g *genreNames) UnmarshalJSON(b []byte) error {
	var plain []string
	if err := json.Unmarshal(b, &plain); err == nil {
		*g = plain
		return nil
	}

	var objects []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &objects); err != nil {
		return err
	}
	names := make(genreNames, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}
	*g = names
	return nil
}

// NormalizeMovie maps one raw upstream record into the canonical input shape.
//
// Records with no title key at all get the literal "Unknown"; a title key
// that is present but empty stays empty and is rejected later by the merge
// engine. Records without a release date keep a nil date rather than a
// sentinel, so the year filter simply never matches them.
func NormalizeMovie(record json.RawMessage) (MovieInput, error) {
	var raw rawTitle
	if err := json.Unmarshal(record, &raw); err != nil {
		return MovieInput{}, fmt.Errorf("failed to decode record: %w", err)
	}

	in := MovieInput{
		PosterPath:   raw.PosterPath,
		BackdropPath: raw.BackdropPath,
		Genres:       raw.Genres,
	}

	switch {
	case raw.PrimaryTitle != nil:
		in.Title = *raw.PrimaryTitle
	case raw.Title != nil:
		in.Title = *raw.Title
	default:
		in.Title = "Unknown"
	}

	in.Overview = raw.Overview
	if in.Overview == "" {
		in.Overview = raw.Plot
	}

	// Whole minutes; a seconds-granularity source is floored.
	if raw.RuntimeSeconds != 0 {
		in.Runtime = raw.RuntimeSeconds / 60
	} else {
		in.Runtime = raw.Runtime
	}

	if raw.Rating != nil {
		in.VoteAverage = raw.Rating.AggregateRating
		in.VoteCount = raw.Rating.VoteCount
	} else {
		in.VoteAverage = raw.VoteAverage
		in.VoteCount = raw.VoteCount
	}

	if raw.ReleaseDate != "" {
		d, err := models.ParseDate(raw.ReleaseDate)
		if err == nil {
			in.ReleaseDate = &d
		}
	}

	tmdbID, imdbID := resolveExternalID(raw.ID)
	in.TMDBID = tmdbID
	in.IMDBID = imdbID
	if in.IMDBID == nil && raw.IMDBID != "" {
		id := raw.IMDBID
		in.IMDBID = &id
	}

	return in, nil
}

// resolveExternalID classifies the upstream "id" field by shape: a number is
// a TMDB id, a "tt..." string is an IMDb id. Anything else carries no usable
// natural key.
func resolveExternalID(id json.RawMessage) (*int64, *string) {
	s := strings.TrimSpace(string(id))
	if s == "" || s == "null" {
		return nil, nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(id, &str); err != nil {
			return nil, nil
		}
		if strings.HasPrefix(str, "tt") {
			return nil, &str
		}
		return nil, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, nil
	}
	return &n, nil
}
