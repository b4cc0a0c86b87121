package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Reelgo/config"

	json "github.com/goccy/go-json"
	"github.com/webtor-io/lazymap"
)

// TMDBService fetches movie data from the TMDB-style provider. Each instance
// owns its HTTP client and its caches, so tests can construct isolated ones.
type TMDBService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	details *lazymap.LazyMap[json.RawMessage]
	pages   *lazymap.LazyMap[[]json.RawMessage]
}

func NewTMDBService(cfg *config.Config) *TMDBService {
	return NewTMDBServiceWithClient(cfg, newUpstreamClient())
}

func NewTMDBServiceWithClient(cfg *config.Config, client *http.Client) *TMDBService {
	return &TMDBService{
		baseURL: strings.TrimSuffix(cfg.TMDBBaseURL, "/"),
		apiKey:  cfg.TMDBAPIKey,
		client:  client,
		details: lazymap.New[json.RawMessage](&lazymap.Config{
			Expire:      cfg.CacheTTL,
			ErrorExpire: 10 * time.Second,
		}),
		pages: lazymap.New[[]json.RawMessage](&lazymap.Config{
			Expire:      cfg.CacheTTL,
			ErrorExpire: 10 * time.Second,
		}),
	}
}

// GetMovieDetails returns the raw detail record for one movie, memoized per
// id until the TTL lapses.
func (s *TMDBService) GetMovieDetails(ctx context.Context, tmdbID int64) (json.RawMessage, error) {
	return s.details.Get("movie_"+strconv.FormatInt(tmdbID, 10), func() (json.RawMessage, error) {
		var record json.RawMessage
		apiURL := buildQueryURL(fmt.Sprintf("%s/movie/%d", s.baseURL, tmdbID), s.params(nil))
		if err := fetchJSON(ctx, s.client, apiURL, &record); err != nil {
			return nil, err
		}
		return record, nil
	})
}

// SearchMovies returns raw records matching a title query, memoized per
// normalized query text.
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]json.RawMessage, error) {
	key := "search_" + strings.ToLower(query)
	return s.pages.Get(key, func() ([]json.RawMessage, error) {
		apiURL := buildQueryURL(s.baseURL+"/search/movie", s.params(map[string]string{"query": query}))
		return fetchRecords(ctx, s.client, apiURL)
	})
}

// GetPopularMovies returns one page of the popular feed, memoized per page.
func (s *TMDBService) GetPopularMovies(ctx context.Context, page int) ([]json.RawMessage, error) {
	if page < 1 {
		page = 1
	}
	return s.pages.Get("popular_"+strconv.Itoa(page), func() ([]json.RawMessage, error) {
		apiURL := buildQueryURL(s.baseURL+"/movie/popular", s.params(map[string]string{"page": strconv.Itoa(page)}))
		return fetchRecords(ctx, s.client, apiURL)
	})
}

func (s *TMDBService) params(extra map[string]string) map[string]string {
	params := map[string]string{}
	if s.apiKey != "" {
		params["api_key"] = s.apiKey
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}
