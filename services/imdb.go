package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Reelgo/config"

	json "github.com/goccy/go-json"
	"github.com/webtor-io/lazymap"
)

// IMDBService fetches pages of title records from the IMDb-style provider
// that feeds the bulk import.
type IMDBService struct {
	baseURL string
	client  *http.Client
	titles  *lazymap.LazyMap[[]json.RawMessage]
}

func NewIMDBService(cfg *config.Config) *IMDBService {
	return NewIMDBServiceWithClient(cfg, newUpstreamClient())
}

func NewIMDBServiceWithClient(cfg *config.Config, client *http.Client) *IMDBService {
	return &IMDBService{
		baseURL: strings.TrimSuffix(cfg.IMDBBaseURL, "/"),
		client:  client,
		titles: lazymap.New[[]json.RawMessage](&lazymap.Config{
			Expire:      cfg.CacheTTL,
			ErrorExpire: 10 * time.Second,
		}),
	}
}

// FetchTitles returns the current page of title records.
func (s *IMDBService) FetchTitles(ctx context.Context) ([]json.RawMessage, error) {
	return s.titles.Get("titles", func() ([]json.RawMessage, error) {
		return fetchRecords(ctx, s.client, s.baseURL+"/titles")
	})
}
