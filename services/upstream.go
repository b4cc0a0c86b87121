package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

// upstreamTimeout bounds every call to an external movie-data provider. A
// slow upstream must never hold a request open indefinitely.
const upstreamTimeout = 10 * time.Second

type FetchKind string

const (
	FetchTimeout   FetchKind = "timeout"
	FetchHTTPError FetchKind = "http_error"
	FetchTransport FetchKind = "transport_failure"
)

// FetchError is the tagged result for any upstream failure. Callers treat all
// kinds as "no data available now"; none of them is fatal to an import run.
type FetchError struct {
	Kind   FetchKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPError {
		return fmt.Sprintf("upstream unavailable: %s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream unavailable: %s", e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newUpstreamClient() *http.Client {
	return &http.Client{Timeout: upstreamTimeout}
}

// buildQueryURL builds a URL with query parameters.
func buildQueryURL(baseURL string, params map[string]string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// fetchBody performs a GET against an upstream provider and returns the raw
// response body, classifying every failure mode into a FetchError.
func fetchBody(ctx context.Context, client *http.Client, apiURL string) ([]byte, error) {
	if client == nil {
		client = newUpstreamClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return nil, &FetchError{Kind: FetchTimeout, Err: err}
		}
		return nil, &FetchError{Kind: FetchTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: FetchHTTPError, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: err}
	}
	return body, nil
}

// fetchJSON fetches apiURL and decodes the body into v.
func fetchJSON(ctx context.Context, client *http.Client, apiURL string, v interface{}) error {
	body, err := fetchBody(ctx, client, apiURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{Kind: FetchTransport, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// fetchRecords fetches apiURL and returns an ordered record sequence. The
// envelope variance between providers (bare array vs an object wrapping the
// array under "titles" or "results") is resolved here, once, so nothing
// downstream ever re-checks the payload shape.
func fetchRecords(ctx context.Context, client *http.Client, apiURL string) ([]json.RawMessage, error) {
	body, err := fetchBody(ctx, client, apiURL)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

func decodeRecords(body []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var envelope struct {
		Titles  []json.RawMessage `json:"titles"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Kind: FetchTransport, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if envelope.Titles != nil {
		return envelope.Titles, nil
	}
	return envelope.Results, nil
}
