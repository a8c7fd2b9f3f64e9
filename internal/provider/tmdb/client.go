// Package tmdb implements the TMDB catalog client. TMDB is the only
// provider that enumerates real season structure, so it sits first in the
// resolver's fallback chain for series and anime.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/watchkeep/watchkeep/internal/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 30 * time.Second
	userAgent      = "Watchkeep/1.0"
)

// Client implements domain.SeasonLister and domain.DetailsProvider for TMDB.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated GET request.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tmdb request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tmdb request failed", "error", err)
		return nil, domain.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("tmdb request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// GetSeasons returns the season listing of a TV series.
func (c *Client) GetSeasons(ctx context.Context, id int64) ([]domain.ProviderSeason, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var show showResponse
	if err := json.Unmarshal(body, &show); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapSeasons(show.Seasons), nil
}

// GetDetails returns detail metadata including recommendations, which feed
// the relations map. mediaType is "movie" or "tv".
func (c *Client) GetDetails(ctx context.Context, id int64, mediaType string) (*domain.ProviderDetails, error) {
	if mediaType == "" {
		mediaType = "tv"
	}
	query := url.Values{}
	query.Set("append_to_response", "recommendations")

	body, err := c.doRequest(ctx, fmt.Sprintf("/%s/%d", mediaType, id), query)
	if err != nil {
		return nil, err
	}

	var details detailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapDetails(&details), nil
}
