// Package jikan implements the Jikan (MyAnimeList) catalog client, the
// last resort in the resolver's fallback chain.
package jikan

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
	defaultBaseURL = "https://api.jikan.moe/v4"
	defaultTimeout = 30 * time.Second
	userAgent      = "Watchkeep/1.0"
)

// Client implements domain.EpisodeLister and domain.DetailsProvider for
// Jikan.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Jikan API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("jikan request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("jikan request failed", "error", err)
		return nil, domain.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("jikan request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// GetEpisodes returns the episode listing of an anime plus the total count.
// MAL does not model seasons, so every episode reports season 0 and the
// resolver folds the listing into a single season 1.
func (c *Client) GetEpisodes(ctx context.Context, id int64) ([]domain.ProviderEpisode, int, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d/episodes", id), nil)
	if err != nil {
		return nil, 0, err
	}

	var page episodesResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, 0, fmt.Errorf("failed to parse response: %w", err)
	}

	total := page.Pagination.Items.Total
	if total == 0 {
		total = len(page.Data)
	}
	return MapEpisodes(page.Data), total, nil
}

// GetDetails returns detail metadata with MAL's relation listing. mediaType
// is ignored; Jikan ids used here are anime-only.
func (c *Client) GetDetails(ctx context.Context, id int64, _ string) (*domain.ProviderDetails, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var anime animeResponse
	if err := json.Unmarshal(body, &anime); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	relBody, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d/relations", id), nil)
	if err != nil {
		c.logger.Debug("jikan relations unavailable", "id", id, "error", err)
		return MapDetails(&anime, nil), nil
	}

	var rels relationsResponse
	if err := json.Unmarshal(relBody, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapDetails(&anime, &rels), nil
}
