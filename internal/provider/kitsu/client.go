// Package kitsu implements the Kitsu catalog client (JSON:API). Kitsu can
// enumerate individual anime episodes and is also the genre source for
// content identified only by a Kitsu id.
package kitsu

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
	defaultBaseURL = "https://kitsu.io/api/edge"
	defaultTimeout = 30 * time.Second
	userAgent      = "Watchkeep/1.0"

	// episodePageSize is Kitsu's maximum page[limit].
	episodePageSize = 20
)

// Client implements domain.EpisodeLister, domain.DetailsProvider, and
// domain.GenreLister for Kitsu.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Kitsu API client.
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
	req.Header.Set("Accept", "application/vnd.api+json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("kitsu request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("kitsu request failed", "error", err)
		return nil, domain.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("kitsu request error", "status", resp.StatusCode, "path", path)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}

// GetEpisodes returns the episode listing of an anime plus the total count
// reported by the API. The listing pages through Kitsu's 20-item limit.
func (c *Client) GetEpisodes(ctx context.Context, id int64) ([]domain.ProviderEpisode, int, error) {
	var episodes []domain.ProviderEpisode
	total := 0
	offset := 0

	for {
		query := url.Values{}
		query.Set("page[limit]", fmt.Sprintf("%d", episodePageSize))
		query.Set("page[offset]", fmt.Sprintf("%d", offset))

		body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d/episodes", id), query)
		if err != nil {
			return nil, 0, err
		}

		var page episodesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, 0, fmt.Errorf("failed to parse response: %w", err)
		}

		total = page.Meta.Count
		episodes = append(episodes, MapEpisodes(page.Data)...)

		if len(page.Data) < episodePageSize || len(episodes) >= total {
			break
		}
		offset += episodePageSize
	}

	return episodes, total, nil
}

// GetGenres returns the category titles of an anime.
func (c *Client) GetGenres(ctx context.Context, id int64) ([]string, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d/categories", id), nil)
	if err != nil {
		return nil, err
	}

	var categories categoriesResponse
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapGenres(categories.Data), nil
}

// GetDetails returns detail metadata with media relationships mapped into
// the relations structure. mediaType is ignored; Kitsu ids are anime-only.
func (c *Client) GetDetails(ctx context.Context, id int64, _ string) (*domain.ProviderDetails, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var anime animeResponse
	if err := json.Unmarshal(body, &anime); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	query := url.Values{}
	query.Set("include", "destination")
	relBody, err := c.doRequest(ctx, fmt.Sprintf("/anime/%d/media-relationships", id), query)
	if err != nil {
		// Relations are best-effort; the detail payload alone is still useful.
		c.logger.Debug("kitsu relationships unavailable", "id", id, "error", err)
		return MapDetails(&anime, nil), nil
	}

	var rels relationshipsResponse
	if err := json.Unmarshal(relBody, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapDetails(&anime, &rels), nil
}
