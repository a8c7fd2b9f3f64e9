// Package anilist implements the AniList catalog client. AniList speaks
// GraphQL; the resolver only needs a scalar episode count and the relations
// graph, so the client issues two small queries.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/watchkeep/watchkeep/internal/domain"
)

const (
	defaultBaseURL = "https://graphql.anilist.co"
	defaultTimeout = 30 * time.Second
	userAgent      = "Watchkeep/1.0"
)

const episodeCountQuery = `query ($id: Int) {
  Media(id: $id, type: ANIME) {
    episodes
  }
}`

const detailsQuery = `query ($id: Int) {
  Media(id: $id, type: ANIME) {
    title { romaji english }
    description
    relations {
      edges {
        relationType
        node {
          id
          type
          title { romaji english }
          coverImage { medium }
        }
      }
    }
  }
}`

// Client implements domain.EpisodeCounter and domain.DetailsProvider for
// AniList.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new AniList API client.
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

// query posts a GraphQL query and decodes the response into dest.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, dest any) error {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("anilist request", "url", c.baseURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("anilist request failed", "error", err)
		return domain.ErrProviderUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("anilist request error", "status", resp.StatusCode)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}

	return json.Unmarshal(envelope.Data, dest)
}

// GetEpisodeCount returns the total episode count of an anime, 0 when
// AniList does not know it (e.g. an airing series).
func (c *Client) GetEpisodeCount(ctx context.Context, id int64) (int, error) {
	var data struct {
		Media struct {
			Episodes int `json:"episodes"`
		} `json:"Media"`
	}
	if err := c.query(ctx, episodeCountQuery, map[string]any{"id": id}, &data); err != nil {
		return 0, err
	}
	return data.Media.Episodes, nil
}

// GetDetails returns detail metadata with the relations graph. mediaType is
// ignored; AniList ids used here are anime-only.
func (c *Client) GetDetails(ctx context.Context, id int64, _ string) (*domain.ProviderDetails, error) {
	var data struct {
		Media mediaDTO `json:"Media"`
	}
	if err := c.query(ctx, detailsQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	return MapDetails(&data.Media), nil
}
