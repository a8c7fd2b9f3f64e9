// Package resolver reconciles season/episode structure and related-content
// metadata across four independent catalogs. Resolution is best-effort:
// every provider failure is caught and logged, the chain falls through to
// the next source, and an empty result is a valid outcome. Nothing here
// returns an error to its caller.
package resolver

import (
	"context"
	"log/slog"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// TMDBProvider is the slice of the TMDB client the resolver consumes.
type TMDBProvider interface {
	domain.SeasonLister
	domain.DetailsProvider
}

// KitsuProvider is the slice of the Kitsu client the resolver consumes.
type KitsuProvider interface {
	domain.EpisodeLister
	domain.DetailsProvider
}

// AniListProvider is the slice of the AniList client the resolver consumes.
type AniListProvider interface {
	domain.EpisodeCounter
	domain.DetailsProvider
}

// JikanProvider is the slice of the Jikan client the resolver consumes.
type JikanProvider interface {
	domain.EpisodeLister
	domain.DetailsProvider
}

// seasonStrategy is one step of the fallback chain. applies gates the step
// on available ids and page category; resolve returns a non-empty map on
// success. Reordering the chain is a data change, not a control-flow edit.
type seasonStrategy struct {
	name    string
	applies func(c *domain.Content) bool
	resolve func(ctx context.Context, c *domain.Content) (domain.SeasonMap, error)
}

// Resolver runs the provider fallback chain. Concurrent calls for the same
// content are not deduplicated: overlapping fetches waste network work but
// stay correct because all writes go through MergeSeasonMaps.
type Resolver struct {
	tmdb    TMDBProvider
	kitsu   KitsuProvider
	anilist AniListProvider
	jikan   JikanProvider
	logger  *slog.Logger

	strategies []seasonStrategy
}

// New creates a Resolver over the four catalog clients. Any client may be
// nil; strategies needing it simply never apply.
func New(tmdb TMDBProvider, kitsu KitsuProvider, anilist AniListProvider, jikan JikanProvider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		tmdb:    tmdb,
		kitsu:   kitsu,
		anilist: anilist,
		jikan:   jikan,
		logger:  logger,
	}
	r.strategies = []seasonStrategy{
		{
			name:    "tmdb-seasons",
			applies: func(c *domain.Content) bool { return r.tmdb != nil && isEpisodicPage(c) && c.APIData.TMDBID != 0 },
			resolve: r.resolveTMDBSeasons,
		},
		{
			name:    "kitsu-episodes",
			applies: func(c *domain.Content) bool { return r.kitsu != nil && isAnimePage(c) && c.APIData.KitsuID != 0 },
			resolve: r.resolveKitsuEpisodes,
		},
		{
			name:    "anilist-count",
			applies: func(c *domain.Content) bool { return r.anilist != nil && isAnimePage(c) && c.APIData.AniListID != 0 },
			resolve: r.resolveAniListCount,
		},
		{
			name:    "jikan-episodes",
			applies: func(c *domain.Content) bool { return r.jikan != nil && isAnimePage(c) && c.APIData.JikanID != 0 },
			resolve: r.resolveJikanEpisodes,
		},
		{
			name:    "episode-count-synthesis",
			applies: func(c *domain.Content) bool { return isAnimePage(c) && c.APIData.Episodes > 0 },
			resolve: func(_ context.Context, c *domain.Content) (domain.SeasonMap, error) {
				return synthesizeSingleSeason(c.APIData.Episodes), nil
			},
		},
	}
	return r
}

// ResolveSeasons produces a season map for the content by trying each
// applicable strategy in order. Returns an empty map when every source
// fails or none applies.
func (r *Resolver) ResolveSeasons(ctx context.Context, content *domain.Content) domain.SeasonMap {
	for _, strat := range r.strategies {
		if !strat.applies(content) {
			continue
		}
		seasons, err := strat.resolve(ctx, content)
		if err != nil {
			r.logger.Warn("season resolution step failed",
				"strategy", strat.name, "contentID", content.ID, "error", err)
			continue
		}
		if len(seasons) == 0 {
			r.logger.Debug("season resolution step empty",
				"strategy", strat.name, "contentID", content.ID)
			continue
		}
		r.logger.Debug("resolved seasons",
			"strategy", strat.name, "contentID", content.ID, "seasons", len(seasons))
		return seasons
	}
	return domain.SeasonMap{}
}

// ResolveRelations picks the highest-priority catalog that knows the
// content (TMDB > AniList > Kitsu > Jikan) and returns its relations
// listing, or nil when the catalog reported none or the fetch failed.
func (r *Resolver) ResolveRelations(ctx context.Context, content *domain.Content) map[string][]domain.RelatedEntry {
	provider, id := r.pickDetailsProvider(content)
	if provider == nil {
		return nil
	}

	details, err := provider.GetDetails(ctx, id, detailsMediaType(content))
	if err != nil {
		r.logger.Warn("relations resolution failed", "contentID", content.ID, "error", err)
		return nil
	}
	if details == nil || details.Relations == nil {
		return nil
	}
	return details.Relations
}

// --- season strategies ---

func (r *Resolver) resolveTMDBSeasons(ctx context.Context, c *domain.Content) (domain.SeasonMap, error) {
	seasons, err := r.tmdb.GetSeasons(ctx, c.APIData.TMDBID)
	if err != nil {
		return nil, err
	}

	out := make(domain.SeasonMap, len(seasons))
	for _, s := range seasons {
		out[s.SeasonNumber] = &domain.Season{
			SeasonNumber:    s.SeasonNumber,
			EpisodeCount:    s.EpisodeCount,
			Title:           s.Title,
			WatchedEpisodes: []int{},
		}
	}
	return out, nil
}

func (r *Resolver) resolveKitsuEpisodes(ctx context.Context, c *domain.Content) (domain.SeasonMap, error) {
	episodes, total, err := r.kitsu.GetEpisodes(ctx, c.APIData.KitsuID)
	if err != nil {
		// A dead Kitsu endpoint should not cost us the synthesis option.
		if c.APIData.Episodes > 0 {
			return synthesizeSingleSeason(c.APIData.Episodes), nil
		}
		return nil, err
	}

	if total == 0 && len(episodes) == 0 {
		if c.APIData.Episodes > 0 {
			return synthesizeSingleSeason(c.APIData.Episodes), nil
		}
		return domain.SeasonMap{}, nil
	}

	return groupEpisodesBySeason(episodes), nil
}

func (r *Resolver) resolveAniListCount(ctx context.Context, c *domain.Content) (domain.SeasonMap, error) {
	count, err := r.anilist.GetEpisodeCount(ctx, c.APIData.AniListID)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return domain.SeasonMap{}, nil
	}
	return synthesizeSingleSeason(count), nil
}

func (r *Resolver) resolveJikanEpisodes(ctx context.Context, c *domain.Content) (domain.SeasonMap, error) {
	_, total, err := r.jikan.GetEpisodes(ctx, c.APIData.JikanID)
	if err != nil {
		return nil, err
	}
	if total <= 0 {
		return domain.SeasonMap{}, nil
	}
	return synthesizeSingleSeason(total), nil
}

// --- helpers ---

func isEpisodicPage(c *domain.Content) bool {
	return c.PageID == domain.PageIDSeries || c.PageID == domain.PageIDAnime
}

func isAnimePage(c *domain.Content) bool {
	return c.PageID == domain.PageIDAnime
}

func detailsMediaType(c *domain.Content) string {
	if c.PageID == domain.PageIDFilm {
		return "movie"
	}
	return "tv"
}

func (r *Resolver) pickDetailsProvider(c *domain.Content) (domain.DetailsProvider, int64) {
	switch {
	case r.tmdb != nil && c.APIData.TMDBID != 0:
		return r.tmdb, c.APIData.TMDBID
	case r.anilist != nil && c.APIData.AniListID != 0:
		return r.anilist, c.APIData.AniListID
	case r.kitsu != nil && c.APIData.KitsuID != 0:
		return r.kitsu, c.APIData.KitsuID
	case r.jikan != nil && c.APIData.JikanID != 0:
		return r.jikan, c.APIData.JikanID
	}
	return nil, 0
}

// synthesizeSingleSeason builds a one-season map of the given size.
func synthesizeSingleSeason(episodeCount int) domain.SeasonMap {
	return domain.SeasonMap{
		1: &domain.Season{
			SeasonNumber:    1,
			EpisodeCount:    episodeCount,
			WatchedEpisodes: []int{},
		},
	}
}

// groupEpisodesBySeason folds an episode listing into seasons, defaulting
// episodes without a season number to season 1.
func groupEpisodesBySeason(episodes []domain.ProviderEpisode) domain.SeasonMap {
	out := domain.SeasonMap{}
	for _, e := range episodes {
		num := e.SeasonNumber
		if num <= 0 {
			num = 1
		}
		s, ok := out[num]
		if !ok {
			s = &domain.Season{SeasonNumber: num, WatchedEpisodes: []int{}}
			out[num] = s
		}
		s.EpisodeCount++
	}
	return out
}
