package domain

import "context"

// ProviderSeason is one season as enumerated by a catalog's season listing.
type ProviderSeason struct {
	SeasonNumber int
	EpisodeCount int
	Title        string
}

// ProviderEpisode is one episode as enumerated by a catalog's episode
// listing. SeasonNumber is 0 when the catalog does not model seasons.
type ProviderEpisode struct {
	SeasonNumber  int
	EpisodeNumber int
}

// ProviderDetails is the detail payload used for relations resolution.
// Relations is nil when the catalog reported none.
type ProviderDetails struct {
	Title     string
	Overview  string
	Relations map[string][]RelatedEntry
}

// SeasonLister enumerates the season structure of an item.
type SeasonLister interface {
	GetSeasons(ctx context.Context, id int64) ([]ProviderSeason, error)
}

// EpisodeLister enumerates episodes of an item, returning the total count
// alongside the listing (catalogs may page or truncate the listing itself).
type EpisodeLister interface {
	GetEpisodes(ctx context.Context, id int64) ([]ProviderEpisode, int, error)
}

// DetailsProvider returns detail metadata, including related content.
type DetailsProvider interface {
	GetDetails(ctx context.Context, id int64, mediaType string) (*ProviderDetails, error)
}

// EpisodeCounter reports a single scalar episode count for an item.
type EpisodeCounter interface {
	GetEpisodeCount(ctx context.Context, id int64) (int, error)
}

// GenreLister enumerates an item's genres. Used by the add-time enrichment
// for content identified only by a Kitsu id.
type GenreLister interface {
	GetGenres(ctx context.Context, id int64) ([]string, error)
}
