package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchkeep/watchkeep/internal/domain"
)

var errDown = errors.New("provider down")

type fakeTMDB struct {
	seasons []domain.ProviderSeason
	details *domain.ProviderDetails
	err     error
	calls   int
}

func (f *fakeTMDB) GetSeasons(_ context.Context, _ int64) ([]domain.ProviderSeason, error) {
	f.calls++
	return f.seasons, f.err
}

func (f *fakeTMDB) GetDetails(_ context.Context, _ int64, _ string) (*domain.ProviderDetails, error) {
	f.calls++
	return f.details, f.err
}

type fakeEpisodeLister struct {
	episodes []domain.ProviderEpisode
	total    int
	details  *domain.ProviderDetails
	err      error
	calls    int
}

func (f *fakeEpisodeLister) GetEpisodes(_ context.Context, _ int64) ([]domain.ProviderEpisode, int, error) {
	f.calls++
	return f.episodes, f.total, f.err
}

func (f *fakeEpisodeLister) GetDetails(_ context.Context, _ int64, _ string) (*domain.ProviderDetails, error) {
	f.calls++
	return f.details, f.err
}

type fakeAniList struct {
	count   int
	details *domain.ProviderDetails
	err     error
	calls   int
}

func (f *fakeAniList) GetEpisodeCount(_ context.Context, _ int64) (int, error) {
	f.calls++
	return f.count, f.err
}

func (f *fakeAniList) GetDetails(_ context.Context, _ int64, _ string) (*domain.ProviderDetails, error) {
	f.calls++
	return f.details, f.err
}

func seriesContent(tmdbID int64) *domain.Content {
	return &domain.Content{
		ID:      "c1",
		PageID:  domain.PageIDSeries,
		APIData: domain.APIData{Title: "Some Show", TMDBID: tmdbID},
	}
}

func animeContent(data domain.APIData) *domain.Content {
	return &domain.Content{ID: "a1", PageID: domain.PageIDAnime, APIData: data}
}

func TestResolveSeasonsFromTMDB(t *testing.T) {
	tmdb := &fakeTMDB{seasons: []domain.ProviderSeason{
		{SeasonNumber: 1, EpisodeCount: 10, Title: "Season 1"},
		{SeasonNumber: 2, EpisodeCount: 8, Title: "Season 2"},
	}}
	r := New(tmdb, nil, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), seriesContent(42))

	require.Len(t, got, 2)
	assert.Equal(t, 10, got[1].EpisodeCount)
	assert.Equal(t, "Season 2", got[2].Title)
	assert.Empty(t, got[1].WatchedEpisodes)
}

func TestResolveSeasonsTMDBFailureFallsThrough(t *testing.T) {
	// A series with only a TMDB id whose listing call errors
	// must yield an empty map without surfacing the error.
	tmdb := &fakeTMDB{err: errDown}
	r := New(tmdb, nil, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), seriesContent(42))

	assert.Empty(t, got)
	assert.Equal(t, 1, tmdb.calls)
}

func TestResolveSeasonsKitsuGroupsBySeason(t *testing.T) {
	kitsu := &fakeEpisodeLister{
		episodes: []domain.ProviderEpisode{
			{SeasonNumber: 1, EpisodeNumber: 1},
			{SeasonNumber: 1, EpisodeNumber: 2},
			{SeasonNumber: 2, EpisodeNumber: 1},
			{SeasonNumber: 0, EpisodeNumber: 3}, // no season reported -> season 1
		},
		total: 4,
	}
	r := New(nil, kitsu, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{KitsuID: 7}))

	require.Len(t, got, 2)
	assert.Equal(t, 3, got[1].EpisodeCount)
	assert.Equal(t, 1, got[2].EpisodeCount)
}

func TestResolveSeasonsKitsuFailureSynthesizesFromAPIData(t *testing.T) {
	kitsu := &fakeEpisodeLister{err: errDown}
	r := New(nil, kitsu, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{KitsuID: 7, Episodes: 24}))

	require.Len(t, got, 1)
	assert.Equal(t, 24, got[1].EpisodeCount)
}

func TestResolveSeasonsAniListScalarCount(t *testing.T) {
	anilist := &fakeAniList{count: 12}
	r := New(nil, nil, anilist, nil, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{AniListID: 3}))

	require.Len(t, got, 1)
	assert.Equal(t, 12, got[1].EpisodeCount)
}

func TestResolveSeasonsJikanTotal(t *testing.T) {
	jikan := &fakeEpisodeLister{total: 26}
	r := New(nil, nil, nil, jikan, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{JikanID: 5}))

	require.Len(t, got, 1)
	assert.Equal(t, 26, got[1].EpisodeCount)
}

func TestResolveSeasonsSynthesisWithoutProviderIDs(t *testing.T) {
	// Anime with no provider ids but a known episode count synthesizes
	// a single season.
	r := New(nil, nil, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{Episodes: 24}))

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[1].SeasonNumber)
	assert.Equal(t, 24, got[1].EpisodeCount)
	assert.Empty(t, got[1].WatchedEpisodes)
}

func TestResolveSeasonsChainOrder(t *testing.T) {
	// TMDB fails, Kitsu succeeds; AniList must never be consulted.
	tmdb := &fakeTMDB{err: errDown}
	kitsu := &fakeEpisodeLister{
		episodes: []domain.ProviderEpisode{{SeasonNumber: 1, EpisodeNumber: 1}},
		total:    1,
	}
	anilist := &fakeAniList{count: 99}
	r := New(tmdb, kitsu, anilist, nil, nil)

	got := r.ResolveSeasons(context.Background(), animeContent(domain.APIData{
		TMDBID: 1, KitsuID: 2, AniListID: 3,
	}))

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[1].EpisodeCount)
	assert.Equal(t, 1, tmdb.calls)
	assert.Equal(t, 1, kitsu.calls)
	assert.Zero(t, anilist.calls)
}

func TestResolveSeasonsNonEpisodicPageYieldsNothing(t *testing.T) {
	tmdb := &fakeTMDB{seasons: []domain.ProviderSeason{{SeasonNumber: 1, EpisodeCount: 3}}}
	r := New(tmdb, nil, nil, nil, nil)

	got := r.ResolveSeasons(context.Background(), &domain.Content{
		PageID:  domain.PageIDFilm,
		APIData: domain.APIData{TMDBID: 42},
	})

	assert.Empty(t, got)
	assert.Zero(t, tmdb.calls)
}

func TestResolveRelationsPriority(t *testing.T) {
	relations := map[string][]domain.RelatedEntry{
		"sequel": {{ID: "9", Title: "Season Two"}},
	}
	tmdb := &fakeTMDB{details: &domain.ProviderDetails{Relations: relations}}
	anilist := &fakeAniList{details: &domain.ProviderDetails{
		Relations: map[string][]domain.RelatedEntry{"prequel": {{ID: "1"}}},
	}}
	r := New(tmdb, nil, anilist, nil, nil)

	got := r.ResolveRelations(context.Background(), animeContent(domain.APIData{
		TMDBID: 1, AniListID: 2,
	}))

	assert.Equal(t, relations, got)
	assert.Zero(t, anilist.calls, "TMDB outranks AniList for relations")
}

func TestResolveRelationsFailureReturnsNil(t *testing.T) {
	tmdb := &fakeTMDB{err: errDown}
	r := New(tmdb, nil, nil, nil, nil)

	assert.Nil(t, r.ResolveRelations(context.Background(), seriesContent(42)))
}

func TestResolveRelationsWithoutRelationsField(t *testing.T) {
	tmdb := &fakeTMDB{details: &domain.ProviderDetails{Title: "Bare"}}
	r := New(tmdb, nil, nil, nil, nil)

	assert.Nil(t, r.ResolveRelations(context.Background(), seriesContent(42)))
}

func TestMergePreservesWatchedEpisodes(t *testing.T) {
	existing := domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 10, WatchedEpisodes: []int{1, 2, 3}},
		3: {SeasonNumber: 3, EpisodeCount: 12, WatchedEpisodes: []int{1}},
	}
	fetched := domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 13, Title: "Season 1", WatchedEpisodes: []int{}},
		2: {SeasonNumber: 2, EpisodeCount: 8, WatchedEpisodes: []int{}},
	}

	got := MergeSeasonMaps(existing, fetched)

	require.Len(t, got, 3)
	// Fresh attributes win, watched episodes survive.
	assert.Equal(t, 13, got[1].EpisodeCount)
	assert.Equal(t, "Season 1", got[1].Title)
	assert.Equal(t, []int{1, 2, 3}, got[1].WatchedEpisodes)
	// New season from the fetch.
	assert.Equal(t, 8, got[2].EpisodeCount)
	// Season absent from the fetch is preserved verbatim.
	assert.Equal(t, []int{1}, got[3].WatchedEpisodes)
	assert.Equal(t, 12, got[3].EpisodeCount)
}

func TestMergeNeverShrinksWatchedSets(t *testing.T) {
	existing := domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 10, WatchedEpisodes: []int{2, 4, 6}},
	}
	fetched := domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 10, WatchedEpisodes: []int{1, 2}},
	}

	got := MergeSeasonMaps(existing, fetched)

	assert.Equal(t, []int{1, 2, 4, 6}, got[1].WatchedEpisodes)
}

func TestMergeWithEmptyExisting(t *testing.T) {
	fetched := domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 5, WatchedEpisodes: []int{}},
	}

	got := MergeSeasonMaps(nil, fetched)

	require.Len(t, got, 1)
	assert.Empty(t, got[1].WatchedEpisodes)
}
