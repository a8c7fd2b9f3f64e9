package library

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/persist"
)

type fakeResolver struct {
	seasons   domain.SeasonMap
	relations map[string][]domain.RelatedEntry
	calls     int
}

func (f *fakeResolver) ResolveSeasons(_ context.Context, _ *domain.Content) domain.SeasonMap {
	f.calls++
	return f.seasons
}

func (f *fakeResolver) ResolveRelations(_ context.Context, _ *domain.Content) map[string][]domain.RelatedEntry {
	f.calls++
	return f.relations
}

type fakeGenres struct {
	genres []string
	err    error
	done   chan struct{}
}

func (f *fakeGenres) GetGenres(_ context.Context, _ int64) ([]string, error) {
	defer close(f.done)
	return f.genres, f.err
}

func newTestLibrary(t *testing.T, r MetadataResolver, g domain.GenreLister) *Service {
	t.Helper()
	store, err := persist.NewStore(t.TempDir(), "tracker.db")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	docs := persist.NewService(store, DocumentKey, domain.DefaultContentDocument, nil)
	return NewService(docs, r, g, nil)
}

func sampleContent(title string, tmdbID int64) *domain.Content {
	return &domain.Content{
		PageID:   domain.PageIDSeries,
		StatusID: "series:watching",
		APIData:  domain.APIData{Title: title, TMDBID: tmdbID},
	}
}

func TestAddContentAssignsIDAndTimestamps(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)

	added, err := svc.AddContent(context.Background(), sampleContent("Dark", 70523))
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	assert.NotZero(t, added.AddedAt)
	assert.Equal(t, added.AddedAt, added.UpdatedAt)

	got, err := svc.GetContentByID(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dark", got.APIData.Title)
}

func TestGetContentByIDUnknown(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)

	_, err := svc.GetContentByID("missing")
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestAddContentRejectsDuplicateProviderID(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)

	_, err := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	require.NoError(t, err)

	_, err = svc.AddContent(context.Background(), sampleContent("Dark (again)", 42))
	assert.ErrorIs(t, err, domain.ErrDuplicateContent)
	assert.Equal(t, 1, svc.ContentCount(), "duplicate add must leave the store unchanged")
}

func TestAddContentAllowsDistinctProviderIDs(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)

	_, err := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	require.NoError(t, err)
	_, err = svc.AddContent(context.Background(), sampleContent("1899", 90669))
	require.NoError(t, err)

	assert.Equal(t, 2, svc.ContentCount())
}

func TestAddContentKitsuOnlyEnrichesGenres(t *testing.T) {
	genres := &fakeGenres{genres: []string{"Action", "Drama"}, done: make(chan struct{})}
	svc := newTestLibrary(t, nil, genres)

	added, err := svc.AddContent(context.Background(), &domain.Content{
		PageID:   domain.PageIDAnime,
		StatusID: "anime:watching",
		APIData:  domain.APIData{Title: "Monster", KitsuID: 550},
	})
	require.NoError(t, err)

	select {
	case <-genres.done:
	case <-time.After(2 * time.Second):
		t.Fatal("genre lookup never ran")
	}

	require.Eventually(t, func() bool {
		got, _ := svc.GetContentByID(added.ID)
		return len(got.APIData.Genres) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAddContentWithTMDBIDSkipsGenreEnrichment(t *testing.T) {
	genres := &fakeGenres{genres: []string{"Action"}, done: make(chan struct{})}
	svc := newTestLibrary(t, nil, genres)

	_, err := svc.AddContent(context.Background(), &domain.Content{
		PageID:  domain.PageIDAnime,
		APIData: domain.APIData{Title: "Mixed IDs", KitsuID: 1, TMDBID: 2},
	})
	require.NoError(t, err)

	select {
	case <-genres.done:
		t.Fatal("enrichment must only run for Kitsu-only content")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMoveContentBetweenStatusesByID(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))

	ok := svc.MoveContentBetweenStatuses(&domain.Content{ID: added.ID}, "series:watching", "series:watched", "")
	require.True(t, ok)

	got, _ := svc.GetContentByID(added.ID)
	assert.Equal(t, "series:watched", got.StatusID)
}

func TestMoveContentBetweenStatusesHeuristicFallback(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))

	ref := &domain.Content{
		ID:      "unknown-id",
		APIData: domain.APIData{Title: "dark", TMDBID: 42},
	}
	ok := svc.MoveContentBetweenStatuses(ref, "series:watching", "series:watched", domain.PageIDHome)
	require.True(t, ok)

	got, _ := svc.GetContentByID(added.ID)
	assert.Equal(t, "series:watched", got.StatusID)
	assert.Equal(t, domain.PageIDHome, got.PageID)
}

func TestMoveContentWrongFromStatusFails(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))

	ok := svc.MoveContentBetweenStatuses(&domain.Content{ID: added.ID}, "series:watched", "series:to-watch", "")
	assert.False(t, ok)
}

func TestDeleteMultipleContents(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	a, _ := svc.AddContent(context.Background(), sampleContent("Dark", 1))
	b, _ := svc.AddContent(context.Background(), sampleContent("1899", 2))

	deleted := svc.DeleteMultipleContents([]string{a.ID, b.ID, "missing"})

	assert.Equal(t, 2, deleted)
	assert.Zero(t, svc.ContentCount())
}

func TestSearchContents(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	svc.AddContent(context.Background(), &domain.Content{
		PageID:  domain.PageIDSeries,
		APIData: domain.APIData{Title: "Breaking Bad", Overview: "A chemistry teacher", TMDBID: 1},
	})
	svc.AddContent(context.Background(), &domain.Content{
		PageID:  domain.PageIDAnime,
		APIData: domain.APIData{Title: "Steins;Gate", OriginalTitle: "シュタインズ・ゲート", TMDBID: 2},
	})

	assert.Len(t, svc.SearchContents("CHEMISTRY", ""), 1)
	assert.Len(t, svc.SearchContents("steins", domain.PageIDAnime), 1)
	assert.Empty(t, svc.SearchContents("steins", domain.PageIDSeries))
	assert.Empty(t, svc.SearchContents("  ", ""))
}

func TestRankedSearch(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	svc.AddContent(context.Background(), sampleContent("Mr. Robot", 1))
	svc.AddContent(context.Background(), sampleContent("Breaking Bad", 2))

	results := svc.RankedSearch("robot")
	require.Len(t, results, 1)
	assert.Equal(t, "Mr. Robot", results[0].Content.APIData.Title)

	// Index is rebuilt once content changes.
	svc.AddContent(context.Background(), sampleContent("Robot Wars", 3))
	assert.Len(t, svc.RankedSearch("robot"), 2)

	assert.Empty(t, svc.RankedSearch(""))
}

func TestProgressMutationsCascadeThroughService(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	svc.UpdateContent(added.ID, func(c *domain.Content) {
		c.Seasons = domain.SeasonMap{
			1: {SeasonNumber: 1, EpisodeCount: 10, WatchedEpisodes: []int{}},
			2: {SeasonNumber: 2, EpisodeCount: 8, WatchedEpisodes: []int{}},
		}
	})

	require.True(t, svc.MarkEpisodeWatched(added.ID, 2, 3))

	got, _ := svc.GetContentByID(added.ID)
	assert.Len(t, got.Seasons[1].WatchedEpisodes, 10)
	assert.Equal(t, []int{1, 2, 3}, got.Seasons[2].WatchedEpisodes)

	watched, total, percent := svc.ContentProgress(added.ID)
	assert.Equal(t, 13, watched)
	assert.Equal(t, 18, total)
	assert.InDelta(t, 72.2, percent, 0.1)

	require.True(t, svc.MarkSeasonUnwatched(added.ID, 1))
	got, _ = svc.GetContentByID(added.ID)
	assert.Empty(t, got.Seasons[1].WatchedEpisodes)
	assert.Empty(t, got.Seasons[2].WatchedEpisodes)
}

func TestProgressMutationUnknownContentIsNoop(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	assert.False(t, svc.MarkEpisodeWatched("missing", 1, 1))
}

func TestEnsureSeasonsMergesWithoutLosingProgress(t *testing.T) {
	r := &fakeResolver{seasons: domain.SeasonMap{
		1: {SeasonNumber: 1, EpisodeCount: 12, Title: "Season 1", WatchedEpisodes: []int{}},
		2: {SeasonNumber: 2, EpisodeCount: 10, WatchedEpisodes: []int{}},
	}}
	svc := newTestLibrary(t, r, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	svc.UpdateContent(added.ID, func(c *domain.Content) {
		c.Seasons = domain.SeasonMap{1: {SeasonNumber: 1, EpisodeCount: 8, WatchedEpisodes: []int{1, 2}}}
	})

	got := svc.EnsureSeasons(context.Background(), added.ID, true)

	require.Len(t, got, 2)
	assert.Equal(t, 12, got[1].EpisodeCount, "fetched episode count wins")
	assert.Equal(t, []int{1, 2}, got[1].WatchedEpisodes, "watched episodes survive the refresh")
}

func TestEnsureSeasonsSkipsFetchWhenPresent(t *testing.T) {
	r := &fakeResolver{}
	svc := newTestLibrary(t, r, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	svc.UpdateContent(added.ID, func(c *domain.Content) {
		c.Seasons = domain.SeasonMap{1: {SeasonNumber: 1, EpisodeCount: 8}}
	})

	svc.EnsureSeasons(context.Background(), added.ID, false)

	assert.Zero(t, r.calls)
}

func TestEnsureSeasonsEmptyResultLeavesContentAlone(t *testing.T) {
	r := &fakeResolver{seasons: domain.SeasonMap{}}
	svc := newTestLibrary(t, r, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))

	got := svc.EnsureSeasons(context.Background(), added.ID, false)

	assert.Empty(t, got)
	stored, _ := svc.GetContentByID(added.ID)
	assert.Empty(t, stored.Seasons)
}

type gatedResolver struct {
	started chan struct{}
	release chan struct{}
	seasons domain.SeasonMap
}

func (g *gatedResolver) ResolveSeasons(_ context.Context, _ *domain.Content) domain.SeasonMap {
	close(g.started)
	<-g.release
	return g.seasons
}

func (g *gatedResolver) ResolveRelations(_ context.Context, _ *domain.Content) map[string][]domain.RelatedEntry {
	return nil
}

func TestEnsureSeasonsConcurrentMutationKeepsProgress(t *testing.T) {
	r := &gatedResolver{
		started: make(chan struct{}),
		release: make(chan struct{}),
		seasons: domain.SeasonMap{1: {SeasonNumber: 1, EpisodeCount: 10}},
	}
	svc := newTestLibrary(t, r, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))
	svc.UpdateContent(added.ID, func(c *domain.Content) {
		c.Seasons = domain.SeasonMap{1: {SeasonNumber: 1, EpisodeCount: 8, WatchedEpisodes: []int{}}}
	})

	// The fetch works on a private copy of the record, so marking episodes
	// while it is in flight never touches the data the fetch reads and the
	// new progress survives the merge.
	done := make(chan domain.SeasonMap, 1)
	go func() { done <- svc.EnsureSeasons(context.Background(), added.ID, true) }()

	<-r.started
	require.True(t, svc.MarkEpisodeWatched(added.ID, 1, 3))
	close(r.release)

	merged := <-done
	require.Contains(t, merged, 1)
	assert.Equal(t, []int{1, 2, 3}, merged[1].WatchedEpisodes)
	assert.Equal(t, 10, merged[1].EpisodeCount, "fetched episode count wins")

	got, _ := svc.GetContentByID(added.ID)
	assert.Equal(t, []int{1, 2, 3}, got.Seasons[1].WatchedEpisodes)
}

func TestEnsureRelationsOnlyOverwritesWhenReported(t *testing.T) {
	r := &fakeResolver{}
	svc := newTestLibrary(t, r, nil)
	added, _ := svc.AddContent(context.Background(), sampleContent("Dark", 42))

	svc.EnsureRelations(context.Background(), added.ID)
	got, _ := svc.GetContentByID(added.ID)
	assert.Nil(t, got.APIData.Relations)

	r.relations = map[string][]domain.RelatedEntry{"sequel": {{ID: "9"}}}
	svc.EnsureRelations(context.Background(), added.ID)
	got, _ = svc.GetContentByID(added.ID)
	assert.Equal(t, r.relations, got.APIData.Relations)
}

func TestDefaultDocumentPagesAndStatuses(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)

	pages := svc.GetPages()
	require.Len(t, pages, 4)
	assert.Equal(t, domain.PageIDHome, pages[0].ID)
	assert.Equal(t, "Home", pages[0].Title)

	statuses := svc.GetStatuses(domain.PageIDAnime)
	require.Len(t, statuses, 3)
	assert.Equal(t, "To Watch", statuses[0].Title)
	assert.Empty(t, svc.GetStatuses(domain.PageIDHome))
}

func TestContentsByGenreMemoized(t *testing.T) {
	svc := newTestLibrary(t, nil, nil)
	a, _ := svc.AddContent(context.Background(), &domain.Content{
		PageID:  domain.PageIDAnime,
		APIData: domain.APIData{Title: "Monster", Genres: []string{"Thriller"}, TMDBID: 1},
	})
	svc.AddContent(context.Background(), &domain.Content{
		PageID:  domain.PageIDAnime,
		APIData: domain.APIData{Title: "K-On!", Genres: []string{"Comedy"}, TMDBID: 2},
	})

	assert.Equal(t, []string{a.ID}, svc.ContentsByGenre("thriller"))
	assert.Equal(t, []string{a.ID}, svc.ContentsByGenre("thriller"))
}
