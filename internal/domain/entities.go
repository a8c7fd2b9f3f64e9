package domain

import (
	"fmt"
	"sort"
	"strings"
)

// PageCategory identifies the medium a page groups content by.
type PageCategory string

const (
	PageFilm   PageCategory = "film"
	PageSeries PageCategory = "series"
	PageAnime  PageCategory = "anime"
	PageHome   PageCategory = "home"
)

// IsEpisodic reports whether content on this page carries season/episode structure.
func (p PageCategory) IsEpisodic() bool {
	return p == PageSeries || p == PageAnime
}

// StatusType distinguishes built-in buckets from user-created ones.
type StatusType string

const (
	StatusDefault StatusType = "default"
	StatusCustom  StatusType = "custom"
)

// Page groups content by medium (film/series/anime/home).
type Page struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Order    int          `json:"order"`
	Visible  bool         `json:"visible"`
	Category PageCategory `json:"category"`
}

// Status is a content item's current bucket within a page
// (e.g., to-watch / watching / watched).
type Status struct {
	ID      string     `json:"id"`
	PageID  string     `json:"pageId"`
	Title   string     `json:"title"`
	Order   int        `json:"order"`
	Visible bool       `json:"visible"`
	Type    StatusType `json:"type"`
}

// RelatedEntry is one entry in a provider's "related content" listing.
type RelatedEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Poster    string `json:"poster,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

// APIData holds provider-sourced metadata for a content item.
// Provider ids are zero when the content is unknown to that catalog.
type APIData struct {
	Title         string   `json:"title"`
	OriginalTitle string   `json:"originalTitle,omitempty"`
	Poster        string   `json:"poster,omitempty"`
	Overview      string   `json:"overview,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	ReleaseDate   string   `json:"releaseDate,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Runtime       int      `json:"runtime,omitempty"`

	// Episode count as reported on the content record itself, used to
	// synthesize a single season when no provider can enumerate episodes.
	Episodes int `json:"episodes,omitempty"`

	TMDBID    int64 `json:"tmdbId,omitempty"`
	KitsuID   int64 `json:"kitsuId,omitempty"`
	AniListID int64 `json:"anilistId,omitempty"`
	JikanID   int64 `json:"jikanId,omitempty"`

	Relations map[string][]RelatedEntry `json:"relations,omitempty"`
}

// HasProviderID reports whether any catalog knows this item.
func (a APIData) HasProviderID() bool {
	return a.TMDBID != 0 || a.KitsuID != 0 || a.AniListID != 0 || a.JikanID != 0
}

// KitsuOnly reports whether Kitsu is the sole identifying catalog.
func (a APIData) KitsuOnly() bool {
	return a.KitsuID != 0 && a.TMDBID == 0 && a.AniListID == 0 && a.JikanID == 0
}

// SharesProviderID reports whether two metadata records carry the same
// non-zero id in any catalog namespace.
func (a APIData) SharesProviderID(other APIData) bool {
	return (a.TMDBID != 0 && a.TMDBID == other.TMDBID) ||
		(a.KitsuID != 0 && a.KitsuID == other.KitsuID) ||
		(a.AniListID != 0 && a.AniListID == other.AniListID) ||
		(a.JikanID != 0 && a.JikanID == other.JikanID)
}

// Season tracks per-episode progress for one season of episodic content.
// WatchedEpisodes is 1-indexed and kept sorted ascending by the cascade
// operations; raw writes are not range-checked against EpisodeCount.
type Season struct {
	SeasonNumber    int    `json:"seasonNumber"`
	EpisodeCount    int    `json:"episodeCount"`
	Title           string `json:"title,omitempty"`
	WatchedEpisodes []int  `json:"watchedEpisodes"`
}

// Clone returns a deep copy of the season.
func (s *Season) Clone() *Season {
	if s == nil {
		return nil
	}
	c := *s
	c.WatchedEpisodes = append([]int(nil), s.WatchedEpisodes...)
	return &c
}

// IsWatched reports whether episode ep is marked watched.
func (s *Season) IsWatched(ep int) bool {
	for _, e := range s.WatchedEpisodes {
		if e == ep {
			return true
		}
	}
	return false
}

// DisplayTitle returns the title to render for the season.
func (s *Season) DisplayTitle() string {
	if s.SeasonNumber == 0 {
		return "Specials"
	}
	if s.Title != "" && s.Title != fmt.Sprintf("Season %d", s.SeasonNumber) {
		return fmt.Sprintf("Season %d: %s", s.SeasonNumber, s.Title)
	}
	return fmt.Sprintf("Season %d", s.SeasonNumber)
}

// SeasonMap maps season number to its progress record.
type SeasonMap map[int]*Season

// Clone returns a deep copy of the map.
func (m SeasonMap) Clone() SeasonMap {
	if m == nil {
		return nil
	}
	out := make(SeasonMap, len(m))
	for n, s := range m {
		out[n] = s.Clone()
	}
	return out
}

// SortedNumbers returns the season numbers in ascending order.
func (m SeasonMap) SortedNumbers() []int {
	nums := make([]int, 0, len(m))
	for n := range m {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Content is one tracked media item: a status bucket plus, for episodic
// content, a season/episode progress map.
type Content struct {
	ID         string    `json:"id"`
	PageID     string    `json:"pageId"`
	StatusID   string    `json:"statusId"`
	APIData    APIData   `json:"apiData"`
	Seasons    SeasonMap `json:"seasons,omitempty"`
	AddedAt    int64     `json:"addedAt"`
	UpdatedAt  int64     `json:"updatedAt"`
	UserRating float64   `json:"userRating,omitempty"`
	Notes      string    `json:"notes,omitempty"`
}

// Title returns the display title.
func (c *Content) Title() string { return c.APIData.Title }

// MatchesQuery reports whether the content matches a case-insensitive
// substring query over title, original title, and overview.
func (c *Content) MatchesQuery(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.APIData.Title), q) ||
		strings.Contains(strings.ToLower(c.APIData.OriginalTitle), q) ||
		strings.Contains(strings.ToLower(c.APIData.Overview), q)
}

// IsDuplicateOf reports whether both contents carry the same non-zero
// TMDB or Kitsu id. Duplicate detection deliberately ignores the
// AniList/Jikan namespaces; only the two primary catalogs identify an add.
func (c *Content) IsDuplicateOf(other *Content) bool {
	if c.APIData.TMDBID != 0 && c.APIData.TMDBID == other.APIData.TMDBID {
		return true
	}
	if c.APIData.KitsuID != 0 && c.APIData.KitsuID == other.APIData.KitsuID {
		return true
	}
	return false
}
