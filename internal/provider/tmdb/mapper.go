package tmdb

import (
	"fmt"

	"github.com/watchkeep/watchkeep/internal/domain"
)

const posterBaseURL = "https://image.tmdb.org/t/p/w342"

// MapSeasons converts TMDB season DTOs into provider seasons. TMDB lists a
// "season 0" specials bucket; it is carried through unchanged.
func MapSeasons(seasons []seasonDTO) []domain.ProviderSeason {
	out := make([]domain.ProviderSeason, 0, len(seasons))
	for _, s := range seasons {
		out = append(out, domain.ProviderSeason{
			SeasonNumber: s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			Title:        s.Name,
		})
	}
	return out
}

// MapDetails converts a TMDB detail payload. Recommendations become the
// "recommendations" relation bucket; an empty listing yields nil Relations
// so callers can distinguish "no relations reported".
func MapDetails(d *detailsResponse) *domain.ProviderDetails {
	details := &domain.ProviderDetails{
		Title:    displayTitle(d),
		Overview: d.Overview,
	}

	if len(d.Recommendations.Results) > 0 {
		entries := make([]domain.RelatedEntry, 0, len(d.Recommendations.Results))
		for _, e := range d.Recommendations.Results {
			entries = append(entries, domain.RelatedEntry{
				ID:        fmt.Sprintf("%d", e.ID),
				Title:     entryTitle(e),
				Poster:    posterURL(e.PosterPath),
				MediaType: e.MediaType,
			})
		}
		details.Relations = map[string][]domain.RelatedEntry{
			"recommendations": entries,
		}
	}

	return details
}

func displayTitle(d *detailsResponse) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Title
}

func entryTitle(e entryDTO) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Title
}

func posterURL(path string) string {
	if path == "" {
		return ""
	}
	return posterBaseURL + path
}
