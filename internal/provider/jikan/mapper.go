package jikan

import (
	"fmt"
	"strings"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// MapEpisodes converts MAL episode DTOs. MAL has no season concept; the
// episode's mal_id doubles as its ordinal within the series.
func MapEpisodes(data []episodeDTO) []domain.ProviderEpisode {
	out := make([]domain.ProviderEpisode, 0, len(data))
	for _, e := range data {
		out = append(out, domain.ProviderEpisode{
			SeasonNumber:  0,
			EpisodeNumber: e.MalID,
		})
	}
	return out
}

// MapDetails converts an anime payload plus optional relations. Relation
// names are normalized to snake_case keys ("Side story" -> "side_story").
func MapDetails(anime *animeResponse, rels *relationsResponse) *domain.ProviderDetails {
	details := &domain.ProviderDetails{
		Title:    anime.Data.Title,
		Overview: anime.Data.Synopsis,
	}

	if rels == nil || len(rels.Data) == 0 {
		return details
	}

	relations := make(map[string][]domain.RelatedEntry)
	for _, rel := range rels.Data {
		key := normalizeRelation(rel.Relation)
		for _, e := range rel.Entry {
			relations[key] = append(relations[key], domain.RelatedEntry{
				ID:        fmt.Sprintf("%d", e.MalID),
				Title:     e.Name,
				MediaType: strings.ToLower(e.Type),
			})
		}
	}

	if len(relations) > 0 {
		details.Relations = relations
	}
	return details
}

func normalizeRelation(name string) string {
	if name == "" {
		return "related"
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
