package kitsu

import "github.com/watchkeep/watchkeep/internal/domain"

// MapEpisodes converts episode resources. Kitsu may omit seasonNumber;
// the resolver defaults those to season 1 when grouping.
func MapEpisodes(data []episodeResource) []domain.ProviderEpisode {
	out := make([]domain.ProviderEpisode, 0, len(data))
	for _, e := range data {
		out = append(out, domain.ProviderEpisode{
			SeasonNumber:  e.Attributes.SeasonNumber,
			EpisodeNumber: e.Attributes.Number,
		})
	}
	return out
}

// MapGenres extracts category titles.
func MapGenres(data []categoryResource) []string {
	out := make([]string, 0, len(data))
	for _, c := range data {
		if c.Attributes.Title != "" {
			out = append(out, c.Attributes.Title)
		}
	}
	return out
}

// MapDetails converts an anime payload plus optional relationships into
// provider details. Relations stay nil when rels is nil or empty.
func MapDetails(anime *animeResponse, rels *relationshipsResponse) *domain.ProviderDetails {
	details := &domain.ProviderDetails{
		Title:    anime.Data.Attributes.CanonicalTitle,
		Overview: anime.Data.Attributes.Synopsis,
	}

	if rels == nil || len(rels.Data) == 0 {
		return details
	}

	// Index sideloaded destinations for title/poster lookup.
	included := make(map[string]includedResource, len(rels.Included))
	for _, inc := range rels.Included {
		included[inc.Type+":"+inc.ID] = inc
	}

	relations := make(map[string][]domain.RelatedEntry)
	for _, rel := range rels.Data {
		ref := rel.Relationships.Destination.Data
		entry := domain.RelatedEntry{ID: ref.ID, MediaType: ref.Type}
		if inc, ok := included[ref.Type+":"+ref.ID]; ok {
			entry.Title = inc.Attributes.CanonicalTitle
			entry.Poster = inc.Attributes.PosterImage.Small
		}
		role := rel.Attributes.Role
		if role == "" {
			role = "related"
		}
		relations[role] = append(relations[role], entry)
	}

	if len(relations) > 0 {
		details.Relations = relations
	}
	return details
}
