package anilist

import (
	"fmt"
	"strings"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// MapDetails converts an AniList media payload. Relation edges group by
// their relationType (SEQUEL, PREQUEL, SIDE_STORY, ...), lowercased to
// match the relation keys the other providers produce.
func MapDetails(m *mediaDTO) *domain.ProviderDetails {
	details := &domain.ProviderDetails{
		Title:    m.Title.Display(),
		Overview: m.Description,
	}

	if len(m.Relations.Edges) == 0 {
		return details
	}

	relations := make(map[string][]domain.RelatedEntry)
	for _, edge := range m.Relations.Edges {
		key := strings.ToLower(edge.RelationType)
		if key == "" {
			key = "related"
		}
		relations[key] = append(relations[key], domain.RelatedEntry{
			ID:        fmt.Sprintf("%d", edge.Node.ID),
			Title:     edge.Node.Title.Display(),
			Poster:    edge.Node.CoverImage.Medium,
			MediaType: strings.ToLower(edge.Node.Type),
		})
	}
	details.Relations = relations

	return details
}
