package resolver

import (
	"sort"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// MergeSeasonMaps combines a freshly fetched season map with the map
// already on a content record. Fetched attributes (episode count, title)
// win; watched episodes are the deduplicated union of both sides, so a
// merge can never shrink the set of episodes the user has marked watched.
// Seasons present only in the existing map are preserved unchanged.
func MergeSeasonMaps(existing, fetched domain.SeasonMap) domain.SeasonMap {
	out := make(domain.SeasonMap, len(existing)+len(fetched))

	for num, f := range fetched {
		merged := &domain.Season{
			SeasonNumber:    f.SeasonNumber,
			EpisodeCount:    f.EpisodeCount,
			Title:           f.Title,
			WatchedEpisodes: f.WatchedEpisodes,
		}
		if e, ok := existing[num]; ok {
			merged.WatchedEpisodes = unionEpisodes(e.WatchedEpisodes, f.WatchedEpisodes)
		} else {
			merged.WatchedEpisodes = unionEpisodes(nil, f.WatchedEpisodes)
		}
		out[num] = merged
	}

	for num, e := range existing {
		if _, ok := out[num]; !ok {
			out[num] = e.Clone()
		}
	}

	return out
}

func unionEpisodes(a, b []int) []int {
	seen := make(map[int]bool, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, eps := range [][]int{a, b} {
		for _, e := range eps {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.Ints(out)
	return out
}
