package library

import (
	"context"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/progress"
	"github.com/watchkeep/watchkeep/internal/resolver"
)

// MarkEpisodeWatched applies the forward cascade to the content's season
// map: every earlier season fills completely, season num fills through ep.
func (s *Service) MarkEpisodeWatched(id string, num, ep int) bool {
	return s.applyCascade(id, func(seasons domain.SeasonMap) domain.SeasonMap {
		return progress.MarkEpisodeWatched(seasons, num, ep)
	})
}

// MarkEpisodeUnwatched applies the backward cascade: episode ep and
// everything after it in season num is cleared, as are all later seasons.
func (s *Service) MarkEpisodeUnwatched(id string, num, ep int) bool {
	return s.applyCascade(id, func(seasons domain.SeasonMap) domain.SeasonMap {
		return progress.MarkEpisodeUnwatched(seasons, num, ep)
	})
}

// MarkSeasonWatched fills season num and every earlier season.
func (s *Service) MarkSeasonWatched(id string, num int) bool {
	return s.applyCascade(id, func(seasons domain.SeasonMap) domain.SeasonMap {
		return progress.MarkSeasonWatched(seasons, num)
	})
}

// MarkSeasonUnwatched clears season num and every later season.
func (s *Service) MarkSeasonUnwatched(id string, num int) bool {
	return s.applyCascade(id, func(seasons domain.SeasonMap) domain.SeasonMap {
		return progress.MarkSeasonUnwatched(seasons, num)
	})
}

func (s *Service) applyCascade(id string, cascade func(domain.SeasonMap) domain.SeasonMap) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[id]
		if !ok {
			return false
		}
		c.Seasons = cascade(c.Seasons)
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// ContentProgress returns the aggregate watched/total episode counts and
// progress percentage for the content. Zeroes for unknown ids.
func (s *Service) ContentProgress(id string) (watched, total int, percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.docs.Data().Contents[id]
	if !ok {
		return 0, 0, 0
	}
	return progress.WatchedCount(c.Seasons), progress.TotalCount(c.Seasons), progress.Percent(c.Seasons)
}

// EnsureSeasons resolves season structure for the content when it has none
// (or force is set) and merges the result into the record without ever
// shrinking recorded watch progress. The fetch runs outside the service
// lock against a private copy of the record; overlapping calls for the
// same id both fetch, and both writes stay correct through the merge.
func (s *Service) EnsureSeasons(ctx context.Context, id string, force bool) domain.SeasonMap {
	snapshot, seasons, ok := s.snapshotContent(id)
	if !ok {
		return nil
	}
	if len(seasons) > 0 && !force {
		return seasons
	}
	if s.resolver == nil {
		return seasons
	}

	fetched := s.resolver.ResolveSeasons(ctx, snapshot)
	if len(fetched) == 0 {
		return seasons
	}

	var merged domain.SeasonMap
	s.mutate(func(doc *domain.ContentDocument) bool {
		cur, ok := doc.Contents[id]
		if !ok {
			return false // deleted while the fetch was in flight
		}
		merged = resolver.MergeSeasonMaps(cur.Seasons, fetched)
		cur.Seasons = merged
		cur.UpdatedAt = s.timestamp()
		return true
	})
	return merged
}

// EnsureRelations resolves related-content metadata when the record has
// none. The relations map is only overwritten when a provider actually
// reported one; failure leaves the content unchanged.
func (s *Service) EnsureRelations(ctx context.Context, id string) {
	snapshot, _, ok := s.snapshotContent(id)
	if !ok || s.resolver == nil {
		return
	}
	if snapshot.APIData.Relations != nil {
		return
	}

	relations := s.resolver.ResolveRelations(ctx, snapshot)
	if relations == nil {
		return
	}

	s.mutate(func(doc *domain.ContentDocument) bool {
		cur, ok := doc.Contents[id]
		if !ok {
			return false
		}
		cur.APIData.Relations = relations
		cur.UpdatedAt = s.timestamp()
		return true
	})
}

// snapshotContent copies the record under the service lock so resolver
// fetches never read a record another goroutine is mutating. The returned
// season map is a deep copy; the live record stays behind the lock.
func (s *Service) snapshotContent(id string) (*domain.Content, domain.SeasonMap, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.docs.Data().Contents[id]
	if !ok {
		return nil, nil, false
	}
	snapshot := *c
	snapshot.Seasons = c.Seasons.Clone()
	return &snapshot, snapshot.Seasons, true
}
