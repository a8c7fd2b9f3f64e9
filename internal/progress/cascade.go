// Package progress holds the pure cascade transformations applied to a
// season map by a single watch/unwatch action. The functions assume linear
// viewing: marking an episode implies everything chronologically before it
// was seen, and un-marking cuts off everything after.
//
// All functions return a fresh map and never mutate their input. Missing
// season keys are no-ops; nothing here panics or returns an error.
package progress

import (
	"sort"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// MarkEpisodeWatched marks episode ep of season num watched, filling every
// earlier season completely and episodes [1..ep] of season num.
// Seasons after num are untouched.
func MarkEpisodeWatched(seasons domain.SeasonMap, num, ep int) domain.SeasonMap {
	out := seasons.Clone()
	for n, s := range out {
		switch {
		case n < num:
			s.WatchedEpisodes = fullRange(s.EpisodeCount)
		case n == num:
			s.WatchedEpisodes = addThrough(s.WatchedEpisodes, ep)
		}
	}
	return out
}

// MarkEpisodeUnwatched removes episode ep and every later episode from
// season num, and clears all later seasons. Earlier seasons are untouched.
func MarkEpisodeUnwatched(seasons domain.SeasonMap, num, ep int) domain.SeasonMap {
	out := seasons.Clone()
	for n, s := range out {
		switch {
		case n == num:
			s.WatchedEpisodes = dropFrom(s.WatchedEpisodes, ep)
		case n > num:
			s.WatchedEpisodes = []int{}
		}
	}
	return out
}

// MarkSeasonWatched marks season num and every earlier season fully watched.
func MarkSeasonWatched(seasons domain.SeasonMap, num int) domain.SeasonMap {
	out := seasons.Clone()
	for n, s := range out {
		if n <= num {
			s.WatchedEpisodes = fullRange(s.EpisodeCount)
		}
	}
	return out
}

// MarkSeasonUnwatched clears season num and every later season.
func MarkSeasonUnwatched(seasons domain.SeasonMap, num int) domain.SeasonMap {
	out := seasons.Clone()
	for n, s := range out {
		if n >= num {
			s.WatchedEpisodes = []int{}
		}
	}
	return out
}

// WatchedCount sums watched episodes across all seasons.
func WatchedCount(seasons domain.SeasonMap) int {
	total := 0
	for _, s := range seasons {
		total += len(s.WatchedEpisodes)
	}
	return total
}

// TotalCount sums episode counts across all seasons.
func TotalCount(seasons domain.SeasonMap) int {
	total := 0
	for _, s := range seasons {
		total += s.EpisodeCount
	}
	return total
}

// Percent returns aggregate progress in [0,100], 0 when nothing is known.
func Percent(seasons domain.SeasonMap) float64 {
	total := TotalCount(seasons)
	if total == 0 {
		return 0
	}
	return float64(WatchedCount(seasons)) / float64(total) * 100
}

// fullRange returns [1..count].
func fullRange(count int) []int {
	eps := make([]int, 0, count)
	for e := 1; e <= count; e++ {
		eps = append(eps, e)
	}
	return eps
}

// addThrough unions watched with [1..ep] and sorts ascending.
func addThrough(watched []int, ep int) []int {
	seen := make(map[int]bool, len(watched)+ep)
	out := make([]int, 0, len(watched)+ep)
	for _, e := range watched {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	for e := 1; e <= ep; e++ {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	sort.Ints(out)
	return out
}

// dropFrom removes ep and every later episode.
func dropFrom(watched []int, ep int) []int {
	out := make([]int, 0, len(watched))
	for _, e := range watched {
		if e < ep {
			out = append(out, e)
		}
	}
	return out
}
