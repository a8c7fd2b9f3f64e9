// Package search provides ranked fuzzy lookup over tracked contents, a
// richer companion to the library's plain substring search.
package search

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// Result is one ranked match with highlight metadata.
type Result struct {
	Content        *domain.Content
	Score          int   // lower is better
	MatchedIndexes []int // character positions that matched (for highlighting)
}

// Index is the local fuzzy index. It implements sahilm/fuzzy.Source over
// pre-lowered titles so matching allocates nothing per query.
type Index struct {
	mu          sync.RWMutex
	contents    []*domain.Content
	lowerTitles []string
	logger      *slog.Logger
}

// NewIndex creates an empty search index.
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{logger: logger}
}

// String returns the lowercase title at i (implements fuzzy.Source).
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of indexed contents (implements fuzzy.Source).
func (idx *Index) Len() int { return len(idx.contents) }

// Reindex replaces the index with the given contents.
func (idx *Index) Reindex(contents []*domain.Content) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.contents = append(idx.contents[:0], contents...)
	idx.lowerTitles = idx.lowerTitles[:0]
	for _, c := range contents {
		idx.lowerTitles = append(idx.lowerTitles, strings.ToLower(c.APIData.Title))
	}
	idx.logger.Debug("reindexed contents", "count", len(contents))
}

// Search returns contents ranked by fuzzy match quality. A normalized-fold
// prefilter keeps obviously unrelated titles out of the expensive ranking
// pass.
func (idx *Index) Search(query string) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.contents) == 0 {
		return nil
	}

	matches := fuzzy.FindFrom(query, idx)

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		title := idx.lowerTitles[m.Index]
		if !lfuzzy.MatchNormalizedFold(query, title) {
			continue
		}
		results = append(results, Result{
			Content:        idx.contents[m.Index],
			Score:          -m.Score, // sahilm scores higher-is-better
			MatchedIndexes: m.MatchedIndexes,
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score < results[j].Score })
	return results
}
