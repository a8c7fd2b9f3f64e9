package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchkeep/watchkeep/internal/domain"
)

func content(id, title string) *domain.Content {
	return &domain.Content{ID: id, APIData: domain.APIData{Title: title}}
}

func TestSearchRanksCloserMatchesFirst(t *testing.T) {
	idx := NewIndex(nil)
	idx.Reindex([]*domain.Content{
		content("1", "Mr. Robot"),
		content("2", "Robot Wars"),
		content("3", "Breaking Bad"),
	})

	results := idx.Search("robot")

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.NotEqual(t, "3", r.Content.ID)
	}
}

func TestSearchEmptyQueryAndIndex(t *testing.T) {
	idx := NewIndex(nil)
	assert.Nil(t, idx.Search("anything"))

	idx.Reindex([]*domain.Content{content("1", "Dark")})
	assert.Nil(t, idx.Search("   "))
}

func TestSearchCaseInsensitive(t *testing.T) {
	idx := NewIndex(nil)
	idx.Reindex([]*domain.Content{content("1", "Steins;Gate")})

	results := idx.Search("STEINS")
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Content.ID)
	assert.NotEmpty(t, results[0].MatchedIndexes)
}

func TestReindexReplacesContents(t *testing.T) {
	idx := NewIndex(nil)
	idx.Reindex([]*domain.Content{content("1", "Dark")})
	idx.Reindex([]*domain.Content{content("2", "Monster")})

	assert.Empty(t, idx.Search("dark"))
	assert.Len(t, idx.Search("monster"), 1)
}
