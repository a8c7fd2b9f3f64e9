package library

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/search"
)

// AddContent stores a new content record unless an existing record already
// carries the same TMDB or Kitsu id. A duplicate add creates nothing and
// returns domain.ErrDuplicateContent; the store is left untouched.
//
// Content identified only by a Kitsu id is enriched asynchronously: a
// one-shot genre lookup fills apiData.genres when it resolves, and a
// failed lookup simply leaves them empty.
func (s *Service) AddContent(ctx context.Context, content *domain.Content) (*domain.Content, error) {
	var added *domain.Content
	var dup, enrich bool
	var addedID, title string
	var kitsuID int64

	s.mutate(func(doc *domain.ContentDocument) bool {
		for _, existing := range doc.Contents {
			if content.IsDuplicateOf(existing) {
				s.logger.Debug("duplicate content dropped",
					"title", content.APIData.Title, "existingID", existing.ID)
				dup = true
				return false
			}
		}

		if content.ID == "" {
			content.ID = uuid.NewString()
		}
		ts := s.timestamp()
		content.AddedAt = ts
		content.UpdatedAt = ts

		doc.Contents[content.ID] = content
		added = content

		// Read once here: the record belongs to the document after the
		// lock is released.
		addedID = content.ID
		title = content.APIData.Title
		kitsuID = content.APIData.KitsuID
		enrich = content.APIData.KitsuOnly() && len(content.APIData.Genres) == 0
		return true
	})

	if dup {
		return nil, domain.ErrDuplicateContent
	}

	if enrich && s.genres != nil {
		go s.enrichGenres(addedID, kitsuID)
	}

	s.logger.Info("added content", "id", addedID, "title", title)
	return added, nil
}

// enrichGenres is the fire-and-forget Kitsu genre lookup for freshly added
// content. It runs without the caller's context; teardown does not abort it.
func (s *Service) enrichGenres(contentID string, kitsuID int64) {
	genres, err := s.genres.GetGenres(context.Background(), kitsuID)
	if err != nil {
		s.logger.Debug("genre enrichment failed", "contentID", contentID, "error", err)
		return
	}
	if len(genres) == 0 {
		return
	}

	s.mutate(func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[contentID]
		if !ok {
			return false // deleted while the lookup was in flight
		}
		c.APIData.Genres = genres
		return true
	})
}

// UpdateContent applies update to the content record and bumps its
// timestamp. Returns false when the id is unknown.
func (s *Service) UpdateContent(id string, update func(c *domain.Content)) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[id]
		if !ok {
			return false
		}
		update(c)
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// SetUserRating writes the user's rating through the throttled path.
func (s *Service) SetUserRating(id string, rating float64) bool {
	return s.mutateThrottled("content:"+id, func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[id]
		if !ok {
			return false
		}
		c.UserRating = rating
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// SetNotes writes the user's notes through the throttled path.
func (s *Service) SetNotes(id string, notes string) bool {
	return s.mutateThrottled("content:"+id, func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[id]
		if !ok {
			return false
		}
		c.Notes = notes
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// MoveContentToStatus moves the content into another status bucket, and
// another page when targetPage is non-empty. The references are soft; no
// existence check is made against pages or statuses.
func (s *Service) MoveContentToStatus(id, statusID, targetPage string) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		c, ok := doc.Contents[id]
		if !ok {
			return false
		}
		c.StatusID = statusID
		if targetPage != "" {
			c.PageID = targetPage
		}
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// MoveContentBetweenStatuses resolves the content by id first, then by a
// heuristic match on title plus any shared provider id, and moves it from
// fromStatus to toStatus. Content not currently in fromStatus is left
// alone. Returns whether a record was moved.
func (s *Service) MoveContentBetweenStatuses(ref *domain.Content, fromStatus, toStatus, targetPage string) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		c := doc.Contents[ref.ID]
		if c == nil {
			c = findByHeuristic(doc, ref)
		}
		if c == nil || c.StatusID != fromStatus {
			return false
		}
		c.StatusID = toStatus
		if targetPage != "" {
			c.PageID = targetPage
		}
		c.UpdatedAt = s.timestamp()
		return true
	})
}

// findByHeuristic matches on equal title (case-insensitive) plus a shared
// provider id in any namespace.
func findByHeuristic(doc *domain.ContentDocument, ref *domain.Content) *domain.Content {
	title := strings.ToLower(ref.APIData.Title)
	for _, c := range doc.Contents {
		if strings.ToLower(c.APIData.Title) == title && c.APIData.SharesProviderID(ref.APIData) {
			return c
		}
	}
	return nil
}

// DeleteContent removes the record unconditionally. Unknown ids are no-ops.
func (s *Service) DeleteContent(id string) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		if _, ok := doc.Contents[id]; !ok {
			return false
		}
		delete(doc.Contents, id)
		return true
	})
}

// DeleteMultipleContents removes every listed id, returning how many
// records were actually deleted.
func (s *Service) DeleteMultipleContents(ids []string) int {
	deleted := 0
	s.mutate(func(doc *domain.ContentDocument) bool {
		for _, id := range ids {
			if _, ok := doc.Contents[id]; ok {
				delete(doc.Contents, id)
				deleted++
			}
		}
		return deleted > 0
	})
	return deleted
}

// GetContentByID returns the content record, or domain.ErrContentNotFound
// when the id is unknown.
func (s *Service) GetContentByID(id string) (*domain.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs.Data().Contents[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return c, nil
}

// GetContentsByPageAndStatus returns the contents of one status bucket,
// ordered by when they were added.
func (s *Service) GetContentsByPageAndStatus(pageID, statusID string) []*domain.Content {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Content
	for _, c := range s.docs.Data().Contents {
		if c.PageID == pageID && c.StatusID == statusID {
			out = append(out, c)
		}
	}
	sortByAddedAt(out)
	return out
}

// SearchContents returns contents matching a case-insensitive substring
// query over title, original title, and overview, optionally restricted to
// one page. An empty query matches nothing.
func (s *Service) SearchContents(query, pageID string) []*domain.Content {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Content
	for _, c := range s.docs.Data().Contents {
		if pageID != "" && c.PageID != pageID {
			continue
		}
		if c.MatchesQuery(query) {
			out = append(out, c)
		}
	}
	sortByAddedAt(out)
	return out
}

// ContentsByGenre returns the ids of contents carrying the genre, memoized
// against the current document epoch.
func (s *Service) ContentsByGenre(genre string) []string {
	result := s.docs.Memoize("genre:"+strings.ToLower(genre), func(doc *domain.ContentDocument) any {
		var ids []string
		for id, c := range doc.Contents {
			for _, g := range c.APIData.Genres {
				if strings.EqualFold(g, genre) {
					ids = append(ids, id)
					break
				}
			}
		}
		sort.Strings(ids)
		return ids
	})
	ids, _ := result.([]string)
	return ids
}

// RankedSearch returns contents matching the query by fuzzy rank, best
// match first. The index is rebuilt lazily whenever the document changes.
func (s *Service) RankedSearch(query string) []search.Result {
	result := s.docs.Memoize("searchindex", func(doc *domain.ContentDocument) any {
		idx := search.NewIndex(s.logger)
		contents := make([]*domain.Content, 0, len(doc.Contents))
		for _, c := range doc.Contents {
			contents = append(contents, c)
		}
		sortByAddedAt(contents)
		idx.Reindex(contents)
		return idx
	})
	idx, ok := result.(*search.Index)
	if !ok {
		return nil
	}
	return idx.Search(query)
}

// ContentCount returns the number of tracked contents.
func (s *Service) ContentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs.Data().Contents)
}

func sortByAddedAt(contents []*domain.Content) {
	sort.Slice(contents, func(i, j int) bool {
		if contents[i].AddedAt != contents[j].AddedAt {
			return contents[i].AddedAt < contents[j].AddedAt
		}
		return contents[i].ID < contents[j].ID
	})
}
