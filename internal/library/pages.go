package library

import (
	"sort"

	"github.com/google/uuid"

	"github.com/watchkeep/watchkeep/internal/domain"
)

// GetPages returns all pages ordered by their display order.
func (s *Service) GetPages() []*domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.Data()
	out := make([]*domain.Page, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// GetStatuses returns the status buckets of a page ordered by display
// order. Unknown pages yield an empty slice.
func (s *Service) GetStatuses(pageID string) []*domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := s.docs.Data().Statuses[pageID]
	out := make([]*domain.Status, 0, len(buckets))
	for _, st := range buckets {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// AddPage stores a new page, assigning an id when the caller gave none.
func (s *Service) AddPage(page *domain.Page) *domain.Page {
	s.mutate(func(doc *domain.ContentDocument) bool {
		if page.ID == "" {
			page.ID = uuid.NewString()
		}
		doc.Pages[page.ID] = page
		return true
	})
	return page
}

// UpdatePage applies update to the page. Unknown ids are no-ops.
func (s *Service) UpdatePage(id string, update func(p *domain.Page)) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		p, ok := doc.Pages[id]
		if !ok {
			return false
		}
		update(p)
		return true
	})
}

// AddStatus stores a new custom status bucket on a page.
func (s *Service) AddStatus(status *domain.Status) *domain.Status {
	s.mutate(func(doc *domain.ContentDocument) bool {
		if status.ID == "" {
			status.ID = uuid.NewString()
		}
		if status.Type == "" {
			status.Type = domain.StatusCustom
		}
		if doc.Statuses[status.PageID] == nil {
			doc.Statuses[status.PageID] = make(map[string]*domain.Status)
		}
		doc.Statuses[status.PageID][status.ID] = status
		return true
	})
	return status
}

// RenameStatus writes a status title through the throttled path.
func (s *Service) RenameStatus(pageID, statusID, title string) bool {
	return s.mutateThrottled("status:"+statusID, func(doc *domain.ContentDocument) bool {
		st, ok := doc.Statuses[pageID][statusID]
		if !ok {
			return false
		}
		st.Title = title
		return true
	})
}

// DeleteStatus removes a status bucket. Content referencing it keeps its
// now-dangling statusId; the references are soft by design.
func (s *Service) DeleteStatus(pageID, statusID string) bool {
	return s.mutate(func(doc *domain.ContentDocument) bool {
		buckets, ok := doc.Statuses[pageID]
		if !ok {
			return false
		}
		if _, ok := buckets[statusID]; !ok {
			return false
		}
		delete(buckets, statusID)
		return true
	})
}
