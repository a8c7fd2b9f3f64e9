// Package layout owns the free-form slider lists that back the alternate
// list-organization feature. It is structurally parallel to the library
// store but over its own persisted document, and it routes writes by
// stakes: structural changes save immediately, cosmetic edits go through
// the trailing-drop throttle.
package layout

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/persist"
)

// DocumentKey is the fixed key the layout document is stored under.
const DocumentKey = "layout"

// Service orchestrates slider CRUD over the persisted layout document.
type Service struct {
	docs   *persist.Service[domain.LayoutDocument]
	logger *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a layout service.
func NewService(docs *persist.Service[domain.LayoutDocument], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		docs:   docs,
		logger: logger,
		now:    time.Now,
	}
}

// Invalidate drops the cached document; the next read reloads from storage.
func (s *Service) Invalidate() {
	s.docs.Invalidate()
}

// GetSliders returns the sliders of a page ordered by display order.
func (s *Service) GetSliders(page string) []*domain.Slider {
	s.mu.Lock()
	defer s.mu.Unlock()

	lp := s.docs.Data().Pages[page]
	if lp == nil {
		return nil
	}
	out := append([]*domain.Slider(nil), lp.Sliders...)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// GetSlider returns one slider of a page by id, or domain.ErrSliderNotFound
// when the page has no such slider.
func (s *Service) GetSlider(page, sliderID string) (*domain.Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := findSlider(s.docs.Data(), page, sliderID)
	if sl == nil {
		return nil, domain.ErrSliderNotFound
	}
	return sl, nil
}

// Settings returns the persisted layout settings.
func (s *Service) Settings() domain.LayoutSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs.Data().Settings
}

// AddSlider stores a new slider on a page. Structural change: saved
// immediately.
func (s *Service) AddSlider(page string, slider *domain.Slider) *domain.Slider {
	s.mutateNow(func(doc *domain.LayoutDocument) bool {
		if slider.ID == "" {
			slider.ID = uuid.NewString()
		}
		slider.Page = page
		slider.CreatedAt = s.now().Unix()
		if slider.Items == nil {
			slider.Items = []domain.SliderItem{}
		}

		lp := doc.Pages[page]
		if lp == nil {
			lp = &domain.LayoutPage{}
			doc.Pages[page] = lp
		}
		slider.Order = len(lp.Sliders)
		lp.Sliders = append(lp.Sliders, slider)
		return true
	})
	s.logger.Info("added slider", "page", page, "id", slider.ID, "title", slider.Title)
	return slider
}

// DeleteSlider removes a slider. Structural change: saved immediately.
func (s *Service) DeleteSlider(page, sliderID string) bool {
	ok := s.mutateNow(func(doc *domain.LayoutDocument) bool {
		lp := doc.Pages[page]
		if lp == nil {
			return false
		}
		for i, sl := range lp.Sliders {
			if sl.ID == sliderID {
				lp.Sliders = append(lp.Sliders[:i], lp.Sliders[i+1:]...)
				return true
			}
		}
		return false
	})
	if ok {
		s.logger.Info("deleted slider", "page", page, "id", sliderID)
	}
	return ok
}

// RenameSlider writes a slider title through the throttled path.
func (s *Service) RenameSlider(page, sliderID, title string) bool {
	return s.mutateThrottled("slider:"+sliderID, func(doc *domain.LayoutDocument) bool {
		sl := findSlider(doc, page, sliderID)
		if sl == nil {
			return false
		}
		sl.Title = title
		return true
	})
}

// SetSliderVisibility toggles visibility through the throttled path.
func (s *Service) SetSliderVisibility(page, sliderID string, visible bool) bool {
	return s.mutateThrottled("slider:"+sliderID, func(doc *domain.LayoutDocument) bool {
		sl := findSlider(doc, page, sliderID)
		if sl == nil {
			return false
		}
		sl.Visible = visible
		return true
	})
}

// ReorderSliders rewrites the display order of a page's sliders to match
// orderedIDs through the throttled path. IDs missing from the list keep
// their relative position after the listed ones.
func (s *Service) ReorderSliders(page string, orderedIDs []string) bool {
	return s.mutateThrottled("page:"+page, func(doc *domain.LayoutDocument) bool {
		lp := doc.Pages[page]
		if lp == nil {
			return false
		}
		rank := make(map[string]int, len(orderedIDs))
		for i, id := range orderedIDs {
			rank[id] = i
		}
		for _, sl := range lp.Sliders {
			if r, ok := rank[sl.ID]; ok {
				sl.Order = r
			} else {
				sl.Order += len(orderedIDs)
			}
		}
		return true
	})
}

// AddItemToSlider appends a content reference to a slider. Structural
// change: saved immediately.
func (s *Service) AddItemToSlider(page, sliderID string, item domain.SliderItem) bool {
	return s.mutateNow(func(doc *domain.LayoutDocument) bool {
		sl := findSlider(doc, page, sliderID)
		if sl == nil {
			return false
		}
		if item.AddedDate == 0 {
			item.AddedDate = s.now().Unix()
		}
		sl.Items = append(sl.Items, item)
		return true
	})
}

// RemoveItemFromSlider removes a content reference. Structural change:
// saved immediately.
func (s *Service) RemoveItemFromSlider(page, sliderID, contentID string) bool {
	return s.mutateNow(func(doc *domain.LayoutDocument) bool {
		sl := findSlider(doc, page, sliderID)
		if sl == nil {
			return false
		}
		for i, it := range sl.Items {
			if it.ContentID == contentID {
				sl.Items = append(sl.Items[:i], sl.Items[i+1:]...)
				return true
			}
		}
		return false
	})
}

// MoveSliderItem moves a content reference between positions within a
// slider. Structural change: saved immediately.
func (s *Service) MoveSliderItem(page, sliderID string, from, to int) bool {
	return s.mutateNow(func(doc *domain.LayoutDocument) bool {
		sl := findSlider(doc, page, sliderID)
		if sl == nil {
			return false
		}
		if from < 0 || from >= len(sl.Items) || to < 0 || to >= len(sl.Items) {
			return false
		}
		item := sl.Items[from]
		sl.Items = append(sl.Items[:from], sl.Items[from+1:]...)
		sl.Items = append(sl.Items[:to], append([]domain.SliderItem{item}, sl.Items[to:]...)...)
		return true
	})
}

// UpdateSettings replaces the layout settings. Settings changes are
// structurally significant: saved immediately.
func (s *Service) UpdateSettings(settings domain.LayoutSettings) {
	s.mutateNow(func(doc *domain.LayoutDocument) bool {
		doc.Settings = settings
		return true
	})
}

// SlidersByType returns the ids of a page's sliders of the given type,
// memoized against the current document epoch.
func (s *Service) SlidersByType(page, sliderType string) []string {
	result := s.docs.Memoize("type:"+page+":"+sliderType, func(doc *domain.LayoutDocument) any {
		lp := doc.Pages[page]
		if lp == nil {
			return []string(nil)
		}
		var ids []string
		for _, sl := range lp.Sliders {
			if sl.Type == sliderType {
				ids = append(ids, sl.ID)
			}
		}
		sort.Strings(ids)
		return ids
	})
	ids, _ := result.([]string)
	return ids
}

// --- internals ---

func (s *Service) mutateNow(fn func(doc *domain.LayoutDocument) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.Data()
	if !fn(doc) {
		return false
	}
	s.docs.SaveNow(doc)
	return true
}

func (s *Service) mutateThrottled(entityKey string, fn func(doc *domain.LayoutDocument) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.Data()
	if !fn(doc) {
		return false
	}
	s.docs.SaveThrottled(entityKey, doc)
	return true
}

func findSlider(doc *domain.LayoutDocument, page, sliderID string) *domain.Slider {
	lp := doc.Pages[page]
	if lp == nil {
		return nil
	}
	for _, sl := range lp.Sliders {
		if sl.ID == sliderID {
			return sl
		}
	}
	return nil
}
