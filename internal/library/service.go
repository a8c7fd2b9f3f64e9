// Package library owns the hierarchical tracker state: pages, status
// buckets, and content records with their season/episode progress. All
// mutations are serialized behind one mutex and persisted through the
// document service after each change; cascade math lives in the pure
// progress package and metadata fetching in the resolver.
package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/watchkeep/watchkeep/internal/domain"
	"github.com/watchkeep/watchkeep/internal/persist"
)

// DocumentKey is the fixed key the tracker document is stored under.
const DocumentKey = "tracker"

// MetadataResolver is the slice of the resolver the library consumes.
type MetadataResolver interface {
	ResolveSeasons(ctx context.Context, content *domain.Content) domain.SeasonMap
	ResolveRelations(ctx context.Context, content *domain.Content) map[string][]domain.RelatedEntry
}

// Service orchestrates content CRUD, progress mutations, and metadata
// resolution over the persisted tracker document.
type Service struct {
	docs     *persist.Service[domain.ContentDocument]
	resolver MetadataResolver
	genres   domain.GenreLister
	logger   *slog.Logger

	mu  sync.Mutex
	now func() time.Time
}

// NewService creates a library service. resolver and genres may be nil;
// season/relations resolution and Kitsu genre enrichment are then skipped.
func NewService(docs *persist.Service[domain.ContentDocument], resolver MetadataResolver, genres domain.GenreLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		docs:     docs,
		resolver: resolver,
		genres:   genres,
		logger:   logger,
		now:      time.Now,
	}
}

// Invalidate drops the cached document; the next read reloads from storage.
func (s *Service) Invalidate() {
	s.docs.Invalidate()
}

// mutate runs fn against the current document under the service lock and
// saves through the immediate path when fn reports a change.
func (s *Service) mutate(fn func(doc *domain.ContentDocument) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.Data()
	if !fn(doc) {
		return false
	}
	s.docs.SaveNow(doc)
	return true
}

// mutateThrottled is mutate over the trailing-drop write path, for
// low-stakes edits like ratings and notes.
func (s *Service) mutateThrottled(entityKey string, fn func(doc *domain.ContentDocument) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs.Data()
	if !fn(doc) {
		return false
	}
	s.docs.SaveThrottled(entityKey, doc)
	return true
}

func (s *Service) timestamp() int64 {
	return s.now().Unix()
}
