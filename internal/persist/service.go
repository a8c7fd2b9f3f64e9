package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	// defaultFreshFor is how long a loaded snapshot is served without
	// re-reading durable storage.
	defaultFreshFor = 5 * time.Second

	// defaultThrottleWindow is the trailing-drop window for low-stakes writes.
	defaultThrottleWindow = 1 * time.Second

	// memoLimit caps the derived-query memo table; when exceeded the oldest
	// memoEvict entries are dropped.
	memoLimit = 50
	memoEvict = 25
)

// Service owns one persisted document: reads go through an in-memory
// snapshot with a freshness window, writes go through either the immediate
// or the throttled path. All cache state is instance state; construct one
// Service per document key.
type Service[T any] struct {
	store      *Store
	key        string
	defaultDoc func() *T
	clock      Clock
	logger     *slog.Logger

	freshFor time.Duration
	throttle *Throttle

	mu       sync.Mutex
	snapshot *T
	loadedAt time.Time
	epoch    uint64

	memoMu  sync.Mutex
	memo    map[string]memoEntry
	memoSeq uint64
}

type memoEntry struct {
	value any
	seq   uint64
}

// Option configures a Service.
type Option[T any] func(*Service[T])

// WithClock injects a clock for deterministic tests.
func WithClock[T any](clock Clock) Option[T] {
	return func(s *Service[T]) { s.clock = clock }
}

// WithFreshness overrides the snapshot freshness window.
func WithFreshness[T any](d time.Duration) Option[T] {
	return func(s *Service[T]) { s.freshFor = d }
}

// WithThrottleWindow overrides the throttled-write window.
func WithThrottleWindow[T any](d time.Duration) Option[T] {
	return func(s *Service[T]) { s.throttle = NewThrottle(d, s.clock) }
}

// NewService creates a Service for the document under key. defaultDoc
// supplies the bundled document used when storage is empty or corrupt.
func NewService[T any](store *Store, key string, defaultDoc func() *T, logger *slog.Logger, opts ...Option[T]) *Service[T] {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service[T]{
		store:      store,
		key:        key,
		defaultDoc: defaultDoc,
		clock:      SystemClock{},
		logger:     logger,
		freshFor:   defaultFreshFor,
		memo:       make(map[string]memoEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.throttle == nil {
		s.throttle = NewThrottle(defaultThrottleWindow, s.clock)
	}
	return s
}

// Data returns the current document. A snapshot younger than the freshness
// window is returned as-is; otherwise the document is reloaded from durable
// storage, falling back to the bundled default when missing or unreadable.
func (s *Service[T]) Data() *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if s.snapshot != nil && now.Sub(s.loadedAt) < s.freshFor {
		return s.snapshot
	}
	return s.reloadLocked(now)
}

// SaveNow serializes and durably writes the document, then refreshes the
// snapshot. The snapshot is refreshed even when the durable write fails:
// memory stays ahead of disk rather than losing the mutation.
func (s *Service[T]) SaveNow(doc *T) {
	data, err := json.Marshal(doc)
	if err != nil {
		s.logger.Error("failed to serialize document", "key", s.key, "error", err)
		s.refresh(doc)
		return
	}

	if err := s.store.Put(s.key, data); err != nil {
		s.logger.Error("failed to persist document", "key", s.key, "error", err)
	}
	s.refresh(doc)
}

// SaveThrottled writes the document through the trailing-drop throttle.
// The first call for entityKey inside the window writes immediately; later
// calls in the window are dropped silently and only update the snapshot.
// Returns whether the durable write ran.
func (s *Service[T]) SaveThrottled(entityKey string, doc *T) bool {
	if !s.throttle.Allow(entityKey) {
		s.refresh(doc)
		s.logger.Debug("throttled write dropped", "key", s.key, "entity", entityKey)
		return false
	}
	s.SaveNow(doc)
	return true
}

// Invalidate discards the snapshot and the memo table; the next read
// reloads from durable storage.
func (s *Service[T]) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.loadedAt = time.Time{}
	s.epoch++
	s.mu.Unlock()
	s.clearMemo()
}

// ForceReload bypasses the freshness window and reloads immediately.
func (s *Service[T]) ForceReload() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(s.clock.Now())
}

// Epoch increments on every reload and write; memoized results are scoped
// to it so stale answers die with their snapshot.
func (s *Service[T]) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Memoize returns the cached result for key at the current epoch, invoking
// compute on a miss. The table is bounded: past memoLimit entries the
// oldest half is evicted.
func (s *Service[T]) Memoize(key string, compute func(doc *T) any) any {
	doc := s.Data()
	epochKey := s.memoKey(key)

	s.memoMu.Lock()
	if e, ok := s.memo[epochKey]; ok {
		s.memoMu.Unlock()
		return e.value
	}
	s.memoMu.Unlock()

	value := compute(doc)

	s.memoMu.Lock()
	s.memoSeq++
	s.memo[epochKey] = memoEntry{value: value, seq: s.memoSeq}
	if len(s.memo) > memoLimit {
		s.evictOldestLocked()
	}
	s.memoMu.Unlock()

	return value
}

// MemoLen reports the current memo table size.
func (s *Service[T]) MemoLen() int {
	s.memoMu.Lock()
	defer s.memoMu.Unlock()
	return len(s.memo)
}

// --- internals ---

func (s *Service[T]) reloadLocked(now time.Time) *T {
	doc := s.defaultDoc()

	if data, ok := s.store.Get(s.key); ok {
		if err := json.Unmarshal(data, doc); err != nil {
			s.logger.Warn("stored document unreadable, using default", "key", s.key, "error", err)
			doc = s.defaultDoc()
		}
	}

	s.snapshot = doc
	s.loadedAt = now
	s.epoch++
	return doc
}

func (s *Service[T]) refresh(doc *T) {
	s.mu.Lock()
	s.snapshot = doc
	s.loadedAt = s.clock.Now()
	s.epoch++
	s.mu.Unlock()
	s.clearMemo()
}

func (s *Service[T]) memoKey(key string) string {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()
	return fmt.Sprintf("%d:%s", epoch, key)
}

func (s *Service[T]) clearMemo() {
	s.memoMu.Lock()
	s.memo = make(map[string]memoEntry)
	s.memoMu.Unlock()
}

func (s *Service[T]) evictOldestLocked() {
	type aged struct {
		key string
		seq uint64
	}
	entries := make([]aged, 0, len(s.memo))
	for k, e := range s.memo {
		entries = append(entries, aged{key: k, seq: e.seq})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	for i := 0; i < memoEvict && i < len(entries); i++ {
		delete(s.memo, entries[i].key)
	}
}
