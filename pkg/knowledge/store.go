package knowledge

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultDebounce = time.Second

// Store keeps one chunk index per page path. Notify is the content-changed
// signal and re-chunks after the debounce window; Replace re-chunks at once.
type Store struct {
	mu       sync.RWMutex
	indexes  map[string][]PageChunk
	pending  map[string]*time.Timer
	debounce time.Duration
	log      *logrus.Logger
	closed   bool
}

type StoreOption func(*Store)

func WithDebounce(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithLogger(logger *logrus.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.log = logger
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		indexes:  make(map[string][]PageChunk),
		pending:  make(map[string]*time.Timer),
		debounce: DefaultDebounce,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace rebuilds the index for path and returns the number of chunks kept.
func (s *Store) Replace(path, pageText string) int {
	path = NormalizePath(path)
	chunks := BuildIndex(pageText)

	s.mu.Lock()
	s.indexes[path] = chunks
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"path":   path,
		"chunks": len(chunks),
	}).Debug("Page knowledge indexed")

	return len(chunks)
}

func (s *Store) Notify(path, pageText string) {
	path = NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if t, ok := s.pending[path]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(s.debounce, func() {
		s.Replace(path, pageText)

		s.mu.Lock()
		if s.pending[path] == t {
			delete(s.pending, path)
		}
		s.mu.Unlock()
	})
	s.pending[path] = t
}

func (s *Store) Chunks(path string) []PageChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := s.indexes[NormalizePath(path)]
	out := make([]PageChunk, len(chunks))
	copy(out, chunks)
	return out
}

func (s *Store) Search(path, query string) (string, bool) {
	s.mu.RLock()
	chunks := s.indexes[NormalizePath(path)]
	s.mu.RUnlock()

	return Search(query, chunks)
}

// Close drops any reindex still waiting on its debounce window.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for path, t := range s.pending {
		t.Stop()
		delete(s.pending, path)
	}
}
