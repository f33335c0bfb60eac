// Package favorites persists the user's liked articles as one JSON blob in a
// key-value store. Articles are identified by URL.
package favorites

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/iadityasingh7/news/internal/kv"
	"github.com/iadityasingh7/news/internal/news"
)

// DefaultKey is the storage key holding the serialized list.
const DefaultKey = "likedNews"

type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	logger *log.Logger
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		key:    DefaultKey,
		logger: log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns the persisted favorites. Missing or corrupt data reads as an
// empty list.
func (s *Store) List() []news.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Contains reports whether an article with url is liked.
func (s *Store) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.load(), url) >= 0
}

// Add appends a unless an entry with the same URL exists, persists the full
// list and returns it.
func (s *Store) Add(a news.Article) []news.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	likes := s.load()
	if indexOf(likes, a.URL) < 0 {
		likes = append(likes, a)
	}
	s.save(likes)
	return clone(likes)
}

// Remove drops every entry with url, persists the list and returns it.
func (s *Store) Remove(url string) []news.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	likes := s.load()
	kept := likes[:0]
	for _, a := range likes {
		if a.URL != url {
			kept = append(kept, a)
		}
	}
	s.save(kept)
	return clone(kept)
}

// Clear empties the list by deleting its key.
func (s *Store) Clear() []news.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(s.key); err != nil {
		s.logger.Error("clearing favorites", "err", err)
	}
	return []news.Article{}
}

func (s *Store) load() []news.Article {
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("reading favorites", "err", &news.PersistenceReadError{Key: s.key, Err: err})
		return []news.Article{}
	}
	if !ok || len(data) == 0 {
		return []news.Article{}
	}

	var likes []news.Article
	if err := json.Unmarshal(data, &likes); err != nil {
		s.logger.Warn("discarding malformed favorites", "err", &news.PersistenceReadError{Key: s.key, Err: err})
		return []news.Article{}
	}
	if likes == nil {
		likes = []news.Article{}
	}
	return likes
}

// save rewrites the whole blob. Failures are logged, not returned: the
// in-memory result stays authoritative for the session.
func (s *Store) save(likes []news.Article) {
	if likes == nil {
		likes = []news.Article{}
	}
	data, err := json.Marshal(likes)
	if err != nil {
		s.logger.Error("encoding favorites", "err", err)
		return
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.logger.Error("writing favorites", "err", err)
	}
}

func indexOf(likes []news.Article, url string) int {
	for i, a := range likes {
		if a.URL == url {
			return i
		}
	}
	return -1
}

func clone(likes []news.Article) []news.Article {
	out := make([]news.Article, len(likes))
	copy(out, likes)
	return out
}
