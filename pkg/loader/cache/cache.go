// Package cache adds an explicit, manually invalidated cache in front of a
// loader.Source. Without it every request reads fresh files.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/guidechat/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// Source caches successful reads of the wrapped source by file name.
// Failed reads are never cached, and a read that overlaps an invalidation is
// returned to its callers but not stored.
type Source struct {
	source loader.Source

	cache      map[string][]byte
	loading    map[string]int
	generation uint64
	cacheMu    sync.RWMutex
	group      singleflight.Group
}

// New wraps source.
func New(source loader.Source) *Source {
	return &Source{
		source: source,
		cache:   make(map[string][]byte),
		loading: make(map[string]int),
	}
}

// ReadFile returns the cached content of name, loading it once on a miss.
// Concurrent misses share one read, which is not cancelled when a single
// caller gives up; each caller still returns when its own ctx is done.
// The returned slice is shared and must not be modified.
func (s *Source) ReadFile(ctx context.Context, name string) ([]byte, error) {
	s.cacheMu.RLock()
	if cached, ok := s.cache[name]; ok {
		s.cacheMu.RUnlock()
		return cached, nil
	}
	s.cacheMu.RUnlock()

	ch := s.group.DoChan(name, func() (any, error) {
		s.cacheMu.Lock()
		if cached, ok := s.cache[name]; ok {
			s.cacheMu.Unlock()
			return cached, nil
		}
		generation := s.generation
		s.loading[name]++
		s.cacheMu.Unlock()

		content, err := s.source.ReadFile(context.WithoutCancel(ctx), name)

		s.cacheMu.Lock()
		defer s.cacheMu.Unlock()
		if s.loading[name]--; s.loading[name] == 0 {
			delete(s.loading, name)
		}
		if err != nil {
			return nil, err
		}
		if s.generation == generation {
			s.cache[name] = content
		}

		return content, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Invalidate drops the cached content of the given names. Reads still in
// flight are not stored.
func (s *Source) Invalidate(names ...string) {
	s.cacheMu.Lock()
	s.generation++
	for _, name := range names {
		delete(s.cache, name)
		s.group.Forget(name)
	}
	s.cacheMu.Unlock()
}

// InvalidateAll empties the cache.
func (s *Source) InvalidateAll() {
	s.cacheMu.Lock()
	s.generation++
	for name := range s.loading {
		s.group.Forget(name)
	}
	s.cache = make(map[string][]byte)
	s.cacheMu.Unlock()
}

// List is passed through uncached.
func (s *Source) List(ctx context.Context) ([]string, error) {
	lister, ok := s.source.(loader.Lister)
	if !ok {
		return nil, errors.ErrUnsupported
	}
	return lister.List(ctx)
}

var (
	_ loader.Source = (*Source)(nil)
	_ loader.Lister = (*Source)(nil)
)
