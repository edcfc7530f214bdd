// Copyright 2026 Lucerna Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"container/list"
	"context"
	"log/slog"
	"sync"

	"github.com/lucerna/colloquy/ai"
	"github.com/lucerna/colloquy/chunker"
	"github.com/lucerna/colloquy/index"
)

// DefaultMaxEntries bounds the cache. At roughly a few hundred kilobytes per
// cached transcript index this keeps worst-case memory in the tens of
// megabytes.
const DefaultMaxEntries = 64

// Cache keeps one built Index per transcript id so repeated questions about
// the same transcript skip chunking and embedding. Eviction is
// least-recently-used.
type Cache struct {
	mu         sync.Mutex
	chunker    *chunker.Chunker
	embedder   ai.Embedder
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List
	logger     *slog.Logger
}

type cacheEntry struct {
	id    string
	index *index.Index
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMaxEntries sets how many transcript indexes the cache retains.
// Zero means unbounded; negative values fall back to the default.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n >= 0 {
			c.maxEntries = n
		}
	}
}

// WithCacheLogger sets a custom logger.
// Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCache creates a cache that builds indexes with the given chunker and
// embedder on miss.
func NewCache(ck *chunker.Chunker, embedder ai.Embedder, opts ...CacheOption) (*Cache, error) {
	if ck == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	c := &Cache{
		chunker:    ck,
		embedder:   embedder,
		maxEntries: DefaultMaxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "retrieval-cache")
	return c, nil
}

// GetOrBuild returns the cached index for the transcript id, building it from
// the contents on a miss. The lock is held across the build so concurrent
// callers asking for the same transcript never duplicate embedding work.
func (c *Cache) GetOrBuild(ctx context.Context, id, contents string) (*index.Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[id]; ok {
		c.order.MoveToFront(elem)
		c.logger.Debug("cache hit", "id", id)
		return elem.Value.(*cacheEntry).index, nil
	}

	c.logger.Debug("cache miss", "id", id)

	chunks := c.chunker.Chunk(contents)
	ix, err := index.Build(ctx, c.embedder, chunks, index.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	c.entries[id] = c.order.PushFront(&cacheEntry{id: id, index: ix})
	c.evict()

	return ix, nil
}

// Remove drops the cached index for the transcript id, if present. Call it
// after a transcript is deleted or its contents change.
func (c *Cache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[id]; ok {
		c.order.Remove(elem)
		delete(c.entries, id)
	}
}

// Len reports the number of cached indexes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict drops least-recently-used entries until the cache fits maxEntries.
// Caller must hold the lock.
func (c *Cache) evict() {
	if c.maxEntries == 0 {
		return
	}
	for len(c.entries) > c.maxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		entry := c.order.Remove(oldest).(*cacheEntry)
		delete(c.entries, entry.id)
		c.logger.Debug("evicted cached index", "id", entry.id)
	}
}
