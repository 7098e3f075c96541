// SPDX-FileCopyrightText: 2026 The Pacvista Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import "github.com/mlundqv/pacvista/internal/domain"

// defaultCacheSize bounds the AUR search memo. The original design
// grew without bound per unique term; a small LRU keeps a session's
// recent terms instant without hoarding every query ever typed.
const defaultCacheSize = 32

// searchCache memoizes AUR search hits per exact search term.
type searchCache struct {
	capacity int
	entries  map[string][]domain.PackageRecord
	order    []string // least recently used first
}

func newSearchCache(capacity int) *searchCache {
	if capacity <= 0 {
		capacity = defaultCacheSize
	}

	return &searchCache{
		capacity: capacity,
		entries:  make(map[string][]domain.PackageRecord, capacity),
	}
}

// get returns the memoized hits for a term and refreshes its recency.
func (c *searchCache) get(term string) ([]domain.PackageRecord, bool) {
	hits, ok := c.entries[term]
	if ok {
		c.touch(term)
	}

	return hits, ok
}

// put stores hits for a term, evicting the least recently used term
// once the bound is reached.
func (c *searchCache) put(term string, hits []domain.PackageRecord) {
	if _, exists := c.entries[term]; !exists && len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[term] = hits
	c.touch(term)
}

func (c *searchCache) touch(term string) {
	for i, existing := range c.order {
		if existing == term {
			c.order = append(c.order[:i], c.order[i+1:]...)

			break
		}
	}

	c.order = append(c.order, term)
}

func (c *searchCache) len() int {
	return len(c.entries)
}
