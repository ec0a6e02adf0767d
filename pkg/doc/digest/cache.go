/*
Copyright Trustfabric Contributors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package digest

import (
	"sync"
	"sync/atomic"

	"github.com/bluele/gcache"
)

// digestCache is a bounded LRU map from input text to its multibase digest.
// The underlying gcache is thread-safe; the extra mutex only serializes
// inserts and clears so the entry counter stays exact.
type digestCache struct {
	gc   gcache.Cache
	mu   sync.Mutex
	size int64
	hits uint64
}

func newDigestCache(maxSize int) *digestCache {
	c := &digestCache{}

	c.gc = gcache.New(maxSize).
		LRU().
		EvictedFunc(func(interface{}, interface{}) {
			atomic.AddInt64(&c.size, -1)
		}).
		Build()

	return c
}

func (c *digestCache) get(key string) (string, bool) {
	v, err := c.gc.Get(key)
	if err != nil {
		return "", false
	}

	atomic.AddUint64(&c.hits, 1)

	return v.(string), true
}

func (c *digestCache) put(key, digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// concurrent callers computing the same input converge to one entry
	if _, err := c.gc.Get(key); err == nil {
		return
	}

	if err := c.gc.Set(key, digest); err != nil {
		return
	}

	atomic.AddInt64(&c.size, 1)
}

func (c *digestCache) len() int {
	n := atomic.LoadInt64(&c.size)
	if n < 0 {
		return 0
	}

	return int(n)
}

func (c *digestCache) hitCount() uint64 {
	return atomic.LoadUint64(&c.hits)
}

func (c *digestCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gc.Purge()
	atomic.StoreInt64(&c.size, 0)
}
