package internal

import (
	"sync"
	"time"

	"github.com/gnolang/fq/query"
)

// CacheEntry is a compiled format. Err is kept so that a broken format is
// reported again without being re-parsed.
type CacheEntry struct {
	Seq          *query.Sequence
	Err          error
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache holds compiled formats keyed by their source text. Entries live
// until InvalidateAll, which the engine calls when its rules are reloaded.
type Cache struct {
	entries map[string]CacheEntry
	mutex   sync.RWMutex
	opts    []query.Option
}

// NewCache returns an empty cache that compiles formats with opts.
func NewCache(opts ...query.Option) *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
		opts:    opts,
	}
}

// Compile returns the parsed sequence for format, parsing it on first use.
func (c *Cache) Compile(format string) (*query.Sequence, error) {
	if entry, ok := c.Get(format); ok {
		return entry.Seq, entry.Err
	}

	seq, err := query.Parse(format, c.opts...)
	if err != nil {
		seq = nil
	}
	c.Set(format, seq, err)
	return seq, err
}

func (c *Cache) Set(format string, seq *query.Sequence, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[format] = CacheEntry{
		Seq:          seq,
		Err:          err,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

func (c *Cache) Get(format string) (CacheEntry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[format]
	if !exists {
		return CacheEntry{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[format] = entry

	return entry, true
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
}
