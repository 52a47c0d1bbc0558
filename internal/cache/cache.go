// Package cache holds the resource cache: external handles (a pooled DB
// connection, a loaded model, an IMAP session) that are expensive to open
// and safe to share across nodes, kept alive until idle past a GC
// threshold rather than closed after every use. A run.Manager owns one
// cache for all of its runs; entries are not released when a run ends,
// only by GC or explicit eviction.
package cache

import (
	"database/sql"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Kind discriminates the closed set of cacheable resource shapes. Using a
// tagged union of concrete types here — rather than storing
// interface{}/any and type-asserting at each call site — means a caller
// that fetches the wrong kind gets a typed zero value back instead of a
// runtime panic on a bad assertion.
type Kind int

const (
	KindDB Kind = iota
	KindModel
	KindIMAPSession
)

// CachedDB wraps a pooled SQL connection, the lib/pq-backed resource this
// cache exists to demonstrate GC for.
type CachedDB struct {
	DB     *sql.DB
	Driver string
	DSN    string
}

// CachedModel stands in for a loaded ML/embedding model handle; concrete
// model backends are a pluggable external concern, so this only carries
// the identity and close hook a real implementation would fill in.
type CachedModel struct {
	ModelID string
	Handle  interface{}
	Close   func() error
}

// ImapSessionCache stands in for a live IMAP session handle, mirroring
// CachedModel's shape for a different external resource.
type ImapSessionCache struct {
	Account string
	Handle  interface{}
	Close   func() error
}

// entry is one cached resource plus its idle-eviction bookkeeping.
type entry struct {
	kind       Kind
	db         *CachedDB
	model      *CachedModel
	imap       *ImapSessionCache
	lastAccess time.Time
}

// ResourceCache is a registry of external resource handles, keyed by an
// arbitrary caller-chosen key (e.g. a DSN or account name) so the same
// resource opened by two different nodes is shared rather than
// duplicated, within a run and across the runs of one run.Manager.
type ResourceCache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty resource cache.
func New() *ResourceCache {
	return &ResourceCache{entries: make(map[string]*entry)}
}

// PutDB registers a cached DB handle under key.
func (c *ResourceCache) PutDB(key string, v *CachedDB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{kind: KindDB, db: v, lastAccess: time.Now()}
}

// GetDB retrieves a previously cached DB handle, refreshing its idle
// timer.
func (c *ResourceCache) GetDB(key string) (*CachedDB, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.kind != KindDB {
		return nil, false
	}
	e.lastAccess = time.Now()
	return e.db, true
}

// PutModel registers a cached model handle under key.
func (c *ResourceCache) PutModel(key string, v *CachedModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{kind: KindModel, model: v, lastAccess: time.Now()}
}

// GetModel retrieves a previously cached model handle.
func (c *ResourceCache) GetModel(key string) (*CachedModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.kind != KindModel {
		return nil, false
	}
	e.lastAccess = time.Now()
	return e.model, true
}

// PutIMAPSession registers a cached IMAP session handle under key.
func (c *ResourceCache) PutIMAPSession(key string, v *ImapSessionCache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{kind: KindIMAPSession, imap: v, lastAccess: time.Now()}
}

// GetIMAPSession retrieves a previously cached IMAP session handle.
func (c *ResourceCache) GetIMAPSession(key string) (*ImapSessionCache, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.kind != KindIMAPSession {
		return nil, false
	}
	e.lastAccess = time.Now()
	return e.imap, true
}

// Evict closes and removes every entry idle longer than maxIdle, returning
// how many were evicted.
func (c *ResourceCache) Evict(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	now := time.Now()
	for key, e := range c.entries {
		if now.Sub(e.lastAccess) < maxIdle {
			continue
		}
		switch e.kind {
		case KindDB:
			if e.db != nil && e.db.DB != nil {
				_ = e.db.DB.Close()
			}
		case KindModel:
			if e.model != nil && e.model.Close != nil {
				_ = e.model.Close()
			}
		case KindIMAPSession:
			if e.imap != nil && e.imap.Close != nil {
				_ = e.imap.Close()
			}
		}
		delete(c.entries, key)
		evicted++
	}
	return evicted
}

// Len reports the current entry count, mainly for tests.
func (c *ResourceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DefaultIdleThreshold is how long a cached resource may sit unused before
// GC reclaims it.
const DefaultIdleThreshold = 300 * time.Second

// GC runs Evict on a ticker until stop is closed, the background
// counterpart to the synchronous Evict call a test can invoke directly.
func (c *ResourceCache) GC(interval, idleThreshold time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if idleThreshold <= 0 {
		idleThreshold = DefaultIdleThreshold
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Evict(idleThreshold)
		}
	}
}
