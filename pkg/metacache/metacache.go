/*
Copyright 2024 The svnbridge Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metacache implements the Metadata Repository Cache (spec.md
// §4.1): a revision-partitioned, single-flight-populated cache mapping
// (revision, path, recursion) to CVCS item listings, with negative-cache
// entries for known-absent parents. It is grounded on the teacher's
// pkg/cacher.CachingFetcher, which solves the same "cache-or-fault-in,
// with concurrent callers joining the in-flight fetch" shape for blob
// bytes instead of directory listings.
package metacache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go4.org/syncutil/singleflight"

	"svnbridge.example.com/svnbridge/pkg/cvcs"
	"svnbridge.example.com/svnbridge/pkg/item"
	"svnbridge.example.com/svnbridge/pkg/pathutil"
)

// Key identifies one cache entry: (revision, server-path, recursion-mode).
// The cache key's full identity per spec.md §3 also includes server URL
// and user identity, but those are properties of the Cache instance (one
// Cache per authenticated upstream connection), not of Key.
type Key struct {
	Revision  cvcs.Revision
	Path      string
	Recursion cvcs.Recursion
}

func (k Key) populationKey() string {
	return fmt.Sprintf("%d\x00%s", k.Revision, k.Path)
}

// negative entry: a sentinel meaning "path is known not to exist at rev".
type sentinel struct{}

// Cache is a process-wide, thread-safe metadata listing cache. Entries are
// immutable once inserted; the only invalidation path is Clear.
type Cache struct {
	client cvcs.Client
	policy pathutil.CasePolicy

	mu       sync.RWMutex
	entries  map[Key][]*item.Item
	negative map[Key]sentinel

	g singleflight.Group

	hits      prometheus.Counter
	misses    prometheus.Counter
	negHits   prometheus.Counter
}

// New returns a Cache backed by client. If reg is non-nil, hit/miss/
// negative-hit counters are registered on it (spec.md §1 excludes
// performance counters as an external collaborator, but instrumenting the
// cache itself is an ambient concern the bridge still carries — see
// SPEC_FULL.md §4.1).
func New(client cvcs.Client, policy pathutil.CasePolicy, reg prometheus.Registerer) *Cache {
	c := &Cache{
		client:   client,
		policy:   policy,
		entries:  make(map[Key][]*item.Item),
		negative: make(map[Key]sentinel),
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svnbridge_metacache_hits_total",
			Help: "Metadata cache lookups served from an already-populated entry.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svnbridge_metacache_misses_total",
			Help: "Metadata cache lookups that triggered a CVCS population fetch.",
		}),
		negHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "svnbridge_metacache_negative_hits_total",
			Help: "Metadata cache lookups served from a negative (known-absent) entry.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.hits, c.misses, c.negHits)
	}
	return c
}

// Clear drops every cache entry, positive and negative.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key][]*item.Item)
	c.negative = make(map[Key]sentinel)
}

// IsCached reports whether path, or any ancestor of path, has already been
// populated at rev (under any recursion mode, since population always
// fans listings out to every level per spec.md §4.1 step 4).
func (c *Cache) IsCached(rev cvcs.Revision, path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for p := path; ; p = pathutil.Parent(p) {
		if c.hasAnyLocked(rev, p) {
			return true
		}
		if p == "" {
			return false
		}
	}
}

func (c *Cache) hasAnyLocked(rev cvcs.Revision, path string) bool {
	for _, r := range []cvcs.Recursion{cvcs.RecursionNone, cvcs.RecursionOneLevel, cvcs.RecursionFull} {
		k := Key{Revision: rev, Path: path, Recursion: r}
		if _, ok := c.entries[k]; ok {
			return true
		}
		if _, ok := c.negative[k]; ok {
			return true
		}
	}
	return false
}

// QueryItems returns the items under path at rev, sorted ascending by full
// path. A none-recursion query for the server root bypasses the cache
// entirely and goes straight to the CVCS (spec.md §4.1 "Special-case"):
// the root listing is too large, and too frequently needed in narrow
// form, to benefit from full-depth caching.
func (c *Cache) QueryItems(ctx context.Context, rev cvcs.Revision, path string, recursion cvcs.Recursion) ([]*item.Item, error) {
	if path == "" && recursion == cvcs.RecursionNone {
		return c.client.QueryItems(ctx, path, recursion, rev)
	}
	return c.QueryItemsByPaths(ctx, rev, []string{path}, recursion)
}

// QueryItemsByPaths is the array variant: the union of per-path calls.
// Each path is looked up, and populated on a miss, in turn; population
// fetches are not batched.
func (c *Cache) QueryItemsByPaths(ctx context.Context, rev cvcs.Revision, paths []string, recursion cvcs.Recursion) ([]*item.Item, error) {
	seen := make(map[string]bool)
	var out []*item.Item
	for _, path := range paths {
		items, err := c.queryOne(ctx, rev, path, recursion)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if seen[it.Name] {
				continue
			}
			seen[it.Name] = true
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// QueryItemsByID passes through to the CVCS directly; id-based lookups
// aren't addressed by the (revision, path, recursion) cache key space.
func (c *Cache) QueryItemsByID(ctx context.Context, rev cvcs.Revision, ids []int64) ([]*item.Item, error) {
	return c.client.QueryItemsByID(ctx, ids, rev)
}

func (c *Cache) queryOne(ctx context.Context, rev cvcs.Revision, path string, recursion cvcs.Recursion) ([]*item.Item, error) {
	key := Key{Revision: rev, Path: path, Recursion: recursion}

	if items, ok := c.lookupLocked(key); ok {
		c.hits.Inc()
		return items, nil
	}
	if c.negativeLocked(rev, path) {
		c.negHits.Inc()
		return nil, nil
	}
	c.misses.Inc()

	// Single-flight population: concurrent callers for the same
	// (revision, path) join the one in-flight CVCS fetch rather than
	// issuing duplicate recursive queries (spec.md §4.1 steps 1-2's
	// "double-checked" critical section, implemented here as a
	// load-or-wait future per Design Notes §9 rather than an explicit
	// lock re-check).
	v, err := c.g.Do(key.populationKey(), func() (interface{}, error) {
		return c.populate(ctx, rev, path)
	})
	if err != nil {
		return nil, err
	}
	_ = v // population writes directly into c.entries/c.negative

	if items, ok := c.lookupLocked(key); ok {
		return items, nil
	}
	if c.negativeLocked(rev, path) {
		return nil, nil
	}
	// The populate call wrote neither this exact key nor a negative
	// sentinel (e.g. the single-file retry against the parent did not
	// list path); report no items.
	return nil, nil
}

func (c *Cache) lookupLocked(key Key) ([]*item.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.entries[key]
	return items, ok
}

func (c *Cache) negativeLocked(rev cvcs.Revision, path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.negative[Key{Revision: rev, Path: path, Recursion: cvcs.RecursionFull}]
	return ok
}

// populate implements spec.md §4.1 steps 3-5. It always issues a
// recursive (full-depth) query; if the result is a single file, it retries
// once against the file's parent directory (documented as "silently
// recursive only one level" — DESIGN.md Open Question 4, preserved as-is).
func (c *Cache) populate(ctx context.Context, rev cvcs.Revision, path string) (struct{}, error) {
	items, err := c.client.QueryItems(ctx, path, cvcs.RecursionFull, rev)
	if err != nil {
		return struct{}{}, err
	}
	if len(items) == 1 && items[0].Kind == item.KindFile {
		parent := pathutil.Parent(path)
		parentItems, err := c.client.QueryItems(ctx, parent, cvcs.RecursionFull, rev)
		if err != nil {
			return struct{}{}, err
		}
		c.writeFanOutLocked(rev, parent, parentItems)
		return struct{}{}, nil
	}

	c.writeFanOutLocked(rev, path, items)

	if len(items) == 0 {
		parent := pathutil.Parent(path)
		if parentEmpty := c.parentIsEmptyLocked(rev, parent); parentEmpty {
			c.mu.Lock()
			c.negative[Key{Revision: rev, Path: parent, Recursion: cvcs.RecursionFull}] = sentinel{}
			c.mu.Unlock()
		}
	}
	return struct{}{}, nil
}

func (c *Cache) parentIsEmptyLocked(rev cvcs.Revision, parent string) bool {
	c.mu.RLock()
	items, ok := c.entries[Key{Revision: rev, Path: parent, Recursion: cvcs.RecursionFull}]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return len(items) == 0
}

// writeFanOutLocked implements spec.md §4.1 step 4: for every returned
// item, write the canonical (revision, path)->item entry and append the
// item's cache key into the listings for its own path (all recursion
// modes), its parent (one-level/full) and every further ancestor up to
// and including queriedPath (full only).
func (c *Cache) writeFanOutLocked(rev cvcs.Revision, queriedPath string, items []*item.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	// The listing for the path actually queried, filtered per recursion
	// mode (spec.md §4.1: a "none" query only ever returns the path
	// itself; "one-level" adds direct children; "full" is everything).
	for _, recursion := range []cvcs.Recursion{cvcs.RecursionNone, cvcs.RecursionOneLevel, cvcs.RecursionFull} {
		key := Key{Revision: rev, Path: queriedPath, Recursion: recursion}
		c.entries[key] = filterByRecursion(queriedPath, items, recursion)
	}

	for _, it := range items {
		// Its own path, all three recursion modes (spec.md §4.1 step 4).
		for _, r := range []cvcs.Recursion{cvcs.RecursionNone, cvcs.RecursionOneLevel, cvcs.RecursionFull} {
			key := Key{Revision: rev, Path: it.Name, Recursion: r}
			c.entries[key] = appendUnique(c.entries[key], it)
		}

		// Fan out to every ancestor between it and queriedPath
		// (inclusive): one-level only for the immediate parent, full
		// for every ancestor beyond that.
		anc := pathutil.Parent(it.Name)
		for depth := 0; ; depth++ {
			recs := []cvcs.Recursion{cvcs.RecursionFull}
			if depth == 0 {
				recs = append(recs, cvcs.RecursionOneLevel)
			}
			for _, r := range recs {
				key := Key{Revision: rev, Path: anc, Recursion: r}
				c.entries[key] = appendUnique(c.entries[key], it)
			}
			if anc == queriedPath || anc == "" {
				break
			}
			anc = pathutil.Parent(anc)
		}
	}
}

func appendUnique(list []*item.Item, it *item.Item) []*item.Item {
	for _, existing := range list {
		if existing.Name == it.Name {
			return list
		}
	}
	out := append(append([]*item.Item(nil), list...), it)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func filterByRecursion(root string, items []*item.Item, recursion cvcs.Recursion) []*item.Item {
	var out []*item.Item
	for _, it := range items {
		switch recursion {
		case cvcs.RecursionNone:
			if it.Name == root {
				out = append(out, it)
			}
		case cvcs.RecursionOneLevel:
			if it.Name == root || pathutil.Parent(it.Name) == root {
				out = append(out, it)
			}
		default:
			out = append(out, it)
		}
	}
	return out
}
