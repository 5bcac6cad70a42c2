package probe

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"lukechampine.com/blake3"
)

type cacheEntry struct {
	res Result
	err error
}

// Cache memoizes probe outcomes by request content, so packages that end up
// probing identical paths and flags hit the toolchain once. Execution errors
// and cancellations are not cached.
type Cache struct {
	next Prober

	mu      sync.Mutex
	entries map[[32]byte]cacheEntry
	hits    int
	misses  int
}

// Cached wraps next with a result cache.
func Cached(next Prober) *Cache {
	return &Cache{next: next, entries: make(map[[32]byte]cacheEntry)}
}

// Probe implements Prober.
func (c *Cache) Probe(ctx context.Context, req Request) (Result, error) {
	key := requestKey(req)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return cloneResult(e.res), e.err
	}
	c.misses++
	c.mu.Unlock()

	res, err := c.next.Probe(ctx, req)
	if err == nil || errors.Is(err, ErrProbeFailed) {
		c.mu.Lock()
		c.entries[key] = cacheEntry{res: cloneResult(res), err: err}
		c.mu.Unlock()
	}
	return res, err
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// requestKey digests every field that affects the outcome. The diagnostic
// fields (Package, Root, Variant) are left out.
func requestKey(req Request) [32]byte {
	var b strings.Builder
	for _, part := range [][]string{
		req.Headers, req.Libraries, req.LinkWith,
		req.Include, req.Lib, req.Defines, req.CFlags, req.LDFlags, req.Frameworks,
	} {
		for _, s := range part {
			b.WriteString(s)
			b.WriteByte(0)
		}
		b.WriteByte(1)
	}
	return blake3.Sum256([]byte(b.String()))
}

func cloneResult(r Result) Result {
	return Result{
		Include: slices.Clone(r.Include),
		Lib:     slices.Clone(r.Lib),
		Library: r.Library,
	}
}
