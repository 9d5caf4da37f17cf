package imagecache

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/easelkit/easel/pkg/httputil"
	"github.com/easelkit/easel/pkg/observability"
)

// Image is the displayable result of resolving a locator.
//
// When Remote is true, both fetch strategies failed: Data is empty and the
// caller should let the runtime load URL natively, forgoing caching for that
// entry. The user always sees something rather than a broken state.
type Image struct {
	URL    string
	Data   []byte
	MIME   string
	Remote bool
}

// Cache resolves remote image locators to locally persisted pixel content.
//
// A persistent [Store] is the first level; the network is the fallback. The
// caller's render path is never blocked synchronously: [Cache.Get] hands back
// a buffered channel, filled immediately on a store hit and asynchronously
// after a fetch otherwise.
//
// Concurrent misses for the same locator are not coalesced: two consumers
// racing on an uncached URL may both fetch, and both will persist. Store
// writes are idempotent overwrites, which makes the race safe (one entry
// per key afterwards), merely wasteful.
type Cache struct {
	store  Store
	getter ByteGetter
	logger *log.Logger

	strategies []fetchStrategy

	// persisting tracks detached background writes so Close can wait for
	// them in tests and orderly shutdowns.
	persisting sync.WaitGroup
}

// New creates a Cache over the given store.
// A nil store disables persistence (NullStore); a nil getter uses a default
// HTTP client; a nil logger uses the package default.
func New(store Store, getter ByteGetter, logger *log.Logger) *Cache {
	if store == nil {
		store = NewNullStore()
	}
	if getter == nil {
		getter = httputil.NewClient(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{
		store:      store,
		getter:     getter,
		logger:     logger,
		strategies: defaultStrategies(),
	}
}

// Get resolves url to displayable content without blocking the caller.
//
// The returned channel is buffered and receives exactly one Image: the
// cached content if the store has it, the fetched-and-persisted content on
// a miss, or a Remote fallback if every strategy failed. A caller that is
// torn down before delivery can simply stop reading; the buffered send
// never blocks and any store write still completes in the background.
func (c *Cache) Get(ctx context.Context, url string) <-chan Image {
	ch := make(chan Image, 1)
	go func() {
		ch <- c.resolve(ctx, url)
	}()
	return ch
}

// Lookup probes the persistent store only, without ever touching the
// network. A store read failure is logged and reported as a miss.
func (c *Cache) Lookup(ctx context.Context, url string) (Image, bool) {
	data, hit, err := c.store.Get(ctx, url)
	if err != nil {
		// Treated as a miss; the fetch path will repopulate the entry.
		c.logger.Warn("cache read failed", "url", url, "err", err)
		return Image{}, false
	}
	if !hit {
		return Image{}, false
	}
	observability.Cache().OnCacheHit(ctx, url)
	return Image{URL: url, Data: data, MIME: http.DetectContentType(data)}, true
}

// Put writes content into the store under url, idempotently: writing equal
// content twice is a no-op in effect, and differing content overwrites.
// URLs are treated as immutable content references.
func (c *Cache) Put(ctx context.Context, url string, data []byte) error {
	if err := c.store.Set(ctx, url, data); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, url, len(data))
	return nil
}

// Close waits for in-flight background writes, then closes the store.
func (c *Cache) Close() error {
	c.persisting.Wait()
	return c.store.Close()
}

func (c *Cache) resolve(ctx context.Context, url string) Image {
	if img, ok := c.Lookup(ctx, url); ok {
		return img
	}
	observability.Cache().OnCacheMiss(ctx, url)

	for _, strat := range c.strategies {
		img, err := strat.fn(ctx, c.getter, url)
		if err != nil {
			c.logger.Debug("fetch strategy failed", "strategy", strat.name, "url", url, "err", err)
			continue
		}
		c.persist(ctx, url, img.Data)
		return img
	}

	// Last resort: hand the locator back unchanged so the display path can
	// load it natively. Nothing is cached for this entry.
	c.logger.Warn("all fetch strategies failed, falling back to remote locator", "url", url)
	observability.Cache().OnFetchFallback(ctx, url)
	return Image{URL: url, Remote: true}
}

// persist writes fetched content in the background. The write deliberately
// outlives the consumer (context.WithoutCancel): tearing down the UI that
// requested an image must not waste the completed fetch. Failures only cost
// future cache hits, so they are logged and dropped.
func (c *Cache) persist(ctx context.Context, url string, data []byte) {
	bg := context.WithoutCancel(ctx)
	c.persisting.Add(1)
	go func() {
		defer c.persisting.Done()
		if err := c.store.Set(bg, url, data); err != nil {
			c.logger.Warn("cache write failed", "url", url, "err", err)
			observability.Cache().OnWriteError(bg, url, err)
			return
		}
		observability.Cache().OnCacheSet(bg, url, len(data))
	}()
}
