// Package imagecache resolves remote image locators to locally persisted
// pixel content, so repeated renders never re-fetch.
//
// # Architecture
//
// The package layers three pieces:
//
//   - [Store]: the persistent key-value collaborator (file, Redis, or null),
//     shared by all consumers and safe without locking because writes are
//     idempotent overwrites
//   - fetch strategies: an ordered list of independently failable ways to
//     materialize a locator, ending in an infallible fallback that returns
//     the locator itself
//   - [Cache]: ties the two together behind a non-blocking Get
//
// # Resolution
//
//	img := <-cache.Get(ctx, url)
//	if img.Remote {
//	    // let the runtime load img.URL natively
//	}
//
// A store hit delivers immediately. A miss fetches, answers the caller, and
// persists in the background; the write outlives the consumer. Every failure
// mode degrades gracefully: read errors count as misses, write errors only
// cost future hits, and fetch errors fall back to native loading. Nothing
// here ever propagates an error to the render path.
//
// # Eviction
//
// There is none. Locators are treated as immutable content references and
// store growth is unbounded; bound the store externally if that matters.
package imagecache
