package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"
)

// pngBytes returns a small valid PNG payload.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// countingGetter is a ByteGetter that counts fetches and serves fixed data.
type countingGetter struct {
	mu    sync.Mutex
	calls int
	data  []byte
	err   error
}

func (g *countingGetter) GetBytes(ctx context.Context, url string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.data, nil
}

func (g *countingGetter) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// memStore is an in-memory Store that records writes.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	getErr  error
	setErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	data, ok := s.entries[key]
	return data, ok, nil
}

func (s *memStore) Set(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = data
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

const testURL = "https://cdn.example.com/img.png"

func TestGet_HitAfterPut(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	getter := &countingGetter{data: pngBytes(t)}
	c := New(store, getter, nil)

	content := pngBytes(t)
	if err := c.Put(ctx, testURL, content); err != nil {
		t.Fatalf("Put() = %v", err)
	}

	for i := 0; i < 2; i++ {
		img := <-c.Get(ctx, testURL)
		if img.Remote {
			t.Fatal("Remote = true for cached entry")
		}
		if !bytes.Equal(img.Data, content) {
			t.Error("Data differs from Put content")
		}
	}

	if getter.count() != 0 {
		t.Errorf("fetches = %d, want 0 (cache hits must not refetch)", getter.count())
	}
}

func TestGet_FetchOncePersistReuse(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	getter := &countingGetter{data: pngBytes(t)}

	c := New(store, getter, nil)
	img := <-c.Get(ctx, testURL)
	if img.Remote {
		t.Fatal("Remote = true, want fetched content")
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", img.MIME)
	}
	if err := c.Close(); err != nil { // flush the background write
		t.Fatalf("Close() = %v", err)
	}
	if getter.count() != 1 {
		t.Fatalf("fetches = %d, want 1", getter.count())
	}

	// A second cache over the same store sees the persisted entry.
	c2 := New(store, getter, nil)
	img2 := <-c2.Get(ctx, testURL)
	if img2.Remote || !bytes.Equal(img2.Data, img.Data) {
		t.Error("persisted entry not served on second resolution")
	}
	if getter.count() != 1 {
		t.Errorf("fetches = %d across two caches, want 1", getter.count())
	}
}

func TestGet_FallbackToRemoteLocator(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	getter := &countingGetter{err: errors.New("connection refused")}

	c := New(store, getter, nil)
	img := <-c.Get(ctx, testURL)

	if !img.Remote {
		t.Fatal("Remote = false, want fallback")
	}
	if img.URL != testURL {
		t.Errorf("URL = %q, want the original locator", img.URL)
	}
	if len(img.Data) != 0 {
		t.Error("fallback carries pixel data")
	}
	if store.len() != 0 {
		t.Error("fallback must not populate the store")
	}
}

func TestGet_NonImagePayloadReencodeFails(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	getter := &countingGetter{data: []byte("<html>not an image</html>")}

	c := New(store, getter, nil)
	img := <-c.Get(ctx, testURL)

	// Both strategies see the same non-image bytes: raw rejects the sniff,
	// reencode fails to decode. The locator comes back unchanged.
	if !img.Remote {
		t.Fatal("Remote = false, want fallback for undecodable payload")
	}
	if getter.count() != 2 {
		t.Errorf("fetches = %d, want 2 (one per strategy)", getter.count())
	}
}

func TestLookup_ReadFailureIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.getErr = errors.New("corrupt page")
	getter := &countingGetter{data: pngBytes(t)}

	c := New(store, getter, nil)

	if _, ok := c.Lookup(ctx, testURL); ok {
		t.Fatal("Lookup() = hit on read failure, want miss")
	}

	// The full path falls through to fetch and still produces content.
	img := <-c.Get(ctx, testURL)
	if img.Remote {
		t.Error("Remote = true, want fetched content despite store failure")
	}
}

func TestGet_WriteFailureDoesNotAffectRender(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.setErr = errors.New("disk full")
	getter := &countingGetter{data: pngBytes(t)}

	c := New(store, getter, nil)
	img := <-c.Get(ctx, testURL)
	if img.Remote || len(img.Data) == 0 {
		t.Error("render path failed because persistence failed")
	}
	c.Close()
}

func TestGet_ConcurrentMissesIdempotentWrites(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	getter := &countingGetter{data: pngBytes(t)}
	c := New(store, getter, nil)

	// Request the same uncached locator twice before either resolves.
	first := c.Get(ctx, testURL)
	second := c.Get(ctx, testURL)

	a, b := <-first, <-second
	if a.Remote || b.Remote {
		t.Fatal("concurrent gets fell back to remote")
	}
	c.Close()

	// No request coalescing: both may have fetched. The store still ends
	// with exactly one entry for the key.
	if got := getter.count(); got < 1 || got > 2 {
		t.Errorf("fetches = %d, want 1 or 2", got)
	}
	if store.len() != 1 {
		t.Errorf("store entries = %d, want exactly 1", store.len())
	}
}

func TestGet_AbandonedConsumerDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := newMemStore()
	getter := &countingGetter{data: pngBytes(t)}
	c := New(store, getter, nil)

	// The consumer goes away without ever reading the channel.
	_ = c.Get(ctx, testURL)
	cancel()

	// The store write still lands: it must outlive the consumer.
	deadline := time.After(2 * time.Second)
	for store.len() == 0 {
		select {
		case <-deadline:
			t.Fatal("background persistence never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPut_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := New(store, nil, nil)

	content := pngBytes(t)
	if err := c.Put(ctx, testURL, content); err != nil {
		t.Fatalf("Put() = %v", err)
	}
	if err := c.Put(ctx, testURL, content); err != nil {
		t.Fatalf("second Put() = %v", err)
	}
	if store.len() != 1 {
		t.Errorf("store entries = %d, want 1", store.len())
	}

	// Differing content under the same key overwrites.
	other := append([]byte(nil), content...)
	other[len(other)-1] ^= 0xff
	if err := c.Put(ctx, testURL, other); err != nil {
		t.Fatalf("overwriting Put() = %v", err)
	}
	img, ok := c.Lookup(ctx, testURL)
	if !ok || !bytes.Equal(img.Data, other) {
		t.Error("overwrite not observed")
	}
}
