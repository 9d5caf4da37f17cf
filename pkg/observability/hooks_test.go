package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Canvas hooks
	cv := NoopCanvasHooks{}
	cv.OnNodeCreate(ctx, "board-1", "node-1", "thumb-1")
	cv.OnNodeMove(ctx, "board-1", "node-1")
	cv.OnNodeClose(ctx, "board-1", "node-1")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "https://x/img.png")
	c.OnCacheMiss(ctx, "https://x/img.png")
	c.OnCacheSet(ctx, "https://x/img.png", 1024)
	c.OnFetchFallback(ctx, "https://x/img.png")
	c.OnWriteError(ctx, "https://x/img.png", errors.New("disk full"))

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "cdn.example.com", "/img.png")
	h.OnResponse(ctx, "GET", "cdn.example.com", "/img.png", 200, time.Second)
	h.OnError(ctx, "GET", "cdn.example.com", "/img.png", nil)
}

type testCanvasHooks struct{ NoopCanvasHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Canvas().(NoopCanvasHooks); !ok {
		t.Error("Canvas() should return NoopCanvasHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customCanvas := &testCanvasHooks{}
	SetCanvasHooks(customCanvas)
	if Canvas() != customCanvas {
		t.Error("SetCanvasHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Canvas().(NoopCanvasHooks); !ok {
		t.Error("Reset() should restore NoopCanvasHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testCacheHooks{}
	SetCacheHooks(custom)

	// Setting nil should be ignored
	SetCacheHooks(nil)

	if Cache() != custom {
		t.Error("SetCacheHooks(nil) should be ignored")
	}

	Reset()
}
