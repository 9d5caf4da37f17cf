package session

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	sess, err := New("key-abc", &Account{Email: "user@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if sess.ID == "" {
		t.Error("expected generated id")
	}
	if sess.APIKey != "key-abc" {
		t.Errorf("APIKey = %q", sess.APIKey)
	}
	if sess.IsExpired() {
		t.Error("fresh session must not be expired")
	}
}

func TestIsExpired(t *testing.T) {
	sess, err := New("k", nil, -time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !sess.IsExpired() {
		t.Error("expected expired session")
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestAnonymous(t *testing.T) {
	sess := Anonymous()
	if sess.APIKey != "" {
		t.Error("anonymous session must have no key")
	}
	if sess.IsExpired() {
		t.Error("anonymous session must not expire immediately")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	sess, err := New("key-xyz", &Account{Email: "a@b.c", Plan: "pro"}, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.APIKey != "key-xyz" || got.Account == nil || got.Account.Plan != "pro" {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestFileStoreGetAbsent(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent session, got %+v", got)
	}
}

func TestFileStoreExpiredSessionRemoved(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	sess, err := New("k", nil, -time.Minute)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for expired session, got %+v", got)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	sess, _ := New("k", nil, time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ := store.Get(ctx, sess.ID)
	if got != nil {
		t.Error("expected session gone after delete")
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	live, _ := New("live", nil, time.Hour)
	dead, _ := New("dead", nil, -time.Minute)
	store.Set(ctx, live)
	store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	if got, _ := store.Get(ctx, live.ID); got == nil {
		t.Error("live session removed by cleanup")
	}
	if _, err := store.Get(ctx, dead.ID); err != nil {
		t.Errorf("Get after cleanup failed: %v", err)
	}
}

func TestCLIStoreFixedID(t *testing.T) {
	ctx := context.Background()
	base, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	cli := &CLIStore{store: base, sessionID: defaultCLISessionID}

	sess, _ := New("key-1", nil, time.Hour)
	if err := cli.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if sess.ID != defaultCLISessionID {
		t.Errorf("SaveSession must pin the session id, got %q", sess.ID)
	}

	got, err := cli.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.APIKey != "key-1" {
		t.Errorf("GetSession = %+v", got)
	}

	if err := cli.DeleteSession(ctx); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if got, _ := cli.GetSession(ctx); got != nil {
		t.Error("expected no session after delete")
	}
}
