package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}

	f, err := store.Save(ctx, "notes.txt", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if f.Size != 5 || f.Filename != "notes.txt" || f.Path == "" {
		t.Fatalf("unexpected file %+v", f)
	}

	rc, err := store.Open(ctx, f.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Errorf("contents = %q", data)
	}

	if err := store.Remove(ctx, f.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Open(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after Remove: %v", err)
	}
}

func TestDiskStoreMaxSize(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewDiskStore(dir, 4)

	_, err := store.Save(context.Background(), "big", "text/plain", strings.NewReader("too large"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial file left behind: %d entries", len(entries))
	}
}

func TestDiskStoreStatFromSidecar(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewDiskStore(dir, 0)
	f, _ := store.Save(context.Background(), "a.txt", "text/plain", strings.NewReader("abc"))

	// A fresh store only has the sidecar to go on.
	other, _ := NewDiskStore(dir, 0)
	got, err := other.Stat(f.ID)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if got.Filename != "a.txt" || got.Size != 3 {
		t.Errorf("Stat = %+v", got)
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir(), 0)
	if _, err := store.Open(context.Background(), "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open traversal: %v", err)
	}
	if err := store.Remove(context.Background(), "../x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove traversal: %v", err)
	}
}

func TestDiskStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, _ := NewDiskStore(t.TempDir(), 0)
	f, _ := store.Save(ctx, "old.txt", "text/plain", strings.NewReader("old"))

	if err := store.Cleanup(ctx, time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, f.ID); err != nil {
		t.Fatalf("fresh file removed: %v", err)
	}

	if err := store.Cleanup(ctx, -time.Second); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired file still present: %v", err)
	}
}
