package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/content-modeling-api/internal/storage"
)

func TestBackend_PutGetDelete(t *testing.T) {
	tmp := t.TempDir()
	b, err := New(tmp)
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "media/2026/10/photo.png"
	data := []byte("not really a png")

	if err := b.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}

	rc, err := b.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, data) {
		t.Errorf("Expected %q, got %q", data, got)
	}

	if err := b.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "media")); !os.IsNotExist(err) {
		t.Errorf("Expected empty directories to be pruned")
	}
	if _, err := b.Get(ctx, key); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound after delete, got %v", err)
	}
}

func TestBackend_DeleteMissing(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	if err := b.Delete(context.Background(), "nope"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Errorf("Expected ErrObjectNotFound, got %v", err)
	}
}

func TestBackend_RejectsEscapingKeys(t *testing.T) {
	b, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	err = b.Put(context.Background(), "../outside", bytes.NewReader([]byte("x")), 1, "text/plain")
	if err == nil {
		t.Error("Expected error for key outside base directory")
	}
}

func TestNew_RequiresBaseDir(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("Expected error for empty base directory")
	}
}
