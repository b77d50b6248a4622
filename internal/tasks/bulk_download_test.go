package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBulkDownload(t *testing.T) {
	t.Run("Downloads All Books", func(t *testing.T) {
		library := newFakeLibrary()
		library.payloads["book-1"] = []byte("payload one")
		library.payloads["book-2"] = []byte("payload two")

		dir := t.TempDir()
		engine := NewLibraryEngine(library, newFakeBooks(), nil, nil)

		result, err := engine.BulkDownload(context.Background(), nil, []string{"book-1", "book-2"}, BulkDownloadOpts{
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk download failed: %v", err)
		}

		if result.Downloaded != 2 || result.Failed != 0 {
			t.Fatalf("expected 2 downloads, got %d/%d failed", result.Downloaded, result.Failed)
		}

		data, err := os.ReadFile(filepath.Join(dir, "book-1.epub"))
		if err != nil {
			t.Fatalf("expected payload on disk: %v", err)
		}
		if string(data) != "payload one" {
			t.Errorf("unexpected payload: %q", data)
		}
	})

	t.Run("Collects Partial Failures", func(t *testing.T) {
		library := newFakeLibrary()
		library.payloads["book-1"] = []byte("payload")

		engine := NewLibraryEngine(library, newFakeBooks(), nil, nil)
		result, err := engine.BulkDownload(context.Background(), nil, []string{"book-1", "missing"}, BulkDownloadOpts{
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("bulk download failed: %v", err)
		}

		if result.Downloaded != 1 || result.Failed != 1 {
			t.Errorf("expected 1 success and 1 failure, got %d/%d", result.Downloaded, result.Failed)
		}

		var failed *DownloadResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failed = &result.Results[i]
			}
		}
		if failed == nil || failed.ContentID != "missing" || failed.Error == nil {
			t.Errorf("expected failure recorded for missing book, got %+v", failed)
		}
	})

	t.Run("Records Paths In Book Cache", func(t *testing.T) {
		library := newFakeLibrary()
		library.payloads["book-1"] = []byte("payload")
		books := newFakeBooks()

		dir := t.TempDir()
		engine := NewLibraryEngine(library, books, nil, nil)
		if _, err := engine.BulkDownload(context.Background(), nil, []string{"book-1"}, BulkDownloadOpts{
			OutputDir: dir,
		}); err != nil {
			t.Fatalf("bulk download failed: %v", err)
		}

		book, err := books.GetByContentID("book-1")
		if err != nil {
			t.Fatalf("expected cached book: %v", err)
		}
		if book.PayloadPath() != filepath.Join(dir, "book-1.epub") {
			t.Errorf("unexpected payload path: %q", book.PayloadPath())
		}
	})

	t.Run("Emits Progress Updates", func(t *testing.T) {
		library := newFakeLibrary()
		library.payloads["book-1"] = []byte("payload")

		prog := make(chan ProgressUpdate, 16)
		engine := NewLibraryEngine(library, newFakeBooks(), nil, nil)
		if _, err := engine.BulkDownload(context.Background(), prog, []string{"book-1", "missing"}, BulkDownloadOpts{
			OutputDir: t.TempDir(),
		}); err != nil {
			t.Fatalf("bulk download failed: %v", err)
		}
		close(prog)

		updates := 0
		for update := range prog {
			if update.Phase != DownloadBooks {
				t.Errorf("unexpected phase %s", update.Phase)
			}
			updates++
		}
		if updates == 0 {
			t.Error("expected progress updates")
		}
	})

	t.Run("Cancelled Context Stops Early", func(t *testing.T) {
		library := newFakeLibrary()
		for _, id := range []string{"b1", "b2", "b3", "b4"} {
			library.payloads[id] = []byte("payload")
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewLibraryEngine(library, newFakeBooks(), nil, nil)
		result, err := engine.BulkDownload(ctx, nil, []string{"b1", "b2", "b3", "b4"}, BulkDownloadOpts{
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("bulk download failed: %v", err)
		}
		if result.Downloaded == 4 {
			t.Error("expected cancellation to stop work early")
		}
	})
}
