package reader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

func testSession(store *fakeStore, engine Engine) *Session {
	return NewSession(store, engine, SessionOpts{
		Settings:  models.DisplaySettings{FontScale: 100, Theme: models.ThemeLight},
		SaveDelay: 20 * time.Millisecond,
	})
}

func testStore(sizes []int, hrefs map[string]int) (*fakeStore, *fakeDoc) {
	doc := newFakeDoc(sizes, hrefs)
	store := &fakeStore{
		fetch: &FetchResult{
			Title:   "Test Book",
			Payload: []byte("payload"),
			Toc: []RawTocNode{
				{Title: "Ch1", Href: "ch1"},
				{Title: "Ch2", Href: "ch2"},
			},
		},
		posErr: shared.ErrNotFound,
	}
	return store, doc
}

func TestSessionOpen(t *testing.T) {
	t.Run("Fresh Open Starts At Zero", func(t *testing.T) {
		store, doc := testStore([]int{100, 200, 300}, map[string]int{"ch1": 0, "ch2": 2})
		sess := testSession(store, &fakeEngine{doc: doc})

		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		if sess.State() != StateActive {
			t.Errorf("expected active state, got %s", sess.State())
		}
		if got := sess.Position().Progress; got != 0 {
			t.Errorf("expected progress 0 on fresh open, got %v", got)
		}
		if len(doc.fractions) != 0 {
			t.Errorf("expected no restore seek on fresh open, got %v", doc.fractions)
		}
		if sess.Title() != "Test Book" {
			t.Errorf("expected title Test Book, got %s", sess.Title())
		}
	})

	t.Run("Resume Seeks Stored Fraction Once", func(t *testing.T) {
		store, doc := testStore([]int{100, 200, 300}, map[string]int{"ch1": 0, "ch2": 2})
		store.posErr = nil
		store.pos = models.ReadingPosition{Progress: 0.42}
		sess := testSession(store, &fakeEngine{doc: doc})

		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		if len(doc.fractions) != 1 || doc.fractions[0] != 0.42 {
			t.Fatalf("expected exactly one GoToFraction(0.42), got %v", doc.fractions)
		}
		if sess.State() != StateActive {
			t.Errorf("expected active state, got %s", sess.State())
		}
	})

	t.Run("Fetch Failure Is Terminal", func(t *testing.T) {
		store, doc := testStore(nil, nil)
		store.fetchErr = shared.ErrNetwork
		sess := testSession(store, &fakeEngine{doc: doc})

		if err := sess.Open(context.Background(), "book-1"); err == nil {
			t.Fatal("expected open to fail")
		}

		if sess.State() != StateError {
			t.Errorf("expected error state, got %s", sess.State())
		}
		if !errors.Is(sess.Err(), shared.ErrNetwork) {
			t.Errorf("expected wrapped network error, got %v", sess.Err())
		}
	})

	t.Run("Unsupported Payload Is Terminal", func(t *testing.T) {
		store, _ := testStore(nil, nil)
		sess := testSession(store, &fakeEngine{err: shared.ErrUnsupportedFormat})

		if err := sess.Open(context.Background(), "book-1"); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Fatalf("expected unsupported format error, got %v", err)
		}
		if sess.State() != StateError {
			t.Errorf("expected error state, got %s", sess.State())
		}
	})

	t.Run("Second Open Rejected", func(t *testing.T) {
		store, doc := testStore([]int{10}, nil)
		sess := testSession(store, &fakeEngine{doc: doc})

		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if err := sess.Open(context.Background(), "book-1"); !errors.Is(err, shared.ErrSessionClosed) {
			t.Errorf("expected reuse rejection, got %v", err)
		}
	})

	t.Run("Falls Back To Document TOC", func(t *testing.T) {
		store, doc := testStore([]int{100, 200}, map[string]int{"intro": 0})
		store.fetch.Toc = nil
		doc.toc = []models.TocEntry{{Title: "Intro", Href: "intro"}}
		sess := testSession(store, &fakeEngine{doc: doc})

		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		toc := sess.TOC()
		if len(toc) != 1 || toc[0].Title != "Intro" {
			t.Errorf("expected document TOC fallback, got %+v", toc)
		}
	})
}

func TestSessionReading(t *testing.T) {
	open := func(t *testing.T) (*Session, *fakeStore, *fakeDoc) {
		t.Helper()
		store, doc := testStore([]int{100, 300, 600}, map[string]int{"ch1": 1, "ch2": 2})
		sess := testSession(store, &fakeEngine{doc: doc})
		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		return sess, store, doc
	}

	t.Run("Page Turns Update Position", func(t *testing.T) {
		sess, _, _ := open(t)
		defer sess.Close()

		sess.Next()
		pos := sess.Position()
		if pos.Progress != 0.1 {
			t.Errorf("expected progress 0.1 after first turn, got %v", pos.Progress)
		}
		if pos.ChapterTitle != "Ch1" {
			t.Errorf("expected chapter Ch1, got %q", pos.ChapterTitle)
		}
	})

	t.Run("Chapter Fallback On Unindexed Section", func(t *testing.T) {
		sess, _, _ := open(t)
		defer sess.Close()

		// Section 0 has no heading at or before it
		if title, ok := sess.Chapter(0); ok || title != "" {
			t.Errorf("expected no chapter for section 0, got %q", title)
		}
		if title, _ := sess.Chapter(2); title != "Ch2" {
			t.Errorf("expected Ch2 for section 2, got %q", title)
		}
	})

	t.Run("Rapid Turns Coalesce To One Save", func(t *testing.T) {
		sess, store, _ := open(t)
		defer sess.Close()

		sess.Next()
		sess.Next()
		time.Sleep(60 * time.Millisecond)

		if got := store.saveCount(); got != 1 {
			t.Fatalf("expected 1 coalesced save, got %d", got)
		}
		saved := store.saves[0]
		if saved.Progress != 0.4 {
			t.Errorf("expected saved progress 0.4, got %v", saved.Progress)
		}
	})

	t.Run("Hide Flushes Immediately", func(t *testing.T) {
		sess, store, _ := open(t)
		defer sess.Close()

		sess.Next()
		sess.Hide()

		if got := store.saveCount(); got != 1 {
			t.Fatalf("expected immediate save on hide, got %d", got)
		}

		// The pending timer was cancelled; no second write
		time.Sleep(60 * time.Millisecond)
		if got := store.saveCount(); got != 1 {
			t.Errorf("expected no double-save after hide, got %d", got)
		}
	})

	t.Run("Save Failures Never Surface", func(t *testing.T) {
		sess, store, _ := open(t)
		defer sess.Close()
		store.saveErr = shared.ErrNetwork

		sess.Next()
		sess.Hide()

		// Navigation keeps working after a failed save
		sess.Next()
		if got := sess.Position().Progress; got != 0.4 {
			t.Errorf("expected progress 0.4, got %v", got)
		}
	})

	t.Run("Seek Href", func(t *testing.T) {
		sess, _, _ := open(t)
		defer sess.Close()

		if err := sess.SeekHref("ch2"); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if got := sess.Position().ChapterTitle; got != "Ch2" {
			t.Errorf("expected Ch2 after seek, got %q", got)
		}

		if err := sess.SeekHref("missing"); !errors.Is(err, shared.ErrSeek) {
			t.Errorf("expected seek error for unknown href, got %v", err)
		}
	})
}

func TestSessionClose(t *testing.T) {
	t.Run("Flushes And Releases", func(t *testing.T) {
		store, doc := testStore([]int{100, 300, 600}, nil)
		sess := testSession(store, &fakeEngine{doc: doc})
		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		sess.Next()
		sess.Close()

		if got := store.saveCount(); got != 1 {
			t.Errorf("expected close to flush pending save, got %d", got)
		}
		if !doc.closed {
			t.Error("expected document to be closed")
		}
		if sess.State() != StateClosed {
			t.Errorf("expected closed state, got %s", sess.State())
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		store, doc := testStore([]int{100}, nil)
		sess := testSession(store, &fakeEngine{doc: doc})
		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}

		sess.Close()
		sess.Close()

		if sess.State() != StateClosed {
			t.Errorf("expected closed state, got %s", sess.State())
		}
	})

	t.Run("Navigation After Close Is NoOp", func(t *testing.T) {
		store, doc := testStore([]int{100, 200}, nil)
		sess := testSession(store, &fakeEngine{doc: doc})
		if err := sess.Open(context.Background(), "book-1"); err != nil {
			t.Fatalf("open failed: %v", err)
		}
		sess.Close()

		sess.Next()
		if got := sess.Position().Progress; got != 0 {
			t.Errorf("expected position unchanged after close, got %v", got)
		}
		if err := sess.SeekFraction(0.5); !errors.Is(err, shared.ErrSessionClosed) {
			t.Errorf("expected closed error, got %v", err)
		}
	})
}
