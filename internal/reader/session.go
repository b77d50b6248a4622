package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// State enumerates the session lifecycle. Error is terminal and reachable
// only from Opening.
type State int

const (
	StateNew State = iota
	StateOpening
	StateActive
	StateClosing
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateOpening:
		return "opening"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	default:
		return ""
	}
}

// FetchResult is what the store returns for a document: metadata, the binary
// payload, and the server-side table of contents when the API has one.
type FetchResult struct {
	Title   string
	Author  string
	Payload []byte
	Toc     []RawTocNode
}

// Store is the narrow remote surface a session needs: one fetch, one position
// read, one position write. [LoadPosition] reports a missing stored position
// by wrapping [shared.ErrNotFound]; that is the expected first-read case, not
// a failure.
type Store interface {
	Fetch(ctx context.Context, contentID string) (*FetchResult, error)
	LoadPosition(ctx context.Context, contentID string) (models.ReadingPosition, error)
	SavePosition(ctx context.Context, contentID string, pos models.ReadingPosition) error
}

// SessionOpts configures a reading session.
type SessionOpts struct {
	Settings  models.DisplaySettings
	SaveDelay time.Duration // Debounce delay; zero means DefaultSaveDelay
	Logger    *log.Logger
}

// Session is a single-client, single-document reading session. It owns the
// fetched book for its lifetime, drives the pagination engine, converts
// relocation events into a global reading position, and persists that
// position with debounced writes. All state dies with the session; only the
// persisted position outlives it.
type Session struct {
	store  Store
	engine Engine
	logger *log.Logger

	mu        sync.Mutex
	state     State
	err       error
	contentID string
	book      *models.Book
	doc       Document
	toc       []models.TocEntry
	flat      []models.FlatTocEntry
	chapters  ChapterIndex
	sizes     []int
	pos       models.ReadingPosition

	pageFn  func(Page)
	relocFn func(Relocation)

	saver  *Saver
	styles *StyleManager
}

// NewSession creates a session in the new state. Each session is an
// independently constructible instance; nothing is shared between sessions.
func NewSession(store Store, engine Engine, opts SessionOpts) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Session{
		store:  store,
		engine: engine,
		logger: logger,
		state:  StateNew,
		styles: NewStyleManager(opts.Settings),
	}
	s.saver = NewSaver(opts.SaveDelay, s.persist, logger)
	return s
}

// OnPage registers an observer for newly materialized pages, invoked after
// the page is styled. Must be called before [Session.Open].
func (s *Session) OnPage(fn func(Page)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageFn = fn
}

// OnRelocate registers an observer for position changes, invoked after the
// global position is recomputed. Must be called before [Session.Open].
func (s *Session) OnRelocate(fn func(Relocation)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relocFn = fn
}

// Open fetches the document, resolves its table of contents, opens the
// payload in the engine, and restores the last-known position. Any failure
// is terminal: the session transitions to the error state and must be
// re-created to retry. A second Open while one is in flight is rejected with
// [shared.ErrSessionBusy].
func (s *Session) Open(ctx context.Context, contentID string) error {
	s.mu.Lock()
	if s.state != StateNew {
		busy := s.state == StateOpening
		s.mu.Unlock()
		if busy {
			return fmt.Errorf("%w: %s", shared.ErrSessionBusy, contentID)
		}
		return fmt.Errorf("%w: session already used", shared.ErrSessionClosed)
	}
	s.state = StateOpening
	s.contentID = contentID
	s.mu.Unlock()

	fetched, err := s.store.Fetch(ctx, contentID)
	if err != nil {
		return s.fail(fmt.Errorf("fetch failed: %w", err))
	}

	doc, err := s.engine.Open(fetched.Payload)
	if err != nil {
		return s.fail(fmt.Errorf("open failed: %w", err))
	}

	toc := NormalizeTOC(fetched.Toc)
	if len(toc) == 0 {
		// The API's toc field is optional; fall back to what the engine
		// extracted from the document itself.
		toc = doc.TOC()
	}

	s.mu.Lock()
	if s.state != StateOpening {
		// Closed while the fetch was in flight; discard the late result.
		s.mu.Unlock()
		doc.Close()
		return fmt.Errorf("%w: closed during open", shared.ErrSessionClosed)
	}
	s.book = &models.Book{
		ContentID: contentID,
		Title:     fetched.Title,
		Author:    fetched.Author,
		Payload:   fetched.Payload,
	}
	s.doc = doc
	s.toc = toc
	s.flat = FlattenTOC(toc)
	s.chapters = BuildChapterIndex(toc, doc.ResolveHref)
	s.sizes = doc.SectionSizes()
	s.mu.Unlock()

	s.mu.Lock()
	pageFn := s.pageFn
	s.mu.Unlock()

	doc.OnSectionLoad(func(p Page) {
		s.styles.Register(p)
		if pageFn != nil {
			pageFn(p)
		}
	})
	doc.OnRelocate(s.relocated)

	pos, err := s.store.LoadPosition(ctx, contentID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		// First read; start at the beginning.
	case err != nil:
		s.logger.Warn("position restore failed, starting at 0", "content_id", contentID, "error", err)
	case pos.Progress > 0:
		if err := doc.GoToFraction(pos.Progress); err != nil {
			doc.Close()
			return s.fail(fmt.Errorf("restore seek failed: %w", err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpening {
		doc.Close()
		return fmt.Errorf("%w: closed during open", shared.ErrSessionClosed)
	}
	s.state = StateActive
	return nil
}

// fail records a terminal open failure.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpening {
		s.state = StateError
		s.err = err
	}
	s.logger.Error("session open failed", "content_id", s.contentID, "error", err)
	return err
}

// relocated handles a relocation event from the engine: recompute the global
// position and note it with the debounced saver.
func (s *Session) relocated(r Relocation) {
	s.mu.Lock()
	progress := Progress(s.sizes, r.Section, r.Fraction)
	title, _ := s.chapters.Lookup(r.Section)
	s.pos = models.ReadingPosition{Progress: progress, ChapterTitle: title}
	pos := s.pos
	relocFn := s.relocFn
	s.mu.Unlock()

	s.saver.Note(pos)
	if relocFn != nil {
		relocFn(r)
	}
}

// persist is the saver's write callback. Failures are best-effort: the saver
// logs and discards them.
func (s *Session) persist(pos models.ReadingPosition) error {
	s.mu.Lock()
	contentID := s.contentID
	state := s.state
	s.mu.Unlock()

	if state != StateActive && state != StateClosing {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.store.SavePosition(ctx, contentID, pos)
}

// document returns the open document when the session is active.
func (s *Session) document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return nil
	}
	return s.doc
}

// Next advances one page. No-op at the last page or outside the active state.
func (s *Session) Next() {
	if doc := s.document(); doc != nil {
		doc.Next()
	}
}

// Prev retreats one page. No-op at the first page or outside the active state.
func (s *Session) Prev() {
	if doc := s.document(); doc != nil {
		doc.Prev()
	}
}

// SeekFraction seeks to a global fraction of the document.
func (s *Session) SeekFraction(f float64) error {
	doc := s.document()
	if doc == nil {
		return shared.ErrSessionClosed
	}
	return doc.GoToFraction(f)
}

// SeekHref seeks to a TOC target.
func (s *Session) SeekHref(href string) error {
	doc := s.document()
	if doc == nil {
		return shared.ErrSessionClosed
	}
	if err := doc.GoTo(href); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrSeek, href)
	}
	return nil
}

// SetTheme switches the display theme and re-applies settings to every
// materialized page. Display settings are session-scoped and never persisted.
func (s *Session) SetTheme(theme models.Theme) models.DisplaySettings {
	settings := s.styles.Settings()
	settings.Theme = theme
	return s.styles.SetSettings(settings)
}

// SetFontScale changes the font scale percentage, clamped to the supported
// range, and re-applies settings to every materialized page.
func (s *Session) SetFontScale(pct int) models.DisplaySettings {
	settings := s.styles.Settings()
	settings.FontScale = pct
	return s.styles.SetSettings(settings)
}

// Settings returns the display settings currently in effect.
func (s *Session) Settings() models.DisplaySettings { return s.styles.Settings() }

// Hide force-flushes the pending position write. The TUI calls this when the
// terminal loses focus or the program suspends, mirroring tab-hide behavior.
func (s *Session) Hide() { s.saver.Flush() }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the terminal open failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Position returns the current reading position.
func (s *Session) Position() models.ReadingPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Title returns the book title, empty until open completes.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.book == nil {
		return ""
	}
	return s.book.Title
}

// TOC returns the flattened table of contents for display.
func (s *Session) TOC() []models.FlatTocEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flat
}

// Chapter returns the heading in effect at the given section index.
func (s *Session) Chapter(section int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chapters.Lookup(section)
}

// Close force-flushes the pending position write, releases the document and
// page registry, and transitions to closed. Idempotent; closing a session
// whose open is still in flight makes the late result a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed || s.state == StateClosing {
		s.mu.Unlock()
		return
	}
	prev := s.state
	s.state = StateClosing
	doc := s.doc
	s.mu.Unlock()

	if prev == StateActive {
		s.saver.Flush()
	}
	s.saver.Stop()

	if doc != nil {
		doc.Close()
	}
	s.styles.Clear()

	s.mu.Lock()
	s.doc = nil
	s.book = nil
	s.state = StateClosed
	s.mu.Unlock()
}
