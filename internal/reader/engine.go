package reader

import "github.com/desertthunder/folio/internal/models"

// Relocation is emitted by the pagination engine on every page turn or seek.
// It is the sole input to progress calculation.
type Relocation struct {
	Section  int     // Index of the section now visible
	Fraction float64 // Position within that section, in [0,1]
}

// StyleRule is the single managed presentation rule applied to a page:
// theme colors plus font scale in percent.
type StyleRule struct {
	FontScale  int
	Foreground string
	Background string
}

// Page is a materialized page document. Pages are owned by the engine; the
// session holds non-owning references only, solely to re-apply display settings.
type Page interface {
	// ID identifies the page for registry bookkeeping.
	ID() string

	// ApplyStyle injects or overwrites the managed style rule. An error means
	// the page no longer accepts updates (e.g., already discarded) and the
	// caller should drop its reference.
	ApplyStyle(rule StyleRule) error
}

// Document is an opened, paginated book.
//
// Next and Prev are no-ops at document boundaries; boundary feedback is the
// caller's concern. Callbacks registered via OnRelocate and OnSectionLoad are
// invoked synchronously from navigation calls.
type Document interface {
	Next()
	Prev()

	// GoTo seeks to a TOC target reference.
	GoTo(href string) error

	// GoToFraction seeks to a global fraction of the whole document.
	GoToFraction(f float64) error

	// SectionSizes returns per-section byte sizes in spine order.
	// The returned slice must not be mutated.
	SectionSizes() []int

	// TOC returns the table of contents extracted from the document itself,
	// used when the content API supplies none.
	TOC() []models.TocEntry

	// ResolveHref maps a TOC target reference to a section index.
	ResolveHref(href string) (int, bool)

	OnRelocate(fn func(Relocation))
	OnSectionLoad(fn func(Page))

	Close()
}

// Engine opens binary payloads into paginated documents. Any engine
// satisfying this contract is substitutable; the session never depends on a
// concrete implementation.
type Engine interface {
	// Open parses the payload and returns a paginated document. Implementations
	// wrap rejection of the payload in [shared.ErrUnsupportedFormat].
	Open(payload []byte) (Document, error)
}
