package reader

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// fakePage is a scriptable Page double.
type fakePage struct {
	id         string
	mu         sync.Mutex
	styleCalls int
	lastRule   StyleRule
	fail       bool
}

func (p *fakePage) ID() string { return p.id }

func (p *fakePage) ApplyStyle(rule StyleRule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return fmt.Errorf("page detached")
	}
	p.styleCalls++
	p.lastRule = rule
	return nil
}

func (p *fakePage) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.styleCalls
}

// fakeDoc is a scriptable Document double: one page per section, relocation
// events emitted synchronously from navigation calls.
type fakeDoc struct {
	sizes     []int
	hrefs     map[string]int
	toc       []models.TocEntry
	section   int
	relocate  func(Relocation)
	load      func(Page)
	pages     []*fakePage
	fractions []float64 // recorded GoToFraction arguments
	closed    bool
}

func newFakeDoc(sizes []int, hrefs map[string]int) *fakeDoc {
	return &fakeDoc{sizes: sizes, hrefs: hrefs}
}

func (d *fakeDoc) emit(section int) {
	d.section = section
	if d.load != nil {
		page := &fakePage{id: fmt.Sprintf("page-%d", len(d.pages))}
		d.pages = append(d.pages, page)
		d.load(page)
	}
	if d.relocate != nil {
		d.relocate(Relocation{Section: section, Fraction: 0})
	}
}

func (d *fakeDoc) Next() {
	if d.section < len(d.sizes)-1 {
		d.emit(d.section + 1)
	}
}

func (d *fakeDoc) Prev() {
	if d.section > 0 {
		d.emit(d.section - 1)
	}
}

func (d *fakeDoc) GoTo(href string) error {
	section, ok := d.hrefs[href]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSeek, href)
	}
	d.emit(section)
	return nil
}

func (d *fakeDoc) GoToFraction(f float64) error {
	d.fractions = append(d.fractions, f)

	var total int
	for _, s := range d.sizes {
		total += s
	}
	target := f * float64(total)
	var cum float64
	for i, s := range d.sizes {
		cum += float64(s)
		if target <= cum || i == len(d.sizes)-1 {
			d.emit(i)
			return nil
		}
	}
	return nil
}

func (d *fakeDoc) SectionSizes() []int { return d.sizes }

func (d *fakeDoc) TOC() []models.TocEntry { return d.toc }

func (d *fakeDoc) ResolveHref(href string) (int, bool) {
	s, ok := d.hrefs[href]
	return s, ok
}

func (d *fakeDoc) OnRelocate(fn func(Relocation)) { d.relocate = fn }
func (d *fakeDoc) OnSectionLoad(fn func(Page))    { d.load = fn }
func (d *fakeDoc) Close()                         { d.closed = true }

// fakeEngine returns a pre-built fakeDoc, or an error when scripted to
// reject the payload.
type fakeEngine struct {
	doc *fakeDoc
	err error
}

func (e *fakeEngine) Open(payload []byte) (Document, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.doc, nil
}

// fakeStore scripts the remote side of a session.
type fakeStore struct {
	mu       sync.Mutex
	fetch    *FetchResult
	fetchErr error
	pos      models.ReadingPosition
	posErr   error
	saves    []models.ReadingPosition
	saveErr  error
	fetchN   int
	loadN    int
}

func (s *fakeStore) Fetch(ctx context.Context, contentID string) (*FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchN++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.fetch, nil
}

func (s *fakeStore) LoadPosition(ctx context.Context, contentID string) (models.ReadingPosition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadN++
	return s.pos, s.posErr
}

func (s *fakeStore) SavePosition(ctx context.Context, contentID string, pos models.ReadingPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, pos)
	return s.saveErr
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}
