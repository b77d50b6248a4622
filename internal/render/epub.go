package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/simp-lee/epub"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/shared"
)

// Engine opens EPUB payloads into paginated documents. Page geometry is
// fixed at construction; the session restyles pages, it never reflows them.
type Engine struct {
	width  int
	height int
	logger *log.Logger
}

// NewEngine creates an Engine that lays text out on pages of the given
// width (runes) and height (lines).
func NewEngine(width, height int, logger *log.Logger) *Engine {
	if width < 1 {
		width = 72
	}
	if height < 1 {
		height = 36
	}
	return &Engine{width: width, height: height, logger: logger}
}

// Open parses payload as an EPUB archive and paginates every spine chapter.
// DRM-protected and structurally invalid archives are rejected.
func (e *Engine) Open(payload []byte) (reader.Document, error) {
	book, err := epub.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		if errors.Is(err, epub.ErrDRMProtected) {
			return nil, fmt.Errorf("%w: DRM protected", shared.ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrUnsupportedFormat, err)
	}

	chapters := book.Chapters()
	if len(chapters) == 0 {
		book.Close()
		return nil, fmt.Errorf("%w: empty spine", shared.ErrUnsupportedFormat)
	}

	sections := make([]section, 0, len(chapters))
	sizes := make([]int, 0, len(chapters))
	for _, ch := range chapters {
		text, err := ch.TextContent()
		if err != nil {
			if e.logger != nil {
				e.logger.Debug("chapter text unavailable", "chapter", ch.Title, "error", err)
			}
			text = ""
		}
		sections = append(sections, section{
			title: ch.Title,
			pages: paginate(wrapText(text, e.width), e.height),
		})
		sizes = append(sizes, len(text))
	}

	doc := &document{
		book:     book,
		sections: sections,
		sizes:    sizes,
		hrefs:    make(map[string]int),
	}
	for i, item := range book.TOC() {
		doc.toc = append(doc.toc, models.TocEntry{Title: item.Title, Href: item.Href})

		// The navigation map usually tracks the spine one-to-one. When it
		// is shorter or longer, clamp so every entry still lands somewhere.
		target := i
		if target >= len(sections) {
			target = len(sections) - 1
		}
		doc.hrefs[stripFragment(item.Href)] = target
	}
	return doc, nil
}

// section is one spine chapter laid out as fixed-height pages.
type section struct {
	title string
	pages [][]string
}

// document is the paginated view over an open EPUB.
type document struct {
	mu       sync.Mutex
	book     *epub.Book
	sections []section
	sizes    []int
	toc      []models.TocEntry
	hrefs    map[string]int
	section  int
	page     int
	relocate func(reader.Relocation)
	load     func(reader.Page)
	closed   bool
}

// emit materializes the current page and fires callbacks. Callers hold d.mu.
func (d *document) emit() {
	sec := d.sections[d.section]
	if d.load != nil {
		d.load(&textPage{
			id:    shared.GenerateID(),
			lines: sec.pages[d.page],
		})
	}
	if d.relocate != nil {
		fraction := float64(d.page) / float64(len(sec.pages))
		d.relocate(reader.Relocation{Section: d.section, Fraction: fraction})
	}
}

func (d *document) Next() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if d.page < len(d.sections[d.section].pages)-1 {
		d.page++
	} else if d.section < len(d.sections)-1 {
		d.section++
		d.page = 0
	} else {
		return
	}
	d.emit()
}

func (d *document) Prev() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if d.page > 0 {
		d.page--
	} else if d.section > 0 {
		d.section--
		d.page = len(d.sections[d.section].pages) - 1
	} else {
		return
	}
	d.emit()
}

func (d *document) GoTo(href string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return shared.ErrSessionClosed
	}

	target, ok := d.hrefs[stripFragment(href)]
	if !ok {
		return fmt.Errorf("%w: unknown target %q", shared.ErrSeek, href)
	}
	d.section = target
	d.page = 0
	d.emit()
	return nil
}

func (d *document) GoToFraction(f float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return shared.ErrSessionClosed
	}

	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}

	var total int
	for _, s := range d.sizes {
		total += s
	}

	d.section = 0
	d.page = 0
	if total > 0 {
		target := f * float64(total)
		var before float64
		for i, s := range d.sizes {
			if target <= before+float64(s) || i == len(d.sizes)-1 {
				d.section = i
				if s > 0 {
					inner := (target - before) / float64(s)
					pages := len(d.sections[i].pages)
					d.page = int(inner * float64(pages))
					if d.page >= pages {
						d.page = pages - 1
					}
				}
				break
			}
			before += float64(s)
		}
	}
	d.emit()
	return nil
}

func (d *document) SectionSizes() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sizes
}

func (d *document) TOC() []models.TocEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.toc
}

func (d *document) ResolveHref(href string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.hrefs[stripFragment(href)]
	return s, ok
}

func (d *document) OnRelocate(fn func(reader.Relocation)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.relocate = fn
}

func (d *document) OnSectionLoad(fn func(reader.Page)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.load = fn
}

func (d *document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	d.book.Close()
}

// textPage is a fixed block of wrapped lines plus the style currently in
// effect. Styling never fails for text pages; the rule is stored for the
// presentation layer to pick up.
type textPage struct {
	mu    sync.Mutex
	id    string
	lines []string
	rule  reader.StyleRule
}

func (p *textPage) ID() string { return p.id }

func (p *textPage) ApplyStyle(rule reader.StyleRule) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rule = rule
	return nil
}

// Lines returns the page content.
func (p *textPage) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lines
}

// Rule returns the style currently applied to the page.
func (p *textPage) Rule() reader.StyleRule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rule
}

func stripFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}
