package render

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/shared"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// buildEpub assembles a minimal two-chapter EPUB 2 archive in memory.
func buildEpub(t *testing.T, chapters map[string]string) []byte {
	t.Helper()

	names := []string{"ch1", "ch2"}
	var manifest, spine, navPoints strings.Builder
	for i, name := range names {
		fmt.Fprintf(&manifest,
			`<item id="%s" href="%s.xhtml" media-type="application/xhtml+xml"/>`, name, name)
		fmt.Fprintf(&spine, `<itemref idref="%s"/>`, name)
		fmt.Fprintf(&navPoints,
			`<navPoint id="np-%d" playOrder="%d"><navLabel><text>Chapter %d</text></navLabel><content src="%s.xhtml"/></navPoint>`,
			i+1, i+1, i+1, name)
	}

	opf := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" unique-identifier="uid" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:identifier id="uid">urn:uuid:00000000-0000-0000-0000-000000000001</dc:identifier>
    <dc:title>Test Book</dc:title>
    <dc:language>en</dc:language>
  </metadata>
  <manifest>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
    %s
  </manifest>
  <spine toc="ncx">%s</spine>
</package>`, manifest.String(), spine.String())

	ncx := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head><meta name="dtb:uid" content="urn:uuid:00000000-0000-0000-0000-000000000001"/></head>
  <docTitle><text>Test Book</text></docTitle>
  <navMap>%s</navMap>
</ncx>`, navPoints.String())

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	// The mimetype entry must be first and stored uncompressed.
	mime, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatalf("creating mimetype entry: %v", err)
	}
	if _, err := mime.Write([]byte("application/epub+zip")); err != nil {
		t.Fatalf("writing mimetype: %v", err)
	}

	files := map[string]string{
		"META-INF/container.xml": containerXML,
		"OEBPS/content.opf":      opf,
		"OEBPS/toc.ncx":          ncx,
	}
	for _, name := range names {
		files["OEBPS/"+name+".xhtml"] = fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>%s</title></head>
<body><p>%s</p></body></html>`, name, chapters[name])
	}
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
	return buf.Bytes()
}

func TestEngineOpen(t *testing.T) {
	payload := buildEpub(t, map[string]string{
		"ch1": strings.Repeat("alpha beta gamma delta. ", 20),
		"ch2": strings.Repeat("one two three four five. ", 40),
	})

	t.Run("Parses And Paginates", func(t *testing.T) {
		engine := NewEngine(40, 4, nil)
		doc, err := engine.Open(payload)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer doc.Close()

		sizes := doc.SectionSizes()
		if len(sizes) != 2 {
			t.Fatalf("expected 2 sections, got %d", len(sizes))
		}
		if sizes[0] <= 0 || sizes[1] <= sizes[0] {
			t.Errorf("expected increasing non-zero sizes, got %v", sizes)
		}
	})

	t.Run("Exposes Navigation Map", func(t *testing.T) {
		engine := NewEngine(40, 4, nil)
		doc, err := engine.Open(payload)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		defer doc.Close()

		toc := doc.TOC()
		if len(toc) != 2 {
			t.Fatalf("expected 2 navigation entries, got %d", len(toc))
		}
		if toc[0].Title != "Chapter 1" {
			t.Errorf("unexpected first entry: %+v", toc[0])
		}

		if section, ok := doc.ResolveHref(toc[1].Href); !ok || section != 1 {
			t.Errorf("expected href to resolve to section 1, got %d (ok=%v)", section, ok)
		}
		if _, ok := doc.ResolveHref("nope.xhtml"); ok {
			t.Error("expected unknown href not to resolve")
		}
	})

	t.Run("Rejects Garbage", func(t *testing.T) {
		engine := NewEngine(40, 4, nil)
		if _, err := engine.Open([]byte("not an epub")); !errors.Is(err, shared.ErrUnsupportedFormat) {
			t.Errorf("expected unsupported format error, got %v", err)
		}
	})
}

func TestDocumentNavigation(t *testing.T) {
	payload := buildEpub(t, map[string]string{
		"ch1": strings.Repeat("alpha beta gamma delta. ", 20),
		"ch2": strings.Repeat("one two three four five. ", 40),
	})

	open := func(t *testing.T) (reader.Document, *[]reader.Relocation) {
		t.Helper()
		engine := NewEngine(40, 4, nil)
		doc, err := engine.Open(payload)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		t.Cleanup(doc.Close)

		var seen []reader.Relocation
		doc.OnRelocate(func(r reader.Relocation) { seen = append(seen, r) })
		return doc, &seen
	}

	t.Run("Next Emits Relocations", func(t *testing.T) {
		doc, seen := open(t)

		doc.Next()
		if len(*seen) != 1 {
			t.Fatalf("expected 1 relocation, got %d", len(*seen))
		}
		r := (*seen)[0]
		if r.Section != 0 || r.Fraction <= 0 {
			t.Errorf("unexpected relocation: %+v", r)
		}
	})

	t.Run("Crosses Section Boundary", func(t *testing.T) {
		doc, seen := open(t)

		for i := 0; i < 100; i++ {
			doc.Next()
		}
		last := (*seen)[len(*seen)-1]
		if last.Section != 1 {
			t.Errorf("expected to end in section 1, got %d", last.Section)
		}

		// Turning past the end is a no-op
		n := len(*seen)
		doc.Next()
		if len(*seen) != n {
			t.Error("expected no relocation past document end")
		}
	})

	t.Run("Prev At Start Is NoOp", func(t *testing.T) {
		doc, seen := open(t)

		doc.Prev()
		if len(*seen) != 0 {
			t.Errorf("expected no relocation, got %d", len(*seen))
		}
	})

	t.Run("GoToFraction Lands In Weighted Section", func(t *testing.T) {
		doc, seen := open(t)

		if err := doc.GoToFraction(0.9); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if len(*seen) != 1 || (*seen)[0].Section != 1 {
			t.Errorf("expected relocation into section 1, got %+v", *seen)
		}

		if err := doc.GoToFraction(0); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if last := (*seen)[len(*seen)-1]; last.Section != 0 || last.Fraction != 0 {
			t.Errorf("expected document start, got %+v", last)
		}
	})

	t.Run("GoTo Seeks By Href", func(t *testing.T) {
		doc, seen := open(t)

		toc := doc.TOC()
		if err := doc.GoTo(toc[1].Href); err != nil {
			t.Fatalf("seek failed: %v", err)
		}
		if last := (*seen)[len(*seen)-1]; last.Section != 1 {
			t.Errorf("expected section 1, got %+v", last)
		}

		if err := doc.GoTo("missing.xhtml"); !errors.Is(err, shared.ErrSeek) {
			t.Errorf("expected seek error, got %v", err)
		}
	})

	t.Run("Loads Styled Pages", func(t *testing.T) {
		doc, _ := open(t)

		var pages []reader.Page
		doc.OnSectionLoad(func(p reader.Page) { pages = append(pages, p) })

		doc.Next()
		if len(pages) != 1 {
			t.Fatalf("expected 1 page load, got %d", len(pages))
		}

		page := pages[0].(*textPage)
		if len(page.Lines()) == 0 {
			t.Error("expected page content")
		}
		rule := reader.StyleRule{FontScale: 120, Foreground: "#d4d4d4", Background: "#1e1e1e"}
		if err := page.ApplyStyle(rule); err != nil {
			t.Fatalf("apply style failed: %v", err)
		}
		if page.Rule() != rule {
			t.Errorf("expected stored rule %+v, got %+v", rule, page.Rule())
		}
	})
}
