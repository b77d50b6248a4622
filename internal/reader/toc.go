package reader

import (
	"sort"

	"github.com/desertthunder/folio/internal/models"
)

// RawTocNode tolerates the two table-of-contents shapes seen in the wild:
// the content API's title/href/children and the renderer's label/target/items.
type RawTocNode struct {
	Title    string       `json:"title"`
	Href     string       `json:"href"`
	Children []RawTocNode `json:"children"`

	Label  string       `json:"label"`
	Target string       `json:"target"`
	Items  []RawTocNode `json:"items"`
}

// NormalizeTOC maps raw TOC nodes of either shape into the canonical
// [models.TocEntry] tree. Field pairs are merged per node, so mixed trees
// normalize correctly.
func NormalizeTOC(raw []RawTocNode) []models.TocEntry {
	if len(raw) == 0 {
		return nil
	}

	entries := make([]models.TocEntry, 0, len(raw))
	for _, node := range raw {
		title := node.Title
		if title == "" {
			title = node.Label
		}
		href := node.Href
		if href == "" {
			href = node.Target
		}

		children := node.Children
		if len(children) == 0 {
			children = node.Items
		}

		entries = append(entries, models.TocEntry{
			Title:    title,
			Href:     href,
			Children: NormalizeTOC(children),
		})
	}
	return entries
}

// FlattenTOC performs a pre-order walk of the TOC tree, producing a flat,
// depth-annotated list for linear display.
func FlattenTOC(tree []models.TocEntry) []models.FlatTocEntry {
	var flat []models.FlatTocEntry
	var walk func(entries []models.TocEntry, depth int)
	walk = func(entries []models.TocEntry, depth int) {
		for _, e := range entries {
			flat = append(flat, models.FlatTocEntry{Title: e.Title, Href: e.Href, Depth: depth})
			walk(e.Children, depth+1)
		}
	}
	walk(tree, 0)
	return flat
}

// ChapterIndex is a sparse mapping from section index to chapter title.
// A section with no direct entry inherits the title of the nearest lower
// section that has one.
type ChapterIndex struct {
	titles   map[int]string
	sections []int // keys of titles, ascending
}

// BuildChapterIndex resolves every TOC entry's href to a section index via the
// supplied resolver. Entries whose href cannot be resolved are skipped; TOC
// entries may point at anchors inside sections or be stale, so this is not an
// error. When multiple entries resolve to the same section, the last one in
// document order wins.
func BuildChapterIndex(tree []models.TocEntry, resolve func(href string) (int, bool)) ChapterIndex {
	titles := make(map[int]string)
	for _, entry := range FlattenTOC(tree) {
		section, ok := resolve(entry.Href)
		if !ok {
			continue
		}
		titles[section] = entry.Title
	}

	sections := make([]int, 0, len(titles))
	for s := range titles {
		sections = append(sections, s)
	}
	sort.Ints(sections)

	return ChapterIndex{titles: titles, sections: sections}
}

// Lookup returns the chapter title in effect at the given section: the entry
// at the nearest section index at or before it. The second return is false
// when no heading precedes the section.
func (ci ChapterIndex) Lookup(section int) (string, bool) {
	// Largest indexed section <= section
	i := sort.SearchInts(ci.sections, section+1) - 1
	if i < 0 {
		return "", false
	}
	return ci.titles[ci.sections[i]], true
}

// Len reports how many sections have a direct chapter heading.
func (ci ChapterIndex) Len() int { return len(ci.titles) }
