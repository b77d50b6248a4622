package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

var (
	_ list.Item = bookItem{}
	_ list.Item = tocItem{}
)

// bookItem wraps [models.LibraryEntry] to implement [list.Item].
type bookItem struct {
	entry models.LibraryEntry
}

func (i bookItem) FilterValue() string { return i.entry.Title }
func (i bookItem) Title() string       { return i.entry.Title }
func (i bookItem) Description() string {
	desc := i.entry.Author
	if desc == "" {
		desc = i.entry.Format
	}
	if i.entry.Progress > 0 {
		desc = fmt.Sprintf("%s • %s read", desc, shared.FormatProgress(i.entry.Progress))
	}
	return desc
}

// tocItem wraps [models.FlatTocEntry] to implement [list.Item].
type tocItem struct {
	entry models.FlatTocEntry
}

func (i tocItem) FilterValue() string { return i.entry.Title }
func (i tocItem) Title() string {
	return strings.Repeat("  ", i.entry.Depth) + i.entry.Title
}
func (i tocItem) Description() string { return i.entry.Href }
