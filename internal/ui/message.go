package ui

import (
	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
)

// shelfFetchedMsg carries the shelf listing from the content API.
type shelfFetchedMsg struct {
	entries []models.LibraryEntry
	err     error
}

// sessionOpenedMsg signals that a reading session finished opening.
type sessionOpenedMsg struct {
	err error
}

// pageLoadedMsg carries a freshly materialized page for display.
type pageLoadedMsg struct {
	lines []string
	rule  reader.StyleRule
}

// relocatedMsg signals a position change inside the open document.
type relocatedMsg struct{}
