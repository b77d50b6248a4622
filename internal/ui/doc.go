// Package ui implements an interactive terminal reader using bubbletea's Elm architecture.
//
// The TUI provides a multi-view reading workflow:
//  1. [ShelfView] : Browse the remote library and pick a book
//  2. [ReaderView] : Page through the open document
//  3. [TocView] : Jump to a chapter from the table of contents
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Page and relocation events flow through a channel from the reading session's
// callbacks, so opening and restoring a book never blocks the update loop.
//
// Keyboard navigation uses vim-style bindings (h/l for pages, j/k in lists, t
// for contents, c for theme, q to quit) with contextual help displayed via
// charmbracelet/bubbles/help. Mouse clicks follow reading-app convention: the
// left quarter of the window pages back, the right quarter pages forward, and
// the middle toggles the header and help chrome.
package ui
