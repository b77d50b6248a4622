package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/render"
	"github.com/desertthunder/folio/internal/services"
	"github.com/desertthunder/folio/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ShelfView ViewState = iota
	ReaderView
	TocView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	library  services.Library
	settings models.DisplaySettings
	logger   *log.Logger
	width    int
	height   int

	bookList list.Model
	entries  []models.LibraryEntry

	session    *reader.Session
	dispatcher *reader.Dispatcher
	events     chan tea.Msg
	lines      []string
	rule       reader.StyleRule
	chrome     bool

	tocList list.Model

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library services.Library, settings models.DisplaySettings, logger *log.Logger) *Model {
	return &Model{
		ctx:      ctx,
		view:     ShelfView,
		library:  library,
		settings: settings.Normalize(),
		logger:   logger,
		chrome:   true,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching the shelf from the content API.
func (m *Model) Init() tea.Cmd {
	return m.fetchShelf()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.bookList.Width() == 0 {
			m.bookList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.tocList.Width() == 0 {
			m.tocList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ShelfView:
			return m.handleShelfKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		case TocView:
			return m.handleTocKeys(msg)
		}

	case tea.MouseMsg:
		if m.view == ReaderView && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.dispatcher.Click(float64(msg.X), float64(m.width))
		}
		return m, nil

	case shelfFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.entries = msg.entries
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = bookItem{entry: entry}
		}
		m.bookList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.bookList.Title = "Library"
		m.bookList.SetSize(m.width-4, m.height-8)
		return m, nil

	case sessionOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.closeSession()
			m.view = ShelfView
			return m, nil
		}
		m.err = nil
		m.view = ReaderView
		return m, nil

	case pageLoadedMsg:
		m.lines = msg.lines
		m.rule = msg.rule
		return m, m.waitForEvent()

	case relocatedMsg:
		return m, m.waitForEvent()
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view == ShelfView && len(m.entries) == 0 {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ShelfView:
		return m.renderShelf()
	case ReaderView:
		return m.renderReader()
	case TocView:
		return m.renderToc()
	default:
		return ""
	}
}

func (m *Model) handleShelfKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.bookList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(bookItem); ok {
				return m, tea.Batch(m.openBook(item.entry.ContentID), m.waitForEvent())
			}
		}
	}

	var cmd tea.Cmd
	m.bookList, cmd = m.bookList.Update(msg)
	return m, cmd
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.closeSession()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeSession()
		m.view = ShelfView
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.dispatcher.Key(reader.KeyRight, false)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.dispatcher.Key(reader.KeyLeft, false)
		return m, nil
	case key.Matches(msg, m.keys.contents):
		return m.openToc()
	case key.Matches(msg, m.keys.theme):
		m.settings = m.session.SetTheme(nextTheme(m.settings.Theme))
		m.rule = reader.Rule(m.settings)
		return m, nil
	case key.Matches(msg, m.keys.fontUp):
		m.settings = m.session.SetFontScale(m.settings.FontScale + 10)
		m.rule = reader.Rule(m.settings)
		return m, nil
	case key.Matches(msg, m.keys.fontDown):
		m.settings = m.session.SetFontScale(m.settings.FontScale - 10)
		m.rule = reader.Rule(m.settings)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleTocKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.closeSession()
		return m, tea.Quit
	case "esc":
		m.dispatcher.SetModal(false)
		m.view = ReaderView
		return m, nil
	case "enter":
		selected := m.tocList.SelectedItem()
		if item, ok := selected.(tocItem); ok {
			if err := m.session.SeekHref(item.entry.Href); err != nil {
				m.logger.Warn("contents seek failed", "href", item.entry.Href, "error", err)
			}
		}
		m.dispatcher.SetModal(false)
		m.view = ReaderView
		return m, nil
	}

	var cmd tea.Cmd
	m.tocList, cmd = m.tocList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ShelfView:
		m.bookList, cmd = m.bookList.Update(msg)
	case TocView:
		m.tocList, cmd = m.tocList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchShelf() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.library.List(m.ctx)
		return shelfFetchedMsg{entries: entries, err: err}
	}
}

// openBook builds a fresh session over a page engine sized to the terminal
// and opens the selected document. Page and relocation callbacks feed the
// event channel so the open can run off the update loop.
func (m *Model) openBook(contentID string) tea.Cmd {
	width, height := m.width-4, m.height-6
	engine := render.NewEngine(width, height, m.logger)

	m.events = make(chan tea.Msg, 16)
	events := m.events

	sess := reader.NewSession(m.library, engine, reader.SessionOpts{
		Settings: m.settings,
		Logger:   m.logger,
	})
	sess.OnPage(func(p reader.Page) {
		lined, ok := p.(interface {
			Lines() []string
			Rule() reader.StyleRule
		})
		if !ok {
			return
		}
		select {
		case events <- pageLoadedMsg{lines: lined.Lines(), rule: lined.Rule()}:
		default:
		}
	})
	sess.OnRelocate(func(reader.Relocation) {
		select {
		case events <- relocatedMsg{}:
		default:
		}
	})

	m.session = sess
	m.dispatcher = reader.NewDispatcher(sess, m.toggleChrome)
	m.lines = nil
	m.rule = reader.Rule(m.settings)

	return func() tea.Msg {
		if err := sess.Open(m.ctx, contentID); err != nil {
			return sessionOpenedMsg{err: err}
		}
		if sess.Position().Progress == 0 {
			// A fresh open restores nothing, so no page has materialized yet.
			if err := sess.SeekFraction(0); err != nil {
				return sessionOpenedMsg{err: err}
			}
		}
		return sessionOpenedMsg{}
	}
}

func (m *Model) openToc() (tea.Model, tea.Cmd) {
	flat := m.session.TOC()
	items := make([]list.Item, len(flat))
	for i, entry := range flat {
		items[i] = tocItem{entry: entry}
	}
	m.tocList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.tocList.Title = "Contents"
	m.tocList.SetSize(m.width-4, m.height-8)
	m.dispatcher.SetModal(true)
	m.view = TocView
	return m, nil
}

// waitForEvent relays the next page or relocation event from the session's
// callbacks into the update loop.
func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func (m *Model) toggleChrome() {
	m.chrome = !m.chrome
}

func (m *Model) closeSession() {
	if m.session != nil {
		m.session.Close()
		m.session = nil
		m.dispatcher = nil
	}
	if m.events != nil {
		// Unblocks any pending event receiver; a closed channel yields a nil
		// message, which the program loop discards.
		close(m.events)
		m.events = nil
	}
}

func (m *Model) renderShelf() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	if m.err != nil {
		failure := styles.err.Render(fmt.Sprintf("Could not open book: %v", m.err))
		return fmt.Sprintf("%s\n%s\n\n%s", m.bookList.View(), failure, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.bookList.View(), helpView)
}

func (m *Model) renderReader() string {
	if m.session == nil {
		return ""
	}

	body := pageStyle(m.rule).Render(joinLines(m.lines))
	if !m.chrome {
		return body
	}

	pos := m.session.Position()
	header := styles.title.Render(m.session.Title())
	status := fmt.Sprintf("%s  %s", shared.FormatProgress(pos.Progress), pos.ChapterTitle)

	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.contents, m.keys.theme, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, styles.help.Render(status), body, helpView)
}

func (m *Model) renderToc() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.tocList.View(), helpView)
}

func joinLines(lines []string) string {
	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

func nextTheme(t models.Theme) models.Theme {
	switch t {
	case models.ThemeLight:
		return models.ThemeWarm
	case models.ThemeWarm:
		return models.ThemeDark
	default:
		return models.ThemeLight
	}
}
