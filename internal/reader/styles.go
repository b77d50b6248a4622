package reader

import (
	"sync"

	"github.com/desertthunder/folio/internal/models"
)

// themeColors maps each theme to its foreground/background pair.
var themeColors = map[models.Theme][2]string{
	models.ThemeLight: {"#1a1a1a", "#ffffff"},
	models.ThemeWarm:  {"#5b4636", "#f4ecd8"},
	models.ThemeDark:  {"#d4d4d4", "#1e1e1e"},
}

// Rule encodes display settings into the single managed style rule.
func Rule(settings models.DisplaySettings) StyleRule {
	settings = settings.Normalize()
	colors := themeColors[settings.Theme]
	return StyleRule{
		FontScale:  settings.FontScale,
		Foreground: colors[0],
		Background: colors[1],
	}
}

// StyleManager keeps the registry of currently materialized pages and
// re-applies display settings to all of them whenever settings change.
// It never owns pages: entries that stop accepting updates are dropped
// silently, since pages disappearing between registration and re-application
// is expected churn.
type StyleManager struct {
	mu       sync.Mutex
	settings models.DisplaySettings
	pages    map[string]Page
}

// NewStyleManager creates a StyleManager with the given initial settings.
func NewStyleManager(settings models.DisplaySettings) *StyleManager {
	return &StyleManager{
		settings: settings.Normalize(),
		pages:    make(map[string]Page),
	}
}

// Register styles a newly materialized page once and adds it to the registry.
// Existing pages are not re-touched.
func (m *StyleManager) Register(p Page) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := p.ApplyStyle(Rule(m.settings)); err != nil {
		return
	}
	m.pages[p.ID()] = p
}

// SetSettings updates the settings and re-applies them to every registered
// page. Returns the normalized settings now in effect.
func (m *StyleManager) SetSettings(settings models.DisplaySettings) models.DisplaySettings {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = settings.Normalize()
	rule := Rule(m.settings)
	for id, p := range m.pages {
		if err := p.ApplyStyle(rule); err != nil {
			delete(m.pages, id)
		}
	}
	return m.settings
}

// Settings returns the settings currently in effect.
func (m *StyleManager) Settings() models.DisplaySettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Len reports how many pages are currently registered.
func (m *StyleManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pages)
}

// Clear empties the registry. Called on session close; the pages themselves
// belong to the engine.
func (m *StyleManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[string]Page)
}
