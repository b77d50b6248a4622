package reader

import (
	"testing"

	"github.com/desertthunder/folio/internal/models"
)

func TestRule(t *testing.T) {
	t.Run("Theme Palettes", func(t *testing.T) {
		cases := []struct {
			theme models.Theme
			fg    string
			bg    string
		}{
			{models.ThemeLight, "#1a1a1a", "#ffffff"},
			{models.ThemeWarm, "#5b4636", "#f4ecd8"},
			{models.ThemeDark, "#d4d4d4", "#1e1e1e"},
		}
		for _, c := range cases {
			rule := Rule(models.DisplaySettings{FontScale: 100, Theme: c.theme})
			if rule.Foreground != c.fg || rule.Background != c.bg {
				t.Errorf("%s: expected %s on %s, got %s on %s",
					c.theme, c.fg, c.bg, rule.Foreground, rule.Background)
			}
		}
	})

	t.Run("Clamps Font Scale", func(t *testing.T) {
		rule := Rule(models.DisplaySettings{FontScale: 300, Theme: models.ThemeLight})
		if rule.FontScale != models.MaxFontScale {
			t.Errorf("expected clamp to %d, got %d", models.MaxFontScale, rule.FontScale)
		}

		rule = Rule(models.DisplaySettings{FontScale: 10, Theme: models.ThemeLight})
		if rule.FontScale != models.MinFontScale {
			t.Errorf("expected clamp to %d, got %d", models.MinFontScale, rule.FontScale)
		}
	})
}

func TestStyleManager(t *testing.T) {
	settings := models.DisplaySettings{FontScale: 100, Theme: models.ThemeLight}

	t.Run("Styles Pages On Registration", func(t *testing.T) {
		manager := NewStyleManager(settings)
		page := &fakePage{id: "p1"}

		manager.Register(page)

		if got := page.calls(); got != 1 {
			t.Errorf("expected 1 style call on registration, got %d", got)
		}
		if manager.Len() != 1 {
			t.Errorf("expected 1 tracked page, got %d", manager.Len())
		}
	})

	t.Run("Broadcasts Only To Registered Pages", func(t *testing.T) {
		manager := NewStyleManager(settings)
		loaded := []*fakePage{{id: "p1"}, {id: "p2"}, {id: "p3"}}
		for _, p := range loaded {
			manager.Register(p)
		}
		unloaded := &fakePage{id: "p4"}

		manager.SetSettings(models.DisplaySettings{FontScale: 100, Theme: models.ThemeDark})

		for _, p := range loaded {
			if got := p.calls(); got != 2 {
				t.Errorf("page %s: expected 2 style calls, got %d", p.id, got)
			}
			if p.lastRule.Background != "#1e1e1e" {
				t.Errorf("page %s: expected dark background, got %s", p.id, p.lastRule.Background)
			}
		}
		if got := unloaded.calls(); got != 0 {
			t.Errorf("unregistered page: expected 0 style calls, got %d", got)
		}
	})

	t.Run("Drops Failing Pages", func(t *testing.T) {
		manager := NewStyleManager(settings)
		healthy := &fakePage{id: "p1"}
		detached := &fakePage{id: "p2"}
		manager.Register(healthy)
		manager.Register(detached)
		detached.fail = true

		manager.SetSettings(models.DisplaySettings{FontScale: 120, Theme: models.ThemeWarm})

		if manager.Len() != 1 {
			t.Errorf("expected failing page to be dropped, tracked %d", manager.Len())
		}
		if got := healthy.calls(); got != 2 {
			t.Errorf("expected healthy page restyled, got %d calls", got)
		}
	})

	t.Run("Skips Failing Page At Registration", func(t *testing.T) {
		manager := NewStyleManager(settings)
		page := &fakePage{id: "p1", fail: true}

		manager.Register(page)

		if manager.Len() != 0 {
			t.Errorf("expected failing page not tracked, got %d", manager.Len())
		}
	})

	t.Run("Clear Forgets All Pages", func(t *testing.T) {
		manager := NewStyleManager(settings)
		page := &fakePage{id: "p1"}
		manager.Register(page)

		manager.Clear()
		manager.SetSettings(models.DisplaySettings{FontScale: 100, Theme: models.ThemeDark})

		if got := page.calls(); got != 1 {
			t.Errorf("expected no restyle after clear, got %d calls", got)
		}
	})
}
