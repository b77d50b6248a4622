package reader

import "sync"

// Swipe recognition constants: minimum horizontal travel in pixels, and how
// strongly horizontal motion must dominate vertical motion.
const (
	SwipeThreshold = 40.0
	swipeDominance = 1.5
)

// Navigator is the narrow navigation surface the dispatcher drives.
type Navigator interface {
	Next()
	Prev()
}

// Key identifies the navigation keys the dispatcher understands.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

// Dispatcher routes keyboard keys, click zones, and swipe gestures into
// next/prev navigation. Boundary behavior is the engine's concern: prev on
// the first page and next on the last are no-ops there.
type Dispatcher struct {
	mu           sync.Mutex
	nav          Navigator
	toggleChrome func()
	modal        bool
}

// NewDispatcher creates a Dispatcher over nav. toggleChrome is invoked for
// middle-zone clicks and may be nil.
func NewDispatcher(nav Navigator, toggleChrome func()) *Dispatcher {
	return &Dispatcher{nav: nav, toggleChrome: toggleChrome}
}

// SetModal suppresses keyboard handling while an overlay claims focus.
func (d *Dispatcher) SetModal(modal bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modal = modal
}

// Key handles a navigation key press. Keys are ignored while a modal overlay
// is on top or focus sits inside a text input. Returns true when the key
// triggered navigation.
func (d *Dispatcher) Key(key Key, inTextInput bool) bool {
	d.mu.Lock()
	modal := d.modal
	d.mu.Unlock()

	if modal || inTextInput {
		return false
	}

	switch key {
	case KeyLeft:
		d.nav.Prev()
		return true
	case KeyRight:
		d.nav.Next()
		return true
	}
	return false
}

// Click handles a click at horizontal position x on a page of the given
// width: the left quarter pages back, the right quarter pages forward, and
// the middle half toggles chrome visibility. Returns true when the click
// triggered navigation.
func (d *Dispatcher) Click(x, width float64) bool {
	if width <= 0 {
		return false
	}

	switch {
	case x < width*0.25:
		d.nav.Prev()
		return true
	case x > width*0.75:
		d.nav.Next()
		return true
	default:
		if d.toggleChrome != nil {
			d.toggleChrome()
		}
		return false
	}
}

// Swipe handles a completed touch gesture with total travel (dx, dy).
// A gesture navigates only when its horizontal travel exceeds the threshold
// and dominates the vertical travel. Returns true when the swipe triggered
// navigation.
func (d *Dispatcher) Swipe(dx, dy float64) bool {
	h, v := abs(dx), abs(dy)
	if h < SwipeThreshold || h < v*swipeDominance {
		return false
	}

	if dx > 0 {
		d.nav.Prev()
	} else {
		d.nav.Next()
	}
	return true
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
