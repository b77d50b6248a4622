package reader

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/folio/internal/models"
)

// DefaultSaveDelay is the quiet period after the last page turn before the
// position is persisted.
const DefaultSaveDelay = 5 * time.Second

// SaveFunc persists a reading position. Failures are logged and discarded;
// persistence is best-effort and must never block reading.
type SaveFunc func(pos models.ReadingPosition) error

// Saver debounces position writes. It is a two-state machine: idle, and
// pending with a scheduled flush. Every Note while pending resets the delay,
// so rapid page turns collapse into a single write after the reader settles.
// Flush persists immediately and cancels any scheduled write.
type Saver struct {
	mu      sync.Mutex
	delay   time.Duration
	save    SaveFunc
	logger  *log.Logger
	timer   *time.Timer
	pending bool
	last    models.ReadingPosition
	saves   int
}

// NewSaver creates a Saver invoking save after delay. A non-positive delay
// falls back to [DefaultSaveDelay].
func NewSaver(delay time.Duration, save SaveFunc, logger *log.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{delay: delay, save: save, logger: logger}
}

// Note records a new position and (re)schedules the delayed write.
func (s *Saver) Note(pos models.ReadingPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = pos
	s.pending = true

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

// fire is the timer callback; the pending check catches a Flush or Stop that
// won the race with an already-expired timer.
func (s *Saver) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return
	}
	s.flushLocked()
}

// Flush persists the pending position immediately and cancels the scheduled
// write, so a forced flush never produces a duplicate save. No-op when idle.
func (s *Saver) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.flushLocked()
}

// Stop cancels any scheduled write without persisting.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}

// Saves reports how many write attempts have been made.
func (s *Saver) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Saver) flushLocked() {
	s.pending = false

	// Nothing meaningful to persist yet
	if s.last.Progress <= 0 {
		return
	}

	s.saves++
	if err := s.save(s.last); err != nil && s.logger != nil {
		s.logger.Warn("position save failed", "error", err)
	}
}
