// package tasks implements long-running library operations against the
// content aggregation backend.
//
// The core abstraction is LibraryEngine, which orchestrates bulk downloads
// and position synchronization. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/services"
)

// BookCacher persists library metadata locally. Implemented by
// repositories.BookRepository.
type BookCacher interface {
	GetByContentID(contentID string) (*models.CachedBook, error)
	Create(book *models.CachedBook) error
	Update(book *models.CachedBook) error
}

// PositionCacher persists reading positions locally. Implemented by
// repositories.PositionRepository.
type PositionCacher interface {
	Upsert(contentID string, progress float64, sectionTitle string) (*models.CachedPosition, error)
	Update(pos *models.CachedPosition) error
	List(criteria map[string]any) ([]*models.CachedPosition, error)
}

// LibraryEngine orchestrates bulk downloads and cache synchronization.
//
// The remote API stays authoritative: pull overwrites local state, and
// pushed positions are marked synced only after the remote accepts them.
type LibraryEngine struct {
	library   services.Library
	books     BookCacher
	positions PositionCacher
	logger    *log.Logger
}

// NewLibraryEngine creates an engine over the given library client and
// local caches. Either cacher may be nil, disabling the operations that
// need it.
func NewLibraryEngine(library services.Library, books BookCacher, positions PositionCacher, logger *log.Logger) *LibraryEngine {
	return &LibraryEngine{
		library:   library,
		books:     books,
		positions: positions,
		logger:    logger,
	}
}

// sendProgress delivers an update without blocking when the receiver lags.
func (e *LibraryEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// SyncResult summarizes one position synchronization run.
type SyncResult struct {
	Pushed      int // Local positions written to the remote
	PushFailed  int // Local positions the remote rejected
	Pulled      int // Shelf entries mirrored into the cache
	BooksCached int // New book rows created during the pull
}

// SyncPositions pushes locally modified reading positions to the remote and
// then pulls the shelf, mirroring books and positions into the cache. The
// remote value wins on conflict.
func (e *LibraryEngine) SyncPositions(ctx context.Context, prog chan<- ProgressUpdate) (*SyncResult, error) {
	if e.positions == nil || e.books == nil {
		return nil, fmt.Errorf("sync requires local caches")
	}

	result := &SyncResult{}

	unsynced, err := e.positions.List(map[string]any{"unsynced": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced positions: %w", err)
	}

	for i, pos := range unsynced {
		e.sendProgress(prog, pushPositionUpdate(i+1, len(unsynced), pos.ContentID()))

		err := e.library.SavePosition(ctx, pos.ContentID(), models.ReadingPosition{
			Progress:     pos.Progress(),
			ChapterTitle: pos.SectionTitle(),
		})
		if err != nil {
			result.PushFailed++
			if e.logger != nil {
				e.logger.Warn("failed to push position", "content_id", pos.ContentID(), "error", err)
			}
			continue
		}

		pos.MarkSynced(time.Now().UTC())
		if err := e.positions.Update(pos); err != nil && e.logger != nil {
			e.logger.Warn("failed to record sync time", "content_id", pos.ContentID(), "error", err)
		}
		result.Pushed++
	}

	e.sendProgress(prog, fetchShelfUpdate())
	entries, err := e.library.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to fetch shelf: %w", err)
	}

	for i, entry := range entries {
		e.sendProgress(prog, pullPositionUpdate(i+1, len(entries), entry.Title))

		if _, err := e.books.GetByContentID(entry.ContentID); err != nil {
			book := models.NewCachedBook(0, entry.ContentID, entry.Title, entry.Author, entry.Format, entry.FileSize)
			if err := e.books.Create(book); err != nil {
				if e.logger != nil {
					e.logger.Warn("failed to cache book", "content_id", entry.ContentID, "error", err)
				}
				continue
			}
			result.BooksCached++
		}

		if entry.Progress > 0 {
			pos, err := e.positions.Upsert(entry.ContentID, entry.Progress, entry.SectionTitle)
			if err != nil {
				if e.logger != nil {
					e.logger.Warn("failed to cache position", "content_id", entry.ContentID, "error", err)
				}
				continue
			}
			pos.MarkSynced(time.Now().UTC())
			if err := e.positions.Update(pos); err != nil && e.logger != nil {
				e.logger.Warn("failed to record sync time", "content_id", entry.ContentID, "error", err)
			}
		}
		result.Pulled++
	}

	return result, nil
}
