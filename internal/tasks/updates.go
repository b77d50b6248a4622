package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchShelf Phase = iota
	PushPositions
	PullPositions
	DownloadBooks
)

func (p Phase) String() string {
	switch p {
	case FetchShelf:
		return "fetch_shelf"
	case PushPositions:
		return "push_positions"
	case PullPositions:
		return "pull_positions"
	case DownloadBooks:
		return "download_books"
	default:
		return ""
	}
}

func fetchShelfUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchShelf,
		Step:    1,
		Total:   1,
		Message: "Fetching shelf from the library...",
	}
}

func pushPositionUpdate(step, total int, contentID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushPositions,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Pushing position for %s...", step, total, contentID),
	}
}

func pullPositionUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PullPositions,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching: %s", step, total, title),
	}
}

func downloadQueuedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadBooks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s...", step, total, title),
	}
}

func downloadCompletedUpdate(step, total int, title string, bytes int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadBooks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes)", step, total, title, bytes),
	}
}

func downloadFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadBooks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
