package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/folio/internal/models"
)

// BulkDownloadOpts contains configuration for bulk payload downloads.
type BulkDownloadOpts struct {
	OutputDir  string  // Download directory (default: folio_download_{epoch})
	NumWorkers int     // Concurrent workers (default: 4)
	RateLimit  float64 // Requests per second (default: 2)
}

// DownloadJob is one book queued for download.
type DownloadJob struct {
	ContentID string
	Title     string
}

// DownloadResult is the outcome for one book.
type DownloadResult struct {
	ContentID string
	Title     string
	Path      string
	Bytes     int64
	Success   bool
	Error     error
}

// BulkDownloadResult summarizes a bulk download run.
type BulkDownloadResult struct {
	TotalBooks      int
	Downloaded      int
	Failed          int
	OutputDirectory string
	Results         []DownloadResult
}

// BulkDownload fetches multiple book payloads concurrently with rate
// limiting and progress tracking.
//
// Payloads land in OutputDir as {content_id}.epub; when a book cache is
// configured, each downloaded path is recorded so offline reads can find
// the file later. Partial failures are collected, not fatal.
func (e *LibraryEngine) BulkDownload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkDownloadOpts,
) (*BulkDownloadResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("folio_download_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkDownloadResult{
		TotalBooks:      len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]DownloadResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan DownloadJob, len(ids))
	results := make(chan DownloadResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.downloadWorker(ctx, &wg, limiter, jobs, results, opts)
	}

	go func() {
		for i, contentID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			job := DownloadJob{ContentID: contentID}
			if e.books != nil {
				if book, err := e.books.GetByContentID(contentID); err == nil {
					job.Title = book.Title()
				}
			}
			if job.Title == "" {
				job.Title = contentID
			}

			jobs <- job
			e.sendProgress(prog, downloadQueuedUpdate(i+1, len(ids), job.Title))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Downloaded++
			e.sendProgress(prog, downloadCompletedUpdate(completed, len(ids), res.Title, res.Bytes))
		} else {
			result.Failed++
			e.sendProgress(prog, downloadFailedUpdate(completed, len(ids), res.Title, res.Error))
		}
	}

	return result, nil
}

// downloadWorker is a worker goroutine that downloads payloads from the jobs channel.
func (e *LibraryEngine) downloadWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan DownloadJob,
	results chan<- DownloadResult,
	opts BulkDownloadOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			return
		}

		results <- e.downloadSingle(ctx, job, opts)
	}
}

// downloadSingle fetches one payload and records its path in the book cache.
func (e *LibraryEngine) downloadSingle(ctx context.Context, job DownloadJob, opts BulkDownloadOpts) DownloadResult {
	result := DownloadResult{
		ContentID: job.ContentID,
		Title:     job.Title,
	}

	payload, err := e.library.Download(ctx, job.ContentID)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		return result
	}

	path := filepath.Join(opts.OutputDir, job.ContentID+".epub")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		result.Error = fmt.Errorf("write failed: %w", err)
		return result
	}

	result.Path = path
	result.Bytes = int64(len(payload))
	result.Success = true

	if e.books != nil {
		e.recordDownload(job.ContentID, job.Title, path, result.Bytes)
	}
	return result
}

// recordDownload points the cached book row at the downloaded file,
// creating the row when the shelf has not been pulled yet. Cache failures
// are logged and swallowed like any other local write failure.
func (e *LibraryEngine) recordDownload(contentID, title, path string, size int64) {
	book, err := e.books.GetByContentID(contentID)
	if err != nil {
		book = models.NewCachedBook(0, contentID, title, "", "epub", size)
		book.SetPayloadPath(path)
		if err := e.books.Create(book); err != nil && e.logger != nil {
			e.logger.Warn("failed to cache download", "content_id", contentID, "error", err)
		}
		return
	}

	book.SetPayloadPath(path)
	if err := e.books.Update(book); err != nil && e.logger != nil {
		e.logger.Warn("failed to record download path", "content_id", contentID, "error", err)
	}
}
