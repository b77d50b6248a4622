package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/folio/internal/formatter"
	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/shared"
	"github.com/desertthunder/folio/internal/tasks"
)

// LibraryList fetches the shelf and prints it.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	useCSV := cmd.Bool("csv")

	r.logger.Info("fetching shelf")

	entries, err := r.library.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch shelf: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	if useCSV {
		data, err := formatter.ShelfToCSV(entries)
		if err != nil {
			return fmt.Errorf("failed to format shelf: %w", err)
		}
		return r.writePlain("%s", data)
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d books)", len(entries)))
	for _, entry := range entries {
		r.writePlain("%s  %s", shared.FormatProgress(entry.Progress), entry.Title)
		if entry.Author != "" {
			r.writePlain(" — %s", entry.Author)
		}
		r.writePlain("  [%s]\n", entry.ContentID)
	}

	return nil
}

// LibraryToc fetches a book's table of contents and prints it.
func (r *Runner) LibraryToc(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.StringArg("id")
	format := cmd.String("format")

	if contentID == "" {
		return fmt.Errorf("%w: book content ID is required", shared.ErrMissingArgument)
	}

	detail, err := r.library.Detail(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	flat := reader.FlattenTOC(reader.NormalizeTOC(detail.Toc))

	switch format {
	case "markdown":
		return r.writePlain("%s", formatter.TocToMarkdown(detail.Title, flat))
	case "json":
		return r.writeJSON(flat, true)
	default:
		return r.writePlain("%s", formatter.TocToText(flat))
	}
}

// LibrarySync pushes unsynced cached positions to the server and pulls the
// shelf into the local cache.
func (r *Runner) LibrarySync(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	engine, closer, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closer()

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.SyncPositions(ctx, prog)
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.writePlainln("✓ Sync complete")
	r.writePlain("  Pushed: %d (%d failed)\n", result.Pushed, result.PushFailed)
	r.writePlain("  Pulled: %d positions, %d books cached\n", result.Pulled, result.BooksCached)
	return nil
}

// LibraryDownload downloads book payloads concurrently for offline reading.
func (r *Runner) LibraryDownload(ctx context.Context, cmd *cli.Command) error {
	contentIDs := cmd.StringArgs("ids")
	outputDir := cmd.String("output")
	workers := cmd.Int("workers")
	all := cmd.Bool("all")

	if outputDir == "" {
		outputDir = r.config.Reader.DownloadDir
	}
	if outputDir == "" {
		outputDir = "downloads"
	}

	if all {
		entries, err := r.library.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch shelf: %w", err)
		}
		contentIDs = make([]string, 0, len(entries))
		for _, entry := range entries {
			contentIDs = append(contentIDs, entry.ContentID)
		}
	}

	if len(contentIDs) == 0 {
		return fmt.Errorf("%w: no content IDs given (pass ids or --all)", shared.ErrMissingArgument)
	}

	engine, closer, err := r.openEngine()
	if err != nil {
		return err
	}
	defer closer()

	r.logger.Info("starting bulk download", "count", len(contentIDs), "dir", outputDir)

	prog := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkDownload(ctx, prog, contentIDs, tasks.BulkDownloadOpts{
		OutputDir:  outputDir,
		NumWorkers: int(workers),
	})
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("bulk download failed: %w", err)
	}

	r.writePlainln("✓ Downloaded %d of %d books to %s", result.Downloaded, result.TotalBooks, outputDir)
	if result.Failed > 0 {
		r.writePlain("  %d downloads failed\n", result.Failed)
	}
	return nil
}
