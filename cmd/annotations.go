package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/folio/internal/formatter"
	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// AnnotationsList fetches and prints a book's highlights and notes.
func (r *Runner) AnnotationsList(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if contentID == "" {
		return fmt.Errorf("%w: book content ID is required", shared.ErrMissingArgument)
	}

	anns, err := r.library.Annotations(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to fetch annotations: %w", err)
	}

	if useJSON {
		return r.writeJSON(anns, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Annotations (%d)", len(anns)))
	for i, ann := range anns {
		r.writePlain("%d. [%s/%s] %s\n", i+1, ann.Type, ann.Color, ann.SelectedText)
		if ann.Note != "" {
			r.writePlain("   %s\n", ann.Note)
		}
	}
	return nil
}

// AnnotationsExport writes a book's annotations to a file in the requested format.
func (r *Runner) AnnotationsExport(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.StringArg("id")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	if contentID == "" {
		return fmt.Errorf("%w: book content ID is required", shared.ErrMissingArgument)
	}

	detail, err := r.library.Detail(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to fetch book: %w", err)
	}

	anns, err := r.library.Annotations(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to fetch annotations: %w", err)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("annotations_%s.%s", contentID, exportExtension(format))
	}

	written, err := formatter.WriteAnnotationsExport(detail.Title, anns, format, outputPath)
	if err != nil {
		return fmt.Errorf("failed to export annotations: %w", err)
	}

	r.logger.Info("annotations exported", "content_id", contentID, "path", written)
	r.writePlainln("✓ Exported %d annotations to %s", len(anns), written)
	return nil
}

// AnnotationsDelete removes one annotation from a book.
func (r *Runner) AnnotationsDelete(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.String("book")
	annotationID := cmd.String("id")

	if err := r.library.DeleteAnnotation(ctx, contentID, annotationID); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}

	r.writePlainln("✓ Annotation %s deleted", annotationID)
	return nil
}

// BookmarksList fetches and prints a book's bookmarks.
func (r *Runner) BookmarksList(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")

	if contentID == "" {
		return fmt.Errorf("%w: book content ID is required", shared.ErrMissingArgument)
	}

	bms, err := r.library.Bookmarks(ctx, contentID)
	if err != nil {
		return fmt.Errorf("failed to fetch bookmarks: %w", err)
	}

	if useJSON {
		return r.writeJSON(bms, true)
	}

	r.writePlainHeader(fmt.Sprintf("Bookmarks (%d)", len(bms)))
	for i, bm := range bms {
		title := bm.Title
		if title == "" {
			title = bm.SectionTitle
		}
		r.writePlain("%d. %s  [%s]\n", i+1, title, bm.ID)
	}
	return nil
}

// BookmarksAdd creates a bookmark on the server.
func (r *Runner) BookmarksAdd(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.StringArg("id")
	title := cmd.String("title")
	section := cmd.String("section")

	if contentID == "" {
		return fmt.Errorf("%w: book content ID is required", shared.ErrMissingArgument)
	}

	created, err := r.library.AddBookmark(ctx, contentID, models.Bookmark{
		Title:        title,
		SectionTitle: section,
	})
	if err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}

	r.writePlainln("✓ Bookmark added: %s", created.ID)
	return nil
}

// BookmarksDelete removes one bookmark from a book.
func (r *Runner) BookmarksDelete(ctx context.Context, cmd *cli.Command) error {
	contentID := cmd.String("book")
	bookmarkID := cmd.String("id")

	if err := r.library.DeleteBookmark(ctx, contentID, bookmarkID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	r.writePlainln("✓ Bookmark %s deleted", bookmarkID)
	return nil
}

func exportExtension(format string) string {
	switch format {
	case "csv":
		return "csv"
	case "markdown":
		return "md"
	case "txt":
		return "txt"
	default:
		return "json"
	}
}
