// package services defines interface Library for the content aggregation API
package services

import (
	"context"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
)

// Library defines the remote operations the reading client needs: shelf
// listing, document retrieval, position persistence, and the annotation and
// bookmark collections kept alongside each book.
type Library interface {
	reader.Store

	// List retrieves the shelf entries for every book on the server.
	List(ctx context.Context) ([]models.LibraryEntry, error)

	// Detail retrieves metadata, the raw table of contents, and the stored
	// reading position for one book.
	Detail(ctx context.Context, contentID string) (*BookDetail, error)

	// Download retrieves the binary document payload.
	Download(ctx context.Context, contentID string) ([]byte, error)

	// Annotations retrieves all annotations for one book.
	Annotations(ctx context.Context, contentID string) ([]models.Annotation, error)

	// AddAnnotation creates an annotation and returns it with its server id.
	AddAnnotation(ctx context.Context, contentID string, ann models.Annotation) (*models.Annotation, error)

	// DeleteAnnotation removes an annotation by id.
	DeleteAnnotation(ctx context.Context, contentID, annotationID string) error

	// Bookmarks retrieves all bookmarks for one book.
	Bookmarks(ctx context.Context, contentID string) ([]models.Bookmark, error)

	// AddBookmark creates a bookmark and returns it with its server id.
	AddBookmark(ctx context.Context, contentID string, bm models.Bookmark) (*models.Bookmark, error)

	// DeleteBookmark removes a bookmark by id.
	DeleteBookmark(ctx context.Context, contentID, bookmarkID string) error
}

// BookDetail is the full server-side record for one book.
type BookDetail struct {
	ContentID string              `json:"content_id"`
	Title     string              `json:"title"`
	Author    string              `json:"author"`
	Format    string              `json:"format"`
	FileSize  int64               `json:"file_size"`
	Toc       []reader.RawTocNode `json:"toc"`
	Progress  StoredProgress      `json:"progress"`
}

// StoredProgress is the reading position as the server stores it. Cfi is
// reserved for renderer-native locators and is always null on the wire;
// the progress fraction is the authoritative resume point.
type StoredProgress struct {
	Cfi          *string `json:"cfi"`
	Progress     float64 `json:"progress"`
	SectionIndex int     `json:"section_index"`
	SectionTitle string  `json:"section_title"`
	UpdatedAt    string  `json:"updated_at"`
}
