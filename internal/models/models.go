// package models defines the data model for the folio content client
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the local cache.
// Implementations include CachedBook and CachedPosition.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Book is an immutable fetched document: identity, display title, and the raw binary payload.
// The payload is owned by the reading session for its lifetime and released on close.
type Book struct {
	ContentID string
	Title     string
	Author    string
	Payload   []byte
}

// TocEntry is a node in the canonical table-of-contents tree.
// Href is an opaque target reference understood by the pagination engine.
type TocEntry struct {
	Title    string
	Href     string
	Children []TocEntry
}

// FlatTocEntry is a depth-annotated entry from a pre-order walk of the TOC tree,
// used for linear display.
type FlatTocEntry struct {
	Title string
	Href  string
	Depth int
}

// ReadingPosition is the authoritative reading location: a global fraction of the
// whole document plus the chapter heading in effect at that point.
type ReadingPosition struct {
	Progress     float64 // Fraction in [0,1]
	ChapterTitle string  // Empty when no heading applies
}

// Theme enumerates the reader display themes.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeWarm
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeWarm:
		return "warm"
	case ThemeDark:
		return "dark"
	default:
		return ""
	}
}

// ParseTheme maps a config string to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	switch s {
	case "warm":
		return ThemeWarm
	case "dark":
		return ThemeDark
	default:
		return ThemeLight
	}
}

// Font scale bounds in percent.
const (
	MinFontScale = 70
	MaxFontScale = 160
)

// DisplaySettings holds session-scoped presentation state applied to every
// materialized page.
type DisplaySettings struct {
	FontScale int // Percent, clamped to [MinFontScale, MaxFontScale]
	Theme     Theme
}

// Normalize returns a copy with FontScale clamped to the supported range.
func (d DisplaySettings) Normalize() DisplaySettings {
	if d.FontScale < MinFontScale {
		d.FontScale = MinFontScale
	}
	if d.FontScale > MaxFontScale {
		d.FontScale = MaxFontScale
	}
	return d
}

// LibraryEntry is a shelf listing item returned by the content API.
type LibraryEntry struct {
	ContentID       string  `json:"content_id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Format          string  `json:"format"`
	FileSize        int64   `json:"file_size"`
	Progress        float64 `json:"progress"`
	SectionTitle    string  `json:"section_title"`
	LastReadAt      string  `json:"last_read_at"`
	AnnotationCount int     `json:"annotation_count"`
}

// Annotation is a highlight or note anchored to a location in a book.
type Annotation struct {
	ID           string `json:"id"`
	CfiRange     string `json:"cfi_range"`
	SectionIndex *int   `json:"section_index"`
	Location     string `json:"location"`
	Type         string `json:"type"`  // highlight / note
	Color        string `json:"color"` // yellow / green / blue / pink / purple
	SelectedText string `json:"selected_text"`
	Note         string `json:"note"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Bookmark marks a location in a book.
type Bookmark struct {
	ID           string `json:"id"`
	Cfi          string `json:"cfi"`
	Title        string `json:"title"`
	SectionTitle string `json:"section_title"`
	CreatedAt    string `json:"created_at"`
}

// entity carries the persistence fields shared by all cached models.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func (e *entity) ID() string                { return e.id }
func (e *entity) Sequence() int             { return e.sequence }
func (e *entity) CreatedAt() time.Time      { return e.createdAt }
func (e *entity) UpdatedAt() time.Time      { return e.updatedAt }
func (e *entity) DeletedAt() *time.Time     { return e.deletedAt }
func (e *entity) SetID(id string)           { e.id = id }
func (e *entity) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *entity) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// CachedPosition is the locally persisted mirror of a remote reading position.
// One row per content id; the remote value wins on conflict during sync.
type CachedPosition struct {
	entity
	contentID    string
	progress     float64
	sectionTitle string
	syncedAt     *time.Time
}

// NewCachedPosition creates a CachedPosition with timestamps initialized to now.
func NewCachedPosition(sequence int, contentID string, progress float64, sectionTitle string) *CachedPosition {
	now := time.Now().UTC()
	return &CachedPosition{
		entity:       entity{sequence: sequence, createdAt: now, updatedAt: now},
		contentID:    contentID,
		progress:     progress,
		sectionTitle: sectionTitle,
	}
}

// RestoreCachedPosition rebuilds a CachedPosition from persisted row values.
func RestoreCachedPosition(id string, sequence int, contentID string, progress float64, sectionTitle string, syncedAt *time.Time, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedPosition {
	return &CachedPosition{
		entity:       entity{id: id, sequence: sequence, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt},
		contentID:    contentID,
		progress:     progress,
		sectionTitle: sectionTitle,
		syncedAt:     syncedAt,
	}
}

func (p *CachedPosition) ContentID() string    { return p.contentID }
func (p *CachedPosition) Progress() float64    { return p.progress }
func (p *CachedPosition) SectionTitle() string { return p.sectionTitle }
func (p *CachedPosition) SyncedAt() *time.Time { return p.syncedAt }

func (p *CachedPosition) SetProgress(progress float64, sectionTitle string) {
	p.progress = progress
	p.sectionTitle = sectionTitle
	p.updatedAt = time.Now().UTC()
}

// MarkSynced records that the position has been pushed to the remote API.
func (p *CachedPosition) MarkSynced(t time.Time) { p.syncedAt = &t }

func (p *CachedPosition) Validate() error {
	if p.contentID == "" {
		return fmt.Errorf("cached position requires a content id")
	}
	if p.progress < 0 || p.progress > 1 {
		return fmt.Errorf("progress must be in [0,1], got %v", p.progress)
	}
	return nil
}

// CachedBook is locally cached library metadata, optionally pointing at a
// downloaded payload on disk.
type CachedBook struct {
	entity
	contentID   string
	title       string
	author      string
	format      string
	fileSize    int64
	payloadPath string
}

// NewCachedBook creates a CachedBook with timestamps initialized to now.
func NewCachedBook(sequence int, contentID, title, author, format string, fileSize int64) *CachedBook {
	now := time.Now().UTC()
	return &CachedBook{
		entity:    entity{sequence: sequence, createdAt: now, updatedAt: now},
		contentID: contentID,
		title:     title,
		author:    author,
		format:    format,
		fileSize:  fileSize,
	}
}

// RestoreCachedBook rebuilds a CachedBook from persisted row values.
func RestoreCachedBook(id string, sequence int, contentID, title, author, format string, fileSize int64, payloadPath string, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedBook {
	return &CachedBook{
		entity:      entity{id: id, sequence: sequence, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt},
		contentID:   contentID,
		title:       title,
		author:      author,
		format:      format,
		fileSize:    fileSize,
		payloadPath: payloadPath,
	}
}

func (b *CachedBook) ContentID() string   { return b.contentID }
func (b *CachedBook) Title() string       { return b.title }
func (b *CachedBook) Author() string      { return b.author }
func (b *CachedBook) Format() string      { return b.format }
func (b *CachedBook) FileSize() int64     { return b.fileSize }
func (b *CachedBook) PayloadPath() string { return b.payloadPath }

func (b *CachedBook) SetPayloadPath(path string) {
	b.payloadPath = path
	b.updatedAt = time.Now().UTC()
}

func (b *CachedBook) Validate() error {
	if b.contentID == "" {
		return fmt.Errorf("cached book requires a content id")
	}
	if b.title == "" {
		return fmt.Errorf("cached book requires a title")
	}
	return nil
}
