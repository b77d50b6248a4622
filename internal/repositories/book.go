package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// BookRepository implements models.Repository[*models.CachedBook] for the
// local library metadata cache.
//
// Rows mirror the remote shelf; payload_path points at a downloaded document
// on disk when one exists.
type BookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new BookRepository with the given database connection
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a new [models.CachedBook] with generated ID and sequence
func (r *BookRepository) Create(book *models.CachedBook) error {
	sequence, err := NextSequence(r.db, "books")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	book.SetID(id)

	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO books (id, sequence, content_id, title, author, format, file_size, payload_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		book.ContentID(),
		book.Title(),
		book.Author(),
		book.Format(),
		book.FileSize(),
		book.PayloadPath(),
		book.CreatedAt(),
		book.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

// Get retrieves a book by ID, excluding soft-deleted rows
func (r *BookRepository) Get(id string) (*models.CachedBook, error) {
	query := `
		SELECT id, sequence, content_id, title, author, format, file_size, payload_path, created_at, updated_at, deleted_at
		FROM books
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanBook(r.db.QueryRow(query, id))
}

// GetByContentID retrieves a book by its remote content id
func (r *BookRepository) GetByContentID(contentID string) (*models.CachedBook, error) {
	query := `
		SELECT id, sequence, content_id, title, author, format, file_size, payload_path, created_at, updated_at, deleted_at
		FROM books
		WHERE content_id = ? AND deleted_at IS NULL
	`

	return scanBook(r.db.QueryRow(query, contentID))
}

// Update modifies an existing book in the database
func (r *BookRepository) Update(book *models.CachedBook) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	book.SetUpdatedAt(now)

	query := `
		UPDATE books
		SET title = ?, author = ?, format = ?, file_size = ?, payload_path = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		book.Title(),
		book.Author(),
		book.Format(),
		book.FileSize(),
		book.PayloadPath(),
		now,
		book.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", book.ID())
	}

	return nil
}

// Delete soft-deletes a book by ID
func (r *BookRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE books
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("book not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached books, excluding soft-deleted rows.
// Supported criteria: "downloaded" (bool) restricts to books with a local
// payload, "format" (string) filters by document format.
func (r *BookRepository) List(criteria map[string]any) ([]*models.CachedBook, error) {
	query := `
		SELECT id, sequence, content_id, title, author, format, file_size, payload_path, created_at, updated_at, deleted_at
		FROM books
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if downloaded, ok := criteria["downloaded"].(bool); ok && downloaded {
		query += " AND payload_path IS NOT NULL AND payload_path != ''"
	}

	if format, ok := criteria["format"].(string); ok && format != "" {
		query += " AND format = ?"
		args = append(args, format)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*models.CachedBook
	for rows.Next() {
		book, err := scanBookRow(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

func scanBook(row *sql.Row) (*models.CachedBook, error) {
	var (
		id          string
		sequence    int
		contentID   string
		title       string
		author      sql.NullString
		format      string
		fileSize    sql.NullInt64
		payloadPath sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &contentID, &title, &author, &format, &fileSize, &payloadPath, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: book", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	return restoreBook(id, sequence, contentID, title, author, format, fileSize, payloadPath, createdAt, updatedAt, deletedAt), nil
}

func scanBookRow(rows *sql.Rows) (*models.CachedBook, error) {
	var (
		id          string
		sequence    int
		contentID   string
		title       string
		author      sql.NullString
		format      string
		fileSize    sql.NullInt64
		payloadPath sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &contentID, &title, &author, &format, &fileSize, &payloadPath, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	return restoreBook(id, sequence, contentID, title, author, format, fileSize, payloadPath, createdAt, updatedAt, deletedAt), nil
}

func restoreBook(id string, sequence int, contentID, title string, author sql.NullString, format string, fileSize sql.NullInt64, payloadPath sql.NullString, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedBook {
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	book := models.RestoreCachedBook(id, sequence, contentID, title, author.String, format, fileSize.Int64, payloadPath.String, createdAt, updatedAt, deleted)
	return book
}
