package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/shared"
)

// PositionRepository implements models.Repository[*models.CachedPosition] for
// the local reading position cache.
//
// One live row per content id; Upsert keeps the cache in step with the
// debounced remote saves without the caller tracking row identity.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the given database connection
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts a new [models.CachedPosition] with generated ID and sequence
func (r *PositionRepository) Create(pos *models.CachedPosition) error {
	sequence, err := NextSequence(r.db, "positions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	pos.SetID(id)

	if err := pos.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO positions (id, sequence, content_id, progress, section_title, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		pos.ContentID(),
		pos.Progress(),
		pos.SectionTitle(),
		pos.SyncedAt(),
		pos.CreatedAt(),
		pos.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// Get retrieves a position by ID, excluding soft-deleted rows
func (r *PositionRepository) Get(id string) (*models.CachedPosition, error) {
	query := `
		SELECT id, sequence, content_id, progress, section_title, synced_at, created_at, updated_at, deleted_at
		FROM positions
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanPosition(r.db.QueryRow(query, id))
}

// GetByContentID retrieves the position for one book
func (r *PositionRepository) GetByContentID(contentID string) (*models.CachedPosition, error) {
	query := `
		SELECT id, sequence, content_id, progress, section_title, synced_at, created_at, updated_at, deleted_at
		FROM positions
		WHERE content_id = ? AND deleted_at IS NULL
	`

	return scanPosition(r.db.QueryRow(query, contentID))
}

// Upsert writes the position for a book, inserting on first save and
// updating in place afterwards.
func (r *PositionRepository) Upsert(contentID string, progress float64, sectionTitle string) (*models.CachedPosition, error) {
	existing, err := r.GetByContentID(contentID)
	if err != nil {
		pos := models.NewCachedPosition(0, contentID, progress, sectionTitle)
		if err := r.Create(pos); err != nil {
			return nil, err
		}
		return pos, nil
	}

	existing.SetProgress(progress, sectionTitle)
	if err := r.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Update modifies an existing position in the database
func (r *PositionRepository) Update(pos *models.CachedPosition) error {
	if err := pos.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	pos.SetUpdatedAt(now)

	query := `
		UPDATE positions
		SET progress = ?, section_title = ?, synced_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		pos.Progress(),
		pos.SectionTitle(),
		pos.SyncedAt(),
		now,
		pos.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("position not found or already deleted: %s", pos.ID())
	}

	return nil
}

// Delete soft-deletes a position by ID
func (r *PositionRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE positions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("position not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached positions, excluding soft-deleted rows.
// Supported criteria: "unsynced" (bool) restricts to rows never pushed or
// modified since the last push.
func (r *PositionRepository) List(criteria map[string]any) ([]*models.CachedPosition, error) {
	query := `
		SELECT id, sequence, content_id, progress, section_title, synced_at, created_at, updated_at, deleted_at
		FROM positions
		WHERE deleted_at IS NULL
	`

	if unsynced, ok := criteria["unsynced"].(bool); ok && unsynced {
		query += " AND (synced_at IS NULL OR updated_at > synced_at)"
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.CachedPosition
	for rows.Next() {
		pos, err := scanPositionRow(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return positions, nil
}

func scanPosition(row *sql.Row) (*models.CachedPosition, error) {
	var (
		id           string
		sequence     int
		contentID    string
		progress     float64
		sectionTitle sql.NullString
		syncedAt     sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &contentID, &progress, &sectionTitle, &syncedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: position", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan position: %w", err)
	}

	return restorePosition(id, sequence, contentID, progress, sectionTitle, syncedAt, createdAt, updatedAt, deletedAt), nil
}

func scanPositionRow(rows *sql.Rows) (*models.CachedPosition, error) {
	var (
		id           string
		sequence     int
		contentID    string
		progress     float64
		sectionTitle sql.NullString
		syncedAt     sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &contentID, &progress, &sectionTitle, &syncedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan position: %w", err)
	}

	return restorePosition(id, sequence, contentID, progress, sectionTitle, syncedAt, createdAt, updatedAt, deletedAt), nil
}

func restorePosition(id string, sequence int, contentID string, progress float64, sectionTitle sql.NullString, syncedAt sql.NullTime, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedPosition {
	var synced *time.Time
	if syncedAt.Valid {
		synced = &syncedAt.Time
	}
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	return models.RestoreCachedPosition(id, sequence, contentID, progress, sectionTitle.String, synced, createdAt, updatedAt, deleted)
}
