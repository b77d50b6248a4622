// Content aggregation API [Library] implementation
//
// Communicates with the aggregation backend over its JSON envelope protocol.
// Every response body is {"code": 0, "data": ..., "message": "ok"}; a
// non-zero code or an HTTP error status means failure.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/shared"
)

const defaultBaseURL string = "http://127.0.0.1:8000"

// envelope is the uniform response wrapper the backend emits.
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// LibraryService implements [Library] against the aggregation backend.
type LibraryService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *log.Logger
}

// NewLibraryService creates a library client. An empty apiKey disables the
// X-API-Key header for backends running without authentication.
func NewLibraryService(baseURL, apiKey string, client *http.Client, logger *log.Logger) *LibraryService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &LibraryService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
		logger:     logger,
	}
}

func (l *LibraryService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, l.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if l.apiKey != "" {
		req.Header.Set("X-API-Key", l.apiKey)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, endpoint)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, env.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	if env.Code != 0 {
		return fmt.Errorf("%w: code %d: %s", shared.ErrAPIRequest, env.Code, env.Message)
	}

	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("%w: failed to decode data: %v", shared.ErrAPIRequest, err)
		}
	}
	return nil
}

// List retrieves the shelf entries for every book on the server.
//
// Calls GET /api/ebook/list.
func (l *LibraryService) List(ctx context.Context) ([]models.LibraryEntry, error) {
	var data struct {
		Items []models.LibraryEntry `json:"items"`
		Total int                   `json:"total"`
	}
	if err := l.doRequest(ctx, http.MethodGet, "/api/ebook/list", nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// Detail retrieves metadata, the raw TOC, and the stored position for one book.
//
// Calls GET /api/ebook/{id}.
func (l *LibraryService) Detail(ctx context.Context, contentID string) (*BookDetail, error) {
	var detail BookDetail
	endpoint := fmt.Sprintf("/api/ebook/%s", contentID)
	if err := l.doRequest(ctx, http.MethodGet, endpoint, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Download retrieves the binary document payload.
//
// Calls GET /api/ebook/{id}/content. The payload is served raw, outside the
// JSON envelope.
func (l *LibraryService) Download(ctx context.Context, contentID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/ebook/%s/content", l.baseURL, contentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if l.apiKey != "" {
		req.Header.Set("X-API-Key", l.apiKey)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotFound, contentID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read payload: %v", shared.ErrNetwork, err)
	}
	return payload, nil
}

// Fetch retrieves everything a session needs to open a book: metadata, raw
// TOC, and the binary payload.
func (l *LibraryService) Fetch(ctx context.Context, contentID string) (*reader.FetchResult, error) {
	detail, err := l.Detail(ctx, contentID)
	if err != nil {
		return nil, err
	}
	payload, err := l.Download(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if l.logger != nil {
		l.logger.Debug("fetched document", "content_id", contentID, "bytes", len(payload))
	}
	return &reader.FetchResult{
		Title:   detail.Title,
		Author:  detail.Author,
		Payload: payload,
		Toc:     detail.Toc,
	}, nil
}

// LoadPosition retrieves the stored reading position. A book that has never
// been opened reports [shared.ErrNotFound].
//
// Calls GET /api/ebook/{id}/progress.
func (l *LibraryService) LoadPosition(ctx context.Context, contentID string) (models.ReadingPosition, error) {
	var stored StoredProgress
	endpoint := fmt.Sprintf("/api/ebook/%s/progress", contentID)
	if err := l.doRequest(ctx, http.MethodGet, endpoint, nil, &stored); err != nil {
		return models.ReadingPosition{}, err
	}
	return models.ReadingPosition{
		Progress:     stored.Progress,
		ChapterTitle: stored.SectionTitle,
	}, nil
}

// SavePosition writes the reading position. Cfi is transmitted as null;
// the progress fraction is the sole resume locator.
//
// Calls PUT /api/ebook/{id}/progress.
func (l *LibraryService) SavePosition(ctx context.Context, contentID string, pos models.ReadingPosition) error {
	body := struct {
		Cfi          *string `json:"cfi"`
		Progress     float64 `json:"progress"`
		SectionTitle string  `json:"section_title"`
	}{
		Progress:     pos.Progress,
		SectionTitle: pos.ChapterTitle,
	}
	endpoint := fmt.Sprintf("/api/ebook/%s/progress", contentID)
	return l.doRequest(ctx, http.MethodPut, endpoint, body, nil)
}

// Annotations retrieves all annotations for one book.
//
// Calls GET /api/ebook/{id}/annotations.
func (l *LibraryService) Annotations(ctx context.Context, contentID string) ([]models.Annotation, error) {
	var data struct {
		Items []models.Annotation `json:"items"`
		Total int                 `json:"total"`
	}
	endpoint := fmt.Sprintf("/api/ebook/%s/annotations", contentID)
	if err := l.doRequest(ctx, http.MethodGet, endpoint, nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// AddAnnotation creates an annotation and returns it with its server id.
//
// Calls POST /api/ebook/{id}/annotations.
func (l *LibraryService) AddAnnotation(ctx context.Context, contentID string, ann models.Annotation) (*models.Annotation, error) {
	var created models.Annotation
	endpoint := fmt.Sprintf("/api/ebook/%s/annotations", contentID)
	if err := l.doRequest(ctx, http.MethodPost, endpoint, ann, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAnnotation removes an annotation by id.
//
// Calls DELETE /api/ebook/{id}/annotations/{annotationID}.
func (l *LibraryService) DeleteAnnotation(ctx context.Context, contentID, annotationID string) error {
	endpoint := fmt.Sprintf("/api/ebook/%s/annotations/%s", contentID, annotationID)
	return l.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// Bookmarks retrieves all bookmarks for one book.
//
// Calls GET /api/ebook/{id}/bookmarks.
func (l *LibraryService) Bookmarks(ctx context.Context, contentID string) ([]models.Bookmark, error) {
	var data struct {
		Items []models.Bookmark `json:"items"`
		Total int               `json:"total"`
	}
	endpoint := fmt.Sprintf("/api/ebook/%s/bookmarks", contentID)
	if err := l.doRequest(ctx, http.MethodGet, endpoint, nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// AddBookmark creates a bookmark and returns it with its server id.
//
// Calls POST /api/ebook/{id}/bookmarks.
func (l *LibraryService) AddBookmark(ctx context.Context, contentID string, bm models.Bookmark) (*models.Bookmark, error) {
	var created models.Bookmark
	endpoint := fmt.Sprintf("/api/ebook/%s/bookmarks", contentID)
	if err := l.doRequest(ctx, http.MethodPost, endpoint, bm, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteBookmark removes a bookmark by id.
//
// Calls DELETE /api/ebook/{id}/bookmarks/{bookmarkID}.
func (l *LibraryService) DeleteBookmark(ctx context.Context, contentID, bookmarkID string) error {
	endpoint := fmt.Sprintf("/api/ebook/%s/bookmarks/%s", contentID, bookmarkID)
	return l.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}
