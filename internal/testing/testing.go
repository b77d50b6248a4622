// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/folio/internal/models"
	"github.com/desertthunder/folio/internal/reader"
	"github.com/desertthunder/folio/internal/services"
)

// MockLibrary is a test double for [services.Library]. Zero value methods
// return empty results; set Entries or Payloads to serve data.
type MockLibrary struct {
	Entries  []models.LibraryEntry
	Payloads map[string][]byte
	Err      error
}

func (m *MockLibrary) List(ctx context.Context) ([]models.LibraryEntry, error) {
	return m.Entries, m.Err
}

func (m *MockLibrary) Detail(ctx context.Context, contentID string) (*services.BookDetail, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.BookDetail{ContentID: contentID}, nil
}

func (m *MockLibrary) Download(ctx context.Context, contentID string) ([]byte, error) {
	return m.Payloads[contentID], m.Err
}

func (m *MockLibrary) Fetch(ctx context.Context, contentID string) (*reader.FetchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &reader.FetchResult{Payload: m.Payloads[contentID]}, nil
}

func (m *MockLibrary) LoadPosition(ctx context.Context, contentID string) (models.ReadingPosition, error) {
	return models.ReadingPosition{}, m.Err
}

func (m *MockLibrary) SavePosition(ctx context.Context, contentID string, pos models.ReadingPosition) error {
	return m.Err
}

func (m *MockLibrary) Annotations(ctx context.Context, contentID string) ([]models.Annotation, error) {
	return []models.Annotation{}, m.Err
}

func (m *MockLibrary) AddAnnotation(ctx context.Context, contentID string, ann models.Annotation) (*models.Annotation, error) {
	return &ann, m.Err
}

func (m *MockLibrary) DeleteAnnotation(ctx context.Context, contentID, annotationID string) error {
	return m.Err
}

func (m *MockLibrary) Bookmarks(ctx context.Context, contentID string) ([]models.Bookmark, error) {
	return []models.Bookmark{}, m.Err
}

func (m *MockLibrary) AddBookmark(ctx context.Context, contentID string, bm models.Bookmark) (*models.Bookmark, error) {
	return &bm, m.Err
}

func (m *MockLibrary) DeleteBookmark(ctx context.Context, contentID, bookmarkID string) error {
	return m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
