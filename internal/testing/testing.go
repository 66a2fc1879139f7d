// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
)

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	NameValue   string
	SourceValue models.Source
	Results     []models.Track
	SearchErr   error
	DownloadErr error
	// Payload is written to the destination on Download when set.
	Payload []byte
	// Gate, when non-nil, blocks Download until it is closed.
	Gate chan struct{}

	mu        sync.Mutex
	queries   []string
	downloads []models.Track
}

func (m *MockCatalog) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m *MockCatalog) Source() models.Source { return m.SourceValue }

func (m *MockCatalog) Search(ctx context.Context, query string) ([]models.Track, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Results, nil
}

func (m *MockCatalog) Download(ctx context.Context, track models.Track, dest models.Destination) (string, error) {
	if m.Gate != nil {
		<-m.Gate
	}

	m.mu.Lock()
	m.downloads = append(m.downloads, track)
	m.mu.Unlock()

	if m.DownloadErr != nil {
		return "", m.DownloadErr
	}
	path := dest.Path("bin")
	if err := os.WriteFile(path, m.Payload, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func (m *MockCatalog) PageURL(track models.Track) string { return "mock://" + track.ID }

// Queries returns every query passed to Search, in order.
func (m *MockCatalog) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// Downloads returns every track passed to Download, in order.
func (m *MockCatalog) Downloads() []models.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Track(nil), m.downloads...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// BufferLogger returns a debug-level logger writing plain lines into w.
func BufferLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

// Eventually polls cond every few milliseconds until it holds or timeout elapses.
func Eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
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

// AssertNoFiles fails when dir contains any entry.
func AssertNoFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}
	if len(matches) > 0 {
		t.Errorf("Expected %s to be empty, found %v", dir, matches)
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
