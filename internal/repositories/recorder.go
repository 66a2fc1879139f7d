package repositories

import (
	"fmt"
	"sync"

	"github.com/desertthunder/playx/internal/models"
)

// HistoryRecorder implements tasks.Recorder on top of [DownloadRepository].
//
// Records are kept in memory between Begin and Finish so the worker only passes IDs around.
type HistoryRecorder struct {
	repo    *DownloadRepository
	mu      sync.Mutex
	pending map[string]*models.Download
}

// NewHistoryRecorder creates a new HistoryRecorder with the given repository
func NewHistoryRecorder(repo *DownloadRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, pending: make(map[string]*models.Download)}
}

// Begin stores a pending row for track and returns its ID.
func (h *HistoryRecorder) Begin(track models.Track) (string, error) {
	d := models.NewDownload(track)
	if err := h.repo.Create(d); err != nil {
		return "", fmt.Errorf("failed to record download: %w", err)
	}

	h.mu.Lock()
	h.pending[d.ID()] = d
	h.mu.Unlock()
	return d.ID(), nil
}

// Finish marks the row as completed at path, or failed when cause is non-nil.
func (h *HistoryRecorder) Finish(id, path string, cause error) error {
	h.mu.Lock()
	d, ok := h.pending[id]
	delete(h.pending, id)
	h.mu.Unlock()

	if !ok {
		var err error
		if d, err = h.repo.Get(id); err != nil {
			return err
		}
	}

	if cause != nil {
		d.Fail(cause)
	} else {
		d.Complete(path)
	}
	return h.repo.Update(d)
}
