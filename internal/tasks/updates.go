package tasks

import (
	"fmt"

	"github.com/desertthunder/playx/internal/models"
)

// ProgressUpdate represents a progress event during a download.
//
// Used to send real-time updates to the CLI for display; the session reads the [StatusCell] instead.
type ProgressUpdate struct {
	Phase   Phase        // Download phase
	Track   models.Track // Track being downloaded
	Message string       // Human-readable message for display
	Path    string       // Output path, set once known
	Err     error        // Set on Failed
}

// Download phase enumeration
type Phase int

const (
	Preparing Phase = iota
	Fetching
	Tagging
	Finished
	Failed
)

func (p Phase) String() string {
	switch p {
	case Preparing:
		return "preparing"
	case Fetching:
		return "fetching"
	case Tagging:
		return "tagging"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// Done reports whether no further updates follow for the download.
func (p Phase) Done() bool {
	return p == Finished || p == Failed
}

// DownloadingMessage is the status published as soon as a download starts.
func DownloadingMessage(title string) string {
	return fmt.Sprintf("%s is downloading", title)
}

// SuccessMessage is the status published when a download completes.
func SuccessMessage(title string) string {
	return fmt.Sprintf("%s downloaded successfully", title)
}

// FailureMessage is the status published when a download fails.
func FailureMessage(err error) string {
	return fmt.Sprintf("Download failed: %v", err)
}

func preparingUpdate(track models.Track, dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Preparing,
		Track:   track,
		Message: fmt.Sprintf("Preparing %s...", dir),
	}
}

func fetchingUpdate(track models.Track, source string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetching,
		Track:   track,
		Message: fmt.Sprintf("Fetching %q from %s...", track.Title, source),
	}
}

func taggingUpdate(track models.Track, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Tagging,
		Track:   track,
		Path:    path,
		Message: "Writing tags...",
	}
}

func finishedUpdate(track models.Track, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Track:   track,
		Path:    path,
		Message: SuccessMessage(track.Title),
	}
}

func failedUpdate(track models.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		Track:   track,
		Err:     err,
		Message: FailureMessage(err),
	}
}
