package models

import (
	"errors"
	"time"
)

// DownloadStatus is the lifecycle state of a [Download].
type DownloadStatus string

const (
	DownloadPending   DownloadStatus = "pending"
	DownloadCompleted DownloadStatus = "completed"
	DownloadFailed    DownloadStatus = "failed"
)

// IsFinished reports whether the download reached a terminal state.
func (s DownloadStatus) IsFinished() bool {
	return s == DownloadCompleted || s == DownloadFailed
}

// Download is a persisted download history entry.
type Download struct {
	id        string
	trackID   string
	title     string
	source    Source
	path      string
	status    DownloadStatus
	errText   string
	createdAt time.Time
	updatedAt time.Time
}

var _ Model = (*Download)(nil)

// NewDownload creates a pending download record for track.
func NewDownload(track Track) *Download {
	now := time.Now().UTC()
	return &Download{
		trackID:   track.ID,
		title:     track.Title,
		source:    track.Source,
		status:    DownloadPending,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreDownload rebuilds a record read from storage.
func RestoreDownload(id, trackID, title string, source Source, path string, status DownloadStatus, errText string, createdAt, updatedAt time.Time) *Download {
	return &Download{
		id:        id,
		trackID:   trackID,
		title:     title,
		source:    source,
		path:      path,
		status:    status,
		errText:   errText,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (d *Download) ID() string             { return d.id }
func (d *Download) TrackID() string        { return d.trackID }
func (d *Download) Title() string          { return d.title }
func (d *Download) Source() Source         { return d.source }
func (d *Download) Path() string           { return d.path }
func (d *Download) Status() DownloadStatus { return d.status }
func (d *Download) ErrorText() string      { return d.errText }
func (d *Download) CreatedAt() time.Time   { return d.createdAt }
func (d *Download) UpdatedAt() time.Time   { return d.updatedAt }

func (d *Download) SetID(id string)          { d.id = id }
func (d *Download) SetUpdatedAt(t time.Time) { d.updatedAt = t }

// Complete marks the download as finished at path.
func (d *Download) Complete(path string) {
	d.status = DownloadCompleted
	d.path = path
	d.errText = ""
}

// Fail marks the download as failed with err.
func (d *Download) Fail(err error) {
	d.status = DownloadFailed
	if err != nil {
		d.errText = err.Error()
	}
}

// Validate checks required fields.
func (d *Download) Validate() error {
	if d.trackID == "" {
		return errors.New("track id is required")
	}
	if d.title == "" {
		return errors.New("title is required")
	}
	switch d.status {
	case DownloadPending, DownloadCompleted, DownloadFailed:
	default:
		return errors.New("invalid status: " + string(d.status))
	}
	return nil
}
