package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/shared"
)

const downloadColumns = `id, track_id, title, source, path, status, error, created_at, updated_at`

// DownloadRepository implements models.Repository[*models.Download] for the download history.
type DownloadRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Download] = (*DownloadRepository)(nil)

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts d with a freshly generated ID.
func (r *DownloadRepository) Create(d *models.Download) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	d.SetID(shared.GenerateID())

	query := `INSERT INTO downloads (` + downloadColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query,
		d.ID(),
		d.TrackID(),
		d.Title(),
		d.Source().Key(),
		d.Path(),
		string(d.Status()),
		d.ErrorText(),
		d.CreatedAt(),
		d.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}
	return nil
}

// Get retrieves a download by ID
func (r *DownloadRepository) Get(id string) (*models.Download, error) {
	row := r.db.QueryRow(`SELECT `+downloadColumns+` FROM downloads WHERE id = ?`, id)
	d, err := scanDownload(row)
	if err != nil {
		return nil, notFound(err, "download", id)
	}
	return d, nil
}

// Update persists the status, path and error of d.
func (r *DownloadRepository) Update(d *models.Download) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	d.SetUpdatedAt(now)

	result, err := r.db.Exec(
		`UPDATE downloads SET path = ?, status = ?, error = ?, updated_at = ? WHERE id = ?`,
		d.Path(), string(d.Status()), d.ErrorText(), now, d.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update download: %w", err)
	}
	return expectAffected(result, "download", d.ID())
}

// Delete removes a download record by ID
func (r *DownloadRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM downloads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete download: %w", err)
	}
	return expectAffected(result, "download", id)
}

// List returns up to limit downloads, newest first. A non-positive limit returns everything.
func (r *DownloadRepository) List(limit int) ([]*models.Download, error) {
	query := `SELECT ` + downloadColumns + ` FROM downloads ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.query(query, args...)
}

// ListByStatus returns downloads in the given state, newest first.
func (r *DownloadRepository) ListByStatus(status models.DownloadStatus) ([]*models.Download, error) {
	return r.query(`SELECT `+downloadColumns+` FROM downloads WHERE status = ? ORDER BY created_at DESC, id`, string(status))
}

func (r *DownloadRepository) query(query string, args ...any) ([]*models.Download, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var downloads []*models.Download
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan download: %w", err)
		}
		downloads = append(downloads, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return downloads, nil
}

func scanDownload(s scanner) (*models.Download, error) {
	var (
		id, trackID, title, sourceKey string
		path, status, errText         string
		createdAt, updatedAt          time.Time
	)

	if err := s.Scan(&id, &trackID, &title, &sourceKey, &path, &status, &errText, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	source, err := models.ParseSource(sourceKey)
	if err != nil {
		return nil, err
	}

	return models.RestoreDownload(id, trackID, title, source, path, models.DownloadStatus(status), errText, createdAt, updatedAt), nil
}
