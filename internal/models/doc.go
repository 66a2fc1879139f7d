// Package models defines the catalog and persistence types shared across playx.
//
// Data Transfer Objects:
//   - [Track] : one search result from a catalog
//   - [Source] : which catalog a track came from
//   - [Destination] : where the downloader writes a track
//
// Persistent Entities:
//   - [Download] : a download history row, implementing [Model]
//
// The Repository[T] interface defines standard access operations for database-backed models.
package models
