// Package tasks runs background downloads and reports their outcome through a shared status slot.
//
// # Download Worker
//
// [Downloader.Start] publishes "<title> is downloading" before returning, then a goroutine:
//
//  1. Ensures the download directory exists ([shared.ErrIO] on failure)
//  2. Derives the output name with [shared.NamingRule] ("<sanitized title> (PLAYX).<ext>")
//  3. Calls the catalog's download strategy through the [Fetcher] interface
//  4. Tags .mp3 output through the optional [Tagger]; a tagging error is logged, not fatal
//  5. Publishes "<title> downloaded successfully" or "Download failed: <err>"
//
// There are no retries, no queue and no per-download cancellation. [Downloader.Close] cancels
// everything on application exit.
//
// # Status Reporting
//
// The [StatusCell] holds one optional line. Each Begin or Clear starts a new generation and
// workers publish with their generation token, so a download the user navigated away from, or
// one superseded by a newer download, never overwrites the slot.
//
// # Progress Reporting
//
// Non-interactive callers can pass a channel to receive [ProgressUpdate] values. Sends use select
// with default so a slow reader never blocks the worker.
//
// # History
//
// The optional [Recorder] (repositories.HistoryRecorder) stores a pending row when the download
// starts and completes or fails it when the worker finishes. Recorder errors are logged only.
package tasks
