// Package services defines the [Catalog] interface for remote audio catalogs and implements it for
// YouTube, the Internet Archive and the Free Music Archive.
//
// # Catalog Interface
//
// Every catalog searches with a free-text query and downloads one track to a [models.Destination].
// The session treats catalogs uniformly; a [Registry] keeps the enabled ones in display order with
// the primary catalog first.
//
// # YouTube Implementation
//
// [YouTubeCatalog] shells out to yt-dlp through go-ytdlp. Search is a flat "ytsearchN:" query that
// prints one id/title pair per line. Downloads are transcoded to mp3 by yt-dlp itself.
//
// YouTube is also the streaming backend: [YouTubeCatalog.FetchCommand] and
// [YouTubeCatalog.TitleCommand] build the commands a [player.Launcher] runs.
//
// # HTTP Implementations
//
// [ArchiveCatalog] and [FMACatalog] are thin JSON clients sharing one rate limited http client:
//   - Internet Archive: advanced search, then item metadata to pick a file by [ArchiveFormats]
//   - Free Music Archive: track search returning a direct media URL per track
//
// # Error Handling
//
// Catalogs use the sentinel errors from the shared package:
//   - [shared.ErrSearch] : search failed (unreachable, bad status, malformed response)
//   - [shared.ErrServiceUnavailable] : non-2xx response
//   - [shared.ErrFormat] : no acceptable audio file for a download
//   - [shared.ErrIO] : writing the downloaded file failed
//   - [shared.ErrNoCatalog] : registry lookup for a missing catalog
//
// Zero results is an empty slice and never an error.
package services
