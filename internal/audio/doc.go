// Package audio writes metadata into downloaded audio files.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to MP3 files after a download completes:
//
//	tagger := audio.NewTagger(nil)
//	err := tagger.Tag(path, track)
//
// The tagger writes:
//   - Track Title (TIT2)
//   - Catalog name and track identifier (COMM)
//   - Direct media URL (COMM), when the catalog reported one
//
// Files without an existing tag get a fresh one; the audio payload is left untouched.
package audio
