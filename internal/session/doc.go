// Package session implements the interactive state machine behind the terminal UI.
//
// The [Controller] owns the current [View], the chosen [Mode], the query, the search results
// and the live streaming pipeline. The UI translates keys into [Event] values, calls
// [Controller.Dispatch] and renders the [Snapshot] it gets back.
//
// # Flow
//
//	ModeSelect -> QueryInput -> ResultsList -> Streaming      (Stream)
//	ModeSelect -> QueryInput -> SourceSelect -> ResultsList -> Downloading (Download)
//
// Back walks the same edges in reverse. Leaving ResultsList discards the results; leaving
// Streaming tears the pipeline down before the view changes. Quit is accepted on every view
// and always tears down first.
//
// Errors from searches, pipeline starts and pause toggles never end the session. They become a
// one-line notice on the current view, cleared by the next event.
package session
