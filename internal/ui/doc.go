// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin shell over a [session.Controller]:
//  1. Select Mode : Stream or Download
//  2. Search Music : query input
//  3. Select Source : catalog choice (Download only)
//  4. Search Results : numbered results, "NO MUSIC FOUND =(" when empty
//  5. Now Streaming / Visual (Equalizer N) : playback title and equalizer bars
//  6. Downloads : the shared download status line
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Key presses are
// translated into session events and dispatched synchronously; a tick message every 250ms
// re-reads the controller snapshot so sampler levels and download status stay current.
//
// Keyboard navigation uses arrows or j/k, enter or → to select, ← to go back, space/p to pause,
// 1-5 to switch equalizer style and esc/ctrl+c to quit. On the query view every printable key is
// text.
package ui
