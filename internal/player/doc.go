// Package player runs and controls the external processes behind a streaming session.
//
// A [Pipeline] pairs a fetch process, which writes the encoded audio of a track to its stdout,
// with a play process reading that stream from its stdin. Both are started by a [Launcher]
// and joined with an OS pipe so no bytes pass through this process.
//
// Liveness is tracked with a goroutine per process blocked in [exec.Cmd.Wait]; the play
// process's exit is published on [Pipeline.Exited]. Pause and resume deliver SIGSTOP and
// SIGCONT to the play process on unix; other platforms report [shared.ErrSignalUnsupported].
//
// A [Sampler] fills the shared [Levels] buffer with cosmetic equalizer values while playback is
// live and unpaused, and zeroes it once playback ends. It only observes; teardown is always the
// caller's job.
package player
