package player

import "sync"

// LevelCount is the number of equalizer bars.
const LevelCount = 10

// MaxLevel is the largest value a bar can hold.
const MaxLevel = 9

// Levels is the shared visualization buffer. Readers always see a complete write.
type Levels struct {
	mu sync.RWMutex
	v  [LevelCount]uint8
}

// Set overwrites every bar, clamping values above [MaxLevel].
func (l *Levels) Set(v [LevelCount]uint8) {
	for i := range v {
		v[i] = min(v[i], MaxLevel)
	}
	l.mu.Lock()
	l.v = v
	l.mu.Unlock()
}

// Snapshot returns a copy of the current bars.
func (l *Levels) Snapshot() [LevelCount]uint8 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.v
}

// Reset zeroes every bar.
func (l *Levels) Reset() {
	l.mu.Lock()
	l.v = [LevelCount]uint8{}
	l.mu.Unlock()
}

// IsZero reports whether every bar is zero.
func (l *Levels) IsZero() bool {
	return l.Snapshot() == [LevelCount]uint8{}
}
