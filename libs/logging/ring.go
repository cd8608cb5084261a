package logging

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultRingCapacity bounds the in-memory log history.
const DefaultRingCapacity = 1000

// Entry is one retained log record.
type Entry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Logger  string    `json:"logger,omitempty"`
}

// Ring retains the most recent log entries in a fixed-size circular buffer.
// Writers never block and old entries are overwritten once capacity is hit.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRing builds a ring with the given capacity (DefaultRingCapacity if <= 0).
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{entries: make([]Entry, capacity)}
}

// Append stores one entry, evicting the oldest when full.
func (r *Ring) Append(e Entry) {
	r.mu.Lock()
	r.entries[r.next] = e
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
}

// Snapshot returns retained entries in chronological order.
func (r *Ring) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]Entry, r.next)
		copy(out, r.entries[:r.next])
		return out
	}
	out := make([]Entry, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	out = append(out, r.entries[:r.next]...)
	return out
}

// Len reports how many entries are currently retained.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}

// ringCore is a zapcore.Core that mirrors entries into a Ring.
type ringCore struct {
	ring  *Ring
	level zapcore.LevelEnabler
}

func newRingCore(ring *Ring, level zapcore.LevelEnabler) zapcore.Core {
	return &ringCore{ring: ring, level: level}
}

func (c *ringCore) Enabled(level zapcore.Level) bool {
	return c.level.Enabled(level)
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	return c
}

func (c *ringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *ringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.ring.Append(Entry{
		Time:    entry.Time.UTC(),
		Level:   entry.Level.String(),
		Message: entry.Message,
		Logger:  entry.LoggerName,
	})
	return nil
}

func (c *ringCore) Sync() error { return nil }
