// Package logtest provides a Logger that records entries for assertions.
package logtest

import (
	"sync"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// Recorder implements logging.Logger and keeps every entry in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logging.Logger = (*Recorder)(nil)

// Install swaps the package logger for a new Recorder and restores the
// previous logger when the test ends.
func Install(t interface{ Cleanup(func()) }) *Recorder {
	prev := logging.GetLogger()
	r := &Recorder{}
	logging.SetLogger(r)
	t.Cleanup(func() { logging.SetLogger(prev) })
	return r
}

func (r *Recorder) record(level, msg string, kv []interface{}) {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: fields})
	r.mu.Unlock()
}

func (r *Recorder) Infow(msg string, kv ...interface{})  { r.record("info", msg, kv) }
func (r *Recorder) Debugw(msg string, kv ...interface{}) { r.record("debug", msg, kv) }
func (r *Recorder) Warnw(msg string, kv ...interface{})  { r.record("warn", msg, kv) }
func (r *Recorder) Errorw(msg string, kv ...interface{}) { r.record("error", msg, kv) }
func (r *Recorder) Sync() error                          { return nil }

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Level returns the entries recorded at the given level.
func (r *Recorder) Level(level string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
