// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"fmt"
	"sync"
	"time"
)

// LogEntry is a single structured decision line written by a picker.
type LogEntry struct {
	Time time.Time
	Text string
}

// LogBuffer is an append-only, mutex-guarded sink of decision lines. The
// picker writes one entry per decision point — picked, skipped, expanded,
// aborted — rather than logging directly, so that a caller juggling many
// concurrent databases can attribute lines to the right compaction attempt
// and flush them together. This mirrors RocksDB's LogBuffer: a buffer that
// is cheap to append to while the version mutex is held, flushed to the
// real Logger outside the lock.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	prefix  string
}

// NewLogBuffer constructs an empty LogBuffer. prefix, if non-empty, is
// prepended to every entry (e.g. a database identifier).
func NewLogBuffer(prefix string) *LogBuffer {
	return &LogBuffer{prefix: prefix}
}

// Infof appends a formatted entry. It never blocks on I/O.
func (b *LogBuffer) Infof(format string, args ...interface{}) {
	if b == nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	if b.prefix != "" {
		text = b.prefix + ": " + text
	}
	b.mu.Lock()
	b.entries = append(b.entries, LogEntry{Time: time.Now(), Text: text})
	b.mu.Unlock()
}

// Fatalf appends the entry and then panics. The picker never calls this for
// ordinary control flow — only for genuine invariant violations (§7,
// InvariantViolation) where continuing would let registry corruption
// propagate.
func (b *LogBuffer) Fatalf(format string, args ...interface{}) {
	b.Infof(format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Entries returns a snapshot of the buffered lines in append order.
func (b *LogBuffer) Entries() []LogEntry {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// FlushTo writes every buffered entry to logger and clears the buffer.
func (b *LogBuffer) FlushTo(logger interface {
	Infof(format string, args ...interface{})
}) {
	if b == nil {
		return
	}
	b.mu.Lock()
	entries := b.entries
	b.entries = nil
	b.mu.Unlock()
	for _, e := range entries {
		logger.Infof("%s", e.Text)
	}
}
