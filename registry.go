// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

package rocksdb

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/tekcomms/rocksdb/internal/manifest"
	"github.com/tekcomms/rocksdb/internal/metrics"
)

// CompactionStatus is passed to ReleaseCompactionFiles. Release is
// infallible with respect to status (§7): both values unmark the inputs and
// drop the Compaction from the registry identically. It exists purely so
// callers can record which happened for their own diagnostics.
type CompactionStatus int

// The two ways a Compaction can end.
const (
	CompactionSucceeded CompactionStatus = iota
	CompactionAborted
)

// Registry is the picker's in-progress compaction set (§2 component 5, §4.8,
// §5). It is the single writer of FileMetadata.BeingCompacted: every mutation
// of that flag happens through Register/Release while the caller holds
// whatever lock serializes PickCompaction/CompactRange/ReleaseCompactionFiles
// (§5 — the picker assumes but does not itself provide that lock).
//
// A Registry is scoped to one database, matching the picker: it is rebuilt
// from an empty set on startup (§6, "Persisted state: None").
type Registry struct {
	mu sync.Mutex

	byLevel      [manifest.MaxLevels]map[*Compaction]struct{}
	l0InProgress int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.byLevel {
		r.byLevel[i] = make(map[*Compaction]struct{})
	}
	return r
}

// Register marks every input file BeingCompacted and adds c to the
// in-progress set, enforcing I1, I4, and I5. It panics via
// errors.AssertionFailedf if any input is already locked by another live
// Compaction or if c.InputLevel == 0 while an L0 compaction is already in
// progress — both indicate the caller picked a conflicting Compaction
// without consulting the registry first, a programming error in the picker
// itself rather than a recoverable runtime condition (§7,
// InvariantViolation).
func (r *Registry) Register(c *Compaction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.InputLevel == 0 && r.l0InProgress > 0 {
		panic(errors.AssertionFailedf("rocksdb: second L0 compaction registered while one is in progress (I4)"))
	}
	for _, f := range c.AllInputs() {
		if f.BeingCompacted() {
			panic(errors.AssertionFailedf("rocksdb: file %d already locked by an in-flight compaction (I1/I5)", f.FileNum))
		}
	}

	c.markInputs(true)
	r.byLevel[c.InputLevel][c] = struct{}{}
	if c.InputLevel == 0 {
		r.l0InProgress++
	}

	metrics.SetInProgress(c.Style.String(), c.InputLevel, len(r.byLevel[c.InputLevel]))
	metrics.RecordPickedSize(c.Style.String(), int64(c.InputSize()))
}

// ReleaseCompactionFiles clears BeingCompacted on every input of c and
// removes c from the registry (§4.8). It is idempotent: releasing a
// Compaction that is not (or no longer) registered is a silent no-op (P5),
// matching spec §7's "Releases are infallible."
func (r *Registry) ReleaseCompactionFiles(c *Compaction, _ CompactionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	level := c.InputLevel
	if level < 0 || level >= manifest.MaxLevels {
		return
	}
	if _, ok := r.byLevel[level][c]; !ok {
		return
	}
	delete(r.byLevel[level], c)
	if level == 0 {
		r.l0InProgress--
	}
	c.markInputs(false)

	metrics.SetInProgress(c.Style.String(), level, len(r.byLevel[level]))
}

// InProgressAtLevel returns the live Compactions whose InputLevel is level.
func (r *Registry) InProgressAtLevel(level int) []*Compaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	if level < 0 || level >= manifest.MaxLevels {
		return nil
	}
	out := make([]*Compaction, 0, len(r.byLevel[level]))
	for c := range r.byLevel[level] {
		out = append(out, c)
	}
	return out
}

// L0InProgress reports whether a compaction with InputLevel == 0 is
// currently registered (I4/P2).
func (r *Registry) L0InProgress() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.l0InProgress > 0
}

// SizeBeingCompacted returns, for every level, the total size of files at
// that level currently locked by an in-progress Compaction's Inputs[0] or
// Inputs[1]. Mirrors CompactionPicker::SizeBeingCompacted.
func (r *Registry) SizeBeingCompacted(v *manifest.Version) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	sizes := make([]uint64, v.NumLevels())
	for level, set := range r.byLevel {
		if level >= len(sizes) {
			continue
		}
		for c := range set {
			sizes[c.InputLevel] += manifest.TotalSize(c.Inputs[0])
			if c.OutputLevel < len(sizes) {
				sizes[c.OutputLevel] += manifest.TotalSize(c.Inputs[1])
			}
		}
	}
	return sizes
}
