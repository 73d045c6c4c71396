// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package manifest holds the picker's read-only view of the LSM: the
// per-level file lists that make up a Version, and the FileMetadata that
// describes each file. Everything here is consumed from the engine's
// version-edit machinery; nothing in this package performs I/O.
package manifest

import (
	"fmt"
	"sync/atomic"

	"github.com/tekcomms/rocksdb/internal/base"
	"github.com/cockroachdb/redact"
)

// FileMetadata is the picker's view of a single table file. All fields
// except BeingCompacted are immutable for the lifetime of the FileMetadata;
// a file that moves between versions (e.g. via a trivial move) gets a new
// FileMetadata value at its new level.
//
// BeingCompacted is the one field the picker's callers mutate concurrently
// with readers iterating a Version: it is an atomic.Bool rather than a plain
// bool for the same reason the teacher keeps TableMetadata.AllowedSeeks as
// an atomic.Int64 — a single mutable signal living on an otherwise-immutable,
// concurrently-read struct.
type FileMetadata struct {
	// FileNum uniquely identifies this file for the lifetime of the engine.
	// Smaller numbers were created earlier.
	FileNum uint64
	// Level is the level this FileMetadata currently belongs to within its
	// Version. It is informational; callers index into Version.Files
	// themselves.
	Level int
	// Smallest and Largest are the inclusive bounds of the internal keys
	// stored in the file.
	Smallest, Largest base.InternalKey
	// Size is the file size in bytes.
	Size uint64
	// PathID identifies which of Options.DBPaths this file lives on.
	PathID int

	beingCompacted atomic.Bool
}

// NewFileMetadata constructs a FileMetadata with BeingCompacted initially
// false.
func NewFileMetadata(fileNum uint64, smallest, largest base.InternalKey, size uint64) *FileMetadata {
	return &FileMetadata{FileNum: fileNum, Smallest: smallest, Largest: largest, Size: size}
}

// BeingCompacted reports whether the file is currently locked by an
// in-flight compaction.
func (f *FileMetadata) BeingCompacted() bool {
	return f.beingCompacted.Load()
}

// SetBeingCompacted marks or unmarks the file as locked. Callers must hold
// the version mutex (§5 of the design: single writer, many readers).
func (f *FileMetadata) SetBeingCompacted(v bool) {
	f.beingCompacted.Store(v)
}

func (f *FileMetadata) String() string {
	return fmt.Sprintf("%06d(L%d):[%s-%s]/%d", f.FileNum, f.Level, f.Smallest, f.Largest, f.Size)
}

// SafeFormat implements redact.SafeFormatter.
func (f *FileMetadata) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%06d", redact.Safe(f.FileNum))
}

// TotalSize sums the Size of every file in files.
func TotalSize(files []*FileMetadata) uint64 {
	var sum uint64
	for _, f := range files {
		sum += f.Size
	}
	return sum
}

// ByFileNum sorts the oldest (smallest FileNum) file first, matching
// RocksDB's convention that file numbers increase monotonically with
// creation order and therefore that smallest-FileNum-first is oldest-first
// at L0.
type ByFileNum []*FileMetadata

func (b ByFileNum) Len() int           { return len(b) }
func (b ByFileNum) Less(i, j int) bool { return b[i].FileNum < b[j].FileNum }
func (b ByFileNum) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// BySmallest sorts by ascending Smallest key under cmp. Only meaningful for
// a key-disjoint set of files (L ≥ 1).
type BySmallest struct {
	Files []*FileMetadata
	Cmp   *base.InternalKeyComparator
}

func (b BySmallest) Len() int      { return len(b.Files) }
func (b BySmallest) Swap(i, j int) { b.Files[i], b.Files[j] = b.Files[j], b.Files[i] }
func (b BySmallest) Less(i, j int) bool {
	return b.Cmp.Compare(b.Files[i].Smallest, b.Files[j].Smallest) < 0
}
