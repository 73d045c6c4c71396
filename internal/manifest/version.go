// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manifest

import (
	"github.com/cockroachdb/errors"
	"github.com/tekcomms/rocksdb/internal/base"
)

// MaxLevels bounds the number of levels a Version can describe. RocksDB
// defaults to 7; the picker itself never assumes a fixed level count beyond
// this array bound.
const MaxLevels = 16

// Version is the picker's read-only snapshot of the LSM: an ordered file
// list per level. The picker never mutates a Version — it only flips the
// BeingCompacted bit on the FileMetadata values the Version already shares
// with every other reader.
//
// Files at L ≥ 1 are maintained key-disjoint and sorted by Smallest under
// the engine comparator. Files at L0 may overlap and are not required to be
// sorted by key; by convention (and by FileNum monotonicity) index 0 is not
// assumed to be newest — callers needing "newest first" sort explicitly by
// FileNum.
type Version struct {
	Files [MaxLevels][]*FileMetadata
}

// NumLevels reports how many levels v describes (the highest non-empty
// level's index + 1, or the minimum of 2 so L0/L1 are always addressable).
func (v *Version) NumLevels() int {
	n := 2
	for l := MaxLevels - 1; l >= n; l-- {
		if len(v.Files[l]) > 0 {
			n = l + 1
			break
		}
	}
	return n
}

// Overlaps returns the files at level whose key range overlaps
// [start, end] under cmp. A nil start means "from the first key"; a nil end
// means "to the last key" — together they select every file at level. For
// L ≥ 1 (key-disjoint, sorted) this could binary search; the picker's level
// counts are small enough that a linear scan is simpler and equally cheap.
func (v *Version) Overlaps(level int, cmp base.Compare, start, end []byte) []*FileMetadata {
	var out []*FileMetadata
	for _, f := range v.Files[level] {
		if start != nil && cmp(f.Largest.UserKey, start) < 0 {
			continue
		}
		if end != nil && cmp(f.Smallest.UserKey, end) > 0 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// TotalSizeAtLevel sums the size of every file at level.
func (v *Version) TotalSizeAtLevel(level int) uint64 {
	return TotalSize(v.Files[level])
}

// GetRange returns the smallest and largest internal key spanned by files,
// under cmp. GetRange fails (returns an error) if files is empty — callers
// must never ask for the range of an empty input set.
func GetRange(cmp *base.InternalKeyComparator, files []*FileMetadata) (smallest, largest base.InternalKey, err error) {
	return GetRange2(cmp, files, nil)
}

// GetRange2 returns the smallest and largest internal key spanned by the
// union of files1 and files2. Fails if both are empty.
func GetRange2(
	cmp *base.InternalKeyComparator, files1, files2 []*FileMetadata,
) (smallest, largest base.InternalKey, err error) {
	first := true
	consider := func(f *FileMetadata) {
		if first {
			smallest, largest = f.Smallest, f.Largest
			first = false
			return
		}
		if cmp.Compare(f.Smallest, smallest) < 0 {
			smallest = f.Smallest
		}
		if cmp.Compare(f.Largest, largest) > 0 {
			largest = f.Largest
		}
	}
	for _, f := range files1 {
		consider(f)
	}
	for _, f := range files2 {
		consider(f)
	}
	if first {
		return base.InternalKey{}, base.InternalKey{}, errors.New("manifest: GetRange called with no files")
	}
	return smallest, largest, nil
}

// FilesInCompaction reports whether any file in files is currently locked by
// an in-flight compaction.
func FilesInCompaction(files []*FileMetadata) bool {
	for _, f := range files {
		if f.BeingCompacted() {
			return true
		}
	}
	return false
}

// ParentRangeInCompaction reports whether any file at level whose key range
// overlaps [smallest, largest] (by user key) is currently being compacted.
// When it returns true, index is set to the position of the first
// overlapping file within v.Files[level], letting the caller reuse the
// lookup instead of re-scanning.
func ParentRangeInCompaction(
	v *Version, cmp base.Compare, smallest, largest []byte, level int,
) (inCompaction bool, index int) {
	index = -1
	for i, f := range v.Files[level] {
		if cmp(f.Largest.UserKey, smallest) < 0 || cmp(f.Smallest.UserKey, largest) > 0 {
			continue
		}
		if index == -1 {
			index = i
		}
		if f.BeingCompacted() {
			inCompaction = true
		}
	}
	return inCompaction, index
}
