// Copyright 2018 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tekcomms/rocksdb/internal/base"
)

func ik(key string) base.InternalKey {
	return base.MakeInternalKey([]byte(key), 0, base.InternalKeyKindSet)
}

func file(num uint64, smallest, largest string, size uint64) *FileMetadata {
	return NewFileMetadata(num, ik(smallest), ik(largest), size)
}

func TestVersionOverlaps(t *testing.T) {
	v := &Version{}
	v.Files[1] = []*FileMetadata{
		file(1, "a", "c", 10),
		file(2, "d", "f", 10),
		file(3, "g", "i", 10),
	}

	got := v.Overlaps(1, base.DefaultComparer.UserKeyCompare, []byte("b"), []byte("e"))
	require.Len(t, got, 2)
	require.Equal(t, uint64(1), got[0].FileNum)
	require.Equal(t, uint64(2), got[1].FileNum)
}

func TestVersionOverlapsNilBoundsSelectAll(t *testing.T) {
	v := &Version{}
	v.Files[1] = []*FileMetadata{file(1, "a", "c", 10), file(2, "x", "z", 10)}

	require.Len(t, v.Overlaps(1, base.DefaultComparer.UserKeyCompare, nil, nil), 2)
	require.Len(t, v.Overlaps(1, base.DefaultComparer.UserKeyCompare, []byte("y"), nil), 1)
	require.Len(t, v.Overlaps(1, base.DefaultComparer.UserKeyCompare, nil, []byte("b")), 1)
}

func TestGetRangeEmptyFails(t *testing.T) {
	_, _, err := GetRange(base.DefaultComparer, nil)
	require.Error(t, err)
}

func TestGetRange2UnionsBothSets(t *testing.T) {
	files1 := []*FileMetadata{file(1, "c", "d", 10)}
	files2 := []*FileMetadata{file(2, "a", "b", 10), file(3, "e", "f", 10)}

	smallest, largest, err := GetRange2(base.DefaultComparer, files1, files2)
	require.NoError(t, err)
	require.Equal(t, "a", string(smallest.UserKey))
	require.Equal(t, "f", string(largest.UserKey))
}

func TestFilesInCompaction(t *testing.T) {
	f1 := file(1, "a", "b", 10)
	f2 := file(2, "c", "d", 10)
	require.False(t, FilesInCompaction([]*FileMetadata{f1, f2}))

	f2.SetBeingCompacted(true)
	require.True(t, FilesInCompaction([]*FileMetadata{f1, f2}))
}

func TestParentRangeInCompaction(t *testing.T) {
	v := &Version{}
	f1 := file(1, "a", "c", 10)
	f2 := file(2, "d", "f", 10)
	v.Files[2] = []*FileMetadata{f1, f2}

	inCompaction, index := ParentRangeInCompaction(v, base.DefaultComparer.UserKeyCompare, []byte("b"), []byte("e"), 2)
	require.False(t, inCompaction)
	require.Equal(t, 0, index)

	f2.SetBeingCompacted(true)
	inCompaction, index = ParentRangeInCompaction(v, base.DefaultComparer.UserKeyCompare, []byte("b"), []byte("e"), 2)
	require.True(t, inCompaction)
	require.Equal(t, 0, index)
}

func TestParentRangeInCompactionNoOverlapReturnsNegativeIndex(t *testing.T) {
	v := &Version{}
	v.Files[2] = []*FileMetadata{file(1, "a", "c", 10)}

	inCompaction, index := ParentRangeInCompaction(v, base.DefaultComparer.UserKeyCompare, []byte("x"), []byte("z"), 2)
	require.False(t, inCompaction)
	require.Equal(t, -1, index)
}

func TestTotalSize(t *testing.T) {
	files := []*FileMetadata{file(1, "a", "b", 10), file(2, "c", "d", 20)}
	require.Equal(t, uint64(30), TotalSize(files))
}
