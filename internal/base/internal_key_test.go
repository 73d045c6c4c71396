// Copyright 2013 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternalKeyComparatorOrdersBySeqNumDescending(t *testing.T) {
	cmp := DefaultComparer

	older := MakeInternalKey([]byte("a"), 1, InternalKeyKindSet)
	newer := MakeInternalKey([]byte("a"), 5, InternalKeyKindSet)

	require.Equal(t, -1, cmp.Compare(newer, older))
	require.Equal(t, 1, cmp.Compare(older, newer))
	require.Equal(t, 0, cmp.Compare(older, older))
}

func TestInternalKeyComparatorOrdersByUserKeyFirst(t *testing.T) {
	cmp := DefaultComparer

	a := MakeInternalKey([]byte("a"), 100, InternalKeyKindSet)
	b := MakeInternalKey([]byte("b"), 1, InternalKeyKindSet)

	require.Equal(t, -1, cmp.Compare(a, b))
	require.Equal(t, 1, cmp.Compare(b, a))
}

func TestInternalKeyValid(t *testing.T) {
	require.False(t, InternalKey{}.Valid())
	require.True(t, MakeInternalKey([]byte("x"), 0, InternalKeyKindSet).Valid())
}

func TestComparatorEqual(t *testing.T) {
	cmp := DefaultComparer
	require.True(t, cmp.Equal([]byte("k"), []byte("k")))
	require.False(t, cmp.Equal([]byte("k"), []byte("j")))
}
