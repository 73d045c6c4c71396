// Copyright 2013 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package base

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/redact"
)

// SeqNum is a sequence number defining precedence among identical user keys.
// A key with a higher sequence number takes precedence over a key with an
// equal user key and a lower sequence number.
type SeqNum uint64

// SeqNumMax is the largest valid sequence number.
const SeqNumMax SeqNum = 1<<56 - 1

// InternalKeyKind enumerates the kind of an internal key.
type InternalKeyKind uint8

// The key kinds relevant to compaction: everything else the wire format
// supports (merge operands, range keys, ...) is handled by the merge/read
// path, not the picker.
const (
	InternalKeyKindDelete InternalKeyKind = iota
	InternalKeyKindSet
	InternalKeyKindMerge
	InternalKeyKindRangeDelete
	InternalKeyKindInvalid InternalKeyKind = 255
)

// InternalKey is a key used for the in-memory and on-disk partial DBs that
// make up a Pebble-style LSM: a user key tagged with a sequence number and
// kind so that multiple versions of the same user key can be totally
// ordered.
type InternalKey struct {
	UserKey []byte
	SeqNum  SeqNum
	Kind    InternalKeyKind
}

// MakeInternalKey constructs an InternalKey from its parts.
func MakeInternalKey(userKey []byte, seqNum SeqNum, kind InternalKeyKind) InternalKey {
	return InternalKey{UserKey: userKey, SeqNum: seqNum, Kind: kind}
}

// Valid returns true if the key has a user key. An empty InternalKey{} is
// used as a zero value in a few places and is never valid.
func (k InternalKey) Valid() bool {
	return k.UserKey != nil
}

func (k InternalKey) String() string {
	return fmt.Sprintf("%s#%d,%d", k.UserKey, k.SeqNum, k.Kind)
}

// SafeFormat implements redact.SafeFormatter, redacting the user key while
// leaving the sequence number and kind visible — the same split the teacher
// applies to SeqNum.
func (k InternalKey) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s#%d,%d", redact.Safe("‹key›"), redact.Safe(k.SeqNum), redact.Safe(k.Kind))
}

// Compare orders two user keys, returning a negative, zero or positive value
// as a sorts before, equal to, or after b. Engines with custom user-key
// encodings supply their own Compare via InternalKeyComparator.
type Compare func(a, b []byte) int

// InternalKeyComparator is the total order on internal keys that the picker
// is required to use for every range computation. It never falls back to a
// lexicographic default: the UserKeyCompare function is mandatory.
type InternalKeyComparator struct {
	// Name identifies the comparator for diagnostics; it plays no role in
	// comparison itself.
	Name string
	// UserKeyCompare orders user keys. It must be the same function used to
	// write the sstables the picker is scheduling.
	UserKeyCompare Compare
}

// Compare orders two internal keys: first by user key under cmp.
// UserKeyCompare, then — for equal user keys — by descending sequence number,
// so that newer versions of a key sort first.
func (cmp *InternalKeyComparator) Compare(a, b InternalKey) int {
	if c := cmp.UserKeyCompare(a.UserKey, b.UserKey); c != 0 {
		return c
	}
	switch {
	case a.SeqNum > b.SeqNum:
		return -1
	case a.SeqNum < b.SeqNum:
		return 1
	default:
		return 0
	}
}

// Equal reports whether two user keys are identical under cmp.
func (cmp *InternalKeyComparator) Equal(a, b []byte) bool {
	return cmp.UserKeyCompare(a, b) == 0
}

// DefaultComparer orders keys by plain byte comparison. It is useful for
// tests and for callers that have no notion of a custom key encoding.
var DefaultComparer = &InternalKeyComparator{
	Name:           "leveldb.BytewiseComparator",
	UserKeyCompare: bytewiseCompare,
}

func bytewiseCompare(a, b []byte) int {
	return bytes.Compare(a, b)
}
