// Copyright 2013 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package rocksdb

import "github.com/cockroachdb/errors"

// ErrInvalidManualRange is returned by CompactRange when the requested range
// or levels are nonsensical: begin > end under the comparator, input_level
// is out of bounds, or output_level is unreachable from input_level.
var ErrInvalidManualRange = errors.New("rocksdb: invalid manual compaction range")
