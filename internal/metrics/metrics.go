// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

// Package metrics exposes the picker's observability surface: Prometheus
// gauges/counters for in-progress compactions and per-level scores, plus an
// HdrHistogram of picked-compaction byte sizes. Nothing here performs
// network I/O — callers that want a live /metrics endpoint register these
// collectors with their own http.Handler; tests read them back directly via
// prometheus/client_golang/prometheus/testutil.
package metrics

import (
	"strconv"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// CompactionsInProgress counts live Compactions, labeled by compaction style
// and input level.
var CompactionsInProgress = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "rocksdb",
	Subsystem: "picker",
	Name:      "compactions_in_progress",
	Help:      "Number of Compactions currently registered as in-flight.",
}, []string{"style", "level"})

// LevelScore records the most recently computed score for each level of the
// leveled policy (spec §4.4). Universal/FIFO do not populate this.
var LevelScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "rocksdb",
	Subsystem: "picker",
	Name:      "level_score",
	Help:      "Most recently computed compaction score for a level.",
}, []string{"level"})

// PicksTotal counts successful picks, labeled by style.
var PicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rocksdb",
	Subsystem: "picker",
	Name:      "picks_total",
	Help:      "Number of compactions successfully picked.",
}, []string{"style"})

// pickedSizeHistogram tracks the byte-size distribution of picked
// compactions' combined inputs, used by PickedSizeSnapshot. HdrHistogram
// rather than a Prometheus histogram because the picker wants cheap,
// allocation-free recording of a wide dynamic range (a few KB to many GB)
// without pre-declared buckets.
var pickedSizeHistogram = hdrhistogram.New(1, 1<<40, 3)

// RecordPickedSize adds one observation (in bytes) to the picked-compaction
// size distribution and increments PicksTotal for style.
func RecordPickedSize(style string, bytes int64) {
	if bytes > 0 {
		_ = pickedSizeHistogram.RecordValue(bytes)
	}
	PicksTotal.WithLabelValues(style).Inc()
}

// PickedSizeSnapshot returns the current distribution's value at the given
// percentile (0-100), for diagnostics and tests.
func PickedSizeSnapshot(percentile float64) int64 {
	return pickedSizeHistogram.ValueAtPercentile(percentile)
}

// SetInProgress sets the compactions_in_progress gauge for (style, level).
func SetInProgress(style string, level int, count int) {
	CompactionsInProgress.WithLabelValues(style, strconv.Itoa(level)).Set(float64(count))
}

// SetLevelScore sets the level_score gauge for level.
func SetLevelScore(level int, score float64) {
	LevelScore.WithLabelValues(strconv.Itoa(level)).Set(score)
}

func init() {
	prometheus.MustRegister(CompactionsInProgress, LevelScore, PicksTotal)
}
