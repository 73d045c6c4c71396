// Copyright 2013 The Facebook, RocksDB Authors, LevelDB-Go and Pebble
// Authors. All rights reserved. Use of this source code is governed by a
// BSD-style license that can be found in the LICENSE file.

// Command picksim is a small inspection tool for the compaction picker: it
// reads a textual description of a Version, runs the configured picker
// against it, and prints the resulting Compaction (or "no compaction
// needed"). It never touches real SSTs — the Version it builds exists only
// in memory — so it is useful for exploring picker behavior on synthetic
// inputs without standing up a database.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tekcomms/rocksdb"
	"github.com/tekcomms/rocksdb/internal/base"
	"github.com/tekcomms/rocksdb/internal/manifest"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var style string
	var numLevels int
	var l0Trigger int

	cmd := &cobra.Command{
		Use:   "picksim <version-file>",
		Short: "Simulate a compaction pick against a synthetic Version",
		Long: `picksim reads a Version description (one line per file:
"level file_number smallest largest size_bytes"), builds an in-memory
Version, runs the selected compaction picker once, and prints what it
picked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadVersion(args[0])
			if err != nil {
				return err
			}

			opts := &rocksdb.Options{
				NumLevels:           numLevels,
				L0CompactionTrigger: l0Trigger,
			}
			switch strings.ToLower(style) {
			case "universal":
				opts.CompactionStyle = rocksdb.CompactionStyleUniversal
			case "fifo":
				opts.CompactionStyle = rocksdb.CompactionStyleFIFO
			case "level", "":
				opts.CompactionStyle = rocksdb.CompactionStyleLevel
			default:
				return fmt.Errorf("picksim: unknown style %q (want level, universal, or fifo)", style)
			}
			opts.EnsureDefaults()

			printVersion(cmd.OutOrStdout(), v)

			reg := rocksdb.NewRegistry()
			picker := rocksdb.NewPicker(opts, reg)
			log := rocksdb.NewLogBuffer("picksim")

			c := picker.PickCompaction(v, log)
			for _, entry := range log.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", entry.Text)
			}
			printCompaction(cmd.OutOrStdout(), c)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "level", "compaction style: level, universal, or fifo")
	cmd.Flags().IntVar(&numLevels, "num-levels", 7, "number of levels in the simulated LSM")
	cmd.Flags().IntVar(&l0Trigger, "l0-trigger", 4, "L0 file count that saturates the L0 score")

	return cmd
}

// loadVersion parses a Version description from path: one file per line,
// "level file_number smallest largest size_bytes", blank lines and lines
// starting with # ignored.
func loadVersion(path string) (*manifest.Version, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v := &manifest.Version{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, fmt.Errorf("picksim: %s:%d: want 5 fields, got %d", path, lineNo, len(fields))
		}
		level, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("picksim: %s:%d: bad level: %w", path, lineNo, err)
		}
		fileNum, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("picksim: %s:%d: bad file_number: %w", path, lineNo, err)
		}
		size, err := strconv.ParseUint(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("picksim: %s:%d: bad size_bytes: %w", path, lineNo, err)
		}
		if level < 0 || level >= manifest.MaxLevels {
			return nil, fmt.Errorf("picksim: %s:%d: level %d out of range", path, lineNo, level)
		}
		smallest := base.MakeInternalKey([]byte(fields[2]), 0, base.InternalKeyKindSet)
		largest := base.MakeInternalKey([]byte(fields[3]), 0, base.InternalKeyKindSet)
		v.Files[level] = append(v.Files[level], manifest.NewFileMetadata(fileNum, smallest, largest, size))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// printVersion renders the per-level file layout as an ASCII table.
func printVersion(w io.Writer, v *manifest.Version) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "FileNum", "Smallest", "Largest", "Size", "Compacting"})
	for level := 0; level < v.NumLevels(); level++ {
		for _, f := range v.Files[level] {
			table.Append([]string{
				strconv.Itoa(level),
				strconv.FormatUint(f.FileNum, 10),
				string(f.Smallest.UserKey),
				string(f.Largest.UserKey),
				strconv.FormatUint(f.Size, 10),
				strconv.FormatBool(f.BeingCompacted()),
			})
		}
	}
	table.Render()
}

// printCompaction renders the picked Compaction (or "no compaction
// needed") as an ASCII table of its inputs.
func printCompaction(w io.Writer, c *rocksdb.Compaction) {
	if c == nil {
		fmt.Fprintln(w, "no compaction needed")
		return
	}

	fmt.Fprintf(w, "picked: L%d -> L%d, style=%s, score=%.2f, manual=%v, full=%v, bottommost=%v, deletion=%v\n",
		c.InputLevel, c.OutputLevel, c.Style, c.Score, c.IsManual, c.IsFullCompaction, c.IsBottommostLevel, c.IsDeletionCompaction)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Input Set", "FileNum", "Smallest", "Largest", "Size"})
	appendSet := func(name string, files []*manifest.FileMetadata) {
		for _, f := range files {
			table.Append([]string{
				name,
				strconv.FormatUint(f.FileNum, 10),
				string(f.Smallest.UserKey),
				string(f.Largest.UserKey),
				strconv.FormatUint(f.Size, 10),
			})
		}
	}
	appendSet("inputs[0]", c.Inputs[0])
	appendSet("inputs[1]", c.Inputs[1])
	appendSet("grandparents", c.Grandparents)
	table.Render()
}
