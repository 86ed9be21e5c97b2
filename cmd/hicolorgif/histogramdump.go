package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/hicolorgif/hicolorgif"
)

// dumpHistogram writes hist to path as a zstd-compressed stream of
// (rgba uint32, count uint32) pairs, for offline inspection when tuning a
// quantizer against a difficult source image. Grounded on
// francis-pang-ai-social-media-helper's worker-lambda, which registers a
// zstd compressor for its own bulk-payload output; here the same library
// compresses a diagnostic dump instead of a ZIP bundle. This is explicitly
// out-of-scope diagnostics tooling, never read back by Encoder itself.
func dumpHistogram(path string, hist *hicolorgif.Histogram) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump-histogram: creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	zw, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("dump-histogram: opening zstd writer: %w", err)
	}

	var buf [8]byte
	for _, e := range hist.Entries() {
		binary.LittleEndian.PutUint32(buf[0:4], e.Color.ARGB32())
		binary.LittleEndian.PutUint32(buf[4:8], e.Count)
		if _, err := zw.Write(buf[:]); err != nil {
			zw.Close()
			return fmt.Errorf("dump-histogram: writing entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("dump-histogram: closing zstd writer: %w", err)
	}
	return bw.Flush()
}
