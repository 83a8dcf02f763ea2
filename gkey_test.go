// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

import (
	"bytes"
	"fmt"
	"testing"
)

func testInputSet() []struct {
	name string
	data []byte
} {
	return []struct {
		name string
		data []byte
	}{
		{name: "nil", data: nil},
		{name: "empty", data: []byte{}},
		{name: "single-byte", data: []byte{0xAB}},
		{name: "short-text", data: []byte("hello world, gkey test")},
		{name: "repeated-pattern", data: bytes.Repeat([]byte("abc123"), 2000)},
		{name: "long-run", data: bytes.Repeat([]byte{0xFF}, 12000)},
		{name: "byte-cycle", data: bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 1200)},
		{name: "all-zero", data: make([]byte, 4096)},
	}
}

func compressAll(t *testing.T, c *Compressor, data []byte) []byte {
	t.Helper()

	var out bytes.Buffer
	buf := make([]byte, 7)

	p := &Params{In: data}
	for {
		p.Out = buf
		status := c.Compress(p)
		out.Write(buf[:len(buf)-len(p.Out)])

		switch status {
		case StatusOK:
			if len(p.In) == 0 {
				p.In = nil // signal flush
			}
		case StatusBufferOverflow:
			// try again with the same (now-drained) output buffer
		case StatusFinished:
			return out.Bytes()
		default:
			t.Fatalf("Compress: unexpected status %s", status)
		}
	}
}

func decompressAll(t *testing.T, d *Decompressor, data []byte, wantLen int) []byte {
	t.Helper()

	var out bytes.Buffer
	buf := make([]byte, 5)

	p := &Params{In: data}
	for out.Len() < wantLen {
		p.Out = buf
		status := d.Decompress(p)
		out.Write(buf[:len(buf)-len(p.Out)])

		switch status {
		case StatusOK, StatusBufferOverflow:
			// StatusOK with out.Len() < wantLen means clean EOS was reached
			// early, which the caller's length check below will catch.
			if status == StatusOK {
				return out.Bytes()
			}
		default:
			t.Fatalf("Decompress: unexpected status %s", status)
		}
	}
	return out.Bytes()
}

func TestCompressDecompress_RoundTripAcrossWindows(t *testing.T) {
	windows := []uint{0, 1, 4, DefaultHistoryLog2, 16}

	for _, in := range testInputSet() {
		for _, historyLog2 := range windows {
			name := fmt.Sprintf("%s/log2-%d", in.name, historyLog2)
			t.Run(name, func(t *testing.T) {
				c, err := NewCompressor(historyLog2)
				if err != nil {
					t.Fatalf("NewCompressor failed: %v", err)
				}
				cmp := compressAll(t, c, in.data)

				d, err := NewDecompressor(historyLog2)
				if err != nil {
					t.Fatalf("NewDecompressor failed: %v", err)
				}
				out := decompressAll(t, d, cmp, len(in.data))

				if !bytes.Equal(out, in.data) {
					t.Fatalf("round-trip mismatch: got=%d want=%d bytes", len(out), len(in.data))
				}
			})
		}
	}
}

func TestCompressDecompress_ByteSliceHelpers(t *testing.T) {
	for _, in := range testInputSet() {
		t.Run(in.name, func(t *testing.T) {
			cmp, err := CompressBytes(DefaultHistoryLog2, in.data)
			if err != nil {
				t.Fatalf("CompressBytes failed: %v", err)
			}

			out, err := DecompressBytes(DefaultHistoryLog2, cmp)
			if err != nil {
				t.Fatalf("DecompressBytes failed: %v", err)
			}
			if !bytes.Equal(out, in.data) {
				t.Fatalf("round-trip mismatch: got=%d want=%d bytes", len(out), len(in.data))
			}
		})
	}
}

func TestCompress_SizingModeMatchesBufferedMode(t *testing.T) {
	data := bytes.Repeat([]byte("the quick brown fox"), 500)

	c, err := NewCompressor(DefaultHistoryLog2)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}

	sizer := &Params{In: data}
	if status := c.Compress(sizer); status != StatusOK {
		t.Fatalf("sizing pass: unexpected status %s", status)
	}
	sizer.In = nil
	if status := c.Compress(sizer); status != StatusFinished {
		t.Fatalf("sizing pass flush: unexpected status %s", status)
	}

	c.Reset()
	cmp, err := CompressBytes(DefaultHistoryLog2, data)
	if err != nil {
		t.Fatalf("CompressBytes failed: %v", err)
	}

	if sizer.Sized != uint64(len(cmp)) {
		t.Fatalf("sizing mismatch: sized=%d actual=%d", sizer.Sized, len(cmp))
	}
}

func TestCompress_ChunkedInputMatchesWholeInput(t *testing.T) {
	data := bytes.Repeat([]byte("mississippi river"), 300)

	whole, err := CompressBytes(DefaultHistoryLog2, data)
	if err != nil {
		t.Fatalf("CompressBytes failed: %v", err)
	}

	c, err := NewCompressor(DefaultHistoryLog2)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}

	var out bytes.Buffer
	outBuf := make([]byte, 3)
	for _, chunk := range chunksOf(data, 7) {
		p := &Params{In: chunk}
		for {
			p.Out = outBuf
			status := c.Compress(p)
			out.Write(outBuf[:len(outBuf)-len(p.Out)])
			if status == StatusOK {
				break
			}
			if status != StatusBufferOverflow {
				t.Fatalf("Compress: unexpected status %s", status)
			}
		}
	}
	p := &Params{}
	for {
		p.Out = outBuf
		status := c.Compress(p)
		out.Write(outBuf[:len(outBuf)-len(p.Out)])
		if status == StatusFinished {
			break
		}
		if status != StatusBufferOverflow {
			t.Fatalf("Compress flush: unexpected status %s", status)
		}
	}

	if !bytes.Equal(out.Bytes(), whole) {
		t.Fatalf("chunked compression diverged from whole-input compression: %d vs %d bytes", out.Len(), len(whole))
	}
}

func chunksOf(data []byte, n int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		k := n
		if k > len(data) {
			k = len(data)
		}
		chunks = append(chunks, data[:k])
		data = data[k:]
	}
	return chunks
}

func TestCompressor_ResetProducesFreshOutput(t *testing.T) {
	data := []byte("repeat repeat repeat repeat")

	c, err := NewCompressor(DefaultHistoryLog2)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}
	first := compressAll(t, c, data)

	c.Reset()
	second := compressAll(t, c, data)

	if !bytes.Equal(first, second) {
		t.Fatalf("Reset did not restore identical encoder state: %x vs %x", first, second)
	}
}

func TestProgressCallback_AbortsAndResumes(t *testing.T) {
	data := bytes.Repeat([]byte("progress test data"), 100)

	calls := 0
	aborted := false
	c, err := NewCompressor(DefaultHistoryLog2)
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}

	p := &Params{
		In: data,
		Progress: func(inTotal, outTotal uint64) bool {
			calls++
			if calls == 3 && !aborted {
				aborted = true
				return false
			}
			return true
		},
	}
	buf := make([]byte, len(data)+64)
	p.Out = buf
	status := c.Compress(p)
	if status != StatusAborted {
		t.Fatalf("expected StatusAborted, got %s", status)
	}

	// Resuming with a callback that always continues must finish cleanly.
	p.Progress = func(uint64, uint64) bool { return true }
	for {
		status = c.Compress(p)
		if status == StatusOK && len(p.In) == 0 {
			p.In = nil
			continue
		}
		if status == StatusFinished {
			break
		}
		if status != StatusOK {
			t.Fatalf("unexpected status while resuming: %s", status)
		}
	}
}

func TestReadSizeBits_AsymmetricAtHalfWindow(t *testing.T) {
	cases := []struct {
		historyLog2 uint
		readOffset  uint
		want        uint
	}{
		{historyLog2: 9, readOffset: 0, want: 9},
		{historyLog2: 9, readOffset: 255, want: 9},
		{historyLog2: 9, readOffset: 256, want: 8},
		{historyLog2: 9, readOffset: 511, want: 8},
		{historyLog2: 0, readOffset: 0, want: 0},
	}
	for _, tc := range cases {
		got := readSizeBits(tc.historyLog2, tc.readOffset)
		if got != tc.want {
			t.Errorf("readSizeBits(%d, %d) = %d, want %d", tc.historyLog2, tc.readOffset, got, tc.want)
		}
	}
}

func TestFourthDimension_NeverCopiesMostRecentByte(t *testing.T) {
	// A run long enough that, without the Fourth Dimension restriction, a
	// copy reaching the most recent byte (offset 2^historyLog2-1) would be
	// the obvious choice. Copies with offset 0 (the oldest byte) are
	// rejected as well.
	data := bytes.Repeat([]byte{0x42}, 64)

	c, err := NewCompressor(8, WithFourthDimension(true))
	if err != nil {
		t.Fatalf("NewCompressor failed: %v", err)
	}

	var sawOffsetZero bool
	p := &Params{In: data}
	// A 1-byte output buffer forces frequent StatusBufferOverflow stalls,
	// so the in-flight committed match (c.readOffset/c.readSize, not yet
	// reset by compStateNextSequence) is observable between calls.
	buf := make([]byte, 1)
	for {
		p.Out = buf
		status := c.Compress(p)
		if c.readSize > 0 && (c.readOffset == 0 || c.readOffset+c.readSize > 1<<8-1) {
			sawOffsetZero = true
		}
		if status == StatusOK && len(p.In) == 0 {
			p.In = nil
			continue
		}
		if status == StatusFinished {
			break
		}
		if status != StatusOK && status != StatusBufferOverflow {
			t.Fatalf("unexpected status %s", status)
		}
	}

	if sawOffsetZero {
		t.Fatalf("Fourth Dimension compressor committed a copy with offset 0 or reaching the most recent byte")
	}
}

func TestDecompress_BadInputOnOversizeCopy(t *testing.T) {
	d, err := NewDecompressor(4) // window = 16 bytes
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}

	// Type bit 1 (copy), then offset=15 packed into 4 bits (the window is
	// 16 bytes). readSizeBits(4, 15) == 3 since 15 is in the upper half of
	// the window, so the size field is 3 bits; size=7 makes
	// offset+size == 22, which overruns the 16-byte window.
	acc := uint32(1) | (15 << 1) | (7 << 5)
	in := []byte{byte(acc)}

	p := &Params{In: in, Out: make([]byte, 32)}
	status := d.Decompress(p)
	if status != StatusBadInput {
		t.Fatalf("expected StatusBadInput, got %s", status)
	}
}

func TestDecompress_TruncatedInputMidDirective(t *testing.T) {
	d, err := NewDecompressor(DefaultHistoryLog2)
	if err != nil {
		t.Fatalf("NewDecompressor failed: %v", err)
	}

	// A lone type bit (copy) with nothing after it: the offset field can
	// never be read.
	p := &Params{In: []byte{0x01}, Out: make([]byte, 16)}
	status := d.Decompress(p)
	if status != StatusTruncatedInput {
		t.Fatalf("expected StatusTruncatedInput, got %s", status)
	}
}

func TestNewCompressor_RejectsOutOfRangeHistoryLog2(t *testing.T) {
	if _, err := NewCompressor(MaxHistoryLog2 + 1); err != ErrHistoryLog2Range {
		t.Fatalf("expected ErrHistoryLog2Range, got %v", err)
	}
	if _, err := NewDecompressor(MaxHistoryLog2 + 1); err != ErrHistoryLog2Range {
		t.Fatalf("expected ErrHistoryLog2Range, got %v", err)
	}
}
