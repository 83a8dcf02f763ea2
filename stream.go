// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

import (
	"fmt"
	"io"
)

// statusErr turns a terminal Status other than OK/Finished into an error
// for the []byte-oriented convenience functions below, which have no use
// for Status's resumability (they always drive an engine to completion
// themselves).
func statusErr(status Status) error {
	switch status {
	case StatusBadInput:
		return ErrBadInput
	case StatusTruncatedInput:
		return ErrTruncatedInput
	case StatusAborted:
		return ErrAborted
	default:
		return fmt.Errorf("gkey: unexpected status %s", status)
	}
}

// CompressBytes compresses src in one shot using a pooled Compressor with
// the reference encoder's default options (Fourth Dimension enabled). The
// window is 2^historyLog2 bytes.
func CompressBytes(historyLog2 uint, src []byte) ([]byte, error) {
	c := acquireCompressor(historyLog2)
	defer releaseCompressor(historyLog2, c)

	// An empty In is itself the flush, so empty src skips straight to it.
	sizer := &Params{In: src}
	if len(src) > 0 {
		if status := c.Compress(sizer); status != StatusOK {
			return nil, statusErr(status)
		}
	}
	sizer.In = nil
	if status := c.Compress(sizer); status != StatusFinished {
		return nil, statusErr(status)
	}

	c.Reset()
	out := make([]byte, sizer.Sized)
	real := &Params{In: src, Out: out}
	if len(src) > 0 {
		if status := c.Compress(real); status != StatusOK {
			return nil, statusErr(status)
		}
	}
	real.In = nil
	if status := c.Compress(real); status != StatusFinished {
		return nil, statusErr(status)
	}

	return out[:len(out)-len(real.Out)], nil
}

// DecompressBytes decompresses src in one shot using a pooled Decompressor.
// Unlike the compressor, no flush call is needed: the decompressor
// recognizes end of stream from the bit stream itself.
func DecompressBytes(historyLog2 uint, src []byte) ([]byte, error) {
	d := acquireDecompressor(historyLog2)
	defer releaseDecompressor(historyLog2, d)

	sizer := &Params{In: src}
	if status := d.Decompress(sizer); status != StatusOK {
		return nil, statusErr(status)
	}

	d.Reset()
	out := make([]byte, sizer.Sized)
	real := &Params{In: src, Out: out}
	if status := d.Decompress(real); status != StatusOK {
		return nil, statusErr(status)
	}

	return out[:len(out)-len(real.Out)], nil
}

// CompressFromReader reads r to completion then compresses the result. No
// decoding logic of its own.
func CompressFromReader(historyLog2 uint, r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return CompressBytes(historyLog2, src)
}

// DecompressFromReader reads r to completion then decompresses the result.
// No decoding logic of its own.
func DecompressFromReader(historyLog2 uint, r io.Reader) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecompressBytes(historyLog2, src)
}
