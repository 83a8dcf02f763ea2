// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

/*
Package gkey implements Gordon Key's sliding-window compression format, as
used by Chris Bazley's GKeyLib to pack graphics and sound data for several
Acorn/RISC OS games. The format is a byte-oriented, LSB-first bit stream of
literal and copy directives against a circular history window of
2^historyLog2 bytes; there is no magic number, length field, or checksum.

Both the compressor and the decompressor are resumable state machines: a
single call to Compress or Decompress may return before all of its input
buffer is consumed (StatusBufferOverflow, because the output buffer filled
up) or before it has produced any committed output (StatusOK, because it
ran out of input mid-match) — in both cases the caller just calls again
with more of the same buffers to pick up where it left off. This lets
either engine run over data piped in from anywhere without holding the
whole stream in memory at once.

# Compress

	c, err := gkey.NewCompressor(gkey.DefaultHistoryLog2)
	p := &gkey.Params{In: data, Out: compressed}
	status := c.Compress(p)
	// status == StatusOK: all of data consumed, more input (or a flush) expected
	p.In = nil // flush: no more input is coming
	status = c.Compress(p)
	// status == StatusFinished: compressed[:len(compressed)-len(p.Out)] is the whole stream

For one-shot use:

	compressed, err := gkey.CompressBytes(gkey.DefaultHistoryLog2, data)

# Decompress

	d, err := gkey.NewDecompressor(gkey.DefaultHistoryLog2)
	p := &gkey.Params{In: compressed, Out: data}
	status := d.Decompress(p)
	// status == StatusOK once the stream's own end-of-data padding is reached

For one-shot use:

	data, err := gkey.DecompressBytes(gkey.DefaultHistoryLog2, compressed)

# Sizing mode

Passing a Params with Out == nil runs either engine without writing
anything; Params.Sized accumulates the number of bytes that would have been
written. This is how the one-shot helpers above compute an exact output
buffer size before allocating it.
*/
package gkey
