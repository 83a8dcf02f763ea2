// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// decompState is the decompressor's state tag. The zero value,
// decompStateProgress, is what a freshly constructed Decompressor starts
// in.
type decompState int

const (
	decompStateProgress decompState = iota
	decompStateGetType
	decompStateGetOffset
	decompStateGetSize
	decompStateCopyData
	decompStateGetByte
	decompStatePutByte
)

// Decompressor is a resumable decoder for Gordon Key's compressed format.
// It is not safe for concurrent use.
type Decompressor struct {
	state    decompState
	inTotal  uint64
	outTotal uint64

	acc      uint32
	accNBits uint

	historyLog2 uint
	history     *ringBuffer

	readOffset, readSize uint
	literal              byte
}

// NewDecompressor creates a decompressor matching a Compressor built with
// the same historyLog2.
func NewDecompressor(historyLog2 uint) (*Decompressor, error) {
	if err := validateHistoryLog2(historyLog2); err != nil {
		return nil, err
	}

	return &Decompressor{
		historyLog2: historyLog2,
		history:     newRingBuffer(historyLog2),
	}, nil
}

// Reset returns the decompressor to its freshly constructed state,
// discarding all history.
func (d *Decompressor) Reset() {
	d.state = decompStateProgress
	d.inTotal = 0
	d.outTotal = 0
	d.acc = 0
	d.accNBits = 0
	d.readOffset, d.readSize = 0, 0
	d.literal = 0
	d.history.reset()
}

func (d *Decompressor) InTotal() uint64  { return d.inTotal }
func (d *Decompressor) OutTotal() uint64 { return d.outTotal }

// readBits tries to fill out with the next nbits bits from the stream,
// LSB-first, consuming whole bytes of p.In as needed. It reports false if
// p.In ran dry before nbits bits were available; the accumulator still
// holds whatever partial bits were read; a clean end of stream is
// indistinguishable from truncation except by whether the accumulator (and
// any bits already extracted by the caller) end up entirely zero.
func (d *Decompressor) readBits(p *Params, nbits uint) (uint32, bool) {
	acc := d.acc
	accNBits := d.accNBits

	for accNBits < nbits {
		if len(p.In) == 0 {
			d.acc = acc
			d.accNBits = accNBits
			return 0, false
		}

		b := p.In[0]
		p.In = p.In[1:]
		d.inTotal++

		acc |= uint32(b) << accNBits
		accNBits += 8
	}

	mask := (uint32(1) << nbits) - 1
	out := acc & mask
	acc >>= nbits
	accNBits -= nbits

	d.acc = acc
	d.accNBits = accNBits
	return out, true
}

// rawWriter returns a ringWriteFunc that copies window bytes straight to
// p.Out (or, in sizing mode, just counts them), the way CopyData moves
// history back into the output stream verbatim.
func (d *Decompressor) rawWriter(p *Params) ringWriteFunc {
	return func(src []byte) uint {
		if p.sizing() {
			p.Sized += uint64(len(src))
			d.outTotal += uint64(len(src))
			return uint(len(src))
		}

		n := uint(len(src))
		if uint(len(p.Out)) < n {
			n = uint(len(p.Out))
		}
		copy(p.Out[:n], src[:n])
		p.Out = p.Out[n:]
		d.outTotal += uint64(n)
		return n
	}
}

// Decompress reads compressed data from p.In and writes the decompressed
// bytes to p.Out (or, if p.Out is nil, accumulates the required size into
// p.Sized), resuming from wherever the previous call left off. It reports
// StatusOK once p.In has been fully consumed without reaching end of
// stream; a clean end of stream is reported as StatusOK too, with the
// caller expected to recognize it has all its expected output rather than
// depending on a distinct terminal status (unlike the compressor, nothing
// in the wire format marks the final byte).
func (d *Decompressor) Decompress(p *Params) Status {
	status := StatusOK
	state := d.state
	stop := false

	for status == StatusOK && !stop {
		switch state {
		case decompStateProgress:
			if p.reportProgress(d.inTotal, d.outTotal) {
				state = decompStateGetType
			} else {
				status = StatusAborted
			}

		case decompStateGetType:
			if bits, ok := d.readBits(p, 1); ok {
				if bits != 0 {
					state = decompStateGetOffset
				} else {
					state = decompStateGetByte
				}
			} else {
				// Coincides with the end of the previous directive: a
				// legitimate place to end the stream.
				stop = true
			}

		case decompStateGetOffset:
			if bits, ok := d.readBits(p, d.historyLog2); ok {
				d.readOffset = uint(bits)
				state = decompStateGetSize
			} else {
				status = StatusTruncatedInput
			}

		case decompStateGetSize:
			nbits := readSizeBits(d.historyLog2, d.readOffset)
			if bits, ok := d.readBits(p, nbits); ok {
				if bits == 0 || d.readOffset+uint(bits) > uint(1)<<d.historyLog2 {
					status = StatusBadInput
				} else {
					d.readSize = uint(bits)
					state = decompStateCopyData
				}
			} else {
				status = StatusTruncatedInput
			}

		case decompStateCopyData:
			copied := d.history.copyWithin(d.rawWriter(p), d.readOffset, d.readSize)
			if copied >= d.readSize {
				state = decompStateProgress
			} else {
				d.readSize -= copied
				status = StatusBufferOverflow
			}

		case decompStateGetByte:
			if bits, ok := d.readBits(p, 8); ok {
				d.literal = byte(bits)
				state = decompStatePutByte
			} else {
				// Bits after the final directive must be zero padding; if
				// what's left of the accumulator is zero this is a clean
				// end of stream, otherwise the stream was cut short.
				if d.acc == 0 {
					stop = true
				} else {
					status = StatusTruncatedInput
				}
			}

		case decompStatePutByte:
			if d.rawWriter(p)([]byte{d.literal}) == 1 {
				d.history.write([]byte{d.literal})
				state = decompStateProgress
			} else {
				status = StatusBufferOverflow
			}
		}
	}

	d.state = state
	return status
}
