// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// compState is the compressor's state tag. The zero value is
// compStateProgress, which is reachable directly at construction time
// without running compStateNextSequence's reset step, because that step
// only zeros fields that are already zero on a freshly made Compressor.
type compState int

const (
	compStateNextSequence compState = iota - 1
	compStateProgress
	compStateFindSequence
	compStatePutOffset
	compStatePutSize
	compStatePutByte
	compStatePutBytes
	compStateFlush
)

// Compressor is a resumable encoder for Gordon Key's compressed format. It
// is not safe for concurrent use; two distinct Compressors share nothing
// and may run on separate goroutines.
type Compressor struct {
	state    compState
	inTotal  uint64
	outTotal uint64

	acc      uint32
	accNBits uint

	historyLog2     uint
	fourthDimension bool
	history         *ringBuffer

	// Match currently being searched/emitted; see match.go.
	readOffset, readSize         uint
	bestReadOffset, bestReadSize uint
	maxReadSize                  uint
}

// CompressorOption configures a Compressor at construction time.
type CompressorOption func(*Compressor)

// WithFourthDimension controls the "Fourth Dimension" compatibility switch
// (see match.go). It defaults to enabled, matching the reference encoder;
// passing false allows the encoder to copy the single most recently
// written byte, which the reference encoder never does.
func WithFourthDimension(enabled bool) CompressorOption {
	return func(c *Compressor) {
		c.fourthDimension = enabled
	}
}

// NewCompressor creates a compressor that looks behind 2^historyLog2 bytes.
// The same historyLog2 must be used to construct the matching Decompressor.
func NewCompressor(historyLog2 uint, opts ...CompressorOption) (*Compressor, error) {
	if err := validateHistoryLog2(historyLog2); err != nil {
		return nil, err
	}

	c := &Compressor{
		historyLog2:     historyLog2,
		fourthDimension: true,
		history:         newRingBuffer(historyLog2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reset returns the compressor to the state of a freshly constructed
// Compressor with the same historyLog2 and options, discarding all history.
func (c *Compressor) Reset() {
	c.state = compStateProgress
	c.inTotal = 0
	c.outTotal = 0
	c.acc = 0
	c.accNBits = 0
	c.readOffset, c.readSize = 0, 0
	c.bestReadOffset, c.bestReadSize = 0, 0
	c.maxReadSize = 0
	c.history.reset()
}

// InTotal and OutTotal report the running totals of bytes consumed and
// produced since construction or the last Reset.
func (c *Compressor) InTotal() uint64  { return c.inTotal }
func (c *Compressor) OutTotal() uint64 { return c.outTotal }

// writeBits OR-s value's low nbits bits into the accumulator above its
// current contents, first draining any whole bytes already waiting. It
// reports false (without consuming any of value) if the output buffer runs
// out mid-drain; the bytes already drained are removed from the accumulator
// so a later call with more output space resumes correctly.
func (c *Compressor) writeBits(p *Params, nbits uint, value uint32) bool {
	acc := c.acc
	accNBits := c.accNBits

	for accNBits >= 8 {
		if !p.sizing() {
			if len(p.Out) == 0 {
				c.acc = acc
				c.accNBits = accNBits
				return false
			}
			p.Out[0] = byte(acc)
			p.Out = p.Out[1:]
		} else {
			p.Sized++
		}

		acc >>= 8
		accNBits -= 8
		c.outTotal++
	}

	acc |= value << accNBits
	accNBits += nbits

	c.acc = acc
	c.accNBits = accNBits
	return true
}

// flushBits pads the accumulator with zero bits up to the next byte
// boundary and drains it completely. Writing anything after a successful
// flush is undefined; the state machine never does so (compStateFlush is
// terminal).
func (c *Compressor) flushBits(p *Params) bool {
	if c.accNBits%8 != 0 {
		c.accNBits += 8 - c.accNBits%8
	}
	return c.writeBits(p, 0, 0)
}

// literalPacker returns a ringWriteFunc that packs each source byte as a
// literal directive (type bit 0, then 8 bits of value) into p, stopping at
// the first byte that doesn't fit and reporting how many were packed. This
// is how copyWithin's callback plumbs window bytes into the bit stream for
// compStatePutBytes.
func (c *Compressor) literalPacker(p *Params) ringWriteFunc {
	return func(src []byte) uint {
		var n uint
		for _, b := range src {
			if !c.writeBits(p, 9, uint32(b)<<1) {
				break
			}
			n++
		}
		return n
	}
}

// Compress reads from p.In and writes compressed output to p.Out (or, if
// p.Out is nil, accumulates the required size into p.Sized), resuming from
// wherever the previous call left off. The caller must signal end of stream
// by calling with an empty p.In ("flush"); once that flush completes,
// Compress returns StatusFinished forever and ignores any further input.
func (c *Compressor) Compress(p *Params) Status {
	status := StatusOK
	state := c.state
	flush := len(p.In) == 0
	proceed := true

	for status == StatusOK && proceed {
		switch state {
		case compStateNextSequence:
			c.bestReadOffset, c.bestReadSize = 0, 0
			c.readOffset, c.readSize = 0, 0
			state = compStateProgress

		case compStateProgress:
			if p.reportProgress(c.inTotal, c.outTotal) {
				state = compStateFindSequence
			} else {
				status = StatusAborted
			}

		case compStateFindSequence:
			// A flush call never re-enters the match finder: whatever
			// candidate was left over from a prior stall (or the zeroed
			// state from compStateNextSequence) is already the best
			// possible, since no more input will ever arrive.
			committed := flush
			if !committed {
				committed = c.findSequence(p)
			}

			if !committed {
				proceed = false
				break
			}

			switch {
			case c.readSize == 0 && len(p.In) > 0:
				state = compStatePutByte
			case c.readSize == 0 && flush:
				state = compStateFlush
			case c.readSize == 0:
				// historyLog2 == 0: the geometric bound is always zero, so
				// every call exhausts its input without a candidate.
				proceed = false
			default:
				nbits := readSizeBits(c.historyLog2, c.readOffset)
				copyBits := 1 + c.historyLog2 + nbits
				literalBits := c.readSize * 9
				if literalBits < copyBits {
					state = compStatePutBytes
				} else {
					state = compStatePutOffset
				}
			}

		case compStatePutOffset:
			if c.writeBits(p, c.historyLog2+1, uint32(c.readOffset)<<1|1) {
				state = compStatePutSize
			} else {
				status = StatusBufferOverflow
			}

		case compStatePutSize:
			nbits := readSizeBits(c.historyLog2, c.readOffset)
			if c.writeBits(p, nbits, uint32(c.readSize)) {
				c.history.copyWithin(nil, c.readOffset, c.readSize)
				state = compStateNextSequence
			} else {
				status = StatusBufferOverflow
			}

		case compStatePutByte:
			b := p.In[0]
			if c.writeBits(p, 9, uint32(b)<<1) {
				c.history.write(p.In[:1])
				p.In = p.In[1:]
				c.inTotal++
				state = compStateNextSequence
			} else {
				status = StatusBufferOverflow
			}

		case compStatePutBytes:
			copied := c.history.copyWithin(c.literalPacker(p), c.readOffset, c.readSize)
			if copied >= c.readSize {
				state = compStateNextSequence
			} else {
				c.readSize -= copied
				status = StatusBufferOverflow
			}

		case compStateFlush:
			if c.flushBits(p) {
				status = StatusFinished
			} else {
				status = StatusBufferOverflow
			}
		}
	}

	c.state = state
	return status
}
