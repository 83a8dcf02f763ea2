// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// ringBuffer is the sliding-window history buffer shared by the compressor
// and the decompressor. It is a power-of-two-sized circular byte region:
// writePos is the next byte to be written, and the most recent `size` bytes
// ever written are available for reading at offsets counted forward from
// writePos (wrapping at the end).
//
// All addressing within buf is by integer offset masked with size-1, never
// by pointer arithmetic.
type ringBuffer struct {
	buf      []byte
	sizeLog2 uint
	writePos uint
	filled   bool // true once writePos has wrapped at least once
}

// ringWriteFunc is offered each contiguous run of bytes about to be copied
// within the ring buffer (or, for the decompressor, written to the caller's
// output) and returns how many of those bytes it actually accepted. A nil
// ringWriteFunc accepts every run unconditionally.
type ringWriteFunc func(src []byte) uint

// newRingBuffer allocates and zero-initializes a ring buffer of 2^sizeLog2
// bytes.
func newRingBuffer(sizeLog2 uint) *ringBuffer {
	r := &ringBuffer{sizeLog2: sizeLog2}
	r.buf = make([]byte, uint(1)<<sizeLog2)
	return r
}

// reset returns the ring buffer to its freshly-allocated state, discarding
// all history.
func (r *ringBuffer) reset() {
	r.writePos = 0
	r.filled = false
	for i := range r.buf {
		r.buf[i] = 0
	}
}

func (r *ringBuffer) size() uint {
	return uint(len(r.buf))
}

func (r *ringBuffer) mask() uint {
	return r.size() - 1
}

// write appends the bytes of src at writePos, wrapping at the end of the
// buffer. It tolerates src overlapping the ring buffer's own memory, which
// is how copyWithin re-enters it for an internal self-copy.
func (r *ringBuffer) write(src []byte) {
	writePos := r.writePos
	size := r.size()

	for nleft := uint(len(src)); nleft != 0; {
		toCopy := size - writePos
		if toCopy > nleft {
			toCopy = nleft
		}

		// copy() tolerates overlap the same way memmove does, which is
		// required when src aliases r.buf during a self-copy.
		copy(r.buf[writePos:writePos+toCopy], src[:toCopy])
		src = src[toCopy:]
		nleft -= toCopy

		writePos += toCopy
		if writePos >= size {
			writePos = 0
			r.filled = true
		}
	}

	r.writePos = writePos
}

// copyWithin copies n bytes starting offset bytes ahead of writePos
// (circularly) to the write position, advancing writePos by the number of
// bytes actually accepted. Before each contiguous run it invokes writeCB
// (if non-nil) with that run, which may accept fewer bytes than offered;
// copyWithin stops at the first short acceptance and returns the total
// bytes copied so far. Precondition: offset+n <= r.size().
func (r *ringBuffer) copyWithin(writeCB ringWriteFunc, offset, n uint) uint {
	size := r.size()
	var total uint

	for total < n {
		readPos := (r.writePos + offset) & r.mask()
		s := r.buf[readPos:]

		toCopy := size - readPos
		if toCopy > n-total {
			toCopy = n - total
		}
		run := s[:toCopy]

		var accepted uint
		if writeCB != nil {
			accepted = writeCB(run)
			if accepted > toCopy {
				accepted = toCopy
			}
		} else {
			accepted = toCopy
		}

		r.write(run[:accepted])
		total += accepted

		if accepted < toCopy {
			break
		}
	}

	return total
}

// readChar returns the byte at offset bytes ahead of writePos (circularly).
// Precondition: offset < r.size().
func (r *ringBuffer) readChar(offset uint) byte {
	return r.buf[(r.writePos+offset)&r.mask()]
}

// findChar finds the smallest k in [offset, offset+n) such that
// readChar(k) == c, returning (k, true), or (0, false) if c does not occur.
// The region known to still be zero (because writePos has never wrapped) is
// special-cased so it need not be scanned byte by byte.
// Precondition: offset+n <= r.size().
func (r *ringBuffer) findChar(offset, n uint, c byte) (uint, bool) {
	size := r.size()
	absRead := (r.writePos + offset) & r.mask()

	var toSearch uint
	var search bool
	if r.writePos > absRead {
		toSearch = r.writePos - absRead
		search = true
	} else {
		toSearch = size - absRead
		search = r.filled
	}

	if toSearch > n {
		toSearch = n
	}

	var matchPos uint
	var found bool
	if search {
		if idx := indexByte(r.buf[absRead:absRead+toSearch], c); idx >= 0 {
			matchPos = absRead + uint(idx)
			found = true
		}
	} else if c == 0 {
		// The unfilled tail is known to be all zeros.
		matchPos = absRead
		found = true
	}

	if found {
		return matchPos - absRead + offset, true
	}

	if n > toSearch {
		offset += toSearch
		n -= toSearch

		toSearch = r.writePos
		if toSearch > n {
			toSearch = n
		}

		if idx := indexByte(r.buf[:toSearch], c); idx >= 0 {
			return uint(idx) + offset, true
		}
	}

	return 0, false
}

// compare returns a negative, zero or positive value according to the
// lexicographic comparison between the n-byte circular sequences starting offset1 and offset2 bytes ahead of
// writePos. Preconditions: offset1+n <= r.size(), offset2+n <= r.size().
func (r *ringBuffer) compare(offset1, offset2, n uint) int {
	if n == 0 {
		return 0
	}

	absRead1 := (r.writePos + offset1) & r.mask()
	absRead2 := (r.writePos + offset2) & r.mask()

	if n == 1 {
		return int(r.buf[absRead1]) - int(r.buf[absRead2])
	}

	start1, start2 := absRead1, absRead2
	len1 := r.runLenFrom(absRead1)
	len2 := r.runLenFrom(absRead2)

	for nleft := n; nleft != 0; {
		toCompare := minUint(minUint(len1, len2), nleft)

		if d := compareBytes(r.buf[start1:start1+toCompare], r.buf[start2:start2+toCompare]); d != 0 {
			return d
		}

		nleft -= toCompare
		len1 -= toCompare
		if len1 == 0 {
			start1 = 0
			len1 = r.writePos
		} else {
			start1 += toCompare
		}

		len2 -= toCompare
		if len2 == 0 {
			start2 = 0
			len2 = r.writePos
		} else {
			start2 += toCompare
		}
	}

	return 0
}

// runLenFrom returns the length of the contiguous run starting at absPos,
// up to either the write position (if ahead of it) or the end of the
// buffer.
func (r *ringBuffer) runLenFrom(absPos uint) uint {
	if r.writePos > absPos {
		return r.writePos - absPos
	}
	return r.size() - absPos
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func compareBytes(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func minUint(a, b uint) uint {
	if a < b {
		return a
	}
	return b
}
