// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// MaxHistoryLog2 is the largest history_log_2 this package's bit
// accumulators can carry: both engines insert up to MaxHistoryLog2+1 bits
// into an accumulator on top of up to 7 residual bits, and a uint32
// accumulator has 32 bits to spare.
const MaxHistoryLog2 = 32 - 8

// DefaultHistoryLog2 is the canonical window size (512 bytes) used by the
// target games.
const DefaultHistoryLog2 = 9

// readSizeBits returns the number of bits Gordon Key's wire format
// allocates to the size of a copy directive whose offset is readOffset
// bytes ahead of the write position, for a history window of
// 2^historyLog2 bytes.
//
// If the read offset falls in the upper half of the window then at most
// 2^(historyLog2-1) bytes remain before the window wraps, so one bit can be
// saved. This is intentionally asymmetric: for historyLog2 == 9, offset 255
// still uses 9 size bits (0..511) but offset 256 uses only 8 (0..255) —
// '>' would give marginally better coverage but does not match Gordon
// Key's own encoder, so '>=' is preserved here bit-exactly.
func readSizeBits(historyLog2 uint, readOffset uint) uint {
	if historyLog2 > 0 && readOffset >= uint(1)<<(historyLog2-1) {
		return historyLog2 - 1
	}
	return historyLog2
}
