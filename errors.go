// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

import "errors"

// Status is the outcome of a single Compress or Decompress call. Unlike a
// plain error, OK, BufferOverflow, Aborted and Finished are all expected
// outcomes that a caller drives a loop around.
type Status int

const (
	// StatusOK means all provided input was consumed without reaching any
	// of the other statuses below.
	StatusOK Status = iota

	// StatusBadInput means the decoder was given structurally invalid
	// compressed data: a zero-length copy, or a copy whose offset+size
	// straddles the logical end of the history window. Non-zero padding
	// bits at end of stream are reported as StatusTruncatedInput.
	// Decompressor-only.
	StatusBadInput

	// StatusTruncatedInput means the bit stream ended mid-directive, or
	// ended mid-literal with a non-zero residual accumulator.
	// Decompressor-only.
	StatusTruncatedInput

	// StatusBufferOverflow means the output buffer was exhausted before
	// the current directive finished. Recoverable: call again with more
	// output space.
	StatusBufferOverflow

	// StatusAborted means the progress callback requested cancellation.
	// Recoverable: call again with a continuing callback.
	StatusAborted

	// StatusFinished is terminal and compressor-only: the flush completed
	// and the bit stream is fully padded. Further input is discarded.
	StatusFinished
)

// String implements fmt.Stringer. It is a debugging aid, not load-bearing
// for any decision in this package.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadInput:
		return "BadInput"
	case StatusTruncatedInput:
		return "TruncatedInput"
	case StatusBufferOverflow:
		return "BufferOverflow"
	case StatusAborted:
		return "Aborted"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Sentinel errors. ErrHistoryLog2Range is returned by the constructors; the
// rest are returned only by the []byte-oriented convenience wrappers in
// stream.go, since the low-level Compress/Decompress methods report failure
// via Status instead.
var (
	// ErrHistoryLog2Range is returned by NewCompressor/NewDecompressor
	// when historyLog2 is outside [0, MaxHistoryLog2].
	ErrHistoryLog2Range = errors.New("gkey: history_log_2 out of range")

	// ErrBadInput wraps StatusBadInput for the convenience API.
	ErrBadInput = errors.New("gkey: bad input")

	// ErrTruncatedInput wraps StatusTruncatedInput for the convenience API.
	ErrTruncatedInput = errors.New("gkey: truncated input")

	// ErrAborted wraps StatusAborted for the convenience API.
	ErrAborted = errors.New("gkey: aborted")
)
