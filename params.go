// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// ProgressFunc is invoked at directive boundaries during Compress/Decompress
// with the total number of bytes consumed and produced so far. Returning
// false aborts the operation (Status becomes StatusAborted); the engine
// retains its state and can be resumed by a later call.
type ProgressFunc func(inTotal, outTotal uint64) bool

// Params carries the input and output cursors for a single Compress or
// Decompress call, plus an optional progress callback. Both In and Out are
// advanced in place past whatever the engine consumed or produced, so the
// same Params (with In/Out re-sliced or replaced) can be reused across
// calls to resume a logical stream.
//
// Out == nil selects sizing mode: no bytes are written anywhere, and Sized
// is incremented by the number of bytes that would have been written
// instead. Offset-directive emission still costs bytes in sizing mode; bit
// accounting is identical to the buffered case.
type Params struct {
	In  []byte
	Out []byte

	// Sized accumulates the output byte count in sizing mode (Out == nil).
	// It is never consulted when Out is non-nil.
	Sized uint64

	Progress ProgressFunc
	CbArg    any // not read by this package and not passed to Progress
}

// reportProgress invokes p.Progress if set and returns whether the caller
// should continue.
func (p *Params) reportProgress(inTotal, outTotal uint64) bool {
	if p.Progress == nil {
		return true
	}
	return p.Progress(inTotal, outTotal)
}

// sizing reports whether this call is in sizing mode (no output buffer).
func (p *Params) sizing() bool {
	return p.Out == nil
}
