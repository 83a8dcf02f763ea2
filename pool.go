// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

import "sync"

// Engines are pooled per historyLog2 because a ringBuffer's backing array
// is sized for one particular window and isn't worth reallocating on every
// one-shot call.
var (
	compressorPools   sync.Map // uint -> *sync.Pool of *Compressor
	decompressorPools sync.Map // uint -> *sync.Pool of *Decompressor
)

func compressorPoolFor(historyLog2 uint) *sync.Pool {
	if p, ok := compressorPools.Load(historyLog2); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			c, _ := NewCompressor(historyLog2)
			return c
		},
	}
	actual, _ := compressorPools.LoadOrStore(historyLog2, p)
	return actual.(*sync.Pool)
}

func decompressorPoolFor(historyLog2 uint) *sync.Pool {
	if p, ok := decompressorPools.Load(historyLog2); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{
		New: func() any {
			d, _ := NewDecompressor(historyLog2)
			return d
		},
	}
	actual, _ := decompressorPools.LoadOrStore(historyLog2, p)
	return actual.(*sync.Pool)
}

// acquireCompressor gets a Compressor for historyLog2 from the pool, reset
// and ready to use.
func acquireCompressor(historyLog2 uint) *Compressor {
	c := compressorPoolFor(historyLog2).Get().(*Compressor)
	c.Reset()
	return c
}

// releaseCompressor returns a Compressor acquired from acquireCompressor to
// its pool.
func releaseCompressor(historyLog2 uint, c *Compressor) {
	if c == nil {
		return
	}
	compressorPoolFor(historyLog2).Put(c)
}

// acquireDecompressor gets a Decompressor for historyLog2 from the pool,
// reset and ready to use.
func acquireDecompressor(historyLog2 uint) *Decompressor {
	d := decompressorPoolFor(historyLog2).Get().(*Decompressor)
	d.Reset()
	return d
}

// releaseDecompressor returns a Decompressor acquired from
// acquireDecompressor to its pool.
func releaseDecompressor(historyLog2 uint, d *Decompressor) {
	if d == nil {
		return
	}
	decompressorPoolFor(historyLog2).Put(d)
}
