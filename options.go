// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// validateHistoryLog2 is shared by NewCompressor and NewDecompressor so the
// two engines accept the same range of window sizes. It does not check that
// a compressor and a decompressor are built with the same historyLog2.
func validateHistoryLog2(historyLog2 uint) error {
	if historyLog2 > MaxHistoryLog2 {
		return ErrHistoryLog2Range
	}
	return nil
}
