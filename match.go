// SPDX-License-Identifier: GPL-2.0-only
// Source: github.com/chrisbazley/gkey

package gkey

// findSequence extends or starts a search for the longest run of bytes at
// the front of p.In that also occurs somewhere in the last 2^historyLog2
// bytes written to history, consuming bytes from p.In as it goes. It
// reports true once no further improvement is possible (either because the
// geometric bound was reached or because the window holds no occurrence of
// the next needed byte), leaving the winning candidate in c.readOffset/
// c.readSize. It reports false if p.In ran out first; the partial search is
// saved back into c's fields so a later call with more input resumes it
// exactly where it left off.
//
// readOffset/readSize count forward from the write position: readOffset is
// how far ahead of the write position (circularly) the candidate copy
// starts, readSize is its length so far.
func (c *Compressor) findSequence(p *Params) bool {
	readOffset := c.readOffset
	readSize := c.readSize
	maxReadSize := c.maxReadSize
	bestReadSize := c.bestReadSize

	var consumed uint

outer:
	for {
		if readSize == 0 {
			maxReadSize = (uint(1) << c.historyLog2) - readOffset
			if c.fourthDimension && maxReadSize > 0 {
				// Never consider copying the single most recent byte.
				maxReadSize--
			}

			if bestReadSize >= maxReadSize {
				break
			}

			var probe byte
			if bestReadSize == 0 {
				if consumed >= uint(len(p.In)) {
					break
				}
				probe = p.In[consumed]
			} else {
				// Only a candidate starting with the incumbent best match's
				// first byte can beat it, so probe for that byte, read
				// from the history itself.
				probe = c.history.readChar(c.bestReadOffset)
			}

			oldReadOffset := readOffset
			found, ok := c.history.findChar(readOffset, maxReadSize-bestReadSize, probe)
			if !ok {
				// No further occurrence of probe anywhere in range: the
				// incumbent best cannot be beaten.
				maxReadSize = 0
				break
			}
			readOffset = found

			if readSize >= bestReadSize {
				consumed++
			}
			readSize++

			maxReadSize -= readOffset - oldReadOffset

			if !c.fourthDimension {
				nbits := readSizeBits(c.historyLog2, readOffset)
				bitsLimit := (uint(1) << nbits) - 1
				if maxReadSize > bitsLimit {
					maxReadSize = bitsLimit
					if maxReadSize <= bestReadSize {
						break
					}
				}
			}

			if readSize < bestReadSize {
				// The new candidate matched the incumbent's first byte;
				// verify it matches the rest before extending further.
				if c.history.compare(readOffset+readSize, c.bestReadOffset+readSize, bestReadSize-readSize) != 0 {
					readOffset++
					readSize = 0
					continue outer
				}
				readSize = bestReadSize
			}
		}

		for readSize < maxReadSize {
			if consumed >= uint(len(p.In)) {
				break outer
			}
			if p.In[consumed] != c.history.readChar(readOffset+readSize) {
				break
			}
			consumed++
			readSize++
		}

		if readSize > bestReadSize {
			c.bestReadOffset = readOffset
			bestReadSize = readSize
		}

		readOffset++
		readSize = 0
	}

	c.inTotal += uint64(consumed)
	p.In = p.In[consumed:]

	var success bool
	if bestReadSize >= maxReadSize {
		c.readSize = bestReadSize
		c.readOffset = c.bestReadOffset
		success = true
	} else {
		c.readSize = readSize
		c.readOffset = readOffset
		success = false
	}

	c.maxReadSize = maxReadSize
	c.bestReadSize = bestReadSize

	return success
}
