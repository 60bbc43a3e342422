package qadom

import "bytes"

// cellStringBytes returns the decoded bytes a string cell refers to. buf is
// the parsed-document buffer (for arena payloads); input is the original
// JSON text (for insitu reference payloads, nil otherwise). The returned
// slice for the inline variant is a fresh copy since there is no backing
// array to slice into; arena and ref variants are returned as zero-copy
// subslices.
func cellStringBytes(buf, input []byte, c cell) []byte {
	switch c.word.internal() {
	case stringInline:
		return unpackInlineString(uint32(c.word.storage()), c.length, c.payload)
	case stringArena:
		off := uint32(c.payload)
		return buf[off : off+c.length]
	case stringRef:
		off := uint32(c.payload)
		return input[off : off+c.length]
	default:
		return nil
	}
}

// compareKeys orders two key byte strings shortest-first, then
// lexicographically within equal lengths — the comparator object member
// binary search relies on.
func compareKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// compareKeyCellToTarget compares a member's key cell against a candidate
// key. A key cell that isn't string-typed is a builder capacity sentinel
// (unused reserved slot) and always sorts after every real key.
func compareKeyCellToTarget(buf, refSource []byte, c cell, target []byte) int {
	if c.word.public() != TypeString {
		return 1
	}
	return compareKeys(cellStringBytes(buf, refSource, c), target)
}

// keyCellLess orders two key cells the same way, for use when sorting a
// member slot block that may contain capacity sentinels.
func keyCellLess(buf, refSource []byte, a, b cell) bool {
	aSentinel := a.word.public() != TypeString
	bSentinel := b.word.public() != TypeString
	if aSentinel || bSentinel {
		return bSentinel && !aSentinel
	}
	return compareKeys(cellStringBytes(buf, refSource, a), cellStringBytes(buf, refSource, b)) < 0
}
