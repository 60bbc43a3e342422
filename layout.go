package qadom

import "encoding/binary"

// CalculateMaxBufferSize returns an upper bound on the buffer bytes needed
// to fully parse json in copy mode.
func CalculateMaxBufferSize(json []byte, opts ...ParseOption) (int, error) {
	return calcMaxSize(json, false, opts)
}

// CalculateMaxBufferSizeInsitu returns an upper bound on the buffer bytes
// needed to parse json in insitu mode, where string bytes are aliased into
// the input rather than copied.
func CalculateMaxBufferSizeInsitu(json []byte, opts ...ParseOption) (int, error) {
	return calcMaxSize(json, true, opts)
}

func calcMaxSize(json []byte, insitu bool, opts []ParseOption) (int, error) {
	cfg := defaultParseConfig()
	for _, o := range opts {
		o(&cfg)
	}
	nodeCount, stringBytes, scratchBytes, _, err := runFirstPass(json, nil, &cfg)
	if err != nil {
		return 0, err
	}
	if insitu {
		stringBytes = 0
	}
	total := uint64(nodeCount)*cellBytes + uint64(stringBytes) + uint64(scratchBytes)
	return int(total), nil
}

// layout tracks the three regions of the caller's buffer during the second
// pass: committed cells growing from the low end, arena
// string bytes growing down from just below the relocated scratch tail, and
// the as-yet-unread scratch counts at the high end.
type layout struct {
	buf []byte

	nodeCount   uint32
	stringBytes uint32

	cellCursor uint32 // next free cell index, grows from 0
	arenaTop   uint32 // next arena write boundary, shrinks toward cellCursor*cellBytes
	scratchOff uint32 // next unread scratch slot, grows toward scratchEnd
	scratchEnd uint32 // == total (cells + strings + scratch), not len(buf)
}

// prepareLayout runs the first pass (possibly growing buf for scratch
// overflow), sizes the buffer for the second pass (growing it again if
// undersized), and relocates the scratch region from the low end to the
// high end.
func prepareLayout(json []byte, buf []byte, insitu bool, cfg *parseConfig) (*layout, *Error) {
	nodeCount, stringBytes, scratchBytes, buf, err := runFirstPass(json, buf, cfg)
	if err != nil {
		return nil, err
	}
	if insitu {
		stringBytes = 0
	}
	total := uint64(nodeCount)*cellBytes + uint64(stringBytes) + uint64(scratchBytes)
	if uint64(len(buf)) < total {
		next, e := growBuffer(cfg, buf, int(total), len(json))
		if e != nil {
			return nil, e
		}
		buf = next
	}

	// Anchor the relocated scratch tail (and therefore the arena, which
	// grows down from it) to total, the exact cells+strings+scratch size,
	// not len(buf): a caller-supplied buffer larger than total must still
	// produce a DOM that is compact and self-contained in [0, writtenBytes).
	scratchDst := uint32(total) - scratchBytes
	if scratchBytes > 0 {
		// copy() is memmove-safe for overlapping src/dst, which the small
		// (scratchBytes-sized) low-end-to-high-end relocation can be when
		// the buffer is tight.
		copy(buf[scratchDst:], buf[:scratchBytes])
	}

	return &layout{
		buf:         buf,
		nodeCount:   nodeCount,
		stringBytes: stringBytes,
		cellCursor:  0,
		arenaTop:    scratchDst,
		scratchOff:  scratchDst,
		scratchEnd:  uint32(total),
	}, nil
}

// nextScratchCount pops the next per-container child count, in the same
// tree order the first pass assigned slots.
func (l *layout) nextScratchCount() uint32 {
	v := binary.LittleEndian.Uint32(l.buf[l.scratchOff : l.scratchOff+4])
	l.scratchOff += 4
	return v
}

// reserveCells reserves n contiguous cells at the current low-end cursor
// and returns the index of the first one.
func (l *layout) reserveCells(n uint32) uint32 {
	idx := l.cellCursor
	l.cellCursor += n
	return idx
}

// allocArena reserves n bytes at the high end of the cell region, growing
// down from just below the scratch tail, and returns their offset.
func (l *layout) allocArena(n uint32) uint32 {
	l.arenaTop -= n
	return l.arenaTop
}

// writtenBytes is the size of the self-contained DOM: cells followed
// immediately by arena bytes, with the scratch
// tail trimmed off.
func (l *layout) writtenBytes() uint32 {
	return l.nodeCount*cellBytes + l.stringBytes
}
