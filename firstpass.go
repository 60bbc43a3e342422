package qadom

import "encoding/binary"

// firstPassState walks the input once, validating grammar and accumulating
// the totals needed downstream: a running cell count, a running arena
// byte count, and — when a real buffer is available — per-container child
// counts written into a scratch region growing up from offset 0.
type firstPassState struct {
	json        []byte
	buf         []byte // nil in measure-only mode (calculate_max_buffer_size)
	cfg         *parseConfig
	depth       int
	nodeCount   uint32
	stringBytes uint32
	scratchTop  uint32 // next free scratch byte offset; also the running slot count * 4
}

// reserveScratchSlot hands back the byte offset of a fresh scratch slot,
// growing buf through the configured reallocator if the slot doesn't fit —
// growing buf through the configured reallocator if the slot doesn't fit.
func (s *firstPassState) reserveScratchSlot(offsetForErr int) (slot uint32, err *Error) {
	slot = s.scratchTop
	s.scratchTop += 4
	if s.buf == nil {
		return slot, nil
	}
	if int(slot)+4 > len(s.buf) {
		next, e := growBuffer(s.cfg, s.buf, int(slot)+4, offsetForErr)
		if e != nil {
			return 0, e
		}
		s.buf = next
	}
	return slot, nil
}

func (s *firstPassState) writeScratchSlot(slot, count uint32) {
	if s.buf == nil {
		return
	}
	binary.LittleEndian.PutUint32(s.buf[slot:slot+4], count)
}

// runFirstPass is the entry point used by both calculate_max_buffer_size
// (buf == nil) and the real parse path (buf == caller's buffer, possibly
// grown along the way). It returns the three running totals plus
// the (possibly reallocated) buffer.
func runFirstPass(json []byte, buf []byte, cfg *parseConfig) (nodeCount, stringBytes, scratchBytes uint32, outBuf []byte, cerr *Error) {
	s := &firstPassState{json: json, buf: buf, cfg: cfg}

	pos, err := skipWhitespaceAndComments(json, 0, cfg.strict)
	if err != nil {
		return 0, 0, 0, s.buf, err
	}
	if pos >= len(json) {
		return 0, 0, 0, s.buf, &Error{Code: CodeTruncated, Offset: pos}
	}

	pos, err = s.parseValue(pos)
	if err != nil {
		return 0, 0, 0, s.buf, err
	}

	pos, err = skipWhitespaceAndComments(json, pos, cfg.strict)
	if err != nil {
		return 0, 0, 0, s.buf, err
	}
	if pos != len(json) && cfg.strict {
		return 0, 0, 0, s.buf, &Error{Code: CodeUnexpectedAppendix, Offset: pos}
	}

	return s.nodeCount, s.stringBytes, s.scratchTop, s.buf, nil
}

func (s *firstPassState) parseValue(pos int) (int, *Error) {
	pos, err := skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	if pos >= len(s.json) {
		return pos, &Error{Code: CodeTruncated, Offset: pos}
	}
	switch classify(s.json[pos]) {
	case classObjectStart:
		return s.parseObject(pos)
	case classArrayStart:
		return s.parseArray(pos)
	case classStringStart:
		n, end, serr := scanStringMeasure(s.json, pos+1)
		if serr != nil {
			return end, serr
		}
		s.nodeCount++
		if n > inlineStringCap {
			s.stringBytes += uint32(n) + 1 // +1 for the arena NUL terminator
		}
		return end, nil
	case classNumberStart:
		end, nerr := scanNumber(s.json, pos, s.cfg.strict)
		if nerr != nil {
			return end, nerr
		}
		s.nodeCount++
		return end, nil
	case classLiteralStart:
		end, _, _, lerr := scanLiteral(s.json, pos)
		if lerr != nil {
			return end, lerr
		}
		s.nodeCount++
		return end, nil
	default:
		return pos, &Error{Code: CodeUnexpectedChar, Offset: pos}
	}
}

func (s *firstPassState) parseObject(pos int) (int, *Error) {
	s.depth++
	if s.depth > s.cfg.maxDepth {
		return pos, &Error{Code: CodeDepthOverflow, Offset: pos}
	}
	defer func() { s.depth-- }()

	slot, err := s.reserveScratchSlot(pos)
	if err != nil {
		return pos, err
	}
	s.nodeCount++ // the object cell itself
	pos++         // consume '{'

	var count uint32
	var werr *Error
	pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if werr != nil {
		return pos, werr
	}
	if pos < len(s.json) && s.json[pos] == '}' {
		s.writeScratchSlot(slot, count)
		return pos + 1, nil
	}

	for {
		pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if werr != nil {
			return pos, werr
		}
		if pos >= len(s.json) || s.json[pos] != '"' {
			return pos, &Error{Code: CodeUnexpectedChar, Offset: pos}
		}
		n, end, kerr := scanStringMeasure(s.json, pos+1)
		if kerr != nil {
			return end, kerr
		}
		s.nodeCount++ // the key cell
		if n > inlineStringCap {
			s.stringBytes += uint32(n) + 1
		}
		pos = end

		pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if werr != nil {
			return pos, werr
		}
		if pos >= len(s.json) || s.json[pos] != ':' {
			return pos, &Error{Code: CodeMissingColon, Offset: pos}
		}
		pos++

		var verr *Error
		pos, verr = s.parseValue(pos)
		if verr != nil {
			return pos, verr
		}
		count++

		pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if werr != nil {
			return pos, werr
		}
		if pos >= len(s.json) {
			return pos, &Error{Code: CodeTruncated, Offset: pos}
		}
		switch s.json[pos] {
		case ',':
			pos++
			pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
			if werr != nil {
				return pos, werr
			}
			if pos < len(s.json) && s.json[pos] == '}' {
				if s.cfg.strict {
					return pos, &Error{Code: CodeTrailingComma, Offset: pos}
				}
				s.writeScratchSlot(slot, count)
				return pos + 1, nil
			}
		case '}':
			s.writeScratchSlot(slot, count)
			return pos + 1, nil
		default:
			return pos, &Error{Code: CodeMissingComma, Offset: pos}
		}
	}
}

func (s *firstPassState) parseArray(pos int) (int, *Error) {
	s.depth++
	if s.depth > s.cfg.maxDepth {
		return pos, &Error{Code: CodeDepthOverflow, Offset: pos}
	}
	defer func() { s.depth-- }()

	slot, err := s.reserveScratchSlot(pos)
	if err != nil {
		return pos, err
	}
	s.nodeCount++
	pos++ // consume '['

	var count uint32
	var werr *Error
	pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if werr != nil {
		return pos, werr
	}
	if pos < len(s.json) && s.json[pos] == ']' {
		s.writeScratchSlot(slot, count)
		return pos + 1, nil
	}

	for {
		var verr *Error
		pos, verr = s.parseValue(pos)
		if verr != nil {
			return pos, verr
		}
		count++

		pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if werr != nil {
			return pos, werr
		}
		if pos >= len(s.json) {
			return pos, &Error{Code: CodeTruncated, Offset: pos}
		}
		switch s.json[pos] {
		case ',':
			pos++
			pos, werr = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
			if werr != nil {
				return pos, werr
			}
			if pos < len(s.json) && s.json[pos] == ']' {
				if s.cfg.strict {
					return pos, &Error{Code: CodeTrailingComma, Offset: pos}
				}
				s.writeScratchSlot(slot, count)
				return pos + 1, nil
			}
		case ']':
			s.writeScratchSlot(slot, count)
			return pos + 1, nil
		default:
			return pos, &Error{Code: CodeMissingComma, Offset: pos}
		}
	}
}
