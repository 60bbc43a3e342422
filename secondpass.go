package qadom

import (
	"math"
	"sort"
	"strconv"
)

// secondPassState walks the input a second time against a prepared layout,
// emitting one cell per node into the slots the scratch counts describe and
// decoding strings/numbers into their final representation.
type secondPassState struct {
	json   []byte // original input; mutated in place when insitu
	layout *layout
	cfg    *parseConfig
	insitu bool
}

// runSecondPass parses json into the cells and arena bytes l already has
// room for, writing the root value at cell index 0.
func runSecondPass(json []byte, l *layout, insitu bool, cfg *parseConfig) *Error {
	s := &secondPassState{json: json, layout: l, cfg: cfg, insitu: insitu}

	pos, err := skipWhitespaceAndComments(json, 0, cfg.strict)
	if err != nil {
		return err
	}
	rootIdx := l.reserveCells(1)
	pos, err = s.parseValueInto(pos, rootIdx)
	if err != nil {
		return err
	}
	_, err = skipWhitespaceAndComments(json, pos, cfg.strict)
	if err != nil {
		return err
	}
	return nil
}

// parseValueInto decodes the value starting at pos into the cell already
// reserved at idx (the caller owns the reservation: a contiguous block for
// array elements or object member slots, or a single cell for the document
// root).
func (s *secondPassState) parseValueInto(pos int, idx uint32) (int, *Error) {
	pos, err := skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	switch classify(s.json[pos]) {
	case classObjectStart:
		return s.parseObjectInto(pos, idx)
	case classArrayStart:
		return s.parseArrayInto(pos, idx)
	case classStringStart:
		return s.parseStringInto(pos, idx)
	case classNumberStart:
		return s.parseNumberInto(pos, idx)
	case classLiteralStart:
		return s.parseLiteralInto(pos, idx)
	default:
		return pos, &Error{Code: CodeUnexpectedChar, Offset: pos}
	}
}

func (s *secondPassState) parseObjectInto(pos int, idx uint32) (int, *Error) {
	memberCount := s.layout.nextScratchCount()
	base := s.layout.reserveCells(memberCount * 2)
	pos++ // consume '{'

	var i uint32
	pos, err := skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	for i = 0; i < memberCount; i++ {
		pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if err != nil {
			return pos, err
		}
		keyIdx := base + 2*i
		valIdx := base + 2*i + 1

		pos, err = s.parseStringInto(pos, keyIdx)
		if err != nil {
			return pos, err
		}
		pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
		if err != nil {
			return pos, err
		}
		pos++ // consume ':'
		pos, err = s.parseValueInto(pos, valIdx)
		if err != nil {
			return pos, err
		}
		if i+1 < memberCount {
			pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
			if err != nil {
				return pos, err
			}
			pos++ // consume ','
		}
	}
	pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	if s.json[pos] == ',' { // lenient trailing comma, already validated by the first pass
		pos, err = skipWhitespaceAndComments(s.json, pos+1, s.cfg.strict)
		if err != nil {
			return pos, err
		}
	}
	pos++ // consume '}'

	internal := objectUnsorted
	if !s.cfg.dontSortMembers && memberCount > 1 {
		if derr := sortObjectMembers(s.layout.buf, s.json, base, memberCount, s.cfg.denyDuplicateKey); derr != nil {
			return pos, derr
		}
	}
	if !s.cfg.dontSortMembers {
		internal = objectSorted
	}
	writeCell(s.layout.buf, idx, cell{
		word:    packTypeWord(TypeObject, internal, 0, 0),
		length:  memberCount,
		payload: uint64(base),
	})
	return pos, nil
}

func (s *secondPassState) parseArrayInto(pos int, idx uint32) (int, *Error) {
	count := s.layout.nextScratchCount()
	base := s.layout.reserveCells(count)
	pos++ // consume '['

	var i uint32
	pos, err := skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	for i = 0; i < count; i++ {
		pos, err = s.parseValueInto(pos, base+i)
		if err != nil {
			return pos, err
		}
		if i+1 < count {
			pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
			if err != nil {
				return pos, err
			}
			pos++ // consume ','
		}
	}
	pos, err = skipWhitespaceAndComments(s.json, pos, s.cfg.strict)
	if err != nil {
		return pos, err
	}
	if s.json[pos] == ',' { // lenient trailing comma, already validated by the first pass
		pos, err = skipWhitespaceAndComments(s.json, pos+1, s.cfg.strict)
		if err != nil {
			return pos, err
		}
	}
	pos++ // consume ']'

	writeCell(s.layout.buf, idx, cell{
		word:    packTypeWord(TypeArray, 0, 0, 0),
		length:  count,
		payload: uint64(base),
	})
	return pos, nil
}

func (s *secondPassState) parseStringInto(pos int, idx uint32) (int, *Error) {
	start := pos + 1 // past opening quote

	if s.insitu {
		n, end, err := decodeStringInto(s.json, start, s.json[start:])
		if err != nil {
			return end, err
		}
		writeCell(s.layout.buf, idx, cell{
			word:    packTypeWord(TypeString, stringRef, 0, 0),
			length:  uint32(n),
			payload: uint64(start),
		})
		return end, nil
	}

	n, end, err := scanStringMeasure(s.json, start)
	if err != nil {
		return end, err
	}

	var c cell
	if n <= inlineStringCap {
		var tmp [inlineStringCap]byte
		if _, _, derr := decodeStringInto(s.json, start, tmp[:]); derr != nil {
			return end, derr
		}
		length, payload := packInlineString(tmp[:n])
		c = cell{word: packTypeWord(TypeString, stringInline, 0, storageBit(n)), length: length, payload: payload}
	} else {
		off := s.layout.allocArena(uint32(n) + 1)
		dst := s.layout.buf[off : off+uint32(n)]
		if _, _, derr := decodeStringInto(s.json, start, dst); derr != nil {
			return end, derr
		}
		s.layout.buf[off+uint32(n)] = 0
		c = cell{word: packTypeWord(TypeString, stringArena, 0, 0), length: uint32(n), payload: uint64(off)}
	}
	writeCell(s.layout.buf, idx, c)
	return end, nil
}

func (s *secondPassState) parseNumberInto(pos int, idx uint32) (int, *Error) {
	start := pos
	end, err := scanNumber(s.json, pos, s.cfg.strict)
	if err != nil {
		return end, err
	}
	c, derr := decodeNumberCell(s.json[start:end])
	if derr != nil {
		return end, &Error{Code: CodeInvalidNumberFormat, Offset: start}
	}
	writeCell(s.layout.buf, idx, c)
	return end, nil
}

func (s *secondPassState) parseLiteralInto(pos int, idx uint32) (int, *Error) {
	end, isTrue, isFalse, err := scanLiteral(s.json, pos)
	if err != nil {
		return end, err
	}
	var c cell
	switch {
	case isTrue:
		storage, mask := classifyBool()
		c = cell{word: packTypeWord(TypeBool, 0, mask, storage), length: 0, payload: 1}
	case isFalse:
		storage, mask := classifyBool()
		c = cell{word: packTypeWord(TypeBool, 0, mask, storage), length: 0, payload: 0}
	default:
		c = cell{word: packTypeWord(TypeNull, 0, 0, 0)}
	}
	writeCell(s.layout.buf, idx, c)
	return end, nil
}

// decodeNumberCell parses a validated number literal, preferring the
// narrowest integer representation and only falling back to double when the
// literal has a fractional or exponent part or overflows 64 bits.
func decodeNumberCell(text []byte) (cell, error) {
	str := string(text)
	isFloat := false
	for _, b := range text {
		if b == '.' || b == 'e' || b == 'E' {
			isFloat = true
			break
		}
	}
	if !isFloat {
		if str[0] == '-' {
			if v, err := strconv.ParseInt(str, 10, 64); err == nil {
				storage, mask := classifyInt(v)
				return cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: uint64(v)}, nil
			}
		} else {
			unsigned := str
			if unsigned[0] == '+' {
				unsigned = unsigned[1:]
			}
			if v, err := strconv.ParseUint(unsigned, 10, 64); err == nil {
				storage, mask := classifyUint(v)
				return cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: v}, nil
			}
		}
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return cell{}, err
	}
	storage, mask := classifyDouble()
	return cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: math.Float64bits(f)}, nil
}

// sortObjectMembers reorders the memberCount key/value slot pairs starting
// at base into key order (shortest-first, then lexicographic), and, when
// denyDup is set, reports the first adjacent duplicate key.
func sortObjectMembers(buf, input []byte, base, memberCount uint32, denyDup bool) *Error {
	type slot struct{ key, val cell }
	slots := make([]slot, memberCount)
	for i := uint32(0); i < memberCount; i++ {
		slots[i] = slot{key: readCell(buf, base+2*i), val: readCell(buf, base+2*i+1)}
	}
	sort.SliceStable(slots, func(a, b int) bool {
		ka := cellStringBytes(buf, input, slots[a].key)
		kb := cellStringBytes(buf, input, slots[b].key)
		return compareKeys(ka, kb) < 0
	})
	for i, sl := range slots {
		writeCell(buf, base+2*uint32(i), sl.key)
		writeCell(buf, base+2*uint32(i)+1, sl.val)
	}
	if denyDup {
		for i := 1; i < len(slots); i++ {
			ka := cellStringBytes(buf, input, slots[i-1].key)
			kb := cellStringBytes(buf, input, slots[i].key)
			if compareKeys(ka, kb) == 0 {
				return &Error{Code: CodeDuplicateKey}
			}
		}
	}
	return nil
}
