package qadom

import (
	"math"
	"strconv"
)

var hexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendEscapedString quotes src and escapes the seven standard JSON
// escapes plus control characters below 0x20 as \u00XX.
func appendEscapedString(dst, src []byte) []byte {
	dst = append(dst, '"')
	for _, c := range src {
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
			} else {
				dst = append(dst, c)
			}
		}
	}
	return append(dst, '"')
}

// appendDouble prints f the way every other field here expects a double to
// read: fixed notation with trailing zeros trimmed inside (1e-6, 1e9),
// scientific notation outside it, "null" for NaN/Inf.
func appendDouble(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, 'n', 'u', 'l', 'l')
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs <= 1e-6 || abs >= 1e9) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// strconv pads the exponent to two digits with a leading zero
		// ("1e-06"); every other JSON encoder in this ecosystem drops it.
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && (dst[n-3] == '-' || dst[n-3] == '+') && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

func appendNumber(dst []byte, v Value) []byte {
	c := v.cell()
	switch c.word.storage() {
	case bitDouble:
		return appendDouble(dst, math.Float64frombits(c.payload))
	case bitU32, bitU64:
		return strconv.AppendUint(dst, c.payload, 10)
	default:
		return strconv.AppendInt(dst, int64(c.payload), 10)
	}
}

func appendValue(dst []byte, v Value) []byte {
	switch v.Type() {
	case TypeBool:
		if v.Bool() {
			return append(dst, 't', 'r', 'u', 'e')
		}
		return append(dst, 'f', 'a', 'l', 's', 'e')
	case TypeNumber:
		return appendNumber(dst, v)
	case TypeString:
		return appendEscapedString(dst, v.StringBytes())
	case TypeArray:
		dst = append(dst, '[')
		a := v.Array()
		for i := 0; i < a.Size(); i++ {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendValue(dst, a.Get(i))
		}
		return append(dst, ']')
	case TypeObject:
		dst = append(dst, '{')
		o := v.Object()
		first := true
		for i := 0; i < o.Size(); i++ {
			mk := o.MemberKey(i)
			if mk.IsNull() || mk.IsNotSet() {
				continue // unused builder capacity slot
			}
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendEscapedString(dst, mk.StringBytes())
			dst = append(dst, ':')
			dst = appendValue(dst, o.MemberValue(i))
		}
		return append(dst, '}')
	case TypeError:
		dst = append(dst, '{', '"', 'e', 'r', 'r', 'o', 'r', '"', ':')
		dst = appendEscapedString(dst, []byte(v.ErrorCode().String()))
		dst = append(dst, ',', '"', 'o', 'f', 'f', 's', 'e', 't', '"', ':')
		dst = strconv.AppendInt(dst, int64(v.ErrorOffset()), 10)
		return append(dst, '}')
	default: // TypeNull, TypeNotSet
		return append(dst, 'n', 'u', 'l', 'l')
	}
}

// Sprint serializes v into buf, always NUL-terminating and truncating
// silently if buf is smaller than the encoded output. It returns the number
// of content bytes written, not counting the terminator.
func Sprint(v Value, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	full := appendValue(make([]byte, 0, 64), v)
	n := len(full)
	if n > len(buf)-1 {
		n = len(buf) - 1
	}
	copy(buf, full[:n])
	buf[n] = 0
	return n
}

// PrintCharFunc receives one output character at a time from PrintCallback.
type PrintCharFunc func(ctx interface{}, ch byte)

// PrintCallback serializes v, invoking fn once per output character.
func PrintCallback(v Value, fn PrintCharFunc, ctx interface{}) {
	full := appendValue(make([]byte, 0, 64), v)
	for _, c := range full {
		fn(ctx, c)
	}
}

// PrintBufferFunc receives one chunk of output at a time from
// PrintBufferCallback.
type PrintBufferFunc func(ctx interface{}, chunk []byte)

const printChunkSize = 4096

// PrintBufferCallback serializes v, invoking fn once per fixed-size chunk
// of output (the last chunk may be shorter).
func PrintBufferCallback(v Value, fn PrintBufferFunc, ctx interface{}) {
	full := appendValue(make([]byte, 0, 64), v)
	for i := 0; i < len(full); i += printChunkSize {
		end := i + printChunkSize
		if end > len(full) {
			end = len(full)
		}
		fn(ctx, full[i:end])
	}
}
