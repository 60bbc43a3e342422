package qadom

import "math"

// classifyUint chooses the narrowest storage type for a non-negative
// integer and computes its compatibility mask per the lattice:
//
//	u32  ⇒ {u32, u64, i32?, i64, double}      (i32 included iff value ≤ INT32_MAX)
//	u64  ⇒ {u64, i64?, double}                (i64 iff value ≤ INT64_MAX)
func classifyUint(v uint64) (storage, mask storageBit) {
	if v <= math.MaxUint32 {
		storage = bitU32
		mask = bitU32 | bitU64 | bitI64 | bitDouble
		if v <= math.MaxInt32 {
			mask |= bitI32
		}
		return
	}
	storage = bitU64
	mask = bitU64 | bitDouble
	if v <= math.MaxInt64 {
		mask |= bitI64
	}
	return
}

// classifyInt chooses the narrowest storage type for a negative integer and
// computes its compatibility mask:
//
//	i32  ⇒ {i32, i64, double}
//	i64  ⇒ {i64, double}
func classifyInt(v int64) (storage, mask storageBit) {
	if v >= math.MinInt32 {
		storage = bitI32
		mask = bitI32 | bitI64 | bitDouble
		return
	}
	storage = bitI64
	mask = bitI64 | bitDouble
	return
}

// classifyDouble is the fallback used for any number that didn't round-trip
// through an integer parse.
func classifyDouble() (storage, mask storageBit) {
	return bitDouble, bitDouble
}

// classifyBool returns the fixed storage/mask pair for bool cells.
func classifyBool() (storage, mask storageBit) {
	return bitBool, bitBool
}

// has reports whether mask contains bit.
func (mask storageBit) has(bit storageBit) bool {
	return mask&bit == bit
}
