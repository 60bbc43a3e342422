package qadom

import "testing"

func TestClassifyUint(t *testing.T) {
	cases := []struct {
		v        uint64
		storage  storageBit
		wantMask storageBit
	}{
		{0, bitU32, bitU32 | bitU64 | bitI32 | bitI64 | bitDouble},
		{1 << 40, bitU64, bitU64 | bitI64 | bitDouble},
		{1 << 63, bitU64, bitU64 | bitDouble},
	}
	for _, c := range cases {
		storage, mask := classifyUint(c.v)
		if storage != c.storage {
			t.Errorf("classifyUint(%d) storage = %v, want %v", c.v, storage, c.storage)
		}
		if mask != c.wantMask {
			t.Errorf("classifyUint(%d) mask = %v, want %v", c.v, mask, c.wantMask)
		}
	}
}

func TestClassifyInt(t *testing.T) {
	storage, mask := classifyInt(-5)
	if storage != bitI32 || !mask.has(bitI64) || !mask.has(bitDouble) {
		t.Errorf("classifyInt(-5) = %v/%v, want i32 storage with i64+double in mask", storage, mask)
	}
	storage, mask = classifyInt(-1 << 40)
	if storage != bitI64 || mask.has(bitI32) {
		t.Errorf("classifyInt(-1<<40) = %v/%v, want i64 storage without i32 in mask", storage, mask)
	}
}

func TestMaskHas(t *testing.T) {
	m := bitU32 | bitI64
	if !m.has(bitU32) || !m.has(bitI64) {
		t.Fatal("expected both set bits to report has()")
	}
	if m.has(bitDouble) {
		t.Fatal("did not expect unset bit to report has()")
	}
}
