package qadom

import "testing"

func TestCompareKeys(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"ab", "abc", -1},
		{"abc", "ab", 1},
		{"abc", "abd", -1},
		{"same", "same", 0},
	}
	for _, c := range cases {
		if got := compareKeys([]byte(c.a), []byte(c.b)); sign(got) != sign(c.want) {
			t.Errorf("compareKeys(%q, %q) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCompareKeyCellToTargetSentinelSortsLast(t *testing.T) {
	sentinel := cell{word: packTypeWord(TypeNull, 0, 0, 0)}
	if compareKeyCellToTarget(nil, nil, sentinel, []byte("anything")) <= 0 {
		t.Fatal("expected a non-string key cell to always sort after the target")
	}
}

func TestKeyCellLessSentinelOrdering(t *testing.T) {
	sentinel := cell{word: packTypeWord(TypeNotSet, 0, 0, 0)}
	buf := make([]byte, 64)
	real := cell{word: packTypeWord(TypeString, stringInline, 0, storageBit(1)), payload: uint64('a')}
	if !keyCellLess(buf, nil, real, sentinel) {
		t.Fatal("expected a real key to sort before a sentinel")
	}
	if keyCellLess(buf, nil, sentinel, real) {
		t.Fatal("expected a sentinel never to sort before a real key")
	}
}
