package qadom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, json string, opts ...ParseOption) *Document {
	t.Helper()
	in := []byte(json)
	size, err := CalculateMaxBufferSize(in, opts...)
	require.NoError(t, err)
	doc, _, perr := Parse(in, make([]byte, size), opts...)
	require.NoError(t, perr)
	return doc
}

func TestParseScalarValues(t *testing.T) {
	require.Equal(t, TypeNull, mustParse(t, `null`).Root().Type())
	require.True(t, mustParse(t, `true`).Root().Bool())
	require.False(t, mustParse(t, `false`).Root().Bool())
	require.Equal(t, int64(42), mustParse(t, `42`).Root().Int64())
	require.Equal(t, -7, int(mustParse(t, `-7`).Root().Int64()))
	require.InDelta(t, 3.25, mustParse(t, `3.25`).Root().Double(), 1e-9)
}

func TestParseStringVariants(t *testing.T) {
	short := mustParse(t, `"hi"`).Root()
	require.Equal(t, "hi", short.String())

	long := mustParse(t, `"this string is definitely longer than eight bytes"`).Root()
	require.Equal(t, "this string is definitely longer than eight bytes", long.String())

	escaped := mustParse(t, `"a\tbéc"`).Root()
	require.Equal(t, "a\tbéc", escaped.String())
}

func TestParseStringInlineCapacityTwelveBytes(t *testing.T) {
	// Twelve bytes is exactly inlineStringCap: the payload (8 bytes) plus
	// the length lane (4 bytes) reclaimed from the type word's storage byte.
	v := mustParse(t, `"twelveBytes"`).Root()
	require.Equal(t, 11, len(v.StringBytes()))
	require.Equal(t, stringInline, v.cell().word.internal())
	require.Equal(t, "twelveBytes", v.String())

	atCap := mustParse(t, `"123456789012"`).Root()
	require.Equal(t, 12, len(atCap.StringBytes()))
	require.Equal(t, stringInline, atCap.cell().word.internal())
	require.Equal(t, "123456789012", atCap.String())

	overCap := mustParse(t, `"1234567890123"`).Root()
	require.Equal(t, stringArena, overCap.cell().word.internal())
	require.Equal(t, "1234567890123", overCap.String())
}

func TestParseArray(t *testing.T) {
	doc := mustParse(t, `[1, "two", [3, 4], null, true]`)
	arr := doc.Root().Array()
	require.Equal(t, 5, arr.Size())
	require.Equal(t, int64(1), arr.Get(0).Int64())
	require.Equal(t, "two", arr.Get(1).String())
	require.Equal(t, 2, arr.Get(2).Array().Size())
	require.True(t, arr.Get(3).IsNull())
	require.True(t, arr.Get(4).Bool())
}

func TestParseObjectSortedLookup(t *testing.T) {
	doc := mustParse(t, `{"zeta": 1, "alpha": 2, "mid": 3}`)
	obj := doc.Root().Object()
	require.Equal(t, 3, obj.Size())

	v, ok := obj.Get("alpha")
	require.True(t, ok)
	require.Equal(t, int64(2), v.Int64())

	v, ok = obj.Get("zeta")
	require.True(t, ok)
	require.Equal(t, int64(1), v.Int64())

	_, ok = obj.Get("missing")
	require.False(t, ok)
}

func TestParseObjectUnsortedPreservesOrder(t *testing.T) {
	doc := mustParse(t, `{"b": 1, "a": 2}`, WithDontSortObjectMembers(true))
	obj := doc.Root().Object()
	require.Equal(t, "b", obj.MemberKey(0).String())
	require.Equal(t, "a", obj.MemberKey(1).String())
	v, ok := obj.Get("a")
	require.True(t, ok)
	require.Equal(t, int64(2), v.Int64())
}

func TestParseDuplicateKeyRejected(t *testing.T) {
	in := []byte(`{"a": 1, "a": 2}`)
	size, err := CalculateMaxBufferSize(in, WithDenyDuplicateKeys(true))
	require.NoError(t, err)
	_, _, perr := Parse(in, make([]byte, size), WithDenyDuplicateKeys(true))
	require.Error(t, perr)
	require.Equal(t, CodeDuplicateKey, perr.(*Error).Code)
}

func TestParseStrictModeRejectsComments(t *testing.T) {
	in := []byte("// hi\n1")
	_, err := CalculateMaxBufferSize(in, WithStrict(true))
	require.Error(t, err)
}

func TestParseLenientModeAllowsComments(t *testing.T) {
	doc := mustParse(t, "// hi\n1 // trailing")
	require.Equal(t, int64(1), doc.Root().Int64())
}

func TestParseTrailingCommaStrictRejected(t *testing.T) {
	in := []byte(`[1, 2,]`)
	_, err := CalculateMaxBufferSize(in, WithStrict(true))
	require.Error(t, err)
}

func TestParseTrailingCommaLenientAccepted(t *testing.T) {
	doc := mustParse(t, `[1, 2,]`)
	require.Equal(t, 2, doc.Root().Array().Size())
}

func TestParseInsituAliasesInput(t *testing.T) {
	in := []byte(`{"k": "value with \n escape"}`)
	size, err := CalculateMaxBufferSizeInsitu(in)
	require.NoError(t, err)
	doc, _, perr := ParseInsitu(in, make([]byte, size))
	require.NoError(t, perr)
	v, ok := doc.Root().Object().Get("k")
	require.True(t, ok)
	require.Equal(t, "value with \n escape", v.String())
}

func TestParseErrorDocumentLatchesCode(t *testing.T) {
	in := []byte(`{"a": }`)
	size, err := CalculateMaxBufferSize(in)
	if err != nil {
		// Sizing itself can fail fast on malformed grammar; either path
		// surfaces a structured *Error.
		require.IsType(t, &Error{}, err)
		return
	}
	doc, _, perr := Parse(in, make([]byte, size))
	require.Error(t, perr)
	if doc != nil {
		require.True(t, doc.Root().IsError())
	}
}

func TestParseDynamicGrowsBuffer(t *testing.T) {
	doc, written, err := ParseDynamic([]byte(`{"a": [1,2,3,4,5,6,7,8,9,10]}`), GrowSlice)
	require.NoError(t, err)
	require.Greater(t, written, 0)
	v, ok := doc.Root().Object().Get("a")
	require.True(t, ok)
	require.Equal(t, 10, v.Array().Size())
}

func TestNumberStorageWidening(t *testing.T) {
	small := mustParse(t, `5`).Root()
	require.True(t, small.IsInt())
	require.True(t, small.IsInt64())
	require.True(t, small.IsDouble())
	require.Equal(t, 5.0, small.Double())

	big := mustParse(t, `9223372036854775807`).Root() // math.MaxInt64
	require.False(t, big.IsInt())
	require.True(t, big.IsInt64())

	unsigned := mustParse(t, `18446744073709551615`).Root() // math.MaxUint64
	require.True(t, unsigned.IsUint64())
	require.False(t, unsigned.IsInt64())
}

func TestEqual(t *testing.T) {
	a := mustParse(t, `{"x": 1, "y": [2, 3]}`).Root()
	b := mustParse(t, `{"y": [2, 3], "x": 1}`).Root()
	require.True(t, Equal(a, b))

	c := mustParse(t, `{"x": 1.0, "y": [2, 3]}`).Root()
	require.False(t, Equal(a, c), "bit-exact numeric equality: 1 (int) != 1.0 (double)")
}

func TestParseOversizedBufferStaysCompact(t *testing.T) {
	in := []byte(`{"k": "this string is definitely longer than twelve bytes"}`)
	exact, err := CalculateMaxBufferSize(in)
	require.NoError(t, err)
	_, exactWritten, perr := Parse(in, make([]byte, exact))
	require.NoError(t, perr)

	big := make([]byte, exact*4)
	doc, written, perr := Parse(in, big)
	require.NoError(t, perr)
	require.Equal(t, exactWritten, written, "an oversized buffer must not change the self-contained DOM size")

	v, ok := doc.Root().Object().Get("k")
	require.True(t, ok)
	require.Equal(t, "this string is definitely longer than twelve bytes", v.String())

	// Relocating [0, written) on its own must reproduce the same document,
	// proving the arena strings live inside that range and not near the
	// physical top of the oversized buffer.
	relocated := append([]byte(nil), big[:written]...)
	redoc := &Document{buf: relocated}
	require.Equal(t, "this string is definitely longer than twelve bytes", redoc.Root().Object().MemberValue(0).String())
}

func TestParseNonStrictLeadingPlusInteger(t *testing.T) {
	plain := mustParse(t, `6`).Root()
	signed := mustParse(t, `+6`).Root()
	require.True(t, signed.IsUint())
	require.Equal(t, plain.cell().word.storage(), signed.cell().word.storage())
	require.Equal(t, uint64(6), signed.Uint64())
}

func TestValueSizeof(t *testing.T) {
	doc := mustParse(t, `[1, 2, 3]`)
	size := ValueSizeof(doc.Root())
	require.Equal(t, uint32(cellBytes+3*cellBytes), size)
}
