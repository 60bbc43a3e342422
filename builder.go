package qadom

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/modern-go/reflect2"
)

// Builder constructs a DOM by hand into a caller-supplied buffer: cells bump-
// allocate from offset 0, arena string bytes bump-allocate down from the
// buffer's end. Unlike the parser, construction happens in one pass driven
// directly by caller calls, so there is no scratch region to relocate.
type Builder struct {
	buf       []byte
	refSource []byte // backing slice for SetStringRef offsets, nil if unused
	cursor    uint32
	arenaTop  uint32
	policy    *ErrorPolicy
}

// NewBuilder wraps buf for construction. refSource, if non-nil, is the
// slice SetStringRef offsets are taken against; it must outlive the
// resulting Document.
func NewBuilder(buf []byte, refSource []byte, policy *ErrorPolicy) *Builder {
	b := &Builder{buf: buf, refSource: refSource, arenaTop: uint32(len(buf)), policy: policy}
	b.cursor = 1
	if len(buf) >= cellBytes {
		writeCell(b.buf, 0, cell{word: packTypeWord(TypeNotSet, 0, 0, 0)})
	}
	return b
}

// Root is the cell index of the document's top-level value, always 0.
func (b *Builder) Root() uint32 { return 0 }

// Document returns the buffer as a read-only Document. Call it once
// construction is complete.
func (b *Builder) Document() *Document {
	return &Document{buf: b.buf, input: b.refSource, policy: b.policy}
}

func (b *Builder) fatal(msg string) { b.policy.onFatal(msg) }

func (b *Builder) reserveCells(n uint32) (uint32, bool) {
	if uint64(b.cursor+n)*cellBytes > uint64(b.arenaTop) {
		return 0, false
	}
	idx := b.cursor
	b.cursor += n
	return idx, true
}

func (b *Builder) allocArena(n uint32) (uint32, bool) {
	if uint64(b.arenaTop)-uint64(n) < uint64(b.cursor)*cellBytes {
		return 0, false
	}
	b.arenaTop -= n
	return b.arenaTop, true
}

// SetNull writes a JSON null at idx.
func (b *Builder) SetNull(idx uint32) {
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeNull, 0, 0, 0)})
}

// SetBool writes a bool at idx.
func (b *Builder) SetBool(idx uint32, v bool) {
	storage, mask := classifyBool()
	payload := uint64(0)
	if v {
		payload = 1
	}
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeBool, 0, mask, storage), payload: payload})
}

// SetInt64 writes a signed integer at idx, choosing the narrowest storage
// type the compatibility lattice allows. Non-negative values are stored as
// unsigned, the same way the parser stores them.
func (b *Builder) SetInt64(idx uint32, v int64) {
	if v >= 0 {
		b.SetUint64(idx, uint64(v))
		return
	}
	storage, mask := classifyInt(v)
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: uint64(v)})
}

// SetInt32 is SetInt64 for a narrower input type.
func (b *Builder) SetInt32(idx uint32, v int32) { b.SetInt64(idx, int64(v)) }

// SetUint64 writes an unsigned integer at idx.
func (b *Builder) SetUint64(idx uint32, v uint64) {
	storage, mask := classifyUint(v)
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: v})
}

// SetUint32 is SetUint64 for a narrower input type.
func (b *Builder) SetUint32(idx uint32, v uint32) { b.SetUint64(idx, uint64(v)) }

// SetDouble writes a float64 at idx.
func (b *Builder) SetDouble(idx uint32, v float64) {
	storage, mask := classifyDouble()
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeNumber, 0, mask, storage), payload: math.Float64bits(v)})
}

// SetStringCopy decodes no escapes (s is already a plain Go string) and
// writes it inline or into the arena, exactly like the parser's second pass
// chooses between the two.
func (b *Builder) SetStringCopy(idx uint32, s string) {
	n := len(s)
	if n <= inlineStringCap {
		length, payload := packInlineString([]byte(s))
		writeCell(b.buf, idx, cell{word: packTypeWord(TypeString, stringInline, 0, storageBit(n)), length: length, payload: payload})
		return
	}
	off, ok := b.allocArena(uint32(n) + 1)
	if !ok {
		b.fatal("qadom: builder out of arena space for string copy")
		return
	}
	copy(b.buf[off:off+uint32(n)], s)
	b.buf[off+uint32(n)] = 0
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeString, stringArena, 0, 0), length: uint32(n), payload: uint64(off)})
}

// SetStringRef aliases [offset, offset+length) of refSource rather than
// copying it. Only valid when the Builder was constructed with a refSource.
func (b *Builder) SetStringRef(idx uint32, offset, length uint32) {
	if b.refSource == nil {
		b.fatal("qadom: SetStringRef called on a builder with no ref source")
		return
	}
	writeCell(b.buf, idx, cell{
		word:    packTypeWord(TypeString, stringRef, 0, 0),
		length:  length,
		payload: uint64(offset),
	})
}

// ArrayBuilder tracks the reserved element block of an array cell as
// elements are appended one at a time.
type ArrayBuilder struct {
	b        *Builder
	idx      uint32
	base     uint32
	capacity uint32
	used     uint32
}

// SetArray reserves capacity contiguous element cells (each initialized to
// TypeNotSet) and writes the array header at idx.
func (b *Builder) SetArray(idx uint32, capacity uint32) *ArrayBuilder {
	base, ok := b.reserveCells(capacity)
	if !ok {
		b.fatal("qadom: builder out of cell capacity for array")
		return &ArrayBuilder{b: b}
	}
	for i := uint32(0); i < capacity; i++ {
		writeCell(b.buf, base+i, cell{word: packTypeWord(TypeNotSet, 0, 0, 0)})
	}
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeArray, 0, 0, 0), length: 0, payload: uint64(base)})
	return &ArrayBuilder{b: b, idx: idx, base: base, capacity: capacity}
}

// Append reserves the next element slot, growing the array's reported
// length, and returns its cell index for a follow-up SetXxx call. Exceeding
// capacity invokes the fatal-error callback.
func (ab *ArrayBuilder) Append() uint32 {
	if ab.used >= ab.capacity {
		ab.b.fatal("qadom: array builder capacity exhausted")
		return 0
	}
	slot := ab.base + ab.used
	ab.used++
	c := readCell(ab.b.buf, ab.idx)
	c.length = ab.used
	writeCell(ab.b.buf, ab.idx, c)
	return slot
}

// ObjectBuilder tracks the reserved member-slot block of an object cell.
// Unlike ArrayBuilder, the object cell's length is set to capacity up
// front: unused trailing slots carry a null-type key sentinel (see
// compareKeyCellToTarget) rather than shrinking the reported size.
type ObjectBuilder struct {
	b        *Builder
	idx      uint32
	base     uint32
	capacity uint32
	used     uint32
}

// SetObject reserves capacity member slot pairs and writes the object
// header at idx, unsorted until Optimize is called.
func (b *Builder) SetObject(idx uint32, capacity uint32) *ObjectBuilder {
	base, ok := b.reserveCells(capacity * 2)
	if !ok {
		b.fatal("qadom: builder out of cell capacity for object")
		return &ObjectBuilder{b: b}
	}
	for i := uint32(0); i < capacity; i++ {
		writeCell(b.buf, base+2*i, cell{word: packTypeWord(TypeNull, 0, 0, 0)})
		writeCell(b.buf, base+2*i+1, cell{word: packTypeWord(TypeNotSet, 0, 0, 0)})
	}
	writeCell(b.buf, idx, cell{word: packTypeWord(TypeObject, objectUnsorted, 0, 0), length: capacity, payload: uint64(base)})
	return &ObjectBuilder{b: b, idx: idx, base: base, capacity: capacity}
}

// CreateMemberByCopy claims the next unused member slot, writes key as a
// copied string into it, and returns the key and value cell indices.
func (ob *ObjectBuilder) CreateMemberByCopy(key string) (keyIdx, valIdx uint32) {
	k, v, ok := ob.claim()
	if !ok {
		return 0, 0
	}
	ob.b.SetStringCopy(k, key)
	return k, v
}

// CreateMemberByRef is CreateMemberByCopy for a key aliasing the builder's
// ref source instead of being copied.
func (ob *ObjectBuilder) CreateMemberByRef(offset, length uint32) (keyIdx, valIdx uint32) {
	k, v, ok := ob.claim()
	if !ok {
		return 0, 0
	}
	ob.b.SetStringRef(k, offset, length)
	return k, v
}

func (ob *ObjectBuilder) claim() (keyIdx, valIdx uint32, ok bool) {
	if ob.used >= ob.capacity {
		ob.b.fatal("qadom: object builder capacity exhausted")
		return 0, 0, false
	}
	keyIdx = ob.base + ob.used*2
	valIdx = keyIdx + 1
	ob.used++
	return keyIdx, valIdx, true
}

// Optimize sorts every reserved member slot (including still-unused
// trailing ones, which sort last) by the usual length-then-bytes key
// comparator and flips the object's internal type to sorted.
func (ob *ObjectBuilder) Optimize() {
	buf, ref := ob.b.buf, ob.b.refSource
	type slot struct{ key, val cell }
	slots := make([]slot, ob.capacity)
	for i := uint32(0); i < ob.capacity; i++ {
		slots[i] = slot{key: readCell(buf, ob.base+2*i), val: readCell(buf, ob.base+2*i+1)}
	}
	sort.SliceStable(slots, func(a, b int) bool {
		return keyCellLess(buf, ref, slots[a].key, slots[b].key)
	})
	for i, sl := range slots {
		writeCell(buf, ob.base+2*uint32(i), sl.key)
		writeCell(buf, ob.base+2*uint32(i)+1, sl.val)
	}
	c := readCell(buf, ob.idx)
	c.word = packTypeWord(TypeObject, objectSorted, 0, 0)
	writeCell(buf, ob.idx, c)
}

// Copy deep-copies src into idx of b, including transitively referenced
// strings as arena copies — the mechanism behind compacting an insitu
// document (whose strings alias input that may be about to be freed) into
// one that owns all of its own bytes.
func Copy(src Value, b *Builder, idx uint32) {
	switch src.Type() {
	case TypeNotSet:
		writeCell(b.buf, idx, cell{word: packTypeWord(TypeNotSet, 0, 0, 0)})
	case TypeNull:
		b.SetNull(idx)
	case TypeBool:
		b.SetBool(idx, src.Bool())
	case TypeNumber:
		c := src.cell()
		writeCell(b.buf, idx, c)
	case TypeString:
		b.SetStringCopy(idx, src.String())
	case TypeArray:
		a := src.Array()
		ab := b.SetArray(idx, uint32(a.Size()))
		for i := 0; i < a.Size(); i++ {
			Copy(a.Get(i), b, ab.Append())
		}
	case TypeObject:
		o := src.Object()
		ob := b.SetObject(idx, uint32(o.Size()))
		for i := 0; i < o.Size(); i++ {
			mk := o.MemberKey(i)
			if mk.IsNull() || mk.IsNotSet() {
				continue
			}
			_, valIdx := ob.CreateMemberByCopy(mk.String())
			Copy(o.MemberValue(i), b, valIdx)
		}
	case TypeError:
		c := src.cell()
		writeCell(b.buf, idx, c)
	}
}

// SetFromStruct populates idx and its descendants from an arbitrary Go
// value: structs become objects (keyed by `json` tag or field name), maps
// keyed by fmt.Sprint of their key, slices/arrays become arrays, and the
// scalar kinds map onto the matching SetXxx call. Struct field access goes
// through reflect2, which resolves each field by a precomputed unsafe
// offset instead of walking reflect.Value's general-purpose (and
// allocation-heavy) path — the win that matters here since SetFromStruct is
// typically called once per encoded document, over every field.
func (b *Builder) SetFromStruct(idx uint32, v interface{}) {
	if v == nil {
		b.SetNull(idx)
		return
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			b.SetNull(idx)
			return
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		b.SetBool(idx, rv.Bool())
	case reflect.String:
		b.SetStringCopy(idx, rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.SetInt64(idx, rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.SetUint64(idx, rv.Uint())
	case reflect.Float32, reflect.Float64:
		b.SetDouble(idx, rv.Float())
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		ab := b.SetArray(idx, uint32(n))
		for i := 0; i < n; i++ {
			b.SetFromStruct(ab.Append(), rv.Index(i).Interface())
		}
	case reflect.Map:
		keys := rv.MapKeys()
		ob := b.SetObject(idx, uint32(len(keys)))
		for _, k := range keys {
			_, valIdx := ob.CreateMemberByCopy(fmt.Sprint(k.Interface()))
			b.SetFromStruct(valIdx, rv.MapIndex(k).Interface())
		}
	case reflect.Struct:
		if !rv.CanAddr() {
			ptr := reflect.New(rv.Type())
			ptr.Elem().Set(rv)
			rv = ptr.Elem()
		}
		st := reflect2.Type2(rv.Type()).(reflect2.StructType)
		n := st.NumField()
		ob := b.SetObject(idx, uint32(n))
		addr := rv.Addr().Interface()
		for i := 0; i < n; i++ {
			f := st.Field(i)
			name := jsonFieldName(f.Tag(), f.Name())
			if name == "-" {
				continue
			}
			_, valIdx := ob.CreateMemberByCopy(name)
			b.SetFromStruct(valIdx, f.Get(addr))
		}
	default:
		b.fatal("qadom: SetFromStruct given an unsupported type")
	}
}

// jsonFieldName resolves the object key a struct field encodes to: the
// `json` tag's name segment if present and non-empty, the Go field name
// otherwise.
func jsonFieldName(tag reflect.StructTag, fieldName string) string {
	if j, ok := tag.Lookup("json"); ok {
		name := strings.Split(j, ",")[0]
		if name != "" {
			return name
		}
	}
	return fieldName
}
