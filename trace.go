package describe

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TraceKind tags each event on a Trace tape. The ordering below is load
// bearing: it is never persisted across builds of this package, but within
// a single build it must stay fixed so a TraceKind byte always decodes to
// the same meaning it was written with. Mirrors
// original_source/src/trace.rs's TraceNodeKind, byte for byte.
type TraceKind byte

const (
	TraceBool TraceKind = iota
	TraceI8
	TraceI16
	TraceI32
	TraceI64
	TraceI128
	TraceU8
	TraceU16
	TraceU32
	TraceU64
	TraceU128
	TraceF32
	TraceF64
	TraceChar
	TraceString
	TraceBytes
	TraceOptionNone
	TraceOptionSome
	TraceUnit
	TraceUnitStruct
	TraceUnitVariant
	TraceNewtypeStruct
	TraceNewtypeVariant
	TraceMap
	TraceSequence
	TraceTuple
	TraceTupleStruct
	TraceTupleVariant
	TraceStruct
	TraceStructVariant

	traceKindCount
)

func (k TraceKind) String() string {
	names := [...]string{
		"Bool", "I8", "I16", "I32", "I64", "I128", "U8", "U16", "U32", "U64", "U128",
		"F32", "F64", "Char", "String", "Bytes", "OptionNone", "OptionSome", "Unit",
		"UnitStruct", "UnitVariant", "NewtypeStruct", "NewtypeVariant", "Map", "Sequence",
		"Tuple", "TupleStruct", "TupleVariant", "Struct", "StructVariant",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("TraceKind(%d)", k)
}

// Trace is an immutable, self-delimiting tape of builder events, produced
// by a single Trace call and consumed exactly once by Emit. A Trace is only
// meaningful alongside the Schema built by that same Trace call;
// it carries no type information of its own.
type Trace struct {
	tape []byte
}

// tapeWriter appends events to a growing tape. Every write method appends
// fixed-width little-endian payloads, matching original_source/src/trace.rs's
// ReadTraceExt reader exactly in reverse. Sequence and Map kinds need their
// element count written before the elements are known (the count is
// discovered as the builder receives element/pair calls), and a struct needs
// its field-name-list handle and presence slots laid down before its fields
// are traced, so callers reserve placeholder u32s with Reserve/ReserveN and
// fill them in with Patch once the real values are known. Tuple-family
// arity is known up front and written directly.
type tapeWriter struct {
	buf []byte
}

func (w *tapeWriter) WriteKind(k TraceKind) { w.buf = append(w.buf, byte(k)) }

func (w *tapeWriter) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *tapeWriter) WriteU8(v uint8)   { w.buf = append(w.buf, v) }
func (w *tapeWriter) WriteI8(v int8)    { w.WriteU8(uint8(v)) }

func (w *tapeWriter) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *tapeWriter) WriteI16(v int16) { w.WriteU16(uint16(v)) }

func (w *tapeWriter) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *tapeWriter) WriteI32(v int32) { w.WriteU32(uint32(v)) }

func (w *tapeWriter) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
func (w *tapeWriter) WriteI64(v int64) { w.WriteU64(uint64(v)) }

func (w *tapeWriter) WriteU128(v Uint128) {
	w.WriteU64(v.Lo)
	w.WriteU64(v.Hi)
}
func (w *tapeWriter) WriteI128(v Int128) { w.WriteU128(v.AsUint128()) }

func (w *tapeWriter) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }
func (w *tapeWriter) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }
func (w *tapeWriter) WriteChar(v rune)   { w.WriteU32(uint32(v)) }

// WriteLenBytes writes a u32 length followed by the raw bytes, used for
// both String and Bytes trace events.
func (w *tapeWriter) WriteLenBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *tapeWriter) WriteName(idx NameIndex)         { w.WriteU32(uint32(idx)) }
func (w *tapeWriter) WriteNameList(idx NameListIndex) { w.WriteU32(uint32(idx)) }

// Reserve appends a placeholder u32 and returns its offset for a later
// Patch call, for the count fields of Sequence/Map events and a struct's
// field-name-list handle, whose true value isn't known until all elements
// or fields have been seen.
func (w *tapeWriter) Reserve() int {
	off := len(w.buf)
	w.buf = append(w.buf, 0, 0, 0, 0)
	return off
}

// ReserveN appends count placeholder u32 slots contiguously, used for a
// struct's field-presence array, and returns the offset of the first slot.
func (w *tapeWriter) ReserveN(count int) int {
	off := len(w.buf)
	for i := 0; i < count; i++ {
		w.buf = append(w.buf, 0, 0, 0, 0)
	}
	return off
}

// Patch overwrites the placeholder at off (as returned by Reserve) with v.
func (w *tapeWriter) Patch(off int, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[off:off+4], v)
}

func (w *tapeWriter) Len() int { return len(w.buf) }

// Finish hands ownership of the accumulated tape to a new Trace value. The
// writer must not be used afterward.
func (w *tapeWriter) Finish() *Trace { return &Trace{tape: w.buf} }

// tapeCursor reads a Trace's tape sequentially, mirroring
// original_source/src/trace.rs's ReadTraceExt. All Pop* methods panic on a
// truncated or malformed tape: a Trace is only ever produced by this
// package's own Tracer, so corruption here means the core itself is
// broken, never that the caller supplied bad input.
type tapeCursor struct {
	tape []byte
	pos  int
}

func newTapeCursor(t *Trace) *tapeCursor { return &tapeCursor{tape: t.tape} }

func (c *tapeCursor) Done() bool { return c.pos >= len(c.tape) }

func (c *tapeCursor) popBytes(n int) []byte {
	if c.pos+n > len(c.tape) {
		panic("describe: truncated trace tape")
	}
	b := c.tape[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *tapeCursor) PopKind() TraceKind {
	k := TraceKind(c.popBytes(1)[0])
	if k >= traceKindCount {
		panic(fmt.Sprintf("describe: invalid trace kind byte %d", k))
	}
	return k
}

func (c *tapeCursor) PopBool() bool { return c.popBytes(1)[0] != 0 }
func (c *tapeCursor) PopU8() uint8  { return c.popBytes(1)[0] }
func (c *tapeCursor) PopI8() int8   { return int8(c.PopU8()) }

func (c *tapeCursor) PopU16() uint16 { return binary.LittleEndian.Uint16(c.popBytes(2)) }
func (c *tapeCursor) PopI16() int16  { return int16(c.PopU16()) }

func (c *tapeCursor) PopU32() uint32 { return binary.LittleEndian.Uint32(c.popBytes(4)) }
func (c *tapeCursor) PopI32() int32  { return int32(c.PopU32()) }

func (c *tapeCursor) PopU64() uint64 { return binary.LittleEndian.Uint64(c.popBytes(8)) }
func (c *tapeCursor) PopI64() int64  { return int64(c.PopU64()) }

func (c *tapeCursor) PopU128() Uint128 {
	lo := c.PopU64()
	hi := c.PopU64()
	return Uint128{Hi: hi, Lo: lo}
}
func (c *tapeCursor) PopI128() Int128 {
	u := c.PopU128()
	return Int128{Hi: int64(u.Hi), Lo: u.Lo}
}

func (c *tapeCursor) PopF32() float32 { return math.Float32frombits(c.PopU32()) }
func (c *tapeCursor) PopF64() float64 { return math.Float64frombits(c.PopU64()) }
func (c *tapeCursor) PopChar() rune   { return rune(c.PopU32()) }

func (c *tapeCursor) PopLenBytes() []byte {
	n := int(c.PopU32())
	return c.popBytes(n)
}
func (c *tapeCursor) PopLenString() string { return string(c.PopLenBytes()) }

func (c *tapeCursor) PopName() NameIndex         { return NameIndex(c.PopU32()) }
func (c *tapeCursor) PopNameList() NameListIndex { return NameListIndex(c.PopU32()) }

// traceNode is the structural payload read back alongside a TraceKind,
// flattened into one struct the same way SchemaNode flattens SchemaKind's
// payload. Mirrors original_source/src/trace.rs's TraceNode enum.
type traceNode struct {
	Kind     TraceKind
	Name     NameIndex
	Variant  NameIndex
	NameList NameListIndex
	Arity    uint32
}

// PopTraceNode reads one full event's kind and structural payload (type and
// variant names, tuple arity, struct field-name-list index). It does not
// read a struct's per-occurrence presence array, nor any primitive value
// payload, nor sequence/map lengths — those are read later by whichever
// schema node the trace is checked against. Mirrors
// ReadTraceExt::pop_trace_node.
func (c *tapeCursor) PopTraceNode() traceNode {
	kind := c.PopKind()
	switch kind {
	case TraceUnitStruct, TraceNewtypeStruct:
		return traceNode{Kind: kind, Name: c.PopName()}
	case TraceUnitVariant, TraceNewtypeVariant:
		name := c.PopName()
		variant := c.PopName()
		return traceNode{Kind: kind, Name: name, Variant: variant}
	case TraceTuple:
		return traceNode{Kind: kind, Arity: c.PopU32()}
	case TraceTupleStruct:
		arity := c.PopU32()
		name := c.PopName()
		return traceNode{Kind: kind, Arity: arity, Name: name}
	case TraceTupleVariant:
		arity := c.PopU32()
		name := c.PopName()
		variant := c.PopName()
		return traceNode{Kind: kind, Arity: arity, Name: name, Variant: variant}
	case TraceStruct:
		name := c.PopName()
		nameList := c.PopNameList()
		return traceNode{Kind: kind, Name: name, NameList: nameList}
	case TraceStructVariant:
		name := c.PopName()
		variant := c.PopName()
		nameList := c.PopNameList()
		return traceNode{Kind: kind, Name: name, Variant: variant, NameList: nameList}
	default:
		return traceNode{Kind: kind}
	}
}
