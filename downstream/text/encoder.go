package text

import (
	"fmt"
	"strconv"
	"strings"

	describe "github.com/kungfusheep/describe"
)

// Encoder is a describe.Serializer that renders a Value as text.
type Encoder struct {
	buf strings.Builder
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) String() string { return e.buf.String() }

func (e *Encoder) SerializeBool(v bool) error {
	if v {
		e.buf.WriteString("true")
	} else {
		e.buf.WriteString("false")
	}
	return nil
}

func (e *Encoder) SerializeI8(v int8) error   { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeI16(v int16) error { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeI32(v int32) error { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeI64(v int64) error { fmt.Fprintf(&e.buf, "%d", v); return nil }

func (e *Encoder) SerializeI128(v describe.Int128) error {
	e.buf.WriteString(int128ToBig(v.Hi, v.Lo).String())
	return nil
}

func (e *Encoder) SerializeU8(v uint8) error   { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeU16(v uint16) error { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeU32(v uint32) error { fmt.Fprintf(&e.buf, "%d", v); return nil }
func (e *Encoder) SerializeU64(v uint64) error { fmt.Fprintf(&e.buf, "%d", v); return nil }

func (e *Encoder) SerializeU128(v describe.Uint128) error {
	e.buf.WriteString(uint128ToBig(v.Hi, v.Lo).String())
	return nil
}

func (e *Encoder) SerializeF32(v float32) error {
	e.buf.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	return nil
}

func (e *Encoder) SerializeF64(v float64) error {
	e.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

func (e *Encoder) SerializeChar(v rune) error     { e.buf.WriteString(strconv.QuoteRune(v)); return nil }
func (e *Encoder) SerializeString(v string) error { e.buf.WriteString(strconv.Quote(v)); return nil }

func (e *Encoder) SerializeBytes(v []byte) error {
	fmt.Fprintf(&e.buf, "0x%x", v)
	return nil
}

func (e *Encoder) SerializeNone() error { e.buf.WriteString("None"); return nil }

func (e *Encoder) SerializeSome(emit func(describe.Serializer) error) error {
	e.buf.WriteString("Some ")
	return emit(e)
}

func (e *Encoder) SerializeUnit() error { e.buf.WriteString("unit"); return nil }

func (e *Encoder) SerializeUnitStruct(name string) error {
	e.buf.WriteString(name)
	return nil
}

func (e *Encoder) SerializeUnitVariant(name string, variantIndex uint32, variant string) error {
	e.buf.WriteString(name)
	e.buf.WriteString("::")
	e.buf.WriteString(variant)
	return nil
}

func (e *Encoder) SerializeNewtypeStruct(name string, emit func(describe.Serializer) error) error {
	e.buf.WriteString(name)
	e.buf.WriteString(" ")
	return emit(e)
}

func (e *Encoder) SerializeNewtypeVariant(name string, variantIndex uint32, variant string, emit func(describe.Serializer) error) error {
	e.buf.WriteString(name)
	e.buf.WriteString("::")
	e.buf.WriteString(variant)
	e.buf.WriteString(" ")
	return emit(e)
}

func (e *Encoder) SerializeSeq(length int) (describe.SeqEncoder, error) {
	fmt.Fprintf(&e.buf, "%d[", length)
	return &listEncoder{e: e, close: ']'}, nil
}

func (e *Encoder) SerializeMap(length int) (describe.MapEncoder, error) {
	fmt.Fprintf(&e.buf, "%d{", length)
	return &mapEncoder{e: e}, nil
}

func (e *Encoder) SerializeTuple(length int) (describe.TupleEncoder, error) {
	e.buf.WriteString("(")
	return &listEncoder{e: e, close: ')'}, nil
}

func (e *Encoder) SerializeTupleStruct(name string, length int) (describe.TupleEncoder, error) {
	e.buf.WriteString(name)
	e.buf.WriteString("(")
	return &listEncoder{e: e, close: ')'}, nil
}

func (e *Encoder) SerializeTupleVariant(name string, variantIndex uint32, variant string, length int) (describe.TupleEncoder, error) {
	e.buf.WriteString(name)
	e.buf.WriteString("::")
	e.buf.WriteString(variant)
	e.buf.WriteString("(")
	return &listEncoder{e: e, close: ')'}, nil
}

func (e *Encoder) SerializeStruct(name string, length int) (describe.StructEncoder, error) {
	e.buf.WriteString(name)
	e.buf.WriteString("{")
	return &structEncoder{e: e}, nil
}

func (e *Encoder) SerializeStructVariant(name string, variantIndex uint32, variant string, length int) (describe.StructEncoder, error) {
	e.buf.WriteString(name)
	e.buf.WriteString("::")
	e.buf.WriteString(variant)
	e.buf.WriteString("{")
	return &structEncoder{e: e}, nil
}

// listEncoder backs Sequence, Tuple, TupleStruct and TupleVariant alike:
// each is just a comma-separated run of elements closed by a single
// bracket, ')' or ']' depending on which call opened it.
type listEncoder struct {
	e     *Encoder
	idx   int
	close byte
}

func (l *listEncoder) SerializeElement(emit func(describe.Serializer) error) error {
	if l.idx > 0 {
		l.e.buf.WriteString(", ")
	}
	l.idx++
	return emit(l.e)
}

func (l *listEncoder) End() error {
	l.e.buf.WriteByte(l.close)
	return nil
}

type mapEncoder struct {
	e   *Encoder
	idx int
}

func (m *mapEncoder) SerializeKey(emit func(describe.Serializer) error) error {
	if m.idx > 0 {
		m.e.buf.WriteString(", ")
	}
	m.idx++
	return emit(m.e)
}

func (m *mapEncoder) SerializeValue(emit func(describe.Serializer) error) error {
	m.e.buf.WriteString(": ")
	return emit(m.e)
}

func (m *mapEncoder) End() error {
	m.e.buf.WriteString("}")
	return nil
}

type structEncoder struct {
	e   *Encoder
	idx int
}

func (s *structEncoder) SerializeField(name string, emit func(describe.Serializer) error) error {
	if s.idx > 0 {
		s.e.buf.WriteString(", ")
	}
	s.idx++
	s.e.buf.WriteString(name)
	s.e.buf.WriteString(": ")
	return emit(s.e)
}

func (s *structEncoder) End() error {
	s.e.buf.WriteString("}")
	return nil
}
