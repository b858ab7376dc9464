package lenprefix

import (
	"math"

	describe "github.com/kungfusheep/describe"
)

// Encoder is a describe.Serializer that writes exactly the bytes a
// schema-guided Read needs and nothing more: type and field identity are
// never repeated on the wire, since the Schema a caller passes to Read
// already supplies it. The sole exceptions are a synthetic union's
// discriminant and the presence-bitmask chunks a skippable struct emits
// (describe.AnonymousUnionTypeName), which still need a byte on the wire
// since nothing else identifies which alternative or chunk was chosen, and
// a Map/Sequence's length, which Read has no other way to discover.
type Encoder struct {
	buf Buffer
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

func (e *Encoder) SerializeBool(v bool) error { e.buf.AppendBool(v); return nil }
func (e *Encoder) SerializeI8(v int8) error   { e.buf.AppendByte(byte(v)); return nil }
func (e *Encoder) SerializeI16(v int16) error { e.buf.AppendZigzag(int64(v)); return nil }
func (e *Encoder) SerializeI32(v int32) error { e.buf.AppendZigzag(int64(v)); return nil }
func (e *Encoder) SerializeI64(v int64) error { e.buf.AppendZigzag(v); return nil }

func (e *Encoder) SerializeI128(v describe.Int128) error {
	u := v.ZigzagEncode()
	e.buf.AppendVarint(u.Hi)
	e.buf.AppendVarint(u.Lo)
	return nil
}

func (e *Encoder) SerializeU8(v uint8) error   { e.buf.AppendByte(v); return nil }
func (e *Encoder) SerializeU16(v uint16) error { e.buf.AppendVarint(uint64(v)); return nil }
func (e *Encoder) SerializeU32(v uint32) error { e.buf.AppendVarint(uint64(v)); return nil }
func (e *Encoder) SerializeU64(v uint64) error { e.buf.AppendVarint(v); return nil }

func (e *Encoder) SerializeU128(v describe.Uint128) error {
	e.buf.AppendVarint(v.Hi)
	e.buf.AppendVarint(v.Lo)
	return nil
}

func (e *Encoder) SerializeF32(v float32) error {
	e.buf.AppendVarint(uint64(math.Float32bits(v)))
	return nil
}

func (e *Encoder) SerializeF64(v float64) error {
	e.buf.AppendVarint(math.Float64bits(v))
	return nil
}

func (e *Encoder) SerializeChar(v rune) error     { e.buf.AppendVarint(uint64(uint32(v))); return nil }
func (e *Encoder) SerializeString(v string) error { e.buf.AppendString(v); return nil }
func (e *Encoder) SerializeBytes(v []byte) error  { e.buf.AppendBytes(v); return nil }

func (e *Encoder) SerializeNone() error { return nil }
func (e *Encoder) SerializeSome(emit func(describe.Serializer) error) error { return emit(e) }

func (e *Encoder) SerializeUnit() error                   { return nil }
func (e *Encoder) SerializeUnitStruct(name string) error  { return nil }
func (e *Encoder) SerializeUnitVariant(name string, variantIndex uint32, variant string) error {
	return nil
}

func (e *Encoder) SerializeNewtypeStruct(name string, emit func(describe.Serializer) error) error {
	return emit(e)
}

func (e *Encoder) SerializeNewtypeVariant(name string, variantIndex uint32, variant string, emit func(describe.Serializer) error) error {
	if name == describe.AnonymousUnionTypeName {
		e.buf.AppendByte(byte(variantIndex))
	}
	return emit(e)
}

func (e *Encoder) SerializeSeq(length int) (describe.SeqEncoder, error) {
	e.buf.AppendVarint(uint64(length))
	return seqTupleEncoder{e}, nil
}

func (e *Encoder) SerializeMap(length int) (describe.MapEncoder, error) {
	e.buf.AppendVarint(uint64(length))
	return mapEncoder{e}, nil
}

func (e *Encoder) SerializeTuple(length int) (describe.TupleEncoder, error) {
	return seqTupleEncoder{e}, nil
}

func (e *Encoder) SerializeTupleStruct(name string, length int) (describe.TupleEncoder, error) {
	return seqTupleEncoder{e}, nil
}

func (e *Encoder) SerializeTupleVariant(name string, variantIndex uint32, variant string, length int) (describe.TupleEncoder, error) {
	if name == describe.AnonymousUnionTypeName {
		e.buf.AppendByte(byte(variantIndex))
	}
	return seqTupleEncoder{e}, nil
}

func (e *Encoder) SerializeStruct(name string, length int) (describe.StructEncoder, error) {
	return structEncoder{e}, nil
}

func (e *Encoder) SerializeStructVariant(name string, variantIndex uint32, variant string, length int) (describe.StructEncoder, error) {
	return structEncoder{e}, nil
}

// seqTupleEncoder backs Sequence, Tuple, TupleStruct and TupleVariant alike:
// none of them need anything beyond the element values themselves once
// their length (known up front, either from the trace tape via Emit or just
// written to the wire above) has been accounted for.
type seqTupleEncoder struct{ e *Encoder }

func (s seqTupleEncoder) SerializeElement(emit func(describe.Serializer) error) error {
	return emit(s.e)
}
func (s seqTupleEncoder) End() error { return nil }

type mapEncoder struct{ e *Encoder }

func (m mapEncoder) SerializeKey(emit func(describe.Serializer) error) error   { return emit(m.e) }
func (m mapEncoder) SerializeValue(emit func(describe.Serializer) error) error { return emit(m.e) }
func (m mapEncoder) End() error                                                { return nil }

// structEncoder writes only field values, in the declaration order the
// caller drives it in; field names are never repeated on the wire, since
// Read already has them from the Schema.
type structEncoder struct{ e *Encoder }

func (s structEncoder) SerializeField(name string, emit func(describe.Serializer) error) error {
	return emit(s.e)
}
func (s structEncoder) End() error { return nil }
