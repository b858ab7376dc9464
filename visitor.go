package describe

// Marshaler is implemented by any Go value that knows how to trace its own
// shape and content onto a Tracer. It plays the role serde's Serialize
// trait plays in the original: Trace(value) calls value.MarshalSchema on a
// fresh Tracer, and the resulting Trace/SchemaDraft pair is exactly what
// that one call produced. Types that don't implement Marshaler fall back to
// the reflective walker in reflect.go.
type Marshaler interface {
	MarshalSchema(t *Tracer) error
}

// Unmarshaler is the read-side counterpart of Marshaler: a Go value that
// drives its own construction from a Visitor. Nothing in this package calls
// it; Read delivers events only to the Visitor it is handed, and reflect.go
// has no decoding walker.
type Unmarshaler interface {
	UnmarshalSchema(v Visitor) error
}

// Serializer is the contract a downstream, non-self-describing (or
// self-describing) wire format implements to receive a schema-guided
// replay of a traced value from Emit. Every aggregate method returns a
// narrower encoder interface scoped to that aggregate's lifetime, mirroring
// serde::Serializer's associated SerializeSeq/SerializeMap/etc. types.
type Serializer interface {
	SerializeBool(v bool) error
	SerializeI8(v int8) error
	SerializeI16(v int16) error
	SerializeI32(v int32) error
	SerializeI64(v int64) error
	SerializeI128(v Int128) error
	SerializeU8(v uint8) error
	SerializeU16(v uint16) error
	SerializeU32(v uint32) error
	SerializeU64(v uint64) error
	SerializeU128(v Uint128) error
	SerializeF32(v float32) error
	SerializeF64(v float64) error
	SerializeChar(v rune) error
	SerializeString(v string) error
	SerializeBytes(v []byte) error

	SerializeNone() error
	SerializeSome(emit func(Serializer) error) error

	SerializeUnit() error
	SerializeUnitStruct(name string) error
	SerializeUnitVariant(name string, variantIndex uint32, variant string) error

	SerializeNewtypeStruct(name string, emit func(Serializer) error) error
	SerializeNewtypeVariant(name string, variantIndex uint32, variant string, emit func(Serializer) error) error

	SerializeSeq(length int) (SeqEncoder, error)
	SerializeMap(length int) (MapEncoder, error)
	SerializeTuple(length int) (TupleEncoder, error)
	SerializeTupleStruct(name string, length int) (TupleEncoder, error)
	SerializeTupleVariant(name string, variantIndex uint32, variant string, length int) (TupleEncoder, error)
	SerializeStruct(name string, length int) (StructEncoder, error)
	SerializeStructVariant(name string, variantIndex uint32, variant string, length int) (StructEncoder, error)
}

// SeqEncoder receives the elements of a Sequence node in order.
type SeqEncoder interface {
	SerializeElement(emit func(Serializer) error) error
	End() error
}

// MapEncoder receives the key/value pairs of a Map node in order.
type MapEncoder interface {
	SerializeKey(emit func(Serializer) error) error
	SerializeValue(emit func(Serializer) error) error
	End() error
}

// TupleEncoder receives the elements of a Tuple, TupleStruct or
// TupleVariant node in order. Also used for the fixed-arity chunks
// SkippableStruct emission produces for a Struct/StructVariant node that
// has a non-empty skip list.
type TupleEncoder interface {
	SerializeElement(emit func(Serializer) error) error
	End() error
}

// StructEncoder receives the present fields of a Struct or StructVariant
// node that has an empty skip list, one named field at a time.
type StructEncoder interface {
	SerializeField(name string, emit func(Serializer) error) error
	End() error
}

// Deserializer is the contract a downstream wire format implements so Read
// can pull a schema-guided value back out of it and push decoded events to
// a Visitor. Each method consumes exactly the bytes its Schema counterpart
// would have produced during Emit. Option and newtype methods take a
// callback that reads the inner value; aggregate methods return a decoder
// scoped to that aggregate, mirroring Serializer's encoders. Seq and Map
// lengths are discovered from the wire rather than known ahead of time from
// the schema (unlike a tuple or struct's arity/field count, which Read
// already knows before it calls in), so those two return their length
// instead of taking one.
type Deserializer interface {
	DeserializeBool() (bool, error)
	DeserializeI8() (int8, error)
	DeserializeI16() (int16, error)
	DeserializeI32() (int32, error)
	DeserializeI64() (int64, error)
	DeserializeI128() (Int128, error)
	DeserializeU8() (uint8, error)
	DeserializeU16() (uint16, error)
	DeserializeU32() (uint32, error)
	DeserializeU64() (uint64, error)
	DeserializeU128() (Uint128, error)
	DeserializeF32() (float32, error)
	DeserializeF64() (float64, error)
	DeserializeChar() (rune, error)
	DeserializeString() (string, error)
	DeserializeBytes() ([]byte, error)

	DeserializeNone() error
	DeserializeSome(readInner func() error) error

	DeserializeUnit() error
	DeserializeUnitStruct(name string) error
	DeserializeUnitVariant(name, variant string) error

	DeserializeNewtypeStruct(name string, readInner func() error) error
	DeserializeNewtypeVariant(name, variant string, readInner func() error) error

	// DeserializeVariantIdentifier reads back which of numVariants synthetic
	// anonymous alternatives a prior SerializeNewtypeVariant or
	// SerializeTupleVariant call (using the anonymous union type name) wrote,
	// returning its ordinal. Read uses it to resolve a Union node and to
	// recover each 8-bit chunk of a skippable struct's presence bitmask; real
	// enum variants are identified by name, not by this call.
	DeserializeVariantIdentifier(numVariants int) (uint32, error)

	DeserializeSeq() (length int, dec SeqDecoder, err error)
	DeserializeMap() (length int, dec MapDecoder, err error)
	DeserializeTuple(length int) (TupleDecoder, error)
	DeserializeTupleStruct(name string, length int) (TupleDecoder, error)
	DeserializeTupleVariant(name, variant string, length int) (TupleDecoder, error)
	DeserializeStruct(name string, length int) (StructDecoder, error)
	DeserializeStructVariant(name, variant string, length int) (StructDecoder, error)
}

// SeqDecoder yields Sequence elements one at a time; Next calls readElement
// exactly once to read the next element before returning.
type SeqDecoder interface {
	Next(readElement func() error) error
}

// MapDecoder yields Map key/value pairs one at a time.
type MapDecoder interface {
	NextEntry(readKey, readValue func() error) error
}

// TupleDecoder yields a fixed, known-in-advance number of elements; also
// used to read back a Struct/StructVariant's present fields once the
// skip-bitmask chain (if any) has been unwound.
type TupleDecoder interface {
	Next(readElement func() error) error
}

// StructDecoder yields a Struct/StructVariant's fields by name, used only
// when the schema's skip list is empty (every occurrence has every field).
type StructDecoder interface {
	NextField(name string, readValue func() error) error
}

// Visitor receives the fully schema-resolved shape of a value read back by
// Read, one callback per node. It generalizes kungfusheep-glint's Visitor
// interface (VisitField/VisitArrayStart/VisitStructStart/...) to the full
// node set a Schema can describe, instead of glint's own fixed WireType
// set.
type Visitor interface {
	VisitBool(v bool) error
	VisitI8(v int8) error
	VisitI16(v int16) error
	VisitI32(v int32) error
	VisitI64(v int64) error
	VisitI128(v Int128) error
	VisitU8(v uint8) error
	VisitU16(v uint16) error
	VisitU32(v uint32) error
	VisitU64(v uint64) error
	VisitU128(v Uint128) error
	VisitF32(v float32) error
	VisitF64(v float64) error
	VisitChar(v rune) error
	VisitString(v string) error
	VisitBytes(v []byte) error

	VisitNone() error
	// VisitSome is called with a callback the visitor must invoke exactly
	// once, synchronously, to continue reading the option's inner value.
	VisitSome(readInner func() error) error

	VisitUnit() error
	VisitUnitStruct(name string) error
	VisitUnitVariant(name, variant string) error

	VisitNewtypeStruct(name string, readInner func() error) error
	VisitNewtypeVariant(name, variant string, readInner func() error) error

	// VisitSeqStart is called with the element count and a callback the
	// visitor must invoke exactly that many times to read each element.
	VisitSeqStart(length int, readElement func(i int) error) error
	VisitMapStart(length int, readEntry func(i int) error) error
	VisitTupleStart(name string, length int, readElement func(i int) error) error
	VisitTupleVariantStart(name, variant string, length int, readElement func(i int) error) error
	VisitStructStart(name string, fields []string, readField func(i int) error) error
	VisitStructVariantStart(name, variant string, fields []string, readField func(i int) error) error
}
