package lenprefix

import (
	"math"

	describe "github.com/kungfusheep/describe"
)

// Decoder is the Encoder's inverse: a describe.Deserializer that reads back
// exactly the bytes Encoder wrote for a given Schema, trusting the caller
// to supply that same Schema to Read.
type Decoder struct {
	r *Reader
}

func NewDecoder(b []byte) *Decoder { return &Decoder{r: NewReader(b)} }

func (d *Decoder) DeserializeBool() (bool, error) { return d.r.ReadBool() }
func (d *Decoder) DeserializeI8() (int8, error) {
	v, err := d.r.ReadByte()
	return int8(v), err
}
func (d *Decoder) DeserializeI16() (int16, error) {
	v, err := d.r.ReadZigzag()
	return int16(v), err
}
func (d *Decoder) DeserializeI32() (int32, error) {
	v, err := d.r.ReadZigzag()
	return int32(v), err
}
func (d *Decoder) DeserializeI64() (int64, error) { return d.r.ReadZigzag() }

func (d *Decoder) DeserializeI128() (describe.Int128, error) {
	hi, err := d.r.ReadVarint()
	if err != nil {
		return describe.Int128{}, err
	}
	lo, err := d.r.ReadVarint()
	if err != nil {
		return describe.Int128{}, err
	}
	return describe.ZigzagDecodeInt128(describe.NewUint128(hi, lo)), nil
}

func (d *Decoder) DeserializeU8() (uint8, error) { return d.r.ReadByte() }
func (d *Decoder) DeserializeU16() (uint16, error) {
	v, err := d.r.ReadVarint()
	return uint16(v), err
}
func (d *Decoder) DeserializeU32() (uint32, error) {
	v, err := d.r.ReadVarint()
	return uint32(v), err
}
func (d *Decoder) DeserializeU64() (uint64, error) { return d.r.ReadVarint() }

func (d *Decoder) DeserializeU128() (describe.Uint128, error) {
	hi, err := d.r.ReadVarint()
	if err != nil {
		return describe.Uint128{}, err
	}
	lo, err := d.r.ReadVarint()
	if err != nil {
		return describe.Uint128{}, err
	}
	return describe.NewUint128(hi, lo), nil
}

func (d *Decoder) DeserializeF32() (float32, error) {
	v, err := d.r.ReadVarint()
	return math.Float32frombits(uint32(v)), err
}
func (d *Decoder) DeserializeF64() (float64, error) {
	v, err := d.r.ReadVarint()
	return math.Float64frombits(v), err
}
func (d *Decoder) DeserializeChar() (rune, error) {
	v, err := d.r.ReadVarint()
	return rune(v), err
}
func (d *Decoder) DeserializeString() (string, error) { return d.r.ReadString() }
func (d *Decoder) DeserializeBytes() ([]byte, error)  { return d.r.ReadBytes() }

func (d *Decoder) DeserializeNone() error { return nil }
func (d *Decoder) DeserializeSome(readInner func() error) error { return readInner() }

func (d *Decoder) DeserializeUnit() error                  { return nil }
func (d *Decoder) DeserializeUnitStruct(name string) error { return nil }
func (d *Decoder) DeserializeUnitVariant(name, variant string) error { return nil }

func (d *Decoder) DeserializeNewtypeStruct(name string, readInner func() error) error {
	return readInner()
}

func (d *Decoder) DeserializeNewtypeVariant(name, variant string, readInner func() error) error {
	return readInner()
}

func (d *Decoder) DeserializeVariantIdentifier(numVariants int) (uint32, error) {
	v, err := d.r.ReadByte()
	return uint32(v), err
}

func (d *Decoder) DeserializeSeq() (int, describe.SeqDecoder, error) {
	length, err := d.r.ReadVarint()
	if err != nil {
		return 0, nil, err
	}
	return int(length), seqTupleDecoder{d}, nil
}

func (d *Decoder) DeserializeMap() (int, describe.MapDecoder, error) {
	length, err := d.r.ReadVarint()
	if err != nil {
		return 0, nil, err
	}
	return int(length), mapDecoder{d}, nil
}

func (d *Decoder) DeserializeTuple(length int) (describe.TupleDecoder, error) {
	return seqTupleDecoder{d}, nil
}

func (d *Decoder) DeserializeTupleStruct(name string, length int) (describe.TupleDecoder, error) {
	return seqTupleDecoder{d}, nil
}

func (d *Decoder) DeserializeTupleVariant(name, variant string, length int) (describe.TupleDecoder, error) {
	return seqTupleDecoder{d}, nil
}

func (d *Decoder) DeserializeStruct(name string, length int) (describe.StructDecoder, error) {
	return structDecoder{d}, nil
}

func (d *Decoder) DeserializeStructVariant(name, variant string, length int) (describe.StructDecoder, error) {
	return structDecoder{d}, nil
}

type seqTupleDecoder struct{ d *Decoder }

func (s seqTupleDecoder) Next(readElement func() error) error { return readElement() }

type mapDecoder struct{ d *Decoder }

func (m mapDecoder) NextEntry(readKey, readValue func() error) error {
	if err := readKey(); err != nil {
		return err
	}
	return readValue()
}

// structDecoder ignores the name it's handed: the wire carries field values
// only, in the declaration order Read already knows from the Schema.
type structDecoder struct{ d *Decoder }

func (s structDecoder) NextField(name string, readValue func() error) error { return readValue() }
