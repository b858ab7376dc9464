package text

import (
	"math/big"
	"strconv"
	"strings"

	describe "github.com/kungfusheep/describe"
)

// Decoder reads back text an Encoder produced. It trusts the caller to
// drive it with the same Schema that guided the Encoder, exactly as
// lenprefix.Decoder does; the difference is that every token here also
// carries its own type/field identity, so a mismatch is caught as a
// parse error rather than silently misread.
type Decoder struct {
	data []byte
	pos  int
}

func NewDecoder(s string) *Decoder { return &Decoder{data: []byte(s)} }

func (d *Decoder) skipSpace() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *Decoder) expect(c byte) error {
	d.skipSpace()
	if d.pos >= len(d.data) || d.data[d.pos] != c {
		return describe.Custom("describe/text: expected %q at byte %d", string(c), d.pos)
	}
	d.pos++
	return nil
}

func (d *Decoder) readBareToken() string {
	d.skipSpace()
	start := d.pos
	for d.pos < len(d.data) && isBareByte(d.data[d.pos]) {
		d.pos++
	}
	return string(d.data[start:d.pos])
}

// readFieldName reads a struct field's "name:" header and strips the
// trailing colon. The colon itself is a bare byte (needed so "::"
// survives intact inside variant tokens read via readBareToken), so a
// field name always comes back with it attached here.
func (d *Decoder) readFieldName() string {
	return strings.TrimSuffix(d.readBareToken(), ":")
}

func (d *Decoder) readQuotedString() (string, error) {
	d.skipSpace()
	start := d.pos
	if d.pos >= len(d.data) || d.data[d.pos] != '"' {
		return "", describe.Custom("describe/text: expected string at byte %d", d.pos)
	}
	d.pos++
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case '\\':
			d.pos += 2
		case '"':
			d.pos++
			return strconv.Unquote(string(d.data[start:d.pos]))
		default:
			d.pos++
		}
	}
	return "", describe.Custom("describe/text: unterminated string starting at byte %d", start)
}

func (d *Decoder) readQuotedRune() (rune, error) {
	d.skipSpace()
	start := d.pos
	if d.pos >= len(d.data) || d.data[d.pos] != '\'' {
		return 0, describe.Custom("describe/text: expected char at byte %d", d.pos)
	}
	d.pos++
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case '\\':
			d.pos += 2
		case '\'':
			d.pos++
			r, _, _, err := strconv.UnquoteChar(string(d.data[start+1:d.pos-1]), '\'')
			return r, err
		default:
			d.pos++
		}
	}
	return 0, describe.Custom("describe/text: unterminated char starting at byte %d", start)
}

func (d *Decoder) expectName(name string) error {
	tok := d.readBareToken()
	if tok != name {
		return describe.Custom("describe/text: expected %q, got %q", name, tok)
	}
	return nil
}

func (d *Decoder) expectVariant(name, variant string) error {
	want := name + "::" + variant
	tok := d.readBareToken()
	if tok != want {
		return describe.Custom("describe/text: expected %q, got %q", want, tok)
	}
	return nil
}

func (d *Decoder) DeserializeBool() (bool, error) {
	switch tok := d.readBareToken(); tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, describe.Custom("describe/text: invalid bool %q", tok)
	}
}

func (d *Decoder) DeserializeI8() (int8, error) {
	v, err := strconv.ParseInt(d.readBareToken(), 10, 8)
	return int8(v), err
}
func (d *Decoder) DeserializeI16() (int16, error) {
	v, err := strconv.ParseInt(d.readBareToken(), 10, 16)
	return int16(v), err
}
func (d *Decoder) DeserializeI32() (int32, error) {
	v, err := strconv.ParseInt(d.readBareToken(), 10, 32)
	return int32(v), err
}
func (d *Decoder) DeserializeI64() (int64, error) {
	return strconv.ParseInt(d.readBareToken(), 10, 64)
}

func (d *Decoder) DeserializeI128() (describe.Int128, error) {
	tok := d.readBareToken()
	n, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return describe.Int128{}, describe.Custom("describe/text: invalid i128 %q", tok)
	}
	hi, lo := bigToInt128(n)
	return describe.NewInt128(hi, lo), nil
}

func (d *Decoder) DeserializeU8() (uint8, error) {
	v, err := strconv.ParseUint(d.readBareToken(), 10, 8)
	return uint8(v), err
}
func (d *Decoder) DeserializeU16() (uint16, error) {
	v, err := strconv.ParseUint(d.readBareToken(), 10, 16)
	return uint16(v), err
}
func (d *Decoder) DeserializeU32() (uint32, error) {
	v, err := strconv.ParseUint(d.readBareToken(), 10, 32)
	return uint32(v), err
}
func (d *Decoder) DeserializeU64() (uint64, error) {
	return strconv.ParseUint(d.readBareToken(), 10, 64)
}

func (d *Decoder) DeserializeU128() (describe.Uint128, error) {
	tok := d.readBareToken()
	n, ok := new(big.Int).SetString(tok, 10)
	if !ok {
		return describe.Uint128{}, describe.Custom("describe/text: invalid u128 %q", tok)
	}
	hi, lo := bigToUint128(n)
	return describe.NewUint128(hi, lo), nil
}

func (d *Decoder) DeserializeF32() (float32, error) {
	v, err := strconv.ParseFloat(d.readBareToken(), 32)
	return float32(v), err
}
func (d *Decoder) DeserializeF64() (float64, error) {
	return strconv.ParseFloat(d.readBareToken(), 64)
}

func (d *Decoder) DeserializeChar() (rune, error)     { return d.readQuotedRune() }
func (d *Decoder) DeserializeString() (string, error) { return d.readQuotedString() }

func (d *Decoder) DeserializeBytes() ([]byte, error) {
	tok := strings.TrimPrefix(d.readBareToken(), "0x")
	return decodeHex(tok)
}

func (d *Decoder) DeserializeNone() error { return d.expectName("None") }

func (d *Decoder) DeserializeSome(readInner func() error) error {
	if err := d.expectName("Some"); err != nil {
		return err
	}
	return readInner()
}

func (d *Decoder) DeserializeUnit() error                  { return d.expectName("unit") }
func (d *Decoder) DeserializeUnitStruct(name string) error { return d.expectName(name) }
func (d *Decoder) DeserializeUnitVariant(name, variant string) error {
	return d.expectVariant(name, variant)
}

func (d *Decoder) DeserializeNewtypeStruct(name string, readInner func() error) error {
	if err := d.expectName(name); err != nil {
		return err
	}
	return readInner()
}

func (d *Decoder) DeserializeNewtypeVariant(name, variant string, readInner func() error) error {
	if err := d.expectVariant(name, variant); err != nil {
		return err
	}
	return readInner()
}

// DeserializeVariantIdentifier reads a bare "Union::_XX" token and
// recovers the ordinal from its hex suffix, matching
// anonymousVariantName's "_%0*x" formatting. It never consumes a
// trailing delimiter: whatever Deserialize call Read issues next for the
// resolved alternative or skip-chain chunk picks up exactly where this
// one stopped.
func (d *Decoder) DeserializeVariantIdentifier(numVariants int) (uint32, error) {
	tok := d.readBareToken()
	prefix := describe.AnonymousUnionTypeName + "::_"
	if !strings.HasPrefix(tok, prefix) {
		return 0, describe.Custom("describe/text: expected union discriminant, got %q", tok)
	}
	ord, err := strconv.ParseUint(tok[len(prefix):], 16, 32)
	if err != nil {
		return 0, describe.Custom("describe/text: invalid union discriminant %q", tok)
	}
	return uint32(ord), nil
}

func (d *Decoder) DeserializeSeq() (int, describe.SeqDecoder, error) {
	n, err := strconv.Atoi(d.readBareToken())
	if err != nil {
		return 0, nil, describe.Custom("describe/text: invalid sequence length: %v", err)
	}
	if err := d.expect('['); err != nil {
		return 0, nil, err
	}
	if n == 0 {
		if err := d.expect(']'); err != nil {
			return 0, nil, err
		}
	}
	return n, &listDecoder{d: d, n: n, close: ']'}, nil
}

func (d *Decoder) DeserializeMap() (int, describe.MapDecoder, error) {
	n, err := strconv.Atoi(d.readBareToken())
	if err != nil {
		return 0, nil, describe.Custom("describe/text: invalid map length: %v", err)
	}
	if err := d.expect('{'); err != nil {
		return 0, nil, err
	}
	if n == 0 {
		if err := d.expect('}'); err != nil {
			return 0, nil, err
		}
	}
	return n, &mapDecoder{d: d, n: n}, nil
}

func (d *Decoder) DeserializeTuple(length int) (describe.TupleDecoder, error) {
	if err := d.expect('('); err != nil {
		return nil, err
	}
	if length == 0 {
		if err := d.expect(')'); err != nil {
			return nil, err
		}
	}
	return &listDecoder{d: d, n: length, close: ')'}, nil
}

func (d *Decoder) DeserializeTupleStruct(name string, length int) (describe.TupleDecoder, error) {
	if err := d.expectName(name); err != nil {
		return nil, err
	}
	return d.DeserializeTuple(length)
}

func (d *Decoder) DeserializeTupleVariant(name, variant string, length int) (describe.TupleDecoder, error) {
	if err := d.expectVariant(name, variant); err != nil {
		return nil, err
	}
	return d.DeserializeTuple(length)
}

func (d *Decoder) DeserializeStruct(name string, length int) (describe.StructDecoder, error) {
	if err := d.expectName(name); err != nil {
		return nil, err
	}
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	if length == 0 {
		if err := d.expect('}'); err != nil {
			return nil, err
		}
	}
	return &structDecoder{d: d, n: length}, nil
}

func (d *Decoder) DeserializeStructVariant(name, variant string, length int) (describe.StructDecoder, error) {
	if err := d.expectVariant(name, variant); err != nil {
		return nil, err
	}
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	if length == 0 {
		if err := d.expect('}'); err != nil {
			return nil, err
		}
	}
	return &structDecoder{d: d, n: length}, nil
}

// listDecoder backs Sequence, Tuple, TupleStruct and TupleVariant: all
// four are a comma-separated run of n elements closed by a single
// bracket known up front.
type listDecoder struct {
	d     *Decoder
	idx   int
	n     int
	close byte
}

func (l *listDecoder) Next(readElement func() error) error {
	if l.idx > 0 {
		if err := l.d.expect(','); err != nil {
			return err
		}
	}
	l.idx++
	if err := readElement(); err != nil {
		return err
	}
	if l.idx == l.n {
		return l.d.expect(l.close)
	}
	return nil
}

type mapDecoder struct {
	d   *Decoder
	idx int
	n   int
}

func (m *mapDecoder) NextEntry(readKey, readValue func() error) error {
	if m.idx > 0 {
		if err := m.d.expect(','); err != nil {
			return err
		}
	}
	m.idx++
	if err := readKey(); err != nil {
		return err
	}
	if err := m.d.expect(':'); err != nil {
		return err
	}
	if err := readValue(); err != nil {
		return err
	}
	if m.idx == m.n {
		return m.d.expect('}')
	}
	return nil
}

type structDecoder struct {
	d   *Decoder
	idx int
	n   int
}

func (s *structDecoder) NextField(name string, readValue func() error) error {
	if s.idx > 0 {
		if err := s.d.expect(','); err != nil {
			return err
		}
	}
	s.idx++
	got := s.d.readFieldName()
	if got != name {
		return describe.Custom("describe/text: expected field %q, got %q", name, got)
	}
	if err := readValue(); err != nil {
		return err
	}
	if s.idx == s.n {
		return s.d.expect('}')
	}
	return nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, describe.Custom("describe/text: odd-length hex string %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, describe.Custom("describe/text: invalid hex byte in %q", s)
		}
		out[i] = byte(v)
	}
	return out, nil
}
