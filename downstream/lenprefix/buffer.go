// Package lenprefix implements a non-self-describing describe.Serializer /
// describe.Deserializer pair: a compact, length-prefixed binary wire format
// that trusts the caller to present the same Schema at decode time that
// produced the bytes, rather than carrying type identity itself.
package lenprefix

// Buffer accumulates encoded bytes during a schema-guided Emit. The varint
// and zigzag idiom is carried over from kungfusheep-glint/buffer.go; the
// trust-header, HTTP and time-marshaling machinery that lived alongside it
// there is gone; nothing here needs to renegotiate schema trust out of
// band, since the Schema travels with the Value, not with the bytes.
type Buffer struct {
	bytes []byte
}

// Bytes returns the accumulated wire bytes.
func (b *Buffer) Bytes() []byte { return b.bytes }

func (b *Buffer) AppendByte(v byte) {
	b.bytes = append(b.bytes, v)
}

func (b *Buffer) AppendBool(v bool) {
	if v {
		b.bytes = append(b.bytes, 1)
	} else {
		b.bytes = append(b.bytes, 0)
	}
}

// AppendVarint uses the same base-128 continuation encoding as glint's
// appendVarintb.
func (b *Buffer) AppendVarint(v uint64) {
	for v >= 0b10000000 {
		b.bytes = append(b.bytes, byte(v&0b01111111)|0b10000000)
		v >>= 7
	}
	b.bytes = append(b.bytes, byte(v))
}

// AppendZigzag maps a signed value onto the unsigned range before varint
// encoding it, so small negative numbers stay cheap.
func (b *Buffer) AppendZigzag(v int64) {
	b.AppendVarint(uint64((v >> 63) ^ (v << 1)))
}

func (b *Buffer) AppendString(v string) {
	b.AppendVarint(uint64(len(v)))
	b.bytes = append(b.bytes, v...)
}

func (b *Buffer) AppendBytes(v []byte) {
	b.AppendVarint(uint64(len(v)))
	b.bytes = append(b.bytes, v...)
}
