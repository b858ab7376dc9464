package describe

// Int128 and Uint128 stand in for Rust's native i128/u128: Go has no
// built-in 128-bit integer, so both are modeled as a high/low 64-bit pair,
// big-endian in the sense that Hi holds the more significant word.

// Uint128 is an unsigned 128-bit integer.
type Uint128 struct {
	Hi uint64
	Lo uint64
}

// Int128 is a signed 128-bit integer, two's-complement across the Hi:Lo
// pair exactly like a native i128 would be.
type Int128 struct {
	Hi int64
	Lo uint64
}

// NewUint128 builds a Uint128 from its two words.
func NewUint128(hi, lo uint64) Uint128 { return Uint128{Hi: hi, Lo: lo} }

// NewInt128 builds an Int128 from its two words.
func NewInt128(hi int64, lo uint64) Int128 { return Int128{Hi: hi, Lo: lo} }

// Uint128FromUint64 widens a uint64 to Uint128.
func Uint128FromUint64(v uint64) Uint128 { return Uint128{Lo: v} }

// Int128FromInt64 widens an int64 to Int128, sign-extending into Hi.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// Uint64 narrows a Uint128 that is known to fit, discarding Hi.
func (u Uint128) Uint64() uint64 { return u.Lo }

// Int64 narrows an Int128 that is known to fit, discarding Hi.
func (i Int128) Int64() int64 { return int64(i.Lo) }

// AsUint128 reinterprets an Int128's bit pattern as unsigned, the same
// zero-cost cast native.rs performs before zigzag-encoding.
func (i Int128) AsUint128() Uint128 { return Uint128{Hi: uint64(i.Hi), Lo: i.Lo} }

// ZigzagEncode maps a signed 128-bit value onto the unsigned range the way
// protobuf-style zigzag does for 64-bit values, scaled up: (n << 1) ^ (n >> 127).
// Grounded on original_source/src/native.rs's zigzag64/zigzag128 helpers.
func (i Int128) ZigzagEncode() Uint128 {
	u := i.AsUint128()
	shiftedLeft := Uint128{
		Hi: (u.Hi << 1) | (u.Lo >> 63),
		Lo: u.Lo << 1,
	}
	// Arithmetic right-shift by 127 of a signed 128 is all-ones if negative,
	// all-zeros otherwise; that's exactly the original's sign mask.
	var mask uint64
	if i.Hi < 0 {
		mask = ^uint64(0)
	}
	return Uint128{Hi: shiftedLeft.Hi ^ mask, Lo: shiftedLeft.Lo ^ mask}
}

// ZigzagDecodeInt128 inverts ZigzagEncode: (u >> 1) ^ -(u & 1).
func ZigzagDecodeInt128(u Uint128) Int128 {
	var mask uint64
	if u.Lo&1 == 1 {
		mask = ^uint64(0)
	}
	shiftedRight := Uint128{
		Hi: u.Hi >> 1,
		Lo: (u.Lo >> 1) | (u.Hi << 63),
	}
	lo := shiftedRight.Lo ^ mask
	hi := shiftedRight.Hi ^ mask
	return Int128{Hi: int64(hi), Lo: lo}
}
