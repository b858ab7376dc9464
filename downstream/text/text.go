// Package text implements a self-describing describe.Serializer /
// describe.Deserializer pair that renders a Value as readable, parseable
// plain text: "TypeName{field: value, ...}" for structs, "Type::Variant"
// for enum shapes, "N[elem, elem]" for sequences. Grounded in
// kungfusheep-glint/printer.go's debug-print tree walk, but unlike that
// printer this format round-trips: every token it writes, Decoder can
// read back.
//
// Every aggregate kind Read already knows the arity of (Tuple, Struct and
// their variant forms) is framed with a single matching pair of
// brackets. Option, NewtypeStruct, NewtypeVariant and the synthetic union
// discriminant carry no bracket at all: their payload is already
// self-delimiting, and nothing upstream ever pairs a Serialize call for
// one of these with a symmetric read on the Deserializer side (the union
// discriminant in particular is written through the general
// SerializeNewtypeVariant/SerializeTupleVariant calls but read back
// through the dedicated DeserializeVariantIdentifier), so a bracket here
// would have no reliable matching close.
package text

import (
	"math/big"
)

func isBareByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '[', ']', '{', '}', ',':
		return false
	}
	return true
}

func int128ToBig(hi int64, lo uint64) *big.Int {
	n := big.NewInt(hi)
	n.Lsh(n, 64)
	n.Add(n, new(big.Int).SetUint64(lo))
	return n
}

func bigToInt128(n *big.Int) (hi int64, lo uint64) {
	mask := new(big.Int).SetUint64(^uint64(0))
	loBig := new(big.Int).And(n, mask)
	hiBig := new(big.Int).Rsh(n, 64)
	return hiBig.Int64(), loBig.Uint64()
}

func uint128ToBig(hi, lo uint64) *big.Int {
	n := new(big.Int).SetUint64(hi)
	n.Lsh(n, 64)
	n.Add(n, new(big.Int).SetUint64(lo))
	return n
}

func bigToUint128(n *big.Int) (hi, lo uint64) {
	mask := new(big.Int).SetUint64(^uint64(0))
	loBig := new(big.Int).And(n, mask)
	hiBig := new(big.Int).Rsh(n, 64)
	return hiBig.Uint64(), loBig.Uint64()
}
