package describe

// The index kinds below are dense 32-bit handles into one of the five
// Schema pools, or into the trace tape. Every cross-reference inside a
// SchemaNode is one of these; none is portable across a different Schema or
// Value than the one it was produced from.
//
// Rust's original leaned on a macro (indices.rs's u32_indices!) to stamp out
// one newtype per pool plus its overflow-checked usize conversion. Go has no
// macros, so fitsU32 below is the shared overflow check that the Pool[K] and
// ListPool[E] interners and the Tracer's length checks call into; the newtypes themselves
// stay hand-written so each carries its own type identity (a NameIndex can
// never be passed where a FieldIndex is expected).

// NameIndex addresses the Schema.names pool.
type NameIndex uint32

// NameListIndex addresses the Schema.nameLists pool.
type NameListIndex uint32

// SchemaNodeIndex addresses the Schema.nodes pool.
type SchemaNodeIndex uint32

// SchemaNodeListIndex addresses the Schema.nodeLists pool.
type SchemaNodeListIndex uint32

// FieldIndex is the ordinal of a field within one struct's declaration
// order; also doubles as the element type of a FieldListIndex.
type FieldIndex uint32

// FieldListIndex addresses the Schema.fieldLists pool (skip-lists).
type FieldListIndex uint32

// TraceIndex is a byte offset into a Trace tape.
type TraceIndex uint32

// TypeName pairs a type name with an optional variant name, the unit of
// identity a Union check compares (mirrors indices.rs's TypeName tuple).
type TypeName struct {
	Name    NameIndex
	Variant NameIndex
	HasVar  bool
}

func (t TypeName) equal(o TypeName) bool {
	return t.Name == o.Name && t.HasVar == o.HasVar && (!t.HasVar || t.Variant == o.Variant)
}

// fitsU32 reports whether n (a count or a soon-to-be-index) still fits in a
// 32-bit handle. Every Pool and ListPool calls this before minting a new
// index, and the Tracer calls it on tuple and struct lengths.
func fitsU32(n int) bool {
	return n >= 0 && uint64(n) <= uint64(^uint32(0))
}
