package describe

// SchemaKind discriminates a SchemaNode's variant. Go has no tagged unions,
// so SchemaNode below is a flat, comparable struct carrying one of these
// plus only the fields its Kind actually uses — the idiomatic Go substitute
// for Rust's enum, kept comparable so Pool[SchemaNode] can dedupe it with a
// plain map. Mirrors original_source/src/schema.rs's SchemaNode enum.
type SchemaKind uint8

const (
	KindBool SchemaKind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindOptionNone
	KindOptionSome
	KindUnit
	KindUnitStruct
	KindUnitVariant
	KindNewtypeStruct
	KindNewtypeVariant
	KindSequence
	KindMap
	KindTuple
	KindTupleStruct
	KindTupleVariant
	KindStruct
	KindStructVariant
	KindUnion
)

func (k SchemaKind) String() string {
	names := [...]string{
		"Bool", "I8", "I16", "I32", "I64", "I128", "U8", "U16", "U32", "U64", "U128",
		"F32", "F64", "Char", "String", "Bytes", "OptionNone", "OptionSome", "Unit",
		"UnitStruct", "UnitVariant", "NewtypeStruct", "NewtypeVariant", "Sequence", "Map",
		"Tuple", "TupleStruct", "TupleVariant", "Struct", "StructVariant", "Union",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

// SchemaNode is one interned node of a Schema's type tree. Only the fields
// relevant to Kind are meaningful; the zero value of every other field is
// ignored. This is deliberately a plain comparable struct (no pointers, no
// slices) so it can live as a Pool[SchemaNode] key.
//
//   Kind              fields in use
//   ---------------   --------------------------------------------------
//   Bool..Bytes       (none — the primitive kinds are self-contained)
//   OptionNone        (none)
//   OptionSome        Inner
//   Unit              (none)
//   UnitStruct        Name
//   UnitVariant       Name, Variant
//   NewtypeStruct     Name, Inner
//   NewtypeVariant    Name, Variant, Inner
//   Sequence          Inner
//   Map               Key, Inner (value)
//   Tuple             Arity, Elems
//   TupleStruct       Name, Arity, Elems
//   TupleVariant      Name, Variant, Arity, Elems
//   Struct            Name, Fields, Skip, Elems
//   StructVariant     Name, Variant, Fields, Skip, Elems
//   Union             Elems (alternatives, canonical order)
type SchemaNode struct {
	Kind SchemaKind

	Name    NameIndex
	Variant NameIndex

	Inner SchemaNodeIndex
	Key   SchemaNodeIndex

	Arity uint32

	Fields NameListIndex
	Skip   FieldListIndex
	Elems  SchemaNodeListIndex
}

// Schema is the finished, immutable, interned description of one or more
// traced values. It is safe to share read-only across goroutines: nothing
// in it is ever mutated after the Trace call that built it returns.
type Schema struct {
	root       SchemaNodeIndex
	nodes      []SchemaNode
	names      []string
	nameLists  [][]NameIndex
	nodeLists  [][]SchemaNodeIndex
	fieldLists [][]FieldIndex
}

// Root returns the index of the schema node describing the traced value's
// top-level type.
func (s *Schema) Root() SchemaNodeIndex { return s.root }

// Node dereferences a SchemaNodeIndex minted by this Schema.
func (s *Schema) Node(i SchemaNodeIndex) SchemaNode { return s.nodes[i] }

// Name dereferences a NameIndex minted by this Schema.
func (s *Schema) Name(i NameIndex) string { return s.names[i] }

// NameList dereferences a NameListIndex minted by this Schema.
func (s *Schema) NameList(i NameListIndex) []NameIndex { return s.nameLists[i] }

// NodeList dereferences a SchemaNodeListIndex minted by this Schema.
func (s *Schema) NodeList(i SchemaNodeListIndex) []SchemaNodeIndex { return s.nodeLists[i] }

// FieldList dereferences a FieldListIndex minted by this Schema.
func (s *Schema) FieldList(i FieldListIndex) []FieldIndex { return s.fieldLists[i] }

// NumNodes reports how many distinct SchemaNodes this Schema interns.
func (s *Schema) NumNodes() int { return len(s.nodes) }
