package describe

import "sort"

// DraftKind discriminates a SchemaDraft the same way SchemaKind discriminates
// a finished SchemaNode, plus the two shapes that only exist before
// finalization: Union (a growable alternative set) and Record (the shared
// pre-build representation of Tuple, TupleStruct, TupleVariant, Struct and
// StructVariant, which only diverge from one another once build() decides
// which of those five they actually are).
type DraftKind uint8

const (
	DraftUnion DraftKind = iota // zero value: an empty union, same role as SchemaBuilder::default()
	DraftBool
	DraftI8
	DraftI16
	DraftI32
	DraftI64
	DraftI128
	DraftU8
	DraftU16
	DraftU32
	DraftU64
	DraftU128
	DraftF32
	DraftF64
	DraftChar
	DraftString
	DraftBytes
	DraftOptionNone
	DraftOptionSome
	DraftUnit
	DraftNewtype
	DraftMap
	DraftSequence
	DraftRecord
)

// SchemaDraft is the builder-local, mutable mirror of a SchemaNode tree
// still being traced. Its zero value is an empty Union, matching
// SchemaBuilder's Default impl in the original. Grounded on
// original_source/src/builder.rs's SchemaBuilder enum and its
// unify/union/add_to_nonempty_union/build methods.
type SchemaDraft struct {
	Kind DraftKind

	Name *TypeName // Unit (optional), Newtype (required)

	Inner *SchemaDraft // OptionSome, Newtype, Sequence
	Key   *SchemaDraft // Map
	Value *SchemaDraft // Map

	Alternatives []SchemaDraft // Union

	RecordName   *TypeName      // Record, optional (nil => plain Tuple)
	FieldNames   *NameListIndex // Record, set only once a Struct/StructVariant interns its field name list
	FieldTypes   []SchemaDraft  // Record
	Skippable    []FieldIndex   // Record
	Length       uint32         // Record: arity for tuples, declared field count for structs
}

// union merges other into d, falling back to turning d into a two-way Union
// when the shapes are incompatible. Mirrors SchemaBuilder::union.
func (d *SchemaDraft) union(other SchemaDraft) {
	if ok, _ := d.unify(other); !ok {
		left := *d
		*d = SchemaDraft{Kind: DraftUnion, Alternatives: []SchemaDraft{left, other}}
	}
}

// unify attempts to merge other into d in place, returning true on success.
// On failure d is left untouched and other is returned unchanged so the
// caller (union) can fold it into an explicit alternative set. Mirrors
// SchemaBuilder::unify.
func (d *SchemaDraft) unify(other SchemaDraft) (bool, SchemaDraft) {
	if d.Kind == DraftUnion {
		if len(d.Alternatives) == 0 {
			*d = other
		} else {
			addToNonemptyUnion(other, &d.Alternatives)
		}
		return true, SchemaDraft{}
	}
	if other.Kind == DraftUnion {
		left := *d
		*d = other
		return d.unify(left)
	}
	if d.Kind != other.Kind {
		return false, other
	}
	switch d.Kind {
	case DraftNewtype:
		if !d.Name.equal(*other.Name) {
			return false, other
		}
		d.Inner.union(*other.Inner)
		return true, SchemaDraft{}
	case DraftOptionSome:
		d.Inner.union(*other.Inner)
		return true, SchemaDraft{}
	case DraftMap:
		d.Key.union(*other.Key)
		d.Value.union(*other.Value)
		return true, SchemaDraft{}
	case DraftSequence:
		d.Inner.union(*other.Inner)
		return true, SchemaDraft{}
	case DraftRecord:
		if !recordNameEqual(d.RecordName, other.RecordName) ||
			!nameListPtrEqual(d.FieldNames, other.FieldNames) ||
			d.Length != other.Length {
			return false, other
		}
		for i := range d.FieldTypes {
			d.FieldTypes[i].union(other.FieldTypes[i])
		}
		d.Skippable = append(d.Skippable, other.Skippable...)
		sort.Slice(d.Skippable, func(i, j int) bool { return d.Skippable[i] < d.Skippable[j] })
		d.Skippable = dedupFieldIndex(d.Skippable)
		return true, SchemaDraft{}
	default:
		if draftEqual(*d, other) {
			return true, SchemaDraft{}
		}
		return false, other
	}
}

// addToNonemptyUnion folds right into an already-nonempty alternative set,
// flattening a nested Union and otherwise merging into the first compatible
// existing alternative, or appending a new one. Mirrors
// SchemaBuilder::add_to_nonempty_union.
func addToNonemptyUnion(right SchemaDraft, lefts *[]SchemaDraft) {
	if right.Kind == DraftUnion {
		for _, alt := range right.Alternatives {
			addToNonemptyUnion(alt, lefts)
		}
		return
	}
	for i := range *lefts {
		if ok, _ := (*lefts)[i].unify(right); ok {
			return
		}
	}
	*lefts = append(*lefts, right)
}

func recordNameEqual(a, b *TypeName) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equal(*b)
}

func nameListPtrEqual(a, b *NameListIndex) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func draftEqual(a, b SchemaDraft) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == DraftUnit {
		return recordNameEqual(a.Name, b.Name)
	}
	return true
}

func dedupFieldIndex(s []FieldIndex) []FieldIndex {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// build finalizes d into an interned SchemaNode within rb, returning its
// index. Mirrors SchemaBuilder::build.
func (d *SchemaDraft) build(rb *rootBuilder) (SchemaNodeIndex, *SerError) {
	var node SchemaNode
	switch d.Kind {
	case DraftBool:
		node = SchemaNode{Kind: KindBool}
	case DraftI8:
		node = SchemaNode{Kind: KindI8}
	case DraftI16:
		node = SchemaNode{Kind: KindI16}
	case DraftI32:
		node = SchemaNode{Kind: KindI32}
	case DraftI64:
		node = SchemaNode{Kind: KindI64}
	case DraftI128:
		node = SchemaNode{Kind: KindI128}
	case DraftU8:
		node = SchemaNode{Kind: KindU8}
	case DraftU16:
		node = SchemaNode{Kind: KindU16}
	case DraftU32:
		node = SchemaNode{Kind: KindU32}
	case DraftU64:
		node = SchemaNode{Kind: KindU64}
	case DraftU128:
		node = SchemaNode{Kind: KindU128}
	case DraftF32:
		node = SchemaNode{Kind: KindF32}
	case DraftF64:
		node = SchemaNode{Kind: KindF64}
	case DraftChar:
		node = SchemaNode{Kind: KindChar}
	case DraftString:
		node = SchemaNode{Kind: KindString}
	case DraftBytes:
		node = SchemaNode{Kind: KindBytes}
	case DraftOptionNone:
		node = SchemaNode{Kind: KindOptionNone}
	case DraftOptionSome:
		inner, err := d.Inner.build(rb)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindOptionSome, Inner: inner}
	case DraftUnit:
		switch {
		case d.Name == nil:
			node = SchemaNode{Kind: KindUnit}
		case !d.Name.HasVar:
			node = SchemaNode{Kind: KindUnitStruct, Name: d.Name.Name}
		default:
			node = SchemaNode{Kind: KindUnitVariant, Name: d.Name.Name, Variant: d.Name.Variant}
		}
	case DraftNewtype:
		inner, err := d.Inner.build(rb)
		if err != nil {
			return 0, err
		}
		if !d.Name.HasVar {
			node = SchemaNode{Kind: KindNewtypeStruct, Name: d.Name.Name, Inner: inner}
		} else {
			node = SchemaNode{Kind: KindNewtypeVariant, Name: d.Name.Name, Variant: d.Name.Variant, Inner: inner}
		}
	case DraftMap:
		key, err := d.Key.build(rb)
		if err != nil {
			return 0, err
		}
		value, err := d.Value.build(rb)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindMap, Key: key, Inner: value}
	case DraftSequence:
		inner, err := d.Inner.build(rb)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindSequence, Inner: inner}
	case DraftUnion:
		indices := make([]SchemaNodeIndex, 0, len(d.Alternatives))
		for i := range d.Alternatives {
			idx, err := d.Alternatives[i].build(rb)
			if err != nil {
				return 0, err
			}
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		indices = dedupSchemaNodeIndex(indices)
		if len(indices) > AnonymousVariantCount {
			return 0, newError(ErrTooManyUnionVariants)
		}
		elems, err := rb.nodeLists.Intern(indices)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindUnion, Elems: SchemaNodeListIndex(elems)}
	case DraftRecord:
		return d.buildRecord(rb)
	default:
		return 0, Custom("unreachable schema draft kind %d", d.Kind)
	}
	idx, err := rb.nodes.Intern(node)
	if err != nil {
		return 0, err
	}
	return SchemaNodeIndex(idx), nil
}

func (d *SchemaDraft) buildRecord(rb *rootBuilder) (SchemaNodeIndex, *SerError) {
	skippable := d.Skippable
	if len(skippable) > 64 {
		return 0, newError(ErrTooManyFields)
	}
	fieldNodes := make([]SchemaNodeIndex, 0, len(d.FieldTypes))
	for i := range d.FieldTypes {
		idx, err := d.FieldTypes[i].build(rb)
		if err != nil {
			return 0, err
		}
		fieldNodes = append(fieldNodes, idx)
	}
	elemsIdx, err := rb.nodeLists.Intern(fieldNodes)
	if err != nil {
		return 0, err
	}
	elems := SchemaNodeListIndex(elemsIdx)

	var node SchemaNode
	switch {
	case d.RecordName == nil && d.FieldNames == nil:
		node = SchemaNode{Kind: KindTuple, Arity: d.Length, Elems: elems}
	case d.RecordName != nil && !d.RecordName.HasVar && d.FieldNames == nil:
		node = SchemaNode{Kind: KindTupleStruct, Name: d.RecordName.Name, Arity: d.Length, Elems: elems}
	case d.RecordName != nil && d.RecordName.HasVar && d.FieldNames == nil:
		node = SchemaNode{Kind: KindTupleVariant, Name: d.RecordName.Name, Variant: d.RecordName.Variant, Arity: d.Length, Elems: elems}
	case d.RecordName != nil && !d.RecordName.HasVar && d.FieldNames != nil:
		skipIdx, err := rb.fieldLists.Intern(skippable)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindStruct, Name: d.RecordName.Name, Fields: *d.FieldNames, Skip: FieldListIndex(skipIdx), Elems: elems}
	case d.RecordName != nil && d.RecordName.HasVar && d.FieldNames != nil:
		skipIdx, err := rb.fieldLists.Intern(skippable)
		if err != nil {
			return 0, err
		}
		node = SchemaNode{Kind: KindStructVariant, Name: d.RecordName.Name, Variant: d.RecordName.Variant, Fields: *d.FieldNames, Skip: FieldListIndex(skipIdx), Elems: elems}
	default:
		return 0, Custom("anonymous struct: field names without a type name")
	}
	idx, serr := rb.nodes.Intern(node)
	if serr != nil {
		return 0, serr
	}
	return SchemaNodeIndex(idx), nil
}

func dedupSchemaNodeIndex(s []SchemaNodeIndex) []SchemaNodeIndex {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
