package describe

// rootBuilder owns the growing trace tape and the five interning pools that
// a Trace call accumulates into. It plays the role RootSchemaBuilder plays
// in original_source/src/builder.rs.
type rootBuilder struct {
	tape       tapeWriter
	names      *Pool[string]
	nameLists  *ListPool[NameIndex]
	nodes      *Pool[SchemaNode]
	nodeLists  *ListPool[SchemaNodeIndex]
	fieldLists *ListPool[FieldIndex]
}

func newRootBuilder() *rootBuilder {
	return &rootBuilder{
		names:      NewPool[string](ErrTooManyNames),
		nameLists:  NewListPool[NameIndex](ErrTooManyNameLists),
		nodes:      NewPool[SchemaNode](ErrTooManySchemas),
		nodeLists:  NewListPool[SchemaNodeIndex](ErrTooManySchemaLists),
		fieldLists: NewListPool[FieldIndex](ErrTooManyFields),
	}
}

func (rb *rootBuilder) pushStructName(name string) (TypeName, *SerError) {
	idx, err := InternString(rb.names, stringBytes(name))
	if err != nil {
		return TypeName{}, err
	}
	rb.tape.WriteName(NameIndex(idx))
	return TypeName{Name: NameIndex(idx)}, nil
}

func (rb *rootBuilder) pushVariantName(name, variant string) (TypeName, *SerError) {
	n, err := InternString(rb.names, stringBytes(name))
	if err != nil {
		return TypeName{}, err
	}
	v, err := InternString(rb.names, stringBytes(variant))
	if err != nil {
		return TypeName{}, err
	}
	rb.tape.WriteName(NameIndex(n))
	rb.tape.WriteName(NameIndex(v))
	return TypeName{Name: NameIndex(n), Variant: NameIndex(v), HasVar: true}, nil
}

func (rb *rootBuilder) build(root SchemaDraft) (*Schema, *SerError) {
	rootIdx, err := root.build(rb)
	if err != nil {
		return nil, err
	}
	return &Schema{
		root:       rootIdx,
		nodes:      rb.nodes.Iter(),
		names:      rb.names.Iter(),
		nameLists:  rb.nameLists.Iter(),
		nodeLists:  rb.nodeLists.Iter(),
		fieldLists: rb.fieldLists.Iter(),
	}, nil
}

// Tracer is the write side of a Trace call: it is handed to a Marshaler,
// which drives it exactly once to describe a single value's shape and
// content. Every call appends to the tape and records its result in an
// internal slot that the caller reads back via Result after a nested
// emit callback returns, exactly the way this package's own Serializer
// interface exposes nested values through an emit callback.
type Tracer struct {
	rb   *rootBuilder
	last SchemaDraft
}

// Result returns the SchemaDraft produced by the most recently completed
// call on t. A nested emit callback's caller reads this immediately after
// invoking the callback to obtain that nested value's draft.
func (t *Tracer) Result() SchemaDraft { return t.last }

func clonePtr(d SchemaDraft) *SchemaDraft { return &d }

func (t *Tracer) Bool(v bool) error {
	t.rb.tape.WriteKind(TraceBool)
	t.rb.tape.WriteBool(v)
	t.last = SchemaDraft{Kind: DraftBool}
	return nil
}

func (t *Tracer) I8(v int8) error {
	t.rb.tape.WriteKind(TraceI8)
	t.rb.tape.WriteI8(v)
	t.last = SchemaDraft{Kind: DraftI8}
	return nil
}

func (t *Tracer) I16(v int16) error {
	t.rb.tape.WriteKind(TraceI16)
	t.rb.tape.WriteI16(v)
	t.last = SchemaDraft{Kind: DraftI16}
	return nil
}

func (t *Tracer) I32(v int32) error {
	t.rb.tape.WriteKind(TraceI32)
	t.rb.tape.WriteI32(v)
	t.last = SchemaDraft{Kind: DraftI32}
	return nil
}

func (t *Tracer) I64(v int64) error {
	t.rb.tape.WriteKind(TraceI64)
	t.rb.tape.WriteI64(v)
	t.last = SchemaDraft{Kind: DraftI64}
	return nil
}

func (t *Tracer) I128(v Int128) error {
	t.rb.tape.WriteKind(TraceI128)
	t.rb.tape.WriteI128(v)
	t.last = SchemaDraft{Kind: DraftI128}
	return nil
}

func (t *Tracer) U8(v uint8) error {
	t.rb.tape.WriteKind(TraceU8)
	t.rb.tape.WriteU8(v)
	t.last = SchemaDraft{Kind: DraftU8}
	return nil
}

func (t *Tracer) U16(v uint16) error {
	t.rb.tape.WriteKind(TraceU16)
	t.rb.tape.WriteU16(v)
	t.last = SchemaDraft{Kind: DraftU16}
	return nil
}

func (t *Tracer) U32(v uint32) error {
	t.rb.tape.WriteKind(TraceU32)
	t.rb.tape.WriteU32(v)
	t.last = SchemaDraft{Kind: DraftU32}
	return nil
}

func (t *Tracer) U64(v uint64) error {
	t.rb.tape.WriteKind(TraceU64)
	t.rb.tape.WriteU64(v)
	t.last = SchemaDraft{Kind: DraftU64}
	return nil
}

func (t *Tracer) U128(v Uint128) error {
	t.rb.tape.WriteKind(TraceU128)
	t.rb.tape.WriteU128(v)
	t.last = SchemaDraft{Kind: DraftU128}
	return nil
}

func (t *Tracer) F32(v float32) error {
	t.rb.tape.WriteKind(TraceF32)
	t.rb.tape.WriteF32(v)
	t.last = SchemaDraft{Kind: DraftF32}
	return nil
}

func (t *Tracer) F64(v float64) error {
	t.rb.tape.WriteKind(TraceF64)
	t.rb.tape.WriteF64(v)
	t.last = SchemaDraft{Kind: DraftF64}
	return nil
}

func (t *Tracer) Char(v rune) error {
	t.rb.tape.WriteKind(TraceChar)
	t.rb.tape.WriteChar(v)
	t.last = SchemaDraft{Kind: DraftChar}
	return nil
}

func (t *Tracer) String(v string) error {
	t.rb.tape.WriteKind(TraceString)
	t.rb.tape.WriteLenBytes([]byte(v))
	t.last = SchemaDraft{Kind: DraftString}
	return nil
}

func (t *Tracer) Bytes(v []byte) error {
	t.rb.tape.WriteKind(TraceBytes)
	t.rb.tape.WriteLenBytes(v)
	t.last = SchemaDraft{Kind: DraftBytes}
	return nil
}

func (t *Tracer) None() error {
	t.rb.tape.WriteKind(TraceOptionNone)
	t.last = SchemaDraft{Kind: DraftOptionNone}
	return nil
}

func (t *Tracer) Some(emit func(*Tracer) error) error {
	t.rb.tape.WriteKind(TraceOptionSome)
	if err := emit(t); err != nil {
		return err
	}
	inner := t.last
	t.last = SchemaDraft{Kind: DraftOptionSome, Inner: &inner}
	return nil
}

func (t *Tracer) Unit() error {
	t.rb.tape.WriteKind(TraceUnit)
	t.last = SchemaDraft{Kind: DraftUnit}
	return nil
}

func (t *Tracer) UnitStruct(name string) error {
	t.rb.tape.WriteKind(TraceUnitStruct)
	tn, err := t.rb.pushStructName(name)
	if err != nil {
		return err
	}
	t.last = SchemaDraft{Kind: DraftUnit, Name: &tn}
	return nil
}

func (t *Tracer) UnitVariant(name, variant string) error {
	t.rb.tape.WriteKind(TraceUnitVariant)
	tn, err := t.rb.pushVariantName(name, variant)
	if err != nil {
		return err
	}
	t.last = SchemaDraft{Kind: DraftUnit, Name: &tn}
	return nil
}

func (t *Tracer) NewtypeStruct(name string, emit func(*Tracer) error) error {
	t.rb.tape.WriteKind(TraceNewtypeStruct)
	tn, err := t.rb.pushStructName(name)
	if err != nil {
		return err
	}
	if err := emit(t); err != nil {
		return err
	}
	inner := t.last
	t.last = SchemaDraft{Kind: DraftNewtype, Name: &tn, Inner: &inner}
	return nil
}

func (t *Tracer) NewtypeVariant(name, variant string, emit func(*Tracer) error) error {
	t.rb.tape.WriteKind(TraceNewtypeVariant)
	tn, err := t.rb.pushVariantName(name, variant)
	if err != nil {
		return err
	}
	if err := emit(t); err != nil {
		return err
	}
	inner := t.last
	t.last = SchemaDraft{Kind: DraftNewtype, Name: &tn, Inner: &inner}
	return nil
}

// SeqTracer accumulates a Sequence's element schema union and count.
type SeqTracer struct {
	t        *Tracer
	reserved int
	schema   SchemaDraft
	length   uint32
}

func (t *Tracer) Seq() (*SeqTracer, error) {
	t.rb.tape.WriteKind(TraceSequence)
	return &SeqTracer{t: t, reserved: t.rb.tape.Reserve()}, nil
}

func (s *SeqTracer) Element(emit func(*Tracer) error) error {
	if err := emit(s.t); err != nil {
		return err
	}
	s.length++
	s.schema.union(s.t.last)
	return nil
}

func (s *SeqTracer) End() error {
	s.t.rb.tape.Patch(s.reserved, s.length)
	s.t.last = SchemaDraft{Kind: DraftSequence, Inner: clonePtr(s.schema)}
	return nil
}

// MapTracer accumulates a Map's key and value schema unions and pair count.
// Key and Value must alternate strictly, mirroring the original's
// ValueSerializeMap::serialize_key/serialize_value pairing check
// (_examples/original_source/src/lib.rs): two Keys in a row, or a Value
// with no preceding Key, is a caller error rather than silently miscounted.
type MapTracer struct {
	t             *Tracer
	reserved      int
	key           SchemaDraft
	value         SchemaDraft
	length        uint32
	awaitingValue bool
}

func (t *Tracer) Map() (*MapTracer, error) {
	t.rb.tape.WriteKind(TraceMap)
	return &MapTracer{t: t, reserved: t.rb.tape.Reserve()}, nil
}

func (m *MapTracer) Key(emit func(*Tracer) error) error {
	if m.awaitingValue {
		return newError(ErrUnpairedMapKey)
	}
	if err := emit(m.t); err != nil {
		return err
	}
	m.length++
	m.key.union(m.t.last)
	m.awaitingValue = true
	return nil
}

func (m *MapTracer) Value(emit func(*Tracer) error) error {
	if !m.awaitingValue {
		return newError(ErrUnpairedMapValue)
	}
	if err := emit(m.t); err != nil {
		return err
	}
	m.value.union(m.t.last)
	m.awaitingValue = false
	return nil
}

func (m *MapTracer) End() error {
	m.t.rb.tape.Patch(m.reserved, m.length)
	m.t.last = SchemaDraft{Kind: DraftMap, Key: clonePtr(m.key), Value: clonePtr(m.value)}
	return nil
}

// TupleTracer handles Tuple, TupleStruct and TupleVariant: their arity is
// known up front, unlike Sequence.
type TupleTracer struct {
	t       *Tracer
	name    *TypeName
	schemas []SchemaDraft
	length  uint32
}

func (t *Tracer) Tuple(length int) (*TupleTracer, error) {
	t.rb.tape.WriteKind(TraceTuple)
	if !fitsU32(length) {
		return nil, newError(ErrTooManyValues)
	}
	t.rb.tape.WriteU32(uint32(length))
	return &TupleTracer{t: t, length: uint32(length), schemas: make([]SchemaDraft, 0, length)}, nil
}

func (t *Tracer) TupleStruct(name string, length int) (*TupleTracer, error) {
	t.rb.tape.WriteKind(TraceTupleStruct)
	if !fitsU32(length) {
		return nil, newError(ErrTooManyValues)
	}
	t.rb.tape.WriteU32(uint32(length))
	tn, err := t.rb.pushStructName(name)
	if err != nil {
		return nil, err
	}
	return &TupleTracer{t: t, name: &tn, length: uint32(length), schemas: make([]SchemaDraft, 0, length)}, nil
}

func (t *Tracer) TupleVariant(name, variant string, length int) (*TupleTracer, error) {
	t.rb.tape.WriteKind(TraceTupleVariant)
	if !fitsU32(length) {
		return nil, newError(ErrTooManyValues)
	}
	t.rb.tape.WriteU32(uint32(length))
	tn, err := t.rb.pushVariantName(name, variant)
	if err != nil {
		return nil, err
	}
	return &TupleTracer{t: t, name: &tn, length: uint32(length), schemas: make([]SchemaDraft, 0, length)}, nil
}

func (tt *TupleTracer) Element(emit func(*Tracer) error) error {
	if err := emit(tt.t); err != nil {
		return err
	}
	tt.schemas = append(tt.schemas, tt.t.last)
	return nil
}

func (tt *TupleTracer) End() error {
	tt.t.last = SchemaDraft{Kind: DraftRecord, RecordName: tt.name, FieldTypes: tt.schemas, Length: tt.length}
	return nil
}

// StructTracer handles Struct and StructVariant. length, as passed to
// Tracer.Struct/Tracer.StructVariant, is the number of fields that will
// actually be reported present this occurrence via Field — it sizes the
// field-presence region reserved on the tape, not the type's full declared
// field count (which the caller may call SkipField for on top of that).
type StructTracer struct {
	t                     *Tracer
	name                  TypeName
	reservedFieldNameList int
	reservedPresence      int
	presenceWritten       int
	fieldNames            []NameIndex
	fieldTypes            []SchemaDraft
	skipped               []FieldIndex
}

func (t *Tracer) Struct(name string, length int) (*StructTracer, error) {
	t.rb.tape.WriteKind(TraceStruct)
	tn, err := t.rb.pushStructName(name)
	if err != nil {
		return nil, err
	}
	return t.rb.newStructTracer(t, tn, length)
}

func (t *Tracer) StructVariant(name, variant string, length int) (*StructTracer, error) {
	t.rb.tape.WriteKind(TraceStructVariant)
	tn, err := t.rb.pushVariantName(name, variant)
	if err != nil {
		return nil, err
	}
	return t.rb.newStructTracer(t, tn, length)
}

func (rb *rootBuilder) newStructTracer(t *Tracer, name TypeName, length int) (*StructTracer, error) {
	if !fitsU32(length) {
		return nil, newError(ErrTooManyValues)
	}
	reservedFieldNameList := rb.tape.Reserve()
	rb.tape.WriteU32(uint32(length))
	reservedPresence := rb.tape.ReserveN(length)
	return &StructTracer{
		t:                     t,
		name:                  name,
		reservedFieldNameList: reservedFieldNameList,
		reservedPresence:      reservedPresence,
		fieldNames:            make([]NameIndex, 0, length),
		fieldTypes:            make([]SchemaDraft, 0, length),
	}, nil
}

func (st *StructTracer) Field(key string, emit func(*Tracer) error) error {
	fieldPos := uint32(len(st.fieldNames))
	slot := st.reservedPresence + st.presenceWritten*4
	st.t.rb.tape.Patch(slot, fieldPos)
	st.presenceWritten++

	nameIdx, err := InternString(st.t.rb.names, stringBytes(key))
	if err != nil {
		return err
	}
	st.fieldNames = append(st.fieldNames, NameIndex(nameIdx))
	if err := emit(st.t); err != nil {
		return err
	}
	st.fieldTypes = append(st.fieldTypes, st.t.last)
	return nil
}

func (st *StructTracer) SkipField(key string) error {
	nameIdx, err := InternString(st.t.rb.names, stringBytes(key))
	if err != nil {
		return err
	}
	st.skipped = append(st.skipped, FieldIndex(len(st.fieldNames)))
	st.fieldNames = append(st.fieldNames, NameIndex(nameIdx))
	st.fieldTypes = append(st.fieldTypes, SchemaDraft{})
	return nil
}

func (st *StructTracer) End() error {
	length := uint32(len(st.fieldNames))
	fieldNamesIdx, err := st.t.rb.nameLists.Intern(st.fieldNames)
	if err != nil {
		return err
	}
	st.t.rb.tape.Patch(st.reservedFieldNameList, uint32(fieldNamesIdx))
	fnl := NameListIndex(fieldNamesIdx)
	st.t.last = SchemaDraft{
		Kind:       DraftRecord,
		RecordName: &st.name,
		FieldNames: &fnl,
		FieldTypes: st.fieldTypes,
		Skippable:  st.skipped,
		Length:     length,
	}
	return nil
}

// Trace drives v (or its reflective walk, if v does not implement
// Marshaler) onto a fresh Tracer and finalizes the resulting draft into a
// Schema, returning both as a Value.
func Trace(v any) (*Value, error) {
	rb := newRootBuilder()
	t := &Tracer{rb: rb}
	if err := marshalAny(t, v); err != nil {
		return nil, err
	}
	root := t.last
	trace := rb.tape.Finish()
	schema, err := rb.build(root)
	if err != nil {
		return nil, err
	}
	return &Value{schema: schema, root: schema.root, trace: trace}, nil
}

func marshalAny(t *Tracer, v any) error {
	if m, ok := v.(Marshaler); ok {
		return m.MarshalSchema(t)
	}
	return reflectMarshal(t, v)
}
