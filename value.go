package describe

// Value is a traced value together with the Trace tape produced for it. It
// is only meaningful alongside the Schema built by the same Trace call;
// Emit and Read both take schema and value/trace separately so a
// single Schema can replay many values traced against it.
//
// Mirrors original_source/src/value.rs's Value.
type Value struct {
	schema *Schema
	root   SchemaNodeIndex
	trace  *Trace
}

// Schema returns the schema this value was traced against.
func (v *Value) Schema() *Schema { return v.schema }

// Trace returns the underlying trace tape, for callers that want to Emit it
// against a schema obtained independently (e.g. DescribedElsewhere).
func (v *Value) Trace() *Trace { return v.trace }

// Root returns the schema node index this value's top level traces to.
func (v *Value) Root() SchemaNodeIndex { return v.root }

// Emit replays v onto sink, guided by v's own Schema.
func (v *Value) Emit(sink Serializer) error {
	return Emit(v.schema, v.root, v.trace, sink)
}

// Described wraps a Go value so that Emit traces it and emits the result in
// one step, without the caller separately tracking a Schema.
// Mirrors original_source/src/described.rs's Described<T>.
type Described[T any] struct {
	Value T
}

// NewDescribed wraps v for emission; tracing happens when Emit is called.
func NewDescribed[T any](v T) Described[T] { return Described[T]{Value: v} }

// Emit traces d.Value and immediately emits it to sink. The Schema produced
// during tracing is discarded once Emit returns; callers who need the
// Schema for a later Read should trace and build it explicitly instead of
// going through Described.
func (d Described[T]) Emit(sink Serializer) error {
	value, err := Trace(d.Value)
	if err != nil {
		return err
	}
	return value.Emit(sink)
}

// DescribedElsewhere pairs a Value with a Schema obtained independently
// (e.g. shared out of band, or produced by a prior Trace call over a
// representative sample), letting a caller Emit a value against a Schema
// that did not necessarily derive from that exact value. The caller is
// responsible for ensuring the two are shape-compatible; Emit returns an
// error rather than panicking if they are not.
// Mirrors original_source/src/described.rs's DescribedElsewhere.
type DescribedElsewhere struct {
	Schema *Schema
	Root   SchemaNodeIndex
	Trace  *Trace
}

func (d DescribedElsewhere) Emit(sink Serializer) error {
	return Emit(d.Schema, d.Root, d.Trace, sink)
}
