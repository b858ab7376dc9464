package describe

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Enum is implemented by a concrete Go type used to represent one variant
// of a serde-style tagged union, since Go itself has no such construct.
// Any value satisfying Enum is traced as one of the *Variant schema forms
// instead of its own plain shape: an empty struct or nil pointer becomes a
// UnitVariant, a struct with fields becomes a StructVariant, a fixed-size
// array becomes a TupleVariant, and anything else (a primitive, slice, map,
// or further pointer) becomes a NewtypeVariant wrapping that one value.
type Enum interface {
	DescribeVariant() (typeName, variantName string)
}

var (
	int128Type  = reflect.TypeOf(Int128{})
	uint128Type = reflect.TypeOf(Uint128{})
)

// reflectMarshal drives t over v using reflection, for any v that does not
// implement Marshaler itself. Grounded on kungfusheep-glint/glint.go's
// reflectKindToAssigner/ReflectKindToWireType family and
// encoder.go/decoder.go's struct-tag field walking, generalized from
// glint's fixed WireType set to the full schema node set this package
// supports.
func reflectMarshal(t *Tracer, v any) error {
	if v == nil {
		return t.None()
	}
	return reflectMarshalValue(t, reflect.ValueOf(v))
}

func reflectMarshalValue(t *Tracer, rv reflect.Value) error {
	if !rv.IsValid() {
		return t.None()
	}
	if rv.CanInterface() {
		if m, ok := rv.Interface().(Marshaler); ok {
			return m.MarshalSchema(t)
		}
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return t.None()
		}
		return reflectMarshalValue(t, rv.Elem())
	}
	if rv.CanInterface() {
		if e, ok := rv.Interface().(Enum); ok {
			return reflectMarshalEnum(t, e, rv)
		}
	}

	switch rv.Type() {
	case int128Type:
		return t.I128(rv.Interface().(Int128))
	case uint128Type:
		return t.U128(rv.Interface().(Uint128))
	}

	switch rv.Kind() {
	case reflect.Bool:
		return t.Bool(rv.Bool())
	case reflect.Int8:
		return t.I8(int8(rv.Int()))
	case reflect.Int16:
		return t.I16(int16(rv.Int()))
	case reflect.Int32:
		return t.I32(int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return t.I64(rv.Int())
	case reflect.Uint8:
		return t.U8(uint8(rv.Uint()))
	case reflect.Uint16:
		return t.U16(uint16(rv.Uint()))
	case reflect.Uint32:
		return t.U32(uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return t.U64(rv.Uint())
	case reflect.Float32:
		return t.F32(float32(rv.Float()))
	case reflect.Float64:
		return t.F64(rv.Float())
	case reflect.String:
		return t.String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return t.None()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return t.Bytes(rv.Bytes())
		}
		return reflectMarshalSeq(t, rv)
	case reflect.Array:
		return reflectMarshalArray(t, rv)
	case reflect.Map:
		if rv.IsNil() {
			return t.None()
		}
		return reflectMarshalMap(t, rv)
	case reflect.Ptr:
		if rv.IsNil() {
			return t.None()
		}
		return t.Some(func(t *Tracer) error { return reflectMarshalValue(t, rv.Elem()) })
	case reflect.Struct:
		return reflectMarshalStruct(t, rv)
	default:
		return Custom("describe: cannot trace reflect kind %s", rv.Kind())
	}
}

func reflectMarshalSeq(t *Tracer, rv reflect.Value) error {
	seq, err := t.Seq()
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if err := seq.Element(func(t *Tracer) error { return reflectMarshalValue(t, elem) }); err != nil {
			return err
		}
	}
	return seq.End()
}

func reflectMarshalArray(t *Tracer, rv reflect.Value) error {
	tt, err := t.Tuple(rv.Len())
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if err := tt.Element(func(t *Tracer) error { return reflectMarshalValue(t, elem) }); err != nil {
			return err
		}
	}
	return tt.End()
}

func reflectMarshalMap(t *Tracer, rv reflect.Value) error {
	m, err := t.Map()
	if err != nil {
		return err
	}
	// Trace order affects only tape determinism in tests, never the
	// finished Schema (spec open question (b): source order is preserved,
	// not canonicalized). Sorting by formatted key just makes fixtures
	// reproducible.
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	for _, k := range keys {
		v := rv.MapIndex(k)
		if err := m.Key(func(t *Tracer) error { return reflectMarshalValue(t, k) }); err != nil {
			return err
		}
		if err := m.Value(func(t *Tracer) error { return reflectMarshalValue(t, v) }); err != nil {
			return err
		}
	}
	return m.End()
}

type fieldPlan struct {
	name  string
	index int
	skip  bool
}

// planFields resolves the describe struct tag for each exported field of
// typ against its live value in rv, deciding which fields this specific
// occurrence will report present vs. skipped. A field tagged
// `describe:"-"` is never traced at all, present or skipped.
func planFields(typ reflect.Type, rv reflect.Value) []fieldPlan {
	var plans []fieldPlan
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue
		}
		name, skipEmpty, omit := parseDescribeTag(sf)
		if omit {
			continue
		}
		plans = append(plans, fieldPlan{
			name:  name,
			index: i,
			skip:  skipEmpty && rv.Field(i).IsZero(),
		})
	}
	return plans
}

// parseDescribeTag reads a field's `describe:"name,skipempty"` tag. An
// empty name component keeps the Go field name; "skipempty" marks the
// field skippable the way serde's skip_serializing_if does, with
// reflect.Value.IsZero standing in for the zero-value check.
func parseDescribeTag(sf reflect.StructField) (name string, skipEmpty bool, omit bool) {
	tag := sf.Tag.Get("describe")
	name = sf.Name
	if tag == "" {
		return name, false, false
	}
	if tag == "-" {
		return name, false, true
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "skipempty" {
			skipEmpty = true
		}
	}
	return name, skipEmpty, false
}

func reflectMarshalStruct(t *Tracer, rv reflect.Value) error {
	typ := rv.Type()
	plans := planFields(typ, rv)
	present := 0
	for _, p := range plans {
		if !p.skip {
			present++
		}
	}
	st, err := t.Struct(typ.Name(), present)
	if err != nil {
		return err
	}
	if err := driveStructFields(t, st, plans, rv); err != nil {
		return err
	}
	return st.End()
}

// structFieldTracer is the common surface StructTracer and the variant-form
// struct tracer share, letting driveStructFields serve both
// reflectMarshalStruct and reflectMarshalEnum's struct-variant case.
type structFieldTracer interface {
	Field(key string, emit func(*Tracer) error) error
	SkipField(key string) error
}

func driveStructFields(t *Tracer, st structFieldTracer, plans []fieldPlan, rv reflect.Value) error {
	for _, p := range plans {
		if p.skip {
			if err := st.SkipField(p.name); err != nil {
				return err
			}
			continue
		}
		fv := rv.Field(p.index)
		if err := st.Field(p.name, func(t *Tracer) error { return reflectMarshalValue(t, fv) }); err != nil {
			return err
		}
	}
	return nil
}

func reflectMarshalEnum(t *Tracer, e Enum, rv reflect.Value) error {
	typeName, variantName := e.DescribeVariant()
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return t.UnitVariant(typeName, variantName)
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		if rv.NumField() == 0 {
			return t.UnitVariant(typeName, variantName)
		}
		return reflectMarshalStructVariant(t, typeName, variantName, rv)
	case reflect.Array:
		return reflectMarshalTupleVariant(t, typeName, variantName, rv)
	default:
		return t.NewtypeVariant(typeName, variantName, func(t *Tracer) error {
			return reflectMarshalValue(t, rv)
		})
	}
}

func reflectMarshalStructVariant(t *Tracer, typeName, variantName string, rv reflect.Value) error {
	typ := rv.Type()
	plans := planFields(typ, rv)
	present := 0
	for _, p := range plans {
		if !p.skip {
			present++
		}
	}
	st, err := t.StructVariant(typeName, variantName, present)
	if err != nil {
		return err
	}
	if err := driveStructFields(t, st, plans, rv); err != nil {
		return err
	}
	return st.End()
}

func reflectMarshalTupleVariant(t *Tracer, typeName, variantName string, rv reflect.Value) error {
	tt, err := t.TupleVariant(typeName, variantName, rv.Len())
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if err := tt.Element(func(t *Tracer) error { return reflectMarshalValue(t, elem) }); err != nil {
			return err
		}
	}
	return tt.End()
}
