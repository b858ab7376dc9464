package describe_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	describe "github.com/kungfusheep/describe"
	"github.com/kungfusheep/describe/downstream/lenprefix"
)

// capture is a Visitor that rebuilds a decoded value as plain Go data. It
// follows downstream/lenprefix's helper and its setter-stack reasoning,
// except that VisitNewtypeVariant and VisitStructVariantStart differ: the
// struct-variant form wraps its fields in a one-entry map keyed by variant.
type capture struct {
	stack []func(any)
	root  any
}

func newCapture() *capture {
	c := &capture{}
	c.stack = append(c.stack, func(v any) { c.root = v })
	return c
}

func (c *capture) push(set func(any)) { c.stack = append(c.stack, set) }
func (c *capture) pop()               { c.stack = c.stack[:len(c.stack)-1] }
func (c *capture) set(v any)          { c.stack[len(c.stack)-1](v) }

func (c *capture) VisitBool(v bool) error            { c.set(v); return nil }
func (c *capture) VisitI8(v int8) error              { c.set(v); return nil }
func (c *capture) VisitI16(v int16) error            { c.set(v); return nil }
func (c *capture) VisitI32(v int32) error            { c.set(v); return nil }
func (c *capture) VisitI64(v int64) error            { c.set(v); return nil }
func (c *capture) VisitI128(v describe.Int128) error { c.set(v); return nil }
func (c *capture) VisitU8(v uint8) error             { c.set(v); return nil }
func (c *capture) VisitU16(v uint16) error           { c.set(v); return nil }
func (c *capture) VisitU32(v uint32) error           { c.set(v); return nil }
func (c *capture) VisitU64(v uint64) error           { c.set(v); return nil }
func (c *capture) VisitU128(v describe.Uint128) error { c.set(v); return nil }
func (c *capture) VisitF32(v float32) error   { c.set(v); return nil }
func (c *capture) VisitF64(v float64) error   { c.set(v); return nil }
func (c *capture) VisitChar(v rune) error     { c.set(v); return nil }
func (c *capture) VisitString(v string) error { c.set(v); return nil }
func (c *capture) VisitBytes(v []byte) error  { c.set(v); return nil }

func (c *capture) VisitNone() error                        { c.set(nil); return nil }
func (c *capture) VisitSome(readInner func() error) error  { return readInner() }
func (c *capture) VisitUnit() error                        { c.set(struct{}{}); return nil }
func (c *capture) VisitUnitStruct(name string) error       { c.set(name); return nil }
func (c *capture) VisitUnitVariant(name, variant string) error {
	c.set(name + "::" + variant)
	return nil
}

func (c *capture) VisitNewtypeStruct(name string, readInner func() error) error { return readInner() }
func (c *capture) VisitNewtypeVariant(name, variant string, readInner func() error) error {
	c.push(func(v any) { c.set(map[string]any{variant: v}) })
	err := readInner()
	c.pop()
	return err
}

func (c *capture) VisitSeqStart(length int, readElement func(i int) error) error {
	out := make([]any, length)
	for i := 0; i < length; i++ {
		idx := i
		c.push(func(v any) { out[idx] = v })
		if err := readElement(i); err != nil {
			return err
		}
		c.pop()
	}
	c.set(out)
	return nil
}

func (c *capture) VisitMapStart(length int, readEntry func(i int) error) error {
	type kv struct{ k, v any }
	entries := make([]kv, length)
	for i := 0; i < length; i++ {
		var entry kv
		gotKey := false
		c.push(func(v any) {
			if !gotKey {
				entry.k = v
				gotKey = true
				return
			}
			entry.v = v
		})
		if err := readEntry(i); err != nil {
			return err
		}
		c.pop()
		entries[i] = entry
	}
	out := make(map[any]any, length)
	for _, e := range entries {
		out[e.k] = e.v
	}
	c.set(out)
	return nil
}

func (c *capture) VisitTupleStart(name string, length int, readElement func(i int) error) error {
	out := make([]any, length)
	for i := 0; i < length; i++ {
		idx := i
		c.push(func(v any) { out[idx] = v })
		if err := readElement(i); err != nil {
			return err
		}
		c.pop()
	}
	c.set(out)
	return nil
}

func (c *capture) VisitTupleVariantStart(name, variant string, length int, readElement func(i int) error) error {
	return c.VisitTupleStart(name, length, readElement)
}

func (c *capture) VisitStructStart(name string, fields []string, readField func(i int) error) error {
	out := make(map[string]any, len(fields))
	for i, f := range fields {
		fname := f
		c.push(func(v any) { out[fname] = v })
		if err := readField(i); err != nil {
			return err
		}
		c.pop()
	}
	c.set(out)
	return nil
}

func (c *capture) VisitStructVariantStart(name, variant string, fields []string, readField func(i int) error) error {
	out := make(map[string]any, len(fields)+1)
	for i, f := range fields {
		fname := f
		c.push(func(v any) { out[fname] = v })
		if err := readField(i); err != nil {
			return err
		}
		c.pop()
	}
	c.set(map[string]any{variant: out})
	return nil
}

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	val, err := describe.Trace(v)
	require.NoError(t, err, "Trace")

	enc := lenprefix.NewEncoder()
	require.NoError(t, val.Emit(enc), "Emit")
	wire := enc.Bytes()

	dec := lenprefix.NewDecoder(wire)
	capt := newCapture()
	err = describe.Read(val.Schema(), val.Schema().Root(), dec, capt)
	require.NoErrorf(t, err, "Read (% x)", wire)
	return capt.root
}

type coordinate struct {
	X int32 `describe:"x"`
	Y int32 `describe:"y"`
}

type document struct {
	Title string            `describe:"title"`
	Tags  []string          `describe:"tags"`
	Geo   *coordinate       `describe:"geo,skipempty"`
	Meta  map[string]string `describe:"meta"`
}

func TestRoundTripNestedDocument(t *testing.T) {
	geo := coordinate{X: 1, Y: 2}
	doc := document{
		Title: "hello",
		Tags:  []string{"a", "b"},
		Geo:   &geo,
		Meta:  map[string]string{"k": "v"},
	}
	result := roundTrip(t, doc)
	got, ok := result.(map[string]any)
	require.Truef(t, ok, "root is %T", result)
	require.Equal(t, "hello", got["title"])

	geoGot, ok := got["geo"].(map[string]any)
	require.Truef(t, ok, "geo = %#v", got["geo"])
	require.Equal(t, int32(1), geoGot["x"])
	require.Equal(t, int32(2), geoGot["y"])
}

// TestSchemaStructuralDiff traces two documents with the same field shapes
// but different data (string contents, slice/map lengths, pointee values)
// and asserts, via a direct cmp.Diff over the two Schemas' root
// SchemaNodes, that the resulting schema shape is identical — runtime data
// never leaks into the traced structure. It then traces a third, genuinely
// differently-shaped value and asserts cmp.Diff reports a real difference.
func TestSchemaStructuralDiff(t *testing.T) {
	a, err := describe.Trace(document{
		Title: "a",
		Tags:  []string{"x"},
		Geo:   &coordinate{X: 1, Y: 2},
		Meta:  map[string]string{"k": "v"},
	})
	require.NoError(t, err, "Trace a")

	b, err := describe.Trace(document{
		Title: "much longer title",
		Tags:  []string{"y", "z", "w"},
		Geo:   &coordinate{X: -9, Y: 100},
		Meta:  map[string]string{"other-key": "other-value"},
	})
	require.NoError(t, err, "Trace b")

	nodeA := a.Schema().Node(a.Schema().Root())
	nodeB := b.Schema().Node(b.Schema().Root())
	require.Empty(t, cmp.Diff(nodeA, nodeB), "schema shape must not depend on field values, only field types")

	c, err := describe.Trace(coordinate{X: 1, Y: 2})
	require.NoError(t, err, "Trace c")
	nodeC := c.Schema().Node(c.Schema().Root())
	require.NotEmpty(t, cmp.Diff(nodeA, nodeC), "document and coordinate are genuinely different shapes")
}

// TestRoundTripUnionOfVariants traces a slice of two distinct Enum-shaped
// occurrences (one a StructVariant, the other a UnitVariant of the same
// type name) that cannot unify into one shape, forcing the shared element
// slot into a Union schema node.
func TestRoundTripUnionOfVariants(t *testing.T) {
	values := []any{circleVariant{Radius: 3}, squareVariant{}}
	enumValues := make([]describe.Enum, len(values))
	for i, v := range values {
		enumValues[i] = v.(describe.Enum)
	}

	result := roundTrip(t, enumValues)
	got, ok := result.([]any)
	require.Truef(t, ok, "got %#v", result)
	require.Len(t, got, 2)

	first, ok := got[0].(map[string]any)
	require.Truef(t, ok, "first element = %#v", got[0])
	circle, ok := first["Circle"].(map[string]any)
	require.Truef(t, ok, "circle = %#v", first)
	require.Equal(t, 3.0, circle["radius"])

	require.Equal(t, "Shape::Square", got[1])
}

func TestRoundTripPrimitivesDeepEqual(t *testing.T) {
	cases := []any{
		true, int32(-1), uint64(9001), "hi", 2.5, []byte{1, 2, 3},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		require.Equal(t, c, got)
	}
}
