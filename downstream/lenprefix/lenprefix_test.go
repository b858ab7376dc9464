package lenprefix_test

import (
	"reflect"
	"testing"

	describe "github.com/kungfusheep/describe"
	"github.com/kungfusheep/describe/downstream/lenprefix"
)

// capture is a Visitor that rebuilds a decoded value as plain Go data, so
// a round-trip test can compare against the original input. See
// downstream/text's identical helper for the reasoning behind collapsing
// Option/Newtype and reconstructing aggregates via a setter stack.
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
	return readInner()
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
	return c.VisitStructStart(name, fields, readField)
}

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	val, err := describe.Trace(v)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	enc := lenprefix.NewEncoder()
	if err := val.Emit(enc); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	wire := enc.Bytes()

	dec := lenprefix.NewDecoder(wire)
	capt := newCapture()
	if err := describe.Read(val.Schema(), val.Schema().Root(), dec, capt); err != nil {
		t.Fatalf("Read (% x): %v", wire, err)
	}
	return capt.root
}

type Address struct {
	City string `describe:"city"`
	Zip  string `describe:"zip"`
}

type Person struct {
	Name      string  `describe:"name"`
	Age       int32   `describe:"age"`
	Nickname  *string `describe:"nickname,skipempty"`
	Addresses []Address
	Scores    map[string]int64
}

func TestRoundTripPrimitives(t *testing.T) {
	cases := []any{
		true,
		int8(-5),
		int16(-300),
		int32(-70000),
		int64(-5000000000),
		uint8(200),
		uint16(60000),
		uint32(4000000000),
		uint64(18000000000000000000),
		float32(1.5),
		float64(2.25),
		"hello",
		[]byte{0xca, 0xfe},
		'λ',
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !reflect.DeepEqual(got, c) {
			t.Errorf("roundTrip(%#v) = %#v", c, got)
		}
	}
}

func TestRoundTripStruct(t *testing.T) {
	nick := "sam"
	p := Person{
		Name: "Sam",
		Age:  41,
		Addresses: []Address{
			{City: "Leeds", Zip: "LS1"},
		},
		Scores:   map[string]int64{"chess": 1800},
		Nickname: &nick,
	}
	result := roundTrip(t, p)
	got, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("root is %T, want map[string]any", result)
	}
	if got["name"] != "Sam" || got["age"] != int32(41) || got["nickname"] != "sam" {
		t.Errorf("got = %#v", got)
	}
}

// TestRoundTripSkippableField exercises the presence-bitmask path with a
// sequence whose elements disagree on a skipempty field's presence, so one
// occurrence sets the field's bit and the other leaves it clear.
func TestRoundTripSkippableField(t *testing.T) {
	nick := "ada"
	people := []Person{
		{Name: "Ada", Age: 30, Nickname: &nick},
		{Name: "Bo", Age: 22},
	}

	result := roundTrip(t, people)
	got, ok := result.([]any)
	if !ok || len(got) != 2 {
		t.Fatalf("got %#v", result)
	}

	first, ok := got[0].(map[string]any)
	if !ok || first["nickname"] != "ada" {
		t.Errorf("people[0] = %#v", got[0])
	}
	second, ok := got[1].(map[string]any)
	if !ok {
		t.Fatalf("people[1] = %#v", got[1])
	}
	if _, present := second["nickname"]; present {
		t.Errorf("people[1].nickname present: %#v", second)
	}
}
