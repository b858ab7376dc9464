package text_test

import (
	"reflect"
	"testing"

	describe "github.com/kungfusheep/describe"
	"github.com/kungfusheep/describe/downstream/text"
)

// capture is a Visitor that rebuilds a decoded value as plain Go data
// (bool/int/string/[]any/map[string]any), so a round-trip test can
// compare against the original input with reflect.DeepEqual. Structs
// decode to map[string]any keyed by field name; Option and Newtype
// collapse to their inner value, since nothing here needs to tell a
// present Some apart from a bare value once it's back in Go.
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

func (c *capture) VisitBool(v bool) error     { c.set(v); return nil }
func (c *capture) VisitI8(v int8) error       { c.set(v); return nil }
func (c *capture) VisitI16(v int16) error     { c.set(v); return nil }
func (c *capture) VisitI32(v int32) error     { c.set(v); return nil }
func (c *capture) VisitI64(v int64) error     { c.set(v); return nil }
func (c *capture) VisitI128(v describe.Int128) error { c.set(v); return nil }
func (c *capture) VisitU8(v uint8) error      { c.set(v); return nil }
func (c *capture) VisitU16(v uint16) error    { c.set(v); return nil }
func (c *capture) VisitU32(v uint32) error    { c.set(v); return nil }
func (c *capture) VisitU64(v uint64) error    { c.set(v); return nil }
func (c *capture) VisitU128(v describe.Uint128) error { c.set(v); return nil }
func (c *capture) VisitF32(v float32) error   { c.set(v); return nil }
func (c *capture) VisitF64(v float64) error   { c.set(v); return nil }
func (c *capture) VisitChar(v rune) error     { c.set(v); return nil }
func (c *capture) VisitString(v string) error { c.set(v); return nil }
func (c *capture) VisitBytes(v []byte) error  { c.set(v); return nil }

func (c *capture) VisitNone() error { c.set(nil); return nil }
func (c *capture) VisitSome(readInner func() error) error { return readInner() }

func (c *capture) VisitUnit() error                  { c.set(struct{}{}); return nil }
func (c *capture) VisitUnitStruct(name string) error { c.set(name); return nil }
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
	enc := text.NewEncoder()
	if err := val.Emit(enc); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	wire := enc.String()

	dec := text.NewDecoder(wire)
	capt := newCapture()
	if err := describe.Read(val.Schema(), val.Schema().Root(), dec, capt); err != nil {
		t.Fatalf("Read (wire %q): %v", wire, err)
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

func TestRoundTripStruct(t *testing.T) {
	nick := "sam"
	p := Person{
		Name: "Sam",
		Age:  41,
		Addresses: []Address{
			{City: "Leeds", Zip: "LS1"},
			{City: "York", Zip: "YO1"},
		},
		Scores:   map[string]int64{"chess": 1800},
		Nickname: &nick,
	}

	result := roundTrip(t, p)
	got, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("root is %T, want map[string]any", result)
	}

	if got["name"] != "Sam" {
		t.Errorf("name = %v, want Sam", got["name"])
	}
	if got["age"] != int32(41) {
		t.Errorf("age = %v, want 41", got["age"])
	}
	if got["nickname"] != "sam" {
		t.Errorf("nickname = %v, want sam", got["nickname"])
	}

	addrs, ok := got["Addresses"].([]any)
	if !ok || len(addrs) != 2 {
		t.Fatalf("Addresses = %#v", got["Addresses"])
	}
	first, ok := addrs[0].(map[string]any)
	if !ok || first["city"] != "Leeds" || first["zip"] != "LS1" {
		t.Errorf("Addresses[0] = %#v", addrs[0])
	}

	scores, ok := got["Scores"].(map[any]any)
	if !ok || scores["chess"] != int64(1800) {
		t.Errorf("Scores = %#v", got["Scores"])
	}
}

func TestRoundTripSkippedOption(t *testing.T) {
	p := Person{
		Name:      "Ada",
		Age:       30,
		Addresses: nil,
		Scores:    nil,
		Nickname:  nil,
	}
	result := roundTrip(t, p)
	got, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("root is %T", result)
	}
	if _, present := got["nickname"]; present {
		t.Errorf("nickname field present after skipempty with zero value: %#v", got)
	}
}

func TestRoundTripPrimitives(t *testing.T) {
	cases := []any{
		true,
		int32(-7),
		uint64(9001),
		"hello \"world\"",
		3.5,
		[]byte{0xde, 0xad, 0xbe, 0xef},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !reflect.DeepEqual(got, c) {
			t.Errorf("roundTrip(%#v) = %#v", c, got)
		}
	}
}

func TestRoundTripSlice(t *testing.T) {
	in := []int32{1, 2, 3}
	result := roundTrip(t, in)
	got, ok := result.([]any)
	if !ok || len(got) != 3 {
		t.Fatalf("got %#v", result)
	}
	for i, v := range got {
		if v != int32(i+1) {
			t.Errorf("got[%d] = %v", i, v)
		}
	}
}

// TestRoundTripSkippableField traces a slice whose elements disagree on
// whether Nickname is present, so the presence bitmask carries the field's
// bit set for one element and clear for the other. A lone struct whose
// skipempty field is empty also puts that field in the skip list;
// TestRoundTripSkippedOption covers that case.
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
	if second["name"] != "Bo" {
		t.Errorf("people[1].name = %v", second["name"])
	}
}
