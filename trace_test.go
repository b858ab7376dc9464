package describe_test

import (
	"testing"

	describe "github.com/kungfusheep/describe"
)

type point struct {
	X int32 `describe:"x"`
	Y int32 `describe:"y"`
}

type shape struct {
	Circle *circleVariant
	Square *squareVariant
}

type circleVariant struct {
	Radius float64 `describe:"radius"`
}

func (circleVariant) DescribeVariant() (string, string) { return "Shape", "Circle" }

type squareVariant struct{}

func (squareVariant) DescribeVariant() (string, string) { return "Shape", "Square" }

func TestTracePrimitiveKinds(t *testing.T) {
	cases := []struct {
		name string
		v    any
		kind describe.SchemaKind
	}{
		{"bool", true, describe.KindBool},
		{"int32", int32(1), describe.KindI32},
		{"uint64", uint64(1), describe.KindU64},
		{"float64", 1.5, describe.KindF64},
		{"string", "hi", describe.KindString},
		{"bytes", []byte{1, 2}, describe.KindBytes},
	}
	for _, c := range cases {
		val, err := describe.Trace(c.v)
		if err != nil {
			t.Fatalf("%s: Trace: %v", c.name, err)
		}
		node := val.Schema().Node(val.Root())
		if node.Kind != c.kind {
			t.Errorf("%s: Kind = %v, want %v", c.name, node.Kind, c.kind)
		}
	}
}

func TestTraceStructFields(t *testing.T) {
	val, err := describe.Trace(point{X: 1, Y: 2})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	s := val.Schema()
	node := s.Node(val.Root())
	if node.Kind != describe.KindStruct {
		t.Fatalf("Kind = %v, want Struct", node.Kind)
	}
	if s.Name(node.Name) != "point" {
		t.Errorf("Name = %q, want point", s.Name(node.Name))
	}
	names := s.NameList(node.Fields)
	if len(names) != 2 || s.Name(names[0]) != "x" || s.Name(names[1]) != "y" {
		t.Errorf("field names = %v", names)
	}
}

func TestTraceOptionPointer(t *testing.T) {
	var p *int32
	val, err := describe.Trace(p)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	if val.Schema().Node(val.Root()).Kind != describe.KindOptionNone {
		t.Errorf("nil pointer should trace to OptionNone")
	}

	n := int32(7)
	val, err = describe.Trace(&n)
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	node := val.Schema().Node(val.Root())
	if node.Kind != describe.KindOptionSome {
		t.Fatalf("Kind = %v, want OptionSome", node.Kind)
	}
	if val.Schema().Node(node.Inner).Kind != describe.KindI32 {
		t.Errorf("inner Kind = %v, want I32", val.Schema().Node(node.Inner).Kind)
	}
}

func TestTraceSequence(t *testing.T) {
	val, err := describe.Trace([]int32{1, 2, 3})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	node := val.Schema().Node(val.Root())
	if node.Kind != describe.KindSequence {
		t.Fatalf("Kind = %v, want Sequence", node.Kind)
	}
	if val.Schema().Node(node.Inner).Kind != describe.KindI32 {
		t.Errorf("element Kind = %v, want I32", val.Schema().Node(node.Inner).Kind)
	}
}

func TestTraceMap(t *testing.T) {
	val, err := describe.Trace(map[string]int64{"a": 1})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	node := val.Schema().Node(val.Root())
	if node.Kind != describe.KindMap {
		t.Fatalf("Kind = %v, want Map", node.Kind)
	}
	if val.Schema().Node(node.Key).Kind != describe.KindString {
		t.Errorf("key Kind = %v, want String", val.Schema().Node(node.Key).Kind)
	}
	if val.Schema().Node(node.Inner).Kind != describe.KindI64 {
		t.Errorf("value Kind = %v, want I64", val.Schema().Node(node.Inner).Kind)
	}
}

// TestTraceEnumVariants exercises two of the Enum interface's variant shapes:
// a struct with fields traces as a StructVariant, an empty struct as a
// UnitVariant.
func TestTraceEnumVariants(t *testing.T) {
	val, err := describe.Trace(circleVariant{Radius: 2})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	node := val.Schema().Node(val.Root())
	if node.Kind != describe.KindStructVariant {
		t.Fatalf("Kind = %v, want StructVariant", node.Kind)
	}
	if val.Schema().Name(node.Name) != "Shape" || val.Schema().Name(node.Variant) != "Circle" {
		t.Errorf("name/variant = %s/%s", val.Schema().Name(node.Name), val.Schema().Name(node.Variant))
	}

	val, err = describe.Trace(squareVariant{})
	if err != nil {
		t.Fatalf("Trace: %v", err)
	}
	node = val.Schema().Node(val.Root())
	if node.Kind != describe.KindUnitVariant {
		t.Fatalf("Kind = %v, want UnitVariant", node.Kind)
	}
}
