package main

import (
	"fmt"
	"io"
	"strings"

	describe "github.com/kungfusheep/describe"
)

// printSchemaTree renders a Schema as an indented tree, in the same
// box-drawing style the teacher's debug printer used for glint documents:
// "├─ " for a sibling with more following it, "└─ " for the last one, "│ "
// to carry a still-open parent's vertical line down through the indent.
func printSchemaTree(w io.Writer, s *describe.Schema, root describe.SchemaNodeIndex) {
	printSchemaChild(w, s, schemaChild{index: root}, "", "")
}

func printSchemaChild(w io.Writer, s *describe.Schema, child schemaChild, prefix, connector string) {
	node := s.Node(child.index)
	line := schemaNodeLabel(s, node)
	if child.label != "" {
		line = child.label + ": " + line
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, connector, line)

	childPrefix := prefix
	switch connector {
	case "├─ ":
		childPrefix += "│  "
	case "└─ ":
		childPrefix += "   "
	}

	children := schemaChildren(s, node)
	for i, grandchild := range children {
		c := "├─ "
		if i == len(children)-1 {
			c = "└─ "
		}
		printSchemaChild(w, s, grandchild, childPrefix, c)
	}
}

type schemaChild struct {
	index describe.SchemaNodeIndex
	label string
}

// schemaChildren returns idx's child nodes in the order they should print,
// for every Kind that has any. Kinds with no children (the primitives,
// OptionNone, Unit, UnitStruct, UnitVariant) return nil.
func schemaChildren(s *describe.Schema, node describe.SchemaNode) []schemaChild {
	switch node.Kind {
	case describe.KindOptionSome, describe.KindSequence, describe.KindNewtypeStruct, describe.KindNewtypeVariant:
		return []schemaChild{{index: node.Inner}}
	case describe.KindMap:
		return []schemaChild{{index: node.Key, label: "key"}, {index: node.Inner, label: "value"}}
	case describe.KindTuple, describe.KindTupleStruct, describe.KindTupleVariant:
		return indexChildren(s, node.Elems)
	case describe.KindStruct, describe.KindStructVariant:
		return fieldChildren(s, node)
	case describe.KindUnion:
		return indexChildren(s, node.Elems)
	default:
		return nil
	}
}

func indexChildren(s *describe.Schema, elems describe.SchemaNodeListIndex) []schemaChild {
	list := s.NodeList(elems)
	out := make([]schemaChild, len(list))
	for i, idx := range list {
		out[i] = schemaChild{index: idx}
	}
	return out
}

func fieldChildren(s *describe.Schema, node describe.SchemaNode) []schemaChild {
	names := s.NameList(node.Fields)
	elems := s.NodeList(node.Elems)
	out := make([]schemaChild, len(elems))
	for i, idx := range elems {
		label := s.Name(names[i])
		out[i] = schemaChild{index: idx, label: label}
	}
	return out
}

// schemaNodeLabel is the single-line description printed for one node:
// its Kind, plus whatever identifying name/field label applies.
func schemaNodeLabel(s *describe.Schema, node describe.SchemaNode) string {
	switch node.Kind {
	case describe.KindUnitStruct:
		return fmt.Sprintf("UnitStruct %s", s.Name(node.Name))
	case describe.KindUnitVariant:
		return fmt.Sprintf("UnitVariant %s::%s", s.Name(node.Name), s.Name(node.Variant))
	case describe.KindNewtypeStruct:
		return fmt.Sprintf("NewtypeStruct %s", s.Name(node.Name))
	case describe.KindNewtypeVariant:
		return fmt.Sprintf("NewtypeVariant %s::%s", s.Name(node.Name), s.Name(node.Variant))
	case describe.KindTupleStruct:
		return fmt.Sprintf("TupleStruct %s (%d)", s.Name(node.Name), node.Arity)
	case describe.KindTupleVariant:
		return fmt.Sprintf("TupleVariant %s::%s (%d)", s.Name(node.Name), s.Name(node.Variant), node.Arity)
	case describe.KindTuple:
		return fmt.Sprintf("Tuple (%d)", node.Arity)
	case describe.KindStruct:
		return fmt.Sprintf("Struct %s %s", s.Name(node.Name), fieldLabels(s, node))
	case describe.KindStructVariant:
		return fmt.Sprintf("StructVariant %s::%s %s", s.Name(node.Name), s.Name(node.Variant), fieldLabels(s, node))
	case describe.KindUnion:
		return "Union"
	default:
		return node.Kind.String()
	}
}

// fieldLabels renders a struct's field names inline, annotating any that
// are in the skip list as optional.
func fieldLabels(s *describe.Schema, node describe.SchemaNode) string {
	names := s.NameList(node.Fields)
	skip := s.FieldList(node.Skip)
	skippable := make(map[describe.FieldIndex]bool, len(skip))
	for _, f := range skip {
		skippable[f] = true
	}
	labels := make([]string, len(names))
	for i, n := range names {
		label := s.Name(n)
		if skippable[describe.FieldIndex(i)] {
			label += "?"
		}
		labels[i] = label
	}
	return "{" + strings.Join(labels, ", ") + "}"
}
