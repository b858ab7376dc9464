package describe

// Read is the inverse of Emit: it pulls a schema-guided value back out of a
// downstream Deserializer and pushes the decoded shape to visitor, one
// callback per node. Unlike Emit, Read never sees a Trace tape — every
// length, discriminant and field name it needs either comes from the
// Schema itself (arities, declared field counts, type/field names) or from
// the wire via source (map/seq lengths, union discriminants), so there is
// no trace/schema "check" step; Read always trusts the schema it is given.
//
// There is no surviving ser.rs counterpart for this direction in the
// original crate (it only ever serializes out of its own in-memory Value);
// this file mirrors emit.go's structure node for node instead.
func Read(schema *Schema, root SchemaNodeIndex, source Deserializer, visitor Visitor) error {
	return readNode(schema, root, source, visitor)
}

func readNode(schema *Schema, nodeIdx SchemaNodeIndex, source Deserializer, visitor Visitor) error {
	node := schema.Node(nodeIdx)
	if node.Kind == KindUnion {
		alts := schema.NodeList(node.Elems)
		ord, err := source.DeserializeVariantIdentifier(len(alts))
		if err != nil {
			return err
		}
		if int(ord) >= len(alts) {
			return Custom("describe: union discriminant %d out of range (%d alternatives)", ord, len(alts))
		}
		return readNode(schema, alts[ord], source, visitor)
	}
	return readSimple(schema, node, source, visitor)
}

func readSimple(schema *Schema, node SchemaNode, source Deserializer, visitor Visitor) error {
	switch node.Kind {
	case KindBool:
		v, err := source.DeserializeBool()
		if err != nil {
			return err
		}
		return visitor.VisitBool(v)
	case KindI8:
		v, err := source.DeserializeI8()
		if err != nil {
			return err
		}
		return visitor.VisitI8(v)
	case KindI16:
		v, err := source.DeserializeI16()
		if err != nil {
			return err
		}
		return visitor.VisitI16(v)
	case KindI32:
		v, err := source.DeserializeI32()
		if err != nil {
			return err
		}
		return visitor.VisitI32(v)
	case KindI64:
		v, err := source.DeserializeI64()
		if err != nil {
			return err
		}
		return visitor.VisitI64(v)
	case KindI128:
		v, err := source.DeserializeI128()
		if err != nil {
			return err
		}
		return visitor.VisitI128(v)
	case KindU8:
		v, err := source.DeserializeU8()
		if err != nil {
			return err
		}
		return visitor.VisitU8(v)
	case KindU16:
		v, err := source.DeserializeU16()
		if err != nil {
			return err
		}
		return visitor.VisitU16(v)
	case KindU32:
		v, err := source.DeserializeU32()
		if err != nil {
			return err
		}
		return visitor.VisitU32(v)
	case KindU64:
		v, err := source.DeserializeU64()
		if err != nil {
			return err
		}
		return visitor.VisitU64(v)
	case KindU128:
		v, err := source.DeserializeU128()
		if err != nil {
			return err
		}
		return visitor.VisitU128(v)
	case KindF32:
		v, err := source.DeserializeF32()
		if err != nil {
			return err
		}
		return visitor.VisitF32(v)
	case KindF64:
		v, err := source.DeserializeF64()
		if err != nil {
			return err
		}
		return visitor.VisitF64(v)
	case KindChar:
		v, err := source.DeserializeChar()
		if err != nil {
			return err
		}
		return visitor.VisitChar(v)
	case KindString:
		v, err := source.DeserializeString()
		if err != nil {
			return err
		}
		return visitor.VisitString(v)
	case KindBytes:
		v, err := source.DeserializeBytes()
		if err != nil {
			return err
		}
		return visitor.VisitBytes(v)
	case KindOptionNone:
		if err := source.DeserializeNone(); err != nil {
			return err
		}
		return visitor.VisitNone()
	case KindOptionSome:
		return source.DeserializeSome(func() error {
			return visitor.VisitSome(func() error {
				return readNode(schema, node.Inner, source, visitor)
			})
		})
	case KindUnit:
		if err := source.DeserializeUnit(); err != nil {
			return err
		}
		return visitor.VisitUnit()
	case KindUnitStruct:
		name := schema.Name(node.Name)
		if err := source.DeserializeUnitStruct(name); err != nil {
			return err
		}
		return visitor.VisitUnitStruct(name)
	case KindUnitVariant:
		name := schema.Name(node.Name)
		variant := schema.Name(node.Variant)
		if err := source.DeserializeUnitVariant(name, variant); err != nil {
			return err
		}
		return visitor.VisitUnitVariant(name, variant)
	case KindNewtypeStruct:
		name := schema.Name(node.Name)
		return source.DeserializeNewtypeStruct(name, func() error {
			return visitor.VisitNewtypeStruct(name, func() error {
				return readNode(schema, node.Inner, source, visitor)
			})
		})
	case KindNewtypeVariant:
		name := schema.Name(node.Name)
		variant := schema.Name(node.Variant)
		return source.DeserializeNewtypeVariant(name, variant, func() error {
			return visitor.VisitNewtypeVariant(name, variant, func() error {
				return readNode(schema, node.Inner, source, visitor)
			})
		})
	case KindMap:
		length, dec, err := source.DeserializeMap()
		if err != nil {
			return err
		}
		return visitor.VisitMapStart(length, func(i int) error {
			return dec.NextEntry(
				func() error { return readNode(schema, node.Key, source, visitor) },
				func() error { return readNode(schema, node.Inner, source, visitor) },
			)
		})
	case KindSequence:
		length, dec, err := source.DeserializeSeq()
		if err != nil {
			return err
		}
		return visitor.VisitSeqStart(length, func(i int) error {
			return dec.Next(func() error { return readNode(schema, node.Inner, source, visitor) })
		})
	case KindTuple, KindTupleStruct, KindTupleVariant:
		return readTuple(schema, node, source, visitor)
	case KindStruct, KindStructVariant:
		return readStruct(schema, node, source, visitor)
	default:
		return Custom("describe: readSimple: unexpected schema kind %s", node.Kind)
	}
}

func readTuple(schema *Schema, node SchemaNode, source Deserializer, visitor Visitor) error {
	elems := schema.NodeList(node.Elems)
	var dec TupleDecoder
	var err error
	switch node.Kind {
	case KindTuple:
		dec, err = source.DeserializeTuple(len(elems))
	case KindTupleStruct:
		dec, err = source.DeserializeTupleStruct(schema.Name(node.Name), len(elems))
	default:
		dec, err = source.DeserializeTupleVariant(schema.Name(node.Name), schema.Name(node.Variant), len(elems))
	}
	if err != nil {
		return err
	}
	readElement := func(i int) error {
		elem := elems[i]
		return dec.Next(func() error { return readNode(schema, elem, source, visitor) })
	}
	switch node.Kind {
	case KindTuple:
		return visitor.VisitTupleStart("", len(elems), readElement)
	case KindTupleStruct:
		return visitor.VisitTupleStart(schema.Name(node.Name), len(elems), readElement)
	default:
		return visitor.VisitTupleVariantStart(schema.Name(node.Name), schema.Name(node.Variant), len(elems), readElement)
	}
}

// readStruct dispatches to the named (every field always present) or
// bitmask (some fields sometimes absent) reading path, mirroring
// emitStruct/emitSkippableStruct's own split.
func readStruct(schema *Schema, node SchemaNode, source Deserializer, visitor Visitor) error {
	elems := schema.NodeList(node.Elems)
	skipList := schema.FieldList(node.Skip)
	names := schema.NameList(node.Fields)
	fieldNames := make([]string, len(names))
	for i, n := range names {
		fieldNames[i] = schema.Name(n)
	}

	if len(skipList) == 0 {
		return readFullStruct(schema, node, elems, fieldNames, source, visitor)
	}
	return readSkippableStruct(schema, node, skipList, elems, fieldNames, source, visitor)
}

func readFullStruct(schema *Schema, node SchemaNode, elems []SchemaNodeIndex, fieldNames []string, source Deserializer, visitor Visitor) error {
	name := schema.Name(node.Name)
	var dec StructDecoder
	var err error
	if node.Kind == KindStruct {
		dec, err = source.DeserializeStruct(name, len(elems))
	} else {
		dec, err = source.DeserializeStructVariant(name, schema.Name(node.Variant), len(elems))
	}
	if err != nil {
		return err
	}
	readField := func(i int) error {
		elem := elems[i]
		return dec.NextField(fieldNames[i], func() error { return readNode(schema, elem, source, visitor) })
	}
	if node.Kind == KindStruct {
		return visitor.VisitStructStart(name, fieldNames, readField)
	}
	return visitor.VisitStructVariantStart(name, schema.Name(node.Variant), fieldNames, readField)
}

// readSkippableStruct recovers the per-occurrence presence bitmask by
// reading one synthetic variant identifier per 8 bits of skipList (mirroring
// emitSkippableStruct's chunking), then reads the resulting subset of
// present fields as a plain tuple and hands their real schema names to the
// visitor. The wire never carries real field names for this path — only
// the Schema does — so a struct with any sometimes-absent field is
// necessarily read back by position, then relabeled from the schema.
func readSkippableStruct(schema *Schema, node SchemaNode, skipList []FieldIndex, elems []SchemaNodeIndex, fieldNames []string, source Deserializer, visitor Visitor) error {
	var variant uint64
	shift := uint(0)
	remaining := len(skipList)
	for remaining > 8 {
		ord, err := source.DeserializeVariantIdentifier(AnonymousVariantCount)
		if err != nil {
			return err
		}
		variant |= uint64(ord) << shift
		shift += 8
		remaining -= 8
	}
	ord, err := source.DeserializeVariantIdentifier(1 << uint(remaining))
	if err != nil {
		return err
	}
	variant |= uint64(ord) << shift

	positions := presentPositions(len(elems), skipList, variant)
	presentNames := make([]string, len(positions))
	for i, p := range positions {
		presentNames[i] = fieldNames[p]
	}

	dec, err := source.DeserializeTuple(len(positions))
	if err != nil {
		return err
	}
	readField := func(i int) error {
		elem := elems[positions[i]]
		return dec.Next(func() error { return readNode(schema, elem, source, visitor) })
	}

	name := schema.Name(node.Name)
	if node.Kind == KindStruct {
		return visitor.VisitStructStart(name, presentNames, readField)
	}
	variantName := schema.Name(node.Variant)
	return visitor.VisitStructVariantStart(name, variantName, presentNames, readField)
}

// presentPositions expands a skip-list bitmask back into the ascending list
// of declared field positions present this occurrence: every position not
// in skipList is always present, and a position in skipList is present iff
// its bit (indexed by its place in skipList, matching variantFromPresence's
// encoding) is set.
func presentPositions(total int, skipList []FieldIndex, variant uint64) []int {
	bitOf := make(map[FieldIndex]int, len(skipList))
	for j, s := range skipList {
		bitOf[s] = j
	}
	out := make([]int, 0, total)
	for p := 0; p < total; p++ {
		if j, skippable := bitOf[FieldIndex(p)]; skippable {
			if variant&(1<<uint(j)) != 0 {
				out = append(out, p)
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
