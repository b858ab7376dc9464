package describe

// Emit replays a traced value onto sink, walking trace alongside the schema
// tree rooted at root. It is the schema-guided counterpart of Read: where
// tracing recorded a self-delimiting tape with no schema awareness, Emit
// resolves each tape event against the (possibly much richer, union-bearing)
// schema that was unified across every traced occurrence, and pushes the
// result to a downstream Serializer.
//
// Mirrors original_source/src/ser.rs's ValueCursor::serialize, with check()
// and finish_serialize() folded into emitChecked/finishEmit below.
func Emit(schema *Schema, root SchemaNodeIndex, trace *Trace, sink Serializer) error {
	cur := newTapeCursor(trace)
	return emitNode(schema, cur, root, sink)
}

// emitNode reads the next event off the tape and resolves it against nodeIdx.
func emitNode(schema *Schema, cur *tapeCursor, nodeIdx SchemaNodeIndex, sink Serializer) error {
	tn := cur.PopTraceNode()
	return emitChecked(schema, cur, tn, nodeIdx, sink)
}

// emitChecked resolves an already-popped trace event against nodeIdx. If
// nodeIdx is a Union, it finds the first alternative tn is shape-compatible
// with and wraps the result in a synthetic newtype-variant call carrying
// that alternative's position as its discriminant, recursing in case the
// chosen alternative is itself a Union (each nesting level contributes its
// own wrapper, mirroring the original's recursive CheckResult::Discriminated
// chain).
func emitChecked(schema *Schema, cur *tapeCursor, tn traceNode, nodeIdx SchemaNodeIndex, sink Serializer) error {
	node := schema.Node(nodeIdx)
	if node.Kind == KindUnion {
		alts := schema.NodeList(node.Elems)
		for i, altIdx := range alts {
			if !matchesNode(schema, tn, altIdx) {
				continue
			}
			discriminant := uint32(i)
			variantName := anonymousVariantName(i)
			chosen := altIdx
			return sink.SerializeNewtypeVariant(anonymousUnionTypeName, discriminant, variantName, func(inner Serializer) error {
				return emitChecked(schema, cur, tn, chosen, inner)
			})
		}
		return Custom("describe: traced %s matches no alternative of union %v", tn.Kind, nodeIdx)
	}
	if !simpleMatch(tn, node) {
		return Custom("describe: traced %s does not match schema node kind %s", tn.Kind, node.Kind)
	}
	return finishEmit(schema, cur, node, sink)
}

// matchesNode is the read-only compatibility test behind union resolution:
// true if an event shaped like tn could have produced nodeIdx, recursing
// through nested unions without consuming any more of the tape.
func matchesNode(schema *Schema, tn traceNode, nodeIdx SchemaNodeIndex) bool {
	node := schema.Node(nodeIdx)
	if node.Kind == KindUnion {
		for _, alt := range schema.NodeList(node.Elems) {
			if matchesNode(schema, tn, alt) {
				return true
			}
		}
		return false
	}
	return simpleMatch(tn, node)
}

// simpleMatch compares a traced event against one non-Union schema node,
// mirroring the match arms of ValueCursor::check for every kind pair other
// than Union itself.
func simpleMatch(tn traceNode, node SchemaNode) bool {
	switch tn.Kind {
	case TraceBool:
		return node.Kind == KindBool
	case TraceI8:
		return node.Kind == KindI8
	case TraceI16:
		return node.Kind == KindI16
	case TraceI32:
		return node.Kind == KindI32
	case TraceI64:
		return node.Kind == KindI64
	case TraceI128:
		return node.Kind == KindI128
	case TraceU8:
		return node.Kind == KindU8
	case TraceU16:
		return node.Kind == KindU16
	case TraceU32:
		return node.Kind == KindU32
	case TraceU64:
		return node.Kind == KindU64
	case TraceU128:
		return node.Kind == KindU128
	case TraceF32:
		return node.Kind == KindF32
	case TraceF64:
		return node.Kind == KindF64
	case TraceChar:
		return node.Kind == KindChar
	case TraceString:
		return node.Kind == KindString
	case TraceBytes:
		return node.Kind == KindBytes
	case TraceOptionNone:
		return node.Kind == KindOptionNone
	case TraceOptionSome:
		return node.Kind == KindOptionSome
	case TraceUnit:
		return node.Kind == KindUnit
	case TraceUnitStruct:
		return node.Kind == KindUnitStruct && tn.Name == node.Name
	case TraceUnitVariant:
		return node.Kind == KindUnitVariant && tn.Name == node.Name && tn.Variant == node.Variant
	case TraceNewtypeStruct:
		return node.Kind == KindNewtypeStruct && tn.Name == node.Name
	case TraceNewtypeVariant:
		return node.Kind == KindNewtypeVariant && tn.Name == node.Name && tn.Variant == node.Variant
	case TraceMap:
		return node.Kind == KindMap
	case TraceSequence:
		return node.Kind == KindSequence
	case TraceTuple:
		return node.Kind == KindTuple && tn.Arity == node.Arity
	case TraceTupleStruct:
		return node.Kind == KindTupleStruct && tn.Arity == node.Arity && tn.Name == node.Name
	case TraceTupleVariant:
		return node.Kind == KindTupleVariant && tn.Arity == node.Arity && tn.Name == node.Name && tn.Variant == node.Variant
	case TraceStruct:
		return node.Kind == KindStruct && tn.Name == node.Name && tn.NameList == node.Fields
	case TraceStructVariant:
		return node.Kind == KindStructVariant && tn.Name == node.Name && tn.Variant == node.Variant && tn.NameList == node.Fields
	default:
		return false
	}
}

// finishEmit reads whatever payload node's kind still owes on the tape (a
// primitive value, an aggregate's elements, a struct's presence array) and
// pushes it to sink. node is never KindUnion here; emitChecked resolves that
// before calling in.
func finishEmit(schema *Schema, cur *tapeCursor, node SchemaNode, sink Serializer) error {
	switch node.Kind {
	case KindBool:
		return sink.SerializeBool(cur.PopBool())
	case KindI8:
		return sink.SerializeI8(cur.PopI8())
	case KindI16:
		return sink.SerializeI16(cur.PopI16())
	case KindI32:
		return sink.SerializeI32(cur.PopI32())
	case KindI64:
		return sink.SerializeI64(cur.PopI64())
	case KindI128:
		return sink.SerializeI128(cur.PopI128())
	case KindU8:
		return sink.SerializeU8(cur.PopU8())
	case KindU16:
		return sink.SerializeU16(cur.PopU16())
	case KindU32:
		return sink.SerializeU32(cur.PopU32())
	case KindU64:
		return sink.SerializeU64(cur.PopU64())
	case KindU128:
		return sink.SerializeU128(cur.PopU128())
	case KindF32:
		return sink.SerializeF32(cur.PopF32())
	case KindF64:
		return sink.SerializeF64(cur.PopF64())
	case KindChar:
		return sink.SerializeChar(cur.PopChar())
	case KindString:
		return sink.SerializeString(cur.PopLenString())
	case KindBytes:
		return sink.SerializeBytes(cur.PopLenBytes())
	case KindOptionNone:
		return sink.SerializeNone()
	case KindOptionSome:
		return sink.SerializeSome(func(inner Serializer) error {
			return emitNode(schema, cur, node.Inner, inner)
		})
	case KindUnit:
		return sink.SerializeUnit()
	case KindUnitStruct:
		return sink.SerializeUnitStruct(schema.Name(node.Name))
	case KindUnitVariant:
		return sink.SerializeUnitVariant(schema.Name(node.Name), 0, schema.Name(node.Variant))
	case KindNewtypeStruct:
		name := schema.Name(node.Name)
		return sink.SerializeNewtypeStruct(name, func(inner Serializer) error {
			return emitNode(schema, cur, node.Inner, inner)
		})
	case KindNewtypeVariant:
		name := schema.Name(node.Name)
		variant := schema.Name(node.Variant)
		return sink.SerializeNewtypeVariant(name, 0, variant, func(inner Serializer) error {
			return emitNode(schema, cur, node.Inner, inner)
		})
	case KindMap:
		length := cur.PopU32()
		enc, err := sink.SerializeMap(int(length))
		if err != nil {
			return err
		}
		for i := uint32(0); i < length; i++ {
			if err := enc.SerializeKey(func(inner Serializer) error {
				return emitNode(schema, cur, node.Key, inner)
			}); err != nil {
				return err
			}
			if err := enc.SerializeValue(func(inner Serializer) error {
				return emitNode(schema, cur, node.Inner, inner)
			}); err != nil {
				return err
			}
		}
		return enc.End()
	case KindSequence:
		length := cur.PopU32()
		enc, err := sink.SerializeSeq(int(length))
		if err != nil {
			return err
		}
		for i := uint32(0); i < length; i++ {
			if err := enc.SerializeElement(func(inner Serializer) error {
				return emitNode(schema, cur, node.Inner, inner)
			}); err != nil {
				return err
			}
		}
		return enc.End()
	case KindTuple, KindTupleStruct, KindTupleVariant:
		return emitTuple(schema, cur, node, sink)
	case KindStruct, KindStructVariant:
		return emitStruct(schema, cur, node, sink)
	default:
		return Custom("describe: finishEmit: unexpected schema kind %s", node.Kind)
	}
}

func emitTuple(schema *Schema, cur *tapeCursor, node SchemaNode, sink Serializer) error {
	elems := schema.NodeList(node.Elems)
	var enc TupleEncoder
	var err error
	switch node.Kind {
	case KindTuple:
		enc, err = sink.SerializeTuple(len(elems))
	case KindTupleStruct:
		enc, err = sink.SerializeTupleStruct(schema.Name(node.Name), len(elems))
	case KindTupleVariant:
		enc, err = sink.SerializeTupleVariant(schema.Name(node.Name), 0, schema.Name(node.Variant), len(elems))
	}
	if err != nil {
		return err
	}
	for _, elem := range elems {
		child := elem
		if err := enc.SerializeElement(func(inner Serializer) error {
			return emitNode(schema, cur, child, inner)
		}); err != nil {
			return err
		}
	}
	return enc.End()
}

// emitStruct reads a Struct/StructVariant occurrence's dynamic field count
// and presence array, then either emits all declared fields by name (when
// the schema's skip list is empty, meaning every traced occurrence had every
// field present) or drives the chunked synthetic-variant bitmask encoding
// that lets a non-self-describing sink recover which subset is present.
// Mirrors ser.rs's serialize_struct.
func emitStruct(schema *Schema, cur *tapeCursor, node SchemaNode, sink Serializer) error {
	length := cur.PopU32()
	presence := make([]uint32, length)
	for i := range presence {
		presence[i] = cur.PopU32()
	}

	elems := schema.NodeList(node.Elems)
	skipList := schema.FieldList(node.Skip)

	if len(skipList) == 0 {
		names := schema.NameList(node.Fields)
		var enc StructEncoder
		var err error
		switch node.Kind {
		case KindStruct:
			enc, err = sink.SerializeStruct(schema.Name(node.Name), len(elems))
		default:
			enc, err = sink.SerializeStructVariant(schema.Name(node.Name), 0, schema.Name(node.Variant), len(elems))
		}
		if err != nil {
			return err
		}
		for i, elem := range elems {
			child := elem
			fieldName := schema.Name(names[i])
			if err := enc.SerializeField(fieldName, func(inner Serializer) error {
				return emitNode(schema, cur, child, inner)
			}); err != nil {
				return err
			}
		}
		return enc.End()
	}

	variant := variantFromPresence(skipList, presence)
	return emitSkippableStruct(schema, cur, sink, skipList, elems, presence, variant)
}

// variantFromPresence folds a struct occurrence's presence array down to a
// bitmask over the schema's skip list only (fields that are present in
// every occurrence never need a bit, since the reader can assume them).
// Mirrors ser.rs's variant_from_presence.
func variantFromPresence(skipList []FieldIndex, presence []uint32) uint64 {
	var variant uint64
	i := len(presence) - 1
	for j := len(skipList) - 1; j >= 0; j-- {
		skip := skipList[j]
		variant <<= 1
		for i >= 0 {
			present := FieldIndex(presence[i])
			if present > skip {
				i--
				continue
			}
			if present == skip {
				variant |= 1
				i--
			}
			break
		}
	}
	return variant
}

// emitSkippableStruct walks skipList 8 bits at a time, wrapping the result
// in nested synthetic newtype-variant calls until at most 8 skippable bits
// remain, then emits the occurrence's actually-present fields (in tape
// order) as a final synthetic tuple-variant call. Mirrors ser.rs's
// SkippableStructSerializer::serialize.
func emitSkippableStruct(schema *Schema, cur *tapeCursor, sink Serializer, skipList []FieldIndex, elems []SchemaNodeIndex, presence []uint32, variant uint64) error {
	discriminant := uint32(uint8(variant))
	variantName := anonymousVariantName(int(discriminant))

	if len(skipList) <= 8 {
		enc, err := sink.SerializeTupleVariant(anonymousUnionTypeName, discriminant, variantName, len(presence))
		if err != nil {
			return err
		}
		for _, p := range presence {
			elem := elems[p]
			if err := enc.SerializeElement(func(inner Serializer) error {
				return emitNode(schema, cur, elem, inner)
			}); err != nil {
				return err
			}
		}
		return enc.End()
	}

	rest := skipList[8:]
	return sink.SerializeNewtypeVariant(anonymousUnionTypeName, discriminant, variantName, func(inner Serializer) error {
		return emitSkippableStruct(schema, cur, inner, rest, elems, presence, variant>>8)
	})
}
