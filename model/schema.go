package model

import (
	"fmt"
	"strings"

	"github.com/hangxie/parquet-go/v2/parquet"
)

// Schema is the column layout of a file: the top-level columns shown to the
// user, and the leaf columns the decoder produces values for.
type Schema struct {
	Columns []ColumnDescriptor
	Leaves  []LeafColumn

	fields []*fieldShape
}

// LeafColumn is one physical column chunk stream
type LeafColumn struct {
	Path       []string
	Physical   parquet.Type
	TypeLength int
	Type       LogicalType
	MaxDef     int
	MaxRep     int
}

// PathString joins the leaf path the way column chunks name it
func (c LeafColumn) PathString() string {
	return formatColumnName(c.Path)
}

// Len returns the number of top-level columns
func (s *Schema) Len() int {
	return len(s.Columns)
}

// Names returns the top-level column names in file order
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// fieldShape is the assembly plan for one value position. Levels follow the
// Dremel encoding: def is the definition level at which the value is present,
// repDef/repLevel describe the repeated node of a list.
type fieldShape struct {
	kind      Kind
	optional  bool
	def       int32
	repDef    int32
	repLevel  int32
	element   *fieldShape
	fields    []*fieldShape
	leaf      int
	firstLeaf int
	lastLeaf  int
}

type schemaNode struct {
	elem     *parquet.SchemaElement
	children []*schemaNode
}

// ExtractSchema builds the schema from the footer's flat, depth-first element list.
// It only reads metadata.
func ExtractSchema(footer *parquet.FileMetaData) (*Schema, error) {
	if footer == nil {
		return nil, &SchemaError{Reason: "file metadata is missing"}
	}
	if len(footer.Schema) == 0 {
		return nil, &SchemaError{Reason: "schema has no elements"}
	}

	root, err := buildSchemaTree(footer.Schema)
	if err != nil {
		return nil, err
	}
	if len(root.children) == 0 {
		return nil, &SchemaError{Reason: "schema declares zero columns"}
	}

	b := &schemaBuilder{}
	schema := &Schema{
		Columns: make([]ColumnDescriptor, 0, len(root.children)),
		fields:  make([]*fieldShape, 0, len(root.children)),
	}
	for i, child := range root.children {
		t, shape, err := b.field(child, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		schema.Columns = append(schema.Columns, ColumnDescriptor{
			Name:     child.elem.Name,
			Type:     t,
			Nullable: repetitionOf(child.elem) == parquet.FieldRepetitionType_OPTIONAL,
			Ordinal:  i,
		})
		schema.fields = append(schema.fields, shape)
	}
	schema.Leaves = b.leaves

	return schema, nil
}

// buildSchemaTree rebuilds the tree from the pre-order element list using NumChildren
func buildSchemaTree(elems []*parquet.SchemaElement) (*schemaNode, error) {
	pos := 0
	var build func(depth int) (*schemaNode, error)
	build = func(depth int) (*schemaNode, error) {
		if pos >= len(elems) {
			return nil, &SchemaError{Reason: fmt.Sprintf("schema ends inside a group after %d elements", len(elems))}
		}
		elem := elems[pos]
		if elem == nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("schema element %d is empty", pos)}
		}
		pos++

		node := &schemaNode{elem: elem}
		numChildren := 0
		if elem.NumChildren != nil {
			numChildren = int(*elem.NumChildren)
		}
		if numChildren < 0 {
			return nil, &SchemaError{Reason: fmt.Sprintf("element %q declares %d children", elem.Name, numChildren)}
		}
		if depth > 0 && numChildren == 0 && !elem.IsSetType() {
			return nil, &SchemaError{Reason: fmt.Sprintf("group %q has no fields", elem.Name)}
		}
		for i := 0; i < numChildren; i++ {
			child, err := build(depth + 1)
			if err != nil {
				return nil, err
			}
			node.children = append(node.children, child)
		}
		return node, nil
	}

	root, err := build(0)
	if err != nil {
		return nil, err
	}
	if pos != len(elems) {
		return nil, &SchemaError{Reason: fmt.Sprintf("%d trailing schema elements after root", len(elems)-pos)}
	}
	return root, nil
}

type schemaBuilder struct {
	leaves []LeafColumn
}

// field maps a node, including its own repetition, onto a logical type.
// def and rep are the levels of the node's parent.
func (b *schemaBuilder) field(n *schemaNode, path []string, def, rep int32) (LogicalType, *fieldShape, error) {
	path = appendPath(path, n.elem.Name)

	switch repetitionOf(n.elem) {
	case parquet.FieldRepetitionType_REPEATED:
		t, elem, err := b.content(n, path, def+1, rep+1)
		if err != nil {
			return LogicalType{}, nil, err
		}
		shape := &fieldShape{
			kind:      KindList,
			def:       def,
			repDef:    def + 1,
			repLevel:  rep + 1,
			element:   elem,
			firstLeaf: elem.firstLeaf,
			lastLeaf:  elem.lastLeaf,
		}
		return ListType(t), shape, nil
	case parquet.FieldRepetitionType_OPTIONAL:
		t, shape, err := b.content(n, path, def+1, rep)
		if err != nil {
			return LogicalType{}, nil, err
		}
		shape.optional = true
		return t, shape, nil
	default:
		return b.content(n, path, def, rep)
	}
}

// content maps a node's value ignoring its own repetition; def and rep already
// include the node.
func (b *schemaBuilder) content(n *schemaNode, path []string, def, rep int32) (LogicalType, *fieldShape, error) {
	if n.elem.IsSetType() {
		return b.leaf(n, path, def, rep)
	}

	if isListGroup(n.elem) && len(n.children) == 1 && repetitionOf(n.children[0].elem) == parquet.FieldRepetitionType_REPEATED {
		repeated := n.children[0]
		var (
			t    LogicalType
			elem *fieldShape
			err  error
		)
		if isThreeLevelList(n, repeated) {
			t, elem, err = b.field(repeated.children[0], appendPath(path, repeated.elem.Name), def+1, rep+1)
		} else {
			t, elem, err = b.content(repeated, appendPath(path, repeated.elem.Name), def+1, rep+1)
		}
		if err != nil {
			return LogicalType{}, nil, err
		}
		return ListType(t), b.list(elem, def, rep), nil
	}

	if isMapGroup(n.elem) && len(n.children) == 1 && !n.children[0].elem.IsSetType() &&
		repetitionOf(n.children[0].elem) == parquet.FieldRepetitionType_REPEATED {
		keyValue := n.children[0]
		t, elem, err := b.content(keyValue, appendPath(path, keyValue.elem.Name), def+1, rep+1)
		if err != nil {
			return LogicalType{}, nil, err
		}
		return ListType(t), b.list(elem, def, rep), nil
	}

	fields := make([]ColumnDescriptor, 0, len(n.children))
	shape := &fieldShape{kind: KindStruct, def: def, firstLeaf: -1}
	for i, child := range n.children {
		t, childShape, err := b.field(child, path, def, rep)
		if err != nil {
			return LogicalType{}, nil, err
		}
		fields = append(fields, ColumnDescriptor{
			Name:     child.elem.Name,
			Type:     t,
			Nullable: repetitionOf(child.elem) == parquet.FieldRepetitionType_OPTIONAL,
			Ordinal:  i,
		})
		shape.fields = append(shape.fields, childShape)
		if shape.firstLeaf < 0 {
			shape.firstLeaf = childShape.firstLeaf
		}
		shape.lastLeaf = childShape.lastLeaf
	}
	return StructType(fields...), shape, nil
}

func (b *schemaBuilder) list(elem *fieldShape, def, rep int32) *fieldShape {
	return &fieldShape{
		kind:      KindList,
		def:       def,
		repDef:    def + 1,
		repLevel:  rep + 1,
		element:   elem,
		firstLeaf: elem.firstLeaf,
		lastLeaf:  elem.lastLeaf,
	}
}

func (b *schemaBuilder) leaf(n *schemaNode, path []string, def, rep int32) (LogicalType, *fieldShape, error) {
	t := leafLogicalType(n.elem)
	idx := len(b.leaves)
	typeLength := 0
	if n.elem.TypeLength != nil {
		typeLength = int(*n.elem.TypeLength)
	}
	b.leaves = append(b.leaves, LeafColumn{
		Path:       path,
		Physical:   *n.elem.Type,
		TypeLength: typeLength,
		Type:       t,
		MaxDef:     int(def),
		MaxRep:     int(rep),
	})
	return t, &fieldShape{kind: t.Kind, def: def, leaf: idx, firstLeaf: idx, lastLeaf: idx}, nil
}

// leafLogicalType resolves a primitive element: LogicalType annotation first,
// then the legacy ConvertedType, then the physical type.
//
//nolint:gocognit // one branch per Parquet annotation
func leafLogicalType(elem *parquet.SchemaElement) LogicalType {
	if lt := elem.LogicalType; lt != nil {
		switch {
		case lt.IsSetSTRING(), lt.IsSetENUM(), lt.IsSetJSON():
			return Utf8Type()
		case lt.IsSetINTEGER():
			return IntegerType(int(lt.INTEGER.BitWidth), lt.INTEGER.IsSigned)
		case lt.IsSetDECIMAL():
			return DecimalType(int(lt.DECIMAL.Precision), int(lt.DECIMAL.Scale))
		case lt.IsSetDATE():
			return DateType()
		case lt.IsSetTIME():
			return TimeType(timeUnitOf(lt.TIME.Unit), lt.TIME.IsAdjustedToUTC)
		case lt.IsSetTIMESTAMP():
			timezone := ""
			if lt.TIMESTAMP.IsAdjustedToUTC {
				timezone = "UTC"
			}
			return TimestampType(timeUnitOf(lt.TIMESTAMP.Unit), timezone)
		case lt.IsSetUUID():
			return UUIDType()
		case lt.IsSetFLOAT16():
			return FloatType(16)
		case lt.IsSetBSON():
			return BinaryType()
		}
	}

	if elem.ConvertedType != nil {
		switch *elem.ConvertedType {
		case parquet.ConvertedType_UTF8, parquet.ConvertedType_ENUM, parquet.ConvertedType_JSON:
			return Utf8Type()
		case parquet.ConvertedType_INT_8:
			return IntegerType(8, true)
		case parquet.ConvertedType_INT_16:
			return IntegerType(16, true)
		case parquet.ConvertedType_INT_32:
			return IntegerType(32, true)
		case parquet.ConvertedType_INT_64:
			return IntegerType(64, true)
		case parquet.ConvertedType_UINT_8:
			return IntegerType(8, false)
		case parquet.ConvertedType_UINT_16:
			return IntegerType(16, false)
		case parquet.ConvertedType_UINT_32:
			return IntegerType(32, false)
		case parquet.ConvertedType_UINT_64:
			return IntegerType(64, false)
		case parquet.ConvertedType_DECIMAL:
			precision, scale := 10, 0
			if elem.Precision != nil {
				precision = int(*elem.Precision)
			}
			if elem.Scale != nil {
				scale = int(*elem.Scale)
			}
			return DecimalType(precision, scale)
		case parquet.ConvertedType_DATE:
			return DateType()
		case parquet.ConvertedType_TIME_MILLIS:
			return TimeType(Millis, true)
		case parquet.ConvertedType_TIME_MICROS:
			return TimeType(Micros, true)
		case parquet.ConvertedType_TIMESTAMP_MILLIS:
			return TimestampType(Millis, "UTC")
		case parquet.ConvertedType_TIMESTAMP_MICROS:
			return TimestampType(Micros, "UTC")
		case parquet.ConvertedType_BSON, parquet.ConvertedType_INTERVAL:
			return BinaryType()
		}
	}

	switch *elem.Type {
	case parquet.Type_BOOLEAN:
		return BooleanType()
	case parquet.Type_INT32:
		return IntegerType(32, true)
	case parquet.Type_INT64:
		return IntegerType(64, true)
	case parquet.Type_INT96:
		return TimestampType(Nanos, "")
	case parquet.Type_FLOAT:
		return FloatType(32)
	case parquet.Type_DOUBLE:
		return FloatType(64)
	}
	return BinaryType()
}

func timeUnitOf(unit *parquet.TimeUnit) TimeUnit {
	switch {
	case unit == nil:
		return Millis
	case unit.IsSetMICROS():
		return Micros
	case unit.IsSetNANOS():
		return Nanos
	}
	return Millis
}

func repetitionOf(elem *parquet.SchemaElement) parquet.FieldRepetitionType {
	if elem.RepetitionType == nil {
		return parquet.FieldRepetitionType_REQUIRED
	}
	return *elem.RepetitionType
}

func isListGroup(elem *parquet.SchemaElement) bool {
	if elem.LogicalType != nil && elem.LogicalType.IsSetLIST() {
		return true
	}
	return elem.ConvertedType != nil && *elem.ConvertedType == parquet.ConvertedType_LIST
}

func isMapGroup(elem *parquet.SchemaElement) bool {
	if elem.LogicalType != nil && elem.LogicalType.IsSetMAP() {
		return true
	}
	return elem.ConvertedType != nil &&
		(*elem.ConvertedType == parquet.ConvertedType_MAP || *elem.ConvertedType == parquet.ConvertedType_MAP_KEY_VALUE)
}

// isThreeLevelList applies the Parquet backward-compatibility rules for LIST:
// the repeated node is a synthetic wrapper only when it is a group with a
// single field and is not named "array" or "<list>_tuple".
func isThreeLevelList(list, repeated *schemaNode) bool {
	if repeated.elem.IsSetType() || len(repeated.children) != 1 {
		return false
	}
	name := repeated.elem.Name
	if name == "array" || strings.EqualFold(name, list.elem.Name+"_tuple") {
		return false
	}
	return true
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
