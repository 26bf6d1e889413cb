package model

import "math/big"

// CellValue is one decoded value. Kind selects which field carries the payload:
//
//	KindInteger   Int, or Uint when Unsigned is set
//	KindFloat     Float
//	KindBoolean   Bool
//	KindUtf8      Str
//	KindBinary    Bytes
//	KindTimestamp Int, count of the column's unit since the Unix epoch
//	KindDate      Int, days since the Unix epoch
//	KindTime      Int, count of the column's unit since midnight
//	KindDecimal   Unscaled
//	KindUUID      Bytes, 16 bytes
//	KindList      Elems
//	KindStruct    Elems, aligned with the struct's fields
//
// The zero CellValue is Null.
type CellValue struct {
	Kind     Kind
	Int      int64
	Uint     uint64
	Unsigned bool
	Float    float64
	Bool     bool
	Str      string
	Bytes    []byte
	Unscaled *big.Int
	Elems    []CellValue
}

// Row is one record, aligned with the schema's column order
type Row []CellValue

// RowWindow is the bounded, ordered set of sampled rows
type RowWindow []Row

// NullValue is the Null cell
var NullValue = CellValue{}

func (v CellValue) IsNull() bool { return v.Kind == KindNull }

func IntValue(v int64) CellValue { return CellValue{Kind: KindInteger, Int: v} }

func UintValue(v uint64) CellValue { return CellValue{Kind: KindInteger, Uint: v, Unsigned: true} }

func FloatValue(v float64) CellValue { return CellValue{Kind: KindFloat, Float: v} }

func BoolValue(v bool) CellValue { return CellValue{Kind: KindBoolean, Bool: v} }

func StringValue(v string) CellValue { return CellValue{Kind: KindUtf8, Str: v} }

func BytesValue(v []byte) CellValue { return CellValue{Kind: KindBinary, Bytes: v} }

func TimestampValue(v int64) CellValue { return CellValue{Kind: KindTimestamp, Int: v} }

func DateValue(days int64) CellValue { return CellValue{Kind: KindDate, Int: days} }

func TimeValue(v int64) CellValue { return CellValue{Kind: KindTime, Int: v} }

func DecimalValue(unscaled *big.Int) CellValue {
	return CellValue{Kind: KindDecimal, Unscaled: unscaled}
}

func UUIDValue(v []byte) CellValue { return CellValue{Kind: KindUUID, Bytes: v} }

func ListValue(elems ...CellValue) CellValue {
	if elems == nil {
		elems = []CellValue{}
	}
	return CellValue{Kind: KindList, Elems: elems}
}

func StructValue(fields ...CellValue) CellValue {
	return CellValue{Kind: KindStruct, Elems: fields}
}
