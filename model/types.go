package model

import (
	"fmt"
	"strings"
)

// Kind discriminates both LogicalType and CellValue variants.
// KindNull is only meaningful for CellValue.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindUtf8
	KindBinary
	KindTimestamp
	KindDate
	KindTime
	KindDecimal
	KindUUID
	KindList
	KindStruct
)

var kindNames = [...]string{
	KindNull:      "NULL",
	KindInteger:   "INTEGER",
	KindFloat:     "FLOAT",
	KindBoolean:   "BOOLEAN",
	KindUtf8:      "UTF8",
	KindBinary:    "BINARY",
	KindTimestamp: "TIMESTAMP",
	KindDate:      "DATE",
	KindTime:      "TIME",
	KindDecimal:   "DECIMAL",
	KindUUID:      "UUID",
	KindList:      "LIST",
	KindStruct:    "STRUCT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", uint8(k))
}

// MarshalText encodes a kind by name
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name written by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", text)
}

// IsNumeric reports whether values of this kind read best right-aligned
func (k Kind) IsNumeric() bool {
	return k == KindInteger || k == KindFloat || k == KindDecimal
}

// TimeUnit is the resolution of Timestamp and Time values
type TimeUnit uint8

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

func (u TimeUnit) String() string {
	switch u {
	case Millis:
		return "MILLIS"
	case Micros:
		return "MICROS"
	case Nanos:
		return "NANOS"
	}
	return "unknown"
}

func (u TimeUnit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *TimeUnit) UnmarshalText(text []byte) error {
	for _, unit := range []TimeUnit{Millis, Micros, Nanos} {
		if unit.String() == string(text) {
			*u = unit
			return nil
		}
	}
	return fmt.Errorf("unknown time unit %q", text)
}

// fractionDigits is the number of sub-second digits a unit carries
func (u TimeUnit) fractionDigits() int {
	switch u {
	case Micros:
		return 6
	case Nanos:
		return 9
	}
	return 3
}

// LogicalType is the semantic type of a column. Only the fields relevant to
// Kind are meaningful.
type LogicalType struct {
	Kind      Kind               `json:"kind"`
	BitWidth  int                `json:"bitWidth,omitempty"`  // Integer, Float
	Signed    bool               `json:"signed,omitempty"`    // Integer
	Unit      TimeUnit           `json:"unit,omitempty"`      // Timestamp, Time
	Timezone  string             `json:"timezone,omitempty"`  // Timestamp, empty means naive
	UTC       bool               `json:"utc,omitempty"`       // Time
	Precision int                `json:"precision,omitempty"` // Decimal
	Scale     int                `json:"scale,omitempty"`     // Decimal
	Element   *LogicalType       `json:"element,omitempty"`   // List
	Fields    []ColumnDescriptor `json:"fields,omitempty"`    // Struct
}

func IntegerType(bitWidth int, signed bool) LogicalType {
	return LogicalType{Kind: KindInteger, BitWidth: bitWidth, Signed: signed}
}

func FloatType(bitWidth int) LogicalType {
	return LogicalType{Kind: KindFloat, BitWidth: bitWidth}
}

func BooleanType() LogicalType { return LogicalType{Kind: KindBoolean} }

func Utf8Type() LogicalType { return LogicalType{Kind: KindUtf8} }

func BinaryType() LogicalType { return LogicalType{Kind: KindBinary} }

func DateType() LogicalType { return LogicalType{Kind: KindDate} }

func UUIDType() LogicalType { return LogicalType{Kind: KindUUID} }

func TimestampType(unit TimeUnit, timezone string) LogicalType {
	return LogicalType{Kind: KindTimestamp, Unit: unit, Timezone: timezone}
}

func TimeType(unit TimeUnit, utc bool) LogicalType {
	return LogicalType{Kind: KindTime, Unit: unit, UTC: utc}
}

func DecimalType(precision, scale int) LogicalType {
	return LogicalType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

func ListType(element LogicalType) LogicalType {
	return LogicalType{Kind: KindList, Element: &element}
}

func StructType(fields ...ColumnDescriptor) LogicalType {
	return LogicalType{Kind: KindStruct, Fields: fields}
}

// String renders the type the way the schema views display it
func (t LogicalType) String() string {
	switch t.Kind {
	case KindInteger:
		sign := "signed"
		if !t.Signed {
			sign = "unsigned"
		}
		return fmt.Sprintf("INTEGER(%d,%s)", t.BitWidth, sign)
	case KindFloat:
		return fmt.Sprintf("FLOAT(%d)", t.BitWidth)
	case KindTimestamp:
		zone := "local"
		if t.Timezone != "" {
			zone = t.Timezone
		}
		return fmt.Sprintf("TIMESTAMP(%s,%s)", t.Unit, zone)
	case KindTime:
		adjusted := "UTC"
		if !t.UTC {
			adjusted = "local"
		}
		return fmt.Sprintf("TIME(%s,%s)", t.Unit, adjusted)
	case KindDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case KindList:
		if t.Element == nil {
			return "LIST<?>"
		}
		return fmt.Sprintf("LIST<%s>", t.Element.String())
	case KindStruct:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return fmt.Sprintf("STRUCT<%s>", strings.Join(parts, ", "))
	}
	return t.Kind.String()
}

// ColumnDescriptor describes one column, or one field of a struct column
type ColumnDescriptor struct {
	Name     string      `json:"name"`
	Type     LogicalType `json:"type"`
	Nullable bool        `json:"nullable"`
	Ordinal  int         `json:"ordinal"`
}
