package model

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/hangxie/parquet-go/v2/parquet"
	"github.com/hangxie/parquet-go/v2/types"
)

// convertLeaf maps a physical value from the column reader onto the CellValue
// variant of the leaf's logical type. nil is Null.
//
//nolint:gocognit // one branch per logical kind
func convertLeaf(raw any, col *LeafColumn) (CellValue, error) {
	if raw == nil {
		return NullValue, nil
	}

	t := col.Type
	switch t.Kind {
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return BoolValue(b), nil
		}
	case KindInteger:
		i, ok := toInt64(raw)
		if !ok {
			break
		}
		if t.Signed {
			return IntValue(i), nil
		}
		if col.Physical == parquet.Type_INT32 {
			return UintValue(uint64(uint32(i))), nil
		}
		return UintValue(uint64(i)), nil
	case KindFloat:
		switch v := raw.(type) {
		case float32:
			return FloatValue(float64(v)), nil
		case float64:
			return FloatValue(v), nil
		case string:
			if len(v) == 2 {
				return FloatValue(float64(halfToFloat32([]byte(v)))), nil
			}
		case []byte:
			if len(v) == 2 {
				return FloatValue(float64(halfToFloat32(v))), nil
			}
		}
	case KindUtf8:
		switch v := raw.(type) {
		case string:
			return StringValue(v), nil
		case []byte:
			return StringValue(string(v)), nil
		}
	case KindBinary:
		switch v := raw.(type) {
		case string:
			return BytesValue([]byte(v)), nil
		case []byte:
			return BytesValue(v), nil
		}
	case KindTimestamp:
		switch v := raw.(type) {
		case string:
			if len(v) == 12 {
				return TimestampValue(types.INT96ToTime(v).UnixNano()), nil
			}
		case []byte:
			if len(v) == 12 {
				return TimestampValue(types.INT96ToTime(string(v)).UnixNano()), nil
			}
		default:
			if i, ok := toInt64(raw); ok {
				return TimestampValue(i), nil
			}
		}
	case KindDate:
		if i, ok := toInt64(raw); ok {
			return DateValue(i), nil
		}
	case KindTime:
		if i, ok := toInt64(raw); ok {
			return TimeValue(i), nil
		}
	case KindDecimal:
		switch v := raw.(type) {
		case string:
			return DecimalValue(decodeTwosComplement([]byte(v))), nil
		case []byte:
			return DecimalValue(decodeTwosComplement(v)), nil
		default:
			if i, ok := toInt64(raw); ok {
				return DecimalValue(big.NewInt(i)), nil
			}
		}
	case KindUUID:
		switch v := raw.(type) {
		case string:
			if len(v) == 16 {
				return UUIDValue([]byte(v)), nil
			}
		case []byte:
			if len(v) == 16 {
				return UUIDValue(v), nil
			}
		}
	}

	return NullValue, fmt.Errorf("column %s: cannot read %T as %s", col.PathString(), raw, t.Kind)
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

// decodeTwosComplement reads a big-endian two's complement integer
func decodeTwosComplement(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return v
}

// halfToFloat32 decodes a little-endian IEEE 754 binary16 value. The types
// package's float16 converter reads big-endian bytes, so it does not apply.
func halfToFloat32(b []byte) float32 {
	h := binary.LittleEndian.Uint16(b)
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h & 0x3ff)

	switch exp {
	case 0:
		f := float32(math.Ldexp(float64(frac), -24))
		if sign != 0 {
			f = -f
		}
		return f
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | frac<<13)
	}
	return math.Float32frombits(sign | (exp-15+127)<<23 | frac<<13)
}
