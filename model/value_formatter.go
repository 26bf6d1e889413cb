package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NullText is what every Null cell renders as, whatever its column type
const NullText = "NULL"

const (
	listDelimiter  = ", "
	maxHexBytes    = 32
	secondsPerDay  = 86400
	timestampStart = "2006-01-02T15:04:05"
	timeOfDayStart = "15:04:05"
)

// FormatCell renders a value as display text. It never fails: a value whose
// variant does not match the type renders as a tagged placeholder.
func FormatCell(v CellValue, t LogicalType) string {
	return formatCell(v, t, false)
}

// nested values quote their text so a list or struct can be split back apart
//
//nolint:gocognit // one branch per logical kind
func formatCell(v CellValue, t LogicalType, nested bool) string {
	if v.IsNull() {
		return NullText
	}
	if t.Kind == KindNull || t.Kind > KindStruct {
		return fmt.Sprintf("<unsupported %s>", t.Kind)
	}
	if v.Kind != t.Kind {
		return invalidValue(t.Kind)
	}

	switch t.Kind {
	case KindInteger:
		if v.Unsigned == t.Signed {
			return invalidValue(t.Kind)
		}
		if t.Signed {
			return strconv.FormatInt(v.Int, 10)
		}
		return strconv.FormatUint(v.Uint, 10)
	case KindFloat:
		return formatFloat(v.Float, t.BitWidth)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindUtf8:
		if nested {
			return strconv.Quote(v.Str)
		}
		return v.Str
	case KindBinary:
		return formatBinary(v.Bytes, nested)
	case KindTimestamp:
		return formatTimestamp(v.Int, t.Unit, t.Timezone)
	case KindDate:
		return time.Unix(v.Int*secondsPerDay, 0).UTC().Format(time.DateOnly)
	case KindTime:
		return formatTimeOfDay(v.Int, t.Unit)
	case KindDecimal:
		if v.Unscaled == nil {
			return invalidValue(t.Kind)
		}
		places := int32(max(t.Scale, 0))
		return decimal.NewFromBigInt(v.Unscaled, -int32(t.Scale)).StringFixed(places)
	case KindUUID:
		u, err := uuid.FromBytes(v.Bytes)
		if err != nil {
			return invalidValue(t.Kind)
		}
		return u.String()
	case KindList:
		if t.Element == nil {
			return fmt.Sprintf("<unsupported %s>", t.Kind)
		}
		parts := make([]string, len(v.Elems))
		for i, elem := range v.Elems {
			parts[i] = formatCell(elem, *t.Element, true)
		}
		return "[" + strings.Join(parts, listDelimiter) + "]"
	case KindStruct:
		if len(v.Elems) != len(t.Fields) {
			return invalidValue(t.Kind)
		}
		parts := make([]string, len(v.Elems))
		for i, field := range t.Fields {
			parts[i] = field.Name + ": " + formatCell(v.Elems[i], field.Type, true)
		}
		return "{" + strings.Join(parts, listDelimiter) + "}"
	}

	return fmt.Sprintf("<unsupported %s>", t.Kind)
}

func invalidValue(kind Kind) string {
	return fmt.Sprintf("<invalid %s value>", kind)
}

// formatFloat prints the shortest digits that round-trip at the column's
// width, switching to exponent form outside [1e-6, 1e21).
func formatFloat(f float64, bitWidth int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	bitSize := 64
	if bitWidth == 32 || bitWidth == 16 {
		bitSize = 32
	}

	if abs := math.Abs(f); f == 0 || (abs >= 1e-6 && abs < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, bitSize)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'e', -1, bitSize)
}

func formatBinary(b []byte, nested bool) string {
	if len(b) == 0 {
		if nested {
			return `""`
		}
		return ""
	}
	if isDisplayableText(b) {
		if nested {
			return strconv.Quote(string(b))
		}
		return string(b)
	}
	if len(b) <= maxHexBytes {
		return fmt.Sprintf("0x%X", b)
	}
	return fmt.Sprintf("<binary:%d bytes>", len(b))
}

func fractionLayout(unit TimeUnit) string {
	return "." + strings.Repeat("0", unit.fractionDigits())
}

// formatTimestamp renders an instant. A declared timezone means the value is
// UTC-adjusted; without one the value is wall-clock time and gets no offset.
func formatTimestamp(v int64, unit TimeUnit, timezone string) string {
	var ts time.Time
	switch unit {
	case Micros:
		ts = time.UnixMicro(v)
	case Nanos:
		ts = time.Unix(0, v)
	default:
		ts = time.UnixMilli(v)
	}

	s := ts.UTC().Format(timestampStart + fractionLayout(unit))
	if timezone == "" {
		return s
	}
	s += "Z"
	if !strings.EqualFold(timezone, "UTC") {
		s += " [" + timezone + "]"
	}
	return s
}

func formatTimeOfDay(v int64, unit TimeUnit) string {
	var d time.Duration
	switch unit {
	case Micros:
		d = time.Duration(v) * time.Microsecond
	case Nanos:
		d = time.Duration(v)
	default:
		d = time.Duration(v) * time.Millisecond
	}
	if d < 0 || d >= 24*time.Hour {
		return invalidValue(KindTime)
	}
	return time.Unix(0, 0).UTC().Add(d).Format(timeOfDayStart + fractionLayout(unit))
}
