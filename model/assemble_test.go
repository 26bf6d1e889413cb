package model

import (
	"math/big"
	"testing"

	"github.com/hangxie/parquet-go/v2/parquet"
	"github.com/stretchr/testify/require"
)

func leafData(entries ...levelEntry) LeafData {
	data := LeafData{}
	for _, e := range entries {
		data.Values = append(data.Values, e.value)
		data.RepLevels = append(data.RepLevels, e.rep)
		data.DefLevels = append(data.DefLevels, e.def)
	}
	return data
}

func entry(value any, rep, def int32) levelEntry {
	return levelEntry{value: value, rep: rep, def: def}
}

func Test_AssembleRows_Flat(t *testing.T) {
	schema, err := ExtractSchema(flatFooter())
	require.NoError(t, err)

	int96Epoch := string([]byte{0, 0, 0, 0, 0, 0, 0, 0, 0x4c, 0x3d, 0x25, 0})
	leaves := []LeafData{
		leafData(entry(int64(1), 0, 0), entry(int64(2), 0, 0)),
		leafData(entry("shoe", 0, 1), entry(nil, 0, 0)),
		leafData(entry(int32(1999), 0, 1), entry(nil, 0, 0)),
		leafData(entry(int64(1700000000000000), 0, 1), entry(nil, 0, 0)),
		leafData(entry(int96Epoch, 0, 1), entry(nil, 0, 0)),
	}

	rows, err := AssembleRows(schema, leaves, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, Row{
		IntValue(1),
		StringValue("shoe"),
		DecimalValue(big.NewInt(1999)),
		TimestampValue(1700000000000000),
		TimestampValue(0),
	}, rows[0])
	require.Equal(t, Row{IntValue(2), NullValue, NullValue, NullValue, NullValue}, rows[1])
}

func Test_AssembleRows_Nested(t *testing.T) {
	schema, err := ExtractSchema(nestedFooter())
	require.NoError(t, err)

	leaves := []LeafData{
		// tags: [a, b] | null | [] | [null]
		leafData(entry("a", 0, 3), entry("b", 1, 3), entry(nil, 0, 0), entry(nil, 0, 1), entry(nil, 0, 2)),
		// attrs.key: {a: 1, b: null} | null | {} | {c: 3}
		leafData(entry("a", 0, 2), entry("b", 1, 2), entry(nil, 0, 0), entry(nil, 0, 1), entry("c", 0, 2)),
		// attrs.value
		leafData(entry(int32(1), 0, 3), entry(nil, 1, 2), entry(nil, 0, 0), entry(nil, 0, 1), entry(int32(3), 0, 3)),
		// address.street: {Main, 1} | null | {null, 2} | {Elm, 3}
		leafData(entry("Main", 0, 2), entry(nil, 0, 0), entry(nil, 0, 1), entry("Elm", 0, 2)),
		// address.zip
		leafData(entry(int32(1), 0, 1), entry(nil, 0, 0), entry(int32(2), 0, 1), entry(int32(3), 0, 1)),
		// scores: [7, 8] | [] | [9] | []
		leafData(entry(int32(7), 0, 1), entry(int32(8), 1, 1), entry(nil, 0, 0), entry(int32(9), 0, 1), entry(nil, 0, 0)),
	}

	rows, err := AssembleRows(schema, leaves, 4)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	kv := func(k string, v CellValue) CellValue { return StructValue(StringValue(k), v) }

	require.Equal(t, Row{
		ListValue(StringValue("a"), StringValue("b")),
		ListValue(kv("a", IntValue(1)), kv("b", NullValue)),
		StructValue(StringValue("Main"), IntValue(1)),
		ListValue(IntValue(7), IntValue(8)),
	}, rows[0])

	require.Equal(t, Row{NullValue, NullValue, NullValue, ListValue()}, rows[1])

	require.Equal(t, Row{
		ListValue(),
		ListValue(),
		StructValue(NullValue, IntValue(2)),
		ListValue(IntValue(9)),
	}, rows[2])

	require.Equal(t, Row{
		ListValue(NullValue),
		ListValue(kv("c", IntValue(3))),
		StructValue(StringValue("Elm"), IntValue(3)),
		ListValue(),
	}, rows[3])

	t.Run("formats back into readable text", func(t *testing.T) {
		table, err := NewPreviewTable(schema.Columns, rows, FileInfo{})
		require.NoError(t, err)
		require.Equal(t, []string{
			`["a", "b"]`,
			`[{key: "a", value: 1}, {key: "b", value: NULL}]`,
			`{street: "Main", zip: 1}`,
			`[7, 8]`,
		}, table.FormattedRows()[0])
		require.Equal(t, []string{"NULL", "NULL", "NULL", "[]"}, table.FormattedRows()[1])
	})
}

func Test_AssembleRows_TakesOnlyRequestedRows(t *testing.T) {
	schema, err := ExtractSchema(nestedFooter())
	require.NoError(t, err)

	leaves := []LeafData{
		leafData(entry("a", 0, 3), entry("b", 0, 3)),
		leafData(entry(nil, 0, 0), entry(nil, 0, 0)),
		leafData(entry(nil, 0, 0), entry(nil, 0, 0)),
		leafData(entry(nil, 0, 0), entry(nil, 0, 0)),
		leafData(entry(nil, 0, 0), entry(nil, 0, 0)),
		leafData(entry(int32(1), 0, 1), entry(int32(2), 0, 1)),
	}

	rows, err := AssembleRows(schema, leaves, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, ListValue(StringValue("a")), rows[0][0])
}

func Test_AssembleRows_MissingLevels(t *testing.T) {
	schema, err := ExtractSchema(footerOf(
		rootElem(1),
		leafElem("n", parquet.Type_INT64, optional),
	))
	require.NoError(t, err)

	rows, err := AssembleRows(schema, []LeafData{{Values: []any{int64(5), nil}}}, 2)
	require.NoError(t, err)
	require.Equal(t, RowWindow{{IntValue(5)}, {NullValue}}, rows)
}

func Test_AssembleRows_Errors(t *testing.T) {
	schema, err := ExtractSchema(flatFooter())
	require.NoError(t, err)

	full := func() []LeafData {
		return []LeafData{
			leafData(entry(int64(1), 0, 0)),
			leafData(entry("x", 0, 1)),
			leafData(entry(int32(1), 0, 1)),
			leafData(entry(int64(1), 0, 1)),
			leafData(entry(nil, 0, 0)),
		}
	}

	t.Run("leaf count mismatch", func(t *testing.T) {
		_, err := AssembleRows(schema, full()[:3], 1)
		require.ErrorIs(t, err, errLevelMismatch)
	})

	t.Run("column shorter than requested", func(t *testing.T) {
		_, err := AssembleRows(schema, full(), 2)
		require.Error(t, err)
		require.Contains(t, err.Error(), "yielded 1 rows, want 2")
	})

	t.Run("value of the wrong physical type", func(t *testing.T) {
		leaves := full()
		leaves[0] = leafData(entry("not a number", 0, 0))
		_, err := AssembleRows(schema, leaves, 1)
		require.Error(t, err)
		require.Contains(t, err.Error(), "cannot read string as INTEGER")
		require.Contains(t, err.Error(), "column id")
	})
}
