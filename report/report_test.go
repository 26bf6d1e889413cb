package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hangxie/parquet-preview/model"
)

func sampleTable(t *testing.T, rows model.RowWindow) *model.PreviewTable {
	t.Helper()
	schema := []model.ColumnDescriptor{
		{Name: "id", Type: model.IntegerType(64, true), Ordinal: 0},
		{Name: "brand", Type: model.Utf8Type(), Nullable: true, Ordinal: 1},
	}
	table, err := model.NewPreviewTable(schema, rows, model.FileInfo{NumRows: 42})
	require.NoError(t, err)
	return table
}

func twoRows() model.RowWindow {
	return model.RowWindow{
		{model.IntValue(1), model.StringValue("Nike")},
		{model.IntValue(2), model.NullValue},
	}
}

func Test_NewFormatter(t *testing.T) {
	tests := []struct {
		format   Format
		expected Formatter
	}{
		{FormatTable, &TableFormatter{}},
		{"", &TableFormatter{}},
		{FormatTSV, &TSVFormatter{}},
		{FormatCSV, &CSVFormatter{}},
		{FormatJSONL, &JSONFormatter{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f, err := NewFormatter(tt.format, nil)
			require.NoError(t, err)
			require.IsType(t, tt.expected, f)
		})
	}

	_, err := NewFormatter("xml", nil)
	require.Error(t, err)
}

func Test_Write_Summary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleTable(t, twoRows()), FormatTSV))

	lines := strings.Split(buf.String(), "\n")
	require.Equal(t, "Rows: 42 | Columns: 2", lines[0])
	require.Equal(t, "", lines[1])
	require.Equal(t, "id\tbrand", lines[2])
}

func Test_Write_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, Write(&buf, sampleTable(t, twoRows()), "xml"))
	require.Empty(t, buf.String())
}

func Test_TableFormatter(t *testing.T) {
	t.Run("grid", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTableFormatter(&buf).Format(sampleTable(t, twoRows())))

		out := buf.String()
		require.True(t, strings.HasPrefix(out, "+----+-------+\n"))
		require.Contains(t, out, "|  1 | Nike  |")
		require.Contains(t, out, "|  2 | NULL  |")
		require.Contains(t, out, "brand")
		require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
	})

	t.Run("empty preview", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewTableFormatter(&buf).Format(sampleTable(t, nil)))
		require.Equal(t, NoRowsText+"\n", buf.String())
	})

	t.Run("set output", func(t *testing.T) {
		var first, second bytes.Buffer
		f := NewTableFormatter(&first)
		f.SetOutput(&second)
		require.NoError(t, f.Format(sampleTable(t, nil)))
		require.Empty(t, first.String())
		require.NotEmpty(t, second.String())
	})
}

func Test_TSVFormatter(t *testing.T) {
	rows := model.RowWindow{
		{model.IntValue(1), model.StringValue("tab\there")},
		{model.IntValue(2), model.StringValue("line\nbreak \\ slash")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewTSVFormatter(&buf).Format(sampleTable(t, rows)))
	require.Equal(t, "id\tbrand\n1\ttab\\there\n2\tline\\nbreak \\\\ slash\n", buf.String())

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		require.Len(t, strings.Split(line, "\t"), 2)
	}
}

func Test_TSVFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTSVFormatter(&buf).Format(sampleTable(t, nil)))
	require.Equal(t, "id\tbrand\n", buf.String())
}

func Test_CSVFormatter(t *testing.T) {
	rows := model.RowWindow{
		{model.IntValue(1), model.StringValue(`say "hi", bye`)},
		{model.IntValue(2), model.NullValue},
	}

	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(&buf).Format(sampleTable(t, rows)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"id", "brand"},
		{"1", `say "hi", bye`},
		{"2", "NULL"},
	}, records)
}

func Test_JSONFormatter(t *testing.T) {
	rows := model.RowWindow{
		{model.IntValue(1), model.StringValue("<b>&")},
		{model.IntValue(2), model.NullValue},
	}

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(&buf).Format(sampleTable(t, rows)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		`{"id":"1","brand":"<b>&"}`,
		`{"id":"2","brand":"NULL"}`,
	}, lines)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	require.Equal(t, "<b>&", decoded["brand"])
}
