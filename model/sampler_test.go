package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type decodeCall struct {
	index int
	limit int64
}

// fakeSource serves row groups whose single column holds the file-wide row number
type fakeSource struct {
	groups  []int64
	calls   []decodeCall
	failAt  int
	failErr error
	short   bool
	width   int
}

func newFakeSource(groups ...int64) *fakeSource {
	return &fakeSource{groups: groups, failAt: -1, width: 1}
}

func (f *fakeSource) NumRowGroups() int { return len(f.groups) }

func (f *fakeSource) RowGroupNumRows(index int) int64 { return f.groups[index] }

func (f *fakeSource) DecodeRowGroup(index int, limit int64) (RowWindow, error) {
	f.calls = append(f.calls, decodeCall{index: index, limit: limit})
	if index == f.failAt {
		return nil, f.failErr
	}

	var start int64
	for _, n := range f.groups[:index] {
		start += n
	}
	count := limit
	if f.short {
		count--
	}
	rows := make(RowWindow, 0, count)
	for i := int64(0); i < count; i++ {
		row := make(Row, f.width)
		for c := range row {
			row[c] = IntValue(start + i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeSource) rowsDecoded() int64 {
	var total int64
	for _, c := range f.calls {
		total += c.limit
	}
	return total
}

func singleColumnSchema() *Schema {
	return &Schema{Columns: []ColumnDescriptor{{Name: "id", Type: IntegerType(64, true)}}}
}

func ids(rows RowWindow) []int64 {
	out := make([]int64, len(rows))
	for i, row := range rows {
		out[i] = row[0].Int
	}
	return out
}

func Test_SampleRows(t *testing.T) {
	tests := []struct {
		name          string
		groups        []int64
		n             int
		expectedIDs   []int64
		expectedCalls []decodeCall
	}{
		{
			name:          "zero rows decodes nothing",
			groups:        []int64{5, 5},
			n:             0,
			expectedIDs:   []int64{},
			expectedCalls: nil,
		},
		{
			name:          "window spans two row groups",
			groups:        []int64{5, 5},
			n:             7,
			expectedIDs:   []int64{0, 1, 2, 3, 4, 5, 6},
			expectedCalls: []decodeCall{{0, 5}, {1, 2}},
		},
		{
			name:          "file shorter than window",
			groups:        []int64{10},
			n:             100,
			expectedIDs:   []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			expectedCalls: []decodeCall{{0, 10}},
		},
		{
			name:          "later row groups untouched",
			groups:        []int64{5, 5, 5},
			n:             3,
			expectedIDs:   []int64{0, 1, 2},
			expectedCalls: []decodeCall{{0, 3}},
		},
		{
			name:          "empty row groups skipped",
			groups:        []int64{0, 2, 0, 2},
			n:             3,
			expectedIDs:   []int64{0, 1, 2},
			expectedCalls: []decodeCall{{1, 2}, {3, 1}},
		},
		{
			name:          "window exactly one row group",
			groups:        []int64{4, 4},
			n:             4,
			expectedIDs:   []int64{0, 1, 2, 3},
			expectedCalls: []decodeCall{{0, 4}},
		},
		{
			name:          "no row groups",
			groups:        nil,
			n:             5,
			expectedIDs:   []int64{},
			expectedCalls: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(tt.groups...)
			rows, err := SampleRows(src, singleColumnSchema(), tt.n, nil)
			require.NoError(t, err)
			require.NotNil(t, rows)
			require.Equal(t, tt.expectedIDs, ids(rows))
			require.Equal(t, tt.expectedCalls, src.calls)
			require.LessOrEqual(t, len(rows), tt.n)
			require.LessOrEqual(t, src.rowsDecoded(), int64(tt.n))
		})
	}
}

func Test_SampleRows_NegativeCount(t *testing.T) {
	src := newFakeSource(5)
	rows, err := SampleRows(src, singleColumnSchema(), -1, nil)
	require.ErrorIs(t, err, ErrNegativeRowCount)
	require.Nil(t, rows)
	require.Empty(t, src.calls)
}

func Test_SampleRows_DecodeFailure(t *testing.T) {
	cause := errors.New("corrupt page")
	src := newFakeSource(5, 5, 5)
	src.failAt = 1
	src.failErr = cause

	rows, err := SampleRows(src, singleColumnSchema(), 12, nil)
	require.Nil(t, rows)
	require.ErrorIs(t, err, ErrRowDecode)
	require.ErrorIs(t, err, cause)

	var decodeErr *RowDecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 1, decodeErr.RowGroupIndex)
	require.Len(t, src.calls, 2, "row group 2 must not be attempted after a failure")
}

func Test_SampleRows_SourceMisbehaves(t *testing.T) {
	t.Run("fewer rows than declared", func(t *testing.T) {
		src := newFakeSource(5)
		src.short = true
		_, err := SampleRows(src, singleColumnSchema(), 3, nil)
		require.ErrorIs(t, err, ErrRowDecode)
		require.Contains(t, err.Error(), "decoded 2 rows")
	})

	t.Run("row width differs from schema", func(t *testing.T) {
		src := newFakeSource(5)
		src.width = 2
		_, err := SampleRows(src, singleColumnSchema(), 3, nil)
		require.ErrorIs(t, err, ErrRowDecode)
		require.ErrorIs(t, err, ErrShape)
	})
}

func Test_SampleRows_LogsEachRowGroup(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := newFakeSource(5, 5, 5)

	_, err := SampleRows(src, singleColumnSchema(), 7, zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterMessage("decoded row group").All()
	require.Len(t, entries, 2)
	require.Equal(t, int64(1), entries[1].ContextMap()["rowGroup"])
	require.Equal(t, int64(2), entries[1].ContextMap()["rows"])
	require.Equal(t, int64(7), entries[1].ContextMap()["collected"])
}

func Test_RowAccumulator(t *testing.T) {
	acc := newRowAccumulator(3)
	require.False(t, acc.full())
	require.Equal(t, 3, acc.remaining())

	acc.add(RowWindow{{IntValue(1)}, {IntValue(2)}})
	require.Equal(t, 1, acc.remaining())

	acc.add(RowWindow{{IntValue(3)}, {IntValue(4)}})
	require.True(t, acc.full())
	require.Equal(t, []int64{1, 2, 3}, ids(acc.rows))
}

func Test_SampleRows_HugeCount(t *testing.T) {
	src := newFakeSource(5, 5)
	rows, err := SampleRows(src, singleColumnSchema(), 1<<40, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids(rows))
	require.Equal(t, []decodeCall{{index: 0, limit: 5}, {index: 1, limit: 5}}, src.calls)
	require.Equal(t, 10, cap(rows))
}

func Test_windowCapacity(t *testing.T) {
	tests := []struct {
		name     string
		groups   []int64
		n        int
		expected int
	}{
		{"fewer rows than requested", []int64{5, 5}, 1 << 40, 10},
		{"window ends inside first group", []int64{5, 5}, 3, 3},
		{"no row groups", nil, 7, 0},
		{"empty row group", []int64{0, 4}, 7, 4},
		{"zero requested", []int64{5}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, windowCapacity(newFakeSource(tt.groups...), tt.n))
		})
	}
}
