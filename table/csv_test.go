package table

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	tbl := New([]string{"cluster", "time", "fet0"})
	require.NoError(t, tbl.Append(0, []float64{2, 0.05, -14}))
	require.NoError(t, tbl.Append(1, []float64{3, 1.25, 7}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}

func TestWrite_IndexIsFirstColumn(t *testing.T) {
	tbl := New([]string{"a"})
	require.NoError(t, tbl.Append(42, []float64{1}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, ",a", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "42,"))
}

func TestReadFile_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "COMPILED_1.csv")

	tbl := New([]string{"a", "b"})
	require.NoError(t, tbl.Append(0, []float64{1, 2}))
	require.NoError(t, WriteFile(path, tbl))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestRead_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bad index", ",a\nx,1\n"},
		{"bad value", ",a\n0,notafloat\n"},
		{"ragged row", ",a,b\n0,1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			require.Error(t, err)
		})
	}
}

func TestRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ncols := rapid.IntRange(1, 6).Draw(rt, "ncols")
		columns := make([]string, ncols)
		for i := range columns {
			columns[i] = fmt.Sprintf("col%d", i)
		}

		tbl := New(columns)
		nrows := rapid.IntRange(0, 50).Draw(rt, "nrows")
		for i := 0; i < nrows; i++ {
			row := make([]float64, ncols)
			for j := range row {
				row[j] = rapid.Float64Range(-1e12, 1e12).Draw(rt, "cell")
			}
			require.NoError(rt, tbl.Append(rapid.IntRange(-1000, 1000).Draw(rt, "index"), row))
		}

		var buf bytes.Buffer
		require.NoError(rt, Write(&buf, tbl))
		got, err := Read(&buf)
		require.NoError(rt, err)
		require.True(rt, tbl.Equal(got))
	})
}
