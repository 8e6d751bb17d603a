package kk

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGroupFixture writes a consistent clu/res/fet/spk file set for one
// group: three spikes, two features, two channels, four waveform samples.
func writeGroupFixture(t *testing.T, dir string, group int) {
	t.Helper()
	prefix := fmt.Sprintf("ratA_3.%%s.%d", group)

	writeText(t, dir, fmt.Sprintf(prefix, "clu"), "3\n2\n3\n2\n")
	writeText(t, dir, fmt.Sprintf(prefix, "res"), "20000\n30000\n40000\n")
	writeText(t, dir, fmt.Sprintf(prefix, "fet"), "2\n10 11\n20 21\n30 31\n")
	writeSpk(t, dir, fmt.Sprintf(prefix, "spk"), 3, 2, 4)
}

func writeText(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// writeSpk writes spikes*channels*samples little-endian int16 values
// counting up from zero.
func writeSpk(t *testing.T, dir, name string, spikes, channels, samples int) {
	t.Helper()
	payload := make([]byte, 2*spikes*channels*samples)
	for i := 0; i < spikes*channels*samples; i++ {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(int16(i)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), payload, 0644))
}

func TestGroups(t *testing.T) {
	dir := t.TempDir()
	writeGroupFixture(t, dir, 1)
	writeGroupFixture(t, dir, 2)
	writeText(t, dir, "COMPILED_1.csv", ",a\n")
	writeText(t, dir, "ratA_3_sessInfo.yaml", "a: 1\n")

	groups, err := Groups(dir)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, groups)
}

func TestGroups_EmptyDir(t *testing.T) {
	groups, err := Groups(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroups_MissingDir(t *testing.T) {
	_, err := Groups(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestParseGroup_WithoutWaveforms(t *testing.T) {
	dir := t.TempDir()
	writeGroupFixture(t, dir, 1)

	tbl, err := NewParser().ParseGroup(dir, 1, Options{SampleRate: 20_000})
	require.NoError(t, err)

	assert.Equal(t, []string{"cluster", "time", "fet0", "fet1"}, tbl.Columns())
	require.Equal(t, 3, tbl.Len())

	clusters, _ := tbl.Column("cluster")
	assert.Equal(t, []float64{2, 3, 2}, clusters)

	times, _ := tbl.Column("time")
	assert.Equal(t, []float64{1, 1.5, 2}, times)

	fet1, _ := tbl.Column("fet1")
	assert.Equal(t, []float64{11, 21, 31}, fet1)

	assert.Equal(t, []int{0, 1, 2}, tbl.Index())
}

func TestParseGroup_WithWaveforms(t *testing.T) {
	dir := t.TempDir()
	writeGroupFixture(t, dir, 1)

	opt := Options{Waveforms: true, Samples: 4, Channels: 2, SampleRate: 20_000}
	tbl, err := NewParser().ParseGroup(dir, 1, opt)
	require.NoError(t, err)

	// cluster + time + 2 features + 2 channels x 4 samples
	require.Len(t, tbl.Columns(), 12)
	assert.Contains(t, tbl.Columns(), "wf0_0")
	assert.Contains(t, tbl.Columns(), "wf1_3")

	// Spike 0 owns the first 8 samples in file order.
	first, _ := tbl.Column("wf0_0")
	assert.Equal(t, []float64{0, 8, 16}, first)
	last, _ := tbl.Column("wf1_3")
	assert.Equal(t, []float64{7, 15, 23}, last)
}

func TestParseGroup_InfersChannels(t *testing.T) {
	dir := t.TempDir()
	writeGroupFixture(t, dir, 1)

	opt := Options{Waveforms: true, Samples: 4, Channels: -1, SampleRate: 20_000}
	tbl, err := NewParser().ParseGroup(dir, 1, opt)
	require.NoError(t, err)
	// 2 channels inferred from the spk payload size.
	require.Len(t, tbl.Columns(), 12)
}

func TestParseGroup_Failures(t *testing.T) {
	cases := []struct {
		name  string
		wreck func(t *testing.T, dir string)
	}{
		{"missing clu", func(t *testing.T, dir string) {
			require.NoError(t, os.Remove(filepath.Join(dir, "ratA_3.clu.1")))
		}},
		{"missing fet", func(t *testing.T, dir string) {
			require.NoError(t, os.Remove(filepath.Join(dir, "ratA_3.fet.1")))
		}},
		{"res count mismatch", func(t *testing.T, dir string) {
			writeText(t, dir, "ratA_3.res.1", "20000\n30000\n")
		}},
		{"fet count mismatch", func(t *testing.T, dir string) {
			writeText(t, dir, "ratA_3.fet.1", "2\n10 11\n")
		}},
		{"garbled clu", func(t *testing.T, dir string) {
			writeText(t, dir, "ratA_3.clu.1", "3\ntwo\n3\n2\n")
		}},
		{"truncated spk", func(t *testing.T, dir string) {
			writeText(t, dir, "ratA_3.spk.1", "x")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeGroupFixture(t, dir, 1)
			tc.wreck(t, dir)

			opt := Options{Waveforms: true, Samples: 4, Channels: -1, SampleRate: 20_000}
			_, err := NewParser().ParseGroup(dir, 1, opt)
			require.Error(t, err)
		})
	}
}

func TestParseGroup_MissingGroup(t *testing.T) {
	dir := t.TempDir()
	writeGroupFixture(t, dir, 1)

	_, err := NewParser().ParseGroup(dir, 9, Options{SampleRate: 20_000})
	require.Error(t, err)
}
