package kk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/neuralkit/ephys/internal/log"
	"github.com/neuralkit/ephys/table"
)

// Options control how a group is parsed.
type Options struct {
	// Waveforms includes the per-spike waveform samples from the .spk file.
	Waveforms bool
	// Samples is the number of waveform samples recorded per spike and channel.
	Samples int
	// Channels is the channel count per group, or -1 to infer it from the
	// .spk payload size.
	Channels int
	// SampleRate converts .res ticks to seconds.
	SampleRate float64
}

// Parser reads one group's raw file set into a table.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseGroup parses the clu, res and fet files for a group (and the spk file
// when opt.Waveforms is set) into a table with one row per spike. Columns are
// cluster, time (seconds), fet0..fetN-1 and, with waveforms, wf<c>_<s> per
// channel and sample in file order.
func (p *Parser) ParseGroup(dir string, group int, opt Options) (*table.Table, error) {
	clusters, err := p.readClu(dir, group)
	if err != nil {
		return nil, err
	}
	times, err := p.readRes(dir, group, opt.SampleRate)
	if err != nil {
		return nil, err
	}
	if len(times) != len(clusters) {
		return nil, fmt.Errorf("group %d: %d res entries for %d clu entries", group, len(times), len(clusters))
	}
	features, nfet, err := p.readFet(dir, group, len(clusters))
	if err != nil {
		return nil, err
	}

	var waveforms [][]float64
	channels := 0
	if opt.Waveforms {
		waveforms, channels, err = p.readSpk(dir, group, len(clusters), opt)
		if err != nil {
			return nil, err
		}
	}

	columns := []string{"cluster", "time"}
	for i := 0; i < nfet; i++ {
		columns = append(columns, fmt.Sprintf("fet%d", i))
	}
	if opt.Waveforms {
		for s := 0; s < opt.Samples; s++ {
			for c := 0; c < channels; c++ {
				columns = append(columns, fmt.Sprintf("wf%d_%d", c, s))
			}
		}
	}

	t := table.New(columns)
	row := make([]float64, 0, len(columns))
	for i := range clusters {
		row = row[:0]
		row = append(row, float64(clusters[i]), times[i])
		row = append(row, features[i]...)
		if opt.Waveforms {
			row = append(row, waveforms[i]...)
		}
		if err := t.Append(i, row); err != nil {
			return nil, fmt.Errorf("group %d row %d: %w", group, i, err)
		}
	}

	log.Debug(log.CatParse, "parsed group", "dir", dir, "group", group, "spikes", t.Len(), "channels", channels)
	return t, nil
}

// readClu reads the cluster assignment file. The first line is the number of
// distinct clusters and is used only as a sanity bound.
func (p *Parser) readClu(dir string, group int) ([]int, error) {
	values, err := p.readInts(dir, group, "clu")
	if err != nil {
		return nil, err
	}
	if len(values) < 1 {
		return nil, fmt.Errorf("group %d: empty clu file", group)
	}
	return values[1:], nil
}

// readRes reads spike times and converts acquisition ticks to seconds.
func (p *Parser) readRes(dir string, group int, sampleRate float64) ([]float64, error) {
	ticks, err := p.readInts(dir, group, "res")
	if err != nil {
		return nil, err
	}
	times := make([]float64, len(ticks))
	for i, t := range ticks {
		times[i] = float64(t) / sampleRate
	}
	return times, nil
}

// readFet reads feature vectors. The first value is the per-spike feature
// count; the remaining values are consumed nfet at a time.
func (p *Parser) readFet(dir string, group int, spikes int) ([][]float64, int, error) {
	values, err := p.readInts(dir, group, "fet")
	if err != nil {
		return nil, 0, err
	}
	if len(values) < 1 {
		return nil, 0, fmt.Errorf("group %d: empty fet file", group)
	}
	nfet := values[0]
	values = values[1:]
	if nfet <= 0 || len(values) != nfet*spikes {
		return nil, 0, fmt.Errorf("group %d: fet file has %d values for %d spikes x %d features", group, len(values), spikes, nfet)
	}

	features := make([][]float64, spikes)
	for i := range features {
		vec := make([]float64, nfet)
		for j := range vec {
			vec[j] = float64(values[i*nfet+j])
		}
		features[i] = vec
	}
	return features, nfet, nil
}

// readSpk reads the waveform windows. Returns one flat channels*samples
// vector per spike and the channel count, inferred from the payload size
// when opt.Channels is -1.
func (p *Parser) readSpk(dir string, group int, spikes int, opt Options) ([][]float64, int, error) {
	name, err := groupFile(dir, group, "spk")
	if err != nil {
		return nil, 0, err
	}
	payload, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", name, err)
	}
	if opt.Samples <= 0 {
		return nil, 0, fmt.Errorf("group %d: waveform sample count %d", group, opt.Samples)
	}

	total := len(payload) / 2
	if len(payload)%2 != 0 {
		return nil, 0, fmt.Errorf("%s: odd payload size %d", name, len(payload))
	}

	channels := opt.Channels
	if channels == -1 {
		if spikes == 0 {
			return nil, 0, fmt.Errorf("%s: cannot infer channels with no spikes", name)
		}
		channels = total / (spikes * opt.Samples)
	}
	if channels <= 0 || total != spikes*channels*opt.Samples {
		return nil, 0, fmt.Errorf("%s: %d samples for %d spikes x %d channels x %d", name, total, spikes, channels, opt.Samples)
	}

	perSpike := channels * opt.Samples
	waveforms := make([][]float64, spikes)
	for i := range waveforms {
		vec := make([]float64, perSpike)
		for j := range vec {
			raw := binary.LittleEndian.Uint16(payload[2*(i*perSpike+j):])
			vec[j] = float64(int16(raw))
		}
		waveforms[i] = vec
	}
	return waveforms, channels, nil
}

// readInts reads a whitespace-separated integer file of the given kind.
func (p *Parser) readInts(dir string, group int, kind string) ([]int, error) {
	name, err := groupFile(dir, group, kind)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	var values []int
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		v, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s: bad value %q: %w", name, scanner.Text(), err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}
	return values, nil
}
