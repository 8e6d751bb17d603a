package ephys

import (
	"github.com/neuralkit/ephys/internal/kk"
	"github.com/neuralkit/ephys/internal/sessinfo"
	"github.com/neuralkit/ephys/internal/tarball"
	"github.com/neuralkit/ephys/table"
)

// Metadata is the nested session-level auxiliary structure loaded from the
// sessInfo file. It is passed through unmodified alongside every group's
// record set.
type Metadata map[string]any

// Extractor unpacks a session archive into a destination directory.
// Extraction is all-or-nothing per archive; a failed extraction may leave
// partial files behind, which the caller must not treat as success.
type Extractor interface {
	Extract(archivePath, destDir string) error
}

// MetadataLoader reads a session metadata file into its nested structure.
type MetadataLoader interface {
	Load(path string) (Metadata, error)
}

// ParseOptions configure raw group parsing.
type ParseOptions struct {
	// Waveforms includes per-spike waveform samples.
	Waveforms bool
	// Samples is the waveform sample count per spike and channel.
	Samples int
	// Channels is the channel count per group, -1 to infer.
	Channels int
	// SampleRate converts spike-time ticks to seconds.
	SampleRate float64
}

// GroupParser turns one group's raw file set into a table.
type GroupParser interface {
	ParseGroup(dir string, group int, opt ParseOptions) (*table.Table, error)
}

// TableStore is the memoization backend for parsed group tables: presence,
// load and store keyed by group id. The default implementation persists
// COMPILED_<n>.csv files in the session directory; tests inject in-memory
// fakes.
type TableStore interface {
	Contains(group int) bool
	Load(group int) (*table.Table, error)
	Store(group int, t *table.Table) error
}

// tarExtractor is the default Extractor, backed by internal/tarball.
type tarExtractor struct {
	inner *tarball.Extractor
}

func (e tarExtractor) Extract(archivePath, destDir string) error {
	return e.inner.Extract(archivePath, destDir)
}

// yamlMetadataLoader is the default MetadataLoader, backed by internal/sessinfo.
type yamlMetadataLoader struct{}

func (yamlMetadataLoader) Load(path string) (Metadata, error) {
	meta, err := sessinfo.Load(path)
	if err != nil {
		return nil, err
	}
	return Metadata(meta), nil
}

// kkParser is the default GroupParser, backed by internal/kk.
type kkParser struct {
	inner *kk.Parser
}

func (p kkParser) ParseGroup(dir string, group int, opt ParseOptions) (*table.Table, error) {
	return p.inner.ParseGroup(dir, group, kk.Options{
		Waveforms:  opt.Waveforms,
		Samples:    opt.Samples,
		Channels:   opt.Channels,
		SampleRate: opt.SampleRate,
	})
}
