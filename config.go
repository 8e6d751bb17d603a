package ephys

import "fmt"

// Suffix tags appended to a session name to form its companion archives.
const (
	widebandTag = "_eeg"
	waveformTag = "_spk"
)

// SampleRate is the acquisition clock of the raw recordings, in Hz. Spike
// times in .res files are ticks of this clock.
const SampleRate = 20_000.0

// Config holds all construction options for a SessionIndex. Start from
// DefaultConfig and override; a zero Config disables waveforms and disk
// memoization, which is rarely what you want.
type Config struct {
	// ArchiveDir holds the compressed session archives. Defaults to
	// ExtractDir when empty (in-place mode).
	ArchiveDir string `mapstructure:"archive_dir"`

	// ExtractDir receives extracted session directories. Defaults to
	// ArchiveDir when empty (in-place mode). At least one of the two
	// must be set.
	ExtractDir string `mapstructure:"extract_dir"`

	// ArchiveExt is the archive filename extension, ".tar.gz" by default.
	ArchiveExt string `mapstructure:"archive_ext"`

	// Wideband requests extraction of the downsampled wideband (_eeg)
	// archives. Not supported; construction fails when set.
	Wideband bool `mapstructure:"wideband"`

	// Waveforms extracts the _spk archives and includes per-spike
	// waveform samples in parsed tables.
	Waveforms bool `mapstructure:"waveforms"`

	// Samples is the waveform sample count per spike and channel.
	Samples int `mapstructure:"samples"`

	// Channels is the channel count per group; -1 infers it from the
	// .spk payload size.
	Channels int `mapstructure:"channels"`

	// UseDisk memoizes parsed group tables to COMPILED_<n>.csv files in
	// the session directory. Saves around 5/6 of load time on re-access.
	UseDisk bool `mapstructure:"use_disk"`
}

// DefaultConfig returns the configuration matching the hc-11 dataset layout:
// gzipped tar archives, 32 waveform samples, inferred channel counts, disk
// memoization on.
func DefaultConfig() Config {
	return Config{
		ArchiveExt: ".tar.gz",
		Waveforms:  true,
		Samples:    32,
		Channels:   -1,
		UseDisk:    true,
	}
}

// normalize fills in-place mode directories and validates the result.
func (c *Config) normalize() error {
	if c.ArchiveDir == "" && c.ExtractDir == "" {
		return fmt.Errorf("%w: one of ArchiveDir or ExtractDir must be provided", ErrConfig)
	}
	if c.Wideband {
		return fmt.Errorf("%w: wideband (eeg) archives cannot be extracted yet", ErrUnsupportedFeature)
	}
	if c.ArchiveDir == "" {
		c.ArchiveDir = c.ExtractDir
	}
	if c.ExtractDir == "" {
		c.ExtractDir = c.ArchiveDir
	}
	if c.ArchiveExt == "" {
		c.ArchiveExt = ".tar.gz"
	}
	if c.Waveforms && c.Samples <= 0 {
		return fmt.Errorf("%w: waveform sample count must be positive, got %d", ErrConfig, c.Samples)
	}
	if c.Waveforms && c.Channels != -1 && c.Channels <= 0 {
		return fmt.Errorf("%w: channel count must be positive or -1, got %d", ErrConfig, c.Channels)
	}
	return nil
}
