package ephys

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/neuralkit/ephys/internal/log"
)

// LoadConfig reads a Config from a YAML/TOML/JSON file, applying
// DefaultConfig values for unset keys.
func LoadConfig(path string) (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("archive_dir", defaults.ArchiveDir)
	v.SetDefault("extract_dir", defaults.ExtractDir)
	v.SetDefault("archive_ext", defaults.ArchiveExt)
	v.SetDefault("wideband", defaults.Wideband)
	v.SetDefault("waveforms", defaults.Waveforms)
	v.SetDefault("samples", defaults.Samples)
	v.SetDefault("channels", defaults.Channels)
	v.SetDefault("use_disk", defaults.UseDisk)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode %s: %w", ErrConfig, path, err)
	}

	log.Debug(log.CatConfig, "loaded config file", "path", path)
	return cfg, nil
}
