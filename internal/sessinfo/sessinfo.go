// Package sessinfo loads per-session auxiliary metadata from the
// <name>_sessInfo.yaml file inside an extracted session directory.
package sessinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/neuralkit/ephys/internal/log"
)

// Suffix is appended to a session name to form its metadata file name.
const Suffix = "_sessInfo.yaml"

// PathFor returns the metadata file path for a session inside its extracted
// directory.
func PathFor(sessionDir, session string) string {
	return filepath.Join(sessionDir, session+Suffix)
}

// Load reads a metadata file into a nested key/value structure.
func Load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var meta map[string]any
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	log.Debug(log.CatMeta, "loaded session metadata", "path", path, "keys", len(meta))
	return meta, nil
}
