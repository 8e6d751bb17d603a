package ephys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/neuralkit/ephys/internal/cachemanager"
	"github.com/neuralkit/ephys/internal/kk"
	"github.com/neuralkit/ephys/internal/log"
	"github.com/neuralkit/ephys/internal/sessinfo"
	"github.com/neuralkit/ephys/internal/tarball"
)

// SessionIndex enumerates the recording sessions available across the
// archive and extraction directories and hands out per-session GroupIndex
// values on access.
//
// The session list is fixed at construction; access is where the work
// happens. Looking up a session extracts its archives into the extraction
// directory (skipped when a directory entry with the session's name is
// already present), loads the session metadata, and builds a GroupIndex
// over the extracted files. Every operation blocks until complete and the
// index is not safe for concurrent use; callers needing concurrency must
// serialize access to the shared directories themselves.
//
// Note that the presence check is name-only: a prior extraction that
// failed midway still counts as extracted on the next access.
type SessionIndex struct {
	cfg   Config
	names []string

	extractor    Extractor
	metaLoader   MetadataLoader
	parser       GroupParser
	storeFactory func(sessionDir string) TableStore
	meta         *cachemanager.ReadThroughCache[string, Metadata, string]
}

// Option overrides a SessionIndex collaborator.
type Option func(*SessionIndex)

// WithExtractor replaces the tar.gz extractor.
func WithExtractor(e Extractor) Option {
	return func(x *SessionIndex) { x.extractor = e }
}

// WithMetadataLoader replaces the sessInfo loader.
func WithMetadataLoader(l MetadataLoader) Option {
	return func(x *SessionIndex) { x.metaLoader = l }
}

// WithGroupParser replaces the raw-format parser.
func WithGroupParser(p GroupParser) Option {
	return func(x *SessionIndex) { x.parser = p }
}

// WithTableStoreFactory replaces the per-session memoization backend.
func WithTableStoreFactory(f func(sessionDir string) TableStore) Option {
	return func(x *SessionIndex) { x.storeFactory = f }
}

// New builds a SessionIndex over cfg's directories. At least one directory
// must be set; when only one is given it serves as both archive source and
// extraction target. Construction scans the directories and resolves the
// deduplicated, sorted session name list; no extraction happens yet.
func New(cfg Config, opts ...Option) (*SessionIndex, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	x := &SessionIndex{
		cfg:          cfg,
		extractor:    tarExtractor{inner: tarball.New()},
		metaLoader:   yamlMetadataLoader{},
		parser:       kkParser{inner: kk.NewParser()},
		storeFactory: NewDiskTableStore,
	}
	for _, opt := range opts {
		opt(x)
	}

	names, err := scanSessions(cfg)
	if err != nil {
		return nil, err
	}
	x.names = names

	metaCache := cachemanager.NewInMemoryCacheManager[string, Metadata](
		"sessinfo", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	x.meta = cachemanager.NewReadThroughCache[string, Metadata, string](
		metaCache,
		func(path string) (Metadata, error) {
			meta, err := x.metaLoader.Load(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMetadataParse, err)
			}
			return meta, nil
		},
		false,
	)

	log.Info(log.CatIndex, "session index built",
		"archiveDir", cfg.ArchiveDir, "extractDir", cfg.ExtractDir, "sessions", len(names))
	return x, nil
}

// sessionNamePattern matches session archives and extracted session
// directories for the given archive extension: alphabetic prefix,
// underscore, numeric id, optional suffix tag, optional extension.
func sessionNamePattern(ext string) *regexp.Regexp {
	return regexp.MustCompile(`^[A-Za-z]+_[0-9]+(?:_eeg|_spk)?(?:` + regexp.QuoteMeta(ext) + `)?$`)
}

// scanSessions lists both directories and recovers the deduplicated,
// sorted canonical session names.
func scanSessions(cfg Config) ([]string, error) {
	pattern := sessionNamePattern(cfg.ArchiveExt)

	dirs := []string{cfg.ArchiveDir}
	if cfg.ExtractDir != cfg.ArchiveDir {
		dirs = append(dirs, cfg.ExtractDir)
	}

	seen := make(map[string]bool)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if !pattern.MatchString(name) {
				continue
			}
			canon := strings.TrimSuffix(name, cfg.ArchiveExt)
			canon = strings.TrimSuffix(canon, widebandTag)
			canon = strings.TrimSuffix(canon, waveformTag)
			seen[canon] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Len returns the number of distinct sessions.
func (x *SessionIndex) Len() int {
	return len(x.names)
}

// Names returns the canonical session names in index order.
func (x *SessionIndex) Names() []string {
	return slices.Clone(x.names)
}

// Position resolves a session name to its position.
// Returns ErrSessionNotFound for unknown names.
func (x *SessionIndex) Position(name string) (int, error) {
	pos := slices.Index(x.names, name)
	if pos < 0 {
		return 0, fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return pos, nil
}

// ByName accesses a session by canonical name. Equivalent to ByPosition at
// the name's position.
func (x *SessionIndex) ByName(name string) (Metadata, *GroupIndex, error) {
	pos, err := x.Position(name)
	if err != nil {
		return nil, nil, err
	}
	return x.ByPosition(pos)
}

// ByPosition accesses the session at pos: extracts its archives when absent
// from the extraction directory, loads its metadata, and returns the
// metadata with a GroupIndex over the extracted session directory.
func (x *SessionIndex) ByPosition(pos int) (Metadata, *GroupIndex, error) {
	if pos < 0 || pos >= len(x.names) {
		return nil, nil, fmt.Errorf("%w: position %d out of range [0,%d)", ErrSessionNotFound, pos, len(x.names))
	}
	name := x.names[pos]

	if err := x.extract(name); err != nil {
		return nil, nil, err
	}

	sessionDir := filepath.Join(x.cfg.ExtractDir, name)
	meta, err := x.meta.Get(name, sessinfo.PathFor(sessionDir, name), cachemanager.DefaultExpiration)
	if err != nil {
		return nil, nil, err
	}

	gi, err := newGroupIndex(sessionDir, meta, x.parser, x.storeFactory(sessionDir), ParseOptions{
		Waveforms:  x.cfg.Waveforms,
		Samples:    x.cfg.Samples,
		Channels:   x.cfg.Channels,
		SampleRate: SampleRate,
	}, x.cfg.UseDisk)
	if err != nil {
		return nil, nil, err
	}
	return meta, gi, nil
}

// extract unpacks the session's archives into the extraction directory
// unless an entry with the session's name is already present there. The
// primary archive is always extracted; the _spk archive follows when
// waveform inclusion is enabled.
func (x *SessionIndex) extract(name string) error {
	entries, err := os.ReadDir(x.cfg.ExtractDir)
	if err != nil {
		return fmt.Errorf("list %s: %w", x.cfg.ExtractDir, err)
	}
	for _, entry := range entries {
		if entry.Name() == name {
			log.Debug(log.CatExtract, "session already extracted", "session", name)
			return nil
		}
	}

	archives := []string{name + x.cfg.ArchiveExt}
	if x.cfg.Waveforms {
		archives = append(archives, name+waveformTag+x.cfg.ArchiveExt)
	}
	for _, archive := range archives {
		path := filepath.Join(x.cfg.ArchiveDir, archive)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrArchiveNotFound, path)
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := x.extractor.Extract(path, x.cfg.ExtractDir); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArchiveCorrupt, path, err)
		}
		log.Info(log.CatExtract, "extracted archive", "archive", path, "session", name)
	}
	return nil
}
