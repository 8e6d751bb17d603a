package ephys

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/neuralkit/ephys/internal/kk"
	"github.com/neuralkit/ephys/internal/log"
	"github.com/neuralkit/ephys/table"
)

// GroupIndex enumerates the recording groups within one extracted session
// directory and parses their tabular record sets on access.
//
// The group count is fixed at construction from the distinct group-number
// tokens among the raw files; group ids run 1..Len(). Access returns the
// session metadata together with the group's table, loading a memoized
// table from the store when disk memoization is enabled and parsing the
// raw files otherwise. A memoized table, once present, is authoritative;
// the raw files are not consulted again for that group.
type GroupIndex struct {
	dir       string
	meta      Metadata
	numGroups int
	parser    GroupParser
	store     TableStore
	opt       ParseOptions
	useDisk   bool
}

func newGroupIndex(dir string, meta Metadata, parser GroupParser, store TableStore, opt ParseOptions, useDisk bool) (*GroupIndex, error) {
	groups, err := kk.Groups(dir)
	if err != nil {
		return nil, fmt.Errorf("scan session directory: %w", err)
	}
	return &GroupIndex{
		dir:       dir,
		meta:      meta,
		numGroups: len(groups),
		parser:    parser,
		store:     store,
		opt:       opt,
		useDisk:   useDisk,
	}, nil
}

// Len returns the number of groups.
func (g *GroupIndex) Len() int {
	return g.numGroups
}

// Dir returns the extracted session directory this index reads from.
func (g *GroupIndex) Dir() string {
	return g.dir
}

// Metadata returns the session metadata passed through with every group.
func (g *GroupIndex) Metadata() Metadata {
	return g.meta
}

// Group accesses the 1-based group id and returns the session metadata with
// the group's record set. With disk memoization on, a stored table is the
// fast path; otherwise the raw files are parsed and, with memoization on,
// the result is persisted before returning.
func (g *GroupIndex) Group(id int) (Metadata, *table.Table, error) {
	if id < 1 || id > g.numGroups {
		return nil, nil, fmt.Errorf("%w: group %d out of range [1,%d]", ErrGroupNotFound, id, g.numGroups)
	}

	if g.useDisk && g.store.Contains(id) {
		t, err := g.store.Load(id)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: memoized table for group %d: %w", ErrRawParse, id, err)
		}
		log.Debug(log.CatCache, "loaded memoized table", "dir", g.dir, "group", id, "rows", t.Len())
		return g.meta, t, nil
	}

	t, err := g.parser.ParseGroup(g.dir, id, g.opt)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: group %d: %w", ErrRawParse, id, err)
	}

	if g.useDisk {
		if err := g.store.Store(id, t); err != nil {
			return nil, nil, fmt.Errorf("store table for group %d: %w", id, err)
		}
		log.Debug(log.CatCache, "memoized table", "dir", g.dir, "group", id, "rows", t.Len())
	}
	return g.meta, t, nil
}

// NewDiskTableStore returns the default TableStore: COMPILED_<n>.csv files
// inside the session directory, written and read with the table CSV codec.
func NewDiskTableStore(sessionDir string) TableStore {
	return &diskTableStore{dir: sessionDir}
}

type diskTableStore struct {
	dir string
}

func (s *diskTableStore) path(group int) string {
	return filepath.Join(s.dir, fmt.Sprintf("COMPILED_%d.csv", group))
}

func (s *diskTableStore) Contains(group int) bool {
	info, err := os.Stat(s.path(group))
	return err == nil && info.Mode().IsRegular()
}

func (s *diskTableStore) Load(group int) (*table.Table, error) {
	return table.ReadFile(s.path(group))
}

func (s *diskTableStore) Store(group int, t *table.Table) error {
	return table.WriteFile(s.path(group), t)
}
