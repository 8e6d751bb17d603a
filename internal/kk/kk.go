// Package kk parses spike-sorted recording groups stored in the classic
// clu/res/fet/spk file family.
//
// A session directory holds one file set per group, named
// <prefix>_<id>.<kind>.<groupnum>:
//
//	.clu – line 1 is the cluster count, then one cluster id per spike
//	.res – one spike time per line, in ticks of the acquisition clock
//	.fet – line 1 is the feature count, then one feature vector per spike
//	.spk – little-endian int16 waveform window per spike, interleaved
//	       channel-first within each sample
//
// Cluster ids 0 and 1 conventionally mark noise and unsortable spikes; they
// are parsed like any other cluster and left to the caller to exclude.
package kk

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// groupFilePattern matches per-group raw files and captures the kind and
// group number.
var groupFilePattern = regexp.MustCompile(`^[A-Za-z]+_[0-9]+\.(clu|res|fet|spk)\.([0-9]+)$`)

// Groups returns the distinct group numbers found among raw files in dir,
// sorted ascending.
func Groups(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	seen := make(map[int]bool)
	for _, entry := range entries {
		m := groupFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("group token in %s: %w", entry.Name(), err)
		}
		seen[n] = true
	}

	groups := make([]int, 0, len(seen))
	for n := range seen {
		groups = append(groups, n)
	}
	slices.Sort(groups)
	return groups, nil
}

// groupFile locates the raw file of the given kind for a group. The prefix
// varies per session, so the directory listing is matched rather than a
// constructed name.
func groupFile(dir string, group int, kind string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", dir, err)
	}

	suffix := fmt.Sprintf(".%s.%d", kind, group)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, suffix) && groupFilePattern.MatchString(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("no %s file for group %d in %s", kind, group, dir)
}
