// Package ephys provides indexed, on-demand access to electrophysiology
// recordings stored as compressed session archives, exposing them as tabular
// spike/cluster records keyed by recording group.
//
// Two lazy, finite-length sequences compose the public surface:
//
//   - SessionIndex enumerates sessions across an archive directory and an
//     extraction directory, extracts a session's archives on first access,
//     loads its metadata, and returns a GroupIndex scoped to the session.
//   - GroupIndex enumerates the groups within one extracted session and
//     parses (or loads a memoized copy of) each group's record set on access.
//
// Lengths are known up front from directory scans; element construction is
// deferred to access time and each access stands alone. Accesses have side
// effects on the shared directories: extraction is skipped when the session
// directory is already present, and parsed tables are memoized to
// COMPILED_<n>.csv files when Config.UseDisk is set, so repeated access is
// cheap but never guaranteed free.
//
//	cfg := ephys.DefaultConfig()
//	cfg.ArchiveDir = "/data/hc11"
//	sessions, err := ephys.New(cfg)
//	...
//	meta, groups, err := sessions.ByName("ratA_3")
//	...
//	_, spikes, err := groups.Group(1)
//
// The archive extractor, metadata loader, group parser and memoization
// store are interfaces with working defaults; tests and callers with other
// on-disk formats can replace them through Options.
package ephys
