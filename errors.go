package ephys

import "errors"

// Error kinds surfaced by the loaders. Failures are classified with
// fmt.Errorf("%w: ...") wrapping and matched with errors.Is; no retries are
// attempted anywhere and filesystem errors propagate wrapped in the closest
// kind.
var (
	// ErrConfig reports invalid construction arguments.
	ErrConfig = errors.New("invalid configuration")

	// ErrUnsupportedFeature reports a request for wideband (eeg) archive
	// inclusion, which cannot be extracted yet.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrSessionNotFound reports an unknown session name or an
	// out-of-range session position.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGroupNotFound reports an out-of-range group id.
	ErrGroupNotFound = errors.New("group not found")

	// ErrArchiveNotFound reports a session archive missing from the
	// archive directory at extraction time.
	ErrArchiveNotFound = errors.New("archive not found")

	// ErrArchiveCorrupt reports a gzip or tar failure while extracting.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrMetadataParse reports an unreadable or malformed session
	// metadata file.
	ErrMetadataParse = errors.New("metadata parse failure")

	// ErrRawParse reports missing or malformed per-group raw files, or a
	// memoized table that cannot be read back.
	ErrRawParse = errors.New("raw parse failure")
)
