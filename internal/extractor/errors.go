package extractor

import "errors"

var (
	// ErrNoResults indicates the search returned no entries.
	ErrNoResults = errors.New("no search results")
	// ErrBackendFailure indicates the extraction backend failed or timed out.
	ErrBackendFailure = errors.New("extraction backend failure")
	// ErrFileMissing indicates the backend reported success but the expected
	// artifact is absent, which points at a profile or path mismatch rather
	// than a content problem.
	ErrFileMissing = errors.New("downloaded file missing")
)
