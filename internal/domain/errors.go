package domain

import "errors"

// Sentinel errors for the supervisor and search services. Handlers map these
// to HTTP status codes and JSON envelopes at the edge.
var (
	// ErrDownloadActive means the single global download slot is occupied.
	ErrDownloadActive = errors.New("a download is already in progress")

	// ErrEmptyQuery means a search was attempted with a blank query.
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrSpawn means the OS failed to launch the external script.
	ErrSpawn = errors.New("failed to start downloader script")

	// ErrScriptFailed means the script exited with a nonzero code.
	ErrScriptFailed = errors.New("downloader script failed")

	// ErrResultParse means search-only output was not valid JSON.
	ErrResultParse = errors.New("Failed to parse search results")
)
