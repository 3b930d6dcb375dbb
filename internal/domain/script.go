package domain

import "context"

// ScriptProcess is a handle to one live download-mode invocation of the
// external script. Events yields stream events in the order the process
// produced them and is closed once the process has fully exited.
type ScriptProcess interface {
	// Events returns the event channel for this run. After a natural exit
	// the last event is a complete event; after Kill the channel just closes.
	Events() <-chan StreamEvent

	// Kill terminates the process immediately. No complete event is emitted
	// for a killed run.
	Kill() error
}

// ScriptLauncher starts the external script in streaming download mode
type ScriptLauncher interface {
	Start(args []string) (ScriptProcess, error)
}

// SearchRunner runs the external script in search-only mode to completion,
// returning its buffered stdout and stderr. The returned error wraps
// ErrSpawn when the process could not be launched and ErrScriptFailed when
// it exited nonzero.
type SearchRunner interface {
	Search(ctx context.Context, query string) (stdout []byte, stderr []byte, err error)
}
