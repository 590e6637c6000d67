package engine

import "errors"

var (
	// ErrBadResponse flags a response that decoded but violates the
	// protocol: missing page count or revision anchor, a page arriving
	// out of order, or a count mismatch against the sent batch.
	ErrBadResponse = errors.New("protocol violation in backend response")

	// ErrCancelled is returned by processors that observe a cooperative
	// cancel mid-run.
	ErrCancelled = errors.New("sync cancelled")

	// ErrUnexpectedState is returned when a phase sequencer encounters a
	// state not covered by the active mode's transition table.
	ErrUnexpectedState = errors.New("unexpected sync state")
)
