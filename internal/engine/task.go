package engine

import (
	"context"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
)

// processor is the resumable-task contract every sync phase implements.
// Tick advances one bounded unit of work and reports whether the run is
// complete; suspension (waiting for a response or a timeout) is expressed
// by returning not-done with a pending request or timeout recorded on the
// embedded baseTask.
type processor interface {
	Tick(ctx context.Context) (done bool, err error)
	Result() ServiceStatus
	Cancel()

	// NextRunIn reports when the processor wants its next tick: (0, true)
	// for "as soon as possible", (d, true) for a pending timeout, and
	// (0, false) when it is suspended waiting on a response.
	NextRunIn(now time.Time) (time.Duration, bool)
}

// baseTask carries the bookkeeping shared by all processors: the terminal
// result, the cooperative cancel flag, the single pending timeout and the
// id of the in-flight request, if any.
//
// A processor has at most one pending timeout; setting a new one replaces
// the previous one (last-write-wins, never stacked).
type baseTask struct {
	result    ServiceStatus
	cancelled bool

	hasTimeout bool
	timeoutAt  time.Time

	pendingRequest adapter.RequestID
}

func (t *baseTask) Result() ServiceStatus { return t.result }

// finish records the terminal status derived from err and reports the
// run complete. Every processor's Tick funnels its exits through here.
func (t *baseTask) finish(err error) (bool, error) {
	t.result = StatusFromError(err)
	t.hasTimeout = false
	t.pendingRequest = ""
	return true, err
}

func (t *baseTask) Cancel() { t.cancelled = true }

func (t *baseTask) isCancelled() bool { return t.cancelled }

// setTimeout schedules the next tick after d, replacing any pending
// timeout. A zero duration means "as soon as possible, but let other work
// run first".
func (t *baseTask) setTimeout(now time.Time, d time.Duration) {
	t.hasTimeout = true
	t.timeoutAt = now.Add(d)
}

func (t *baseTask) clearTimeout() { t.hasTimeout = false }

// awaitResponse suspends the processor until the response with the given
// id arrives.
func (t *baseTask) awaitResponse(id adapter.RequestID) {
	t.pendingRequest = id
}

func (t *baseTask) awaiting() bool { return t.pendingRequest != "" }

// NextRunIn implements the scheduling half of the processor contract.
func (t *baseTask) NextRunIn(now time.Time) (time.Duration, bool) {
	if t.awaiting() {
		return 0, false
	}
	if t.hasTimeout {
		d := t.timeoutAt.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, true
}

// responseBuffer holds decoded transport responses until the awaiting
// processor consumes them. Responses may arrive in any order; matching is
// strictly by request id. The buffer is only touched from the engine's
// worker, so it needs no locking.
type responseBuffer struct {
	byID map[adapter.RequestID]adapter.Response
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{byID: make(map[adapter.RequestID]adapter.Response)}
}

func (b *responseBuffer) Put(r adapter.Response) {
	b.byID[r.ID] = r
}

func (b *responseBuffer) Take(id adapter.RequestID) (adapter.Response, bool) {
	r, ok := b.byID[id]
	if ok {
		delete(b.byID, id)
	}
	return r, ok
}

func (b *responseBuffer) Len() int { return len(b.byID) }

// DiscardAll empties the buffer and returns the dropped ids. Used when no
// processor is left to consume them; a lingering response would otherwise
// keep the scheduler asking for an immediate run forever.
func (b *responseBuffer) DiscardAll() []adapter.RequestID {
	var dropped []adapter.RequestID
	for id := range b.byID {
		delete(b.byID, id)
		dropped = append(dropped, id)
	}
	return dropped
}

// takeResponse resolves a processor's pending request against the buffer.
// Returns ok=false while the response has not arrived yet.
func (t *baseTask) takeResponse(buf *responseBuffer) (adapter.Response, bool) {
	if !t.awaiting() {
		return adapter.Response{}, false
	}
	resp, ok := buf.Take(t.pendingRequest)
	if ok {
		t.pendingRequest = ""
	}
	return resp, ok
}
