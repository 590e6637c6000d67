// Package daemon hosts the sync engine: it owns the single worker
// goroutine the orchestrator contract requires and translates between
// the outside world (transport responses, OS signals, sync requests)
// and the engine's tick-driven scheduling.
package daemon

import (
	"context"
	"time"

	"github.com/nowpeople/contact-sync/internal/adapter"
	"github.com/nowpeople/contact-sync/internal/engine"
	"github.com/nowpeople/contact-sync/internal/logger"
)

// Daemon drives one Orchestrator. All engine code runs on the goroutine
// executing Run; RequestSync and Cancel may be called from anywhere and
// only post work.
type Daemon struct {
	orch      *engine.Orchestrator
	transport adapter.Transport
	log       *logger.Logger

	kick chan struct{}
}

func New(orch *engine.Orchestrator, transport adapter.Transport, log *logger.Logger) *Daemon {
	return &Daemon{
		orch:      orch,
		transport: transport,
		log:       log,
		kick:      make(chan struct{}, 1),
	}
}

// RequestSync queues a session and wakes the worker.
func (d *Daemon) RequestSync(mode engine.SyncMode) {
	d.orch.RequestSync(mode)
	d.wake()
}

// Cancel requests cooperative cancellation of the running session.
func (d *Daemon) Cancel(removeUserData bool) {
	d.orch.Cancel(removeUserData)
	d.wake()
}

// Wake nudges the worker without queueing anything; used by change
// listeners whose flags the orchestrator reads on its next tick.
func (d *Daemon) Wake() { d.wake() }

func (d *Daemon) wake() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Run is the worker loop. It asks the orchestrator when it next wants to
// run, sleeps until then (or until a response or request arrives) and
// invokes one scheduling tick. Returns when ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info().Msg("sync daemon started")

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		next := d.orch.NextRunTime()
		if next == 0 {
			if ctx.Err() != nil {
				return nil
			}
			d.orch.Run(ctx)
			continue
		}

		var timerC <-chan time.Time
		if next != engine.NoPendingWork {
			timer.Reset(next)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			d.log.Info().Msg("sync daemon stopping")
			return nil
		case resp := <-d.transport.Responses():
			d.orch.HandleResponse(resp)
		case <-d.kick:
		case <-timerC:
		}

		if timerC != nil && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}
