package daemon

import (
	"github.com/nowpeople/contact-sync/internal/engine"
	"github.com/nowpeople/contact-sync/internal/logger"
	"github.com/nowpeople/contact-sync/models"
)

// logObserver renders engine callbacks as structured log events. The UI
// layer of the host application replaces this with its own observer.
type logObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) engine.Observer {
	return &logObserver{log: log}
}

func (o *logObserver) OnStateChange(mode engine.SyncMode, oldState, newState engine.EngineState) {
	o.log.Debug().
		Str("mode", mode.String()).
		Str("from", oldState.String()).
		Str("to", newState.String()).
		Msg("sync state changed")
}

func (o *logObserver) OnProgress(state engine.EngineState, status models.SyncStatus) {
	o.log.Debug().
		Str("state", state.String()).
		Str("task", status.Task.String()).
		Int("percent", status.Percent).
		Int("done", status.Done).
		Int("total", status.Total).
		Str("contact", status.CurrentContactName).
		Msg("sync progress")
}

func (o *logObserver) OnSyncComplete(status engine.ServiceStatus, failureSummary string) {
	evt := o.log.Info().Str("status", status.String())
	if failureSummary != "" {
		evt = evt.Str("failures", failureSummary)
	}
	evt.Msg("sync complete")
}

func (o *logObserver) OnStoreRefresh() {
	o.log.Debug().Msg("contact list changed")
}
