// internal/app/system/workers/startnotify.go
package workers

import (
	"context"
	"sync"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"github.com/bmsit/facultymeet/internal/app/system/notify"
	"go.uber.org/zap"
)

// StartNotify watches for meetings whose start falls inside the
// now ± lifecycle.StartWindow band and announces them to their audience.
// The check is level-triggered each tick; the StartNotifiedAt marker on the
// meeting keeps a start that lingers in the window from re-firing.
type StartNotify struct {
	meetings *meetingstore.Store
	notifier *notify.Service
	log      *zap.Logger
	interval time.Duration
	loc      *time.Location
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewStartNotify creates the start-window notifier worker (1 minute
// interval in production, finer-grained than the auto-end sweep).
func NewStartNotify(store *meetingstore.Store, notifier *notify.Service, logger *zap.Logger, interval time.Duration, loc *time.Location) *StartNotify {
	return &StartNotify{
		meetings: store,
		notifier: notifier,
		log:      logger,
		interval: interval,
		loc:      loc,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the notifier loop.
func (w *StartNotify) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("start-window notifier started",
		zap.Duration("interval", w.interval),
		zap.Duration("window", lifecycle.StartWindow))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *StartNotify) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("start-window notifier stopped")
}

func (w *StartNotify) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *StartNotify) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().In(w.loc)
	lo := now.Add(-lifecycle.StartWindow)
	hi := now.Add(lifecycle.StartWindow)

	starting, err := w.meetings.ActiveStartingBetween(ctx, lo, hi)
	if err != nil {
		w.log.Error("start notifier: query failed", zap.Error(err))
		return
	}

	for _, m := range starting {
		// One meeting's failure must not stop the rest of the sweep.
		ev := lifecycle.StartingNowEvent(m)
		if err := w.notifier.Dispatch(ctx, m, ev); err != nil {
			w.log.Error("start notifier: dispatch failed",
				zap.String("meeting_id", m.ID.Hex()), zap.Error(err))
			continue
		}
		if err := w.meetings.MarkStartNotified(ctx, m.ID, now); err != nil {
			w.log.Warn("start notifier: failed to mark meeting notified",
				zap.String("meeting_id", m.ID.Hex()), zap.Error(err))
		}
	}
}
