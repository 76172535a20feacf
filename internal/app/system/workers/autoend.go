// internal/app/system/workers/autoend.go
package workers

import (
	"context"
	"sync"
	"time"

	meetingstore "github.com/bmsit/facultymeet/internal/app/store/meetings"
	"github.com/bmsit/facultymeet/internal/app/system/lifecycle"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AutoEnd is the background worker that completes meetings past their
// natural end. It evaluates wall-clock time in a fixed zone; ticks that are
// missed while the process is down are not replayed.
type AutoEnd struct {
	meetings *meetingstore.Store
	log      *zap.Logger
	interval time.Duration
	loc      *time.Location
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewAutoEnd creates the auto-end sweep worker.
//
// Parameters:
//   - store: the meetings store
//   - logger: zap logger
//   - interval: how often to sweep (5 minutes in production)
//   - loc: the zone sweep decisions are evaluated in
func NewAutoEnd(store *meetingstore.Store, logger *zap.Logger, interval time.Duration, loc *time.Location) *AutoEnd {
	return &AutoEnd{
		meetings: store,
		log:      logger,
		interval: interval,
		loc:      loc,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (w *AutoEnd) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("auto-end worker started",
		zap.Duration("interval", w.interval),
		zap.String("zone", w.loc.String()))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AutoEnd) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("auto-end worker stopped")
}

func (w *AutoEnd) run() {
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

// sweep is one pass over the in-progress meetings. A failure evaluating
// one meeting is logged and does not stop the rest; all matched meetings
// are flipped in a single batched write.
func (w *AutoEnd) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().In(w.loc)

	due, err := w.meetings.ActiveDue(ctx, now)
	if err != nil {
		w.log.Error("auto-end sweep: query failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	var toEnd []primitive.ObjectID
	for _, m := range due {
		if m.Start.IsZero() {
			w.log.Warn("auto-end sweep: skipping meeting with no start time",
				zap.String("meeting_id", m.ID.Hex()))
			continue
		}
		if lifecycle.SweepShouldEnd(m.Start.In(w.loc), now) {
			toEnd = append(toEnd, m.ID)
		}
	}
	if len(toEnd) == 0 {
		return
	}

	count, err := w.meetings.CompleteMeetings(ctx, toEnd, now)
	if err != nil {
		w.log.Error("auto-end sweep: batch update failed", zap.Error(err))
		return
	}
	w.log.Info("auto-ended meetings", zap.Int64("count", count))
}
