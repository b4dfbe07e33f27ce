// Package clock runs the background world-clock ticker. Every tick
// advances the world time of all calendars whose clock is running,
// scaled by their configured ratio of game seconds per real second.
package clock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

// Ticker drives periodic world time advancement via a cron schedule.
type Ticker struct {
	svc      calendar.CalendarService
	interval time.Duration
	cron     *cron.Cron

	mu       sync.Mutex
	lastTick time.Time
}

// NewTicker creates a ticker that advances running calendars every
// interval.
func NewTicker(svc calendar.CalendarService, interval time.Duration) *Ticker {
	return &Ticker{
		svc:      svc,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start begins ticking in the background. Returns an error only if the
// schedule expression fails to parse, which would be a programming error.
func (t *Ticker) Start() error {
	t.mu.Lock()
	t.lastTick = time.Now()
	t.mu.Unlock()

	if _, err := t.cron.AddFunc(fmt.Sprintf("@every %s", t.interval), t.tick); err != nil {
		return fmt.Errorf("scheduling clock tick: %w", err)
	}
	t.cron.Start()

	slog.Info("world clock started", slog.Duration("interval", t.interval))
	return nil
}

// tick advances all running calendars by the real time elapsed since the
// previous tick. Measuring elapsed wall time (instead of assuming the
// interval) keeps clocks honest when a tick runs late under load.
func (t *Ticker) tick() {
	now := time.Now()
	t.mu.Lock()
	elapsed := now.Sub(t.lastTick)
	t.lastTick = now
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.interval)
	defer cancel()

	if err := t.svc.TickRunning(ctx, elapsed); err != nil {
		slog.Error("world clock tick failed", slog.Any("error", err))
	}
}

// Stop halts the ticker and waits for any in-flight tick to finish.
func (t *Ticker) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	slog.Info("world clock stopped")
}
