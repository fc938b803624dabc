package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-agent-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/api"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-agent-go/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-agent-go/internal/store"
)

// State is the timer's position in its two-state machine.
type State int

const (
	// StateIdle means no open attendance session.
	StateIdle State = iota
	// StateRunning means an open session exists, anchored at the
	// server-recorded check-in instant.
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Timer tracks the user's open attendance session and drives the elapsed
// readout. The server record is authoritative: the timer only transitions on
// accepted server responses, and the elapsed clock is always anchored at the
// server check-in instant, never at client load time. Failures leave the
// state unchanged.
type Timer struct {
	api      attendance.Client
	store    *store.Store
	notifier notify.Notifier
	clock    clock.Clock
	logger   *slog.Logger

	tickEvery time.Duration

	mu          sync.Mutex
	state       State
	checkInAt   time.Time
	listener    func(elapsed time.Duration)
	cancelTick  context.CancelFunc
	wg          sync.WaitGroup
	warnedStale bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithTickInterval overrides the 1s elapsed tick, mainly for tests.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) { t.tickEvery = d }
}

func NewTimer(
	client attendance.Client,
	st *store.Store,
	notifier notify.Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Timer {
	t := &Timer{
		api:       client,
		store:     st,
		notifier:  notifier,
		clock:     clk,
		logger:    logger,
		tickEvery: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetListener registers the callback invoked with the recomputed elapsed
// duration on every tick. At most one listener is active.
func (t *Timer) SetListener(fn func(elapsed time.Duration)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}

// State returns the current machine state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Elapsed recomputes the elapsed duration from the anchored check-in
// instant, truncated to whole seconds. Zero while idle; never stored.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

func (t *Timer) elapsedLocked() time.Duration {
	if t.state != StateRunning {
		return 0
	}
	d := t.clock.Now().Sub(t.checkInAt)
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second)
}

// Initialize reconciles the timer with the server-persisted session on load.
// An open daily log transitions the timer to Running using the server's
// check-in time, so the elapsed clock survives restarts. Unclosed sessions
// from prior days surface a one-time informational warning; the server
// auto-closes those, so nothing is blocked here.
func (t *Timer) Initialize(ctx context.Context, userID string) error {
	log, err := t.api.DailyLog(ctx, userID)
	switch {
	case errors.Is(err, attendance.ErrNoDailyLog):
		// Nothing recorded today; stay idle.
	case err != nil:
		t.logger.Error("failed to load daily log", "user_id", userID, "error", err)
		t.notifier.Notify(notify.Notification{
			Level:   notify.LevelError,
			Message: "Could not load today's attendance",
		})
		return fmt.Errorf("failed to load daily log: %w", err)
	case log.Open():
		t.store.SetSession(log)
		t.start(log.CheckInTime)
	}

	hasOpen, err := t.api.OpenSessions(ctx)
	if err != nil {
		// Informational path only; log and move on.
		t.logger.Warn("failed to check open sessions", "error", err)
		return nil
	}

	t.mu.Lock()
	shouldWarn := hasOpen && !t.warnedStale
	if shouldWarn {
		t.warnedStale = true
	}
	t.mu.Unlock()

	if shouldWarn {
		t.notifier.Notify(notify.Notification{
			Level:   notify.LevelWarning,
			Message: "You have unclosed sessions from previous days",
		})
	}

	return nil
}

// CheckIn opens a session. A no-op while already running, so overlapping
// clicks never fire a second request from this guard's side.
func (t *Timer) CheckIn(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateRunning {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	result, err := t.api.CheckIn(ctx)
	if err != nil {
		t.logger.Error("check-in failed", "error", err)
		t.notifier.Notify(notify.Notification{
			Level:   notify.LevelError,
			Message: failureMessage(err, "Check-in failed"),
		})
		return fmt.Errorf("check-in failed: %w", err)
	}

	t.store.SetSession(result.Session)
	t.start(result.Session.CheckInTime)
	t.notifier.Notify(notify.Notification{
		Level:   notify.LevelSuccess,
		Message: result.Message,
	})
	return nil
}

// CheckOut closes the open session. A no-op while idle. On success the
// elapsed readout resets to zero and the tick interval is torn down.
func (t *Timer) CheckOut(ctx context.Context) error {
	t.mu.Lock()
	if t.state == StateIdle {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	message, err := t.api.CheckOut(ctx)
	if err != nil {
		t.logger.Error("check-out failed", "error", err)
		t.notifier.Notify(notify.Notification{
			Level:   notify.LevelError,
			Message: failureMessage(err, "Check-out failed"),
		})
		return fmt.Errorf("check-out failed: %w", err)
	}

	t.mu.Lock()
	t.state = StateIdle
	t.checkInAt = time.Time{}
	t.stopTickLocked()
	t.mu.Unlock()

	t.store.ClearSession()
	t.notifier.Notify(notify.Notification{
		Level:   notify.LevelSuccess,
		Message: message,
	})
	return nil
}

// Stop tears the timer down on unmount. Any in-flight request settles on its
// own; its late response is dropped by the usual no-op guards.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopTickLocked()
	t.mu.Unlock()
	t.wg.Wait()
}

// start transitions to Running anchored at the server instant and (re)arms
// the tick loop.
func (t *Timer) start(checkInAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateRunning
	t.checkInAt = checkInAt

	// One interval per running view; replace, never stack.
	t.stopTickLocked()
	ctx, cancel := context.WithCancel(context.Background())
	t.cancelTick = cancel
	t.wg.Add(1)
	go t.runTick(ctx)
}

func (t *Timer) stopTickLocked() {
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
}

func (t *Timer) runTick(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			elapsed := t.elapsedLocked()
			listener := t.listener
			running := t.state == StateRunning
			t.mu.Unlock()
			if running && listener != nil {
				listener(elapsed)
			}
		}
	}
}

// FormatElapsed renders a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// failureMessage prefers the server-provided message over a generic one.
func failureMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn):
		return err.Error()
	}
	return fallback
}
