package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/fipscore/internal/score"
	"github.com/google/uuid"
)

// DefaultDebounce is how long a score must stay unchanged before it is counted.
const DefaultDebounce = 2 * time.Second

// Stats is a snapshot of the persisted and session counters.
type Stats struct {
	TotalCalculations   int64 `json:"total_calculations"`
	FIPSuspicions       int64 `json:"fip_suspicions"`
	SessionCalculations int64 `json:"session_calculations"`
	SessionSuspicions   int64 `json:"session_suspicions"`
	LastScore           int64 `json:"last_score"`
}

// Tracker counts calculations. Zero scores and a score equal to the last
// tracked one are not counted. Store and sink failures are logged and
// never surface to the caller of Observe.
type Tracker struct {
	store     Store
	sink      EventSink
	log       *slog.Logger
	delay     time.Duration
	sessionID string

	mu           sync.Mutex
	timer        *time.Timer
	gen          uint64
	pending      int
	hasPending   bool
	lastTracked  int
	hasTracked   bool
	started      bool
	sessionCalcs int64
	sessionSusp  int64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDebounce sets the debounce delay. Zero or less records immediately.
func WithDebounce(d time.Duration) Option { return func(t *Tracker) { t.delay = d } }

// WithSink sets the event sink.
func WithSink(s EventSink) Option { return func(t *Tracker) { t.sink = s } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(t *Tracker) { t.log = l } }

// NewTracker returns a Tracker writing to store.
func NewTracker(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		delay:     DefaultDebounce,
		log:       slog.Default(),
		sessionID: uuid.NewString(),
	}
	for _, o := range opts {
		o(t)
	}
	if t.sink == nil {
		t.sink = LogSink{Logger: t.log}
	}
	return t
}

// SessionID identifies this tracker's session.
func (t *Tracker) SessionID() string { return t.sessionID }

// StartSession emits the session-start event once per tracker.
func (t *Tracker) StartSession(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.emit(ctx, EventSessionStart, 0)
}

// Observe reports the current score. It replaces any pending score.
func (t *Tracker) Observe(ctx context.Context, s int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	if t.hasTracked && s == t.lastTracked {
		return
	}
	if t.delay <= 0 {
		t.recordLocked(ctx, s)
		return
	}
	t.pending, t.hasPending = s, true
	gen := t.gen
	t.timer = time.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Flush records the pending score, if any, without waiting.
func (t *Tracker) Flush(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushLocked(ctx)
}

// Close flushes the pending score.
func (t *Tracker) Close(ctx context.Context) {
	t.Flush(ctx)
}

func (t *Tracker) fire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.flushLocked(context.Background())
}

func (t *Tracker) flushLocked(ctx context.Context) {
	if !t.hasPending {
		return
	}
	s := t.pending
	t.cancelLocked()
	t.recordLocked(ctx, s)
}

func (t *Tracker) cancelLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.hasPending = false
}

func (t *Tracker) recordLocked(ctx context.Context, s int) {
	if s == 0 {
		return
	}
	t.lastTracked, t.hasTracked = s, true
	t.sessionCalcs++
	t.emit(ctx, EventCalculation, s)

	suspected := s >= score.Threshold
	if suspected {
		t.sessionSusp++
		t.emit(ctx, EventSuspicion, s)
		t.log.DebugContext(ctx, "suspicion tracked", "score", s)
	}

	if err := t.persist(ctx, s, suspected); err != nil {
		t.log.WarnContext(ctx, "usage counters not updated", "error", err)
		return
	}
	t.log.DebugContext(ctx, "calculation tracked", "score", s)
}

func (t *Tracker) persist(ctx context.Context, s int, suspected bool) error {
	if _, err := t.store.Increment(ctx, KeyTotalCalculations, 1); err != nil {
		return err
	}
	if suspected {
		if _, err := t.store.Increment(ctx, KeyFIPSuspicions, 1); err != nil {
			return err
		}
	}
	return t.store.Set(ctx, KeyLastScore, int64(s))
}

func (t *Tracker) emit(ctx context.Context, name string, s int) {
	e := Event{Name: name, SessionID: t.sessionID, Score: s, At: time.Now().UTC()}
	if err := t.sink.Send(ctx, e); err != nil {
		t.log.DebugContext(ctx, "usage event not sent", "event", name, "error", err)
	}
}

// Stats returns the persisted counters with this session's counters.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	t.mu.Lock()
	st := Stats{SessionCalculations: t.sessionCalcs, SessionSuspicions: t.sessionSusp}
	t.mu.Unlock()

	var err error
	if st.TotalCalculations, err = t.store.Get(ctx, KeyTotalCalculations); err != nil {
		return st, fmt.Errorf("usage.Stats: %w", err)
	}
	if st.FIPSuspicions, err = t.store.Get(ctx, KeyFIPSuspicions); err != nil {
		return st, fmt.Errorf("usage.Stats: %w", err)
	}
	if st.LastScore, err = t.store.Get(ctx, KeyLastScore); err != nil {
		return st, fmt.Errorf("usage.Stats: %w", err)
	}
	return st, nil
}

// ResetStats clears the persisted and session counters and drops any
// pending score.
func (t *Tracker) ResetStats(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	if err := t.store.Reset(ctx); err != nil {
		return fmt.Errorf("usage.ResetStats: %w", err)
	}
	t.sessionCalcs, t.sessionSusp = 0, 0
	t.hasTracked = false
	t.log.DebugContext(ctx, "stats reset")
	return nil
}
