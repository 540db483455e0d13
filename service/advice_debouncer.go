package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"payoff-engine/domain"
)

var ErrDebouncerStopped = errors.New("advice debouncer stopped")

const (
	// DefaultAdviceSessionTTL applies when no retention is configured.
	DefaultAdviceSessionTTL = time.Hour
	maxAdviceSweepEvery     = 5 * time.Minute
)

type adviceSource interface {
	GetAdvice(ctx context.Context, data any, contextLabel string) string
}

type adviceTask struct {
	cancel   context.CancelFunc
	status   domain.AdviceStatus
	finished time.Time
}

// AdviceDebouncer runs at most one advice request per session. A submission
// waits for the delay before calling the advisor; a newer submission with
// different content cancels it, and one with the same content is ignored.
// Ready sessions are dropped once they have been idle for the retention
// period; pending ones are kept until they finish.
type AdviceDebouncer struct {
	advice    adviceSource
	delay     time.Duration
	retention time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*adviceTask
	stopped  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAdviceDebouncer(advice adviceSource, delay, retention time.Duration) *AdviceDebouncer {
	d := newAdviceDebouncer(advice, delay, retention, time.Now)
	d.wg.Add(1)
	go d.sweepLoop()
	return d
}

func newAdviceDebouncer(advice adviceSource, delay, retention time.Duration, now func() time.Time) *AdviceDebouncer {
	if retention <= 0 {
		retention = DefaultAdviceSessionTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AdviceDebouncer{
		advice:    advice,
		delay:     delay,
		retention: retention,
		now:       now,
		sessions:  make(map[string]*adviceTask),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (d *AdviceDebouncer) sweepLoop() {
	defer d.wg.Done()

	ticker := time.NewTicker(min(d.retention, maxAdviceSweepEvery))
	defer ticker.Stop()
	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			d.sweep()
		}
	}
}

// sweep forgets ready sessions that finished more than retention ago.
func (d *AdviceDebouncer) sweep() {
	cutoff := d.now().Add(-d.retention)

	d.mu.Lock()
	defer d.mu.Unlock()
	for session, task := range d.sessions {
		if task.status.State == domain.AdviceReady && task.finished.Before(cutoff) {
			delete(d.sessions, session)
		}
	}
}

// Submit schedules advice for req under session and returns immediately. An
// empty session is replaced by the request fingerprint.
func (d *AdviceDebouncer) Submit(session string, req domain.AdviceRequest) (domain.AdviceStatus, error) {
	fp, err := Fingerprint(req.Data, req.Context)
	if err != nil {
		return domain.AdviceStatus{}, err
	}
	if session == "" {
		session = fp
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return domain.AdviceStatus{}, ErrDebouncerStopped
	}

	if existing, ok := d.sessions[session]; ok {
		if existing.status.Fingerprint == fp {
			return existing.status, nil
		}
		existing.cancel()
	}

	ctx, cancel := context.WithCancel(d.ctx)
	task := &adviceTask{
		cancel: cancel,
		status: domain.AdviceStatus{
			Session:     session,
			State:       domain.AdvicePending,
			Fingerprint: fp,
		},
	}
	d.sessions[session] = task

	d.wg.Add(1)
	go d.run(ctx, session, task, req)

	return task.status, nil
}

func (d *AdviceDebouncer) run(ctx context.Context, session string, task *adviceTask, req domain.AdviceRequest) {
	defer d.wg.Done()

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	text := d.advice.GetAdvice(ctx, req.Data, req.Context)

	d.mu.Lock()
	defer d.mu.Unlock()

	// Superseded while the advisor was running.
	if ctx.Err() != nil || d.sessions[session] != task {
		return
	}
	task.status.State = domain.AdviceReady
	task.status.Text = text
	task.finished = d.now()
}

// Status reports the latest state for session.
func (d *AdviceDebouncer) Status(session string) domain.AdviceStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	task, ok := d.sessions[session]
	if !ok {
		return domain.AdviceStatus{Session: session, State: domain.AdviceUnknown}
	}
	return task.status
}

// Stop cancels every pending task and the sweeper, and waits for them to exit.
func (d *AdviceDebouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}
