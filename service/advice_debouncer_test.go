package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoff-engine/domain"
)

type echoSource struct {
	mu    sync.Mutex
	calls []string
}

func (e *echoSource) GetAdvice(_ context.Context, data any, contextLabel string) string {
	text := fmt.Sprintf("%s: %v", contextLabel, data)
	e.mu.Lock()
	e.calls = append(e.calls, text)
	e.mu.Unlock()
	return text
}

func (e *echoSource) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// blockingSource holds every call until its context is cancelled.
type blockingSource struct {
	started chan struct{}
}

func (b *blockingSource) GetAdvice(ctx context.Context, _ any, _ string) string {
	b.started <- struct{}{}
	<-ctx.Done()
	return "late"
}

func TestDebouncer_ReadyAfterDelay(t *testing.T) {
	source := &echoSource{}
	d := NewAdviceDebouncer(source, 10*time.Millisecond, time.Hour)
	defer d.Stop()

	status, err := d.Submit("s1", domain.AdviceRequest{Context: "plan", Data: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.AdvicePending, status.State)
	assert.Equal(t, "s1", status.Session)
	assert.NotEmpty(t, status.Fingerprint)

	require.Eventually(t, func() bool {
		return d.Status("s1").State == domain.AdviceReady
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "plan: 1", d.Status("s1").Text)
}

func TestDebouncer_SameContentIsNoop(t *testing.T) {
	source := &echoSource{}
	d := NewAdviceDebouncer(source, 20*time.Millisecond, time.Hour)
	defer d.Stop()

	req := domain.AdviceRequest{Context: "plan", Data: map[string]any{"budget": 600}}
	first, err := d.Submit("s", req)
	require.NoError(t, err)
	second, err := d.Submit("s", req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.Eventually(t, func() bool {
		return d.Status("s").State == domain.AdviceReady
	}, time.Second, 5*time.Millisecond)

	again, err := d.Submit("s", req)
	require.NoError(t, err)
	assert.Equal(t, domain.AdviceReady, again.State)
	assert.Equal(t, 1, source.count())
}

func TestDebouncer_NewContentSupersedes(t *testing.T) {
	source := &echoSource{}
	d := NewAdviceDebouncer(source, 50*time.Millisecond, time.Hour)
	defer d.Stop()

	_, err := d.Submit("s", domain.AdviceRequest{Context: "plan", Data: "old"})
	require.NoError(t, err)
	_, err = d.Submit("s", domain.AdviceRequest{Context: "plan", Data: "new"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return d.Status("s").State == domain.AdviceReady
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "plan: new", d.Status("s").Text)
	assert.Equal(t, 1, source.count())
}

func TestDebouncer_InFlightResultDiscarded(t *testing.T) {
	source := &blockingSource{started: make(chan struct{}, 1)}
	d := NewAdviceDebouncer(source, 0, time.Hour)

	_, err := d.Submit("s", domain.AdviceRequest{Context: "plan", Data: "old"})
	require.NoError(t, err)
	<-source.started

	next, err := d.Submit("s", domain.AdviceRequest{Context: "plan", Data: "new"})
	require.NoError(t, err)
	<-source.started

	d.Stop()
	status := d.Status("s")
	assert.Equal(t, domain.AdvicePending, status.State)
	assert.Equal(t, next.Fingerprint, status.Fingerprint)
	assert.Empty(t, status.Text)
}

func TestDebouncer_EmptySessionUsesFingerprint(t *testing.T) {
	d := NewAdviceDebouncer(&echoSource{}, time.Hour, time.Hour)
	defer d.Stop()

	status, err := d.Submit("", domain.AdviceRequest{Context: "plan", Data: 7})
	require.NoError(t, err)
	assert.Equal(t, status.Fingerprint, status.Session)
}

func TestDebouncer_UnknownAndStopped(t *testing.T) {
	d := NewAdviceDebouncer(&echoSource{}, time.Hour, time.Hour)

	assert.Equal(t, domain.AdviceUnknown, d.Status("missing").State)

	d.Stop()
	_, err := d.Submit("s", domain.AdviceRequest{Context: "plan", Data: 1})
	assert.ErrorIs(t, err, ErrDebouncerStopped)
}

func isReady(d *AdviceDebouncer, session string) func() bool {
	return func() bool { return d.Status(session).State == domain.AdviceReady }
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestDebouncer_SweepEvictsIdleReadySessions(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	d := newAdviceDebouncer(&echoSource{}, 0, time.Minute, clock.Now)
	defer d.Stop()

	_, err := d.Submit("old", domain.AdviceRequest{Context: "plan", Data: 1})
	require.NoError(t, err)
	require.Eventually(t, isReady(d, "old"), time.Second, 5*time.Millisecond)

	clock.Advance(30 * time.Second)
	_, err = d.Submit("fresh", domain.AdviceRequest{Context: "plan", Data: 2})
	require.NoError(t, err)
	require.Eventually(t, isReady(d, "fresh"), time.Second, 5*time.Millisecond)

	clock.Advance(45 * time.Second)
	d.sweep()

	assert.Equal(t, domain.AdviceUnknown, d.Status("old").State)
	assert.Equal(t, domain.AdviceReady, d.Status("fresh").State)

	clock.Advance(time.Minute)
	d.sweep()
	assert.Equal(t, domain.AdviceUnknown, d.Status("fresh").State)

	// An evicted session can be opened again.
	status, err := d.Submit("old", domain.AdviceRequest{Context: "plan", Data: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.AdvicePending, status.State)
}

func TestDebouncer_SweepKeepsPendingSessions(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	d := newAdviceDebouncer(&echoSource{}, time.Hour, time.Minute, clock.Now)
	defer d.Stop()

	_, err := d.Submit("waiting", domain.AdviceRequest{Context: "plan", Data: 1})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	d.sweep()
	assert.Equal(t, domain.AdvicePending, d.Status("waiting").State)
}

func TestDebouncer_SessionsDoNotAccumulate(t *testing.T) {
	clock := &manualClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	source := &echoSource{}
	d := newAdviceDebouncer(source, 0, time.Minute, clock.Now)
	defer d.Stop()

	const sessions = 200
	for i := 0; i < sessions; i++ {
		_, err := d.Submit(fmt.Sprintf("s-%d", i), domain.AdviceRequest{Context: "plan", Data: i})
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool {
		for i := 0; i < sessions; i++ {
			if !isReady(d, fmt.Sprintf("s-%d", i))() {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, sessions, source.count())

	clock.Advance(2 * time.Minute)
	d.sweep()

	d.mu.Lock()
	remaining := len(d.sessions)
	d.mu.Unlock()
	assert.Zero(t, remaining)
}
