package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"insurance-dashboard/internal/presentation"
	"insurance-dashboard/internal/session"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingObserver struct {
	mu      sync.Mutex
	created int
	ended   map[string]int
}

func (o *recordingObserver) SessionCreated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *recordingObserver) SessionEnded(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ended == nil {
		o.ended = map[string]int{}
	}
	o.ended[reason]++
}

func newRegistry(clock *fakeClock, obs *recordingObserver) *session.Registry {
	return session.NewRegistry(30*time.Minute, presentation.Bootstrap,
		session.WithClock(clock.Now),
		session.WithObserver(obs),
	)
}

func TestRegistry_CreateBootstrapsFirst(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	obs := &recordingObserver{}
	r := newRegistry(clock, obs)

	s, err := r.Create(context.Background())
	require.NoError(t, err)

	st := s.State()
	assert.True(t, st.Configured)
	assert.Equal(t, presentation.InsuranceSalesDashboard, st.Config)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, obs.created)

	err = presentation.Bootstrap(s)
	assert.True(t, presentation.IsConfigurationOrder(err), "a registry session is already configured")
}

func TestRegistry_EachSessionIsIndependent(t *testing.T) {
	r := session.NewRegistry(time.Hour, presentation.Bootstrap)

	a, err := r.Create(context.Background())
	require.NoError(t, err)
	b, err := r.Create(context.Background())
	require.NoError(t, err)

	require.NotEqual(t, a.ID(), b.ID())
	require.NoError(t, a.Emit(presentation.Element{Kind: presentation.KindText, Content: "a only"}))
	assert.Empty(t, b.State().Elements)
}

func TestRegistry_BootstrapFailureDiscardsSession(t *testing.T) {
	boom := errors.New("boom")
	r := session.NewRegistry(time.Hour, func(presentation.PresentationHost) error { return boom })

	s, err := r.Create(context.Background())
	require.ErrorIs(t, err, boom)
	var bootErr *session.BootstrapError
	require.ErrorAs(t, err, &bootErr)
	assert.Equal(t, "bootstrap session: boom", err.Error())
	assert.Nil(t, s)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CreateHonoursCancelledContext(t *testing.T) {
	r := session.NewRegistry(time.Hour, presentation.Bootstrap)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Create(ctx)
	require.ErrorIs(t, err, context.Canceled)
	var bootErr *session.BootstrapError
	assert.False(t, errors.As(err, &bootErr), "the bootstrap never ran")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_GetExpiresIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	obs := &recordingObserver{}
	r := newRegistry(clock, obs)

	s, err := r.Create(context.Background())
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)
	_, err = r.Get(s.ID())
	require.NoError(t, err, "activity inside the TTL keeps the session alive")

	clock.Advance(20 * time.Minute)
	_, err = r.Get(s.ID())
	require.NoError(t, err, "last-seen was refreshed by the previous Get")

	clock.Advance(31 * time.Minute)
	_, err = r.Get(s.ID())
	require.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, obs.ended[session.ReasonExpired])
}

func TestRegistry_End(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	obs := &recordingObserver{}
	r := newRegistry(clock, obs)

	s, err := r.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, r.End(s.ID(), session.ReasonOrderViolation))
	require.ErrorIs(t, r.End(s.ID(), session.ReasonEnded), session.ErrSessionNotFound)
	_, err = r.Get(s.ID())
	require.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.Equal(t, 1, obs.ended[session.ReasonOrderViolation])
}

func TestRegistry_Purge(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	obs := &recordingObserver{}
	r := newRegistry(clock, obs)

	for i := 0; i < 3; i++ {
		_, err := r.Create(context.Background())
		require.NoError(t, err)
	}
	clock.Advance(time.Hour)
	fresh, err := r.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, r.Purge())
	assert.Equal(t, 1, r.Len())
	_, err = r.Get(fresh.ID())
	assert.NoError(t, err)
	assert.Equal(t, 3, obs.ended[session.ReasonExpired])
}

func TestRegistry_StartPurgeStopsOnCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	r := session.NewRegistry(time.Minute, presentation.Bootstrap,
		session.WithClock(clock.Now),
		session.WithPurgeInterval(5*time.Millisecond),
	)
	_, err := r.Create(context.Background())
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.StartPurge(ctx)

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
}
