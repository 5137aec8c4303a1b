package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGuard struct {
	allow    bool
	err      error
	calls    int
	released []string
}

func (g *fakeGuard) Acquire(context.Context, string, time.Time) (bool, error) {
	g.calls++
	return g.allow, g.err
}

func (g *fakeGuard) Release(_ context.Context, job string, day time.Time) error {
	g.released = append(g.released, job+"@"+day.Format("2006-01-02"))
	return nil
}

func newTestDaily(t *testing.T, hour int, now *time.Time, runs *int) *Daily {
	t.Helper()

	d, err := NewDaily("test", hour, time.UTC, func(context.Context, time.Time) error {
		*runs++
		return nil
	})
	require.NoError(t, err)
	d.now = func() time.Time { return *now }
	return d
}

func TestNewDaily_RejectsInvalidHour(t *testing.T) {
	noop := func(context.Context, time.Time) error { return nil }

	for _, hour := range []int{-1, 24, 100} {
		_, err := NewDaily("bad", hour, time.UTC, noop)
		assert.Error(t, err, "hour %d", hour)
	}

	_, err := NewDaily("nil", 12, time.UTC, nil)
	assert.Error(t, err)

	d, err := NewDaily("midnight", 0, nil, noop)
	require.NoError(t, err)
	assert.Equal(t, time.Local, d.Location)
}

func TestDaily_Next(t *testing.T) {
	now := time.Date(2017, time.October, 5, 11, 0, 0, 0, time.UTC)
	runs := 0
	d := newTestDaily(t, 12, &now, &runs)

	assert.Equal(t, time.Hour, d.Next())
}

func TestDaily_FiresOncePerDay(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	runs := 0
	d := newTestDaily(t, 12, &now, &runs)

	d.fire(context.Background(), nil)
	d.fire(context.Background(), nil)
	assert.Equal(t, 1, runs)

	now = now.AddDate(0, 0, 1)
	d.fire(context.Background(), nil)
	assert.Equal(t, 2, runs)
}

func TestDaily_GuardRefuses(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	runs := 0
	d := newTestDaily(t, 12, &now, &runs)
	guard := &fakeGuard{allow: false}

	d.fire(context.Background(), guard)
	assert.Zero(t, runs)
	assert.Equal(t, 1, guard.calls)
}

func TestDaily_GuardErrorRunsUnguarded(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	runs := 0
	d := newTestDaily(t, 12, &now, &runs)

	d.fire(context.Background(), &fakeGuard{err: errors.New("redis down")})
	assert.Equal(t, 1, runs)
}

func TestDaily_FailedJobReleasesGuard(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	d, err := NewDaily("sports-games", 12, time.UTC, func(context.Context, time.Time) error {
		return errors.New("push gateway down")
	})
	require.NoError(t, err)
	d.now = func() time.Time { return now }

	guard := &fakeGuard{allow: true}
	d.fire(context.Background(), guard)

	assert.Equal(t, []string{"sports-games@2017-10-05"}, guard.released)
}

func TestDaily_SuccessfulJobKeepsGuard(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	runs := 0
	d := newTestDaily(t, 12, &now, &runs)
	guard := &fakeGuard{allow: true}

	d.fire(context.Background(), guard)
	assert.Equal(t, 1, runs)
	assert.Empty(t, guard.released)
}

func TestDaily_UnguardedFailureReleasesNothing(t *testing.T) {
	now := time.Date(2017, time.October, 5, 12, 0, 0, 0, time.UTC)
	d, err := NewDaily("events", 12, time.UTC, func(context.Context, time.Time) error {
		return errors.New("push gateway down")
	})
	require.NoError(t, err)
	d.now = func() time.Time { return now }

	guard := &fakeGuard{err: errors.New("redis down")}
	d.fire(context.Background(), guard)
	assert.Empty(t, guard.released)
}

func TestScheduler_AddDailyValidates(t *testing.T) {
	s := NewScheduler(time.UTC)
	noop := func(context.Context, time.Time) error { return nil }

	assert.Error(t, s.AddDaily("bad", 25, noop))
	assert.NoError(t, s.AddDaily("events", 12, noop))
	assert.Error(t, s.AddCron("not a cron", "refresh", noop))
	assert.NoError(t, s.AddCron("0 5 * * *", "refresh", noop))
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	noop := func(context.Context, time.Time) error { return nil }
	require.NoError(t, s.AddDaily("events", 12, noop))

	require.NoError(t, s.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
