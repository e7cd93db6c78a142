package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/config"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newLimiterAt(q config.GenerationQuotaConfig, start time.Time) (*GenerationQuotaLimiter, *clock) {
	c := &clock{t: start}
	l := NewGenerationQuotaLimiter(q)
	l.now = c.now
	return l, c
}

func reserveN(t *testing.T, l *GenerationQuotaLimiter, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ok, err := l.Reserve(context.Background())
		require.NoError(t, err)
		require.True(t, ok, "reservation %d", i)
	}
}

func TestDailyLimit(t *testing.T) {
	l, _ := newLimiterAt(config.GenerationQuotaConfig{RequestsPerDay: 2}, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	reserveN(t, l, 2)
	assert.Equal(t, 0, l.Remaining())

	ok, err := l.Reserve(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDailyLimitResetsAtUTCMidnight(t *testing.T) {
	l, c := newLimiterAt(config.GenerationQuotaConfig{RequestsPerDay: 1}, time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC))

	reserveN(t, l, 1)
	ok, _ := l.Reserve(context.Background())
	assert.False(t, ok)

	c.t = c.t.Add(2 * time.Hour)
	assert.Equal(t, 1, l.Remaining())
	reserveN(t, l, 1)
}

func TestMinuteWindowSlides(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l, c := newLimiterAt(config.GenerationQuotaConfig{RequestsPerMinute: 2}, start)

	reserveN(t, l, 1)
	c.t = start.Add(30 * time.Second)
	reserveN(t, l, 1)

	ok, _ := l.Reserve(context.Background())
	assert.False(t, ok, "window holds two reservations")

	// 첫 예약이 윈도를 벗어나면 한 건이 비고 두 번째 예약은 남아 있다.
	c.t = start.Add(61 * time.Second)
	reserveN(t, l, 1)
	ok, _ = l.Reserve(context.Background())
	assert.False(t, ok)
}

func TestRejectedReservationDoesNotCount(t *testing.T) {
	l, c := newLimiterAt(config.GenerationQuotaConfig{RequestsPerMinute: 1, RequestsPerDay: 3}, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	reserveN(t, l, 1)
	for i := 0; i < 5; i++ {
		ok, _ := l.Reserve(context.Background())
		assert.False(t, ok)
	}
	assert.Equal(t, 2, l.Remaining())

	c.t = c.t.Add(2 * time.Minute)
	reserveN(t, l, 1)
}

func TestUnlimited(t *testing.T) {
	l := NewGenerationQuotaLimiter(config.GenerationQuotaConfig{})
	reserveN(t, l, 50)
	assert.Equal(t, -1, l.Remaining())
}

func TestReserveHonorsCanceledContext(t *testing.T) {
	l := NewGenerationQuotaLimiter(config.GenerationQuotaConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := l.Reserve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}
