package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeMinutes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, AgeMinutes(time.Time{}, now))
	assert.Equal(t, 0.0, AgeMinutes(now, now))
	assert.Equal(t, 1.0, AgeMinutes(now.Add(-time.Minute), now))
	assert.Equal(t, 7.5, AgeMinutes(now.Add(-7*time.Minute-30*time.Second), now))
	// Clocks can disagree; a timestamp from the future just reads negative.
	assert.Equal(t, -2.0, AgeMinutes(now.Add(2*time.Minute), now))
}

func TestStalenessWindows(t *testing.T) {
	th := DefaultThresholds()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name    string
		age     time.Duration
		delayed bool
		stuck   bool
	}{
		{"fresh", time.Minute, false, false},
		{"exactly five minutes", 5 * time.Minute, false, false},
		{"just past five minutes", 5*time.Minute + time.Second, true, false},
		{"six minutes", 6 * time.Minute, true, false},
		{"exactly eight minutes", 8 * time.Minute, true, false},
		{"just past eight minutes", 8*time.Minute + time.Second, false, true},
		{"ten minutes", 10 * time.Minute, false, true},
		{"an hour", time.Hour, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			created := now.Add(-tc.age)
			assert.Equal(t, tc.delayed, th.IsDelayed(created, now))
			assert.Equal(t, tc.stuck, th.IsStuck(created, now))
		})
	}
}

func TestStalenessZeroTimestamp(t *testing.T) {
	th := DefaultThresholds()
	now := time.Now()

	assert.False(t, th.IsDelayed(time.Time{}, now))
	assert.False(t, th.IsStuck(time.Time{}, now))
	assert.False(t, th.IsReleaseStuck(time.Time{}, now))
}

func TestStalenessRecomputedPerCall(t *testing.T) {
	th := DefaultThresholds()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// The same timestamp flips as "now" advances; nothing is cached.
	assert.False(t, th.IsStuck(created, created.Add(7*time.Minute)))
	assert.True(t, th.IsStuck(created, created.Add(9*time.Minute)))
	assert.False(t, th.IsStuck(created, created.Add(7*time.Minute)))
}

func TestIsReleaseStuck(t *testing.T) {
	th := DefaultThresholds()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, th.IsReleaseStuck(now.Add(-4*time.Minute), now))
	assert.False(t, th.IsReleaseStuck(now.Add(-5*time.Minute), now))
	assert.True(t, th.IsReleaseStuck(now.Add(-5*time.Minute-time.Second), now))
}
