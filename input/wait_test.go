package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHoldChangeTimeoutFloor(t *testing.T) {
	require.Equal(t, 600*time.Millisecond, holdChangeTimeout(10))
}

func TestHoldChangeTimeoutScalesWithFrames(t *testing.T) {
	// 120 frames / 60 + 0.2s = 2.2s
	require.Equal(t, 2200*time.Millisecond, holdChangeTimeout(120))
}

func TestHoldLockGraceCapsAtOneSecond(t *testing.T) {
	require.Equal(t, time.Second, holdLockGrace(120))
	require.Equal(t, 600*time.Millisecond, holdLockGrace(10))
}

func TestChangeTimeoutByCommandKind(t *testing.T) {
	require.Equal(t, tapChangeTimeout, changeTimeout(Command{Kind: KindControl, Name: "a"}))
	require.Equal(t, directionalChangeTimeout, changeTimeout(Command{Kind: KindControl, Name: "up"}))
	require.Equal(t, holdChangeTimeout(60), changeTimeout(Command{Kind: KindHold, Frames: 60}))
}

func TestPollUntilReturnsTrueOnCondition(t *testing.T) {
	now := time.Now()
	cl := clock{now: func() time.Time { return now }, sleep: func(d time.Duration) { now = now.Add(d) }}

	calls := 0
	ok, err := pollUntil(cl, time.Second, func() (bool, error) {
		calls++
		return calls >= 3, nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, calls)
}

func TestPollUntilTimesOut(t *testing.T) {
	now := time.Now()
	cl := clock{now: func() time.Time { return now }, sleep: func(d time.Duration) { now = now.Add(d) }}

	ok, err := pollUntil(cl, 50*time.Millisecond, func() (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	require.False(t, ok)
}
