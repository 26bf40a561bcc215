package input

import "time"

// Wait timeouts.
const (
	tapChangeTimeout          = 750 * time.Millisecond
	directionalChangeTimeout  = 200 * time.Millisecond
	moveIdleQueueTimeout      = 3 * time.Second
	tapLockGrace              = 600 * time.Millisecond
	directionalLockGrace      = 120 * time.Millisecond
	holdLockGraceMax          = time.Second
	lockClearTimeout          = 8 * time.Second
	pollInterval              = 16 * time.Millisecond
	aUntilEndOfDialogInterval = 2 * time.Second
)

// holdChangeTimeout computes the per-hold wait timeout,
// max(0.6s, frames/60 + 0.2s).
func holdChangeTimeout(frames int) time.Duration {
	byFrames := time.Duration(float64(frames)/60.0*float64(time.Second)) + 200*time.Millisecond
	if byFrames < 600*time.Millisecond {
		return 600 * time.Millisecond
	}
	return byFrames
}

// holdLockGrace computes the per-hold lock-grace window, <= 1.0s.
func holdLockGrace(frames int) time.Duration {
	g := holdChangeTimeout(frames)
	if g > holdLockGraceMax {
		return holdLockGraceMax
	}
	return g
}

// changeTimeout and lockGrace pick the wait policy for one command.
func changeTimeout(cmd Command) time.Duration {
	switch {
	case cmd.Kind == KindHold:
		return holdChangeTimeout(cmd.Frames)
	case cmd.IsDirectional():
		return directionalChangeTimeout
	default:
		return tapChangeTimeout
	}
}

func lockGrace(cmd Command) time.Duration {
	switch {
	case cmd.Kind == KindHold:
		return holdLockGrace(cmd.Frames)
	case cmd.IsDirectional():
		return directionalLockGrace
	default:
		return tapLockGrace
	}
}

// clock lets tests replace time.Now/time.Sleep without a real wall
// clock, the same injection shape bag.Cache/pcbox.Cache use by taking
// `now time.Time` as a parameter rather than calling time.Now() deep
// inside their own logic.
type clock struct {
	now   func() time.Time
	sleep func(time.Duration)
}

func realClock() clock {
	return clock{now: time.Now, sleep: time.Sleep}
}

// pollUntil polls cond every pollInterval until it returns true or
// deadline elapses, returning whether cond ever became true.
func pollUntil(cl clock, timeout time.Duration, cond func() (bool, error)) (bool, error) {
	deadline := cl.now().Add(timeout)
	for {
		ok, err := cond()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if cl.now().After(deadline) {
			return false, nil
		}
		cl.sleep(pollInterval)
	}
}
