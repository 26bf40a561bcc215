// Package backupguard rate-limits savestate backups. The actual
// savestate file rotation and the emulator's `.ss0` write are owned by
// an external collaborator; this
// package only holds the one piece of shared, mutable state the core
// is responsible for guarding: when the last backup fired.
package backupguard

import (
	"sync"
	"time"
)

// Limiter allows at most one backup per Interval, guarded by a mutex
// rather than a channel since the check-and-set has to be atomic
// across concurrent requestData calls.
type Limiter struct {
	mu           sync.Mutex
	interval     time.Duration
	lastBackupTS time.Time
	now          func() time.Time
}

// NewLimiter returns a Limiter that allows one Allow() per interval.
// interval <= 0 disables backups: Allow always reports false.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, now: time.Now}
}

// Allow reports whether a backup may proceed right now, and if so
// records the attempt. Callers that get false should skip the backup
// entirely for this request, not queue it.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.interval <= 0 {
		return false
	}
	now := l.now()
	if !l.lastBackupTS.IsZero() && now.Sub(l.lastBackupTS) < l.interval {
		return false
	}
	l.lastBackupTS = now
	return true
}
