// Package lockout holds the account-lock state machine. It mutates only the
// in-memory user passed to it; committing the result is the caller's job.
package lockout

import (
	"time"

	"postboard/models"
)

// LockThreshold is the consecutive failed-attempt count that locks an account.
const LockThreshold = 5

type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock lets tests pin the clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

func (e *Engine) IsLocked(u *models.User) bool {
	return u.LockFlag
}

// RecordFailedAttempt increments the failure counter and locks the account in
// the same step once the counter reaches the threshold. Returns true when this
// call caused the lock.
func (e *Engine) RecordFailedAttempt(u *models.User) bool {
	now := e.now()
	u.FailedLoginAttempts++
	u.LastFailedLoginAt = &now

	if u.FailedLoginAttempts >= LockThreshold && !u.LockFlag {
		u.LockFlag = true
		u.LastLockAt = &now
		return true
	}
	return false
}

// RecordLogin resets failure accounting after a successful authentication.
// It does not clear a manual lock; a locked account stays locked.
func (e *Engine) RecordLogin(u *models.User) {
	now := e.now()
	u.FailedLoginAttempts = 0
	u.LastFailedLoginAt = nil
	u.LastLoginAt = &now
}

// Lock always increments LockCount, even on an already-locked account. Each
// manual lock event is counted; callers that must not double-count go through
// Toggle instead.
func (e *Engine) Lock(u *models.User) {
	now := e.now()
	u.LockFlag = true
	u.LockCount++
	u.LastLockAt = &now
}

func (e *Engine) Unlock(u *models.User) {
	u.LockFlag = false
	u.LastLockAt = nil
	u.FailedLoginAttempts = 0
}

// Toggle unlocks a locked account and locks an unlocked one,
// returning the resulting locked state.
func (e *Engine) Toggle(u *models.User) bool {
	if u.LockFlag {
		e.Unlock(u)
	} else {
		e.Lock(u)
	}
	return u.LockFlag
}
