// Package health tracks per-account poll outcomes and selects the next
// account for the rotation.
package health

import "redwatch/internal/model"

// None is the sentinel returned by NextActive when every account in the pool
// has been disabled.
const None = -1

// DefaultThreshold is the number of back-to-back faults that disables an
// account when the configuration does not override it.
const DefaultThreshold = 3

// Tracker owns the account pool for the run. Accounts are never removed;
// disabled ones stay in the pool but are skipped by NextActive. The tracker
// assumes a single writer and is not safe for concurrent use.
type Tracker struct {
	accounts  []model.Account
	threshold int
}

// NewTracker builds a tracker over the configured accounts. All accounts
// start active with a zero failure counter.
func NewTracker(accounts []model.Account, threshold int) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	pool := make([]model.Account, len(accounts))
	copy(pool, accounts)
	for i := range pool {
		pool[i].Status = model.StatusActive
		pool[i].Failures = 0
	}
	return &Tracker{accounts: pool, threshold: threshold}
}

// Len returns the total pool size, disabled accounts included.
func (t *Tracker) Len() int {
	return len(t.accounts)
}

// Account returns a copy of the account at index i.
func (t *Tracker) Account(i int) model.Account {
	return t.accounts[i]
}

// ActiveCount returns how many accounts are still selectable.
func (t *Tracker) ActiveCount() int {
	n := 0
	for i := range t.accounts {
		if t.accounts[i].Status == model.StatusActive {
			n++
		}
	}
	return n
}

// RecordSuccess resets the account's consecutive-failure counter. It returns
// true when the account had accumulated failures and has now recovered.
func (t *Tracker) RecordSuccess(i int) bool {
	recovered := t.accounts[i].Failures > 0
	t.accounts[i].Failures = 0
	return recovered
}

// RecordRateLimited is counted like a success: running out of quota is an
// expected outcome of multi-account rotation, not a fault.
func (t *Tracker) RecordRateLimited(i int) bool {
	return t.RecordSuccess(i)
}

// RecordFailure increments the account's consecutive-failure counter and
// disables the account once the threshold is reached. It returns true only on
// the transition to disabled.
func (t *Tracker) RecordFailure(i int) bool {
	acc := &t.accounts[i]
	acc.Failures++
	if acc.Status == model.StatusActive && acc.Failures >= t.threshold {
		acc.Status = model.StatusDisabled
		return true
	}
	return false
}

// NextActive scans forward cyclically from current+1 and returns the index of
// the first active account, or None when the whole pool is disabled. Pass -1
// before the first cycle.
func (t *Tracker) NextActive(current int) int {
	n := len(t.accounts)
	if n == 0 {
		return None
	}
	for i := 1; i <= n; i++ {
		next := (current + i) % n
		if t.accounts[next].Status == model.StatusActive {
			return next
		}
	}
	return None
}
