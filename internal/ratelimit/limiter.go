// Package ratelimit answers "can this happen now, and when can it happen
// next" for the two outreach budgets: a rolling per-community cooldown
// window and a per-automation calendar-day send cap.
package ratelimit

import (
	"time"

	"github.com/ReeceHarding/leadify-sub002/internal/model"
)

// CommunityCooldown is the minimum gap between two successful sends into
// the same community. System-wide constant.
const CommunityCooldown = 4 * time.Hour

// CommunityHistory is the slice of the outreach repository the limiter
// reads cooldown state from.
type CommunityHistory interface {
	LastCommunitySendAt(orgID int, community string) (*time.Time, error)
}

// BudgetStore is the slice of the automation repository the limiter
// reserves daily budget through.
type BudgetStore interface {
	ReserveDailySend(id int, now time.Time) (bool, error)
}

type Limiter struct {
	History CommunityHistory
	Budget  BudgetStore
}

// CanPostToCommunity reports whether a send into the community is allowed
// at now, and when the next one is allowed. No prior send means always
// allowed. A read error means the state is unverifiable; callers must fail
// closed.
func (l *Limiter) CanPostToCommunity(orgID int, community string, now time.Time) (bool, time.Time, error) {
	last, err := l.History.LastCommunitySendAt(orgID, community)
	if err != nil {
		return false, time.Time{}, err
	}
	if last == nil {
		return true, now, nil
	}
	retryAt := last.Add(CommunityCooldown)
	if now.Before(retryAt) {
		return false, retryAt, nil
	}
	return true, now, nil
}

// Reserve atomically consumes one unit of the automation's daily budget.
// False means the cap is reached for the current UTC day, a normal stop
// signal rather than an error.
func (l *Limiter) Reserve(automationID int, now time.Time) (bool, error) {
	return l.Budget.ReserveDailySend(automationID, now)
}

// SameUTCDay reports whether two instants fall on the same UTC calendar
// day. Day-of-month comparison, not a fixed 24h window.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// RemainingDailyBudget computes the sends still available to an automation
// at now, without side effects. A lastResetAt on a prior UTC day means the
// full cap is available again (the reset itself is committed by Reserve).
func RemainingDailyBudget(a *model.Automation, now time.Time) int {
	if !SameUTCDay(a.LastResetAt, now) {
		return a.MaxDailyDMs
	}
	remaining := a.MaxDailyDMs - a.DmsSentToday
	if remaining < 0 {
		return 0
	}
	return remaining
}
