// Package budget tracks inference spend and answers affordability checks
// for the model selector.
package budget

import (
	"sync"

	"github.com/lexos-ai/lexroute/pkg/adapter"
)

// Tracker approves or denies a projected spend. The selector treats a
// denial as a skip, not a failure.
type Tracker interface {
	CanAfford(cost float64) bool
}

// Recorder accepts per-call spend reports. Trackers that also implement
// Recorder get actual call costs fed back after dispatch.
type Recorder interface {
	Record(report adapter.CallReport)
}

// Unlimited approves every spend. Used when no budget is configured.
type Unlimited struct{}

// CanAfford always returns true.
func (Unlimited) CanAfford(float64) bool { return true }

// Ledger records per-call spend against a fixed USD budget.
// A zero or negative budget means unbounded.
type Ledger struct {
	mu     sync.Mutex
	maxUSD float64
	total  float64
	calls  []adapter.CallReport
}

// NewLedger creates a ledger with the given USD budget.
func NewLedger(maxUSD float64) *Ledger {
	return &Ledger{maxUSD: maxUSD}
}

// CanAfford reports whether the projected spend fits the remaining budget.
func (l *Ledger) CanAfford(cost float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.maxUSD <= 0 {
		return true
	}
	return l.total+cost <= l.maxUSD
}

// Record adds one call's spend to the ledger. Failed calls are kept in
// the call log but do not count against the budget.
func (l *Ledger) Record(report adapter.CallReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, report)
	if report.Error != "" {
		return
	}
	l.total += report.Cost.Amount
}

// Total returns the accumulated spend.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Calls returns a copy of the recorded call reports.
func (l *Ledger) Calls() []adapter.CallReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]adapter.CallReport, len(l.calls))
	copy(out, l.calls)
	return out
}
