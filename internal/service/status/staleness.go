package status

import "time"

// Thresholds are the staleness windows in minutes. A PENDING payment older
// than Delayed but at most Stuck is "delayed"; older than Stuck is "stuck".
// ReleaseStuck bounds how long PROCESSING_RELEASE may sit before it is
// flagged. Both values originate from server-issued timestamps compared
// against this process's clock; no skew correction is applied.
type Thresholds struct {
	Delayed      float64
	Stuck        float64
	ReleaseStuck float64
}

// DefaultThresholds mirrors the product contract: delayed after 5 minutes,
// stuck after 8, release stuck after 5.
func DefaultThresholds() Thresholds {
	return Thresholds{Delayed: 5, Stuck: 8, ReleaseStuck: 5}
}

// AgeMinutes is the wall-clock age of t at now, in minutes. A zero t has no
// age: it reports 0 so a record without timestamps is never flagged stale.
func AgeMinutes(t, now time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(now.Sub(t).Milliseconds()) / 60000
}

// IsStuck reports age > Stuck. Zero timestamps are never stuck.
func (th Thresholds) IsStuck(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return AgeMinutes(t, now) > th.Stuck
}

// IsDelayed reports Delayed < age <= Stuck. Zero timestamps are never delayed.
func (th Thresholds) IsDelayed(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	age := AgeMinutes(t, now)
	return age > th.Delayed && age <= th.Stuck
}

// IsReleaseStuck reports age > ReleaseStuck for a release in progress.
func (th Thresholds) IsReleaseStuck(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return AgeMinutes(t, now) > th.ReleaseStuck
}
