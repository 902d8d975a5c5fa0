package domain

import "time"

// Snapshot is the last-known-good view of one payment and its booking as
// fetched from the core API. A failed refresh never blanks Payment/Booking;
// it only records Error. Loaded stays false until the first successful fetch.
// StaleFlag is the staleness classification recorded at the last refresh, so
// the next one can tell a transition from a repeat observation.
type Snapshot struct {
	Ref         string    `json:"ref"`
	Payment     *Payment  `json:"payment,omitempty"`
	Booking     *Booking  `json:"booking,omitempty"`
	Loaded      bool      `json:"loaded"`
	LastUpdated time.Time `json:"last_updated"`
	Error       string    `json:"error,omitempty"`
	StaleFlag   string    `json:"stale_flag,omitempty"`
}

// StaleFlag values a sweep can record on a snapshot.
const (
	StaleFlagDelayed      = "delayed"
	StaleFlagStuck        = "stuck"
	StaleFlagReleaseStuck = "release_stuck"
)

// Incident is an operator-facing record of a payment observed stuck by the
// sweep. One open incident exists per (payment ref, kind); repeated
// observations bump LastSeenAt.
type Incident struct {
	ID            string        `json:"id"`
	PaymentRef    string        `json:"payment_ref"`
	BookingID     string        `json:"booking_id,omitempty"`
	Kind          string        `json:"kind"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	AgeMinutes    float64       `json:"age_minutes"`
	OpenedAt      time.Time     `json:"opened_at"`
	LastSeenAt    time.Time     `json:"last_seen_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
	Resolution    string        `json:"resolution,omitempty"`
}

const (
	IncidentKindPaymentStuck = "payment_stuck"
	IncidentKindReleaseStuck = "release_stuck"
)
