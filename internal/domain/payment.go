package domain

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusEscrow            PaymentStatus = "ESCROW"
	PaymentStatusHeldInEscrow      PaymentStatus = "HELD_IN_ESCROW"
	PaymentStatusProcessingRelease PaymentStatus = "PROCESSING_RELEASE"
	PaymentStatusReleased          PaymentStatus = "RELEASED"
	PaymentStatusCompleted         PaymentStatus = "COMPLETED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusCashPending       PaymentStatus = "CASH_PENDING"
	PaymentStatusCashReceived      PaymentStatus = "CASH_RECEIVED"
	PaymentStatusCashVerified      PaymentStatus = "CASH_VERIFIED"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCash   PaymentMethod = "CASH"
)

// Payment is the ledger record as served by the core marketplace API.
// Status moves forward only, except FAILED which a retry puts back to PENDING.
type Payment struct {
	ID               string        `json:"id"`
	Ref              string        `json:"ref"`
	BookingID        string        `json:"booking_id"`
	Amount           float64       `json:"amount"`
	Currency         string        `json:"currency"`
	Status           PaymentStatus `json:"status"`
	Method           PaymentMethod `json:"method"`
	AuthorizationURL string        `json:"authorization_url,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// InEscrow reports whether funds are currently held by the platform.
func (p Payment) InEscrow() bool {
	return p.Status == PaymentStatusEscrow || p.Status == PaymentStatusHeldInEscrow
}

// AmountDisplay renders the amount the way the marketplace shows money,
// e.g. "R350.00". Amounts are ZAR.
func (p Payment) AmountDisplay() string {
	return fmt.Sprintf("R%.2f", p.Amount)
}
