package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending              BookingStatus = "PENDING"
	BookingStatusConfirmed            BookingStatus = "CONFIRMED"
	BookingStatusPendingExecution     BookingStatus = "PENDING_EXECUTION"
	BookingStatusPaymentProcessing    BookingStatus = "PAYMENT_PROCESSING"
	BookingStatusInProgress           BookingStatus = "IN_PROGRESS"
	BookingStatusAwaitingConfirmation BookingStatus = "AWAITING_CONFIRMATION"
	BookingStatusCompleted            BookingStatus = "COMPLETED"
	BookingStatusCancelled            BookingStatus = "CANCELLED"
	BookingStatusDisputed             BookingStatus = "DISPUTED"
)

type Booking struct {
	ID            string        `json:"id"`
	Status        BookingStatus `json:"status"`
	ScheduledDate time.Time     `json:"scheduled_date"`
	Address       string        `json:"address"`
	Amount        float64       `json:"amount"`
	ProviderID    string        `json:"provider_id,omitempty"`
	ServiceID     string        `json:"service_id,omitempty"`
	PaymentRef    string        `json:"payment_ref,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
