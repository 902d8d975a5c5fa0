package domain

import "time"

type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole maps a raw role string to a Role, defaulting to CLIENT.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleProvider, RoleAdmin:
		return Role(s)
	default:
		return RoleClient
	}
}

// Notification types are uppercase strings minted by the core backend,
// e.g. BOOKING_ACCEPTED, PAYMENT_RECEIVED, DISPUTE_CREATED, REVIEW_RECEIVED.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	BookingID string    `json:"booking_id,omitempty"`
	ActionURL string    `json:"action_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
