package actions

import (
	"testing"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
)

func TestExtractBookingID(t *testing.T) {
	testCases := []struct {
		message  string
		expected string
	}{
		{"Your booking #ABC123 request has been accepted", "ABC123"},
		{"Booking ID: bk_42 has been confirmed", "bk_42"},
		{"Booking Id bk99 was updated", "bk99"},
		{"Payment received for booking 9f8e7d6c", "9f8e7d6c"},
		{"New message on booking BK-201", "BK-201"},
		{"BOOKING #zz9 cancelled", "zz9"},

		{"Booking ID: the request was declined", ""},   // Stopword capture
		{"booking # request is pending", ""},           // Stopword capture
		{"Your booking request was declined", ""},      // No id present
		{"Payment released", ""},                       // No booking mention
		{"", ""},                                       // Empty
	}

	for _, tc := range testCases {
		result := ExtractBookingID(tc.message)
		if result != tc.expected {
			t.Errorf("ExtractBookingID(%q) = %q; expected %q", tc.message, result, tc.expected)
		}
	}
}

func TestExtractBookingIDPatternPriority(t *testing.T) {
	// The "Booking ID:" pattern outranks "for booking", so the first id wins.
	result := ExtractBookingID("Booking ID: A11 for booking B22")
	if result != "A11" {
		t.Errorf("ExtractBookingID priority = %q; expected %q", result, "A11")
	}

	// A stopword capture rejects the whole message; lower-priority patterns
	// are not consulted even though "for booking B22" would match.
	result = ExtractBookingID("Booking ID: your payout for booking B22 is ready")
	if result != "" {
		t.Errorf("ExtractBookingID rejected match = %q; expected empty", result)
	}
}

func TestResolveRoutesByCategoryAndRole(t *testing.T) {
	r := NewResolver()

	testCases := []struct {
		name         string
		notification domain.Notification
		role         domain.Role
		expectedURL  string
		expectedText string
	}{
		{
			name:         "client booking with extracted id",
			notification: domain.Notification{Type: "BOOKING_ACCEPTED", Message: "Your booking #ABC123 request has been accepted"},
			role:         domain.RoleClient,
			expectedURL:  "/dashboard?tab=bookings&bookingId=ABC123",
			expectedText: "View Booking",
		},
		{
			name:         "provider booking without id",
			notification: domain.Notification{Type: "BOOKING_CANCELLED", Message: "A client cancelled"},
			role:         domain.RoleProvider,
			expectedURL:  "/provider/dashboard?tab=bookings",
			expectedText: "View Booking",
		},
		{
			name:         "dispute routes like a booking",
			notification: domain.Notification{Type: "DISPUTE_CREATED", Message: "A dispute was opened on booking BK-7"},
			role:         domain.RoleAdmin,
			expectedURL:  "/admin/dashboard?tab=bookings&bookingId=BK-7",
			expectedText: "View Booking",
		},
		{
			name:         "client payment",
			notification: domain.Notification{Type: "PAYMENT_RECEIVED", Message: "Payment received"},
			role:         domain.RoleClient,
			expectedURL:  "/dashboard?tab=payments",
			expectedText: "View Payment",
		},
		{
			name:         "provider payment goes to earnings",
			notification: domain.Notification{Type: "PAYMENT_RELEASED", Message: "Funds released for booking 9f8e"},
			role:         domain.RoleProvider,
			expectedURL:  "/provider/dashboard?tab=earnings&bookingId=9f8e",
			expectedText: "View Payment",
		},
		{
			name:         "escrow routes like a payment",
			notification: domain.Notification{Type: "ESCROW_HELD", Message: "Funds held"},
			role:         domain.RoleClient,
			expectedURL:  "/dashboard?tab=payments",
			expectedText: "View Payment",
		},
		{
			name:         "review for provider",
			notification: domain.Notification{Type: "REVIEW_RECEIVED", Message: "You got a new review"},
			role:         domain.RoleProvider,
			expectedURL:  "/provider/dashboard?tab=reviews",
			expectedText: "View Review",
		},
		{
			name:         "catalogue for client goes to public listing",
			notification: domain.Notification{Type: "SERVICE_UPDATED", Message: "A service you follow changed"},
			role:         domain.RoleClient,
			expectedURL:  "/services",
			expectedText: "View Services",
		},
		{
			name:         "catalogue for provider stays in dashboard",
			notification: domain.Notification{Type: "SERVICE_APPROVED", Message: "Your service was approved"},
			role:         domain.RoleProvider,
			expectedURL:  "/provider/dashboard?tab=services",
			expectedText: "View Services",
		},
		{
			name:         "unknown type falls back to dashboard",
			notification: domain.Notification{Type: "SOMETHING_ELSE", Message: "Hello"},
			role:         domain.RoleClient,
			expectedURL:  "/dashboard",
			expectedText: "View Details",
		},
	}

	for _, tc := range testCases {
		action := r.Resolve(tc.notification, tc.role)
		if action.URL != tc.expectedURL {
			t.Errorf("%s: URL = %q; expected %q", tc.name, action.URL, tc.expectedURL)
		}
		if action.Label != tc.expectedText {
			t.Errorf("%s: Label = %q; expected %q", tc.name, action.Label, tc.expectedText)
		}
		if action.Kind != domain.ActionView {
			t.Errorf("%s: Kind = %q; expected %q", tc.name, action.Kind, domain.ActionView)
		}
	}
}

func TestResolveStructuredFieldsWin(t *testing.T) {
	r := NewResolver()

	// A structured action URL bypasses routing entirely.
	n := domain.Notification{Type: "PAYMENT_RECEIVED", Message: "ignored", ActionURL: "/dashboard?tab=payments&bookingId=real"}
	action := r.Resolve(n, domain.RoleClient)
	if action.URL != "/dashboard?tab=payments&bookingId=real" {
		t.Errorf("structured URL = %q; expected the record's own link", action.URL)
	}

	// A structured booking id beats anything in the message text.
	n = domain.Notification{Type: "BOOKING_CONFIRMED", BookingID: "bk-7", Message: "see booking #OTHER"}
	action = r.Resolve(n, domain.RoleClient)
	if action.URL != "/dashboard?tab=bookings&bookingId=bk-7" {
		t.Errorf("structured booking id URL = %q; expected bookingId=bk-7", action.URL)
	}
}

func TestResolveEscapesExtractedID(t *testing.T) {
	r := NewResolver()

	// Ids come from free text; they are query-escaped before being linked.
	n := domain.Notification{Type: "BOOKING_ACCEPTED", BookingID: "a&b"}
	action := r.Resolve(n, domain.RoleClient)
	if action.URL != "/dashboard?tab=bookings&bookingId=a%26b" {
		t.Errorf("escaped URL = %q; expected bookingId=a%%26b", action.URL)
	}
}
