// Package actions derives a deep link and label for a notification. The
// backend is meant to attach structured booking/action references at creation
// time; for the long tail of historical records that only carry free text,
// the resolver falls back to extracting a booking id from the message.
package actions

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
)

// Patterns are tried in strict priority order; the first match wins and the
// remaining patterns are not tried, even when the captured id is rejected.
var bookingIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbooking\s+id\s*:?\s*([A-Za-z0-9][A-Za-z0-9_-]*)`),
	regexp.MustCompile(`(?i)\bbooking\s*#\s*([A-Za-z0-9][A-Za-z0-9_-]*)`),
	regexp.MustCompile(`(?i)\b(?:on|for)\s+booking\s+([A-Za-z0-9][A-Za-z0-9_-]*)`),
}

// Common words the patterns can capture when a message reads like
// "booking for the service" rather than carrying a real identifier.
var stopwords = map[string]struct{}{
	"request": {}, "for": {}, "id": {}, "the": {}, "you": {}, "your": {},
	"from": {}, "has": {}, "was": {}, "been": {}, "with": {}, "this": {},
	"that": {}, "can": {}, "will": {}, "now": {}, "may": {},
}

// ExtractBookingID pulls a booking identifier out of free text. It returns ""
// when no pattern matches or when the first match captures a stopword.
func ExtractBookingID(message string) string {
	for _, re := range bookingIDPatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		id := m[1]
		if _, stop := stopwords[strings.ToLower(id)]; stop {
			return ""
		}
		return id
	}
	return ""
}

type category int

const (
	categoryBooking category = iota
	categoryPayment
	categoryReview
	categoryCatalogue
	categoryOther
)

func categorize(notificationType string) category {
	t := strings.ToUpper(notificationType)
	switch {
	case strings.Contains(t, "BOOKING") || strings.Contains(t, "DISPUTE"):
		return categoryBooking
	case strings.Contains(t, "PAYMENT") || strings.Contains(t, "ESCROW"):
		return categoryPayment
	case strings.Contains(t, "REVIEW"):
		return categoryReview
	case strings.Contains(t, "SERVICE") || strings.Contains(t, "CATALOG"):
		return categoryCatalogue
	default:
		return categoryOther
	}
}

func dashboardRoot(role domain.Role) string {
	switch role {
	case domain.RoleProvider:
		return "/provider/dashboard"
	case domain.RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/dashboard"
	}
}

type Resolver struct{}

func NewResolver() *Resolver { return &Resolver{} }

// Resolve returns the action for one notification as seen by the given role.
// A structured ActionURL on the record wins outright; otherwise the category
// of the type plus any extracted booking id decide the link. Never fails:
// unmatched types land on the viewer's dashboard root.
func (r *Resolver) Resolve(n domain.Notification, role domain.Role) domain.Action {
	cat := categorize(n.Type)

	if n.ActionURL != "" {
		return domain.Action{Kind: domain.ActionView, Label: categoryLabel(cat), URL: n.ActionURL}
	}

	bookingID := n.BookingID
	if bookingID == "" {
		bookingID = ExtractBookingID(n.Message)
	}

	root := dashboardRoot(role)

	switch cat {
	case categoryBooking:
		return domain.Action{Kind: domain.ActionView, Label: "View Booking", URL: tabURL(root, "bookings", bookingID)}
	case categoryPayment:
		tab := "payments"
		if role == domain.RoleProvider {
			tab = "earnings"
		}
		return domain.Action{Kind: domain.ActionView, Label: "View Payment", URL: tabURL(root, tab, bookingID)}
	case categoryReview:
		return domain.Action{Kind: domain.ActionView, Label: "View Review", URL: tabURL(root, "reviews", bookingID)}
	case categoryCatalogue:
		if role == domain.RoleClient {
			return domain.Action{Kind: domain.ActionView, Label: "View Services", URL: "/services"}
		}
		return domain.Action{Kind: domain.ActionView, Label: "View Services", URL: tabURL(root, "services", "")}
	default:
		return domain.Action{Kind: domain.ActionView, Label: "View Details", URL: root}
	}
}

func categoryLabel(cat category) string {
	switch cat {
	case categoryBooking:
		return "View Booking"
	case categoryPayment:
		return "View Payment"
	case categoryReview:
		return "View Review"
	case categoryCatalogue:
		return "View Services"
	default:
		return "View Details"
	}
}

// tabURL builds "<root>?tab=<tab>" plus the booking id parameter when one
// was found; without an id the link lands on the category's tab.
func tabURL(root, tab, bookingID string) string {
	if bookingID == "" {
		return fmt.Sprintf("%s?tab=%s", root, tab)
	}
	return fmt.Sprintf("%s?tab=%s&bookingId=%s", root, tab, url.QueryEscape(bookingID))
}
