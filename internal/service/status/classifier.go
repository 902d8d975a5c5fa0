package status

import (
	"strings"

	"github.com/Molemo21/ConnectSA-k9-sub014/internal/domain"
)

const supportURL = "/support"

// ClassifyInput is everything one rendering decision depends on. IsProcessing
// and AllowContinue come from the caller: the first marks an actively polled
// just-initiated payment, the second gates the "Continue Payment" link.
type ClassifyInput struct {
	Payment       domain.Payment
	BookingStatus domain.BookingStatus
	IsProcessing  bool
	AllowContinue bool
}

// Classifier turns a payment (plus optional booking state) into a
// DisplayStatus. It is pure: identical inputs at the same instant yield
// identical outputs, and unknown statuses degrade to a generic badge
// instead of failing.
type Classifier struct {
	thresholds Thresholds
	clock      Clock
}

func NewClassifier(th Thresholds, clock Clock) *Classifier {
	if clock == nil {
		clock = SystemClock()
	}
	return &Classifier{thresholds: th, clock: clock}
}

// Classify applies the decision cascade in contract order. Each rule assumes
// every earlier rule already declined, so the order itself is load-bearing:
// reordering changes user-visible behaviour.
func (c *Classifier) Classify(in ClassifyInput) domain.DisplayStatus {
	p := in.Payment
	now := c.clock.Now()

	// 1. Cash payments have their own sub-states and no timing logic.
	if p.Method == domain.PaymentMethodCash {
		return c.cashDisplay(p)
	}

	if p.Status == domain.PaymentStatusPending {
		// 2. An actively polled payment shows as processing regardless of age.
		if in.IsProcessing {
			return domain.DisplayStatus{
				Icon:       "Loader2",
				ColorClass: "text-blue-600",
				Label:      "Processing Payment",
				Detail:     []string{"We're confirming your payment with the gateway. This usually takes a few seconds."},
			}
		}

		// 3. Stuck: the gateway callback likely never arrived.
		if c.thresholds.IsStuck(p.CreatedAt, now) {
			return domain.DisplayStatus{
				Icon:       "AlertTriangle",
				ColorClass: "text-red-600",
				Label:      "Payment Not Confirmed",
				Detail: []string{
					"This payment has been pending for more than a few minutes.",
					"If you completed the payment, our system may not have received the confirmation yet.",
					"Use Check Status to re-check, or contact support if money left your account.",
				},
				Actions: []domain.Action{
					{Kind: domain.ActionCheckStatus, Label: "Check Status"},
					{Kind: domain.ActionContactSupport, Label: "Contact Support", URL: supportURL},
				},
			}
		}

		// 4. Delayed: informational only, no actions.
		if c.thresholds.IsDelayed(p.CreatedAt, now) {
			return domain.DisplayStatus{
				Icon:       "Clock",
				ColorClass: "text-amber-600",
				Label:      "Payment Processing Delayed",
				Detail: []string{
					"Your payment is taking longer than usual. This can happen during peak hours.",
					"The status updates automatically once the gateway responds.",
				},
			}
		}

		// 5. Fresh pending: compact line, optionally with a continue link.
		d := domain.DisplayStatus{
			Icon:       "Clock",
			ColorClass: "text-yellow-600",
			Label:      "Payment Pending",
			Detail:     []string{"Complete the payment to secure your booking."},
		}
		if p.AuthorizationURL != "" {
			if in.AllowContinue {
				d.Actions = []domain.Action{{Kind: domain.ActionContinuePayment, Label: "Continue Payment", URL: p.AuthorizationURL}}
			} else {
				d.Detail = append(d.Detail, "Continue the payment from your original checkout window.")
			}
		}
		return d
	}

	// 6. Failed payments can be retried back into PENDING.
	if p.Status == domain.PaymentStatusFailed {
		return domain.DisplayStatus{
			Icon:       "XCircle",
			ColorClass: "text-red-600",
			Label:      "Payment Failed",
			Detail: []string{
				"The payment could not be processed.",
				"Retry the payment to keep your booking.",
			},
			Actions: []domain.Action{{Kind: domain.ActionRetryPayment, Label: "Retry Payment"}},
		}
	}

	// 7. Release in progress; flag it when it sits too long.
	if p.Status == domain.PaymentStatusProcessingRelease {
		ts := p.UpdatedAt
		if ts.IsZero() {
			ts = p.CreatedAt
		}
		if c.thresholds.IsReleaseStuck(ts, now) {
			return domain.DisplayStatus{
				Icon:       "AlertTriangle",
				ColorClass: "text-amber-600",
				Label:      "Payment Release Delayed",
				Detail: []string{
					"Releasing the payment to the provider is taking longer than expected.",
					"You can retry the release; no money is at risk while funds are in escrow.",
				},
				Actions: []domain.Action{{Kind: domain.ActionRetryRelease, Label: "Retry Release"}},
			}
		}
		return domain.DisplayStatus{
			Icon:       "Loader2",
			ColorClass: "text-blue-600",
			Label:      "Releasing Payment",
			Detail:     []string{"Funds are being released to the provider."},
		}
	}

	// 8. Escrowed funds read differently depending on where the job is.
	if p.InEscrow() {
		return escrowDisplay(in.BookingStatus)
	}

	// 9. Released/completed while the booking still awaits client
	// confirmation renders as escrowed: the ledger can flip ahead of the
	// client's confirm.
	if p.Status == domain.PaymentStatusReleased || p.Status == domain.PaymentStatusCompleted {
		if in.BookingStatus == domain.BookingStatusAwaitingConfirmation {
			return escrowDisplay(domain.BookingStatusAwaitingConfirmation)
		}
		return domain.DisplayStatus{
			Icon:       "CheckCircle",
			ColorClass: "text-green-600",
			Label:      "Payment Completed",
			Detail:     []string{"The provider has been paid."},
		}
	}

	// 10. Everything else: generic badge, unknown statuses included.
	return badgeFor(p.Status)
}

func (c *Classifier) cashDisplay(p domain.Payment) domain.DisplayStatus {
	switch p.Status {
	case domain.PaymentStatusCashPending:
		return domain.DisplayStatus{
			Icon:       "Banknote",
			ColorClass: "text-amber-600",
			Label:      "Cash Payment Pending",
			Detail:     []string{"Pay your provider in cash once the job is done."},
		}
	case domain.PaymentStatusCashReceived:
		return domain.DisplayStatus{
			Icon:       "Banknote",
			ColorClass: "text-blue-600",
			Label:      "Cash Received - Verification Pending",
			Detail:     []string{"The provider confirmed receiving your cash payment. We're verifying it."},
		}
	case domain.PaymentStatusCashVerified:
		return domain.DisplayStatus{
			Icon:       "CheckCircle",
			ColorClass: "text-green-600",
			Label:      "Cash Payment Verified",
			Detail:     []string{"Your cash payment has been verified. All done."},
		}
	default:
		return badgeFor(p.Status)
	}
}

func escrowDisplay(bs domain.BookingStatus) domain.DisplayStatus {
	switch bs {
	case domain.BookingStatusCompleted:
		return domain.DisplayStatus{
			Icon:       "Shield",
			ColorClass: "text-green-600",
			Label:      "Payment in Escrow - Ready for Release",
			Detail:     []string{"The job is complete. Funds will be released to the provider."},
		}
	case domain.BookingStatusAwaitingConfirmation:
		return domain.DisplayStatus{
			Icon:       "Shield",
			ColorClass: "text-amber-600",
			Label:      "Payment in Escrow - Awaiting Client Confirmation",
			Detail:     []string{"Funds stay in escrow until the client confirms the job."},
		}
	case domain.BookingStatusInProgress:
		return domain.DisplayStatus{
			Icon:       "Shield",
			ColorClass: "text-blue-600",
			Label:      "Payment in Escrow - Work in Progress",
			Detail:     []string{"Funds are held safely while the provider does the work."},
		}
	default:
		return domain.DisplayStatus{
			Icon:       "Shield",
			ColorClass: "text-blue-600",
			Label:      "Payment Secured in Escrow",
			Detail:     []string{"Funds are held safely. The provider can start the work."},
		}
	}
}

var badges = map[domain.PaymentStatus]domain.DisplayStatus{
	domain.PaymentStatusRefunded:     {Icon: "RefreshCw", ColorClass: "text-gray-600", Label: "Refunded", Badge: true},
	domain.PaymentStatusCashPending:  {Icon: "Banknote", ColorClass: "text-amber-600", Label: "Cash Pending", Badge: true},
	domain.PaymentStatusCashReceived: {Icon: "Banknote", ColorClass: "text-blue-600", Label: "Cash Received", Badge: true},
	domain.PaymentStatusCashVerified: {Icon: "Banknote", ColorClass: "text-green-600", Label: "Cash Verified", Badge: true},
}

func badgeFor(s domain.PaymentStatus) domain.DisplayStatus {
	if b, ok := badges[s]; ok {
		return b
	}
	return domain.DisplayStatus{
		Icon:       "CreditCard",
		ColorClass: "text-gray-600",
		Label:      titleCase(string(s)),
		Badge:      true,
	}
}

// titleCase renders a raw enum value readable: "PROCESSING_RELEASE" ->
// "Processing Release".
func titleCase(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
