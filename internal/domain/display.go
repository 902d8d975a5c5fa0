package domain

type ActionKind string

const (
	ActionCheckStatus     ActionKind = "check_status"
	ActionContinuePayment ActionKind = "continue_payment"
	ActionRetryPayment    ActionKind = "retry_payment"
	ActionRetryRelease    ActionKind = "retry_release"
	ActionContactSupport  ActionKind = "contact_support"
	ActionView            ActionKind = "view"
)

type Action struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	URL   string     `json:"url,omitempty"`
}

// DisplayStatus is the rendering decision for one payment: which icon and
// colour the UI shows, the headline, supporting copy, and the actions the
// viewer is allowed to take from that state. Badge marks the compact
// fallback rendering used for statuses outside the main cascade.
type DisplayStatus struct {
	Icon       string   `json:"icon"`
	ColorClass string   `json:"color_class"`
	Label      string   `json:"label"`
	Detail     []string `json:"detail,omitempty"`
	Actions    []Action `json:"actions,omitempty"`
	Badge      bool     `json:"badge,omitempty"`
}
