package email

import (
	"context"
	"fmt"
	"log"

	"github.com/Molemo21/ConnectSA-k9-sub014/config"
	"github.com/Molemo21/ConnectSA-k9-sub014/internal/kafka"
	"gopkg.in/gomail.v2"
)

// Sender mails payment alerts to the support inbox.
type Sender struct {
	cfg config.EmailConfig
}

func NewSender(cfg config.EmailConfig) *Sender {
	return &Sender{cfg: cfg}
}

// Send delivers one alert. Without an SMTP host configured the alert is only
// logged, which is how local environments run.
func (s *Sender) Send(ctx context.Context, event kafka.StatusEvent) error {
	subject, body := compose(event)

	if s.cfg.SMTPHost == "" {
		log.Printf("email (smtp disabled): %s", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.SupportInbox)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUsername, s.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

func compose(event kafka.StatusEvent) (subject, body string) {
	switch event.Type {
	case kafka.EventPaymentStuck:
		subject = fmt.Sprintf("Payment %s stuck in %s for %.0f minutes", event.Ref, event.PaymentStatus, event.AgeMinutes)
		body = fmt.Sprintf(`
		<h2>Payment needs attention</h2>
		<p>Payment <b>%s</b> (booking %s) has been in <b>%s</b> for %.0f minutes without gateway confirmation.</p>
		<p>Check the gateway dashboard and run a manual verification if the charge went through.</p>
		<p>Observed at %s.</p>
	`, event.Ref, event.BookingID, event.PaymentStatus, event.AgeMinutes, event.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	case kafka.EventReleaseStuck:
		subject = fmt.Sprintf("Escrow release for %s stuck for %.0f minutes", event.Ref, event.AgeMinutes)
		body = fmt.Sprintf(`
		<h2>Escrow release needs attention</h2>
		<p>The release for payment <b>%s</b> (booking %s) has been processing for %.0f minutes.</p>
		<p>The provider has not been paid out yet. Check the transfer status with the gateway.</p>
		<p>Observed at %s.</p>
	`, event.Ref, event.BookingID, event.AgeMinutes, event.OccurredAt.Format("2006-01-02 15:04:05 MST"))
	default:
		subject = fmt.Sprintf("Payment alert: %s for %s", event.Type, event.Ref)
		body = fmt.Sprintf(`
		<h2>Payment alert</h2>
		<p>Event <b>%s</b> for payment <b>%s</b> (booking %s), status %s.</p>
	`, event.Type, event.Ref, event.BookingID, event.PaymentStatus)
	}
	return subject, body
}
