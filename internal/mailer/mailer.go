package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends workflow notification mails. A nil *Mailer is a valid no-op,
// so deployments without SMTP simply skip notifications.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(host string, port int, username, password, from string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m == nil || to == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// NotifyApprovalNeeded mails an approver that a permit awaits their slot.
func (m *Mailer) NotifyApprovalNeeded(to, permitCode, description string) error {
	subject := fmt.Sprintf("Freigabe erforderlich: %s", permitCode)
	body := fmt.Sprintf("Die Arbeitserlaubnis %s wartet auf Ihre Freigabe.\n\n%s", permitCode, description)
	return m.Send(to, subject, body)
}

// NotifyDecision mails the requestor about an approval or rejection.
func (m *Mailer) NotifyDecision(to, permitCode, decision, reason string) error {
	subject := fmt.Sprintf("Arbeitserlaubnis %s: %s", permitCode, decision)
	body := fmt.Sprintf("Die Arbeitserlaubnis %s wurde %s.", permitCode, decision)
	if reason != "" {
		body += "\nBegründung: " + reason
	}
	return m.Send(to, subject, body)
}
