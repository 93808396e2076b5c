// Package mail sends transactional order email over SMTP. Delivery failure is
// never fatal to the checkout pipeline; callers log and continue.
package mail

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SendInvoice mails htmlBody to the customer with the invoice PDF attached.
func (m *Mailer) SendInvoice(to, subject, htmlBody, attachmentPath string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if attachmentPath != "" {
		msg.Attach(attachmentPath, gomail.Rename("invoice.pdf"))
	}

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
