package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers the transactional mail the auth flows depend on. Delivery
// failures are surfaced to the caller, never retried.
type Mailer interface {
	SendOTP(to, code string) error
	SendWelcome(to, name string) error
	SendPasswordReset(to, token string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *smtpMailer) SendOTP(to, code string) error {
	body := fmt.Sprintf(
		"Your IQnite verification code is <b>%s</b>.<br>It expires in 10 minutes.",
		code,
	)
	return m.send(to, "Verify your IQnite account", body)
}

func (m *smtpMailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,<br><br>Your account is verified. Welcome to IQnite!",
		name,
	)
	return m.send(to, "Welcome to IQnite", body)
}

func (m *smtpMailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account.<br>"+
			"Reset token: <b>%s</b><br>It expires in 1 hour. "+
			"If you did not request this, you can ignore this mail.",
		token,
	)
	return m.send(to, "Reset your IQnite password", body)
}

func (m *smtpMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
