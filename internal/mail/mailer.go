// Package mail delivers the transactional messages the account and
// checkout flows depend on. The SMTP implementation uses net/smtp
// directly; when no SMTP server is configured the log mailer keeps
// the flows working in development.
package mail

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/smtp"
	"strings"
)

type Mailer interface {
	SendVerification(ctx context.Context, to, username, code string) error
	SendPasswordReset(ctx context.Context, to, username, password string) error
	SendOrderConfirmation(ctx context.Context, to string, orderID int64, password string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTP(addr, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

func (m *SMTPMailer) SendVerification(_ context.Context, to, username, code string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nThanks for signing up. Your verification code is:\r\n\r\n%s\r\n",
		username, code,
	)
	return m.send(to, "Verify your account", body)
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, username, password string) error {
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\nYour password was reset. Your new password is:\r\n\r\n%s\r\n\r\nPlease change it after logging in.\r\n",
		username, password,
	)
	return m.send(to, "Your new password", body)
}

func (m *SMTPMailer) SendOrderConfirmation(_ context.Context, to string, orderID int64, password string) error {
	body := fmt.Sprintf(
		"Thank you for your order!\r\n\r\nOrder number: %d\r\nOrder password: %s\r\n\r\nUse both to track your order.\r\n",
		orderID, password,
	)
	return m.send(to, fmt.Sprintf("Order %d confirmation", orderID), body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes the would-be messages to a logger instead of
// sending them.
type LogMailer struct {
	logger *log.Logger
}

func NewLog(logger *log.Logger) *LogMailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerification(_ context.Context, to, username, code string) error {
	m.logger.Printf("verification mail to %s (user %s): code=%s", to, username, code)
	return nil
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, username, password string) error {
	m.logger.Printf("password reset mail to %s (user %s)", to, username)
	return nil
}

func (m *LogMailer) SendOrderConfirmation(_ context.Context, to string, orderID int64, _ string) error {
	m.logger.Printf("order confirmation mail to %s for order %d", to, orderID)
	return nil
}
