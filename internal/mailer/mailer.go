package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

// SendConfirmationEmail notifies an attendee that their registration was
// recorded. Called from the worker, never from the request path.
func SendConfirmationEmail(log *zerolog.Logger, cfg SMTPConfig, eventName, recipientName, recipientEmail, registrationDate string) error {
	subject := fmt.Sprintf("Registration confirmed: %s", eventName)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour registration for %s has been confirmed on %s.\nSee you there!",
		recipientName, eventName, registrationDate,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		cfg.From, recipientEmail, subject, body,
	)

	addr := cfg.Host + ":" + cfg.Port
	auth := smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	log.Info().Msgf("confirmation email sent to %s", recipientEmail)
	return nil
}
