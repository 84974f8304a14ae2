package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/anvena/launchpad/config"
	"github.com/domodwyer/mailyak/v3"
)

// MailerInterface is what job handlers depend on, so tests can mock sends.
type MailerInterface interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordResetCode(ctx context.Context, email, code string) error
	SendEmailBindCode(ctx context.Context, email, code string) error
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	host        string
	port        int
	username    string
	password    string
	fromName    string
	fromAddress string
	useTLS      bool
	logger      *slog.Logger
}

var _ MailerInterface = (*Mailer)(nil)

func New(cfg config.Smtp, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:        cfg.Host,
		port:        cfg.Port,
		username:    cfg.Username,
		password:    cfg.Password,
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		useTLS:      cfg.UseTLS,
		logger:      logger,
	}
}

func (m *Mailer) newMail() (*mailyak.MailYak, error) {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	if m.useTLS {
		return mailyak.NewWithTLS(addr, auth, &tls.Config{ServerName: m.host})
	}
	return mailyak.New(addr, auth), nil
}

// SendVerificationCode mails a one-time code for email verification.
func (m *Mailer) SendVerificationCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(`
		<h1>Verify your email</h1>
		<p>Your verification code is:</p>
		<h2>%s</h2>
		<p>The code expires in 10 minutes.</p>
	`, code)
	return m.send(ctx, email, "Email Verification", body)
}

// SendPasswordResetCode mails a one-time code for password reset.
func (m *Mailer) SendPasswordResetCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(`
		<h1>Reset your password</h1>
		<p>Your password reset code is:</p>
		<h2>%s</h2>
		<p>The code expires in 10 minutes. If you did not request a reset, ignore this mail.</p>
	`, code)
	return m.send(ctx, email, "Password Reset", body)
}

// SendEmailBindCode mails a one-time code confirming an address bind.
func (m *Mailer) SendEmailBindCode(ctx context.Context, email, code string) error {
	body := fmt.Sprintf(`
		<h1>Confirm your email</h1>
		<p>Use this code to attach the address to your account:</p>
		<h2>%s</h2>
		<p>The code expires in 10 minutes.</p>
	`, code)
	return m.send(ctx, email, "Confirm Email", body)
}

// send builds and dispatches the mail, honoring ctx cancellation. mailyak
// has no context support, so the send runs in a goroutine and the result is
// collected through a channel.
func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	mail, err := m.newMail()
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	mail.To(to)
	mail.From(m.fromAddress)
	mail.FromName(m.fromName)
	mail.Subject(subject)
	mail.HTML().Set(htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send %q mail: %w", subject, err)
		}
	}

	m.logger.Info("successfully sent mail", "subject", subject, "email", to)
	return nil
}
