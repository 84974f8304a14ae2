package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/mail"
)

// mailerMock is a function-field mock of mail.MailerInterface.
type mailerMock struct {
	SendVerificationCodeFunc  func(ctx context.Context, email, code string) error
	SendPasswordResetCodeFunc func(ctx context.Context, email, code string) error
	SendEmailBindCodeFunc     func(ctx context.Context, email, code string) error
}

func (m *mailerMock) SendVerificationCode(ctx context.Context, email, code string) error {
	if m.SendVerificationCodeFunc != nil {
		return m.SendVerificationCodeFunc(ctx, email, code)
	}
	return nil
}

func (m *mailerMock) SendPasswordResetCode(ctx context.Context, email, code string) error {
	if m.SendPasswordResetCodeFunc != nil {
		return m.SendPasswordResetCodeFunc(ctx, email, code)
	}
	return nil
}

func (m *mailerMock) SendEmailBindCode(ctx context.Context, email, code string) error {
	if m.SendEmailBindCodeFunc != nil {
		return m.SendEmailBindCodeFunc(ctx, email, code)
	}
	return nil
}

var _ mail.MailerInterface = (*mailerMock)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProvider(smtpEnabled bool) *config.Provider {
	cfg := config.NewDefaultConfig()
	cfg.Smtp.Enabled = smtpEnabled
	cfg.Smtp.SendTimeout = config.Duration{Duration: 5 * time.Second}
	return config.NewProvider(cfg)
}
