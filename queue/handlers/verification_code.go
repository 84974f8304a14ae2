package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/mail"
	"github.com/anvena/launchpad/queue"
)

// VerificationCodeHandler mails registration verification codes.
type VerificationCodeHandler struct {
	configProvider *config.Provider
	mailer         mail.MailerInterface
	logger         *slog.Logger
}

func NewVerificationCodeHandler(provider *config.Provider, mailer mail.MailerInterface, logger *slog.Logger) *VerificationCodeHandler {
	return &VerificationCodeHandler{
		configProvider: provider,
		mailer:         mailer,
		logger:         logger,
	}
}

func (h *VerificationCodeHandler) Handle(ctx context.Context, job db.Job) error {
	var payload queue.PayloadVerificationCode
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse verification code payload: %w", err)
	}
	var extra queue.PayloadCodeExtra
	if err := json.Unmarshal(job.PayloadExtra, &extra); err != nil {
		return fmt.Errorf("failed to parse verification code payload extra: %w", err)
	}

	cfg := h.configProvider.Get()
	if !cfg.Smtp.Enabled {
		// Without a mail server the code is still usable; dev setups read
		// it from the register response or this log line.
		h.logger.Info("smtp disabled, skipping verification mail", "email", payload.Email)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, cfg.Smtp.SendTimeout.Duration)
	defer cancel()

	return h.mailer.SendVerificationCode(sendCtx, payload.Email, extra.Code)
}
