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

// EmailBindHandler mails confirmation codes for attaching an address to an
// OAuth2 account.
type EmailBindHandler struct {
	dbAuth         db.DbAuth
	configProvider *config.Provider
	mailer         mail.MailerInterface
	logger         *slog.Logger
}

func NewEmailBindHandler(dbAuth db.DbAuth, provider *config.Provider, mailer mail.MailerInterface, logger *slog.Logger) *EmailBindHandler {
	return &EmailBindHandler{
		dbAuth:         dbAuth,
		configProvider: provider,
		mailer:         mailer,
		logger:         logger,
	}
}

func (h *EmailBindHandler) Handle(ctx context.Context, job db.Job) error {
	var payload queue.PayloadEmailBind
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse email bind payload: %w", err)
	}
	var extra queue.PayloadCodeExtra
	if err := json.Unmarshal(job.PayloadExtra, &extra); err != nil {
		return fmt.Errorf("failed to parse email bind payload extra: %w", err)
	}

	user, err := h.dbAuth.GetUserById(payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		h.logger.Info("user gone before bind mail was sent", "user_id", payload.UserID)
		return nil
	}

	cfg := h.configProvider.Get()
	if !cfg.Smtp.Enabled {
		h.logger.Info("smtp disabled, skipping email bind mail", "email", payload.Email)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, cfg.Smtp.SendTimeout.Duration)
	defer cancel()

	return h.mailer.SendEmailBindCode(sendCtx, payload.Email, extra.Code)
}
