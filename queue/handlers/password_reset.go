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

// PasswordResetHandler mails password reset codes. The account existence
// was checked at enqueue time; a vanished account since then is not an
// error worth retrying.
type PasswordResetHandler struct {
	dbAuth         db.DbAuth
	configProvider *config.Provider
	mailer         mail.MailerInterface
	logger         *slog.Logger
}

func NewPasswordResetHandler(dbAuth db.DbAuth, provider *config.Provider, mailer mail.MailerInterface, logger *slog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		dbAuth:         dbAuth,
		configProvider: provider,
		mailer:         mailer,
		logger:         logger,
	}
}

func (h *PasswordResetHandler) Handle(ctx context.Context, job db.Job) error {
	var payload queue.PayloadPasswordReset
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse password reset payload: %w", err)
	}
	var extra queue.PayloadCodeExtra
	if err := json.Unmarshal(job.PayloadExtra, &extra); err != nil {
		return fmt.Errorf("failed to parse password reset payload extra: %w", err)
	}

	user, err := h.dbAuth.GetUserByEmail(payload.Email)
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		h.logger.Info("user gone before reset mail was sent", "email", payload.Email)
		return nil
	}

	cfg := h.configProvider.Get()
	if !cfg.Smtp.Enabled {
		h.logger.Info("smtp disabled, skipping password reset mail", "email", payload.Email)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(ctx, cfg.Smtp.SendTimeout.Duration)
	defer cancel()

	return h.mailer.SendPasswordResetCode(sendCtx, payload.Email, extra.Code)
}
