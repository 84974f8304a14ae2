package core

import (
	"errors"
	"time"

	"github.com/anvena/launchpad/crypto"
	"github.com/anvena/launchpad/db"
)

// issueCode generates a fresh 6 digit code and appends it to the ledger.
// Prior unused codes for the same email stay valid until they individually
// expire or get consumed.
func (a *App) issueCode(email string) (string, error) {
	cfg := a.Config()
	code := crypto.GenerateVerificationCode()
	now := time.Now()
	entry := db.VerificationCode{
		Email:   email,
		Code:    code,
		Created: now,
		Expires: now.Add(cfg.Codes.Duration.Duration),
	}
	if err := a.DbCode().InsertCode(entry); err != nil {
		return "", err
	}
	return code, nil
}

// responseForCodeError maps ledger consumption errors to their precomputed
// responses. Unknown errors fall through to a database error.
func responseForCodeError(err error) jsonResponse {
	switch {
	case errors.Is(err, db.ErrCodeNotFound):
		return errorCodeNotFound
	case errors.Is(err, db.ErrCodeExpired):
		return errorCodeExpired
	case errors.Is(err, db.ErrCodeAlreadyUsed):
		return errorCodeAlreadyUsed
	default:
		return errorAuthDatabaseError
	}
}
