package core

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/db/mock"
)

// MockValidator implements Validator with overridable behavior. A nil
// ContentTypeFunc accepts every request.
type MockValidator struct {
	ContentTypeFunc func(r *http.Request, allowedType string) (jsonResponse, error)
}

func (m *MockValidator) ContentType(r *http.Request, allowedType string) (jsonResponse, error) {
	if m.ContentTypeFunc != nil {
		return m.ContentTypeFunc(r, allowedType)
	}
	return jsonResponse{}, nil
}

// MockAuthenticator implements Authenticator with overridable behavior. A
// nil AuthenticateFunc rejects every request.
type MockAuthenticator struct {
	AuthenticateFunc func(r *http.Request) (*db.User, error, jsonResponse)
}

func (m *MockAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(r)
	}
	return nil, http.ErrNoCookie, errorNoAuthHeader
}

// newTestApp wires an App around the given database mock with a default
// config, a discarding logger and the real validator.
func newTestApp(t *testing.T, d *mock.Db) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	return NewApp(
		WithDbApp(d),
		WithConfigProvider(config.NewProvider(cfg)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithValidator(NewValidator()),
	)
}
