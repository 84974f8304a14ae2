package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/db/mock"
	"github.com/anvena/launchpad/queue"
)

// decodeBody decodes a recorded JSON response into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// assertResponse checks status and error code of a recorded response against
// a precomputed one.
func assertResponse(t *testing.T, rr *httptest.ResponseRecorder, want jsonResponse) {
	t.Helper()
	if rr.Code != want.status {
		t.Errorf("status = %d, want %d", rr.Code, want.status)
	}
	var wantBody map[string]interface{}
	if err := json.Unmarshal(want.body, &wantBody); err != nil {
		t.Fatalf("failed to decode want body: %v", err)
	}
	gotBody := decodeBody(t, rr)
	if gotBody["code"] != wantBody["code"] {
		t.Errorf("code = %q, want %q", gotBody["code"], wantBody["code"])
	}
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterHandlerValidation(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		requestBody string
		wantError   jsonResponse
	}{
		{
			name:        "invalid content type",
			contentType: "text/plain",
			requestBody: `{"email":"test@example.com","name":"Test"}`,
			wantError:   errorInvalidContentType,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			requestBody: `{"email":"test@example.com",`,
			wantError:   errorInvalidRequest,
		},
		{
			name:        "missing email",
			contentType: "application/json",
			requestBody: `{"name":"Test"}`,
			wantError:   errorMissingFields,
		},
		{
			name:        "missing name",
			contentType: "application/json",
			requestBody: `{"email":"test@example.com"}`,
			wantError:   errorMissingFields,
		},
		{
			name:        "invalid email format",
			contentType: "application/json",
			requestBody: `{"email":"not-an-email","name":"Test"}`,
			wantError:   errorInvalidRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", tc.contentType)
			rr := httptest.NewRecorder()

			app := newTestApp(t, &mock.Db{})
			app.RegisterHandler(rr, req)

			assertResponse(t, rr, tc.wantError)
		})
	}
}

func TestRegisterHandlerCreatesUnverifiedUser(t *testing.T) {
	var created db.User
	var insertedCode db.VerificationCode
	var insertedJob db.Job

	d := &mock.Db{
		CreateUserFunc: func(user db.User) (*db.User, error) {
			created = user
			return &user, nil
		},
		InsertCodeFunc: func(code db.VerificationCode) error {
			insertedCode = code
			return nil
		},
		InsertJobFunc: func(job db.Job) error {
			insertedJob = job
			return nil
		},
	}
	app := newTestApp(t, d)

	rr := httptest.NewRecorder()
	app.RegisterHandler(rr, postJSON("/api/auth/register", `{"email":"alice@example.com","name":"Alice"}`))

	assertResponse(t, rr, okRegistration)

	if created.ID == "" {
		t.Error("created user has no id")
	}
	if created.Verified {
		t.Error("created user should start unverified")
	}
	if created.Password != "" {
		t.Error("created user should start without a password")
	}
	if insertedCode.Email != "alice@example.com" {
		t.Errorf("code issued for %q, want alice@example.com", insertedCode.Email)
	}
	if len(insertedCode.Code) != 6 {
		t.Errorf("code %q is not 6 digits", insertedCode.Code)
	}
	if !insertedCode.Expires.After(insertedCode.Created) {
		t.Error("code expiry is not after creation")
	}

	if insertedJob.JobType != queue.JobTypeVerificationCode {
		t.Errorf("job type = %q, want %q", insertedJob.JobType, queue.JobTypeVerificationCode)
	}
	var payload queue.PayloadVerificationCode
	if err := json.Unmarshal(insertedJob.Payload, &payload); err != nil {
		t.Fatalf("failed to decode job payload: %v", err)
	}
	if payload.Email != "alice@example.com" {
		t.Errorf("job payload email = %q, want alice@example.com", payload.Email)
	}
	var extra queue.PayloadCodeExtra
	if err := json.Unmarshal(insertedJob.PayloadExtra, &extra); err != nil {
		t.Fatalf("failed to decode job payload extra: %v", err)
	}
	if extra.Code != insertedCode.Code {
		t.Errorf("job carries code %q, ledger has %q", extra.Code, insertedCode.Code)
	}
}

func TestRegisterHandlerDuplicateEmail(t *testing.T) {
	d := &mock.Db{
		CreateUserFunc: func(user db.User) (*db.User, error) {
			return nil, db.ErrConstraintUnique
		},
	}
	app := newTestApp(t, d)

	rr := httptest.NewRecorder()
	app.RegisterHandler(rr, postJSON("/api/auth/register", `{"email":"alice@example.com","name":"Alice"}`))

	assertResponse(t, rr, errorEmailConflict)
}

func TestRegisterHandlerDevModeLeaksCode(t *testing.T) {
	var issued string
	d := &mock.Db{
		InsertCodeFunc: func(code db.VerificationCode) error {
			issued = code.Code
			return nil
		},
	}
	app := newTestApp(t, d)
	cfg := app.Config()
	cfg.Dev = true

	rr := httptest.NewRecorder()
	app.RegisterHandler(rr, postJSON("/api/auth/register", `{"email":"alice@example.com","name":"Alice"}`))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	body := decodeBody(t, rr)
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatal("dev response has no data object")
	}
	if data["verification_code"] != issued {
		t.Errorf("leaked code = %v, want %q", data["verification_code"], issued)
	}
}

func TestRegisterHandlerJobInsertFailure(t *testing.T) {
	d := &mock.Db{
		InsertJobFunc: func(job db.Job) error {
			return errors.New("disk full")
		},
	}
	app := newTestApp(t, d)

	rr := httptest.NewRecorder()
	app.RegisterHandler(rr, postJSON("/api/auth/register", `{"email":"alice@example.com","name":"Alice"}`))

	assertResponse(t, rr, errorServiceUnavailable)
}
