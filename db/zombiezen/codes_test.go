package zombiezen

import (
	"errors"
	"testing"
	"time"

	"github.com/anvena/launchpad/db"
)

func TestInsertCodeValidation(t *testing.T) {
	testDB := newTestDB(t)

	testCases := []struct {
		name    string
		code    db.VerificationCode
		wantErr error
	}{
		{
			name:    "missing email",
			code:    db.VerificationCode{Code: "123456", Expires: time.Now().Add(time.Minute)},
			wantErr: db.ErrMissingFields,
		},
		{
			name:    "missing code",
			code:    db.VerificationCode{Email: "a@example.com", Expires: time.Now().Add(time.Minute)},
			wantErr: db.ErrMissingFields,
		},
		{
			name:    "missing expiry",
			code:    db.VerificationCode{Email: "a@example.com", Code: "123456"},
			wantErr: db.ErrMissingFields,
		},
		{
			name: "valid",
			code: db.VerificationCode{Email: "a@example.com", Code: "123456", Expires: time.Now().Add(time.Minute)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := testDB.InsertCode(tc.code)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("InsertCode() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestConsumeCode(t *testing.T) {
	now := time.Now().UTC()

	t.Run("NotFound", func(t *testing.T) {
		testDB := newTestDB(t)
		_, err := testDB.ConsumeCode("a@example.com", "123456", now)
		if !errors.Is(err, db.ErrCodeNotFound) {
			t.Errorf("ConsumeCode() error = %v, want ErrCodeNotFound", err)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		testDB := newTestDB(t)
		mustInsertCode(t, testDB, "a@example.com", "123456", now.Add(10*time.Minute))
		_, err := testDB.ConsumeCode("a@example.com", "654321", now)
		if !errors.Is(err, db.ErrCodeNotFound) {
			t.Errorf("ConsumeCode() error = %v, want ErrCodeNotFound", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		testDB := newTestDB(t)
		mustInsertCode(t, testDB, "a@example.com", "123456", now.Add(-time.Minute))
		_, err := testDB.ConsumeCode("a@example.com", "123456", now)
		if !errors.Is(err, db.ErrCodeExpired) {
			t.Errorf("ConsumeCode() error = %v, want ErrCodeExpired", err)
		}
		// An expired code is left untouched so the caller can report it again.
		_, err = testDB.ConsumeCode("a@example.com", "123456", now)
		if !errors.Is(err, db.ErrCodeExpired) {
			t.Errorf("ConsumeCode() repeat error = %v, want ErrCodeExpired", err)
		}
	})

	t.Run("ConsumesOnce", func(t *testing.T) {
		testDB := newTestDB(t)
		mustInsertCode(t, testDB, "a@example.com", "123456", now.Add(10*time.Minute))

		code, err := testDB.ConsumeCode("a@example.com", "123456", now)
		if err != nil {
			t.Fatalf("ConsumeCode() error = %v", err)
		}
		if code.Email != "a@example.com" || code.Code != "123456" {
			t.Errorf("ConsumeCode() = %+v", code)
		}

		_, err = testDB.ConsumeCode("a@example.com", "123456", now)
		if !errors.Is(err, db.ErrCodeNotFound) {
			t.Errorf("ConsumeCode() after use error = %v, want ErrCodeNotFound", err)
		}
	})

	t.Run("OutstandingCodesStayValid", func(t *testing.T) {
		testDB := newTestDB(t)
		mustInsertCode(t, testDB, "a@example.com", "111111", now.Add(10*time.Minute))
		mustInsertCode(t, testDB, "a@example.com", "222222", now.Add(10*time.Minute))

		// Issuing a new code does not revoke the previous one.
		if _, err := testDB.ConsumeCode("a@example.com", "222222", now); err != nil {
			t.Errorf("ConsumeCode() newest code error = %v", err)
		}
		if _, err := testDB.ConsumeCode("a@example.com", "111111", now); err != nil {
			t.Errorf("ConsumeCode() earlier code error = %v", err)
		}
	})

	t.Run("PerEmailIsolation", func(t *testing.T) {
		testDB := newTestDB(t)
		mustInsertCode(t, testDB, "a@example.com", "123456", now.Add(10*time.Minute))
		_, err := testDB.ConsumeCode("b@example.com", "123456", now)
		if !errors.Is(err, db.ErrCodeNotFound) {
			t.Errorf("ConsumeCode() other email error = %v, want ErrCodeNotFound", err)
		}
	})
}

func mustInsertCode(t *testing.T, testDB *Db, email, code string, expires time.Time) {
	t.Helper()
	err := testDB.InsertCode(db.VerificationCode{Email: email, Code: code, Expires: expires})
	if err != nil {
		t.Fatalf("InsertCode() error = %v", err)
	}
}
