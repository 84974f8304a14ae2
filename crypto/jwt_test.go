package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test_secret_32_bytes_long_xxxxxx")

func TestNewJwtSessionTokenRoundTrip(t *testing.T) {
	token, expiry, err := NewJwtSessionToken("user123", "test@example.com", "Test User", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJwtSessionToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("NewJwtSessionToken() returned empty token")
	}
	if time.Until(expiry) > time.Hour || time.Until(expiry) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", expiry)
	}

	claims, err := ParseJwt(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJwt() error = %v", err)
	}
	if got := claims[ClaimUserID]; got != "user123" {
		t.Errorf("user_id claim = %v, want user123", got)
	}
	if got := claims[ClaimEmail]; got != "test@example.com" {
		t.Errorf("email claim = %v, want test@example.com", got)
	}
	if got := claims[ClaimName]; got != "Test User" {
		t.Errorf("name claim = %v, want Test User", got)
	}
	if err := ValidateSessionClaims(claims); err != nil {
		t.Errorf("ValidateSessionClaims() error = %v", err)
	}
}

func TestNewJwtShortSecret(t *testing.T) {
	_, _, err := NewJwtSessionToken("user123", "a@b.com", "n", []byte("short"), time.Hour)
	if !errors.Is(err, ErrJwtInvalidSecretLength) {
		t.Errorf("error = %v, want ErrJwtInvalidSecretLength", err)
	}
}

func TestParseJwtWrongKey(t *testing.T) {
	token, _, err := NewJwtSessionToken("user123", "a@b.com", "n", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJwtSessionToken() error = %v", err)
	}
	otherKey := []byte("other_secret_32_bytes_long_yyyyy")
	if _, err := ParseJwt(token, otherKey); err == nil {
		t.Error("ParseJwt() with wrong key succeeded, want error")
	}
}

func TestParseJwtExpired(t *testing.T) {
	token, _, err := NewJwtSessionToken("user123", "a@b.com", "n", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewJwtSessionToken() error = %v", err)
	}
	if _, err := ParseJwt(token, testSecret); !errors.Is(err, ErrJwtTokenExpired) {
		t.Errorf("error = %v, want ErrJwtTokenExpired", err)
	}
}

func TestParseJwtUnverifiedMalformed(t *testing.T) {
	if _, err := ParseJwtUnverified("not.a.token"); err == nil {
		t.Error("ParseJwtUnverified() on garbage succeeded, want error")
	}
}

func TestValidateSessionClaimsMissingUserID(t *testing.T) {
	claims := jwt.MapClaims{
		ClaimIssuedAt:  time.Now().Unix(),
		ClaimExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := ValidateSessionClaims(claims); !errors.Is(err, ErrJwtMissingClaims) {
		t.Errorf("error = %v, want ErrJwtMissingClaims", err)
	}
}
