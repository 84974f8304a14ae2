package crypto

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	s := RandomString(32, AlphanumericAlphabet)
	if len(s) != 32 {
		t.Fatalf("RandomString() length = %d, want 32", len(s))
	}
	for _, r := range s {
		if !strings.ContainsRune(AlphanumericAlphabet, r) {
			t.Fatalf("RandomString() contains %q outside alphabet", r)
		}
	}
}

func TestOauth2StateLength(t *testing.T) {
	if got := len(Oauth2State()); got != Oauth2StateLength {
		t.Errorf("Oauth2State() length = %d, want %d", got, Oauth2StateLength)
	}
}
