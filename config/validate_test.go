package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateServerAddr(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		addr      string
		wantAddr  string
		expectErr bool
	}{
		{"Empty address", "", "", true},
		{"Port only", ":8080", "localhost:8080", false},
		{"Host and port", "example.com:8080", "example.com:8080", false},
		{"IPv4 and port", "127.0.0.1:8080", "127.0.0.1:8080", false},
		{"IPv6 and port", "[::1]:8080", "[::1]:8080", false},
		{"Missing port", "example.com", "", true},
		{"Bad port", ":notaport", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := &Server{Addr: tc.addr}
			err := validateServer(server)
			if (err != nil) != tc.expectErr {
				t.Fatalf("validateServer() error = %v, expectErr %v", err, tc.expectErr)
			}
			if !tc.expectErr && server.Addr != tc.wantAddr {
				t.Errorf("validateServer() addr = %q, want %q", server.Addr, tc.wantAddr)
			}
		})
	}
}

func TestValidateJwt(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		jwt       Jwt
		expectErr string
	}{
		{
			name:      "missing secret",
			jwt:       Jwt{SessionTokenDuration: Duration{7 * 24 * time.Hour}},
			expectErr: "auth secret",
		},
		{
			name: "short secret",
			jwt: Jwt{
				AuthSecret:           "too-short",
				SessionTokenDuration: Duration{7 * 24 * time.Hour},
			},
			expectErr: "auth secret",
		},
		{
			name: "zero duration",
			jwt: Jwt{
				AuthSecret: strings.Repeat("k", 32),
			},
			expectErr: "duration",
		},
		{
			name: "valid",
			jwt: Jwt{
				AuthSecret:           strings.Repeat("k", 32),
				SessionTokenDuration: Duration{7 * 24 * time.Hour},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateJwt(&tc.jwt)
			if tc.expectErr == "" {
				if err != nil {
					t.Fatalf("validateJwt() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.expectErr) {
				t.Errorf("validateJwt() error = %v, want containing %q", err, tc.expectErr)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(NewDefaultConfig()) error = %v", err)
	}
}
