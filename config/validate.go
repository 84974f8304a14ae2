package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/anvena/launchpad/crypto"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateJwt(&cfg.Jwt); err != nil {
		return fmt.Errorf("jwt config validation failed: %w", err)
	}
	if err := validateCodes(&cfg.Codes); err != nil {
		return fmt.Errorf("codes config validation failed: %w", err)
	}
	return nil
}

// validateServer ensures Addr is host:port or :port. A bare ":8080" gets a
// localhost host so net.Listen and cookie domains have something to work with.
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		if strings.HasPrefix(server.Addr, ":") {
			port = strings.TrimPrefix(server.Addr, ":")
		} else {
			return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
		}
	}
	// SplitHostPort accepts ":8080" with an empty host; either way a bare
	// port gets a localhost host so net.Listen and cookie domains have
	// something to work with.
	if host == "" {
		host = "localhost"
	}

	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	return nil
}

func validateJwt(jwt *Jwt) error {
	if len(jwt.AuthSecret) < crypto.MinKeyLength {
		return fmt.Errorf("auth secret must be at least %d characters, got %d", crypto.MinKeyLength, len(jwt.AuthSecret))
	}
	if jwt.SessionTokenDuration.Duration <= 0 {
		return fmt.Errorf("session token duration must be positive")
	}
	return nil
}

func validateCodes(codes *Codes) error {
	if codes.Length != 6 {
		return fmt.Errorf("verification code length must be 6, got %d", codes.Length)
	}
	if codes.Duration.Duration <= 0 {
		return fmt.Errorf("verification code duration must be positive")
	}
	return nil
}
