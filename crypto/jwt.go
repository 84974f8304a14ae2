package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// MinKeyLength is the minimum required length for JWT signing keys.
	// 32 bytes (256 bits) is the minimum recommended length for HMAC-SHA256 keys
	// to provide sufficient security against brute force attacks.
	MinKeyLength = 32

	// JWT claim constants
	ClaimIssuedAt  = "iat"     // JWT Issued At claim key
	ClaimExpiresAt = "exp"     // JWT Expiration Time claim key
	ClaimUserID    = "user_id" // JWT User ID claim key
	ClaimEmail     = "email"   // JWT Email claim key
	ClaimName      = "name"    // JWT display name claim key
)

var (
	// ErrJwtTokenExpired is returned when the token has expired
	ErrJwtTokenExpired = errors.New("token expired")
	// ErrJwtInvalidToken is returned when the token is invalid
	ErrJwtInvalidToken = errors.New("invalid token")
	// ErrJwtInvalidSigningMethod is returned when the signing method is not HS256
	ErrJwtInvalidSigningMethod = errors.New("unexpected signing method")
	// ErrJwtInvalidSecretLength is returned for invalid secret lengths
	ErrJwtInvalidSecretLength = errors.New("invalid secret length")
	// ErrJwtMissingClaims is returned when a required claim is absent
	ErrJwtMissingClaims = errors.New("missing required claims")
)

// ParseJwt verifies and parses a JWT and returns its claims.
// The returned jwt.MapClaims is a map[string]any:
//
//	exp := claims["exp"].(float64)
func ParseJwt(token string, verificationKey []byte) (jwt.MapClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))

	parsedToken, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrJwtTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrJwtInvalidSigningMethod
		}
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}

	if claims, ok := parsedToken.Claims.(jwt.MapClaims); ok && parsedToken.Valid {
		return claims, nil
	}

	return nil, ErrJwtInvalidToken
}

// ParseJwtUnverified extracts the claims of a token without verifying the
// signature. Used to discard malformed tokens cheaply before any database
// lookup; callers must still call ParseJwt before trusting the claims.
func ParseJwtUnverified(token string) (jwt.MapClaims, error) {
	parser := jwt.NewParser()
	parsedToken, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJwtInvalidToken, err)
	}
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrJwtInvalidToken
	}
	return claims, nil
}

// NewJwt generates a new JWT token with the provided claims.
// payload is jwt.MapClaims which is just map[string]any:
//
//	payload := jwt.MapClaims{"user_id": userID}
func NewJwt(payload jwt.MapClaims, signingKey []byte, duration time.Duration) (string, time.Time, error) {
	if len(signingKey) < MinKeyLength {
		return "", time.Time{}, ErrJwtInvalidSecretLength
	}

	// Set standard claims
	now := time.Now()
	expirationTime := now.Add(duration)
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = expirationTime.Unix()

	// Create and sign the token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	tokenString, err := token.SignedString(signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expirationTime, nil
}

// NewJwtSessionToken creates a signed session token asserting a user's
// identity. The claims carry the user id, email and display name so the
// client can restore its account view without an extra round trip.
func NewJwtSessionToken(userID, email, name string, secret []byte, duration time.Duration) (string, time.Time, error) {
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		ClaimEmail:  email,
		ClaimName:   name,
	}
	return NewJwt(claims, secret, duration)
}

// ValidateSessionClaims checks that the claims of a session token carry the
// fields every session token is issued with. The parser only validates the
// standard claims it knows about (exp); presence of the custom user_id claim
// has to be enforced here.
func ValidateSessionClaims(claims jwt.MapClaims) error {
	userID, ok := claims[ClaimUserID].(string)
	if !ok || userID == "" {
		return fmt.Errorf("%w: user_id", ErrJwtMissingClaims)
	}
	if _, ok := claims[ClaimIssuedAt]; !ok {
		return fmt.Errorf("%w: iat", ErrJwtMissingClaims)
	}
	if _, ok := claims[ClaimExpiresAt]; !ok {
		return fmt.Errorf("%w: exp", ErrJwtMissingClaims)
	}
	return nil
}
