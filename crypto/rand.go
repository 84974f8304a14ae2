package crypto

import (
	"crypto/rand"
	"math/big"
)

// AlphanumericAlphabet is the character set for URL safe random strings.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// The OAuth2 specification (RFC 6749) does not mandate a specific length for
// the state parameter, it recommends a random, unguessable string.
// 32 characters is common for better uniqueness and security.
const Oauth2StateLength = 32

// RandomString returns a cryptographically secure random string of the given
// length drawn from the alphabet. Panics on an invalid alphabet; a failure of
// the system randomness source is not recoverable and also panics.
func RandomString(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		panic("crypto: invalid random string parameters")
	}
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// Oauth2State returns a random state parameter linking an authorization
// request to its callback, preventing CSRF on the OAuth2 flow.
func Oauth2State() string {
	return RandomString(Oauth2StateLength, AlphanumericAlphabet)
}
