package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Bounds of the 6 digit verification code space. Codes are always exactly six
// digits so they can be typed from an email without ambiguity.
const (
	codeMin = 100000
	codeMax = 999999
)

// GenerateVerificationCode returns a 6 digit numeric code drawn uniformly
// from 100000-999999 using the system randomness source.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", codeMin+n.Int64())
}
