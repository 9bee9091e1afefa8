// Package otp generates and verifies the one-time delivery codes that prove
// physical handoff between seller and buyer.
package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// Codes are 6-digit decimal strings in [100000, 999999].
const (
	codeMin  = 100000
	codeSpan = 900000
)

// MinCost is the lowest accepted bcrypt cost for hashing delivery codes.
const MinCost = 10

// Codec produces delivery codes and one-way hashes of them. The plaintext
// code is handed to the buyer out-of-band; only the hash is ever stored.
type Codec interface {
	Generate() (string, error)
	Hash(code string) (string, error)
	Verify(code, hash string) bool
}

// BcryptCodec implements Codec using crypto/rand for generation and bcrypt
// for hashing.
type BcryptCodec struct {
	cost int
}

var _ Codec = (*BcryptCodec)(nil)

// NewBcryptCodec returns a BcryptCodec with the given bcrypt cost. Costs
// below MinCost are raised to MinCost.
func NewBcryptCodec(cost int) *BcryptCodec {
	if cost < MinCost {
		cost = MinCost
	}
	return &BcryptCodec{cost: cost}
}

// Generate returns a uniformly random 6-digit code drawn from crypto/rand.
func (c *BcryptCodec) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", errors.Wrap(err, "read random")
	}
	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}

// Hash returns the salted bcrypt digest of code.
func (c *BcryptCodec) Hash(code string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(code), c.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(digest), nil
}

// Verify reports whether code matches the stored bcrypt hash.
func (c *BcryptCodec) Verify(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
