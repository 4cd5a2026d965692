package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// HashCart produces the tamper-evidence hash of a cart: the line-item list is
// canonicalized (order-sensitive) and SHA-256 hashed, lowercase hex. The same
// function produces cart_hash at creation time and re-verifies it at
// validation time; the two must match bit-for-bit.
func HashCart(items []mandate.LineItem) (string, error) {
	payload, err := Canonicalize(items)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyCartHash recomputes the hash of items and compares it to the expected
// value in constant time. Any mismatch signals tampering.
func VerifyCartHash(items []mandate.LineItem, expected string) bool {
	actual, err := HashCart(items)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(actual), []byte(expected))
}
