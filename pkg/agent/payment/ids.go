package payment

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const pnrAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTransactionID returns a settlement transaction id, "TXN-" + 10 hex.
func NewTransactionID() string {
	return "TXN-" + strings.ToUpper(hexID(10))
}

// NewAuthorizationCode returns a network authorization code, "AUTH-" + 6 digits.
func NewAuthorizationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		n = big.NewInt(0)
	}
	return fmt.Sprintf("AUTH-%06d", n.Int64()+100000)
}

// NewPNR returns a booking locator: prefix + "-" + 6 uppercase alphanumerics.
func NewPNR(prefix string) string {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pnrAlphabet))))
		if err != nil {
			n = big.NewInt(0)
		}
		code[i] = pnrAlphabet[n.Int64()]
	}
	return prefix + "-" + string(code)
}

// NewConfirmationNumber returns prefix + 8 uppercase hex.
func NewConfirmationNumber(prefix string) string {
	return prefix + strings.ToUpper(hexID(8))
}

func hexID(n int) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:n]
}
