package signing

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/voyagerlabs/ap2-go/pkg/mandate"
)

// UserAuthorization produces the hash that binds a user's approval to one
// exact transaction: user id + cart mandate id + total amount + approval
// time. It is a one-way commitment; no downstream agent reverses it.
func UserAuthorization(userID, cartMandateID string, totalUSD float64, approvedAt time.Time) (string, error) {
	binding := map[string]any{
		"user_id":         userID,
		"cart_mandate_id": cartMandateID,
		"total_amount":    totalUSD,
		"approved_at":     mandate.FormatTimestamp(approvedAt),
	}
	payload, err := Canonicalize(binding)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
