package mandate

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// randomHex returns n hex characters from a fresh UUID.
func randomHex(n int) string {
	id := uuid.New()
	s := hex.EncodeToString(id[:])
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// NewIntentMandateID returns a fresh intent mandate id ("im_" + 12 hex).
func NewIntentMandateID() string { return "im_" + randomHex(12) }

// NewCartMandateID returns a fresh cart mandate id ("cm_" + 12 hex).
func NewCartMandateID() string { return "cm_" + randomHex(12) }

// NewPaymentMandateID returns a fresh payment mandate id ("pm_" + 12 hex).
func NewPaymentMandateID() string { return "pm_" + randomHex(12) }

// NewPaymentID returns a fresh payment details id ("pay_" + 12 hex).
func NewPaymentID() string { return "pay_" + randomHex(12) }
