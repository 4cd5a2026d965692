package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Signer signs and verifies mandates with HMAC-SHA256 keys resolved from a
// KeyRegistry. Signatures are lowercase hex.
type Signer struct {
	keys KeyRegistry
}

// NewSigner creates a Signer backed by the given key registry.
func NewSigner(keys KeyRegistry) *Signer {
	return &Signer{keys: keys}
}

// SignMandate computes the mandate signature: the mandate is canonicalized
// with all signature-bearing fields stripped, then HMAC-SHA256 signed under
// the protocol role key.
func (s *Signer) SignMandate(mandate any) (string, error) {
	payload, err := canonicalizeStripped(mandate, signatureFields)
	if err != nil {
		return "", err
	}
	return s.hmacHex(RoleProtocol, payload)
}

// VerifyMandate recomputes the mandate signature and compares it to the
// provided one in constant time.
func (s *Signer) VerifyMandate(mandate any, signature string) bool {
	expected, err := s.SignMandate(mandate)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

// DeviceSignature simulates a device-backed user signature (secure enclave /
// biometric confirmation) over the user, mandate id and signing instant.
func (s *Signer) DeviceSignature(userID, mandateID string) (string, error) {
	data := fmt.Sprintf("%s:%s:%s", userID, mandateID, time.Now().UTC().Format(time.RFC3339))
	return s.hmacHex(RoleUserDevice, []byte(data))
}

// MerchantSignature attests that the merchant stands behind the cart contents
// and pricing identified by cartHash.
func (s *Signer) MerchantSignature(merchantID, cartHash string) (string, error) {
	data := fmt.Sprintf("%s:%s:%s", merchantID, cartHash, time.Now().UTC().Format(time.RFC3339))
	return s.hmacHex(RoleMerchant, []byte(data))
}

func (s *Signer) hmacHex(role Role, payload []byte) (string, error) {
	key, err := s.keys.Key(role)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
