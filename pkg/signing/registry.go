package signing

import "fmt"

// Role identifies a signing role in the mandate chain. The demo derives all
// role keys from one configured secret, but every signature names the role it
// was produced under, so a deployment can swap in independently provisioned
// keys per role without touching the protocol core.
type Role string

const (
	// RoleProtocol signs whole mandates (the IntentMandate signature).
	RoleProtocol Role = "protocol"

	// RoleUserDevice produces device-backed user signatures on carts.
	RoleUserDevice Role = "user-device"

	// RoleMerchant produces merchant attestations over cart contents.
	RoleMerchant Role = "merchant"

	// RoleRisk signs opaque risk payloads.
	RoleRisk Role = "risk"
)

// KeyRegistry resolves the HMAC key for a signing role.
type KeyRegistry interface {
	Key(role Role) ([]byte, error)
}

// StaticKeyRegistry is a KeyRegistry with fixed per-role keys derived from a
// single shared secret. This mirrors the demo's trust model; it is not a key
// management design.
type StaticKeyRegistry struct {
	keys map[Role][]byte
}

// NewStaticKeyRegistry derives per-role keys from the given secret.
func NewStaticKeyRegistry(secret string) *StaticKeyRegistry {
	return &StaticKeyRegistry{
		keys: map[Role][]byte{
			RoleProtocol:   []byte(secret),
			RoleUserDevice: []byte(secret + "-device"),
			RoleMerchant:   []byte(secret + "-merchant"),
			RoleRisk:       []byte(secret + "-risk"),
		},
	}
}

// Key returns the HMAC key for the given role.
func (r *StaticKeyRegistry) Key(role Role) ([]byte, error) {
	key, ok := r.keys[role]
	if !ok {
		return nil, fmt.Errorf("no key registered for role %q", role)
	}
	return key, nil
}
