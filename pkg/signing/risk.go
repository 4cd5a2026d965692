package signing

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RiskClaims is the payload of a risk token. The token is an opaque, one-way
// commitment: downstream agents carry it but never decode it. Decode exists
// only for debugging.
type RiskClaims struct {
	UserID          string  `json:"user_id"`
	Amount          float64 `json:"amount"`
	RiskScore       float64 `json:"risk_score"`
	SessionID       string  `json:"session_id"`
	DeviceTrust     string  `json:"device_trust"`
	BehavioralScore float64 `json:"behavioral_score"`
	jwt.RegisteredClaims
}

// demoRiskScore is the fixed low-risk score the simulator assigns.
const demoRiskScore = 0.12

// RiskToken mints a signed risk payload (HS256 JWT) binding the user, the
// amount at stake and the session. An empty sessionID gets a fresh one.
func (s *Signer) RiskToken(userID string, amountUSD float64, sessionID string) (string, error) {
	key, err := s.keys.Key(RoleRisk)
	if err != nil {
		return "", err
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	claims := RiskClaims{
		UserID:          userID,
		Amount:          amountUSD,
		RiskScore:       demoRiskScore,
		SessionID:       sessionID,
		DeviceTrust:     "high",
		BehavioralScore: 0.95,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign risk token: %w", err)
	}
	return signed, nil
}

// DecodeRiskToken parses and verifies a risk token. Debugging aid only; no
// agent in the chain depends on the decoded contents.
func (s *Signer) DecodeRiskToken(token string) (*RiskClaims, error) {
	key, err := s.keys.Key(RoleRisk)
	if err != nil {
		return nil, err
	}

	claims := &RiskClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse risk token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("risk token signature invalid")
	}
	return claims, nil
}
