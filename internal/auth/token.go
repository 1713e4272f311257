package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// TestUserID is the identity applied to requests carrying no token.
// The stub endpoints accept those requests as a test user.
const TestUserID = "test-user"

type claims struct {
	Sub string `json:"sub"`
	Exp int64  `json:"exp"`
}

type Tokens struct {
	secret []byte
}

func New(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

func (t *Tokens) sign(payload string) string {
	h := hmac.New(sha256.New, t.secret)
	_, _ = h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// TokenForUser issues a 24h HMAC-signed bearer token.
func (t *Tokens) TokenForUser(userID string) string {
	hdr := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	b, _ := json.Marshal(claims{Sub: userID, Exp: time.Now().Add(24 * time.Hour).Unix()})
	payload := base64.RawURLEncoding.EncodeToString(b)
	sig := t.sign(hdr + "." + payload)
	return hdr + "." + payload + "." + sig
}

// ParseUserToken verifies the signature and expiry and returns the
// subject.
func (t *Tokens) ParseUserToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", errors.New("invalid token")
	}
	expected := t.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return "", errors.New("invalid signature")
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", errors.New("invalid payload")
	}
	var c claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return "", errors.New("invalid claims")
	}
	if c.Exp < time.Now().Unix() {
		return "", errors.New("expired")
	}
	if c.Sub == "" {
		return "", errors.New("invalid claims")
	}
	return c.Sub, nil
}
