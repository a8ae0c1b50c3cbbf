package oauth2client

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Credentials is the public/secret key pair issued by Moltin for a store.
type Credentials struct {
	PublicKey string
	SecretKey string
}

// Key identifies the cache slot that holds the token for these credentials.
func (c Credentials) Key() string {
	sum := sha256.Sum256([]byte(c.PublicKey + "\x00" + c.SecretKey))
	return hex.EncodeToString(sum[:])
}

// Token is a bearer token and the instant it stops being usable.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}
