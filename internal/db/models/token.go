package models

import (
	"encoding/hex"
	"time"

	"golang.org/x/crypto/sha3"
)

// Token represents an issued token record.
// The minted secret itself is never stored. Only its SHA3-256 fingerprint is,
// which is enough to verify a presented secret later without being able to
// reproduce it from the database.
type Token struct {
	// ID is the unique identifier for the token record (UUID).
	ID string `gorm:"primaryKey;size:36"`
	// Name is the caller-supplied label for the token.
	Name string `gorm:"index;size:100;not null"`
	// Fingerprint is the hex encoded SHA3-256 digest of the minted secret.
	Fingerprint string `gorm:"uniqueIndex;size:64;not null"`
	// Alphabet records the comma joined tags the secret was drawn from.
	Alphabet string `gorm:"size:50"`
	// Length is the character count of the minted secret.
	Length int `gorm:"not null"`
	// CreatedAt is the timestamp when the token was minted (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the token was last updated (managed by GORM).
	UpdatedAt time.Time
	// ExpiresAt is the expiry timestamp (nil if the token never expires).
	ExpiresAt *time.Time
	// RevokedAt is the revocation timestamp (nil while the token is live).
	RevokedAt *time.Time
}

// FingerprintSecret computes the hex encoded SHA3-256 digest of a minted secret.
// This is the only form of a secret that may ever touch the database or a log.
func FingerprintSecret(secret string) string {
	sum := sha3.Sum256([]byte(secret))

	return hex.EncodeToString(sum[:])
}

// Expired reports whether the token carries an expiry in the past.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && t.ExpiresAt.Before(now)
}

// Revoked reports whether the token has been revoked.
func (t *Token) Revoked() bool {
	return t.RevokedAt != nil
}
