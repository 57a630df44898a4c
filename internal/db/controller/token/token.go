// Package token provides CRUD operations for issued token records.
package token

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/db/models"
)

const (
	fingerprintQueryPattern = "fingerprint = ?"
	idQueryPattern          = "id = ?"
)

var (
	// ErrTokenNotFound is returned when a token record is not found.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenIDEmpty is returned when an operation is attempted with an empty token id.
	ErrTokenIDEmpty = errors.New("token id cannot be empty")
	// ErrTokenNameEmpty is returned when attempting to create a token with an empty name.
	ErrTokenNameEmpty = errors.New("token name cannot be empty")
	// ErrFingerprintEmpty is returned when a fingerprint is required but empty.
	ErrFingerprintEmpty = errors.New("token fingerprint cannot be empty")
	// ErrTokenAlreadyExists is returned when a token with the same fingerprint already exists.
	ErrTokenAlreadyExists = errors.New("token with this fingerprint already exists")
	// ErrTokenAlreadyRevoked is returned when revoking a token that is already revoked.
	ErrTokenAlreadyRevoked = errors.New("token already revoked")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Create persists a freshly minted token record.
func Create(db *gorm.DB, t *models.Token) error {
	if db == nil {
		return ErrDBNil
	}
	if t.ID == "" {
		return ErrTokenIDEmpty
	}
	if t.Name == "" {
		return ErrTokenNameEmpty
	}
	if t.Fingerprint == "" {
		return ErrFingerprintEmpty
	}

	// The fingerprint carries a unique index. A hit here means the exact
	// same secret was minted twice, which callers must treat as fatal.
	var existing models.Token
	result := db.Where(fingerprintQueryPattern, t.Fingerprint).First(&existing)
	if result.Error == nil {
		return ErrTokenAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	result = db.Create(t)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Get retrieves a token record by its id.
func Get(db *gorm.DB, id string) (*models.Token, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == "" {
		return nil, ErrTokenIDEmpty
	}

	var token models.Token
	result := db.Where(idQueryPattern, id).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}

	return &token, nil
}

// GetByFingerprint retrieves a token record by the fingerprint of its secret.
func GetByFingerprint(db *gorm.DB, fingerprint string) (*models.Token, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if fingerprint == "" {
		return nil, ErrFingerprintEmpty
	}

	var token models.Token
	result := db.Where(fingerprintQueryPattern, fingerprint).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}

	return &token, nil
}

// GetAll retrieves all token records from the database.
func GetAll(db *gorm.DB) ([]models.Token, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tokens []models.Token
	result := db.Find(&tokens)
	if result.Error != nil {
		return nil, result.Error
	}

	return tokens, nil
}

// Revoke marks the token with the given id as revoked at the given time.
// Revocation is permanent; revoking twice is an error.
func Revoke(db *gorm.DB, id string, when time.Time) (*models.Token, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if id == "" {
		return nil, ErrTokenIDEmpty
	}

	var token models.Token
	result := db.Where(idQueryPattern, id).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}

	if token.RevokedAt != nil {
		return nil, ErrTokenAlreadyRevoked
	}

	token.RevokedAt = &when
	result = db.Save(&token)
	if result.Error != nil {
		return nil, result.Error
	}

	return &token, nil
}

// DeleteExpired removes every token record whose expiry lies before now and
// returns how many records went away.
func DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	result := db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&models.Token{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
