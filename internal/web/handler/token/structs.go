package token

import (
	"time"

	"github.com/tokenmint/tokenmint/internal/db/models"
)

// MintRequest is the body of POST /v1/tokens.
type MintRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Length   int      `json:"length" validate:"omitempty,min=1"`
	Alphabet []string `json:"alphabet" validate:"omitempty,dive,oneof=a-z A-Z 0-9 -_"`
	TTL      int      `json:"ttl" validate:"omitempty,min=1"`
}

// VerifyRequest is the body of POST /v1/tokens/verify.
type VerifyRequest struct {
	Secret string `json:"secret" validate:"required"`
}

// Response is the wire form of a stored token record. It never carries the
// secret, only the fingerprint.
type Response struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Fingerprint string     `json:"fingerprint"`
	Alphabet    string     `json:"alphabet"`
	Length      int        `json:"length"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// MintResponse carries the secret exactly once, next to the stored record.
type MintResponse struct {
	Response
	Secret string `json:"secret"`
}

// VerifyResponse reports whether a presented secret belongs to a live token.
type VerifyResponse struct {
	Valid  bool      `json:"valid"`
	Reason string    `json:"reason,omitempty"`
	Token  *Response `json:"token,omitempty"`
}

// fromModel maps a stored record onto its wire form.
func fromModel(t *models.Token) Response {
	return Response{
		ID:          t.ID,
		Name:        t.Name,
		Fingerprint: t.Fingerprint,
		Alphabet:    t.Alphabet,
		Length:      t.Length,
		CreatedAt:   t.CreatedAt,
		ExpiresAt:   t.ExpiresAt,
		RevokedAt:   t.RevokedAt,
	}
}
