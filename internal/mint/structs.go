package mint

import (
	"github.com/tokenmint/tokenmint/internal/db/models"
	"github.com/tokenmint/tokenmint/internal/randstr"
)

// TokenRequest describes one token to mint and persist.
type TokenRequest struct {
	// Name labels the token; it is required and needs not be unique.
	Name string
	// Length of the secret in characters. Zero means the configured default.
	Length int
	// Alphabet tags to draw from. Empty means the configured default tags.
	Alphabet []randstr.Alphabet
	// TTL in seconds. Zero means the configured default, which may be "never".
	TTL int
}

// StringsRequest describes a batch of ephemeral strings to mint. Nothing
// about the batch is persisted.
type StringsRequest struct {
	// Count of strings to mint. Zero means one.
	Count int
	// Length of each string in characters. Zero means the configured default.
	Length int
	// Alphabet tags to draw from. Empty means the configured default tags.
	Alphabet []randstr.Alphabet
}

// MintedToken carries the persisted record plus the secret itself. The
// secret exists only in this value; once the caller drops it, the registry
// retains nothing but the fingerprint.
type MintedToken struct {
	Record models.Token
	Secret string
}
