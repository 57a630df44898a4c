package mint

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tokenmint/tokenmint/internal/config"
	"github.com/tokenmint/tokenmint/internal/db/controller/token"
	"github.com/tokenmint/tokenmint/internal/db/models"
	"github.com/tokenmint/tokenmint/internal/randstr"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Token{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// testCfg returns mint settings with tight limits so the tests can hit them.
func testCfg() config.Mint {
	return config.Mint{
		DefaultLength:   16,
		MaxLength:       64,
		MaxCount:        5,
		DefaultAlphabet: []string{"a-z", "0-9"},
		OTPIssuer:       "TokenMint",
		OTPSecretSize:   20,
	}
}

// newTestService builds a Service over an in-memory database.
func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	svc, err := New(testCfg(), db)
	require.NoError(t, err, "failed to build mint service")

	return svc
}

// assertCharsIn fails the test when got contains a character outside allowed.
func assertCharsIn(t *testing.T, got, allowed string) {
	t.Helper()

	for _, r := range got {
		if !strings.ContainsRune(allowed, r) {
			t.Fatalf("character %q not in allowed set %q", r, allowed)
		}
	}
}

// brokenSource always fails, standing in for an exhausted randomness source.
type brokenSource struct{}

func (brokenSource) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestNewWithSource(t *testing.T) {
	db := setupTestDB(t)

	t.Run("nil source", func(t *testing.T) {
		_, err := NewWithSource(testCfg(), db, nil)
		require.ErrorIs(t, err, randstr.ErrNilSource)
	})

	t.Run("unknown default alphabet tag", func(t *testing.T) {
		cfg := testCfg()
		cfg.DefaultAlphabet = []string{"a-z", "klingon"}

		_, err := New(cfg, db)
		require.ErrorIs(t, err, randstr.ErrUnknownAlphabet)
	})

	t.Run("valid", func(t *testing.T) {
		svc, err := New(testCfg(), db)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestMintTokenDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	minted, err := svc.MintToken(TokenRequest{Name: "ci deploy"})
	require.NoError(t, err)

	assert.Len(t, minted.Secret, 16)
	assert.Equal(t, 16, minted.Record.Length)
	assert.Equal(t, "ci deploy", minted.Record.Name)
	assert.Equal(t, "a-z,0-9", minted.Record.Alphabet)
	assert.Nil(t, minted.Record.ExpiresAt)
	assert.Nil(t, minted.Record.RevokedAt)
	assert.Equal(t, models.FingerprintSecret(minted.Secret), minted.Record.Fingerprint)
	assertCharsIn(t, minted.Secret, "abcdefghijklmnopqrstuvwxyz0123456789")

	_, err = uuid.Parse(minted.Record.ID)
	require.NoError(t, err, "token id should be a uuid")

	// The record must be retrievable while the secret stays out of the database.
	stored, err := token.Get(db, minted.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, minted.Record.Fingerprint, stored.Fingerprint)
	assert.NotContains(t, stored.Fingerprint, minted.Secret)
}

func TestMintTokenValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	testCases := []struct {
		name          string
		req           TokenRequest
		expectedError error
	}{
		{
			name:          "empty name",
			req:           TokenRequest{Length: 8},
			expectedError: ErrNameRequired,
		},
		{
			name:          "length above maximum",
			req:           TokenRequest{Name: "ci deploy", Length: 65},
			expectedError: ErrLengthTooLarge,
		},
		{
			name:          "negative length",
			req:           TokenRequest{Name: "ci deploy", Length: -1},
			expectedError: randstr.ErrInvalidLength,
		},
		{
			name:          "negative ttl",
			req:           TokenRequest{Name: "ci deploy", TTL: -60},
			expectedError: ErrInvalidTTL,
		},
		{
			name:          "unknown override tag",
			req:           TokenRequest{Name: "ci deploy", Alphabet: []randstr.Alphabet{"vowels"}},
			expectedError: randstr.ErrUnknownAlphabet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			minted, err := svc.MintToken(tc.req)
			require.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, minted)
		})
	}
}

func TestMintTokenOverrideAlphabet(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	minted, err := svc.MintToken(TokenRequest{
		Name:     "hex-ish",
		Length:   40,
		Alphabet: []randstr.Alphabet{randstr.Digits, randstr.URLSafe},
	})
	require.NoError(t, err)

	assert.Equal(t, "0-9,-_", minted.Record.Alphabet)
	assertCharsIn(t, minted.Secret, "0123456789-_")

	// The override must not stick to the service.
	next, err := svc.MintToken(TokenRequest{Name: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "a-z,0-9", next.Record.Alphabet)
	assertCharsIn(t, next.Secret, "abcdefghijklmnopqrstuvwxyz0123456789")
}

func TestMintTokenTTL(t *testing.T) {
	db := setupTestDB(t)

	t.Run("explicit ttl", func(t *testing.T) {
		svc := newTestService(t, db)

		minted, err := svc.MintToken(TokenRequest{Name: "ci deploy", TTL: 3600})
		require.NoError(t, err)
		require.NotNil(t, minted.Record.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(time.Hour), *minted.Record.ExpiresAt, 5*time.Second)
	})

	t.Run("configured default ttl", func(t *testing.T) {
		cfg := testCfg()
		cfg.DefaultTTL = 60

		svc, err := New(cfg, db)
		require.NoError(t, err)

		minted, err := svc.MintToken(TokenRequest{Name: "short lived"})
		require.NoError(t, err)
		require.NotNil(t, minted.Record.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(time.Minute), *minted.Record.ExpiresAt, 5*time.Second)
	})
}

func TestMintTokenDeterministicSource(t *testing.T) {
	db := setupTestDB(t)

	cfg := testCfg()
	cfg.DefaultAlphabet = []string{"a-z"}

	// Length 4 draws one batch of 8 bytes. The first four land on a..d.
	src := bytes.NewReader([]byte{0, 1, 2, 3, 0, 0, 0, 0})

	svc, err := NewWithSource(cfg, db, src)
	require.NoError(t, err)

	minted, err := svc.MintToken(TokenRequest{Name: "ci deploy", Length: 4})
	require.NoError(t, err)

	assert.Equal(t, "abcd", minted.Secret)
	assert.Equal(t, models.FingerprintSecret("abcd"), minted.Record.Fingerprint)
}

func TestMintTokenDuplicateSecret(t *testing.T) {
	db := setupTestDB(t)

	cfg := testCfg()
	cfg.DefaultAlphabet = []string{"a-z"}

	// Two identical batches produce the same secret twice. The registry must
	// refuse the second record instead of storing two tokens behind one secret.
	src := bytes.NewReader([]byte{
		0, 1, 2, 3, 0, 0, 0, 0,
		0, 1, 2, 3, 0, 0, 0, 0,
	})

	svc, err := NewWithSource(cfg, db, src)
	require.NoError(t, err)

	_, err = svc.MintToken(TokenRequest{Name: "first", Length: 4})
	require.NoError(t, err)

	_, err = svc.MintToken(TokenRequest{Name: "second", Length: 4})
	require.ErrorIs(t, err, token.ErrTokenAlreadyExists)
}

func TestMintTokenSourceFailure(t *testing.T) {
	db := setupTestDB(t)

	svc, err := NewWithSource(testCfg(), db, brokenSource{})
	require.NoError(t, err)

	_, err = svc.MintToken(TokenRequest{Name: "ci deploy"})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMintStrings(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	t.Run("defaults", func(t *testing.T) {
		out, err := svc.MintStrings(StringsRequest{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Len(t, out[0], 16)
		assertCharsIn(t, out[0], "abcdefghijklmnopqrstuvwxyz0123456789")
	})

	t.Run("batch", func(t *testing.T) {
		out, err := svc.MintStrings(StringsRequest{Count: 3, Length: 8})
		require.NoError(t, err)
		require.Len(t, out, 3)

		seen := make(map[string]bool, len(out))
		for _, s := range out {
			assert.Len(t, s, 8)
			assert.False(t, seen[s], "batch produced duplicate string %q", s)
			seen[s] = true
		}
	})

	t.Run("override alphabet", func(t *testing.T) {
		out, err := svc.MintStrings(StringsRequest{
			Count:    2,
			Length:   12,
			Alphabet: []randstr.Alphabet{randstr.URLSafe},
		})
		require.NoError(t, err)
		require.Len(t, out, 2)

		for _, s := range out {
			assertCharsIn(t, s, "-_")
		}
	})

	t.Run("nothing persisted", func(t *testing.T) {
		before, err := token.GetAll(db)
		require.NoError(t, err)

		_, err = svc.MintStrings(StringsRequest{Count: 4})
		require.NoError(t, err)

		after, err := token.GetAll(db)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestMintStringsValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	testCases := []struct {
		name          string
		req           StringsRequest
		expectedError error
	}{
		{
			name:          "negative count",
			req:           StringsRequest{Count: -1},
			expectedError: ErrInvalidCount,
		},
		{
			name:          "count above maximum",
			req:           StringsRequest{Count: 6},
			expectedError: ErrCountTooLarge,
		},
		{
			name:          "length above maximum",
			req:           StringsRequest{Length: 65},
			expectedError: ErrLengthTooLarge,
		},
		{
			name:          "negative length",
			req:           StringsRequest{Length: -5},
			expectedError: randstr.ErrInvalidLength,
		},
		{
			name:          "unknown override tag",
			req:           StringsRequest{Alphabet: []randstr.Alphabet{"emoji"}},
			expectedError: randstr.ErrUnknownAlphabet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := svc.MintStrings(tc.req)
			require.ErrorIs(t, err, tc.expectedError)
			assert.Nil(t, out)
		})
	}
}

func TestVerifyToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	t.Run("valid secret", func(t *testing.T) {
		minted, err := svc.MintToken(TokenRequest{Name: "ci deploy"})
		require.NoError(t, err)

		record, err := svc.VerifyToken(minted.Secret)
		require.NoError(t, err)
		assert.Equal(t, minted.Record.ID, record.ID)
		assert.Equal(t, minted.Record.Name, record.Name)
	})

	t.Run("unknown secret", func(t *testing.T) {
		_, err := svc.VerifyToken("never-minted")
		require.ErrorIs(t, err, token.ErrTokenNotFound)
	})

	t.Run("revoked token", func(t *testing.T) {
		minted, err := svc.MintToken(TokenRequest{Name: "to revoke"})
		require.NoError(t, err)

		_, err = svc.RevokeToken(minted.Record.ID)
		require.NoError(t, err)

		_, err = svc.VerifyToken(minted.Secret)
		require.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("expired token", func(t *testing.T) {
		expiresAt := time.Now().Add(-time.Hour)
		seeded := models.Token{
			ID:          uuid.NewString(),
			Name:        "long gone",
			Fingerprint: models.FingerprintSecret("expired-secret"),
			Alphabet:    "a-z",
			Length:      14,
			ExpiresAt:   &expiresAt,
		}
		require.NoError(t, db.Create(&seeded).Error)

		_, err := svc.VerifyToken("expired-secret")
		require.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRevokeToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	minted, err := svc.MintToken(TokenRequest{Name: "ci deploy"})
	require.NoError(t, err)

	record, err := svc.RevokeToken(minted.Record.ID)
	require.NoError(t, err)
	require.NotNil(t, record.RevokedAt)
	assert.WithinDuration(t, time.Now(), *record.RevokedAt, 5*time.Second)

	_, err = svc.RevokeToken(minted.Record.ID)
	require.ErrorIs(t, err, token.ErrTokenAlreadyRevoked)

	_, err = svc.RevokeToken("no-such-id")
	require.ErrorIs(t, err, token.ErrTokenNotFound)
}

func TestPurgeExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	expired := time.Now().Add(-time.Hour)
	live := time.Now().Add(time.Hour)

	seed := []models.Token{
		{ID: "exp-1", Name: "old", Fingerprint: "fp-exp-1", Length: 8, ExpiresAt: &expired},
		{ID: "exp-2", Name: "older", Fingerprint: "fp-exp-2", Length: 8, ExpiresAt: &expired},
		{ID: "live-1", Name: "fresh", Fingerprint: "fp-live-1", Length: 8, ExpiresAt: &live},
		{ID: "eternal-1", Name: "keeper", Fingerprint: "fp-eternal-1", Length: 8},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	purged, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	remaining, err := token.GetAll(db)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	purged, err = svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)
}

func TestMintOTPKey(t *testing.T) {
	db := setupTestDB(t)

	t.Run("empty account", func(t *testing.T) {
		svc := newTestService(t, db)

		_, err := svc.MintOTPKey("")
		require.ErrorIs(t, err, ErrAccountRequired)
	})

	t.Run("enrollment key", func(t *testing.T) {
		svc := newTestService(t, db)

		key, err := svc.MintOTPKey("alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, "totp", key.Type())
		assert.Equal(t, "TokenMint", key.Issuer())
		assert.Equal(t, "alice@example.com", key.AccountName())
		assert.True(t, strings.HasPrefix(key.String(), "otpauth://totp/"))

		// 20 secret bytes encode to 32 base32 characters without padding.
		assert.Len(t, key.Secret(), 32)
	})

	t.Run("deterministic source", func(t *testing.T) {
		src := bytes.NewReader(make([]byte, 20))

		svc, err := NewWithSource(testCfg(), db, src)
		require.NoError(t, err)

		key, err := svc.MintOTPKey("bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("A", 32), key.Secret())
	})
}

func TestFailureReason(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "invalid length", err: randstr.ErrInvalidLength, expected: reasonValidation},
		{name: "no characters", err: randstr.ErrNoCharacters, expected: reasonValidation},
		{name: "unknown alphabet", err: randstr.ErrUnknownAlphabet, expected: reasonValidation},
		{name: "source failure", err: io.ErrUnexpectedEOF, expected: reasonGenerate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, failureReason(tc.err))
		})
	}
}

// TestIntegration walks a token through its whole life.
func TestIntegration(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	// Mint a token that expires eventually and one ephemeral batch.
	minted, err := svc.MintToken(TokenRequest{Name: "release pipeline", Length: 24, TTL: 3600})
	require.NoError(t, err)
	assert.Len(t, minted.Secret, 24)

	batch, err := svc.MintStrings(StringsRequest{Count: 2, Length: 10})
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	// The secret verifies while the token is live.
	record, err := svc.VerifyToken(minted.Secret)
	require.NoError(t, err)
	assert.Equal(t, minted.Record.ID, record.ID)

	// Only the token landed in the registry.
	all, err := token.GetAll(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// After revocation the same secret stops verifying.
	_, err = svc.RevokeToken(minted.Record.ID)
	require.NoError(t, err)

	_, err = svc.VerifyToken(minted.Secret)
	require.ErrorIs(t, err, ErrTokenRevoked)

	// The revoked record stays around until it expires.
	purged, err := svc.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)
}
